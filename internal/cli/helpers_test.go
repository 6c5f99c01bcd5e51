package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent command output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	optimizers   *mockOptimizerFactory
	clipboard    *mockClipboard
}

func newTestMocks() *testMocks {
	return &testMocks{
		configLoader: &mockConfigLoader{},
		optimizers:   &mockOptimizerFactory{},
		clipboard:    &mockClipboard{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env, its stderr buffer, and the mocks for assertions.
func testEnv(opts ...EnvOption) (*Env, *syncBuffer, *testMocks) {
	stderr := &syncBuffer{}
	mocks := newTestMocks()

	base := []EnvOption{
		WithStderr(stderr),
		WithStdin(strings.NewReader("")),
		WithGetenv(defaultTestEnv),
		WithNow(fixedTime(time.Date(2026, 8, 26, 14, 30, 52, 0, time.UTC))),
		WithConfigLoader(mocks.configLoader),
		WithOptimizerFactory(mocks.optimizers),
		WithClipboard(mocks.clipboard.Write),
	}
	return NewEnv(append(base, opts...)...), stderr, mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function backed by the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv returns API keys for both OpenAI and DeepSeek.
func defaultTestEnv(key string) string {
	switch key {
	case "OPENAI_API_KEY":
		return "test-openai-key"
	case "DEEPSEEK_API_KEY":
		return "test-deepseek-key"
	default:
		return ""
	}
}

// plainPayload is a minimal caption payload in the plain fragment format.
const plainPayload = `[
	{"text": "so the first idea is simple.", "offset": 0, "duration": 1500},
	{"text": "every caption keeps its timestamp.", "offset": 2000, "duration": 1500}
]`

// writeCaptionFile writes a caption payload into a temp dir and returns
// its path.
func writeCaptionFile(t *testing.T, name, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("failed to write caption file: %v", err)
	}
	return path
}
