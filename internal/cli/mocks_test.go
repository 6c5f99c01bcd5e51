package cli

import (
	"context"
	"sync"

	"github.com/mlaurent/go-captions/internal/config"
	"github.com/mlaurent/go-captions/internal/optimize"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock OptimizerFactory + Optimizer
// ---------------------------------------------------------------------------

type mockOptimizerFactory struct {
	NewOpenAIFunc   func(apiKey string, opts ...optimize.Option) (optimize.Optimizer, error)
	NewDeepSeekFunc func(apiKey string, opts ...optimize.Option) (optimize.Optimizer, error)

	mu           sync.Mutex
	openAIKeys   []string
	deepSeekKeys []string
}

func (m *mockOptimizerFactory) NewOpenAI(apiKey string, opts ...optimize.Option) (optimize.Optimizer, error) {
	m.mu.Lock()
	m.openAIKeys = append(m.openAIKeys, apiKey)
	m.mu.Unlock()

	if m.NewOpenAIFunc != nil {
		return m.NewOpenAIFunc(apiKey, opts...)
	}
	return &mockOptimizer{}, nil
}

func (m *mockOptimizerFactory) NewDeepSeek(apiKey string, opts ...optimize.Option) (optimize.Optimizer, error) {
	m.mu.Lock()
	m.deepSeekKeys = append(m.deepSeekKeys, apiKey)
	m.mu.Unlock()

	if m.NewDeepSeekFunc != nil {
		return m.NewDeepSeekFunc(apiKey, opts...)
	}
	return &mockOptimizer{}, nil
}

func (m *mockOptimizerFactory) OpenAIKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.openAIKeys...)
}

func (m *mockOptimizerFactory) DeepSeekKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deepSeekKeys...)
}

type mockOptimizer struct {
	OptimizeFunc func(ctx context.Context, text string) (string, error)

	mu            sync.Mutex
	optimizeCalls []string
}

func (m *mockOptimizer) Optimize(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.optimizeCalls = append(m.optimizeCalls, text)
	m.mu.Unlock()

	if m.OptimizeFunc != nil {
		return m.OptimizeFunc(ctx, text)
	}
	return text, nil
}

func (m *mockOptimizer) OptimizeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.optimizeCalls...)
}

// ---------------------------------------------------------------------------
// Mock clipboard
// ---------------------------------------------------------------------------

type mockClipboard struct {
	WriteFunc func(text string) error

	mu     sync.Mutex
	writes []string
}

func (m *mockClipboard) Write(text string) error {
	m.mu.Lock()
	m.writes = append(m.writes, text)
	m.mu.Unlock()

	if m.WriteFunc != nil {
		return m.WriteFunc(text)
	}
	return nil
}

func (m *mockClipboard) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

// Compile-time interface checks.
var (
	_ ConfigLoader     = (*mockConfigLoader)(nil)
	_ OptimizerFactory = (*mockOptimizerFactory)(nil)
)
