package cli

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	t.Run("all dependencies have production defaults", func(t *testing.T) {
		t.Parallel()

		env := DefaultEnv()
		if env.Stderr == nil || env.Stdin == nil || env.Getenv == nil || env.Now == nil {
			t.Error("DefaultEnv() left I/O fields nil")
		}
		if env.ConfigLoader == nil {
			t.Error("DefaultEnv() left ConfigLoader nil")
		}
		if env.OptimizerFactory == nil {
			t.Error("DefaultEnv() left OptimizerFactory nil")
		}
		if env.WriteClipboard == nil {
			t.Error("DefaultEnv() left WriteClipboard nil")
		}
	})

	t.Run("options override defaults", func(t *testing.T) {
		t.Parallel()

		stderr := &syncBuffer{}
		at := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
		env := DefaultEnv(
			WithStderr(stderr),
			WithStdin(strings.NewReader("payload")),
			WithGetenv(staticEnv(map[string]string{"KEY": "value"})),
			WithNow(fixedTime(at)),
		)

		if env.Stderr != stderr {
			t.Error("WithStderr not applied")
		}
		if got := env.Getenv("KEY"); got != "value" {
			t.Errorf("Getenv(KEY) = %q, want %q", got, "value")
		}
		if got := env.Now(); !got.Equal(at) {
			t.Errorf("Now() = %v, want %v", got, at)
		}
	})

	t.Run("production factory validates API keys", func(t *testing.T) {
		t.Parallel()

		env := DefaultEnv()
		if _, err := env.OptimizerFactory.NewOpenAI(""); err == nil {
			t.Error("NewOpenAI(\"\") = nil error, want key validation error")
		}
		if _, err := env.OptimizerFactory.NewDeepSeek(""); err == nil {
			t.Error("NewDeepSeek(\"\") = nil error, want key validation error")
		}
	})
}
