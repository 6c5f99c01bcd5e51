package cli

// Coverage Notes:
// - resolveOptimizer is pure given an Env, so every branch is covered
//   with the factory mock: both providers, both missing-key errors, and
//   the unknown provider fallthrough.

import (
	"errors"
	"testing"
)

func TestResolveOptimizer(t *testing.T) {
	t.Parallel()

	t.Run("openai provider uses OPENAI_API_KEY", func(t *testing.T) {
		t.Parallel()

		env, _, mocks := testEnv()
		opt, err := resolveOptimizer(env, ProviderOpenAI)
		if err != nil {
			t.Fatalf("resolveOptimizer() error = %v", err)
		}
		if opt == nil {
			t.Fatal("resolveOptimizer() returned nil optimizer")
		}
		if keys := mocks.optimizers.OpenAIKeys(); len(keys) != 1 || keys[0] != "test-openai-key" {
			t.Errorf("OpenAI keys = %v, want [test-openai-key]", keys)
		}
	})

	t.Run("deepseek provider uses DEEPSEEK_API_KEY", func(t *testing.T) {
		t.Parallel()

		env, _, mocks := testEnv()
		if _, err := resolveOptimizer(env, ProviderDeepSeek); err != nil {
			t.Fatalf("resolveOptimizer() error = %v", err)
		}
		if keys := mocks.optimizers.DeepSeekKeys(); len(keys) != 1 || keys[0] != "test-deepseek-key" {
			t.Errorf("DeepSeek keys = %v, want [test-deepseek-key]", keys)
		}
	})

	t.Run("missing openai key", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(WithGetenv(staticEnv(nil)))
		_, err := resolveOptimizer(env, ProviderOpenAI)
		if !errors.Is(err, ErrAPIKeyMissing) {
			t.Errorf("resolveOptimizer() error = %v, want ErrAPIKeyMissing", err)
		}
	})

	t.Run("missing deepseek key", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(WithGetenv(staticEnv(map[string]string{
			"OPENAI_API_KEY": "present",
		})))
		_, err := resolveOptimizer(env, ProviderDeepSeek)
		if !errors.Is(err, ErrDeepSeekKeyMissing) {
			t.Errorf("resolveOptimizer() error = %v, want ErrDeepSeekKeyMissing", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		_, err := resolveOptimizer(env, "mistral")
		if !errors.Is(err, ErrUnsupportedProvider) {
			t.Errorf("resolveOptimizer() error = %v, want ErrUnsupportedProvider", err)
		}
	})
}
