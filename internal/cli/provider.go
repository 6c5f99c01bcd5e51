package cli

import (
	"fmt"

	"github.com/mlaurent/go-captions/internal/optimize"
)

// Optimizer providers selectable via --provider.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// resolveOptimizer builds the optimizer for the requested provider,
// reading the provider's API key from the environment.
func resolveOptimizer(env *Env, provider string) (optimize.Optimizer, error) {
	switch provider {
	case ProviderOpenAI:
		key := env.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, ErrAPIKeyMissing
		}
		return env.OptimizerFactory.NewOpenAI(key)
	case ProviderDeepSeek:
		key := env.Getenv("DEEPSEEK_API_KEY")
		if key == "" {
			return nil, ErrDeepSeekKeyMissing
		}
		return env.OptimizerFactory.NewDeepSeek(key)
	default:
		return nil, fmt.Errorf("%q (use openai or deepseek): %w", provider, ErrUnsupportedProvider)
	}
}
