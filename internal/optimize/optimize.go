// Package optimize provides the optional external text-rewriting
// capability the paragraph assembler may invoke before splitting. The
// core treats it as an injected capability: Noop is the default, and
// API-backed implementations classify their failures into apierr
// sentinels so callers can degrade gracefully.
package optimize

import "context"

// Optimizer rewrites a full transcript into more readable prose before
// paragraph splitting. Implementations must not alter factual content.
type Optimizer interface {
	// Optimize returns the rewritten text. An error means the caller
	// should proceed with the original text.
	Optimize(ctx context.Context, text string) (string, error)
}

// Noop is the identity optimizer and the default capability wired into
// the assembler: zero compile-time dependency on any external service.
type Noop struct{}

// Compile-time interface compliance check.
var _ Optimizer = Noop{}

// Optimize returns text unchanged.
func (Noop) Optimize(_ context.Context, text string) (string, error) {
	return text, nil
}

// Token estimation: conservative at ~3 chars/token so mixed-language
// transcripts never blow past the provider's context window.
const defaultCharsPerToken = 3

func estimateTokens(text string) int {
	return len(text) / defaultCharsPerToken
}
