package optimize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mlaurent/go-captions/internal/apierr"
)

// Default configuration values.
const (
	defaultModel          = "gpt-4o-mini"
	defaultMaxInputTokens = 100000

	// DeepSeek is driven through the same chat-completion client with a
	// different base URL and model.
	deepSeekBaseURL = "https://api.deepseek.com/v1"
	deepSeekModel   = "deepseek-chat"

	// Retry configuration: rewriting a full transcript is one long call,
	// so few retries with generous backoff.
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// defaultPrompt instructs the model to clean up transcript text without
// inventing or dropping content. Sentence-final punctuation matters: the
// assembler splits the returned text on it.
const defaultPrompt = `You are a transcript editor. Rewrite the following raw video transcript ` +
	`into clean, readable prose. Fix punctuation and casing, remove filler words and ` +
	`false starts, and keep every statement's meaning intact. Do not summarize, do not ` +
	`add content, and do not reorder statements. End every sentence with terminal ` +
	`punctuation. Reply with the rewritten text only.`

// chatCompleter is an internal interface for chat completion.
// *openai.Client implements this implicitly; tests inject mocks.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ Optimizer = (*OpenAIOptimizer)(nil)

// OpenAIOptimizer rewrites transcripts using an OpenAI-compatible chat
// completion API, with automatic retries and exponential backoff for
// transient errors.
type OpenAIOptimizer struct {
	client         chatCompleter
	model          string
	prompt         string
	maxInputTokens int
	maxRetries     int
	baseDelay      time.Duration
	maxDelay       time.Duration
}

// Option configures an OpenAIOptimizer.
type Option func(*OpenAIOptimizer)

// WithModel sets the chat completion model.
func WithModel(model string) Option {
	return func(o *OpenAIOptimizer) {
		o.model = model
	}
}

// WithPrompt replaces the default rewriting instruction.
func WithPrompt(prompt string) Option {
	return func(o *OpenAIOptimizer) {
		o.prompt = prompt
	}
}

// WithMaxInputTokens sets the maximum input token limit.
func WithMaxInputTokens(n int) Option {
	return func(o *OpenAIOptimizer) {
		o.maxInputTokens = n
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) Option {
	return func(o *OpenAIOptimizer) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) Option {
	return func(o *OpenAIOptimizer) {
		if base > 0 {
			o.baseDelay = base
		}
		if max > 0 {
			o.maxDelay = max
		}
	}
}

// withChatCompleter sets a custom chat completer (for testing).
func withChatCompleter(cc chatCompleter) Option {
	return func(o *OpenAIOptimizer) {
		o.client = cc
	}
}

// NewOpenAIOptimizer creates an optimizer backed by OpenAI's chat
// completion API. Returns ErrEmptyAPIKey if apiKey is blank.
func NewOpenAIOptimizer(apiKey string, opts ...Option) (*OpenAIOptimizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrEmptyAPIKey
	}
	return newOptimizer(openai.NewClient(apiKey), opts...), nil
}

// NewDeepSeekOptimizer creates an optimizer backed by DeepSeek's
// OpenAI-compatible chat completion API.
func NewDeepSeekOptimizer(apiKey string, opts ...Option) (*OpenAIOptimizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrEmptyAPIKey
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = deepSeekBaseURL
	o := newOptimizer(openai.NewClientWithConfig(cfg), opts...)
	if o.model == defaultModel {
		o.model = deepSeekModel
	}
	return o, nil
}

func newOptimizer(client *openai.Client, opts ...Option) *OpenAIOptimizer {
	o := &OpenAIOptimizer{
		client:         client,
		model:          defaultModel,
		prompt:         defaultPrompt,
		maxInputTokens: defaultMaxInputTokens,
		maxRetries:     defaultMaxRetries,
		baseDelay:      defaultBaseDelay,
		maxDelay:       defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize rewrites text through the chat completion API.
// Returns ErrTextTooLong if the estimated token count exceeds the input
// limit. Transient errors (rate limits, timeouts, 5xx) are retried with
// exponential backoff.
func (o *OpenAIOptimizer) Optimize(ctx context.Context, text string) (string, error) {
	if estimated := estimateTokens(text); estimated > o.maxInputTokens {
		return "", fmt.Errorf("transcript too long (%dK tokens estimated, max %dK): %w",
			estimated/1000, o.maxInputTokens/1000, ErrTextTooLong)
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0, // Deterministic output for reproducibility
	}

	cfg := apierr.RetryConfig{
		MaxRetries: o.maxRetries,
		BaseDelay:  o.baseDelay,
		MaxDelay:   o.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := o.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response from API")
		}
		return resp.Choices[0].Message.Content, nil
	}, isRetryable)
}

// classifyError maps API errors to apierr sentinels.
// Uses errors.As for robust error type checking instead of string matching.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Distinguish temporary rate limits from exhausted quota.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest:
			if strings.Contains(apiErr.Message, "context_length") ||
				strings.Contains(apiErr.Message, "maximum context length") {
				return fmt.Errorf("API rejected: %w", ErrTextTooLong)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// isRetryable determines if an error is transient and worth retrying.
func isRetryable(err error) bool {
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrTimeout) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, ErrTextTooLong) {
		return false
	}

	// Server errors (5xx) are retryable.
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
