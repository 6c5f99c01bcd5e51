// Package cli implements the captions command-line interface.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"

	"github.com/mlaurent/go-captions/internal/config"
	"github.com/mlaurent/go-captions/internal/optimize"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing commands in
// isolation. All fields have production defaults via DefaultEnv; tests
// override specific fields with the With* options.
type Env struct {
	// I/O and environment
	Stderr io.Writer
	Stdin  io.Reader
	Getenv func(string) string
	Now    func() time.Time

	// Collaborators
	ConfigLoader     ConfigLoader
	OptimizerFactory OptimizerFactory
	WriteClipboard   func(text string) error
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// OptimizerFactory creates external text optimizers.
type OptimizerFactory interface {
	NewOpenAI(apiKey string, opts ...optimize.Option) (optimize.Optimizer, error)
	NewDeepSeek(apiKey string, opts ...optimize.Option) (optimize.Optimizer, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithOptimizerFactory sets the optimizer factory.
func WithOptimizerFactory(f OptimizerFactory) EnvOption {
	return func(e *Env) {
		e.OptimizerFactory = f
	}
}

// WithClipboard sets the clipboard writer.
func WithClipboard(fn func(string) error) EnvOption {
	return func(e *Env) {
		e.WriteClipboard = fn
	}
}

// DefaultEnv creates an Env with production defaults.
func DefaultEnv(opts ...EnvOption) *Env {
	e := &Env{
		Stderr:           os.Stderr,
		Stdin:            os.Stdin,
		Getenv:           os.Getenv,
		Now:              time.Now,
		ConfigLoader:     fileConfigLoader{},
		OptimizerFactory: apiOptimizerFactory{},
		WriteClipboard:   clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEnv is an alias for DefaultEnv, kept for call-site readability in
// tests that override most fields.
func NewEnv(opts ...EnvOption) *Env {
	return DefaultEnv(opts...)
}

// fileConfigLoader loads config from the user config file.
type fileConfigLoader struct{}

func (fileConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// apiOptimizerFactory creates real API-backed optimizers.
type apiOptimizerFactory struct{}

func (apiOptimizerFactory) NewOpenAI(apiKey string, opts ...optimize.Option) (optimize.Optimizer, error) {
	return optimize.NewOpenAIOptimizer(apiKey, opts...)
}

func (apiOptimizerFactory) NewDeepSeek(apiKey string, opts ...optimize.Option) (optimize.Optimizer, error) {
	return optimize.NewDeepSeekOptimizer(apiKey, opts...)
}
