package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mlaurent/go-captions/internal/config"
)

// validConfigKeys lists all supported configuration keys.
var validConfigKeys = []string{
	config.KeyOutputDir,
	config.KeyCJKThreshold,
	config.KeyMinSentences,
	config.KeyMaxSentences,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-captions/config.
Settings can also be overridden via environment variables.

Supported settings:
  output-dir       Default directory for output files (env: CAPTIONS_OUTPUT_DIR)
  cjk-threshold    CJK rune ratio for CJK classification (0-1)
  min-sentences    Sentences before a topic cue may break a paragraph
  max-sentences    Hard cap on sentences per paragraph`,
		Example: `  captions config set output-dir ~/Documents/notes
  captions config set max-sentences 6
  captions config get cjk-threshold
  captions config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a configuration value",
		Example: `  captions config set output-dir ~/Documents/notes`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Get a configuration value",
		Example: `  captions config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all configuration values",
		Example: `  captions config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

func runConfigSet(env *Env, key, value string) error {
	if !slices.Contains(validConfigKeys, key) {
		return fmt.Errorf("unknown config key %q (valid: %v): %w", key, validConfigKeys, config.ErrInvalidValue)
	}
	prev, err := config.Get(key)
	if err != nil {
		return err
	}
	if err := config.Save(key, value); err != nil {
		return err
	}
	// Re-load to surface validation errors (bad ratios, crossed bounds)
	// at set time rather than on the next format run. On failure the
	// previous value is restored so the file stays loadable.
	if _, err := config.Load(); err != nil {
		_ = config.Save(key, prev)
		return err
	}
	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

func runConfigGet(env *Env, key string) error {
	if !slices.Contains(validConfigKeys, key) {
		return fmt.Errorf("unknown config key %q (valid: %v): %w", key, validConfigKeys, config.ErrInvalidValue)
	}
	value, err := config.Get(key)
	if err != nil {
		return err
	}
	if value != "" {
		fmt.Fprintln(env.Stderr, value)
	}
	return nil
}

func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}
	for _, key := range validConfigKeys {
		if value, ok := data[key]; ok {
			fmt.Fprintf(env.Stderr, "%s = %s\n", key, value)
		}
	}
	return nil
}
