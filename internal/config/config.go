// Package config loads user configuration from a key=value file in the
// XDG config directory, with environment variable fallbacks.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config keys.
const (
	KeyOutputDir    = "output-dir"
	KeyCJKThreshold = "cjk-threshold"
	KeyMinSentences = "min-sentences"
	KeyMaxSentences = "max-sentences"
)

// Environment variable fallbacks.
const (
	EnvOutputDir = "CAPTIONS_OUTPUT_DIR"
)

// Config holds user configuration loaded from ~/.config/go-captions/config.
// Zero-valued fields mean "use the package default" downstream.
type Config struct {
	OutputDir    string
	CJKThreshold float64
	MinSentences int
	MaxSentences int
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-captions.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "go-captions"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "go-captions"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
// Malformed numeric values are an error; absent keys are not.
func Load() (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			data = map[string]string{}
		} else {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.OutputDir = data[KeyOutputDir]
	if cfg.OutputDir == "" {
		cfg.OutputDir = os.Getenv(EnvOutputDir)
	}

	if v := data[KeyCJKThreshold]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 1 {
			return cfg, fmt.Errorf("invalid %s %q (want a ratio in (0,1]): %w", KeyCJKThreshold, v, ErrInvalidValue)
		}
		cfg.CJKThreshold = f
	}

	if cfg.MinSentences, err = intKey(data, KeyMinSentences); err != nil {
		return cfg, err
	}
	if cfg.MaxSentences, err = intKey(data, KeyMaxSentences); err != nil {
		return cfg, err
	}
	if cfg.MinSentences > 0 && cfg.MaxSentences > 0 && cfg.MaxSentences < cfg.MinSentences {
		return cfg, fmt.Errorf("%s (%d) below %s (%d): %w",
			KeyMaxSentences, cfg.MaxSentences, KeyMinSentences, cfg.MinSentences, ErrInvalidValue)
	}

	return cfg, nil
}

// intKey parses a positive integer key, returning 0 when absent.
func intKey(data map[string]string, key string) (int, error) {
	v := data[key]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q (want a positive integer): %w", key, v, ErrInvalidValue)
	}
	return n, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: %q: %w", lineNum, line, ErrInvalidSyntax)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		data[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n") {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}

	p, err := path()
	if err != nil {
		return err
	}

	d := filepath.Dir(p)
	if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for key, value := range data {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
// Returns the path unchanged if expansion isn't needed or fails.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// EnsureOutputDir validates that the output directory exists and is
// writable, creating it if missing. A leading ~ is expanded first.
func EnsureOutputDir(p string) error {
	if p == "" {
		return fmt.Errorf("empty path: %w", ErrNotDirectory)
	}
	p = ExpandPath(p)

	info, err := os.Stat(p)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", p, ErrNotDirectory)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(p, 0750); err != nil { // #nosec G301 -- user output dir
			return fmt.Errorf("cannot create %s: %w", p, err)
		}
	default:
		return fmt.Errorf("cannot stat %s: %w", p, err)
	}

	// Probe writability. os.Stat permission bits don't account for
	// ownership or ACLs, so attempt a real create instead.
	probe, err := os.CreateTemp(p, ".captions-probe-*")
	if err != nil {
		return fmt.Errorf("%s: %w", p, ErrNotWritable)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}
