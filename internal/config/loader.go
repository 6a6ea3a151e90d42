package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.Transport != "" && !cfg.Server.Transport.IsValid() {
		errs = append(errs, fmt.Errorf("server.transport %q is invalid; valid values: stdio, streamable-http", cfg.Server.Transport))
	}
	if cfg.Server.Transport == TransportStreamableHTTP && cfg.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required when transport is streamable-http"))
	}

	if cfg.YouTube.Timeout < 0 {
		errs = append(errs, fmt.Errorf("youtube.timeout %s is negative", cfg.YouTube.Timeout))
	}

	if cfg.Search.ResultCount < 0 {
		errs = append(errs, fmt.Errorf("search.result_count %d is negative", cfg.Search.ResultCount))
	}
	if cfg.Search.APIKey == "" && !cfg.Search.MockMode {
		slog.Warn("search.api_key is empty and mock_mode is off; claim verification searches will be unavailable")
	}
	if cfg.Search.APIKey != "" && cfg.Search.MockMode {
		slog.Warn("search.mock_mode is on; the configured api_key will be ignored")
	}

	if cfg.Transcript.ContextRadius < 0 {
		errs = append(errs, fmt.Errorf("transcript.context_radius %.1f is negative", cfg.Transcript.ContextRadius))
	}

	return errors.Join(errs...)
}
