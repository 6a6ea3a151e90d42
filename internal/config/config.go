// Package config provides the configuration schema, loader, and file watcher
// for the veritube server.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written in the usual
// "10s" / "1m30s" form.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// LogLevel controls log verbosity for the veritube server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Transport selects how the MCP server is exposed.
type Transport string

const (
	// TransportStdio serves MCP over stdin/stdout. This is the default and
	// what MCP hosts spawning the binary as a subprocess expect.
	TransportStdio Transport = "stdio"

	// TransportStreamableHTTP serves MCP over the streamable HTTP transport
	// on Server.ListenAddr.
	TransportStreamableHTTP Transport = "streamable-http"
)

// IsValid reports whether t is a recognised transport.
func (t Transport) IsValid() bool {
	return t == TransportStdio || t == TransportStreamableHTTP
}

// Config is the root configuration structure for veritube.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Search     SearchConfig     `yaml:"search"`
	Transcript TranscriptConfig `yaml:"transcript"`
}

// ServerConfig holds transport and logging settings for the MCP server.
type ServerConfig struct {
	// LogLevel controls verbosity. Logs always go to stderr so they never
	// corrupt the stdio MCP stream.
	LogLevel LogLevel `yaml:"log_level"`

	// Transport selects stdio (default) or streamable-http.
	Transport Transport `yaml:"transport"`

	// ListenAddr is the TCP address for the streamable-http transport
	// (e.g., ":8080"). Required when Transport is streamable-http.
	ListenAddr string `yaml:"listen_addr"`

	// AdminAddr is the TCP address for the admin endpoints (/healthz,
	// /readyz, /metrics). Empty disables the admin server.
	AdminAddr string `yaml:"admin_addr"`
}

// YouTubeConfig tunes the YouTube scraping client.
type YouTubeConfig struct {
	// UserAgent overrides the browser-like User-Agent sent on watch-page
	// requests. Leave empty for the built-in default.
	UserAgent string `yaml:"user_agent"`

	// Timeout bounds each HTTP request to YouTube. Zero means the client
	// default.
	Timeout Duration `yaml:"timeout"`
}

// SearchConfig configures the web search client used for claim verification.
type SearchConfig struct {
	// APIKey authenticates against the search API. When empty and MockMode
	// is false, search tools report that no key is configured.
	APIKey string `yaml:"api_key"`

	// Endpoint overrides the search API URL. Leave empty for the default.
	Endpoint string `yaml:"endpoint"`

	// MockMode returns deterministic synthetic results instead of calling
	// the API. Useful for development and demos without a key.
	MockMode bool `yaml:"mock_mode"`

	// ResultCount is how many results each query requests. Zero means the
	// client default.
	ResultCount int `yaml:"result_count"`
}

// TranscriptConfig tunes transcript presentation defaults.
type TranscriptConfig struct {
	// ContextRadius is the default half-width, in seconds, of the cue window
	// returned around a timestamp. Zero means the built-in default.
	ContextRadius float64 `yaml:"context_radius"`

	// FlushTrailingChapters emits chapter markers whose start time lies past
	// the final transcript window. Off by default: such markers would dangle
	// after the last spoken text.
	FlushTrailingChapters bool `yaml:"flush_trailing_chapters"`
}
