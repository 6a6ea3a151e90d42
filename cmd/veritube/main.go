// Command veritube is an MCP server exposing YouTube transcript retrieval,
// segment extraction, speaker identification, and claim-verification tools.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veritube/veritube/internal/config"
	"github.com/veritube/veritube/internal/health"
	"github.com/veritube/veritube/internal/observe"
	"github.com/veritube/veritube/internal/search"
	"github.com/veritube/veritube/internal/tools"
	"github.com/veritube/veritube/internal/youtube"
)

const version = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	mockSearch := flag.Bool("mock-search", false, "force mock search results regardless of config")
	flag.Parse()

	// ── Logger ────────────────────────────────────────────────────────────────
	// Logs go to stderr unconditionally: stdout belongs to the MCP stdio
	// transport and a single stray line there corrupts the session.
	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// ── Load configuration ────────────────────────────────────────────────────
	// A missing config file is fine; MCP hosts often spawn the binary with no
	// working directory setup, and every setting has a usable default.
	cfg := &config.Config{}
	var watcher *config.Watcher
	if _, err := os.Stat(*configPath); err == nil {
		watcher, err = config.NewWatcher(*configPath, func(old, new *config.Config) {
			applyConfigChange(level, old, new)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "veritube: %v\n", err)
			return 1
		}
		defer watcher.Stop()
		cfg = watcher.Current()
	} else {
		slog.Info("no config file found, using defaults", "path", *configPath)
	}
	if *mockSearch {
		cfg.Search.MockMode = true
	}
	level.Set(logLevel(cfg.Server.LogLevel))

	transport := cfg.Server.Transport
	if transport == "" {
		transport = config.TransportStdio
	}

	slog.Info("veritube starting",
		"version", version,
		"transport", transport,
		"log_level", cfg.Server.LogLevel,
		"mock_search", cfg.Search.MockMode,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.Setup(ctx, version, nil)
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Collaborators ─────────────────────────────────────────────────────────
	var ytOpts []youtube.Option
	if cfg.YouTube.UserAgent != "" {
		ytOpts = append(ytOpts, youtube.WithUserAgent(cfg.YouTube.UserAgent))
	}
	if cfg.YouTube.Timeout > 0 {
		ytOpts = append(ytOpts, youtube.WithHTTPClient(&http.Client{Timeout: cfg.YouTube.Timeout.Std()}))
	}
	yt := youtube.NewClient(ytOpts...)

	var searchOpts []search.Option
	if cfg.Search.Endpoint != "" {
		searchOpts = append(searchOpts, search.WithEndpoint(cfg.Search.Endpoint))
	}
	if cfg.Search.ResultCount > 0 {
		searchOpts = append(searchOpts, search.WithResultCount(cfg.Search.ResultCount))
	}
	searchOpts = append(searchOpts, search.WithMockMode(cfg.Search.MockMode))
	sc := search.NewClient(cfg.Search.APIKey, searchOpts...)

	// ── MCP server ────────────────────────────────────────────────────────────
	svc := tools.NewService(yt, sc, metrics, tools.Options{
		ContextRadius:         cfg.Transcript.ContextRadius,
		FlushTrailingChapters: cfg.Transcript.FlushTrailingChapters,
	})
	server := mcp.NewServer(&mcp.Implementation{Name: "veritube", Version: version}, nil)
	svc.Register(server)

	// ── Admin server (health + metrics) ───────────────────────────────────────
	if cfg.Server.AdminAddr != "" {
		admin := newAdminServer(cfg, metrics)
		go func() {
			slog.Info("admin server listening", "addr", cfg.Server.AdminAddr)
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("admin server error", "err", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := admin.Shutdown(sctx); err != nil {
				slog.Warn("admin server shutdown error", "err", err)
			}
		}()
	}

	// ── Serve ─────────────────────────────────────────────────────────────────
	switch transport {
	case config.TransportStreamableHTTP:
		err = serveStreamableHTTP(ctx, server, cfg.Server.ListenAddr)
	default:
		slog.Info("serving MCP over stdio")
		err = server.Run(ctx, &mcp.StdioTransport{})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// serveStreamableHTTP exposes the MCP server over the streamable HTTP
// transport until ctx is cancelled.
func serveStreamableHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	srv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving MCP over streamable HTTP", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}

// newAdminServer builds the HTTP server carrying /healthz, /readyz, and
// /metrics, wrapped in the observability middleware.
func newAdminServer(cfg *config.Config, metrics *observe.Metrics) *http.Server {
	searchCheck := health.Check{
		Name: "search",
		Probe: func(context.Context) error {
			if cfg.Search.APIKey == "" && !cfg.Search.MockMode {
				return search.ErrUnconfigured
			}
			return nil
		},
	}

	mux := http.NewServeMux()
	health.NewHandler(searchCheck).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	return &http.Server{
		Addr:    cfg.Server.AdminAddr,
		Handler: observe.Middleware(metrics)(mux),
	}
}

// applyConfigChange applies the hot-reloadable parts of a config change.
func applyConfigChange(level *slog.LevelVar, old, new *config.Config) {
	d := config.Diff(old, new)
	if !d.Any() {
		return
	}
	if d.LogLevelChanged {
		level.Set(logLevel(d.NewLogLevel))
		slog.Info("log level changed", "level", d.NewLogLevel)
	}
	if d.SearchChanged || d.TranscriptChanged {
		slog.Warn("search or transcript settings changed on disk; restart to apply")
	}
}

func logLevel(l config.LogLevel) slog.Level {
	switch l {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
