package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// scopeName is the instrumentation scope for veritube telemetry.
const scopeName = "github.com/veritube/veritube"

// CorrelationID returns the trace id of the active span in ctx, or "" when
// there is none. The trace id doubles as the correlation identifier in logs
// and in the X-Correlation-ID response header.
func CorrelationID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// Logger returns the default logger enriched with trace_id and span_id when
// ctx carries an active span, and the plain default logger otherwise. Tool
// handlers log through this so MCP-over-HTTP requests can be followed across
// log lines.
func Logger(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		l = l.With(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}
