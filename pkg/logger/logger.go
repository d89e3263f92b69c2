// Package logger provides the slog handler shared by the catalog binaries.
package logger

import (
	"context"
	"log/slog"

	"github.com/abgdnv/gocatalog/pkg/web"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys added to records by ContextHandler.
const (
	TraceIDKey   = "trace_id"
	SpanIDKey    = "span_id"
	RequestIDKey = "request_id"
)

// ContextHandler correlates catalog log records with the call that produced them.
// A record logged with a context carrying a sampled or remote span gets its trace and
// span IDs, and a REST request's record gets the request ID set by web.RequestIDInjector,
// so a gRPC Dispatch and the HTTP request that caused it can be joined in the log store.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: handler}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String(TraceIDKey, sc.TraceID().String()),
			slog.String(SpanIDKey, sc.SpanID().String()),
		)
	}
	if reqID, ok := web.GetRequestID(ctx); ok {
		r.AddAttrs(slog.String(RequestIDKey, reqID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.Handler.WithAttrs(attrs))
}

func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return NewContextHandler(h.Handler.WithGroup(group))
}
