// Package log carries the slog plumbing shared by the server and the
// notifier binaries.
package log

import (
	"context"
	"log/slog"

	"github.com/HalleluyahGirl/ExpenseApp/internal/requestid"
)

const requestIDAttr = "request_id"

// ContextHandler decorates an slog.Handler so records logged under a
// request-scoped context carry the request id without every call site
// having to pass it.
type ContextHandler struct {
	next slog.Handler
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := requestid.FromContext(ctx); id != "" {
		r.AddAttrs(slog.String(requestIDAttr, id))
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
