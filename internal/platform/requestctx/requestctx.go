// Package requestctx carries per-request metadata through context.Context.
package requestctx

import "context"

// Meta identifies one inbound request across log lines and outbound calls.
type Meta struct {
	RequestID string
	Method    string
	Path      string
}

type contextKey struct{}

func With(ctx context.Context, meta Meta) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, meta)
}

func From(ctx context.Context) (Meta, bool) {
	if ctx == nil {
		return Meta{}, false
	}
	meta, ok := ctx.Value(contextKey{}).(Meta)
	return meta, ok
}

// RequestID returns the request id stored in ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	meta, _ := From(ctx)
	return meta.RequestID
}
