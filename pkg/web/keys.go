package web

import "context"

// RequestIDHeader carries the request ID on REST requests and, lower-cased, in gRPC
// metadata, so a catalog call can be followed from the HTTP edge through Dispatch.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID returns ctx carrying id. An empty id is stored but never reported.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the request ID carried by ctx, if any.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
