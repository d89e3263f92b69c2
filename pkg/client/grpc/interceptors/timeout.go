package interceptors

import (
	"context"
	"time"

	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"google.golang.org/grpc"
)

// TimeoutFunc returns the attempt bound for a catalog operation.
// A non-positive bound leaves the call governed by the caller's context only.
type TimeoutFunc func(op string) time.Duration

// UnaryClientTimeoutInterceptor bounds every attempt of a catalog call. The bound is
// looked up by the operation carried in the request envelope, so a slow report such as
// stockValuation can be given more time than a point lookup.
func UnaryClientTimeoutInterceptor(timeoutFor TimeoutFunc) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		var op string
		if env, ok := req.(*catalogv1.Envelope); ok {
			op = string(env.Op)
		}
		timeout := timeoutFor(op)
		if timeout <= 0 {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return invoker(callCtx, method, req, reply, cc, opts...)
	}
}

// FixedTimeout applies the same bound to every operation.
func FixedTimeout(d time.Duration) TimeoutFunc {
	return func(string) time.Duration { return d }
}
