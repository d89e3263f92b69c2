package catalog

import (
	"errors"
	"fmt"

	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

var (
	// ErrValidation is returned when the service rejected the input.
	ErrValidation = errors.New("catalog: validation failed")
	// ErrNotFound is returned when a referenced category or product does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrConflict is returned when a category is still referenced by products.
	ErrConflict = errors.New("catalog: conflict")
	// ErrServiceUnavailable is returned when the service answered but could not serve the request,
	// or when the circuit breaker is open.
	ErrServiceUnavailable = errors.New("catalog: service unavailable")
	// ErrConnectionLost is returned when no answer from the service was received.
	// A mutation may or may not have been applied.
	ErrConnectionLost = errors.New("catalog: connection lost")
)

// classify turns an RPC failure into one of the client error kinds. Only statuses carrying
// the catalog ErrorInfo come from the service itself; anything else is a transport failure.
func classify(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", ErrConnectionLost, err)
	}
	switch catalogReason(st) {
	case catalogv1.ReasonValidation:
		return fmt.Errorf("%w: %s", ErrValidation, st.Message())
	case catalogv1.ReasonNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case catalogv1.ReasonConflict:
		return fmt.Errorf("%w: %s", ErrConflict, st.Message())
	case catalogv1.ReasonUnavailable:
		return fmt.Errorf("%w: %s", ErrServiceUnavailable, st.Message())
	default:
		return fmt.Errorf("%w: %s: %s", ErrConnectionLost, st.Code(), st.Message())
	}
}

func catalogReason(st *status.Status) string {
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.Domain == catalogv1.ErrorDomain {
			return info.Reason
		}
	}
	return ""
}
