// Package grpc provides a gRPC server for the catalog service.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Dispatcher serves decoded catalog requests.
type Dispatcher interface {
	Dispatch(ctx context.Context, req catalogv1.Request) (catalogv1.Response, error)
}

type Server struct {
	service Dispatcher
	logger  *slog.Logger
}

var _ catalogv1.CatalogServiceServer = (*Server)(nil)

func NewServer(service Dispatcher, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

// Dispatch decodes the request envelope, runs the operation and encodes the response.
func (s *Server) Dispatch(ctx context.Context, in *catalogv1.Envelope) (*catalogv1.Envelope, error) {
	logger := s.logger.With(slog.String("op", string(in.Op)))
	req, err := in.Request()
	if err != nil {
		logger.WarnContext(ctx, "rejected malformed envelope", slog.Any("error", err))
		return nil, toStatus(fmt.Errorf("%w: %w", catalogerrors.ErrValidation, err))
	}
	logger.DebugContext(ctx, "received grpc request")

	resp, err := s.service.Dispatch(ctx, req)
	if err != nil {
		logger.InfoContext(ctx, "operation failed", slog.Any("error", err))
		return nil, toStatus(err)
	}

	out, err := catalogv1.NewResponseEnvelope(resp)
	if err != nil {
		logger.ErrorContext(ctx, "failed to encode response", slog.Any("error", err))
		return nil, toStatus(fmt.Errorf("%w: %w", catalogerrors.ErrUnavailable, err))
	}
	return out, nil
}

// toStatus converts a catalog error into a gRPC status carrying an ErrorInfo
// detail, so clients can tell catalog failures from transport failures.
func toStatus(err error) error {
	code, reason := codes.Unavailable, catalogv1.ReasonUnavailable
	switch {
	case errors.Is(err, catalogerrors.ErrValidation):
		code, reason = codes.InvalidArgument, catalogv1.ReasonValidation
	case errors.Is(err, catalogerrors.ErrNotFound):
		code, reason = codes.NotFound, catalogv1.ReasonNotFound
	case errors.Is(err, catalogerrors.ErrConflict):
		code, reason = codes.FailedPrecondition, catalogv1.ReasonConflict
	}
	st := status.New(code, err.Error())
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: catalogv1.ErrorDomain,
	})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}
