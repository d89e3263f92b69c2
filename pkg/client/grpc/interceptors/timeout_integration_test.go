package interceptors

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// slowCatalogService is a mock gRPC service that simulates a slow response
type slowCatalogService struct {
	delay time.Duration
}

func (s *slowCatalogService) Dispatch(ctx context.Context, _ *catalogv1.Envelope) (*catalogv1.Envelope, error) {
	time.Sleep(s.delay)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return catalogv1.NewResponseEnvelope(catalogv1.ListCategoriesResponse{})
}

// skipIntegrationTests is an environment variable that can be set to skip integration tests
const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"

// Test_GRPCClient_TimeoutInterceptor tests the gRPC client timeout interceptor
func Test_GRPCClient_TimeoutInterceptor(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	// given
	const serviceDelay = 200 * time.Millisecond
	const clientTimeout = 100 * time.Millisecond

	// 1. start slow grpc server
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)

	grpcServer := grpc.NewServer()
	slowService := &slowCatalogService{delay: serviceDelay}
	catalogv1.RegisterCatalogServiceServer(grpcServer, slowService)

	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(func() { grpcServer.Stop() })

	// 2. create gRPC client with shorter timeout
	grpcClient, err := grpc.NewClient(
		lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(
			UnaryClientTimeoutInterceptor(FixedTimeout(clientTimeout)),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = grpcClient.Close() })

	catalogClient := catalogv1.NewCatalogServiceClient(grpcClient)
	in, err := catalogv1.NewRequestEnvelope(catalogv1.ListCategoriesRequest{})
	require.NoError(t, err)

	// when
	_, err = catalogClient.Dispatch(context.Background(), in)

	// then
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "Error should be a gRPC status error")
	require.Equal(t, codes.DeadlineExceeded, st.Code(), "Expected DeadlineExceeded error code")
}
