// Package e2e runs the catalog service end to end against a PostgreSQL container.
// The REST surface is served through httptest and the gRPC surface through a real
// listener reached with the catalog client library, both over one shared catalog.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/gocatalog/internal/app"
	"github.com/abgdnv/gocatalog/internal/config"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/client/catalog"
	pkgconfig "github.com/abgdnv/gocatalog/pkg/config"
	"github.com/abgdnv/gocatalog/pkg/messaging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"google.golang.org/grpc"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "CATALOG_SKIP_E2E_TESTS"

// CatalogE2ESuite serves one catalog over REST and gRPC backed by PostgreSQL.
type CatalogE2ESuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	closeStore  func()
	server      *httptest.Server
	grpcServer  *grpc.Server
	client      *catalog.Client
	logger      *slog.Logger
	ctx         context.Context
}

func testConfig(connStr string) *config.Config {
	var cfg config.Config
	cfg.Storage.Backend = pkgconfig.StoragePostgres
	cfg.Storage.Postgres = pkgconfig.DatabaseConfig{URL: connStr, Timeout: 30 * time.Second, Migrate: true}
	return &cfg
}

func (s *CatalogE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")
	cfg := testConfig(connStr)

	// storage is opened the way the service opens it, migrations included
	records, closeStore, err := app.NewStore(s.ctx, cfg.Storage, s.logger)
	require.NoError(s.T(), err, "Failed to open postgres storage")
	s.closeStore = closeStore

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgx pool")

	deps := app.SetupDependencies(records, messaging.NoopPublisher{}, s.logger)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps, cfg))

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(s.T(), err)
	s.grpcServer = app.SetupGrpcServer(deps, false)
	go func() {
		_ = s.grpcServer.Serve(lis)
	}()

	s.client, err = catalog.Dial(
		pkgconfig.GrpcClientConfig{Addr: lis.Addr().String(), Timeout: 5 * time.Second},
		pkgconfig.ResilienceConfig{
			Retry:          pkgconfig.RetryConfig{MaxAttempts: 3, InitialBackoff: 50 * time.Millisecond},
			CircuitBreaker: pkgconfig.CircuitBreakerConfig{ConsecutiveFailures: 5, ErrorRatePercent: 60, OpenTimeout: 5 * time.Second},
		},
	)
	require.NoError(s.T(), err)
	s.logger.Info("E2E servers started", "http", s.server.URL, "grpc", lis.Addr().String())
}

func (s *CatalogE2ESuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.server != nil {
		s.server.Close()
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.closeStore != nil {
		s.closeStore()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("Failed to terminate E2E PostgreSQL container", "error", err)
		}
	}
}

// SetupTest empties the catalog before each test.
func (s *CatalogE2ESuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products, categories RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

func TestCatalogE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(CatalogE2ESuite))
}

// doRequest sends payload as JSON and returns the response body and status code.
func (s *CatalogE2ESuite) doRequest(method, path string, payload any) ([]byte, int) {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		require.NoError(s.T(), err)
		body = bytes.NewBuffer(payloadBytes)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, body)
	require.NoError(s.T(), err, "Failed to create HTTP request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.server.Client().Do(req)
	require.NoError(s.T(), err, "HTTP request failed")
	defer func() {
		require.NoError(s.T(), resp.Body.Close())
	}()
	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "Failed to read response body")
	return bodyBytes, resp.StatusCode
}

func (s *CatalogE2ESuite) TestValuationScenario_E2E() {
	// given
	categoryID, err := s.client.CreateCategory(s.ctx, "Beverages", "Medium", "Can")
	s.Require().NoError(err)
	body, statusCode := s.doRequest(http.MethodPost, "/api/v1/products",
		map[string]any{"name": "Cola", "category_id": categoryID, "quantity": 100, "price": "3.50"})
	s.Require().Equal(http.StatusCreated, statusCode, string(body))
	var product catalogv1.Product
	s.Require().NoError(json.Unmarshal(body, &product))

	// when
	s.Require().NoError(s.client.AdjustPrice(s.ctx, product.ID, decimal.RequireFromString("4.00")))
	body, statusCode = s.doRequest(http.MethodGet, "/api/v1/valuation", nil)

	// then
	s.Require().Equal(http.StatusOK, statusCode)
	var report catalogv1.StockValuationResponse
	s.Require().NoError(json.Unmarshal(body, &report))
	s.Require().Len(report.Lines, 1)
	s.Equal("Beverages", report.Lines[0].CategoryName)
	s.Equal("400.00", report.Lines[0].Value.StringFixed(2))
	s.Equal("400.00", report.Total.StringFixed(2))

	fetched, err := s.client.GetProduct(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), fetched.Version)
}

func (s *CatalogE2ESuite) TestFailuresLeaveCatalogUnchanged_E2E() {
	testCases := []struct {
		name      string
		call      func() error
		expectErr error
	}{
		{
			name: "unknown category",
			call: func() error {
				_, err := s.client.CreateProduct(s.ctx, "X", 9999, 1, decimal.RequireFromString("1.0"))
				return err
			},
			expectErr: catalog.ErrNotFound,
		},
		{
			name:      "negative price",
			call:      func() error { return s.client.AdjustPrice(s.ctx, 1, decimal.RequireFromString("-1")) },
			expectErr: catalog.ErrValidation,
		},
		{
			name:      "referenced category",
			call:      func() error { return s.client.DeleteCategory(s.ctx, 1) },
			expectErr: catalog.ErrConflict,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// given
			s.SetupTest()
			categoryID, err := s.client.CreateCategory(s.ctx, "Snacks", "Small", "Plastic")
			s.Require().NoError(err)
			_, err = s.client.CreateProduct(s.ctx, "Chips", categoryID, 5, decimal.RequireFromString("2.25"))
			s.Require().NoError(err)

			// when
			err = tc.call()

			// then
			s.ErrorIs(err, tc.expectErr)
			products, err := s.client.ListProducts(s.ctx)
			s.Require().NoError(err)
			s.Require().Len(products, 1)
			s.Equal("2.25", products[0].Price.StringFixed(2))
			categories, err := s.client.ListCategories(s.ctx)
			s.Require().NoError(err)
			s.Len(categories, 1)
		})
	}
}

func (s *CatalogE2ESuite) TestConcurrentQuantityAdjustments_E2E() {
	// given
	ids := make([]int64, 4)
	for i := range ids {
		id, err := s.client.CreateProduct(s.ctx, fmt.Sprintf("P%d", i), 0, 0, decimal.NewFromInt(1))
		s.Require().NoError(err)
		ids[i] = id
	}

	// when
	var wg sync.WaitGroup
	for _, id := range ids {
		for q := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.NoError(s.client.AdjustQuantity(s.ctx, id, int64(q)))
			}()
		}
	}
	wg.Wait()

	// then
	for _, id := range ids {
		p, err := s.client.GetProduct(s.ctx, id)
		s.Require().NoError(err)
		s.GreaterOrEqual(p.Quantity, int64(0))
		s.Less(p.Quantity, int64(10))
		s.Equal(int64(11), p.Version)
	}
}

func (s *CatalogE2ESuite) TestCategoryLifecycle_E2E() {
	// given
	body, statusCode := s.doRequest(http.MethodPost, "/api/v1/categories",
		map[string]string{"name": "Beverages", "size": "medium", "packaging": "can"})
	s.Require().Equal(http.StatusCreated, statusCode)
	var category catalogv1.Category
	s.Require().NoError(json.Unmarshal(body, &category))

	// when
	update := map[string]string{"name": "Drinks", "size": "Large", "packaging": "Glass"}
	_, first := s.doRequest(http.MethodPut, fmt.Sprintf("/api/v1/categories/%d", category.ID), update)
	_, second := s.doRequest(http.MethodPut, fmt.Sprintf("/api/v1/categories/%d", category.ID), update)
	_, deleted := s.doRequest(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", category.ID), nil)

	// then
	s.Equal(http.StatusOK, first)
	s.Equal(http.StatusOK, second)
	s.Equal(http.StatusNoContent, deleted)
	_, err := s.client.GetCategory(s.ctx, category.ID)
	s.ErrorIs(err, catalog.ErrNotFound)
}
