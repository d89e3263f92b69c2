// Package app wires the catalog service components together.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abgdnv/gocatalog/internal/catalog"
	"github.com/abgdnv/gocatalog/internal/config"
	"github.com/abgdnv/gocatalog/internal/coordinator"
	"github.com/abgdnv/gocatalog/internal/service"
	"github.com/abgdnv/gocatalog/internal/store"
	grpcImpl "github.com/abgdnv/gocatalog/internal/transport/grpc"
	"github.com/abgdnv/gocatalog/internal/transport/rest"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/gocatalog/pkg/config"
	"github.com/abgdnv/gocatalog/pkg/messaging"
	natsclient "github.com/abgdnv/gocatalog/pkg/nats"
	"github.com/abgdnv/gocatalog/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"google.golang.org/grpc"
)

type Dependencies struct {
	CatalogService service.CatalogService
	Logger         *slog.Logger
	// Metrics is the Prometheus scrape handler, nil when metrics are disabled.
	Metrics http.Handler
}

func SetupDependencies(records store.RecordStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	coord := coordinator.New(catalog.New(records), logger)
	return &Dependencies{
		CatalogService: service.NewService(coord, publisher, logger),
		Logger:         logger,
	}
}

// NewStore opens the configured record store. The returned cleanup releases its resources.
func NewStore(ctx context.Context, cfg pkgconfig.StorageConfig, logger *slog.Logger) (store.RecordStore, func(), error) {
	if cfg.Backend != pkgconfig.StoragePostgres {
		logger.Info("Using in-memory storage")
		return store.NewInMemoryStore(), func() {}, nil
	}
	if cfg.Postgres.Migrate {
		if err := store.Migrate(cfg.Postgres.URL); err != nil {
			return nil, nil, err
		}
		logger.Info("Database migrations applied")
	}
	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Postgres.URL, cfg.Postgres.Timeout)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Successfully connected to the database!")
	return store.NewPgStore(dbPool), dbPool.Close, nil
}

// NewPublisher connects to NATS JetStream and makes sure the catalog stream exists.
// With NATS disabled every event is dropped.
func NewPublisher(ctx context.Context, cfg pkgconfig.NATSConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		logger.Info("NATS disabled, catalog events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}
	nc, err := natsclient.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := newStreamPublisher(ctx, nc)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("url", nc.ConnectedUrlRedacted()))
	cleanup := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.String("error", err.Error()))
		}
	}
	return publisher, cleanup, nil
}

// newStreamPublisher ensures the catalog stream exists and returns a publisher on nc.
// nc is closed on every failure path.
func newStreamPublisher(ctx context.Context, nc *nats.Conn) (_ messaging.Publisher, err error) {
	defer func() {
		if err != nil {
			nc.Close()
		}
	}()
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, err
	}
	if err := natsclient.EnsureStream(ctx, js, messaging.CatalogStream,
		messaging.CategoryChangedSubject, messaging.ProductChangedSubject); err != nil {
		return nil, err
	}
	return natsclient.NewNatsPublisher(js), nil
}

// SetupHttpHandler initializes the router and routes for the catalog service.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger, cfg.HTTPServer.AllowedOrigins)
	wireRoutes(mux, deps, cfg)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies, cfg *config.Config) {
	rest.NewHandler(deps.CatalogService, deps.Logger).RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, cfg.Telemetry.Metrics.Path, deps.Metrics)
	}
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, "catalog-http", mux)
}

// SetupGrpcServer initializes the gRPC server exposing the Dispatch RPC.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	catalogRegisterFunc := func(s *grpc.Server) {
		catalogv1.RegisterCatalogServiceServer(s, grpcImpl.NewServer(deps.CatalogService, deps.Logger))
	}
	return server.NewGRPCServer(reflectionEnabled, deps.Logger, catalogRegisterFunc)
}
