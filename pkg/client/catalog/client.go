// Package catalog is the client library desktop front-ends use to talk to the
// catalog service over gRPC.
package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/client/grpc/interceptors"
	"github.com/abgdnv/gocatalog/pkg/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client issues catalog operations. It is safe for concurrent use.
type Client struct {
	conn *grpc.ClientConn
	rpc  catalogv1.CatalogServiceClient
}

// Dial connects to the catalog service. Calls are bounded per attempt by cfg.TimeoutFor,
// retried on Unavailable when the operation is safe to repeat, and guarded by a
// circuit breaker.
func Dial(cfg config.GrpcClientConfig, resilience config.ResilienceConfig, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			interceptors.NewRetryInterceptor(resilience.Retry),
			interceptors.NewCircuitBreaker(resilience.CircuitBreaker),
			interceptors.UnaryClientTimeoutInterceptor(cfg.TimeoutFor),
		),
	}, opts...)
	conn, err := grpc.NewClient(cfg.Addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client for %s: %w", cfg.Addr, err)
	}
	return &Client{conn: conn, rpc: catalogv1.NewCatalogServiceClient(conn)}, nil
}

// NewClient wraps an existing connection. The caller keeps ownership of cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{rpc: catalogv1.NewCatalogServiceClient(cc)}
}

// Close releases the connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) ListProducts(ctx context.Context) ([]catalogv1.Product, error) {
	resp, err := call[catalogv1.ListProductsResponse](ctx, c, catalogv1.ListProductsRequest{})
	return resp.Products, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (catalogv1.Product, error) {
	resp, err := call[catalogv1.GetProductResponse](ctx, c, catalogv1.GetProductRequest{ProductID: id})
	return resp.Product, err
}

func (c *Client) ListCategories(ctx context.Context) ([]catalogv1.Category, error) {
	resp, err := call[catalogv1.ListCategoriesResponse](ctx, c, catalogv1.ListCategoriesRequest{})
	return resp.Categories, err
}

func (c *Client) GetCategory(ctx context.Context, id int64) (catalogv1.Category, error) {
	resp, err := call[catalogv1.GetCategoryResponse](ctx, c, catalogv1.GetCategoryRequest{CategoryID: id})
	return resp.Category, err
}

// CreateCategory returns the ID of the new category. It is never retried: after a lost
// connection the outcome is unknown.
func (c *Client) CreateCategory(ctx context.Context, name, size, packaging string) (int64, error) {
	resp, err := call[catalogv1.CreateCategoryResponse](ctx, c,
		catalogv1.CreateCategoryRequest{Name: name, Size: size, Packaging: packaging},
		retry.Disable())
	return resp.CategoryID, err
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, name, size, packaging string) error {
	_, err := call[catalogv1.UpdateCategoryResponse](ctx, c,
		catalogv1.UpdateCategoryRequest{CategoryID: id, Name: name, Size: size, Packaging: packaging})
	return err
}

// DeleteCategory fails with ErrConflict while products still reference the category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := call[catalogv1.DeleteCategoryResponse](ctx, c, catalogv1.DeleteCategoryRequest{CategoryID: id}, retry.Disable())
	return err
}

// CreateProduct returns the ID of the new product. categoryID 0 means no category.
func (c *Client) CreateProduct(ctx context.Context, name string, categoryID, quantity int64, price decimal.Decimal) (int64, error) {
	resp, err := call[catalogv1.CreateProductResponse](ctx, c,
		catalogv1.CreateProductRequest{Name: name, CategoryID: categoryID, Quantity: quantity, Price: price},
		retry.Disable())
	return resp.ProductID, err
}

func (c *Client) AdjustPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	_, err := call[catalogv1.AdjustPriceResponse](ctx, c, catalogv1.AdjustPriceRequest{ProductID: id, NewPrice: &price})
	return err
}

func (c *Client) AdjustQuantity(ctx context.Context, id int64, quantity int64) error {
	_, err := call[catalogv1.AdjustQuantityResponse](ctx, c, catalogv1.AdjustQuantityRequest{ProductID: id, NewQuantity: &quantity})
	return err
}

// StockValuation reports the stock lines and their total. A nil filter keeps every product.
func (c *Client) StockValuation(ctx context.Context, nameFilter *string) (catalogv1.StockValuationResponse, error) {
	return call[catalogv1.StockValuationResponse](ctx, c, catalogv1.StockValuationRequest{NameFilter: nameFilter})
}

func (c *Client) PriceList(ctx context.Context) ([]catalogv1.PriceLine, error) {
	resp, err := call[catalogv1.PriceListResponse](ctx, c, catalogv1.PriceListRequest{})
	return resp.Lines, err
}

// call sends req and decodes the response message of type T.
func call[T catalogv1.Response](ctx context.Context, c *Client, req catalogv1.Request, opts ...grpc.CallOption) (T, error) {
	var zero T
	in, err := catalogv1.NewRequestEnvelope(req)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	out, err := c.rpc.Dispatch(ctx, in, opts...)
	if err != nil {
		return zero, classify(err)
	}
	resp, err := out.Response()
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	typed, ok := resp.(T)
	if !ok {
		return zero, fmt.Errorf("%w: unexpected %s response to %s", ErrServiceUnavailable, resp.Op(), req.Op())
	}
	return typed, nil
}

// IsRetryable reports whether err is worth retrying later by the caller.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrConnectionLost)
}
