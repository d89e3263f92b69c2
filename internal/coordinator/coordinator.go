// Package coordinator serializes catalog mutations per entity.
//
// Each category and each product has its own exclusive unit. A mutation holds
// exactly one unit while it validates and applies, so operations on different
// entities never wait on each other. Reads take no unit and observe whole,
// committed records. Units are never nested.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/gocatalog/internal/catalog"
	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/model"
	"github.com/shopspring/decimal"
)

// Coordinator guards every access to the catalog.
type Coordinator struct {
	catalog *catalog.Catalog
	units   *units
	logger  *slog.Logger
}

// New creates a coordinator owning the given catalog.
func New(c *catalog.Catalog, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		catalog: c,
		units:   newUnits(),
		logger:  logger.With("component", "coordinator"),
	}
}

func categoryKey(id model.CategoryID) string { return fmt.Sprintf("category:%d", id) }
func productKey(id model.ProductID) string   { return fmt.Sprintf("product:%d", id) }

// withUnit runs apply while holding the unit for key.
// Cancellation is honoured only while waiting; once apply starts it runs to completion.
func (c *Coordinator) withUnit(ctx context.Context, key string, apply func(ctx context.Context) error) error {
	release, err := c.units.acquire(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "gave up waiting for entity unit", "key", key, "error", err)
		return fmt.Errorf("%w: waiting for %s: %w", catalogerrors.ErrUnavailable, key, err)
	}
	defer release()
	return apply(context.WithoutCancel(ctx))
}

// CreateCategory stores a new category. No unit is needed since the entity does not exist yet.
func (c *Coordinator) CreateCategory(ctx context.Context, name string, size model.Size, packaging model.Packaging) (model.Category, error) {
	return c.catalog.CreateCategory(context.WithoutCancel(ctx), name, size, packaging)
}

// UpdateCategory replaces the category fields under the category unit.
func (c *Coordinator) UpdateCategory(ctx context.Context, id model.CategoryID, name string, size model.Size, packaging model.Packaging) (model.Category, error) {
	var updated model.Category
	err := c.withUnit(ctx, categoryKey(id), func(ctx context.Context) error {
		var err error
		updated, err = c.catalog.UpdateCategory(ctx, id, name, size, packaging)
		return err
	})
	return updated, err
}

// DeleteCategory removes an unreferenced category under the category unit.
func (c *Coordinator) DeleteCategory(ctx context.Context, id model.CategoryID) error {
	return c.withUnit(ctx, categoryKey(id), func(ctx context.Context) error {
		return c.catalog.DeleteCategory(ctx, id)
	})
}

// CreateProduct stores a new product. When it references a category, the category
// unit is held so the reference cannot be deleted between check and insert.
func (c *Coordinator) CreateProduct(ctx context.Context, name string, categoryID model.CategoryID, quantity int64, price decimal.Decimal) (model.Product, error) {
	if categoryID == model.NoCategory {
		return c.catalog.CreateProduct(context.WithoutCancel(ctx), name, categoryID, quantity, price)
	}
	var created model.Product
	err := c.withUnit(ctx, categoryKey(categoryID), func(ctx context.Context) error {
		var err error
		created, err = c.catalog.CreateProduct(ctx, name, categoryID, quantity, price)
		return err
	})
	return created, err
}

// AdjustPrice sets the product price under the product unit.
func (c *Coordinator) AdjustPrice(ctx context.Context, id model.ProductID, price decimal.Decimal) (model.Product, error) {
	var updated model.Product
	err := c.withUnit(ctx, productKey(id), func(ctx context.Context) error {
		var err error
		updated, err = c.catalog.UpdateProductPrice(ctx, id, price)
		return err
	})
	return updated, err
}

// AdjustQuantity sets the product quantity under the product unit.
func (c *Coordinator) AdjustQuantity(ctx context.Context, id model.ProductID, quantity int64) (model.Product, error) {
	var updated model.Product
	err := c.withUnit(ctx, productKey(id), func(ctx context.Context) error {
		var err error
		updated, err = c.catalog.UpdateProductQuantity(ctx, id, quantity)
		return err
	})
	return updated, err
}

// GetCategory returns a snapshot of one category.
func (c *Coordinator) GetCategory(ctx context.Context, id model.CategoryID) (model.Category, error) {
	return c.catalog.GetCategory(ctx, id)
}

// ListCategories returns a snapshot of every category.
func (c *Coordinator) ListCategories(ctx context.Context) ([]model.Category, error) {
	return c.catalog.ListCategories(ctx)
}

// GetProduct returns a snapshot of one product.
func (c *Coordinator) GetProduct(ctx context.Context, id model.ProductID) (model.Product, error) {
	return c.catalog.GetProduct(ctx, id)
}

// ListProducts returns a snapshot of every product.
func (c *Coordinator) ListProducts(ctx context.Context) ([]model.Product, error) {
	return c.catalog.ListProducts(ctx)
}
