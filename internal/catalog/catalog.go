// Package catalog enforces the inventory invariants on top of a record store.
//
// A Catalog is not safe for concurrent mutation of the same entity; callers
// serialize those through the coordinator.
package catalog

import (
	"context"
	"fmt"

	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/model"
	"github.com/abgdnv/gocatalog/internal/store"
	"github.com/shopspring/decimal"
)

// Catalog validates mutations before they reach the record store.
type Catalog struct {
	records store.RecordStore
}

// New creates a catalog over the given record store.
func New(records store.RecordStore) *Catalog {
	return &Catalog{records: records}
}

// CreateCategory validates and stores a new category.
func (c *Catalog) CreateCategory(ctx context.Context, name string, size model.Size, packaging model.Packaging) (model.Category, error) {
	category := model.Category{Name: name, Size: size, Packaging: packaging}
	if err := category.Validate(); err != nil {
		return model.Category{}, err
	}
	return c.records.InsertCategory(ctx, category)
}

// UpdateCategory replaces name, size and packaging of an existing category.
// Applying the same update twice leaves the same state.
func (c *Catalog) UpdateCategory(ctx context.Context, id model.CategoryID, name string, size model.Size, packaging model.Packaging) (model.Category, error) {
	current, err := c.records.GetCategory(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	current.Name = name
	current.Size = size
	current.Packaging = packaging
	if err := current.Validate(); err != nil {
		return model.Category{}, err
	}
	return c.records.ReplaceCategory(ctx, current)
}

// GetCategory returns a category by ID.
func (c *Catalog) GetCategory(ctx context.Context, id model.CategoryID) (model.Category, error) {
	return c.records.GetCategory(ctx, id)
}

// ListCategories returns every category.
func (c *Catalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	return c.records.ListCategories(ctx)
}

// DeleteCategory removes a category that no product references.
// Returns ErrConflict while at least one product still points at it.
func (c *Catalog) DeleteCategory(ctx context.Context, id model.CategoryID) error {
	if _, err := c.records.GetCategory(ctx, id); err != nil {
		return err
	}
	count, err := c.records.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category %d is referenced by %d product(s)", catalogerrors.ErrConflict, id, count)
	}
	return c.records.DeleteCategory(ctx, id)
}

// CreateProduct validates and stores a new product.
// A non-zero categoryID must resolve to an existing category.
func (c *Catalog) CreateProduct(ctx context.Context, name string, categoryID model.CategoryID, quantity int64, price decimal.Decimal) (model.Product, error) {
	product := model.Product{Name: name, CategoryID: categoryID, Quantity: quantity, Price: price}
	if err := product.Validate(); err != nil {
		return model.Product{}, err
	}
	if categoryID != model.NoCategory {
		if _, err := c.records.GetCategory(ctx, categoryID); err != nil {
			return model.Product{}, err
		}
	}
	return c.records.InsertProduct(ctx, product)
}

// GetProduct returns a product by ID.
func (c *Catalog) GetProduct(ctx context.Context, id model.ProductID) (model.Product, error) {
	return c.records.GetProduct(ctx, id)
}

// ListProducts returns every product.
func (c *Catalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	return c.records.ListProducts(ctx)
}

// UpdateProductPrice sets the unit price. Other fields are left untouched.
func (c *Catalog) UpdateProductPrice(ctx context.Context, id model.ProductID, price decimal.Decimal) (model.Product, error) {
	if err := model.ValidatePrice(price); err != nil {
		return model.Product{}, err
	}
	current, err := c.records.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	current.Price = price
	return c.records.ReplaceProduct(ctx, current)
}

// UpdateProductQuantity sets the stock quantity. Other fields are left untouched.
func (c *Catalog) UpdateProductQuantity(ctx context.Context, id model.ProductID, quantity int64) (model.Product, error) {
	if err := model.ValidateQuantity(quantity); err != nil {
		return model.Product{}, err
	}
	current, err := c.records.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	current.Quantity = quantity
	return c.records.ReplaceProduct(ctx, current)
}
