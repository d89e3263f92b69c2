// Package store provides the storage backends for catalog records.
package store

import (
	"context"

	"github.com/abgdnv/gocatalog/internal/model"
)

// RecordStore is an interface for category and product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Every read returns a copy; modifying it never affects the stored record.
type RecordStore interface {
	// InsertCategory stores a new category and returns it with its assigned ID.
	InsertCategory(ctx context.Context, c model.Category) (model.Category, error)

	// GetCategory retrieves a category by its identifier.
	// Returns ErrNotFound if no category exists with the given ID.
	GetCategory(ctx context.Context, id model.CategoryID) (model.Category, error)

	// ListCategories returns all categories. Order is not guaranteed.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// ReplaceCategory swaps the stored record for c as a whole and bumps its version.
	// Returns ErrNotFound if no category exists with c.ID.
	ReplaceCategory(ctx context.Context, c model.Category) (model.Category, error)

	// DeleteCategory removes a category.
	// Returns ErrNotFound if no category exists with the given ID.
	DeleteCategory(ctx context.Context, id model.CategoryID) error

	// InsertProduct stores a new product and returns it with its assigned ID.
	InsertProduct(ctx context.Context, p model.Product) (model.Product, error)

	// GetProduct retrieves a product by its identifier.
	// Returns ErrNotFound if no product exists with the given ID.
	GetProduct(ctx context.Context, id model.ProductID) (model.Product, error)

	// ListProducts returns all products. Order is not guaranteed.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// ReplaceProduct swaps the stored record for p as a whole and bumps its version.
	// Returns ErrNotFound if no product exists with p.ID.
	ReplaceProduct(ctx context.Context, p model.Product) (model.Product, error)

	// CountProductsInCategory returns how many products reference the category.
	CountProductsInCategory(ctx context.Context, id model.CategoryID) (int, error)
}
