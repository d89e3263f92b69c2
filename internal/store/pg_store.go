package store

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	categoryColumns = "id, name, size, packaging, version"
	productColumns  = "id, name, category_id, quantity, price::text, version"
)

// PgStore implements RecordStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

var _ RecordStore = (*PgStore)(nil)

// NewPgStore creates a new instance of RecordStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// InsertCategory adds a new category row.
func (p *PgStore) InsertCategory(ctx context.Context, c model.Category) (model.Category, error) {
	row := p.db.QueryRow(ctx,
		"INSERT INTO categories (name, size, packaging) VALUES ($1, $2, $3) RETURNING "+categoryColumns,
		c.Name, int16(c.Size), int16(c.Packaging))
	created, err := scanCategory(row)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

// GetCategory retrieves a category by its unique identifier.
// Returns ErrNotFound if no category exists with the given ID.
func (p *PgStore) GetCategory(ctx context.Context, id model.CategoryID) (model.Category, error) {
	row := p.db.QueryRow(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", int64(id))
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, fmt.Errorf("category %d: %w", id, catalogerrors.ErrNotFound)
		}
		return model.Category{}, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return c, nil
}

// ListCategories retrieves all categories.
func (p *PgStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := p.db.Query(ctx, "SELECT "+categoryColumns+" FROM categories")
	if err != nil {
		return nil, fmt.Errorf("failed to find all categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

// ReplaceCategory overwrites the mutable fields of a category in one statement.
// Returns ErrNotFound if no category exists with the given ID.
func (p *PgStore) ReplaceCategory(ctx context.Context, c model.Category) (model.Category, error) {
	row := p.db.QueryRow(ctx,
		`UPDATE categories
		 SET name = $2, size = $3, packaging = $4, version = version + 1, updated_at = now()
		 WHERE id = $1
		 RETURNING `+categoryColumns,
		int64(c.ID), c.Name, int16(c.Size), int16(c.Packaging))
	updated, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, fmt.Errorf("category %d: %w", c.ID, catalogerrors.ErrNotFound)
		}
		return model.Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	return updated, nil
}

// DeleteCategory removes a category by its unique identifier.
// Returns ErrNotFound if no category exists with the given ID.
func (p *PgStore) DeleteCategory(ctx context.Context, id model.CategoryID) error {
	tag, err := p.db.Exec(ctx, "DELETE FROM categories WHERE id = $1", int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete category by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", id, catalogerrors.ErrNotFound)
	}
	return nil
}

// InsertProduct adds a new product row.
func (p *PgStore) InsertProduct(ctx context.Context, pr model.Product) (model.Product, error) {
	row := p.db.QueryRow(ctx,
		"INSERT INTO products (name, category_id, quantity, price) VALUES ($1, $2, $3, $4::numeric) RETURNING "+productColumns,
		pr.Name, int64(pr.CategoryID), pr.Quantity, pr.Price.String())
	created, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// GetProduct retrieves a product by its unique identifier.
// Returns ErrNotFound if no product exists with the given ID.
func (p *PgStore) GetProduct(ctx context.Context, id model.ProductID) (model.Product, error) {
	row := p.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", int64(id))
	pr, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, fmt.Errorf("product %d: %w", id, catalogerrors.ErrNotFound)
		}
		return model.Product{}, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return pr, nil
}

// ListProducts retrieves all products.
func (p *PgStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := p.db.Query(ctx, "SELECT "+productColumns+" FROM products")
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// ReplaceProduct overwrites the mutable fields of a product in one statement.
// Returns ErrNotFound if no product exists with the given ID.
func (p *PgStore) ReplaceProduct(ctx context.Context, pr model.Product) (model.Product, error) {
	row := p.db.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, category_id = $3, quantity = $4, price = $5::numeric, version = version + 1, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productColumns,
		int64(pr.ID), pr.Name, int64(pr.CategoryID), pr.Quantity, pr.Price.String())
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, fmt.Errorf("product %d: %w", pr.ID, catalogerrors.ErrNotFound)
		}
		return model.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

// CountProductsInCategory counts the products referencing a category.
func (p *PgStore) CountProductsInCategory(ctx context.Context, id model.CategoryID) (int, error) {
	var count int
	err := p.db.QueryRow(ctx, "SELECT count(*) FROM products WHERE category_id = $1", int64(id)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products in category: %w", err)
	}
	return count, nil
}

func scanCategory(row pgx.Row) (model.Category, error) {
	var (
		c         model.Category
		id        int64
		size      int16
		packaging int16
	)
	if err := row.Scan(&id, &c.Name, &size, &packaging, &c.Version); err != nil {
		return model.Category{}, err
	}
	c.ID = model.CategoryID(id)
	c.Size = model.Size(size)
	c.Packaging = model.Packaging(packaging)
	return c, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		pr         model.Product
		id         int64
		categoryID int64
		price      string
	)
	if err := row.Scan(&id, &pr.Name, &categoryID, &pr.Quantity, &price, &pr.Version); err != nil {
		return model.Product{}, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid stored price %q: %w", price, err)
	}
	pr.ID = model.ProductID(id)
	pr.CategoryID = model.CategoryID(categoryID)
	pr.Price = parsed
	return pr, nil
}
