package store

import (
	"context"
	"fmt"
	"sync"

	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/model"
)

// InMemory implements RecordStore using in-memory maps.
// Records are stored and returned by value, so callers never share memory with the store.
type InMemory struct {
	mu             sync.RWMutex
	categories     map[model.CategoryID]model.Category
	products       map[model.ProductID]model.Product
	nextCategoryID model.CategoryID
	nextProductID  model.ProductID
}

var _ RecordStore = (*InMemory)(nil)

// NewInMemoryStore creates a new, empty in-memory record store.
func NewInMemoryStore() *InMemory {
	return &InMemory{
		categories:     make(map[model.CategoryID]model.Category),
		products:       make(map[model.ProductID]model.Product),
		nextCategoryID: 1,
		nextProductID:  1,
	}
}

// InsertCategory stores a new category and returns it with its assigned ID.
func (s *InMemory) InsertCategory(_ context.Context, c model.Category) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextCategoryID
	c.Version = 1
	s.nextCategoryID++
	s.categories[c.ID] = c
	return c, nil
}

// GetCategory retrieves a category by its ID.
func (s *InMemory) GetCategory(_ context.Context, id model.CategoryID) (model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return model.Category{}, fmt.Errorf("category %d: %w", id, catalogerrors.ErrNotFound)
	}
	return c, nil
}

// ListCategories retrieves all categories.
func (s *InMemory) ListCategories(_ context.Context) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		list = append(list, c)
	}
	return list, nil
}

// ReplaceCategory replaces a stored category.
func (s *InMemory) ReplaceCategory(_ context.Context, c model.Category) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.categories[c.ID]
	if !ok {
		return model.Category{}, fmt.Errorf("category %d: %w", c.ID, catalogerrors.ErrNotFound)
	}
	c.Version = current.Version + 1
	s.categories[c.ID] = c
	return c, nil
}

// DeleteCategory deletes a category by its ID.
func (s *InMemory) DeleteCategory(_ context.Context, id model.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[id]; !exists {
		return fmt.Errorf("category %d: %w", id, catalogerrors.ErrNotFound)
	}
	delete(s.categories, id)
	return nil
}

// InsertProduct stores a new product and returns it with its assigned ID.
func (s *InMemory) InsertProduct(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextProductID
	p.Version = 1
	s.nextProductID++
	s.products[p.ID] = p
	return p, nil
}

// GetProduct retrieves a product by its ID.
func (s *InMemory) GetProduct(_ context.Context, id model.ProductID) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return model.Product{}, fmt.Errorf("product %d: %w", id, catalogerrors.ErrNotFound)
	}
	return p, nil
}

// ListProducts retrieves all products.
func (s *InMemory) ListProducts(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	return list, nil
}

// ReplaceProduct replaces a stored product.
func (s *InMemory) ReplaceProduct(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[p.ID]
	if !ok {
		return model.Product{}, fmt.Errorf("product %d: %w", p.ID, catalogerrors.ErrNotFound)
	}
	p.Version = current.Version + 1
	s.products[p.ID] = p
	return p, nil
}

// CountProductsInCategory counts the products referencing a category.
func (s *InMemory) CountProductsInCategory(_ context.Context, id model.CategoryID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.products {
		if p.CategoryID == id {
			count++
		}
	}
	return count, nil
}
