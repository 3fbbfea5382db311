package repository

import (
	"context"

	"github.com/openbasket/catalog/internal/domain"
)

// ProductFilter holds filtering and pagination options for listing products.
// Limit and Skip are expected to be clamped by the service layer before the
// filter reaches a repository.
type ProductFilter struct {
	Search *string
	Limit  int
	Skip   int
}

// ProductRepository defines the persistence operations for products.
type ProductRepository interface {
	// Create inserts a new product. Returns an already-exists error when the
	// name is taken.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its ID. Returns a not-found error when
	// no such product exists.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Count returns the number of products matching the optional search term.
	Count(ctx context.Context, search *string) (int, error)

	// List returns products matching the filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Top returns the n highest-rated products, rating descending.
	Top(ctx context.Context, n int) ([]domain.Product, error)

	// Update overwrites the stored product fields. Returns a not-found error
	// when the product does not exist.
	Update(ctx context.Context, product *domain.Product) error

	// UpdateReviews persists only the embedded review document and the
	// aggregate rating fields.
	UpdateReviews(ctx context.Context, product *domain.Product) error

	// Delete removes a product by its ID. Returns a not-found error when no
	// row was deleted.
	Delete(ctx context.Context, id string) error

	// Upsert inserts a product unless its name or (external_id, source) pair
	// already exists. Reports whether a row was actually inserted.
	Upsert(ctx context.Context, product *domain.Product) (bool, error)
}
