package repositories

import (
	"context"

	"github.com/luminacart/discovery/internal/domain/entities"
)

// CatalogRepository provides read-only access to the product catalog.
// List preserves catalog order; ranking relies on it to break score ties.
type CatalogRepository interface {
	// List returns every product in catalog order.
	List(ctx context.Context) ([]*entities.Product, error)

	// GetByID returns the product with the given id, or a not-found error.
	GetByID(ctx context.Context, id string) (*entities.Product, error)
}
