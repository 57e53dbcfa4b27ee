package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/luminacart/discovery/internal/domain/entities"
	"github.com/luminacart/discovery/internal/domain/repositories"
	"github.com/luminacart/discovery/pkg/errors"
)

// JSONAdapter implements CatalogRepository over a product list loaded once
// at startup. List preserves the source ordering, which downstream ranking
// relies on for stable tie-breaks.
type JSONAdapter struct {
	products []*entities.Product
	byID     map[string]*entities.Product
}

// NewJSONAdapter loads the catalog from a JSON file holding an array of
// products.
func NewJSONAdapter(path string) (*JSONAdapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []*entities.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	return NewStaticAdapter(products)
}

// NewStaticAdapter builds a catalog from an in-memory product slice.
func NewStaticAdapter(products []*entities.Product) (*JSONAdapter, error) {
	byID := make(map[string]*entities.Product, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("product at index %d has no id", i))
		}
		if _, dup := byID[p.ID]; dup {
			return nil, errors.NewValidationError(fmt.Sprintf("duplicate product id: %s", p.ID))
		}
		if p.Price < 0 {
			return nil, errors.NewValidationError(fmt.Sprintf("product %s has negative price", p.ID))
		}
		byID[p.ID] = p
	}

	return &JSONAdapter{products: products, byID: byID}, nil
}

var _ repositories.CatalogRepository = (*JSONAdapter)(nil)

// List returns all products in catalog order.
func (a *JSONAdapter) List(ctx context.Context) ([]*entities.Product, error) {
	return a.products, nil
}

// GetByID returns the product with the given id.
func (a *JSONAdapter) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	p, ok := a.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product not found: %s", id))
	}
	return p, nil
}

// Size returns the number of products in the catalog.
func (a *JSONAdapter) Size() int {
	return len(a.products)
}
