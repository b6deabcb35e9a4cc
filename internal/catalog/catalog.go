// Package catalog loads the fixed product catalog and serves read-only
// views of it. The catalog is loaded once at startup and never mutated;
// every derived list preserves the original catalog order.
package catalog

import (
	"context"

	"github.com/hyperengineering/shopfront/internal/types"
)

// Source is anything the catalog can be loaded from.
type Source interface {
	Load(ctx context.Context) ([]types.Product, error)
}

// Catalog is the immutable in-memory product collection.
type Catalog struct {
	products []types.Product
	byID     map[string]int // id → index in products
}

// New builds a Catalog from a fixed product list, keeping the given order.
func New(products []types.Product) *Catalog {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &Catalog{products: products, byID: byID}
}

// LoadFrom reads all products from src and builds the Catalog.
func LoadFrom(ctx context.Context, src Source) (*Catalog, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(products), nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns a copy of the full catalog in catalog order.
func (c *Catalog) Products() []types.Product {
	out := make([]types.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByID returns the product with the given id.
func (c *Catalog) ByID(id string) (types.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return types.Product{}, ErrNotFound
	}
	return c.products[i], nil
}

// SelectIDs returns the products whose ids appear in ids, in catalog order
// regardless of the order ids were given in. Unknown ids are skipped.
func (c *Catalog) SelectIDs(ids []string) []types.Product {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	out := make([]types.Product, 0, len(ids))
	for _, p := range c.products {
		if wanted[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
