// Package pos implements the point-of-sale cart engine: a catalog
// snapshot, a cart kept consistent with cached stock, a quick-match
// resolver for scanner and manual search input, and the checkout flow.
package pos

import (
	"context"
	"fmt"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
)

// Catalog holds the last-fetched product list. The cart and the resolver
// validate against this snapshot, never against live server state.
type Catalog struct {
	provider port.CatalogProvider
	products []domain.Product
	byID     map[int64]domain.Product
}

func NewCatalog(provider port.CatalogProvider) *Catalog {
	return &Catalog{provider: provider, byID: make(map[int64]domain.Product)}
}

// Refresh replaces the snapshot wholesale. Partial updates are not
// supported; catalog-affecting operations trigger a full refresh.
func (c *Catalog) Refresh(ctx context.Context) error {
	const op = "Catalog.Refresh"

	ps, err := c.provider.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.Replace(ps)
	return nil
}

func (c *Catalog) Replace(ps []domain.Product) {
	c.products = ps
	c.byID = make(map[int64]domain.Product, len(ps))
	for _, p := range ps {
		c.byID[p.ID] = p
	}
}

// Products returns the snapshot in catalog order.
func (c *Catalog) Products() []domain.Product {
	return c.products
}

func (c *Catalog) Get(id int64) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Stock resolves the cached stock for a product id, zero when the
// product is not in the snapshot.
func (c *Catalog) Stock(id int64) int {
	return c.byID[id].Stock
}

func (c *Catalog) Len() int {
	return len(c.products)
}
