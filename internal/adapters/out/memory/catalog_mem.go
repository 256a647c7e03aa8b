// internal/adapters/out/memory/catalog_mem.go
package memory

import (
	"context"
	"strings"
	"sync"

	catalogdom "storefront/internal/domain/catalog"
)

// Catalog is an in-process product table. Used by local mode and tests;
// Put/Delete simulate catalog-side changes (price drops, deletions).
type Catalog struct {
	mu       sync.RWMutex
	products map[string]catalogdom.Product
}

func NewCatalog(products ...catalogdom.Product) *Catalog {
	c := &Catalog{products: map[string]catalogdom.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *Catalog) Put(p catalogdom.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

func (c *Catalog) Delete(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, productID)
}

func (c *Catalog) ResolveProduct(_ context.Context, productID string) (catalogdom.Resolution, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[strings.TrimSpace(productID)]
	if !ok {
		return catalogdom.Absent(), nil
	}
	return catalogdom.Present(p), nil
}
