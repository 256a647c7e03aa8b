// internal/adapters/out/firestore/catalog_resolver_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	catalogdom "storefront/internal/domain/catalog"
)

// CatalogResolverFS reads products from the catalog's "products" collection.
// It is read-only; the catalog service owns the documents.
type CatalogResolverFS struct {
	Client     *firestore.Client
	Collection string
}

func NewCatalogResolverFS(client *firestore.Client) *CatalogResolverFS {
	return &CatalogResolverFS{Client: client, Collection: "products"}
}

func (r *CatalogResolverFS) ResolveProduct(ctx context.Context, productID string) (catalogdom.Resolution, error) {
	if r == nil || r.Client == nil {
		return catalogdom.Absent(), errors.New("catalog_resolver_fs: firestore client is nil")
	}
	id := strings.TrimSpace(productID)
	if id == "" {
		return catalogdom.Absent(), nil
	}

	snap, err := r.Client.Collection(r.Collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return catalogdom.Absent(), nil
		}
		return catalogdom.Absent(), fmt.Errorf("catalog_resolver_fs: get %s: %w", id, err)
	}

	p, err := productFromData(id, snap.Data())
	if err != nil {
		return catalogdom.Absent(), err
	}
	return catalogdom.Present(p), nil
}

func productFromData(id string, m map[string]any) (catalogdom.Product, error) {
	price, err := asDecimal(m["sellingPrice"])
	if err != nil {
		return catalogdom.Product{}, fmt.Errorf("catalog_resolver_fs: %s sellingPrice: %w", id, err)
	}
	p := catalogdom.Product{
		ID:             id,
		Name:           asString(m["name"]),
		ImageObject:    asString(m["image"]),
		Status:         catalogdom.Status(strings.ToLower(asString(m["status"]))),
		SellingPrice:   price,
		StockAvailable: asInt(m["stockAvailable"]),
	}
	if err := p.Validate(); err != nil {
		return catalogdom.Product{}, fmt.Errorf("catalog_resolver_fs: %s: %w", id, err)
	}
	return p, nil
}

// ProductToDocData is the stored shape (used by the seed command).
func ProductToDocData(p catalogdom.Product) map[string]any {
	return map[string]any{
		"name":           p.Name,
		"image":          p.ImageObject,
		"status":         string(p.Status),
		"sellingPrice":   p.SellingPrice.String(),
		"stockAvailable": p.StockAvailable,
	}
}
