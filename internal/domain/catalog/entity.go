// internal/domain/catalog/entity.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/common"
)

// Status of a product in the external catalog.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDraft    Status = "draft"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusDraft:
		return true
	default:
		return false
	}
}

// Product is the read-only view of a catalog item this core needs.
// The catalog store owns it; carts and wishlists only hold its id.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ImageObject    string          `json:"image,omitempty"` // gs://bucket/object, bucket-relative object path, or absolute URL
	Status         Status          `json:"status"`
	SellingPrice   decimal.Decimal `json:"sellingPrice"`
	StockAvailable int             `json:"stockAvailable"`
}

var (
	ErrInvalidID    = errors.New("catalog: invalid id")
	ErrInvalidPrice = errors.New("catalog: invalid sellingPrice")
	ErrInvalidStock = errors.New("catalog: invalid stockAvailable")

	// ErrProductNotFound is returned by usecases when a referenced product resolves Absent.
	ErrProductNotFound = fmt.Errorf("%w: product", common.ErrNotFound)
	// ErrProductUnavailable is returned when the product exists but is not sellable.
	ErrProductUnavailable = fmt.Errorf("%w: product is not active", common.ErrUnavailable)
)

func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidID
	}
	if p.SellingPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if p.StockAvailable < 0 {
		return ErrInvalidStock
	}
	return nil
}

func (p Product) IsActive() bool {
	return p.Status == StatusActive
}

// Sellable returns the product-level error for a mutation that needs an active product.
func (p Product) Sellable() error {
	if !p.IsActive() {
		return fmt.Errorf("%w: id=%s status=%s", ErrProductUnavailable, p.ID, p.Status)
	}
	return nil
}

// Resolution is the result of looking a product up by id.
// A dangling id is Absent, never an error.
type Resolution struct {
	product Product
	present bool
}

func Present(p Product) Resolution {
	return Resolution{product: p, present: true}
}

func Absent() Resolution {
	return Resolution{}
}

func (r Resolution) Get() (Product, bool) {
	return r.product, r.present
}

func (r Resolution) IsPresent() bool {
	return r.present
}

// RequireSellable unwraps a resolution for cart/wishlist mutations:
// Absent -> not found, non-active -> unavailable.
func (r Resolution) RequireSellable(productID string) (Product, error) {
	p, ok := r.Get()
	if !ok {
		return Product{}, fmt.Errorf("%w: id=%s", ErrProductNotFound, productID)
	}
	if err := p.Sellable(); err != nil {
		return Product{}, err
	}
	return p, nil
}
