// internal/application/query/mall/dto/cart_dto.go
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartDTO is the response shape for the cart screen.
// Lines whose product is gone or not active are left out; HiddenLineCount says how many.
type CartDTO struct {
	UserID string        `json:"userId"`
	Lines  []CartLineDTO `json:"lines"`

	HiddenLineCount int `json:"hiddenLineCount"`

	// Totals of the stored cart (every line, priced at priceAtAdd).
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`

	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CartLineDTO struct {
	// ✅ identifiers (lineId is what checkout takes)
	LineID        string `json:"lineId"`
	ProductID     string `json:"productId"`
	SelectedColor string `json:"selectedColor,omitempty"`
	Quantity      int    `json:"quantity"`

	// resolved from the catalog at read time
	Name           string          `json:"name"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	Status         string          `json:"status"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	StockAvailable int             `json:"stockAvailable"`

	// snapshot taken when the line was created
	PriceAtAdd   decimal.Decimal `json:"priceAtAdd"`
	PriceChanged bool            `json:"priceChanged"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}
