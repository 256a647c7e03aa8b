// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/common"
)

var (
	ErrInvalidCart       = errors.New("cart: invalid")
	ErrInvalidProductID  = fmt.Errorf("%w: cart: productId is empty", common.ErrInvalidArgument)
	ErrInvalidQuantity   = fmt.Errorf("%w: cart: quantity must be >= 1", common.ErrInvalidArgument)
	ErrLineNotFound      = fmt.Errorf("%w: cart line", common.ErrNotFound)
	ErrCartNotFound      = fmt.Errorf("%w: cart", common.ErrNotFound)
	ErrInsufficientStock = fmt.Errorf("%w: cart", common.ErrInsufficientStock)
)

// DefaultCartTTL is the inactivity window after which the cart becomes eligible for auto deletion
// (Firestore TTL should be configured on expiresAt).
const DefaultCartTTL = 30 * 24 * time.Hour

// lineIDSeparator joins productId and color into a line id.
// Each part is escaped first so the separator never appears inside a part.
const lineIDSeparator = "__"

var lineIDPartEscaper = strings.NewReplacer("%", "%25", "_", "%5F")

// LineKey identifies a cart line. Two adds with the same key merge into one line.
type LineKey struct {
	ProductID     string
	SelectedColor string
}

func NewLineKey(productID, selectedColor string) LineKey {
	return LineKey{
		ProductID:     strings.TrimSpace(productID),
		SelectedColor: strings.TrimSpace(selectedColor),
	}
}

// ID is the deterministic line id: productId, or productId__color when a color
// is selected. "%" and "_" inside either part are percent-escaped, so distinct
// keys never share an id ("a"+"b" is a__b, "a__b"+"" is a%5F%5Fb).
func (k LineKey) ID() string {
	pid := lineIDPartEscaper.Replace(k.ProductID)
	if k.SelectedColor == "" {
		return pid
	}
	return pid + lineIDSeparator + lineIDPartEscaper.Replace(k.SelectedColor)
}

// Line is one entry of a cart.
type Line struct {
	ProductID     string          `json:"productId"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	PriceAtAdd    decimal.Decimal `json:"priceAtAdd"`
	AddedAt       time.Time       `json:"addedAt"`
}

func (l Line) Key() LineKey {
	return NewLineKey(l.ProductID, l.SelectedColor)
}

func (l Line) ID() string {
	return l.Key().ID()
}

// Subtotal uses the price snapshot, never the live catalog price.
func (l Line) Subtotal() decimal.Decimal {
	return l.PriceAtAdd.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart represents "a cart document".
//   - docId = owner user id
//   - Lines keep insertion order
//   - ExpiresAt: for Firestore TTL, refreshed on each mutation
type Cart struct {
	ID    string `json:"id"`
	Lines []Line `json:"lines"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Totals are derived on read and never stored.
type Totals struct {
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

// NewCart creates an empty cart for the owner.
func NewCart(ownerID string, now time.Time) (*Cart, error) {
	now = now.UTC()
	c := &Cart{
		ID:        strings.TrimSpace(ownerID),
		Lines:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultCartTTL),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add puts quantity units of p into the cart.
//
// An existing line with the same key is incremented and keeps its price snapshot.
// A new line snapshots p.SellingPrice. The resulting line quantity must fit p's stock.
func (c *Cart) Add(p catalog.Product, quantity int, selectedColor string, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	key := NewLineKey(p.ID, selectedColor)
	if key.ProductID == "" {
		return ErrInvalidProductID
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if err := p.Sellable(); err != nil {
		return err
	}

	idx := c.indexOf(key)
	want := quantity
	if idx >= 0 {
		want += c.Lines[idx].Quantity
	}
	if want > p.StockAvailable {
		return fmt.Errorf("%w: productId=%s requested=%d available=%d",
			ErrInsufficientStock, key.ProductID, want, p.StockAvailable)
	}

	if idx >= 0 {
		c.Lines[idx].Quantity = want
	} else {
		c.Lines = append(c.Lines, Line{
			ProductID:     key.ProductID,
			Quantity:      quantity,
			SelectedColor: key.SelectedColor,
			PriceAtAdd:    p.SellingPrice,
			AddedAt:       now.UTC(),
		})
	}

	c.touch(now)
	return c.Validate()
}

// SetQuantity replaces the quantity of an existing line, checked against p's current stock.
func (c *Cart) SetQuantity(key LineKey, quantity int, p catalog.Product, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	idx := c.indexOf(key)
	if idx < 0 {
		return fmt.Errorf("%w: lineId=%s", ErrLineNotFound, key.ID())
	}
	if err := p.Sellable(); err != nil {
		return err
	}
	if quantity > p.StockAvailable {
		return fmt.Errorf("%w: productId=%s requested=%d available=%d",
			ErrInsufficientStock, key.ProductID, quantity, p.StockAvailable)
	}

	c.Lines[idx].Quantity = quantity
	c.touch(now)
	return c.Validate()
}

// Remove drops the line with key. It reports whether a line was removed.
func (c *Cart) Remove(key LineKey, now time.Time) bool {
	if c == nil {
		return false
	}
	idx := c.indexOf(key)
	if idx < 0 {
		return false
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	c.touch(now)
	return true
}

// Clear empties the cart. The document itself stays.
func (c *Cart) Clear(now time.Time) {
	if c == nil {
		return
	}
	c.Lines = []Line{}
	c.touch(now)
}

func (c *Cart) Line(key LineKey) (Line, bool) {
	idx := c.indexOf(key)
	if idx < 0 {
		return Line{}, false
	}
	return c.Lines[idx], true
}

// LineByID looks a line up by its composite line id.
func (c *Cart) LineByID(lineID string) (Line, bool) {
	if c == nil {
		return Line{}, false
	}
	id := strings.TrimSpace(lineID)
	for _, l := range c.Lines {
		if l.ID() == id {
			return l, true
		}
	}
	return Line{}, false
}

// HasProduct reports whether any line (any color) references productID.
func (c *Cart) HasProduct(productID string) bool {
	if c == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	for _, l := range c.Lines {
		if l.ProductID == pid {
			return true
		}
	}
	return false
}

func (c *Cart) Totals() Totals {
	t := Totals{TotalValue: decimal.Zero}
	if c == nil {
		return t
	}
	for _, l := range c.Lines {
		t.TotalQuantity += l.Quantity
		t.TotalValue = t.TotalValue.Add(l.Subtotal())
	}
	return t
}

// RefreshExpiry moves ExpiresAt to now+ttl. Non-positive ttl keeps the default window.
func (c *Cart) RefreshExpiry(now time.Time, ttl time.Duration) {
	if c == nil {
		return
	}
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	c.ExpiresAt = c.notBeforeCreation(now).Add(ttl)
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = c.notBeforeCreation(now)
	c.ExpiresAt = c.UpdatedAt.Add(DefaultCartTTL)
}

// notBeforeCreation clamps instance clock skew so UpdatedAt never precedes CreatedAt.
func (c *Cart) notBeforeCreation(now time.Time) time.Time {
	now = now.UTC()
	if now.Before(c.CreatedAt) {
		return c.CreatedAt
	}
	return now
}

// Validate checks the stored-shape invariants.
func (c *Cart) Validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() || c.ExpiresAt.IsZero() {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) || c.ExpiresAt.Before(c.UpdatedAt) {
		return ErrInvalidCart
	}

	seen := make(map[LineKey]struct{}, len(c.Lines))
	for _, l := range c.Lines {
		k := l.Key()
		if k.ProductID == "" || l.Quantity < 1 || l.PriceAtAdd.IsNegative() {
			return ErrInvalidCart
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate line %s", ErrInvalidCart, k.ID())
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Lines = make([]Line, len(c.Lines))
	copy(cp.Lines, c.Lines)
	return &cp
}

func (c *Cart) indexOf(key LineKey) int {
	if c == nil {
		return -1
	}
	k := NewLineKey(key.ProductID, key.SelectedColor)
	for i := range c.Lines {
		if c.Lines[i].Key() == k {
			return i
		}
	}
	return -1
}
