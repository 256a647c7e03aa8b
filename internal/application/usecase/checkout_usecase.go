// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	addressdom "storefront/internal/domain/address"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/common"
	"storefront/internal/platform/logger"
)

// PaymentMethod is the fixed set a preview accepts.
type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "cod"
	PaymentUPI        PaymentMethod = "upi"
	PaymentCard       PaymentMethod = "card"
	PaymentNetBanking PaymentMethod = "netbanking"
	PaymentWallet     PaymentMethod = "wallet"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case PaymentCOD, PaymentUPI, PaymentCard, PaymentNetBanking, PaymentWallet:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrCheckoutInvalidPaymentMethod, s)
	}
}

var (
	ErrCheckoutNoLinesSelected      = fmt.Errorf("%w: checkout: selectedLineIds is empty", common.ErrInvalidArgument)
	ErrCheckoutInvalidPaymentMethod = fmt.Errorf("%w: checkout: unsupported payment method", common.ErrInvalidArgument)
	ErrCheckoutAddressIDEmpty       = fmt.Errorf("%w: checkout: addressId is empty", common.ErrInvalidArgument)
	ErrCheckoutEmailEmpty           = fmt.Errorf("%w: checkout: confirmation email is empty", common.ErrInvalidArgument)
	ErrCheckoutMailerMissing        = errors.New("checkout: mailer is not configured")
)

// FeeRule decides the delivery fee from the subtotal.
type FeeRule struct {
	FreeShippingThreshold decimal.Decimal
	FlatDeliveryFee       decimal.Decimal
}

func DefaultFeeRule() FeeRule {
	return FeeRule{
		FreeShippingThreshold: decimal.NewFromInt(500),
		FlatDeliveryFee:       decimal.NewFromInt(40),
	}
}

// DeliveryFee is zero at or above the threshold, the flat fee below it.
func (r FeeRule) DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(r.FreeShippingThreshold) {
		return decimal.Zero
	}
	return r.FlatDeliveryFee
}

// PreviewInput is the app-level input for BuildPreview.
type PreviewInput struct {
	UserID          string
	SelectedLineIDs []string
	AddressID       string
	PaymentMethod   string
}

type PreviewLine struct {
	LineID        string          `json:"lineId"`
	ProductID     string          `json:"productId"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

// Preview is never persisted.
type Preview struct {
	PreviewID     string             `json:"previewId"`
	UserID        string             `json:"userId"`
	Lines         []PreviewLine      `json:"lines"`
	Address       addressdom.Address `json:"address"`
	PaymentMethod PaymentMethod      `json:"paymentMethod"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	DeliveryFee   decimal.Decimal    `json:"deliveryFee"`
	Total         decimal.Decimal    `json:"total"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// CheckoutMailer is an outbound port for the confirmation mail.
type CheckoutMailer interface {
	SendCheckoutConfirmation(ctx context.Context, to string, p Preview) error
}

// CheckoutUsecase composes cart + address book into an order preview.
// It never writes: no order record, no stock change, the cart is left as is.
type CheckoutUsecase struct {
	carts     *CartUsecase
	addresses *AddressUsecase
	fees      FeeRule
	mailer    CheckoutMailer
	now       func() time.Time
	log       *logger.Logger
}

func NewCheckoutUsecase(carts *CartUsecase, addresses *AddressUsecase, fees FeeRule) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:     carts,
		addresses: addresses,
		fees:      fees,
		now:       time.Now,
		log:       logger.Nop(),
	}
}

func (u *CheckoutUsecase) WithMailer(m CheckoutMailer) *CheckoutUsecase {
	u.mailer = m
	return u
}

func (u *CheckoutUsecase) WithLogger(l *logger.Logger) *CheckoutUsecase {
	u.log = logger.OrNop(l).Component("checkout_uc")
	return u
}

// BuildPreview prices the selected cart lines with their price snapshots.
// It only reads: a user without a cart gets NotFound for the selected lines.
func (u *CheckoutUsecase) BuildPreview(ctx context.Context, in PreviewInput) (Preview, error) {
	uid, err := normalizeUserID(in.UserID)
	if err != nil {
		return Preview{}, err
	}
	lineIDs := normalizeLineIDs(in.SelectedLineIDs)
	if len(lineIDs) == 0 {
		return Preview{}, ErrCheckoutNoLinesSelected
	}
	method, err := ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return Preview{}, err
	}
	if strings.TrimSpace(in.AddressID) == "" {
		return Preview{}, ErrCheckoutAddressIDEmpty
	}

	addr, err := u.addresses.Get(ctx, in.AddressID, uid)
	if err != nil {
		return Preview{}, err
	}

	c, err := u.carts.Find(ctx, uid)
	if errors.Is(err, cartdom.ErrCartNotFound) {
		return Preview{}, fmt.Errorf("%w: lineId=%s", cartdom.ErrLineNotFound, lineIDs[0])
	}
	if err != nil {
		return Preview{}, err
	}

	lines := make([]PreviewLine, 0, len(lineIDs))
	subtotal := decimal.Zero
	for _, id := range lineIDs {
		l, ok := c.LineByID(id)
		if !ok {
			return Preview{}, fmt.Errorf("%w: lineId=%s", cartdom.ErrLineNotFound, id)
		}
		lt := l.Subtotal()
		subtotal = subtotal.Add(lt)
		lines = append(lines, PreviewLine{
			LineID:        l.ID(),
			ProductID:     l.ProductID,
			SelectedColor: l.SelectedColor,
			Quantity:      l.Quantity,
			UnitPrice:     l.PriceAtAdd,
			LineTotal:     lt,
		})
	}

	fee := u.fees.DeliveryFee(subtotal)
	p := Preview{
		PreviewID:     uuid.NewString(),
		UserID:        uid,
		Lines:         lines,
		Address:       addr,
		PaymentMethod: method,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         subtotal.Add(fee),
		CreatedAt:     u.now().UTC(),
	}

	u.log.Debug("preview built", "userId", uid, "previewId", p.PreviewID, "lines", len(lines), "total", p.Total.String())
	return p, nil
}

// Confirm builds the preview and mails it to the buyer. Still nothing is persisted.
// An empty email falls back to the address email.
func (u *CheckoutUsecase) Confirm(ctx context.Context, in PreviewInput, email string) (Preview, error) {
	if u.mailer == nil {
		return Preview{}, ErrCheckoutMailerMissing
	}
	p, err := u.BuildPreview(ctx, in)
	if err != nil {
		return Preview{}, err
	}

	to := strings.TrimSpace(email)
	if to == "" {
		to = p.Address.Email
	}
	if to == "" {
		return Preview{}, ErrCheckoutEmailEmpty
	}

	if err := u.mailer.SendCheckoutConfirmation(ctx, to, p); err != nil {
		return Preview{}, fmt.Errorf("checkout: send confirmation: %w", err)
	}
	u.log.Info("confirmation sent", "userId", p.UserID, "previewId", p.PreviewID)
	return p, nil
}

// normalizeLineIDs trims and drops blanks and repeats, keeping order.
func normalizeLineIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
