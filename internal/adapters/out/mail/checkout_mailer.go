// internal/adapters/out/mail/checkout_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/application/usecase"
)

// CheckoutMailer implements usecase.CheckoutMailer on top of an EmailClient.
type CheckoutMailer struct {
	client      EmailClient
	fromAddress string
}

func NewCheckoutMailer(client EmailClient, fromAddress string) *CheckoutMailer {
	return &CheckoutMailer{client: client, fromAddress: strings.TrimSpace(fromAddress)}
}

func (m *CheckoutMailer) SendCheckoutConfirmation(ctx context.Context, to string, p usecase.Preview) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("checkout mailer: email client is nil")
	}
	subject := fmt.Sprintf("Your order summary (%s)", shortID(p.PreviewID))
	return m.client.Send(ctx, m.fromAddress, strings.TrimSpace(to), subject, renderCheckoutBody(p))
}

func renderCheckoutBody(p usecase.Preview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", p.Address.FullName)
	b.WriteString("Here is a summary of your order.\n\n")

	for _, l := range p.Lines {
		name := l.ProductID
		if l.SelectedColor != "" {
			name += " (" + l.SelectedColor + ")"
		}
		fmt.Fprintf(&b, "  %s  x%d  @ %s  = %s\n", name, l.Quantity, l.UnitPrice.StringFixed(2), l.LineTotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nSubtotal:     %s\n", p.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Delivery fee: %s\n", p.DeliveryFee.StringFixed(2))
	fmt.Fprintf(&b, "Total:        %s\n", p.Total.StringFixed(2))
	fmt.Fprintf(&b, "Payment:      %s\n\n", strings.ToUpper(string(p.PaymentMethod)))

	a := p.Address
	b.WriteString("Ship to:\n")
	fmt.Fprintf(&b, "  %s\n", a.ShippingAddress)
	if a.Landmark != "" {
		fmt.Fprintf(&b, "  %s\n", a.Landmark)
	}
	fmt.Fprintf(&b, "  %s, %s %s\n  %s\n", a.City, a.State, a.PinCode, a.Country)
	fmt.Fprintf(&b, "  Phone: %s\n", a.MobileNumber)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
