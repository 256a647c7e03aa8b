// internal/adapters/in/http/mall/handler/checkout_handler.go
package mallHandler

import (
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/middleware"
	usecase "storefront/internal/application/usecase"
	"storefront/internal/platform/logger"
)

// CheckoutHandler serves /mall/me/checkout. Nothing here persists an order.
type CheckoutHandler struct {
	uc  *usecase.CheckoutUsecase
	log *logger.Logger
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, log: logger.OrNop(log).Component("mall_checkout_handler")}
}

type checkoutRequest struct {
	SelectedLineIDs []string `json:"selectedLineIds"`
	AddressID       string   `json:"addressId"`
	PaymentMethod   string   `json:"paymentMethod"`
	Email           string   `json:"email,omitempty"`
}

func (req checkoutRequest) input(uid string) usecase.PreviewInput {
	return usecase.PreviewInput{
		UserID:          uid,
		SelectedLineIDs: req.SelectedLineIDs,
		AddressID:       req.AddressID,
		PaymentMethod:   req.PaymentMethod,
	}
}

// Preview: POST /mall/me/checkout/preview
func (h *CheckoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseErr(w, h.log, "checkout preview", err)
		return
	}
	p, err := h.uc.BuildPreview(r.Context(), req.input(uid))
	if err != nil {
		writeUsecaseErr(w, h.log, "checkout preview", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Confirm: POST /mall/me/checkout/confirm
// Recipient: body email, then the token email, then the address email.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseErr(w, h.log, "checkout confirm", err)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = middleware.CurrentUserEmail(r)
	}

	p, err := h.uc.Confirm(r.Context(), req.input(uid), email)
	if err != nil {
		writeUsecaseErr(w, h.log, "checkout confirm", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
