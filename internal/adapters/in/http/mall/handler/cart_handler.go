// internal/adapters/in/http/mall/handler/cart_handler.go
package mallHandler

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/application/query/mall/dto"
	usecase "storefront/internal/application/usecase"
	"storefront/internal/platform/logger"
)

// CartQueryService is the cart read model (display view).
type CartQueryService interface {
	ListForDisplay(ctx context.Context, userID string) (dto.CartDTO, error)
}

// CartHandler serves /mall/me/cart.
type CartHandler struct {
	uc    *usecase.CartUsecase
	query CartQueryService
	log   *logger.Logger
}

func NewCartHandler(uc *usecase.CartUsecase, query CartQueryService, log *logger.Logger) *CartHandler {
	return &CartHandler{uc: uc, query: query, log: logger.OrNop(log).Component("mall_cart_handler")}
}

type addCartItemRequest struct {
	ProductID     string `json:"productId"`
	Quantity      *int   `json:"quantity"`
	SelectedColor string `json:"selectedColor"`
}

type setCartItemRequest struct {
	ProductID     string `json:"productId"`
	SelectedColor string `json:"selectedColor"`
	Quantity      int    `json:"quantity"`
}

// Get: GET /mall/me/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	v, err := h.query.ListForDisplay(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "list cart", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Totals: GET /mall/me/cart/totals
func (h *CartHandler) Totals(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	t, err := h.uc.Totals(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "cart totals", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalQuantity": t.TotalQuantity,
		"totalValue":    t.TotalValue,
	})
}

// AddItem: POST /mall/me/cart/items (quantity defaults to 1)
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseErr(w, h.log, "add cart item", err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	c, err := h.uc.AddItem(r.Context(), uid, req.ProductID, qty, req.SelectedColor)
	if err != nil {
		writeUsecaseErr(w, h.log, "add cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// UpdateItem: PUT /mall/me/cart/items
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req setCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseErr(w, h.log, "update cart item", err)
		return
	}

	c, err := h.uc.UpdateQuantity(r.Context(), uid, req.ProductID, req.SelectedColor, req.Quantity)
	if err != nil {
		writeUsecaseErr(w, h.log, "update cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// RemoveItem: DELETE /mall/me/cart/items?productId=..&selectedColor=..
// A JSON body with the same fields is accepted too.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	pid := strings.TrimSpace(q.Get("productId"))
	color := strings.TrimSpace(q.Get("selectedColor"))
	if pid == "" {
		var req setCartItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeUsecaseErr(w, h.log, "remove cart item", err)
			return
		}
		pid, color = req.ProductID, req.SelectedColor
	}

	c, err := h.uc.RemoveItem(r.Context(), uid, pid, color)
	if err != nil {
		writeUsecaseErr(w, h.log, "remove cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// Clear: DELETE /mall/me/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	c, err := h.uc.Clear(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "clear cart", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}
