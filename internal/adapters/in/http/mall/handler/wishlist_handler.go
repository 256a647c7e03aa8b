// internal/adapters/in/http/mall/handler/wishlist_handler.go
package mallHandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	usecase "storefront/internal/application/usecase"
	wishlistdom "storefront/internal/domain/wishlist"
	"storefront/internal/platform/logger"
)

// WishlistHandler serves /mall/me/wishlist.
type WishlistHandler struct {
	uc  *usecase.WishlistUsecase
	log *logger.Logger
}

func NewWishlistHandler(uc *usecase.WishlistUsecase, log *logger.Logger) *WishlistHandler {
	return &WishlistHandler{uc: uc, log: logger.OrNop(log).Component("mall_wishlist_handler")}
}

func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	wl, err := h.uc.GetOrCreate(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "get wishlist", err)
		return
	}
	writeJSON(w, http.StatusOK, wishlistResponse(wl))
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseErr(w, h.log, "add wishlist item", err)
		return
	}
	wl, err := h.uc.Add(r.Context(), uid, req.ProductID)
	if err != nil {
		writeUsecaseErr(w, h.log, "add wishlist item", err)
		return
	}
	writeJSON(w, http.StatusCreated, wishlistResponse(wl))
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	wl, err := h.uc.Remove(r.Context(), uid, chi.URLParam(r, "productId"))
	if err != nil {
		writeUsecaseErr(w, h.log, "remove wishlist item", err)
		return
	}
	writeJSON(w, http.StatusOK, wishlistResponse(wl))
}

func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	wl, err := h.uc.Clear(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "clear wishlist", err)
		return
	}
	writeJSON(w, http.StatusOK, wishlistResponse(wl))
}

func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	pid := chi.URLParam(r, "productId")
	in, err := h.uc.Contains(r.Context(), uid, pid)
	if err != nil {
		writeUsecaseErr(w, h.log, "wishlist contains", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"productId": pid, "contains": in})
}

func (h *WishlistHandler) Count(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	n, err := h.uc.Count(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "wishlist count", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// MoveToCart responds with the cart. If the cart write succeeded but the
// wishlist removal did not, the error is reported (500) and logged by the usecase.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	c, err := h.uc.MoveToCart(r.Context(), uid, chi.URLParam(r, "productId"))
	if err != nil {
		writeUsecaseErr(w, h.log, "move to cart", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func wishlistResponse(wl *wishlistdom.Wishlist) map[string]any {
	items := []wishlistdom.Item{}
	if wl != nil && wl.Items != nil {
		items = wl.Items
	}
	out := map[string]any{"items": items, "count": len(items)}
	if wl != nil {
		out["userId"] = wl.ID
		out["updatedAt"] = wl.UpdatedAt
	}
	return out
}
