// internal/adapters/in/http/mall/handler/address_handler.go
package mallHandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	usecase "storefront/internal/application/usecase"
	addressdom "storefront/internal/domain/address"
	"storefront/internal/platform/logger"
)

// AddressHandler serves /mall/me/addresses.
type AddressHandler struct {
	uc  *usecase.AddressUsecase
	log *logger.Logger
}

func NewAddressHandler(uc *usecase.AddressUsecase, log *logger.Logger) *AddressHandler {
	return &AddressHandler{uc: uc, log: logger.OrNop(log).Component("mall_address_handler")}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.uc.List(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "list addresses", err)
		return
	}
	if list == nil {
		list = []addressdom.Address{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list})
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var f addressdom.Fields
	if err := decodeJSON(r, &f); err != nil {
		writeUsecaseErr(w, h.log, "create address", err)
		return
	}
	a, err := h.uc.Create(r.Context(), uid, f)
	if err != nil {
		writeUsecaseErr(w, h.log, "create address", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	a, err := h.uc.Get(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "get address", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var p addressdom.Patch
	if err := decodeJSON(r, &p); err != nil {
		writeUsecaseErr(w, h.log, "update address", err)
		return
	}
	a, err := h.uc.Update(r.Context(), chi.URLParam(r, "id"), uid, p)
	if err != nil {
		writeUsecaseErr(w, h.log, "update address", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		writeUsecaseErr(w, h.log, "delete address", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	a, err := h.uc.SetDefault(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		writeUsecaseErr(w, h.log, "set default address", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
