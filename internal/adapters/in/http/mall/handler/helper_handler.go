// internal/adapters/in/http/mall/handler/helper_handler.go
package mallHandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/adapters/in/http/middleware"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/common"
	"storefront/internal/platform/logger"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, kind, msg string) {
	writeJSON(w, code, errorBody{Error: kind, Message: msg})
}

// statusOf maps a shared error kind to its HTTP status.
func statusOf(err error) (int, string) {
	switch k := common.Kind(err); k {
	case common.ErrNotFound:
		return http.StatusNotFound, k.Error()
	case common.ErrInvalidArgument:
		return http.StatusBadRequest, k.Error()
	case common.ErrUnavailable, common.ErrInsufficientStock, common.ErrDuplicate:
		return http.StatusConflict, k.Error()
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeUsecaseErr writes the mapped status. Internal errors are logged and
// their text is not sent to the client.
func writeUsecaseErr(w http.ResponseWriter, log *logger.Logger, op string, err error) {
	code, kind := statusOf(err)
	if code == http.StatusInternalServerError {
		log.Error(op+" failed", "err", err)
		writeErr(w, code, kind, "internal server error")
		return
	}
	writeErr(w, code, kind, err.Error())
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid json: %v", common.ErrInvalidArgument, err)
	}
	return nil
}

// currentUser writes 401 and returns false when the request is unauthenticated.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := middleware.CurrentUserUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized", "missing user")
		return "", false
	}
	return uid, true
}

// ------------------------------------------------------------
// cart response (mutations)
// ------------------------------------------------------------

type cartLineResponse struct {
	LineID        string          `json:"lineId"`
	ProductID     string          `json:"productId"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	Quantity      int             `json:"quantity"`
	PriceAtAdd    decimal.Decimal `json:"priceAtAdd"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	AddedAt       time.Time       `json:"addedAt"`
}

type cartResponse struct {
	UserID        string             `json:"userId"`
	Lines         []cartLineResponse `json:"lines"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalValue    decimal.Decimal    `json:"totalValue"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	ExpiresAt     time.Time          `json:"expiresAt"`
}

func toCartResponse(c *cartdom.Cart) cartResponse {
	out := cartResponse{Lines: []cartLineResponse{}}
	if c == nil {
		return out
	}
	out.UserID = c.ID
	out.UpdatedAt = c.UpdatedAt
	out.ExpiresAt = c.ExpiresAt
	for _, l := range c.Lines {
		out.Lines = append(out.Lines, cartLineResponse{
			LineID:        l.ID(),
			ProductID:     l.ProductID,
			SelectedColor: l.SelectedColor,
			Quantity:      l.Quantity,
			PriceAtAdd:    l.PriceAtAdd,
			LineTotal:     l.Subtotal(),
			AddedAt:       l.AddedAt,
		})
	}
	t := c.Totals()
	out.TotalQuantity = t.TotalQuantity
	out.TotalValue = t.TotalValue
	return out
}
