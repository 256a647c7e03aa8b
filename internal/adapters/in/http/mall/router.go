// internal/adapters/in/http/mall/router.go
package mall

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mallHandler "storefront/internal/adapters/in/http/mall/handler"
	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/platform/logger"
)

// Deps is the buyer-facing (mall) handler set.
type Deps struct {
	Cart     *mallHandler.CartHandler
	Wishlist *mallHandler.WishlistHandler
	Address  *mallHandler.AddressHandler
	Checkout *mallHandler.CheckoutHandler

	// Auth puts the caller's uid into the request context.
	Auth func(http.Handler) http.Handler

	AllowedOrigins []string
	Log            *logger.Logger
}

// NewRouter builds the mall HTTP surface.
// Chain: CORS -> Recover -> RequestID -> request log -> (auth) -> handler.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.Recover(deps.Log))
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog(deps.Log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/mall/me", func(r chi.Router) {
		if deps.Auth != nil {
			r.Use(deps.Auth)
		}
		Register(r, deps)
	})
	return r
}

// Register mounts the /mall/me routes. A nil handler leaves its routes unregistered (404).
func Register(r chi.Router, deps Deps) {
	log := logger.OrNop(deps.Log).Component("mall.router")

	if h := deps.Cart; h != nil {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Clear)
			r.Get("/totals", h.Totals)
			r.Post("/items", h.AddItem)
			r.Put("/items", h.UpdateItem)
			r.Delete("/items", h.RemoveItem)
		})
	} else {
		log.Warn("nil handler", "name", "Cart")
	}

	if h := deps.Wishlist; h != nil {
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Clear)
			r.Get("/count", h.Count)
			r.Post("/items", h.Add)
			r.Get("/items/{productId}", h.Contains)
			r.Delete("/items/{productId}", h.Remove)
			r.Post("/items/{productId}/move-to-cart", h.MoveToCart)
		})
	} else {
		log.Warn("nil handler", "name", "Wishlist")
	}

	if h := deps.Address; h != nil {
		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/default", h.SetDefault)
		})
	} else {
		log.Warn("nil handler", "name", "Address")
	}

	if h := deps.Checkout; h != nil {
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/preview", h.Preview)
			r.Post("/confirm", h.Confirm)
		})
	} else {
		log.Warn("nil handler", "name", "Checkout")
	}
}
