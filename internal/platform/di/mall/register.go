// internal/platform/di/mall/register.go
package mall

import (
	"encoding/json"
	"net/http"

	mallhttp "storefront/internal/adapters/in/http/mall"
	mallhandler "storefront/internal/adapters/in/http/mall/handler"
	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/platform/logger"
)

// Handler builds the mall HTTP handler from the container.
// User auth is fail-closed: without Firebase Auth every /mall/me route answers 503.
func Handler(cont *Container) http.Handler {
	if cont == nil {
		return http.NotFoundHandler()
	}
	log := logger.OrNop(cont.Log)

	var auth func(http.Handler) http.Handler
	if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		auth = (&middleware.UserAuthMiddleware{Verifier: cont.Infra.FirebaseAuth, Log: log}).Handler
	} else {
		log.Error("firebase auth is nil; /mall/me routes will return 503")
		auth = func(http.Handler) http.Handler { return authUnavailable() }
	}

	var origins []string
	if cont.Infra != nil && cont.Infra.Config != nil {
		origins = cont.Infra.Config.AllowedOrigins()
	}

	return mallhttp.NewRouter(mallhttp.Deps{
		Cart:           mallhandler.NewCartHandler(cont.CartUC, cont.CartQ, log),
		Wishlist:       mallhandler.NewWishlistHandler(cont.WishlistUC, log),
		Address:        mallhandler.NewAddressHandler(cont.AddressUC, log),
		Checkout:       mallhandler.NewCheckoutHandler(cont.CheckoutUC, log),
		Auth:           auth,
		AllowedOrigins: origins,
		Log:            log,
	})
}

func authUnavailable() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "unavailable",
			"message": "user auth is not initialized",
		})
	})
}
