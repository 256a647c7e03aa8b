// internal/platform/di/mall/container.go
package mall

import (
	"context"
	"errors"

	memory "storefront/internal/adapters/out/memory"
	outfs "storefront/internal/adapters/out/firestore"
	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	catalogdom "storefront/internal/domain/catalog"
	appcfg "storefront/internal/infra/config"
	shared "storefront/internal/platform/di/shared"
	"storefront/internal/platform/logger"
)

// Container is the mall DI container.
// Pure DI: build deps only. Routing lives in register.go.
type Container struct {
	Infra *shared.Infra
	Log   *logger.Logger

	CartUC     *usecase.CartUsecase
	WishlistUC *usecase.WishlistUsecase
	AddressUC  *usecase.AddressUsecase
	CheckoutUC *usecase.CheckoutUsecase

	CartQ *mallquery.CartQuery
}

// NewContainer wires repositories, usecases and queries for infra.Config.
func NewContainer(ctx context.Context, infra *shared.Infra, log *logger.Logger) (*Container, error) {
	if infra == nil || infra.Config == nil {
		return nil, errors.New("di.mall: infra is nil")
	}
	cfg := infra.Config
	l := logger.OrNop(log)

	fees, err := buildFeeRule(cfg)
	if err != nil {
		return nil, err
	}

	var (
		cartRepo cartdom.Repository
		catalog  catalogdom.Resolver
	)
	switch cfg.StoreBackend {
	case appcfg.BackendMemory:
		cartRepo = memory.NewCartRepository()
		mc, err := buildMemoryCatalog(cfg, l)
		if err != nil {
			return nil, err
		}
		catalog = mc
		l.Warn("memory store backend: data is lost on restart")
	default:
		if infra.Firestore == nil {
			return nil, errors.New("di.mall: firestore client is nil")
		}
		cartRepo = outfs.NewCartRepositoryFS(infra.Firestore)
		catalog = outfs.NewCatalogResolverFS(infra.Firestore)
	}

	wishlistRepo, err := buildWishlistRepo(infra)
	if err != nil {
		return nil, err
	}
	addressRepo, err := buildAddressRepo(infra)
	if err != nil {
		return nil, err
	}

	var events usecase.EventPublisher
	if infra.Events != nil {
		events = infra.Events
	}

	c := &Container{Infra: infra, Log: l}

	c.CartUC = usecase.NewCartUsecase(cartRepo, catalog).
		WithEvents(events).
		WithLogger(l).
		WithTTL(cfg.CartTTL)

	c.WishlistUC = usecase.NewWishlistUsecase(wishlistRepo, catalog, c.CartUC).
		WithEvents(events).
		WithLogger(l)

	c.AddressUC = usecase.NewAddressUsecase(addressRepo).WithLogger(l)

	c.CheckoutUC = usecase.NewCheckoutUsecase(c.CartUC, c.AddressUC, fees).WithLogger(l)
	if mailer := buildCheckoutMailer(ctx, infra, l); mailer != nil {
		c.CheckoutUC.WithMailer(mailer)
	}

	c.CartQ = mallquery.NewCartQuery(c.CartUC, catalog).
		WithImageResolver(buildImageResolver(infra)).
		WithLogger(l)

	return c, nil
}
