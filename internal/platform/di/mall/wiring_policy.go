// internal/platform/di/mall/wiring_policy.go
package mall

import (
	"context"
	"errors"
	"fmt"
	"strings"

	outdb "storefront/internal/adapters/out/db"
	outfs "storefront/internal/adapters/out/firestore"
	gcso "storefront/internal/adapters/out/gcs"
	mailout "storefront/internal/adapters/out/mail"
	memory "storefront/internal/adapters/out/memory"
	redisout "storefront/internal/adapters/out/redis"
	secretout "storefront/internal/adapters/out/secret"
	mallquery "storefront/internal/application/query/mall"
	usecase "storefront/internal/application/usecase"
	addressdom "storefront/internal/domain/address"
	catalogdom "storefront/internal/domain/catalog"
	wishlistdom "storefront/internal/domain/wishlist"
	appcfg "storefront/internal/infra/config"
	shared "storefront/internal/platform/di/shared"
	"storefront/internal/platform/logger"
)

// wiring_policy.go decides which optional adapters are enabled from config.
// It only builds adapters; it never constructs usecases.

func buildFeeRule(cfg *appcfg.Config) (usecase.FeeRule, error) {
	threshold, err := cfg.CheckoutFreeShippingThreshold()
	if err != nil {
		return usecase.FeeRule{}, err
	}
	fee, err := cfg.CheckoutFlatDeliveryFee()
	if err != nil {
		return usecase.FeeRule{}, err
	}
	return usecase.FeeRule{FreeShippingThreshold: threshold, FlatDeliveryFee: fee}, nil
}

// buildMemoryCatalog fills the in-process catalog from CATALOG_SEED_FILE.
// Without a file the catalog is empty and every product resolves as absent.
func buildMemoryCatalog(cfg *appcfg.Config, log *logger.Logger) (*memory.Catalog, error) {
	path := strings.TrimSpace(cfg.CatalogSeedFile)
	if path == "" {
		logger.OrNop(log).Warn("memory catalog is empty (CATALOG_SEED_FILE not set)")
		return memory.NewCatalog(), nil
	}
	products, err := catalogdom.ReadProductsFile(path)
	if err != nil {
		return nil, fmt.Errorf("di.mall: load catalog seed: %w", err)
	}
	logger.OrNop(log).Info("memory catalog seeded", "file", path, "products", len(products))
	return memory.NewCatalog(products...), nil
}

// buildWishlistRepo: memory mode > WISHLIST_STORE=redis > firestore.
func buildWishlistRepo(infra *shared.Infra) (wishlistdom.Repository, error) {
	cfg := infra.Config
	switch {
	case cfg.StoreBackend == appcfg.BackendMemory:
		return memory.NewWishlistRepository(), nil
	case cfg.WishlistStore == appcfg.BackendRedis:
		if infra.Redis == nil {
			return nil, errors.New("di.mall: WISHLIST_STORE=redis but redis client is nil")
		}
		return redisout.NewWishlistRepositoryRedis(infra.Redis), nil
	default:
		if infra.Firestore == nil {
			return nil, errors.New("di.mall: firestore client is nil")
		}
		return outfs.NewWishlistRepositoryFS(infra.Firestore), nil
	}
}

// buildAddressRepo: memory mode > ADDRESS_STORE=postgres > firestore.
func buildAddressRepo(infra *shared.Infra) (addressdom.Repository, error) {
	cfg := infra.Config
	switch {
	case cfg.StoreBackend == appcfg.BackendMemory:
		return memory.NewAddressRepository(), nil
	case cfg.AddressStore == appcfg.BackendPostgres:
		if infra.Postgres == nil {
			return nil, errors.New("di.mall: ADDRESS_STORE=postgres but database is nil")
		}
		return outdb.NewAddressRepositoryPG(infra.Postgres), nil
	default:
		if infra.Firestore == nil {
			return nil, errors.New("di.mall: firestore client is nil")
		}
		return outfs.NewAddressRepositoryFS(infra.Firestore), nil
	}
}

// buildImageResolver signs URLs when a storage client exists; public URLs otherwise.
func buildImageResolver(infra *shared.Infra) mallquery.ImageURLResolver {
	return gcso.NewImageURLResolver(infra.GCS, infra.Config.ProductImageBucket)
}

// buildCheckoutMailer enables checkout confirmation when a SendGrid key
// (env, or Secret Manager via SENDGRID_API_KEY_SECRET) and SENDGRID_FROM are set.
// Returns nil when disabled; Confirm then answers "mailer is not configured".
func buildCheckoutMailer(ctx context.Context, infra *shared.Infra, log *logger.Logger) usecase.CheckoutMailer {
	cfg := infra.Config
	log = logger.OrNop(log)
	from := strings.TrimSpace(cfg.SendGridFrom)
	if from == "" {
		log.Info("checkout mailer disabled (SENDGRID_FROM empty)")
		return nil
	}

	key := strings.TrimSpace(cfg.SendGridAPIKey)
	if key == "" && strings.TrimSpace(cfg.SendGridAPIKeySecret) != "" {
		v, err := secretout.NewProviderSM(infra.SecretManager, infra.ProjectID).Get(ctx, cfg.SendGridAPIKeySecret, "")
		if err != nil {
			log.Warn("sendgrid api key secret unavailable", "err", err)
		}
		key = v
	}
	if key == "" {
		log.Info("checkout mailer disabled (no sendgrid api key)")
		return nil
	}

	return mailout.NewCheckoutMailer(mailout.NewSendGridClient(key, log), from)
}
