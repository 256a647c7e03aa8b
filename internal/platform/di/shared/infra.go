// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	kafkaout "storefront/internal/adapters/out/kafka"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/platform/logger"
)

// Infra is shared runtime infrastructure for DI.
// It owns every external client and closes them in Close.
//
// IMPORTANT:
// Infra must NOT depend on routers, handlers, usecases or queries.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed). nil when the config does not need them.
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	Postgres      *sql.DB
	Redis         *goredis.Client
	Events        *kafkaout.EventPublisher

	log *logger.Logger
}

// NewInfra opens the clients the config asks for.
// Firestore, Postgres and Redis are strict when selected as a store.
// GCS, Firebase Auth, Secret Manager and Kafka are best-effort (warn + continue).
func NewInfra(ctx context.Context, cfg *appcfg.Config, log *logger.Logger) (*Infra, error) {
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}
	l := logger.OrNop(log).Component("shared.infra")

	inf := &Infra{Config: cfg, ProjectID: resolveProjectID(cfg), log: l}

	needFirestore := cfg.StoreBackend == appcfg.BackendFirestore
	memoryMode := cfg.StoreBackend == appcfg.BackendMemory

	clientOpts := credentialOptions(cfg, l)

	// 1) Firestore (strict unless memory mode)
	if needFirestore {
		if inf.ProjectID == "" {
			return nil, errors.New("shared.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
		}
		fs, err := firestore.NewClient(ctx, inf.ProjectID, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("shared.infra: firestore.NewClient failed (project=%s): %w", inf.ProjectID, err)
		}
		inf.Firestore = fs
		l.Info("firestore connected", "project", inf.ProjectID)
	}

	// 2) Postgres (strict when ADDRESS_STORE=postgres)
	if !memoryMode && cfg.AddressStore == appcfg.BackendPostgres {
		db, err := openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = inf.Close()
			return nil, err
		}
		inf.Postgres = db
		l.Info("postgres connected")
	}

	// 3) Redis (strict when WISHLIST_STORE=redis)
	if !memoryMode && cfg.WishlistStore == appcfg.BackendRedis {
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			_ = inf.Close()
			return nil, errors.New("shared.infra: WISHLIST_STORE=redis but REDIS_ADDR is empty")
		}
		rc := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			_ = rc.Close()
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: redis ping %s: %w", cfg.RedisAddr, err)
		}
		inf.Redis = rc
		l.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// 4) GCS (best-effort; image URLs fall back to public URLs)
	if !memoryMode {
		gcs, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			l.Warn("storage.NewClient failed, image URLs will not be signed", "err", err)
		} else {
			inf.GCS = gcs
		}
	}

	// 5) Firebase App/Auth (best-effort; without it /mall/me answers 503)
	if pid := firstNonEmpty(cfg.FirebaseProjectID, inf.ProjectID); pid != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: pid}, clientOpts...)
		if err != nil {
			l.Warn("firebase app init failed", "err", err)
		} else {
			inf.FirebaseApp = app
			if ac, err := app.Auth(ctx); err != nil {
				l.Warn("firebase auth init failed", "err", err)
			} else {
				inf.FirebaseAuth = ac
				l.Info("firebase auth initialized")
			}
		}
	} else {
		l.Warn("firebase project id is empty, user auth disabled")
	}

	// 6) Secret Manager (best-effort; only needed for SENDGRID_API_KEY_SECRET)
	if strings.TrimSpace(cfg.SendGridAPIKeySecret) != "" {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			l.Warn("secretmanager.NewClient failed", "err", err)
		} else {
			inf.SecretManager = sm
		}
	}

	// 7) Kafka (best-effort; no brokers means events are dropped)
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		inf.Events = kafkaout.NewEventPublisher(brokers, cfg.KafkaTopicPrefix, log)
		l.Info("kafka publisher configured", "brokers", strings.Join(brokers, ","), "prefix", cfg.KafkaTopicPrefix)
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if i.Events != nil {
		errs = append(errs, i.Events.Close())
	}
	if i.Firestore != nil {
		errs = append(errs, i.Firestore.Close())
	}
	if i.GCS != nil {
		errs = append(errs, i.GCS.Close())
	}
	if i.SecretManager != nil {
		errs = append(errs, i.SecretManager.Close())
	}
	if i.Postgres != nil {
		errs = append(errs, i.Postgres.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	return errors.Join(errs...)
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("shared.infra: ADDRESS_STORE=postgres but DATABASE_URL is empty")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("shared.infra: sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("shared.infra: postgres ping: %w", err)
	}
	return db, nil
}

func credentialOptions(cfg *appcfg.Config, l *logger.Logger) []option.ClientOption {
	credFile := firstNonEmpty(cfg.FirestoreCredentialsFile, cfg.GCPCreds)
	if credFile == "" {
		l.Info("using application default credentials")
		return nil
	}
	l.Info("using credentials file", "file", redactPath(credFile))
	return []option.ClientOption{option.WithCredentialsFile(credFile)}
}

func resolveProjectID(cfg *appcfg.Config) string {
	return firstNonEmpty(cfg.FirestoreProjectID, cfg.GCPProjectID, cfg.FirebaseProjectID)
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// redactPath keeps only the file name.
func redactPath(p string) string {
	return ".../" + filepath.Base(p)
}
