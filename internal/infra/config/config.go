// internal/infra/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds every setting of the mall server. Values come from the environment,
// optionally layered over a file named by CONFIG_FILE.
type Config struct {
	Port     string `mapstructure:"PORT"`
	AppEnv   string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	GCPProjectID             string `mapstructure:"GCP_PROJECT_ID"`
	FirestoreProjectID       string `mapstructure:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `mapstructure:"FIRESTORE_CREDENTIALS_FILE"`
	GCPCreds                 string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseProjectID        string `mapstructure:"FIREBASE_PROJECT_ID"`

	// firestore | memory
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	// firestore | postgres
	AddressStore string `mapstructure:"ADDRESS_STORE"`
	// firestore | redis
	WishlistStore string `mapstructure:"WISHLIST_STORE"`

	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	KafkaBrokers     string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopicPrefix string `mapstructure:"KAFKA_TOPIC_PREFIX"`

	ProductImageBucket string `mapstructure:"PRODUCT_IMAGE_BUCKET"`
	// CatalogSeedFile loads products into the in-process catalog (STORE_BACKEND=memory).
	CatalogSeedFile string `mapstructure:"CATALOG_SEED_FILE"`

	SendGridAPIKey       string `mapstructure:"SENDGRID_API_KEY"`
	SendGridAPIKeySecret string `mapstructure:"SENDGRID_API_KEY_SECRET"`
	SendGridFrom         string `mapstructure:"SENDGRID_FROM"`

	FreeShippingThreshold string        `mapstructure:"CHECKOUT_FREE_SHIPPING_THRESHOLD"`
	FlatDeliveryFee       string        `mapstructure:"CHECKOUT_FLAT_DELIVERY_FEE"`
	CartTTL               time.Duration `mapstructure:"CART_TTL"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendRedis     = "redis"
)

var defaults = map[string]any{
	"PORT":                             "8080",
	"APP_ENV":                          "dev",
	"LOG_LEVEL":                        "info",
	"GCP_PROJECT_ID":                   "",
	"FIRESTORE_PROJECT_ID":             "",
	"FIRESTORE_CREDENTIALS_FILE":       "",
	"GOOGLE_APPLICATION_CREDENTIALS":   "",
	"FIREBASE_PROJECT_ID":              "",
	"STORE_BACKEND":                    BackendFirestore,
	"ADDRESS_STORE":                    BackendFirestore,
	"WISHLIST_STORE":                   BackendFirestore,
	"DATABASE_URL":                     "",
	"REDIS_ADDR":                       "",
	"REDIS_PASSWORD":                   "",
	"REDIS_DB":                         0,
	"KAFKA_BROKERS":                    "",
	"KAFKA_TOPIC_PREFIX":               "storefront.",
	"PRODUCT_IMAGE_BUCKET":             "",
	"CATALOG_SEED_FILE":                "",
	"SENDGRID_API_KEY":                 "",
	"SENDGRID_API_KEY_SECRET":          "",
	"SENDGRID_FROM":                    "",
	"CHECKOUT_FREE_SHIPPING_THRESHOLD": "500",
	"CHECKOUT_FLAT_DELIVERY_FEE":       "40",
	"CART_TTL":                         "720h",
	"CORS_ALLOWED_ORIGINS":             "*",
}

// Load reads the configuration. It fails on malformed values, never on missing ones.
func Load() (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.GCPProjectID == "" {
		cfg.GCPProjectID = cfg.FirestoreProjectID
	}
	if cfg.FirestoreProjectID == "" {
		cfg.FirestoreProjectID = cfg.GCPProjectID
	}
	if cfg.FirebaseProjectID == "" {
		cfg.FirebaseProjectID = cfg.GCPProjectID
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.CheckoutFreeShippingThreshold(); err != nil {
		return err
	}
	if _, err := c.CheckoutFlatDeliveryFee(); err != nil {
		return err
	}
	switch c.StoreBackend {
	case BackendFirestore, BackendMemory:
	default:
		return fmt.Errorf("config: STORE_BACKEND must be firestore or memory, got %q", c.StoreBackend)
	}
	switch c.AddressStore {
	case BackendFirestore, BackendPostgres:
	default:
		return fmt.Errorf("config: ADDRESS_STORE must be firestore or postgres, got %q", c.AddressStore)
	}
	switch c.WishlistStore {
	case BackendFirestore, BackendRedis:
	default:
		return fmt.Errorf("config: WISHLIST_STORE must be firestore or redis, got %q", c.WishlistStore)
	}
	return nil
}

func (c *Config) CheckoutFreeShippingThreshold() (decimal.Decimal, error) {
	return parseMoney("CHECKOUT_FREE_SHIPPING_THRESHOLD", c.FreeShippingThreshold)
}

func (c *Config) CheckoutFlatDeliveryFee() (decimal.Decimal, error) {
	return parseMoney("CHECKOUT_FLAT_DELIVERY_FEE", c.FlatDeliveryFee)
}

// KafkaBrokerList splits KAFKA_BROKERS on commas.
func (c *Config) KafkaBrokerList() []string {
	return splitList(c.KafkaBrokers)
}

func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

func (c *Config) IsProd() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

func parseMoney(key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("config: %s must not be negative", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
