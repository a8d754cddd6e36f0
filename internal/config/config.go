package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

const (
	CartStorePostgres    = "postgres"
	CartStoreWooCommerce = "woocommerce"
)

type Config struct {
	Server      ServerConfig
	WooCommerce WooCommerceConfig
	Checkout    CheckoutConfig

	CartStore   string
	DatabaseURL string
	Redis       RedisConfig

	LogDevelopment bool
}

type ServerConfig struct {
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type WooCommerceConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
	ShippingZoneID int

	BreakerFailures int
	BreakerTimeout  time.Duration
}

type CheckoutConfig struct {
	Currency         currency.Unit
	CODGatewayID     string
	OnlineGatewayIDs []string
	SessionTTL       time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func Load() (Config, error) {
	cur, err := currency.ParseISO(getenv("STORE_CURRENCY", "INR"))
	if err != nil {
		return Config{}, fmt.Errorf("STORE_CURRENCY: %w", err)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            getenvInt("HTTP_PORT", 8080),
			RequestTimeout:  parseDuration(getenv("HTTP_REQUEST_TIMEOUT", "30s"), 30*time.Second),
			ShutdownTimeout: parseDuration(getenv("HTTP_SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		},
		WooCommerce: WooCommerceConfig{
			BaseURL:         getenv("WOO_BASE_URL", ""),
			ConsumerKey:     getenv("WOO_CONSUMER_KEY", ""),
			ConsumerSecret:  getenv("WOO_CONSUMER_SECRET", ""),
			Timeout:         parseDuration(getenv("WOO_TIMEOUT", "10s"), 10*time.Second),
			ShippingZoneID:  getenvInt("SHIPPING_ZONE_ID", 0),
			BreakerFailures: getenvInt("WOO_BREAKER_FAILURES", 5),
			BreakerTimeout:  parseDuration(getenv("WOO_BREAKER_TIMEOUT", "30s"), 30*time.Second),
		},
		Checkout: CheckoutConfig{
			Currency:         cur,
			CODGatewayID:     getenv("COD_GATEWAY_ID", "cod"),
			OnlineGatewayIDs: splitCSV(getenv("ONLINE_GATEWAY_IDS", "razorpay")),
			SessionTTL:       parseDuration(getenv("SESSION_TTL", "30m"), 30*time.Minute),
		},
		CartStore:   strings.ToLower(getenv("CART_STORE", CartStorePostgres)),
		DatabaseURL: getenv("DATABASE_URL", ""),
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
			CacheTTL: parseDuration(getenv("CACHE_TTL", "5m"), 5*time.Minute),
		},
		LogDevelopment: getenvBool("LOG_DEVELOPMENT", false),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT[%d] is out of range", c.Server.Port))
	}
	if c.WooCommerce.BaseURL == "" {
		errs = append(errs, errors.New("WOO_BASE_URL is empty"))
	}
	if c.WooCommerce.ConsumerKey == "" || c.WooCommerce.ConsumerSecret == "" {
		errs = append(errs, errors.New("WOO_CONSUMER_KEY and WOO_CONSUMER_SECRET are required"))
	}
	if c.WooCommerce.BreakerFailures < 1 {
		errs = append(errs, fmt.Errorf("WOO_BREAKER_FAILURES[%d] must be at least 1", c.WooCommerce.BreakerFailures))
	}

	switch c.CartStore {
	case CartStorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres cart store"))
		}
	case CartStoreWooCommerce:
	default:
		errs = append(errs, fmt.Errorf("CART_STORE[%s] is not supported", c.CartStore))
	}

	return errors.Join(errs...)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
