package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

const (
	keyTaxRates        = "pricing:tax_rates"
	keyShippingMethods = "pricing:shipping_methods"
	keyPaymentGateways = "pricing:payment_gateways"
)

type pricingCache struct {
	next    port.PricingSource
	client  *redis.Client
	baseTTL time.Duration
	logger  *zap.Logger
}

// NewPricingCache wraps a PricingSource with a read-through Redis cache.
// Redis failures never fail a read; the source is asked instead.
func NewPricingCache(next port.PricingSource, client *redis.Client, ttl time.Duration, logger *zap.Logger) port.PricingSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pricingCache{
		next:    next,
		client:  client,
		baseTTL: ttl,
		logger:  logger,
	}
}

func (c *pricingCache) ListTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	return readThrough(ctx, c, keyTaxRates, c.next.ListTaxRates)
}

func (c *pricingCache) ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	return readThrough(ctx, c, keyShippingMethods, c.next.ListShippingMethods)
}

func (c *pricingCache) ListPaymentGateways(ctx context.Context) ([]domain.PaymentGateway, error) {
	return readThrough(ctx, c, keyPaymentGateways, c.next.ListPaymentGateways)
}

func readThrough[T any](ctx context.Context, c *pricingCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	cached, err := get[T](ctx, c.client, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	values, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if err := set(ctx, c.client, key, values, c.ttl()); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}

	return values, nil
}

// Invalidate drops every cached pricing input, e.g. after the store settings change.
func Invalidate(ctx context.Context, client *redis.Client) error {
	if err := client.Del(ctx, keyTaxRates, keyShippingMethods, keyPaymentGateways).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *pricingCache) ttl() time.Duration {
	jitter := time.Duration(rand.IntN(60)) * time.Second
	return c.baseTTL + jitter
}

func get[T any](ctx context.Context, client *redis.Client, key string) ([]T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unmarshal %s failed: %w", key, err)
	}

	return values, nil
}

func set[T any](ctx context.Context, client *redis.Client, key string, values []T, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}
