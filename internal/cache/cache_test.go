package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	taxCalls      int
	shippingCalls int
	gatewayCalls  int
	err           error
}

func (s *countingSource) ListTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	s.taxCalls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.TaxRate{{ID: 1, Name: "GST", Rate: decimal.RequireFromString("18.0000"), Shipping: true}}, nil
}

func (s *countingSource) ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	s.shippingCalls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.ShippingMethod{{ID: "26", MethodID: "flat_rate", Title: "Flat rate", Cost: "[qty] * 10", Enabled: true}}, nil
}

func (s *countingSource) ListPaymentGateways(ctx context.Context) ([]domain.PaymentGateway, error) {
	s.gatewayCalls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.PaymentGateway{{ID: "cod", Title: "Cash on delivery", Enabled: true}}, nil
}

// setupTestRedis creates a miniredis server and a client pointing to it
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestPricingCache_ReadThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	source := &countingSource{}
	c := NewPricingCache(source, client, 10*time.Minute, nil)
	ctx := t.Context()

	first, err := c.ListTaxRates(ctx)
	require.NoError(t, err)
	second, err := c.ListTaxRates(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, source.taxCalls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].Rate.Equal(second[0].Rate))
	assert.True(t, second[0].Shipping)

	methods, err := c.ListShippingMethods(ctx)
	require.NoError(t, err)
	_, err = c.ListShippingMethods(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.shippingCalls)
	assert.Equal(t, "[qty] * 10", methods[0].Cost)

	_, err = c.ListPaymentGateways(ctx)
	require.NoError(t, err)
	_, err = c.ListPaymentGateways(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.gatewayCalls)

	assert.True(t, mr.Exists(keyTaxRates))
	ttl := mr.TTL(keyTaxRates)
	assert.GreaterOrEqual(t, ttl, 10*time.Minute)
	assert.Less(t, ttl, 11*time.Minute)
}

func TestPricingCache_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	source := &countingSource{}
	c := NewPricingCache(source, client, time.Minute, nil)
	ctx := t.Context()

	_, err := c.ListTaxRates(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = c.ListTaxRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.taxCalls)
}

func TestPricingCache_SourceErrorNotCached(t *testing.T) {
	client, mr := setupTestRedis(t)
	source := &countingSource{err: errors.New("store unavailable")}
	c := NewPricingCache(source, client, time.Minute, nil)

	_, err := c.ListPaymentGateways(t.Context())
	require.EqualError(t, err, "store unavailable")
	assert.False(t, mr.Exists(keyPaymentGateways))
}

func TestPricingCache_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	source := &countingSource{}
	c := NewPricingCache(source, client, time.Minute, nil)

	mr.Close()

	rates, err := c.ListTaxRates(t.Context())
	require.NoError(t, err)
	assert.Len(t, rates, 1)
	assert.Equal(t, 1, source.taxCalls)
}

func TestPricingCache_CorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	source := &countingSource{}
	c := NewPricingCache(source, client, time.Minute, nil)

	require.NoError(t, mr.Set(keyShippingMethods, "not json"))

	methods, err := c.ListShippingMethods(t.Context())
	require.NoError(t, err)
	assert.Len(t, methods, 1)
	assert.Equal(t, 1, source.shippingCalls)
}

func TestInvalidate(t *testing.T) {
	client, mr := setupTestRedis(t)
	source := &countingSource{}
	c := NewPricingCache(source, client, time.Minute, nil)
	ctx := t.Context()

	_, err := c.ListTaxRates(ctx)
	require.NoError(t, err)
	_, err = c.ListPaymentGateways(ctx)
	require.NoError(t, err)

	require.NoError(t, Invalidate(ctx, client))

	assert.False(t, mr.Exists(keyTaxRates))
	assert.False(t, mr.Exists(keyPaymentGateways))
}
