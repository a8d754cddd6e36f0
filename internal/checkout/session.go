package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/metrics"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"github.com/nikolayk812/storefront-checkout/internal/pricing"
	"golang.org/x/text/currency"
)

// Session holds the priced state of one owner's cart. Every mutation persists first,
// then swaps in a new input snapshot and recomputes the summary from it.
type Session struct {
	mu sync.Mutex

	ownerID string
	repo    port.CartRepository
	catalog port.ProductCatalog
	coupons port.CouponSource
	calc    *pricing.Calculator
	metrics *metrics.Metrics

	input   pricing.Input
	summary pricing.Summary

	touchedAt atomic.Int64
	closed    atomic.Bool
}

func (s *Session) OwnerID() string {
	return s.ownerID
}

func (s *Session) Summary() pricing.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	return s.summary
}

// Snapshot returns a copy of the input the current summary was computed from.
func (s *Session) Snapshot() pricing.Input {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	return cloneInput(s.input)
}

// State returns the current snapshot together with the summary computed from it.
func (s *Session) State() (pricing.Input, pricing.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	return cloneInput(s.input), s.summary
}

// Closed reports whether the cart of this session has been checked out.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// closeWith runs fn on the current state while holding the session lock and closes the session
// when fn succeeds. Mutations waiting on the lock then fail with ErrSessionClosed.
func (s *Session) closeWith(fn func(in pricing.Input, summary pricing.Summary) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}

	if err := fn(cloneInput(s.input), s.summary); err != nil {
		return err
	}

	s.closed.Store(true)
	return nil
}

func (s *Session) AddItem(ctx context.Context, productID int64, quantity int) (pricing.Summary, error) {
	if quantity < 1 {
		return pricing.Summary{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return pricing.Summary{}, ErrSessionClosed
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return pricing.Summary{}, fmt.Errorf("product[%d]: %w", productID, ErrProductNotFound)
		}
		return pricing.Summary{}, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	if !sameCurrency(product.RegularPrice.Currency, s.input.Currency) {
		return pricing.Summary{}, fmt.Errorf("product[%d] in %s: %w", productID, product.RegularPrice.Currency, ErrCurrencyMismatch)
	}

	next := cloneInput(s.input)

	idx := slices.IndexFunc(next.Items, func(i domain.CartItem) bool { return i.ProductID == productID })
	if idx >= 0 {
		item := refreshItem(next.Items[idx], product)
		item.Quantity += quantity
		next.Items[idx] = item
	} else {
		item := itemFromProduct(product, quantity)
		item.CreatedAt = time.Now().UTC()
		next.Items = append(next.Items, item)
		idx = len(next.Items) - 1
	}

	if err := s.repo.AddItem(ctx, s.ownerID, next.Items[idx]); err != nil {
		return pricing.Summary{}, fmt.Errorf("repo.AddItem: %w", err)
	}

	return s.swap(next), nil
}

func (s *Session) UpdateQuantity(ctx context.Context, productID int64, quantity int) (pricing.Summary, error) {
	if quantity < 1 {
		return pricing.Summary{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return pricing.Summary{}, ErrSessionClosed
	}

	next := cloneInput(s.input)

	idx := slices.IndexFunc(next.Items, func(i domain.CartItem) bool { return i.ProductID == productID })
	if idx < 0 {
		return pricing.Summary{}, fmt.Errorf("product[%d]: %w", productID, ErrItemNotFound)
	}

	updated, err := s.repo.UpdateQuantity(ctx, s.ownerID, productID, quantity)
	if err != nil {
		return pricing.Summary{}, fmt.Errorf("repo.UpdateQuantity: %w", err)
	}
	if !updated {
		return pricing.Summary{}, fmt.Errorf("product[%d]: %w", productID, ErrItemNotFound)
	}

	next.Items[idx].Quantity = quantity

	return s.swap(next), nil
}

func (s *Session) RemoveItem(ctx context.Context, productID int64) (pricing.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return pricing.Summary{}, ErrSessionClosed
	}

	next := cloneInput(s.input)

	idx := slices.IndexFunc(next.Items, func(i domain.CartItem) bool { return i.ProductID == productID })
	if idx < 0 {
		return pricing.Summary{}, fmt.Errorf("product[%d]: %w", productID, ErrItemNotFound)
	}

	if _, err := s.repo.DeleteItem(ctx, s.ownerID, productID); err != nil {
		return pricing.Summary{}, fmt.Errorf("repo.DeleteItem: %w", err)
	}

	next.Items = slices.Delete(next.Items, idx, idx+1)

	return s.swap(next), nil
}

func (s *Session) ApplyCoupon(ctx context.Context, code string) (pricing.Summary, error) {
	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return pricing.Summary{}, fmt.Errorf("coupon code is empty: %w", ErrCouponNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return pricing.Summary{}, ErrSessionClosed
	}

	coupon, err := s.coupons.GetCoupon(ctx, code)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return pricing.Summary{}, fmt.Errorf("coupon[%s]: %w", code, ErrCouponNotFound)
		}
		return pricing.Summary{}, fmt.Errorf("coupons.GetCoupon: %w", err)
	}
	coupon.Code = domain.NormalizeCouponCode(coupon.Code)

	if err := s.repo.AddCoupon(ctx, s.ownerID, coupon); err != nil {
		return pricing.Summary{}, fmt.Errorf("repo.AddCoupon: %w", err)
	}

	next := cloneInput(s.input)

	idx := slices.IndexFunc(next.Coupons, func(c domain.Coupon) bool { return c.Code == coupon.Code })
	if idx >= 0 {
		next.Coupons[idx] = coupon
	} else {
		next.Coupons = append(next.Coupons, coupon)
	}

	return s.swap(next), nil
}

func (s *Session) RemoveCoupon(ctx context.Context, code string) (pricing.Summary, error) {
	code = domain.NormalizeCouponCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return pricing.Summary{}, ErrSessionClosed
	}

	next := cloneInput(s.input)

	idx := slices.IndexFunc(next.Coupons, func(c domain.Coupon) bool { return c.Code == code })
	if idx < 0 {
		return pricing.Summary{}, fmt.Errorf("coupon[%s]: %w", code, ErrCouponNotApplied)
	}

	if _, err := s.repo.DeleteCoupon(ctx, s.ownerID, code); err != nil {
		return pricing.Summary{}, fmt.Errorf("repo.DeleteCoupon: %w", err)
	}

	next.Coupons = slices.Delete(next.Coupons, idx, idx+1)

	return s.swap(next), nil
}

// SelectShipping picks the shipping method by instance id. An empty id clears the selection.
func (s *Session) SelectShipping(methodID string) (pricing.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return pricing.Summary{}, ErrSessionClosed
	}

	if methodID != "" {
		if _, ok := pricing.SelectedShippingMethod(s.input.ShippingMethods, methodID); !ok {
			return pricing.Summary{}, fmt.Errorf("shipping method[%s]: %w", methodID, ErrUnknownShippingMethod)
		}
	}

	next := cloneInput(s.input)
	next.SelectedShipping = methodID

	return s.swap(next), nil
}

// swap installs next as the current snapshot. Callers hold s.mu.
func (s *Session) swap(next pricing.Input) pricing.Summary {
	s.input = next
	s.summary = s.calc.Calculate(next)
	s.touch()
	s.metrics.Recomputations.Inc()

	return s.summary
}

func (s *Session) touch() {
	s.touchedAt.Store(time.Now().UnixNano())
}

func (s *Session) lastTouched() time.Time {
	return time.Unix(0, s.touchedAt.Load())
}

func cloneInput(in pricing.Input) pricing.Input {
	in.Items = slices.Clone(in.Items)
	in.Coupons = slices.Clone(in.Coupons)
	in.ShippingMethods = slices.Clone(in.ShippingMethods)
	in.TaxRates = slices.Clone(in.TaxRates)
	in.Gateways = slices.Clone(in.Gateways)
	return in
}

// sameCurrency treats an unset product currency as the store currency.
func sameCurrency(product, store currency.Unit) bool {
	if product == (currency.Unit{}) || store == (currency.Unit{}) {
		return true
	}
	return product == store
}
