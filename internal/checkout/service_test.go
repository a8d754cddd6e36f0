package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-checkout/internal/checkout"
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Session_Reused(t *testing.T) {
	e := newEnv(t)

	first := e.session(t, "42")
	second := e.session(t, "42")
	other := e.session(t, "43")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)

	e.svc.Forget("42")
	assert.NotSame(t, first, e.session(t, "42"))
}

func TestService_Session_OpensStoredCart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.carts.AddItem(ctx, "42", domain.CartItem{ProductID: 2, RegularPrice: inr("1"), Quantity: 2}))
	require.NoError(t, e.carts.AddCoupon(ctx, "42", domain.Coupon{Code: "flat50", DiscountType: domain.DiscountTypeFixedCart, Amount: inr("50").Amount}))

	summary := e.session(t, "42").Summary()

	// prices come from the catalog, not from the stored line
	assertDecimal(t, "500", summary.Subtotal)
	assertDecimal(t, "50", summary.Discount)
	assert.Equal(t, 2, summary.Quantity)
}

func TestService_Session_EmptyOwner(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Session(context.Background(), "")
	require.EqualError(t, err, "ownerID is empty")
}

func TestService_Checkout_COD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.session(t, "42")

	_, err := sess.AddItem(ctx, 1, 2)
	require.NoError(t, err)
	_, err = sess.SelectShipping("1")
	require.NoError(t, err)

	result, err := e.svc.Checkout(ctx, "42")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.Summary.ID)
	assert.Equal(t, "42", result.Summary.OwnerID)
	assert.Equal(t, "cod", result.Summary.Payment.Gateway.ID)
	assertDecimal(t, "1239", result.Summary.Total.Amount)
	assertDecimal(t, "189", result.Summary.Tax.Amount)
	assert.Len(t, result.Summary.Items, 1)

	order := result.Order
	assert.Equal(t, int64(1001), order.ID)
	assert.Equal(t, "42", order.CustomerID)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.Equal(t, "cod", order.PaymentMethod)
	assert.False(t, order.SetPaid)
	assert.Equal(t, result.Summary.ID, order.CheckoutID)
	assertDecimal(t, "50", order.ShippingFee.Amount)

	assert.Equal(t, []string{"42"}, e.carts.cleared)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.OrdersCreated.WithLabelValues("cod")))

	// the next session starts from the cleared cart
	assert.NotSame(t, sess, e.session(t, "42"))
	assert.Zero(t, e.session(t, "42").Summary().Quantity)
}

func TestService_Checkout_OnlineOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	online := product(3, "Gift card", "1000")
	online.PaymentMethods = []string{"razorpay"}
	e.store.setProduct(online)

	sess := e.session(t, "guest-7f3a")
	_, err := sess.AddItem(ctx, 3, 1)
	require.NoError(t, err)

	result, err := e.svc.Checkout(ctx, "guest-7f3a")
	require.NoError(t, err)

	assert.Equal(t, "razorpay", result.Order.PaymentMethod)
	assert.Equal(t, domain.OrderStatusPending, result.Order.Status)
	assert.Empty(t, result.Order.CustomerID)

	paid, err := e.svc.ConfirmPayment(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, paid.Status)
	assert.True(t, paid.SetPaid)
	assert.Equal(t, []int64{result.Order.ID}, e.store.updated)
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Checkout(context.Background(), "42")
	require.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Empty(t, e.store.created)
}

func TestService_Checkout_NoPaymentMethod(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.store.gatewaysErr = errUnavailable

	sess := e.session(t, "42")
	summary, err := sess.AddItem(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, summary.HasPayment)

	_, err = e.svc.Checkout(ctx, "42")
	require.ErrorIs(t, err, checkout.ErrNoPaymentMethod)

	assert.Empty(t, e.store.created)
	assert.Empty(t, e.carts.cleared)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.CheckoutsBlocked))

	// the cart survives a blocked checkout
	assert.Same(t, sess, e.session(t, "42"))
}

func TestService_Checkout_ClearCartFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.carts.clearErr = errUnavailable

	_, err := e.session(t, "42").AddItem(ctx, 2, 1)
	require.NoError(t, err)

	result, err := e.svc.Checkout(ctx, "42")
	require.NoError(t, err)
	assert.NotZero(t, result.Order.ID)
	assert.Len(t, e.store.created, 1)
}

func TestService_ConfirmPayment_NotFound(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name    string
		orderID int64
	}{
		{name: "unknown order", orderID: 555},
		{name: "zero id", orderID: 0},
		{name: "negative id", orderID: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.ConfirmPayment(context.Background(), tt.orderID)
			require.ErrorIs(t, err, checkout.ErrOrderNotFound)
		})
	}
}

func TestService_Checkout_Concurrent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.store.createDelay = 50 * time.Millisecond

	_, err := e.session(t, "42").AddItem(ctx, 1, 2)
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.svc.Checkout(ctx, "42")
		}()
	}
	wg.Wait()

	require.Len(t, e.store.created, 1)

	var succeeded, empty int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, checkout.ErrEmptyCart):
			empty++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, empty)
}

func TestService_Mutate_DuringCheckout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.store.createDelay = 100 * time.Millisecond
	e.store.createStarted = make(chan struct{}, 1)

	sess := e.session(t, "42")
	_, err := sess.AddItem(ctx, 1, 1)
	require.NoError(t, err)

	type checkoutResult struct {
		result checkout.CheckoutResult
		err    error
	}
	done := make(chan checkoutResult, 1)
	go func() {
		result, err := e.svc.Checkout(ctx, "42")
		done <- checkoutResult{result: result, err: err}
	}()

	<-e.store.createStarted

	mutated, err := e.svc.Mutate(ctx, "42", func(s *checkout.Session) error {
		_, err := s.AddItem(ctx, 2, 1)
		return err
	})
	require.NoError(t, err)

	res := <-done
	require.NoError(t, res.err)

	// the order holds only what was in the cart when checkout started
	require.Len(t, res.result.Order.Items, 1)
	assert.Equal(t, int64(1), res.result.Order.Items[0].ProductID)

	// the item added meanwhile starts the next cart
	assert.NotSame(t, sess, mutated)
	stored, err := e.carts.GetCart(ctx, "42")
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, int64(2), stored.Items[0].ProductID)
	assert.Equal(t, 1, mutated.Summary().Quantity)

	assert.True(t, sess.Closed())
	_, err = sess.AddItem(ctx, 1, 1)
	require.ErrorIs(t, err, checkout.ErrSessionClosed)
}
