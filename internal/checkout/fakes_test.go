package checkout_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var errUnavailable = errors.New("store unavailable")

type fakeCarts struct {
	mu       sync.Mutex
	carts    map[string]domain.Cart
	clearErr error
	cleared  []string
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[string]domain.Cart)}
}

func (f *fakeCarts) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.carts[ownerID]
	cart.OwnerID = ownerID
	cart.Items = slices.Clone(cart.Items)
	cart.Coupons = slices.Clone(cart.Coupons)
	return cart, nil
}

func (f *fakeCarts) AddItem(_ context.Context, ownerID string, item domain.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.carts[ownerID]
	idx := slices.IndexFunc(cart.Items, func(i domain.CartItem) bool { return i.ProductID == item.ProductID })
	if idx >= 0 {
		cart.Items[idx] = item
	} else {
		cart.Items = append(cart.Items, item)
	}
	f.carts[ownerID] = cart
	return nil
}

func (f *fakeCarts) UpdateQuantity(_ context.Context, ownerID string, productID int64, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.carts[ownerID]
	idx := slices.IndexFunc(cart.Items, func(i domain.CartItem) bool { return i.ProductID == productID })
	if idx < 0 {
		return false, nil
	}
	cart.Items[idx].Quantity = quantity
	return true, nil
}

func (f *fakeCarts) DeleteItem(_ context.Context, ownerID string, productID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.carts[ownerID]
	n := len(cart.Items)
	cart.Items = slices.DeleteFunc(cart.Items, func(i domain.CartItem) bool { return i.ProductID == productID })
	f.carts[ownerID] = cart
	return len(cart.Items) < n, nil
}

func (f *fakeCarts) AddCoupon(_ context.Context, ownerID string, coupon domain.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.carts[ownerID]
	cart.Coupons = slices.DeleteFunc(cart.Coupons, func(c domain.Coupon) bool { return c.Code == coupon.Code })
	cart.Coupons = append(cart.Coupons, coupon)
	f.carts[ownerID] = cart
	return nil
}

func (f *fakeCarts) DeleteCoupon(_ context.Context, ownerID string, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart := f.carts[ownerID]
	n := len(cart.Coupons)
	cart.Coupons = slices.DeleteFunc(cart.Coupons, func(c domain.Coupon) bool { return c.Code == code })
	f.carts[ownerID] = cart
	return len(cart.Coupons) < n, nil
}

func (f *fakeCarts) ClearCart(_ context.Context, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.carts, ownerID)
	f.cleared = append(f.cleared, ownerID)
	return nil
}

type fakeStore struct {
	mu sync.Mutex

	rates    []domain.TaxRate
	methods  []domain.ShippingMethod
	gateways []domain.PaymentGateway
	products map[int64]domain.Product
	coupons  map[string]domain.Coupon

	ratesErr    error
	methodsErr  error
	gatewaysErr error
	productErr  error

	created []domain.Order
	updated []int64
	nextID  int64

	createDelay   time.Duration
	createStarted chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rates: []domain.TaxRate{
			{ID: 1, Name: "GST", Class: "", Rate: decimal.NewFromInt(18), Shipping: true},
		},
		methods: []domain.ShippingMethod{
			{ID: "1", MethodID: "flat_rate", Title: "Flat rate", Cost: "50", Enabled: true},
			{ID: "2", MethodID: "flat_rate", Title: "Per item", Cost: "10 * [qty]", Enabled: true},
			{ID: "3", MethodID: "local_pickup", Title: "Pickup", Cost: "0", Enabled: false},
		},
		gateways: []domain.PaymentGateway{
			{ID: "cod", Title: "Cash on delivery", Description: "Pay with cash upon delivery.", Enabled: true},
			{ID: "razorpay", Title: "Razorpay", Description: "Pay online.", Enabled: true},
		},
		products: map[int64]domain.Product{
			1: product(1, "T-shirt", "500"),
			2: product(2, "Mug", "250"),
		},
		coupons: map[string]domain.Coupon{
			"save10": {Code: "SAVE10", DiscountType: domain.DiscountTypePercent, Amount: decimal.NewFromInt(10)},
			"flat50": {Code: "flat50", DiscountType: domain.DiscountTypeFixedCart, Amount: decimal.NewFromInt(50)},
		},
		nextID: 1000,
	}
}

func (f *fakeStore) ListTaxRates(context.Context) ([]domain.TaxRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.rates), f.ratesErr
}

func (f *fakeStore) ListShippingMethods(context.Context) ([]domain.ShippingMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.methods), f.methodsErr
}

func (f *fakeStore) ListPaymentGateways(context.Context) ([]domain.PaymentGateway, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.gateways), f.gatewaysErr
}

func (f *fakeStore) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.productErr != nil {
		return domain.Product{}, f.productErr
	}
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, port.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) GetCoupon(_ context.Context, code string) (domain.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.coupons[code]
	if !ok {
		return domain.Coupon{}, port.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	if f.createStarted != nil {
		f.createStarted <- struct{}{}
	}
	time.Sleep(f.createDelay)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	order.ID = f.nextID
	f.created = append(f.created, order)
	return order, nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, orderID int64, status domain.OrderStatus, setPaid bool) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := slices.IndexFunc(f.created, func(o domain.Order) bool { return o.ID == orderID })
	if idx < 0 {
		return domain.Order{}, port.ErrNotFound
	}
	f.created[idx].Status = status
	f.created[idx].SetPaid = setPaid
	f.updated = append(f.updated, orderID)
	return f.created[idx], nil
}

func (f *fakeStore) setProduct(p domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
}

func product(id int64, name, price string) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         name,
		RegularPrice: inr(price),
		TaxStatus:    domain.TaxStatusTaxable,
	}
}

func inr(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: currency.INR}
}
