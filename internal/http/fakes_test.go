package http_test

import (
	"context"
	"slices"
	"sync"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type memoryCarts struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func (m *memoryCarts) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := m.carts[ownerID]
	cart.OwnerID = ownerID
	return cart, nil
}

func (m *memoryCarts) AddItem(_ context.Context, ownerID string, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := m.carts[ownerID]
	cart.Items = slices.DeleteFunc(slices.Clone(cart.Items), func(i domain.CartItem) bool { return i.ProductID == item.ProductID })
	cart.Items = append(cart.Items, item)
	m.carts[ownerID] = cart
	return nil
}

func (m *memoryCarts) UpdateQuantity(context.Context, string, int64, int) (bool, error) {
	return true, nil
}

func (m *memoryCarts) DeleteItem(context.Context, string, int64) (bool, error) {
	return true, nil
}

func (m *memoryCarts) AddCoupon(context.Context, string, domain.Coupon) error {
	return nil
}

func (m *memoryCarts) DeleteCoupon(context.Context, string, string) (bool, error) {
	return true, nil
}

func (m *memoryCarts) ClearCart(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, ownerID)
	return nil
}

type stubStore struct {
	gateways   []domain.PaymentGateway
	catalogErr error
	orders     []domain.Order
}

func (s *stubStore) ListTaxRates(context.Context) ([]domain.TaxRate, error) {
	return []domain.TaxRate{{ID: 7, Name: "GST", Rate: decimal.NewFromInt(18), Shipping: true}}, nil
}

func (s *stubStore) ListShippingMethods(context.Context) ([]domain.ShippingMethod, error) {
	return []domain.ShippingMethod{
		{ID: "5", MethodID: "flat_rate", Title: "Flat rate", Cost: "50", Enabled: true},
		{ID: "6", MethodID: "free_shipping", Title: "Free", Cost: "0", Enabled: false},
	}, nil
}

func (s *stubStore) ListPaymentGateways(context.Context) ([]domain.PaymentGateway, error) {
	return s.gateways, nil
}

func (s *stubStore) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	if s.catalogErr != nil {
		return domain.Product{}, s.catalogErr
	}
	if productID != 1 {
		return domain.Product{}, port.ErrNotFound
	}
	return domain.Product{
		ID:           1,
		Name:         "Kurta",
		RegularPrice: domain.NewMoney(decimal.NewFromInt(500), currency.INR),
		TaxStatus:    domain.TaxStatusTaxable,
	}, nil
}

func (s *stubStore) GetCoupon(_ context.Context, code string) (domain.Coupon, error) {
	if code != "diwali" {
		return domain.Coupon{}, port.ErrNotFound
	}
	return domain.Coupon{Code: "diwali", DiscountType: domain.DiscountTypePercent, Amount: decimal.NewFromInt(10)}, nil
}

func (s *stubStore) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	order.ID = int64(len(s.orders) + 100)
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *stubStore) UpdateOrderStatus(_ context.Context, orderID int64, status domain.OrderStatus, setPaid bool) (domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == orderID {
			o.Status = status
			o.SetPaid = setPaid
			return o, nil
		}
	}
	return domain.Order{}, port.ErrNotFound
}
