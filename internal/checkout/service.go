package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/metrics"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"github.com/nikolayk812/storefront-checkout/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const (
	DefaultSessionTTL = 30 * time.Minute

	// a session closed by a concurrent checkout is reopened at most this many times
	maxSessionAttempts = 3
)

type Deps struct {
	Carts   port.CartRepository
	Pricing port.PricingSource
	Catalog port.ProductCatalog
	Coupons port.CouponSource
	Orders  port.OrderWriter
}

type Config struct {
	Currency   currency.Unit
	SessionTTL time.Duration
	Payments   pricing.PaymentSelector
}

type CheckoutResult struct {
	Summary domain.CheckoutSummary
	Order   domain.Order
}

// Service keeps one Session per cart owner and hands priced carts over to order creation.
type Service struct {
	deps    Deps
	cfg     Config
	loader  *Loader
	calc    *pricing.Calculator
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(deps Deps, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Payments.CODGatewayID == "" {
		cfg.Payments.CODGatewayID = pricing.DefaultCODGatewayID
	}

	return &Service{
		deps:     deps,
		cfg:      cfg,
		loader:   NewLoader(deps.Pricing, deps.Catalog, logger, m),
		calc:     pricing.NewCalculator(pricing.WithPaymentSelector(cfg.Payments)),
		logger:   logger,
		metrics:  m,
		sessions: make(map[string]*Session),
	}
}

// Session returns the live session of the owner, opening one from the stored cart when needed.
func (s *Service) Session(ctx context.Context, ownerID string) (*Session, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	if sess, ok := s.lookup(ownerID); ok {
		return sess, nil
	}

	sess, err := s.open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// a concurrent request may have opened it first
	if existing, ok := s.sessions[ownerID]; ok && !existing.Closed() {
		return existing, nil
	}
	s.sessions[ownerID] = sess

	return sess, nil
}

// Mutate runs fn on the live session of the owner. When a concurrent checkout closes the session
// first, fn runs again on a session reopened from the stored cart.
func (s *Service) Mutate(ctx context.Context, ownerID string, fn func(sess *Session) error) (*Session, error) {
	for range maxSessionAttempts {
		sess, err := s.Session(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		err = fn(sess)
		if errors.Is(err, ErrSessionClosed) {
			s.forget(ownerID, sess)
			continue
		}
		if err != nil {
			return nil, err
		}

		return sess, nil
	}

	return nil, fmt.Errorf("owner[%s]: %w", ownerID, ErrSessionClosed)
}

func (s *Service) Forget(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, ownerID)
}

// forget drops sess only while it is still the live session of the owner.
func (s *Service) forget(ownerID string, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[ownerID] == sess {
		delete(s.sessions, ownerID)
	}
}

func (s *Service) lookup(ownerID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, sess := range s.sessions {
		if sess.Closed() || now.Sub(sess.lastTouched()) > s.cfg.SessionTTL {
			delete(s.sessions, id)
		}
	}

	sess, ok := s.sessions[ownerID]
	return sess, ok
}

func (s *Service) open(ctx context.Context, ownerID string) (*Session, error) {
	cart, err := s.deps.Carts.GetCart(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("carts.GetCart: %w", err)
	}

	in, err := s.loader.Load(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("loader.Load: %w", err)
	}

	sess := &Session{
		ownerID: ownerID,
		repo:    s.deps.Carts,
		catalog: s.deps.Catalog,
		coupons: s.deps.Coupons,
		calc:    s.calc,
		metrics: s.metrics,
	}

	sess.mu.Lock()
	sess.swap(pricing.Input{
		Currency:        s.cfg.Currency,
		Items:           in.Items,
		Coupons:         cart.Coupons,
		ShippingMethods: in.ShippingMethods,
		TaxRates:        in.TaxRates,
		Gateways:        in.Gateways,
	})
	sess.mu.Unlock()

	return sess, nil
}

// Checkout turns the cart into an order. It holds the session for the whole hand-off, so
// concurrent mutations and checkouts of the same cart wait and then see a closed session.
func (s *Service) Checkout(ctx context.Context, ownerID string) (CheckoutResult, error) {
	for range maxSessionAttempts {
		sess, err := s.Session(ctx, ownerID)
		if err != nil {
			return CheckoutResult{}, fmt.Errorf("s.Session: %w", err)
		}

		var result CheckoutResult
		err = sess.closeWith(func(in pricing.Input, summary pricing.Summary) error {
			result, err = s.placeOrder(ctx, ownerID, in, summary)
			return err
		})
		if errors.Is(err, ErrSessionClosed) {
			s.forget(ownerID, sess)
			continue
		}
		if err != nil {
			return CheckoutResult{}, err
		}

		s.forget(ownerID, sess)

		s.metrics.OrdersCreated.WithLabelValues(result.Order.PaymentMethod).Inc()
		s.logger.Info("order created",
			zap.String("owner_id", ownerID),
			zap.Int64("order_id", result.Order.ID),
			zap.String("checkout_id", result.Summary.ID.String()),
			zap.String("payment_method", result.Order.PaymentMethod),
			zap.String("total", result.Summary.Total.Amount.String()))

		return result, nil
	}

	return CheckoutResult{}, fmt.Errorf("owner[%s]: %w", ownerID, ErrSessionClosed)
}

func (s *Service) placeOrder(ctx context.Context, ownerID string, in pricing.Input, summary pricing.Summary) (CheckoutResult, error) {
	if len(in.Items) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	if !summary.HasPayment {
		s.metrics.CheckoutsBlocked.Inc()
		s.logger.Info("checkout blocked, no payment method", zap.String("owner_id", ownerID))
		return CheckoutResult{}, ErrNoPaymentMethod
	}

	cs := newCheckoutSummary(ownerID, in, summary)

	order, err := s.deps.Orders.CreateOrder(ctx, s.newOrder(cs))
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("orders.CreateOrder: %w", err)
	}

	if err := s.deps.Carts.ClearCart(ctx, ownerID); err != nil {
		s.logger.Warn("clear cart after checkout",
			zap.String("owner_id", ownerID), zap.Int64("order_id", order.ID), zap.Error(err))
	}

	return CheckoutResult{Summary: cs, Order: order}, nil
}

// ConfirmPayment marks an order paid by an online gateway as paid and processing.
func (s *Service) ConfirmPayment(ctx context.Context, orderID int64) (domain.Order, error) {
	if orderID <= 0 {
		return domain.Order{}, fmt.Errorf("order[%d]: %w", orderID, ErrOrderNotFound)
	}

	order, err := s.deps.Orders.UpdateOrderStatus(ctx, orderID, domain.OrderStatusProcessing, true)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return domain.Order{}, fmt.Errorf("order[%d]: %w", orderID, ErrOrderNotFound)
		}
		return domain.Order{}, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	s.logger.Info("payment confirmed", zap.Int64("order_id", order.ID))

	return order, nil
}

func (s *Service) newOrder(cs domain.CheckoutSummary) domain.Order {
	status := domain.OrderStatusPending
	if cs.Payment.Gateway.ID == s.cfg.Payments.CODGatewayID {
		status = domain.OrderStatusProcessing
	}

	order := domain.Order{
		Status:             status,
		PaymentMethod:      cs.Payment.Gateway.ID,
		PaymentMethodTitle: cs.Payment.Gateway.Title,
		Items:              cs.Items,
		Coupons:            cs.Coupons,
		Shipping:           cs.Shipping,
		ShippingFee:        cs.ShippingFee,
		Total:              cs.Total,
		CheckoutID:         cs.ID,
	}

	// guests have no customer record
	if id, err := strconv.ParseInt(cs.OwnerID, 10, 64); err == nil && id > 0 {
		order.CustomerID = cs.OwnerID
	}

	return order
}

func newCheckoutSummary(ownerID string, in pricing.Input, summary pricing.Summary) domain.CheckoutSummary {
	money := func(amount decimal.Decimal) domain.Money {
		return domain.NewMoney(amount, summary.Currency).Round()
	}

	return domain.CheckoutSummary{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Payment:     summary.Payment,
		Shipping:    summary.ShippingMethod,
		Subtotal:    money(summary.Subtotal),
		Discount:    money(summary.Discount),
		ShippingFee: money(summary.Shipping),
		ItemTax:     money(summary.ItemTax),
		ShippingTax: money(summary.ShippingTax),
		Tax:         money(summary.Tax),
		Total:       money(summary.Total),
		Items:       in.Items,
		Coupons:     in.Coupons,
		TaxLines:    summary.TaxLines,
		GST:         summary.GST,
		CreatedAt:   time.Now().UTC(),
	}
}
