package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CartMetaKey is the customer meta key holding the cart document.
const CartMetaKey = "cart"

type cartItemMeta struct {
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	RegularPrice   decimal.Decimal `json:"regular_price"`
	Currency       string          `json:"currency"`
	Quantity       int             `json:"quantity"`
	TaxClass       string          `json:"tax_class"`
	TaxStatus      string          `json:"tax_status"`
	PaymentMethods []string        `json:"payment_methods,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type couponMeta struct {
	Code         string          `json:"code"`
	DiscountType string          `json:"discount_type"`
	Amount       decimal.Decimal `json:"amount"`
}

type cartMeta struct {
	Items   []cartItemMeta `json:"items"`
	Coupons []couponMeta   `json:"coupons"`
}

type customerCartStore struct {
	client *Client
	now    func() time.Time
}

// NewCustomerCartStore keeps carts in customer metadata, the way the storefront app persists them.
// Every mutation is a read-modify-write of the customer record.
func NewCustomerCartStore(client *Client) port.CartRepository {
	return &customerCartStore{client: client, now: time.Now}
}

func (s *customerCartStore) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	customerID, err := parseCustomerID(ownerID)
	if err != nil {
		return domain.Cart{}, err
	}

	meta, _, err := s.load(ctx, customerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load: %w", err)
	}

	cart, err := mapCartMetaToDomain(ownerID, meta)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapCartMetaToDomain: %w", err)
	}

	return cart, nil
}

func (s *customerCartStore) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if item.Quantity < 1 {
		return fmt.Errorf("quantity[%d] must be at least 1", item.Quantity)
	}

	_, err := s.update(ctx, ownerID, func(meta *cartMeta) bool {
		mapped := mapCartItemToMeta(item)

		for i, existing := range meta.Items {
			if existing.ProductID == item.ProductID {
				mapped.CreatedAt = existing.CreatedAt
				meta.Items[i] = mapped
				return true
			}
		}

		mapped.CreatedAt = s.now().UTC()
		meta.Items = append(meta.Items, mapped)
		return true
	})

	return err
}

func (s *customerCartStore) UpdateQuantity(ctx context.Context, ownerID string, productID int64, quantity int) (bool, error) {
	if quantity < 1 {
		return false, fmt.Errorf("quantity[%d] must be at least 1", quantity)
	}

	return s.update(ctx, ownerID, func(meta *cartMeta) bool {
		for i := range meta.Items {
			if meta.Items[i].ProductID == productID {
				meta.Items[i].Quantity = quantity
				return true
			}
		}
		return false
	})
}

func (s *customerCartStore) DeleteItem(ctx context.Context, ownerID string, productID int64) (bool, error) {
	return s.update(ctx, ownerID, func(meta *cartMeta) bool {
		for i := range meta.Items {
			if meta.Items[i].ProductID == productID {
				meta.Items = append(meta.Items[:i], meta.Items[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *customerCartStore) AddCoupon(ctx context.Context, ownerID string, coupon domain.Coupon) error {
	code := domain.NormalizeCouponCode(coupon.Code)
	if code == "" {
		return fmt.Errorf("coupon code is empty")
	}

	_, err := s.update(ctx, ownerID, func(meta *cartMeta) bool {
		mapped := couponMeta{Code: code, DiscountType: string(coupon.DiscountType), Amount: coupon.Amount}

		for i := range meta.Coupons {
			if meta.Coupons[i].Code == code {
				meta.Coupons[i] = mapped
				return true
			}
		}

		meta.Coupons = append(meta.Coupons, mapped)
		return true
	})

	return err
}

func (s *customerCartStore) DeleteCoupon(ctx context.Context, ownerID string, code string) (bool, error) {
	code = domain.NormalizeCouponCode(code)

	return s.update(ctx, ownerID, func(meta *cartMeta) bool {
		for i := range meta.Coupons {
			if meta.Coupons[i].Code == code {
				meta.Coupons = append(meta.Coupons[:i], meta.Coupons[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *customerCartStore) ClearCart(ctx context.Context, ownerID string) error {
	_, err := s.update(ctx, ownerID, func(meta *cartMeta) bool {
		*meta = cartMeta{}
		return true
	})
	return err
}

// update applies fn to the stored cart and writes it back when fn reports a change.
func (s *customerCartStore) update(ctx context.Context, ownerID string, fn func(meta *cartMeta) bool) (bool, error) {
	customerID, err := parseCustomerID(ownerID)
	if err != nil {
		return false, err
	}

	meta, metaID, err := s.load(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("load: %w", err)
	}

	if !fn(&meta) {
		return false, nil
	}

	value, err := json.Marshal(meta)
	if err != nil {
		return false, fmt.Errorf("json.Marshal: %w", err)
	}

	entry := metaData{ID: metaID, Key: CartMetaKey, Value: value}
	if err := s.client.updateCustomerMeta(ctx, customerID, []metaData{entry}); err != nil {
		return false, fmt.Errorf("client.updateCustomerMeta: %w", err)
	}

	return true, nil
}

func (s *customerCartStore) load(ctx context.Context, customerID int64) (cartMeta, int64, error) {
	customer, err := s.client.getCustomer(ctx, customerID)
	if err != nil {
		return cartMeta{}, 0, fmt.Errorf("client.getCustomer: %w", err)
	}

	entry, ok := findMeta(customer.MetaData, CartMetaKey)
	if !ok {
		return cartMeta{}, 0, nil
	}

	var meta cartMeta
	if err := json.Unmarshal([]byte(metaString(entry.Value)), &meta); err != nil {
		return cartMeta{}, 0, fmt.Errorf("cart meta of customer[%d] is not valid: %w", customerID, err)
	}

	return meta, entry.ID, nil
}

func mapCartItemToMeta(item domain.CartItem) cartItemMeta {
	return cartItemMeta{
		ProductID:      item.ProductID,
		Name:           item.Name,
		SalePrice:      item.SalePrice.Amount,
		RegularPrice:   item.RegularPrice.Amount,
		Currency:       item.RegularPrice.Currency.String(),
		Quantity:       item.Quantity,
		TaxClass:       item.TaxClass,
		TaxStatus:      string(item.TaxStatus),
		PaymentMethods: item.PaymentMethods,
	}
}

func mapCartMetaToDomain(ownerID string, meta cartMeta) (domain.Cart, error) {
	cart := domain.Cart{OwnerID: ownerID}

	for _, m := range meta.Items {
		parsedCurrency, err := currency.ParseISO(m.Currency)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("currency[%s] is not valid: %w", m.Currency, err)
		}

		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:      m.ProductID,
			Name:           m.Name,
			SalePrice:      domain.Money{Amount: m.SalePrice, Currency: parsedCurrency},
			RegularPrice:   domain.Money{Amount: m.RegularPrice, Currency: parsedCurrency},
			Quantity:       m.Quantity,
			TaxClass:       m.TaxClass,
			TaxStatus:      domain.TaxStatus(m.TaxStatus),
			PaymentMethods: m.PaymentMethods,
			CreatedAt:      m.CreatedAt,
		})
	}

	for _, m := range meta.Coupons {
		cart.Coupons = append(cart.Coupons, domain.Coupon{
			Code:         m.Code,
			DiscountType: domain.DiscountType(m.DiscountType),
			Amount:       m.Amount,
		})
	}

	return cart, nil
}
