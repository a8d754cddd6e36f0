package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-checkout/internal/db"
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	dbItems, err := r.q.GetCartItems(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartItems: %w", err)
	}

	items, err := mapGetCartItemsRowsToDomain(dbItems)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartItemsRowsToDomain: %w", err)
	}

	dbCoupons, err := r.q.GetCartCoupons(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartCoupons: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
		Coupons: mapGetCartCouponsRowsToDomain(dbCoupons),
	}, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if item.Quantity < 1 {
		return fmt.Errorf("quantity[%d] must be at least 1", item.Quantity)
	}

	paymentMethods := item.PaymentMethods
	if paymentMethods == nil {
		paymentMethods = []string{}
	}

	taxStatus := item.TaxStatus
	if taxStatus == "" {
		taxStatus = domain.TaxStatusTaxable
	}

	err := r.q.UpsertItem(ctx, db.UpsertItemParams{
		OwnerID:            ownerID,
		ProductID:          item.ProductID,
		Name:               item.Name,
		SalePriceAmount:    item.SalePrice.Amount,
		RegularPriceAmount: item.RegularPrice.Amount,
		PriceCurrency:      item.RegularPrice.Currency.String(),
		Quantity:           int32(item.Quantity),
		TaxClass:           item.TaxClass,
		TaxStatus:          string(taxStatus),
		PaymentMethods:     paymentMethods,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertItem: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, ownerID string, productID int64, quantity int) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}
	if quantity < 1 {
		return false, fmt.Errorf("quantity[%d] must be at least 1", quantity)
	}

	rowsAffected, err := r.q.UpdateQuantity(ctx, db.UpdateQuantityParams{
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  int32(quantity),
	})
	if err != nil {
		return false, fmt.Errorf("q.UpdateQuantity: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID int64) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		OwnerID:   ownerID,
		ProductID: productID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) AddCoupon(ctx context.Context, ownerID string, coupon domain.Coupon) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	code := domain.NormalizeCouponCode(coupon.Code)
	if code == "" {
		return fmt.Errorf("coupon code is empty")
	}

	err := r.q.UpsertCoupon(ctx, db.UpsertCouponParams{
		OwnerID:      ownerID,
		Code:         code,
		DiscountType: string(coupon.DiscountType),
		Amount:       coupon.Amount,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertCoupon: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteCoupon(ctx context.Context, ownerID string, code string) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteCoupon(ctx, db.DeleteCouponParams{
		OwnerID: ownerID,
		Code:    domain.NormalizeCouponCode(code),
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteCoupon: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if err := q.DeleteItems(ctx, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("q.DeleteItems: %w", err)
		}
		if err := q.DeleteCoupons(ctx, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("q.DeleteCoupons: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func mapGetCartItemsRowToDomain(row db.GetCartItemsRow) (domain.CartItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartItem{
		ProductID:      row.ProductID,
		Name:           row.Name,
		SalePrice:      domain.Money{Amount: row.SalePriceAmount, Currency: parsedCurrency},
		RegularPrice:   domain.Money{Amount: row.RegularPriceAmount, Currency: parsedCurrency},
		Quantity:       int(row.Quantity),
		TaxClass:       row.TaxClass,
		TaxStatus:      domain.TaxStatus(row.TaxStatus),
		PaymentMethods: row.PaymentMethods,
		CreatedAt:      row.CreatedAt,
	}, nil
}

func mapGetCartItemsRowsToDomain(rows []db.GetCartItemsRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartItemsRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartItemsRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapGetCartCouponsRowsToDomain(rows []db.GetCartCouponsRow) []domain.Coupon {
	var coupons []domain.Coupon

	for _, row := range rows {
		coupons = append(coupons, domain.Coupon{
			Code:         row.Code,
			DiscountType: domain.DiscountType(row.DiscountType),
			Amount:       row.Amount,
		})
	}

	return coupons
}
