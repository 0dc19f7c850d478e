package dbhelper

import (
	"context"
	"time"

	"github.com/ray-remotestate/fastfood/models"
)

const shopOrderColumns = `id, order_items, shipping_address, payment_method, tax_price, shipping_price, total_price,
	final_price, created_at`

func shopOrderDest(o *models.ShopOrder) []any {
	return []any{&o.ID, &o.OrderItems, &o.ShippingAddress, &o.PaymentMethod, &o.TaxPrice, &o.ShippingPrice,
		&o.TotalPrice, &o.FinalPrice, &o.CreatedAt}
}

func (s *Store) CreateShopOrder(ctx context.Context, o *models.ShopOrder) error {
	return s.DB.QueryRowContext(ctx, `
		INSERT INTO shop_orders (order_items, shipping_address, payment_method, tax_price, shipping_price,
			total_price, final_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		o.OrderItems, o.ShippingAddress, o.PaymentMethod, o.TaxPrice, o.ShippingPrice, o.TotalPrice, o.FinalPrice).
		Scan(&o.ID, &o.CreatedAt)
}

func (s *Store) ListShopOrders(ctx context.Context) ([]models.ShopOrder, error) {
	return s.queryShopOrders(ctx, `SELECT `+shopOrderColumns+` FROM shop_orders ORDER BY created_at DESC`)
}

// ShopOrdersBetween returns orders created in [from, to).
func (s *Store) ShopOrdersBetween(ctx context.Context, from, to time.Time) ([]models.ShopOrder, error) {
	return s.queryShopOrders(ctx, `
		SELECT `+shopOrderColumns+` FROM shop_orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`, from, to)
}

func (s *Store) queryShopOrders(ctx context.Context, query string, args ...any) ([]models.ShopOrder, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.ShopOrder, 0)
	for rows.Next() {
		var o models.ShopOrder
		if err := rows.Scan(shopOrderDest(&o)...); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
