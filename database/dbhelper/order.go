package dbhelper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/sirupsen/logrus"
)

// exportLimit bounds a single spreadsheet export.
const exportLimit = 10000

const orderColumns = `o.id, o.user_id, o.status, o.subtotal, o.tax, o.delivery_fee, o.discount, o.total,
	o.coupon_code, o.payment_method, o.payment_status, o.payment_id, o.delivery_type, o.delivery_address,
	o.delivery_instructions, o.special_instructions, o.estimated_delivery_time, o.actual_delivery_time,
	o.created_at`

func orderDest(o *models.Order) []any {
	return []any{&o.ID, &o.UserID, &o.Status, &o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Discount, &o.Total,
		&o.CouponCode, &o.PaymentMethod, &o.PaymentStatus, &o.PaymentID, &o.DeliveryType, &o.DeliveryAddress,
		&o.DeliveryInstructions, &o.SpecialInstructions, &o.EstimatedDeliveryTime, &o.ActualDeliveryTime,
		&o.CreatedAt}
}

// CreateOrder persists the order with its line items and initial status
// history. When couponID is set the coupon's usage is counted in the same
// transaction and the order fails if the usage limit was reached meanwhile.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order, couponID *uuid.UUID) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		if couponID != nil {
			res, err := tx.ExecContext(ctx, `
				UPDATE coupons SET used_count = used_count + 1
				WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)`, *couponID)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return utils.BadRequest("Coupon usage limit reached")
			}
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (user_id, status, subtotal, tax, delivery_fee, discount, total, coupon_code,
				payment_method, payment_status, delivery_type, delivery_address, delivery_instructions,
				special_instructions, estimated_delivery_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at`,
			o.UserID, o.Status, o.Subtotal, o.Tax, o.DeliveryFee, o.Discount, o.Total, o.CouponCode,
			o.PaymentMethod, o.PaymentStatus, o.DeliveryType, o.DeliveryAddress, o.DeliveryInstructions,
			o.SpecialInstructions, o.EstimatedDeliveryTime).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			return err
		}

		for i, item := range o.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, position, menu_item_id, name, price, quantity, customizations)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				o.ID, i, item.MenuItemID, item.Name, item.Price, item.Quantity, item.Customizations); err != nil {
				return err
			}
		}

		for _, entry := range o.StatusHistory {
			if err := insertStatusEntry(ctx, tx, o.ID, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertStatusEntry(ctx context.Context, db SQLExecutor, orderID uuid.UUID, entry models.StatusEntry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status, timestamp, updated_by)
		VALUES ($1, $2, $3, $4)`, orderID, entry.Status, entry.Timestamp, entry.UpdatedBy)
	return err
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	dest := append(orderDest(&o), &o.UserName, &o.UserEmail)
	err := s.DB.QueryRowContext(ctx, `
		SELECT `+orderColumns+`, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`, id).Scan(dest...)
	if err != nil {
		return nil, notFound(err, "Order not found with id of "+id.String())
	}
	if err := loadOrderDetails(ctx, s.DB, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrdersByUser returns a user's orders, newest first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(orderDest(&o)...); err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := loadOrderDetails(ctx, s.DB, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// TransitionOrder locks the order row and lets apply decide the next state.
// The status column, delivery stamp and the returned history entry are
// written atomically; concurrent transitions on one order are serialized.
func (s *Store) TransitionOrder(ctx context.Context, id uuid.UUID, apply func(o *models.Order) (models.StatusEntry, error)) (*models.Order, error) {
	err := s.tx(ctx, func(tx *sql.Tx) error {
		var o models.Order
		err := tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 FOR UPDATE`, id).
			Scan(orderDest(&o)...)
		if err != nil {
			return notFound(err, "Order not found with id of "+id.String())
		}

		entry, err := apply(&o)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE orders SET status = $2, actual_delivery_time = $3
			WHERE id = $1`, id, o.Status, o.ActualDeliveryTime); err != nil {
			return err
		}
		return insertStatusEntry(ctx, tx, id, entry)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paymentID string) (*models.Order, error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE orders SET payment_status = $2, payment_id = COALESCE(NULLIF($3, ''), payment_id)
		WHERE id = $1`, id, status, paymentID)
	if err != nil {
		return nil, err
	}
	if err := mustAffect(res, "Order not found with id of "+id.String()); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"order_id": id, "payment_status": status}).Info("payment status updated")
	return s.GetOrder(ctx, id)
}

func loadOrderDetails(ctx context.Context, db SQLExecutor, o *models.Order) error {
	items, err := db.QueryContext(ctx, `
		SELECT menu_item_id, name, price, quantity, customizations
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`, o.ID)
	if err != nil {
		return err
	}
	defer items.Close()

	o.Items = make([]models.OrderItem, 0)
	for items.Next() {
		var it models.OrderItem
		if err := items.Scan(&it.MenuItemID, &it.Name, &it.Price, &it.Quantity, &it.Customizations); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	if err := items.Err(); err != nil {
		return err
	}

	history, err := db.QueryContext(ctx, `
		SELECT status, timestamp, updated_by
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY id`, o.ID)
	if err != nil {
		return err
	}
	defer history.Close()

	o.StatusHistory = make([]models.StatusEntry, 0)
	for history.Next() {
		var e models.StatusEntry
		if err := history.Scan(&e.Status, &e.Timestamp, &e.UpdatedBy); err != nil {
			return err
		}
		o.StatusHistory = append(o.StatusHistory, e)
	}
	return history.Err()
}

// ExportOrders returns every order matching q, with customer name and email.
// Paging in q is ignored.
func (s *Store) ExportOrders(ctx context.Context, q models.ListQuery) ([]*models.Order, error) {
	q.Page, q.Limit = 1, exportLimit
	items, _, err := Orders.Find(ctx, s.DB, q, []string{"user"})
	if err != nil {
		return nil, err
	}
	orders := make([]*models.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, item.(*models.Order))
	}
	return orders, nil
}
