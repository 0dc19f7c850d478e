package dbhelper

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/ray-remotestate/fastfood/models"
)

const couponColumns = `c.id, c.code, c.type, c.value, c.min_order_value, c.max_discount, c.valid_from, c.valid_until,
	c.usage_limit, c.used_count, c.applicable_items, c.applicable_categories, c.is_active, c.description,
	c.created_at`

func couponDest(c *models.Coupon) []any {
	return []any{&c.ID, &c.Code, &c.Type, &c.Value, &c.MinOrderValue, &c.MaxDiscount, &c.ValidFrom, &c.ValidUntil,
		&c.UsageLimit, &c.UsedCount, pq.Array(&c.ApplicableItems), pq.Array(&c.ApplicableCategories), &c.IsActive,
		&c.Description, &c.CreatedAt}
}

func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO coupons (code, type, value, min_order_value, max_discount, valid_from, valid_until, usage_limit,
			applicable_items, applicable_categories, is_active, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, used_count, created_at`,
		c.Code, c.Type, c.Value, c.MinOrderValue, c.MaxDiscount, c.ValidFrom, c.ValidUntil, c.UsageLimit,
		pq.Array(orEmpty(c.ApplicableItems)), pq.Array(orEmpty(c.ApplicableCategories)), c.IsActive, c.Description).
		Scan(&c.ID, &c.UsedCount, &c.CreatedAt)
	return duplicate(err, "Coupon code already exists")
}

func (s *Store) GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var c models.Coupon
	err := s.DB.QueryRowContext(ctx, `SELECT `+couponColumns+` FROM coupons c WHERE c.id = $1`, id).Scan(couponDest(&c)...)
	if err != nil {
		return nil, notFound(err, "Coupon not found with id of "+id.String())
	}
	return &c, nil
}

// GetCouponByCode matches codes case-insensitively.
func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := s.DB.QueryRowContext(ctx, `SELECT `+couponColumns+` FROM coupons c WHERE c.code = $1`,
		strings.ToUpper(strings.TrimSpace(code))).Scan(couponDest(&c)...)
	if err != nil {
		return nil, notFound(err, "Invalid coupon code")
	}
	return &c, nil
}

func (s *Store) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	res, err := s.DB.ExecContext(ctx, `
		UPDATE coupons
		SET code = $2, type = $3, value = $4, min_order_value = $5, max_discount = $6, valid_from = $7,
			valid_until = $8, usage_limit = $9, applicable_items = $10, applicable_categories = $11,
			is_active = $12, description = $13
		WHERE id = $1`,
		c.ID, c.Code, c.Type, c.Value, c.MinOrderValue, c.MaxDiscount, c.ValidFrom, c.ValidUntil, c.UsageLimit,
		pq.Array(orEmpty(c.ApplicableItems)), pq.Array(orEmpty(c.ApplicableCategories)), c.IsActive, c.Description)
	if err != nil {
		return duplicate(err, "Coupon code already exists")
	}
	return mustAffect(res, "Coupon not found with id of "+c.ID.String())
}

func (s *Store) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "Coupon not found with id of "+id.String())
}
