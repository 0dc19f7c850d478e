package models

import (
	"time"

	"github.com/google/uuid"
)

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

type Coupon struct {
	ID                   uuid.UUID   `db:"id" json:"id"`
	Code                 string      `db:"code" json:"code" validate:"required,max=30"`
	Type                 CouponType  `db:"type" json:"type" validate:"required,oneof=percentage fixed"`
	Value                float64     `db:"value" json:"value" validate:"gt=0"`
	MinOrderValue        float64     `db:"min_order_value" json:"minOrderValue" validate:"gte=0"`
	MaxDiscount          *float64    `db:"max_discount" json:"maxDiscount,omitempty" validate:"omitempty,gt=0"`
	ValidFrom            time.Time   `db:"valid_from" json:"validFrom" validate:"required"`
	ValidUntil           time.Time   `db:"valid_until" json:"validUntil" validate:"required,gtfield=ValidFrom"`
	UsageLimit           *int        `db:"usage_limit" json:"usageLimit,omitempty" validate:"omitempty,gt=0"`
	UsedCount            int         `db:"used_count" json:"usedCount"`
	ApplicableItems      []uuid.UUID `db:"applicable_items" json:"applicableItems"`
	ApplicableCategories []uuid.UUID `db:"applicable_categories" json:"applicableCategories"`
	IsActive             bool        `db:"is_active" json:"isActive"`
	Description          string      `db:"description" json:"description,omitempty"`
	CreatedAt            time.Time   `db:"created_at" json:"createdAt"`
}

// Restricted reports whether the coupon only applies to some items or categories.
func (c *Coupon) Restricted() bool {
	return len(c.ApplicableItems) > 0 || len(c.ApplicableCategories) > 0
}
