package services

import (
	"slices"
	"time"

	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CouponDiscount checks that c can be redeemed on lines at now and returns
// the discount it grants. The discount never exceeds the eligible subtotal.
func CouponDiscount(c *models.Coupon, lines []PricedLine, now time.Time) (decimal.Decimal, error) {
	switch {
	case !c.IsActive:
		return decimal.Zero, utils.BadRequest("Coupon %s is not active", c.Code)
	case now.Before(c.ValidFrom) || now.After(c.ValidUntil):
		return decimal.Zero, utils.BadRequest("Coupon %s is not valid at this time", c.Code)
	case c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit:
		return decimal.Zero, utils.BadRequest("Coupon usage limit reached")
	}

	subtotal := Subtotal(lines)
	minOrder := decimal.NewFromFloat(c.MinOrderValue)
	if subtotal.LessThan(minOrder) {
		return decimal.Zero, utils.BadRequest("Minimum order value of %s required for coupon %s", minOrder.StringFixed(2), c.Code)
	}

	eligible := subtotal
	if c.Restricted() {
		eligible = decimal.Zero
		for _, l := range lines {
			if slices.Contains(c.ApplicableItems, l.Item.MenuItemID) || slices.Contains(c.ApplicableCategories, l.CategoryID) {
				eligible = eligible.Add(l.Total)
			}
		}
		if eligible.IsZero() {
			return decimal.Zero, utils.BadRequest("Coupon %s does not apply to items in this order", c.Code)
		}
	}

	var discount decimal.Decimal
	switch c.Type {
	case models.CouponPercentage:
		discount = eligible.Mul(decimal.NewFromFloat(c.Value)).Div(hundred)
		if c.MaxDiscount != nil {
			discount = decimal.Min(discount, decimal.NewFromFloat(*c.MaxDiscount))
		}
	case models.CouponFixed:
		discount = decimal.NewFromFloat(c.Value)
	default:
		return decimal.Zero, utils.BadRequest("Unsupported coupon type %s", c.Type)
	}
	return decimal.Min(discount, eligible).Round(2), nil
}
