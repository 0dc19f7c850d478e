package services

import (
	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/shopspring/decimal"
)

// Rates are the order surcharges applied at checkout.
type Rates struct {
	TaxRate     float64
	DeliveryFee float64
}

type LineRequest struct {
	MenuItem       uuid.UUID                      `json:"menuItem"`
	Quantity       int                            `json:"quantity"`
	Customizations []models.SelectedCustomization `json:"customizations"`
}

// PricedLine is an order line snapshotted from the live menu item.
type PricedLine struct {
	Item       models.OrderItem
	CategoryID uuid.UUID
	Total      decimal.Decimal
}

type Breakdown struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// PriceLine snapshots menu into an order line. Customization charges come
// from the menu item's own option list; unknown options are rejected.
func PriceLine(menu *models.MenuItem, req LineRequest) (PricedLine, error) {
	if req.Quantity < 1 {
		return PricedLine{}, utils.NewValidationError("Quantity must be at least 1")
	}

	unit := decimal.NewFromFloat(menu.UnitPrice())
	extras := decimal.Zero
	chosen := make(models.Customizations, 0, len(req.Customizations))
	for _, c := range req.Customizations {
		price, ok := optionPrice(menu, c.Name, c.Option)
		if !ok {
			return PricedLine{}, utils.BadRequest("Invalid customization %s: %s for %s", c.Name, c.Option, menu.Name)
		}
		extras = extras.Add(decimal.NewFromFloat(price))
		chosen = append(chosen, models.SelectedCustomization{Name: c.Name, Option: c.Option, ExtraPrice: price})
	}

	total := unit.Add(extras).Mul(decimal.NewFromInt(int64(req.Quantity)))
	return PricedLine{
		Item: models.OrderItem{
			MenuItemID:     menu.ID,
			Name:           menu.Name,
			Price:          unit.InexactFloat64(),
			Quantity:       req.Quantity,
			Customizations: chosen,
		},
		CategoryID: menu.CategoryID,
		Total:      total,
	}, nil
}

func optionPrice(menu *models.MenuItem, name, option string) (float64, bool) {
	for _, opt := range menu.CustomizationOptions {
		if opt.Name != name {
			continue
		}
		for _, choice := range opt.Options {
			if choice.Name == option {
				return choice.Price, true
			}
		}
	}
	return 0, false
}

func Subtotal(lines []PricedLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total)
	}
	return sum
}

// ComputeBreakdown applies tax rounded to cents, the delivery surcharge for
// delivery orders, and the discount.
func ComputeBreakdown(subtotal decimal.Decimal, deliveryType models.DeliveryType, discount decimal.Decimal, rates Rates) Breakdown {
	tax := subtotal.Mul(decimal.NewFromFloat(rates.TaxRate)).Round(2)
	fee := decimal.Zero
	if deliveryType == models.DeliveryTypeDelivery {
		fee = decimal.NewFromFloat(rates.DeliveryFee)
	}
	return Breakdown{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Discount:    discount,
		Total:       subtotal.Add(tax).Add(fee).Sub(discount),
	}
}
