package services

import (
	"sort"

	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/shopspring/decimal"
)

const ShopPaymentMethod = "cash on delivery"

type ShopRates struct {
	TaxRate       float64
	ShippingPrice float64
}

type ShopCheckoutInput struct {
	OrderItems      []models.ShopOrderItem  `json:"orderItems"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
}

// PriceShopOrder validates a checkout and computes its totals.
func PriceShopOrder(in ShopCheckoutInput, rates ShopRates) (*models.ShopOrder, error) {
	var verrs utils.ValidationErrors
	if len(in.OrderItems) == 0 {
		verrs.Add("No order items")
	}
	for _, it := range in.OrderItems {
		verrs.Merge(utils.Validate(it))
	}
	if in.ShippingAddress == nil {
		verrs.Add("Shipping address is required")
	} else {
		verrs.Merge(utils.Validate(in.ShippingAddress))
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, it := range in.OrderItems {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Amount))))
	}
	tax := total.Mul(decimal.NewFromFloat(rates.TaxRate)).Round(2)
	shipping := decimal.NewFromFloat(rates.ShippingPrice)

	return &models.ShopOrder{
		OrderItems:      in.OrderItems,
		ShippingAddress: *in.ShippingAddress,
		PaymentMethod:   ShopPaymentMethod,
		TaxPrice:        tax.InexactFloat64(),
		ShippingPrice:   shipping.InexactFloat64(),
		TotalPrice:      total.InexactFloat64(),
		FinalPrice:      total.Add(tax).Add(shipping).InexactFloat64(),
	}, nil
}

// GroupByItem lists, for every item name, the orders containing it. Groups
// are sorted by name.
func GroupByItem(orders []models.ShopOrder) []models.ItemOrders {
	byName := make(map[string][]models.ShopOrder)
	for _, o := range orders {
		seen := make(map[string]bool)
		for _, it := range o.OrderItems {
			if seen[it.Name] {
				continue
			}
			seen[it.Name] = true
			byName[it.Name] = append(byName[it.Name], o)
		}
	}

	groups := make([]models.ItemOrders, 0, len(byName))
	for name, list := range byName {
		groups = append(groups, models.ItemOrders{Name: name, Products: list})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}
