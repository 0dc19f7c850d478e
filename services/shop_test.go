package services

import (
	"testing"

	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shopRates = ShopRates{TaxRate: 0.05, ShippingPrice: 10}

func TestPriceShopOrder(t *testing.T) {
	order, err := PriceShopOrder(ShopCheckoutInput{
		OrderItems: []models.ShopOrderItem{
			{Name: "Mug", Amount: 2, Price: 12.5},
			{Name: "Tee", Amount: 1, Price: 20.99},
		},
		ShippingAddress: &models.ShippingAddress{Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"},
	}, shopRates)
	require.NoError(t, err)

	assert.Equal(t, 45.99, order.TotalPrice)
	assert.Equal(t, 2.3, order.TaxPrice)
	assert.Equal(t, 10.0, order.ShippingPrice)
	assert.Equal(t, 58.29, order.FinalPrice)
	assert.Equal(t, ShopPaymentMethod, order.PaymentMethod)
}

func TestPriceShopOrderValidation(t *testing.T) {
	_, err := PriceShopOrder(ShopCheckoutInput{}, shopRates)
	require.Error(t, err)
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Messages(), "No order items")
	assert.Contains(t, appErr.Messages(), "Shipping address is required")

	_, err = PriceShopOrder(ShopCheckoutInput{
		OrderItems:      []models.ShopOrderItem{{Name: "Mug", Amount: 0, Price: 1}},
		ShippingAddress: &models.ShippingAddress{City: "x"},
	}, shopRates)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestGroupByItem(t *testing.T) {
	a := models.ShopOrder{OrderItems: models.ShopOrderItems{{Name: "Tee"}, {Name: "Mug"}, {Name: "Mug"}}}
	b := models.ShopOrder{OrderItems: models.ShopOrderItems{{Name: "Mug"}}}

	groups := GroupByItem([]models.ShopOrder{a, b})
	require.Len(t, groups, 2)
	assert.Equal(t, "Mug", groups[0].Name)
	assert.Len(t, groups[0].Products, 2)
	assert.Equal(t, "Tee", groups[1].Name)
	assert.Len(t, groups[1].Products, 1)
	assert.Empty(t, GroupByItem(nil))
}
