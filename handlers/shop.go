package handlers

import (
	"net/http"
	"time"

	"github.com/ray-remotestate/fastfood/services"
	"github.com/ray-remotestate/fastfood/utils"
)

// CreatePaymentIntent records a shop order. No payment provider is called.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var in services.ShopCheckoutInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, err)
		return
	}
	order, err := services.PriceShopOrder(in, services.ShopRates{
		TaxRate:       h.Config.ShopTaxRate,
		ShippingPrice: h.Config.ShopShippingPrice,
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Shop.CreateShopOrder(r.Context(), order); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order created",
		"data":    order,
	})
}

func (h *Handler) ListShopOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Shop.ListShopOrders(r.Context())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	respondCount(w, orders, len(orders))
}

const dateLayout = "2006-01-02"

// ShopOrdersByDate groups orders placed between startDate and endDate, both
// inclusive, by item name.
func (h *Handler) ShopOrdersByDate(w http.ResponseWriter, r *http.Request) {
	var verrs utils.ValidationErrors
	from, err := time.Parse(dateLayout, r.URL.Query().Get("startDate"))
	if err != nil {
		verrs.Add("startDate must be a date in YYYY-MM-DD format")
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("endDate"))
	if err != nil {
		verrs.Add("endDate must be a date in YYYY-MM-DD format")
	}
	if err := verrs.Err(); err != nil {
		utils.RespondError(w, err)
		return
	}
	if to.Before(from) {
		utils.RespondError(w, utils.NewValidationError("endDate can not be before startDate"))
		return
	}

	orders, err := h.Shop.ShopOrdersBetween(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	groups := services.GroupByItem(orders)
	respondCount(w, groups, len(groups))
}
