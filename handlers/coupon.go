package handlers

import (
	"net/http"

	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
)

func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	respondResults(w, r)
}

func (h *Handler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	coupon, err := h.Coupons.GetCoupon(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, coupon)
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	coupon := models.Coupon{IsActive: true}
	if err := utils.DecodeJSON(r, &coupon); err != nil {
		utils.RespondError(w, err)
		return
	}
	coupon.UsedCount = 0
	if err := validateCoupon(&coupon); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Coupons.CreateCoupon(r.Context(), &coupon); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, coupon)
}

func (h *Handler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	coupon, err := h.Coupons.GetCoupon(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	used := coupon.UsedCount
	if err := utils.DecodeJSON(r, coupon); err != nil {
		utils.RespondError(w, err)
		return
	}
	coupon.ID, coupon.UsedCount = id, used
	if err := validateCoupon(coupon); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Coupons.UpdateCoupon(r.Context(), coupon); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, coupon)
}

func validateCoupon(c *models.Coupon) error {
	var verrs utils.ValidationErrors
	verrs.Merge(utils.Validate(c))
	if c.Type == models.CouponPercentage && c.Value > 100 {
		verrs.Add("Percentage coupons can not exceed 100")
	}
	return verrs.Err()
}

func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Coupons.DeleteCoupon(r.Context(), id); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]any{})
}
