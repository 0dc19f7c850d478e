package handlers

import (
	"net/http"

	"github.com/ray-remotestate/fastfood/services"
	"github.com/ray-remotestate/fastfood/utils"
)

// ListReviews serves both /reviews and /menu/{menuItemId}/reviews; the
// listing middleware scopes the nested form.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	respondResults(w, r)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	review, err := h.Reviews.Get(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, review)
}

func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := pathID(r, "menuItemId")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var in services.ReviewInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, err)
		return
	}
	review, err := h.Reviews.Add(r.Context(), caller(r), menuItemID, in)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, review)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var patch services.ReviewPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.RespondError(w, err)
		return
	}
	review, err := h.Reviews.Update(r.Context(), caller(r), id, patch)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Reviews.Delete(r.Context(), caller(r), id); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]any{})
}
