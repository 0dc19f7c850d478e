package handlers

import (
	"net/http"

	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondResults(w, r)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	category, err := h.Catalog.GetCategory(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, category)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	category := models.Category{Image: "no-photo.jpg", IsActive: true}
	if err := utils.DecodeJSON(r, &category); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := utils.Validate(category); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Catalog.CreateCategory(r.Context(), &category); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, category)
}

// UpdateCategory applies the body on top of the stored category.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	category, err := h.Catalog.GetCategory(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := utils.DecodeJSON(r, category); err != nil {
		utils.RespondError(w, err)
		return
	}
	category.ID = id
	if err := utils.Validate(category); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Catalog.UpdateCategory(r.Context(), category); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Catalog.DeleteCategory(r.Context(), id); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]any{})
}

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	respondResults(w, r)
}

func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	item, err := h.Catalog.GetMenuItem(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, item)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	item := models.MenuItem{Image: "no-photo.jpg", IsAvailable: true}
	if err := utils.DecodeJSON(r, &item); err != nil {
		utils.RespondError(w, err)
		return
	}
	item.AverageRating, item.NumberOfRatings = 0, 0
	if err := h.saveMenuItem(r, &item, true); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, item)
}

// UpdateMenuItem applies the body on top of the stored item. Rating fields
// in the body are ignored.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	item, err := h.Catalog.GetMenuItem(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	rating, count := item.AverageRating, item.NumberOfRatings
	if err := utils.DecodeJSON(r, item); err != nil {
		utils.RespondError(w, err)
		return
	}
	item.ID, item.AverageRating, item.NumberOfRatings = id, rating, count
	if err := h.saveMenuItem(r, item, false); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, item)
}

func (h *Handler) saveMenuItem(r *http.Request, item *models.MenuItem, create bool) error {
	if err := utils.Validate(item); err != nil {
		return err
	}
	if item.DiscountPrice != nil && *item.DiscountPrice > item.Price {
		return utils.NewValidationError("Discount price can not be more than the price")
	}
	category, err := h.Catalog.GetCategory(r.Context(), item.CategoryID)
	if err != nil {
		if utils.IsKind(err, utils.KindNotFound) {
			return utils.NotFound("Category not found with id of %s", item.CategoryID)
		}
		return err
	}
	item.CategoryName = category.Name
	if create {
		return h.Catalog.CreateMenuItem(r.Context(), item)
	}
	return h.Catalog.UpdateMenuItem(r.Context(), item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Catalog.DeleteMenuItem(r.Context(), id); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]any{})
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}

// UpdateAvailability sets the flag from the body, or toggles it when the
// body does not name one.
func (h *Handler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	item, err := h.Catalog.GetMenuItem(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var req availabilityRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, err)
			return
		}
	}
	available := !item.IsAvailable
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	if err := h.Catalog.SetMenuItemAvailability(r.Context(), id, available); err != nil {
		utils.RespondError(w, err)
		return
	}
	item.IsAvailable = available
	utils.RespondData(w, http.StatusOK, item)
}
