package handlers

import (
	"net/http"

	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/services"
	"github.com/ray-remotestate/fastfood/utils"
)

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	respondResults(w, r)
}

func (h *Handler) GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	item, err := h.Stock.GetInventoryItem(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, item)
}

func (h *Handler) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	item := models.InventoryItem{IsActive: true}
	if err := utils.DecodeJSON(r, &item); err != nil {
		utils.RespondError(w, err)
		return
	}
	item.StockHistory = nil
	if err := utils.Validate(item); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Stock.CreateInventoryItem(r.Context(), &item); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, item)
}

// UpdateInventoryItem edits descriptive fields; currentStock in the body is
// ignored.
func (h *Handler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	item, err := h.Stock.GetInventoryItem(r.Context(), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	stock, history := item.CurrentStock, item.StockHistory
	if err := utils.DecodeJSON(r, item); err != nil {
		utils.RespondError(w, err)
		return
	}
	item.ID, item.CurrentStock, item.StockHistory = id, stock, history
	if err := utils.Validate(item); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Stock.UpdateInventoryItem(r.Context(), item); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, item)
}

func (h *Handler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Stock.DeleteInventoryItem(r.Context(), id); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]any{})
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var change services.StockChange
	if err := utils.DecodeJSON(r, &change); err != nil {
		utils.RespondError(w, err)
		return
	}
	item, err := h.Inventory.UpdateStock(r.Context(), caller(r), id, change)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, item)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Stock.ListLowStock(r.Context())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	respondCount(w, items, len(items))
}
