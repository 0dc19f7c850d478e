package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ray-remotestate/fastfood/middlewares"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/services"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
)

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrderInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, err)
		return
	}
	order, err := h.Orders.Create(r.Context(), caller(r), in)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, order)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListMine(r.Context(), caller(r))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	respondCount(w, orders, len(orders))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	order, err := h.Orders.Get(r.Context(), caller(r), id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	respondResults(w, r)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var req statusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), caller(r), id, req.Status)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, order)
}

type paymentRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentID     string               `json:"paymentId"`
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var req paymentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	order, err := h.Orders.UpdatePayment(r.Context(), id, req.PaymentStatus, req.PaymentID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, order)
}

var exportHeaders = []string{
	"ID", "Customer", "Email", "Status", "Items", "Subtotal", "Tax", "DeliveryFee", "Discount", "Total",
	"PaymentMethod", "PaymentStatus", "DeliveryType", "CouponCode", "CreatedAt", "DeliveredAt",
}

// ExportOrders streams the orders matching the listing filters as a spreadsheet.
func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	q, err := middlewares.ParseListQuery(r.URL.Query())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	orders, err := h.Exporter.ExportOrders(r.Context(), q)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	file, err := ordersWorkbook(orders)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=orders-%s.xlsx", time.Now().Format("20060102")))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Transfer-Encoding", "binary")
	w.Header().Set("Expires", "0")
	if err := file.Write(w); err != nil {
		logrus.WithError(err).Error("failed to write orders export")
	}
}

func ordersWorkbook(orders []*models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID.String())
		row.AddCell().SetValue(o.UserName)
		row.AddCell().SetValue(o.UserEmail)
		row.AddCell().SetValue(string(o.Status))

		lines := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			lines = append(lines, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
		}
		row.AddCell().SetValue(strings.Join(lines, ", "))

		row.AddCell().SetFloat(o.Subtotal)
		row.AddCell().SetFloat(o.Tax)
		row.AddCell().SetFloat(o.DeliveryFee)
		row.AddCell().SetFloat(o.Discount)
		row.AddCell().SetFloat(o.Total)
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(string(o.PaymentStatus))
		row.AddCell().SetValue(string(o.DeliveryType))
		row.AddCell().SetValue(o.CouponCode)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		if o.ActualDeliveryTime != nil {
			row.AddCell().SetValue(o.ActualDeliveryTime.Format("2006-01-02 15:04:05"))
		} else {
			row.AddCell().SetValue("")
		}
	}
	return file, nil
}
