package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/product-order-api/internal/domain/order"
)

type createOrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName string            `json:"customer_name"`
	Items        []createOrderItem `json:"items"`
}

type orderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

type orderResponse struct {
	ID           uuid.UUID           `json:"id"`
	CustomerName string              `json:"customer_name"`
	CreatedAt    time.Time           `json:"created_at"`
	Total        decimal.Decimal     `json:"total"`
	Items        []orderItemResponse `json:"items"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := o.Items()
	out := make([]orderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, orderItemResponse{
			ProductID:   it.ProductID(),
			ProductName: it.ProductName(),
			UnitPrice:   it.UnitPrice(),
			Quantity:    it.Quantity(),
		})
	}
	return orderResponse{
		ID:           o.ID(),
		CustomerName: o.CustomerName(),
		CreatedAt:    o.CreatedAt(),
		Total:        o.Total(),
		Items:        out,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer io.Copy(io.Discard, r.Body) //nolint:errcheck // drain for keep-alive
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := make([]order.Line, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, order.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	o, err := h.orders.CreateOrder(r.Context(), req.CustomerName, lines)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	w.Header().Set("Location", "/api/orders/"+o.ID().String())
	respondJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(o))
}
