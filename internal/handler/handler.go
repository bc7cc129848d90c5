// Package handler exposes the catalog and order services over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/product-order-api/internal/domain"
	"github.com/xenking/product-order-api/internal/domain/order"
	"github.com/xenking/product-order-api/internal/domain/product"
)

// Handler translates HTTP requests into domain service calls and domain
// errors back into status codes.
type Handler struct {
	catalog *product.Service
	orders  *order.Service
}

// New constructs a Handler over the two domain services.
func New(catalog *product.Service, orders *order.Service) *Handler {
	return &Handler{
		catalog: catalog,
		orders:  orders,
	}
}

// Routes returns the API route tree.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.createProduct)
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/{id}", h.getOrder)
	})

	return r
}

// errorBody is the JSON envelope for every non-2xx response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Code: status, Message: message})
}

// respondDomainError maps the domain error taxonomy onto status codes:
// validation 400, insufficient stock 409, not found 404, anything else 500.
func respondDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		respondError(w, http.StatusBadRequest, vErr.Reason)
		return
	}

	var isErr *domain.InsufficientStockError
	if errors.As(err, &isErr) {
		respondError(w, http.StatusConflict, isErr.Error())
		return
	}

	if errors.Is(err, product.ErrNotFound) || errors.Is(err, order.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	zctx.From(ctx).Error("request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal server error")
}
