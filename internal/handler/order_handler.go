package handler

import (
	"encoding/json"
	"net/http"

	"atelier/internal/model"
	"atelier/internal/service"
	"atelier/internal/validation"

	"github.com/rs/zerolog"
)

// OrderHandler handles the public order endpoints.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /orders and returns the most recent orders as an array.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), service.DefaultOrderLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list orders")
		if unavailable(err) {
			writeError(w, r, http.StatusServiceUnavailable, unavailableResponse(), h.logger)
			return
		}
		writeError(w, r, http.StatusInternalServerError, model.ErrorResponse{
			Error:   "Failed to fetch orders",
			Message: unexpectedMessage,
		}, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid payload",
			Message: "Please check your form data",
			Issues:  []validation.Issue{{Message: "Request body must be valid JSON"}},
		}, h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		switch model.KindOf(err) {
		case model.KindValidation:
			writeError(w, r, http.StatusBadRequest, model.ErrorResponse{
				Error:   "Invalid payload",
				Message: "Please check your form data",
				Issues:  issuesOf(err),
			}, h.logger)
		case model.KindUnavailable:
			writeError(w, r, http.StatusServiceUnavailable, unavailableResponse(), h.logger)
		default:
			h.logger.Error().Err(err).Msg("failed to create order")
			writeError(w, r, http.StatusInternalServerError, model.ErrorResponse{
				Error:   "Failed to create order",
				Message: unexpectedMessage,
			}, h.logger)
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.CreateOrderResponse{
		Success: true,
		Order:   order,
		Message: "Order saved successfully",
	})
}
