package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"atelier/internal/model"
	"atelier/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdminHandler handles the /admin endpoints.
type AdminHandler struct {
	orders service.OrderService
	admin  service.AdminService
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(orders service.OrderService, admin service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		orders: orders,
		admin:  admin,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// ListUsers handles GET /admin/users?q=&status=.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.failure(w, r, err, "Failed to fetch users", model.ErrorResponse{})
		return
	}

	users = service.FilterByLastStatus(users, r.URL.Query().Get("status"))
	writeJSON(w, http.StatusOK, model.UsersResponse{Success: true, Users: users})
}

// UserOrders handles GET /admin/users/{id}/orders.
func (h *AdminHandler) UserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, false)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrdersForUser(r.Context(), userID)
	if err != nil {
		h.failure(w, r, err, "Failed to fetch orders", model.ErrorResponse{UserID: userID})
		return
	}

	writeJSON(w, http.StatusOK, model.OrdersResponse{Success: true, Orders: orders})
}

// GetOrder handles GET /admin/orders/{id}.
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r, false)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		h.failure(w, r, err, "Failed to fetch order", model.ErrorResponse{OrderID: orderID})
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Order: order})
}

// UpdateStatus handles PATCH /admin/orders/{id}.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r, false)
	if !ok {
		return
	}

	// A malformed body is reported the same way as an unknown status.
	var req model.UpdateStatusRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	order, err := h.orders.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.failure(w, r, err, "Failed to update order", model.ErrorResponse{OrderID: orderID, Received: req.Status})
		return
	}

	h.logger.Info().Int64("order_id", orderID).Str("status", req.Status).Msg("order status updated")
	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Order: order})
}

// DeleteOrder handles DELETE /admin/orders/{id}.
func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r, true)
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), orderID); err != nil {
		h.failure(w, r, err, "Failed to delete order", model.ErrorResponse{OrderID: orderID})
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteResponse{
		Success: true,
		Message: "Order deleted successfully",
		OrderID: orderID,
	})
}

// DeleteUser handles DELETE /admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r, true)
	if !ok {
		return
	}

	if err := h.orders.DeleteUser(r.Context(), userID); err != nil {
		h.failure(w, r, err, "Failed to delete user", model.ErrorResponse{UserID: userID})
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteResponse{
		Success: true,
		Message: "User deleted successfully",
		UserID:  userID,
	})
}

func (h *AdminHandler) orderID(w http.ResponseWriter, r *http.Request, positive bool) (int64, bool) {
	return h.pathID(w, r, positive, "Invalid order id", "Order ID")
}

func (h *AdminHandler) userID(w http.ResponseWriter, r *http.Request, positive bool) (int64, bool) {
	return h.pathID(w, r, positive, "Invalid user id", "User ID")
}

func (h *AdminHandler) pathID(w http.ResponseWriter, r *http.Request, positive bool, errMsg, label string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, ok := parseID(raw, positive)
	if !ok {
		message := label + " must be a valid number"
		if positive {
			message = label + " must be a valid positive number"
		}
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{
			Error:    errMsg,
			Received: raw,
			Message:  message,
		}, h.logger)
	}
	return id, ok
}

// failure maps a service error to its response. subject carries the ids of
// the resource the request was about.
func (h *AdminHandler) failure(w http.ResponseWriter, r *http.Request, err error, fallback string, subject model.ErrorResponse) {
	switch model.KindOf(err) {
	case model.KindBadRequest:
		if errors.Is(err, model.ErrInvalidStatus) {
			writeError(w, r, http.StatusBadRequest, model.ErrorResponse{
				Error:    "Invalid status",
				Received: subject.Received,
				Allowed:  model.AllStatuses(),
			}, h.logger)
			return
		}
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()}, h.logger)

	case model.KindNotFound:
		body := model.ErrorResponse{OrderID: subject.OrderID, UserID: subject.UserID}
		if errors.Is(err, model.ErrUserNotFound) {
			body.Error = "User not found"
			body.Message = fmt.Sprintf("User with ID %d does not exist in the database", subject.UserID)
			body.OrderID = 0
		} else {
			body.Error = "Order not found"
			body.Message = fmt.Sprintf("Order with ID %d does not exist in the database", subject.OrderID)
			body.UserID = 0
		}
		writeError(w, r, http.StatusNotFound, body, h.logger)

	case model.KindPrecondition:
		var precondition *model.PreconditionError
		errors.As(err, &precondition)
		writeError(w, r, http.StatusBadRequest, preconditionResponse(precondition), h.logger)

	case model.KindUnavailable:
		writeError(w, r, http.StatusServiceUnavailable, unavailableResponse(), h.logger)

	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("admin request failed")
		writeError(w, r, http.StatusInternalServerError, model.ErrorResponse{
			Error:   fallback,
			Message: unexpectedMessage,
			OrderID: subject.OrderID,
			UserID:  subject.UserID,
		}, h.logger)
	}
}

func preconditionResponse(err *model.PreconditionError) model.ErrorResponse {
	body := model.ErrorResponse{
		Message:       err.Message,
		OrderID:       err.OrderID,
		UserID:        err.UserID,
		CurrentStatus: err.CurrentStatus,
		OrderCount:    err.OrderCount,
	}
	switch err.Code {
	case model.ErrCodeOrderNotCompleted:
		body.Error = "Only completed orders can be deleted"
	case model.ErrCodeUserHasOrders:
		body.Error = "Cannot delete user with existing orders"
	default:
		body.Error = "Cannot delete user with related records"
	}
	return body
}
