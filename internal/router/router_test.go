package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"atelier/internal/handler"
	"atelier/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// stubOrders answers every call with fixed data.
type stubOrders struct{}

func (stubOrders) CreateOrder(context.Context, *model.CreateOrderRequest) (*model.Order, error) {
	return &model.Order{ID: 1}, nil
}
func (stubOrders) ListOrders(context.Context, int) ([]model.Order, error) {
	return []model.Order{}, nil
}
func (stubOrders) GetOrder(_ context.Context, id int64) (*model.Order, error) {
	return &model.Order{ID: id}, nil
}
func (stubOrders) ListOrdersForUser(context.Context, int64) ([]model.Order, error) {
	return []model.Order{}, nil
}
func (stubOrders) UpdateStatus(_ context.Context, id int64, _ string) (*model.Order, error) {
	return &model.Order{ID: id}, nil
}
func (stubOrders) DeleteOrder(context.Context, int64) error { return nil }
func (stubOrders) DeleteUser(context.Context, int64) error  { return nil }

type stubAdmin struct{}

func (stubAdmin) ListUsers(context.Context, string) ([]model.UserSummary, error) {
	return []model.UserSummary{}, nil
}

func newTestRouter(adminKey string) http.Handler {
	logger := zerolog.Nop()
	return New(
		handler.NewOrderHandler(stubOrders{}, logger),
		handler.NewAdminHandler(stubOrders{}, stubAdmin{}, logger),
		adminKey,
		logger,
	)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter("")

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/orders", http.StatusOK},
		{http.MethodGet, "/admin/users", http.StatusOK},
		{http.MethodGet, "/admin/users/3/orders", http.StatusOK},
		{http.MethodGet, "/admin/orders/3", http.StatusOK},
		{http.MethodDelete, "/admin/orders/3", http.StatusOK},
		{http.MethodDelete, "/admin/users/3", http.StatusOK},
		{http.MethodOptions, "/admin/orders/3", http.StatusNoContent},
		{http.MethodGet, "/products", http.StatusNotFound},
		{http.MethodPut, "/orders", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_AdminKey(t *testing.T) {
	r := newTestRouter("secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Public routes never need the key.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
