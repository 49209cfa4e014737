package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"atelier/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@x.com", req.User.Email)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.CreateOrderResponse{
			Success: true,
			Order:   &model.Order{ID: 9, TotalAmount: 150000, Status: model.StatusPending},
			Message: "Order saved successfully",
		})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", zerolog.Nop())
	resp, err := c.CreateOrder(context.Background(), model.CreateOrderRequest{
		User: model.UserInput{Name: "A", Email: "a@x.com", Phone: "1"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(150000), resp.Order.TotalAmount)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(model.ErrorResponse{
			Error:   "Invalid status",
			Allowed: model.AllStatuses(),
		})
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	_, err := c.UpdateOrderStatus(context.Background(), "1", "bogus")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid status", apiErr.Body.Error)
	assert.Len(t, apiErr.Body.Allowed, 4)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, zerolog.Nop()).ListOrders(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "Bad Gateway")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url, zerolog.Nop()).Health(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
}

func TestClient_AdminRequests(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		switch {
		case r.URL.Path == "/admin/users":
			_ = json.NewEncoder(w).Encode(model.UsersResponse{
				Success: true,
				Users:   []model.UserSummary{{ID: 1, Name: "Ann", LastOrderStatus: model.NoOrdersStatus}},
			})
		case r.Method == http.MethodDelete:
			_ = json.NewEncoder(w).Encode(model.DeleteResponse{Success: true, Message: "User deleted successfully", UserID: 1})
		default:
			_ = json.NewEncoder(w).Encode(model.OrdersResponse{Success: true, Orders: []model.Order{{ID: 3}}})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop(), WithAPIKey("secret"))
	ctx := context.Background()

	users, err := c.ListUsers(ctx, "ann smith")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.NoOrdersStatus, users[0].LastOrderStatus)

	orders, err := c.ListUserOrders(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	del, err := c.DeleteUser(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.UserID)

	assert.Equal(t, []string{
		"GET /admin/users?q=ann+smith",
		"GET /admin/users/1/orders",
		"DELETE /admin/users/1",
	}, seen)
}
