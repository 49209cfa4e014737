package router

import (
	"net/http"

	"atelier/internal/handler"
	"atelier/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// A non-empty adminKey protects the /admin routes.
func New(
	orderHandler *handler.OrderHandler,
	adminHandler *handler.AdminHandler,
	adminKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Applied outermost first: Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"Method not allowed"}`))
	})

	r.Get("/", handler.Root)
	r.Get("/health", handler.Health)

	r.Get("/orders", orderHandler.List)
	r.Post("/orders", orderHandler.Create)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(adminKey, logger))

		r.Get("/users", adminHandler.ListUsers)
		r.Get("/users/{id}/orders", adminHandler.UserOrders)
		r.Delete("/users/{id}", adminHandler.DeleteUser)

		r.Get("/orders/{id}", adminHandler.GetOrder)
		r.Patch("/orders/{id}", adminHandler.UpdateStatus)
		r.Delete("/orders/{id}", adminHandler.DeleteOrder)
	})

	return r
}
