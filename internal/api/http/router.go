package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sutharv/rental-system/internal/logger"
)

// NewRouter wires every endpoint under /api/v1. Literal routes are
// registered before their variable-path siblings so mux matches them first.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api.HandleFunc("/items/available", h.AvailableItems).Methods(http.MethodGet)
	api.HandleFunc("/items/rented", h.RentedItems).Methods(http.MethodGet)
	api.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/items", h.CreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", h.DeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id}/history", h.ItemHistory).Methods(http.MethodGet)

	api.HandleFunc("/customers/active", h.ActiveCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", h.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", h.CreateCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods(http.MethodDelete)
	api.HandleFunc("/customers/{id}/rentals", h.CustomerRentals).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}/history", h.CustomerHistory).Methods(http.MethodGet)

	api.HandleFunc("/rentals", h.RentItem).Methods(http.MethodPost)
	api.HandleFunc("/returns", h.ReturnItem).Methods(http.MethodPost)
	api.HandleFunc("/history", h.History).Methods(http.MethodGet)

	return r
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
