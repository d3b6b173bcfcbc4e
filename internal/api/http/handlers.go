package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sutharv/rental-system/internal/domain"
	"github.com/sutharv/rental-system/internal/service"
)

// Handler exposes the rental ledger over REST. It parses plain inputs,
// invokes ledger operations and renders results or translated errors; it
// never reaches into ledger state directly.
type Handler struct {
	ledger service.Ledger
}

func NewHandler(ledger service.Ledger) *Handler {
	return &Handler{ledger: ledger}
}

type itemResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	RentalPrice        float64    `json:"rental_price"`
	IsRented           bool       `json:"is_rented"`
	Type               string     `json:"type"`
	Brand              string     `json:"brand,omitempty"`
	BikeType           string     `json:"bike_type,omitempty"`
	CurrentRentalStart *time.Time `json:"current_rental_start,omitempty"`
}

func toItemResponse(item domain.Item) itemResponse {
	info := item.TypeInfo()
	resp := itemResponse{
		ID:          item.ID(),
		Name:        item.Name(),
		RentalPrice: item.RentalPrice(),
		IsRented:    item.IsRented(),
		Type:        info.Type,
	}
	switch info.Type {
	case domain.ItemTypeCar:
		resp.Brand = info.Detail
	case domain.ItemTypeBike:
		resp.BikeType = info.Detail
	}
	if start, ok := item.CurrentRentalStart(); ok {
		resp.CurrentRentalStart = &start
	}
	return resp
}

func toItemResponses(items []domain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

type customerResponse struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
	ActiveRentals int    `json:"active_rentals"`
}

func toCustomerResponse(customer *domain.Customer) customerResponse {
	return customerResponse{
		ID:            customer.ID(),
		FirstName:     customer.FirstName(),
		LastName:      customer.LastName(),
		FullName:      customer.FullName(),
		Address:       customer.Address(),
		ContactNumber: customer.ContactNumber(),
		ActiveRentals: len(customer.ActiveRentals()),
	}
}

func toCustomerResponses(customers []*domain.Customer) []customerResponse {
	out := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		out = append(out, toCustomerResponse(customer))
	}
	return out
}

// ListItems handles GET /items, with an optional search query.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items := h.ledger.SearchItems(r.Context(), r.URL.Query().Get("search"))
	respondJSON(w, http.StatusOK, toItemResponses(items))
}

type createItemRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	RentalPrice float64 `json:"rental_price"`
	Type        string  `json:"type"`
	Brand       string  `json:"brand"`
	BikeType    string  `json:"bike_type"`
}

// CreateItem handles POST /items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var item domain.Item
	var err error
	switch req.Type {
	case domain.ItemTypeCar:
		item, err = domain.NewCar(req.ID, req.Name, req.RentalPrice, req.Brand)
	case domain.ItemTypeBike:
		item, err = domain.NewBike(req.ID, req.Name, req.RentalPrice, req.BikeType)
	default:
		respondError(w, &domain.ValidationError{Field: "type", Reason: "must be \"car\" or \"bike\""})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.ledger.AddItem(r.Context(), item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toItemResponse(item))
}

// DeleteItem handles DELETE /items/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.RemoveItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ItemHistory handles GET /items/{id}/history.
func (h *Handler) ItemHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.ItemHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// AvailableItems handles GET /items/available.
func (h *Handler) AvailableItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toItemResponses(h.ledger.AvailableItems(r.Context())))
}

// RentedItems handles GET /items/rented.
func (h *Handler) RentedItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toItemResponses(h.ledger.RentedItems(r.Context())))
}

// ListCustomers handles GET /customers, with an optional search query.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := h.ledger.SearchCustomers(r.Context(), r.URL.Query().Get("search"))
	respondJSON(w, http.StatusOK, toCustomerResponses(customers))
}

type createCustomerRequest struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

// CreateCustomer handles POST /customers.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	customer, err := domain.NewCustomer(req.ID, req.FirstName, req.LastName, req.Address, req.ContactNumber)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.ledger.AddCustomer(r.Context(), customer); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

type editCustomerRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

// UpdateCustomer handles PUT /customers/{id}. Empty fields are left as-is.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req editCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	edit := domain.CustomerEdit{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	}
	if err := h.ledger.EditCustomer(r.Context(), mux.Vars(r)["id"], edit); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "customer updated"})
}

// DeleteCustomer handles DELETE /customers/{id}.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.RemoveCustomer(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// CustomerRentals handles GET /customers/{id}/rentals.
func (h *Handler) CustomerRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.ledger.CustomerRentals(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rentals)
}

// CustomerHistory handles GET /customers/{id}/history.
func (h *Handler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.CustomerHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// ActiveCustomers handles GET /customers/active.
func (h *Handler) ActiveCustomers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCustomerResponses(h.ledger.CustomersWithActiveRentals(r.Context())))
}

type rentalRequest struct {
	CustomerID string `json:"customer_id"`
	ItemID     string `json:"item_id"`
}

// RentItem handles POST /rentals.
func (h *Handler) RentItem(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.ledger.RentItem(r.Context(), req.CustomerID, req.ItemID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "item rented"})
}

type returnResponse struct {
	Cost float64 `json:"cost"`
}

// ReturnItem handles POST /returns.
func (h *Handler) ReturnItem(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cost, err := h.ledger.ReturnItem(r.Context(), req.CustomerID, req.ItemID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, returnResponse{Cost: cost})
}

// History handles GET /history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.ledger.History(r.Context()))
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
