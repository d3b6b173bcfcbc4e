package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sutharv/rental-system/internal/domain"
	"github.com/sutharv/rental-system/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// respondError translates the core's error taxonomy into HTTP statuses. The
// ledger never exposes internal state; the message is the whole contract.
func respondError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		resp.Field = vErr.Field
		respondJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidCustomer),
		errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrNoActiveRental):
		respondJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, domain.ErrAlreadyRented),
		errors.Is(err, domain.ErrNotRented),
		errors.Is(err, domain.ErrDuplicateRental),
		errors.Is(err, domain.ErrRentalNotFound),
		errors.Is(err, domain.ErrItemInUse),
		errors.Is(err, domain.ErrCustomerHasActiveRentals):
		respondJSON(w, http.StatusConflict, resp)
	case errors.Is(err, domain.ErrPersistence):
		respondJSON(w, http.StatusInternalServerError, resp)
	default:
		logger.Error("Unclassified error reached the API boundary", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
