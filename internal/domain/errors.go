package domain

import (
	"errors"
	"fmt"
)

// Catalog and roster key conflicts.
var (
	ErrDuplicateID = errors.New("id already exists")
	ErrNotFound    = errors.New("does not exist")
)

// Item state conflicts.
var (
	ErrAlreadyRented = errors.New("item is already rented")
	ErrNotRented     = errors.New("item is not currently rented")
)

// ErrCorruptState signals an internal invariant violation, e.g. an item
// flagged as rented without a recorded rental start.
var ErrCorruptState = errors.New("corrupt rental state")

// Customer rental-list conflicts.
var (
	ErrDuplicateRental = errors.New("item is already rented by this customer")
	ErrRentalNotFound  = errors.New("item is not rented by this customer")
)

// Deletion blocked by active use.
var (
	ErrItemInUse                = errors.New("cannot remove item while it is being rented")
	ErrCustomerHasActiveRentals = errors.New("cannot remove customer while they have active rentals")
)

// Rental transaction lookup failures.
var (
	ErrInvalidCustomer = errors.New("invalid customer id")
	ErrInvalidItem     = errors.New("invalid item id")
	ErrNoActiveRental  = errors.New("no active rental found for this customer and item")
)

// ErrPersistence wraps snapshot write failures. By the time it surfaces the
// in-memory mutation has already been applied; only the snapshot is stale.
var ErrPersistence = errors.New("persistence failure")

// ValidationError reports a constructor or setter input that failed
// validation. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
