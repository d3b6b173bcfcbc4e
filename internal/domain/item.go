package domain

import (
	"fmt"
	"time"
)

// timeNow is swapped out in tests to make duration and cost math
// deterministic.
var timeNow = time.Now

const (
	ItemTypeCar  = "car"
	ItemTypeBike = "bike"
)

// TypeInfo identifies an item variant: the type discriminator plus the
// variant-specific detail (brand for cars, bike type for bikes). It drives
// serialization tagging and search filtering.
type TypeInfo struct {
	Type   string
	Detail string
}

// Item is a rentable catalog entry. An item owns its rented/available state
// and its own history of completed rentals; the flag flips only through Rent
// and Return.
type Item interface {
	ID() string
	Name() string
	RentalPrice() float64
	IsRented() bool
	RentalHistory() []RentalRecord
	CurrentRentalStart() (time.Time, bool)
	Rent() error
	Return() (float64, error)
	TypeInfo() TypeInfo
	Clone() Item
}

// ItemState carries persisted rental state when rehydrating an item from a
// snapshot. RentalStart is nil for items that are not rented.
type ItemState struct {
	Rented      bool
	RentalStart *time.Time
	History     []RentalRecord
}

type baseItem struct {
	id          string
	name        string
	rentalPrice float64
	rented      bool
	history     []RentalRecord
	rentalStart *time.Time
}

func newBaseItem(id, name string, rentalPrice float64) (baseItem, error) {
	if id == "" {
		return baseItem{}, &ValidationError{Field: "id", Reason: "cannot be empty"}
	}
	if name == "" {
		return baseItem{}, &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if rentalPrice <= 0 {
		return baseItem{}, &ValidationError{Field: "rental_price", Reason: "must be a positive number"}
	}
	return baseItem{id: id, name: name, rentalPrice: rentalPrice}, nil
}

func (b *baseItem) applyState(state ItemState) {
	b.rented = state.Rented
	if state.RentalStart != nil {
		start := *state.RentalStart
		b.rentalStart = &start
	}
	b.history = make([]RentalRecord, len(state.History))
	copy(b.history, state.History)
}

// cloneBase deep-copies the shared rental state so a clone and its source
// never alias history or the rental start.
func (b *baseItem) cloneBase() baseItem {
	clone := baseItem{
		id:          b.id,
		name:        b.name,
		rentalPrice: b.rentalPrice,
		rented:      b.rented,
	}
	if b.rentalStart != nil {
		start := *b.rentalStart
		clone.rentalStart = &start
	}
	clone.history = make([]RentalRecord, len(b.history))
	copy(clone.history, b.history)
	return clone
}

func (b *baseItem) ID() string           { return b.id }
func (b *baseItem) Name() string         { return b.name }
func (b *baseItem) RentalPrice() float64 { return b.rentalPrice }
func (b *baseItem) IsRented() bool       { return b.rented }

// RentalHistory returns a copy; callers cannot mutate the item's records.
func (b *baseItem) RentalHistory() []RentalRecord {
	out := make([]RentalRecord, len(b.history))
	copy(out, b.history)
	return out
}

func (b *baseItem) CurrentRentalStart() (time.Time, bool) {
	if b.rentalStart == nil {
		return time.Time{}, false
	}
	return *b.rentalStart, true
}

// Rent marks the item rented and records the rental start.
func (b *baseItem) Rent() error {
	if b.rented {
		return fmt.Errorf("%s: %w", b.name, ErrAlreadyRented)
	}
	now := timeNow()
	b.rented = true
	b.rentalStart = &now
	return nil
}

// Return completes the current rental: it computes the cost from the elapsed
// time (fractional hours included), appends a record to the item's history,
// and clears the rented state.
func (b *baseItem) Return() (float64, error) {
	if !b.rented {
		return 0, fmt.Errorf("%s: %w", b.name, ErrNotRented)
	}
	if b.rentalStart == nil {
		return 0, fmt.Errorf("%s: rental start time not recorded: %w", b.name, ErrCorruptState)
	}

	end := timeNow()
	hours := end.Sub(*b.rentalStart).Hours()
	cost := b.rentalPrice * hours

	b.history = append(b.history, RentalRecord{
		StartTime:     *b.rentalStart,
		EndTime:       end,
		DurationHours: hours,
		Cost:          cost,
	})
	b.rented = false
	b.rentalStart = nil

	return cost, nil
}

// Car is a rentable vehicle identified by brand.
type Car struct {
	baseItem
	brand string
}

// NewCar validates and constructs an available car.
func NewCar(id, name string, rentalPrice float64, brand string) (*Car, error) {
	base, err := newBaseItem(id, name, rentalPrice)
	if err != nil {
		return nil, err
	}
	if brand == "" {
		return nil, &ValidationError{Field: "brand", Reason: "cannot be empty"}
	}
	return &Car{baseItem: base, brand: brand}, nil
}

// RestoreCar constructs a car with previously persisted rental state.
func RestoreCar(id, name string, rentalPrice float64, brand string, state ItemState) (*Car, error) {
	car, err := NewCar(id, name, rentalPrice, brand)
	if err != nil {
		return nil, err
	}
	car.applyState(state)
	return car, nil
}

func (c *Car) Brand() string { return c.brand }

// Clone returns a detached copy sharing no mutable state with the original.
func (c *Car) Clone() Item {
	return &Car{baseItem: c.cloneBase(), brand: c.brand}
}

func (c *Car) TypeInfo() TypeInfo {
	return TypeInfo{Type: ItemTypeCar, Detail: c.brand}
}

// Bike is a rentable vehicle identified by its bike type.
type Bike struct {
	baseItem
	bikeType string
}

// NewBike validates and constructs an available bike.
func NewBike(id, name string, rentalPrice float64, bikeType string) (*Bike, error) {
	base, err := newBaseItem(id, name, rentalPrice)
	if err != nil {
		return nil, err
	}
	if bikeType == "" {
		return nil, &ValidationError{Field: "bike_type", Reason: "cannot be empty"}
	}
	return &Bike{baseItem: base, bikeType: bikeType}, nil
}

// RestoreBike constructs a bike with previously persisted rental state.
func RestoreBike(id, name string, rentalPrice float64, bikeType string, state ItemState) (*Bike, error) {
	bike, err := NewBike(id, name, rentalPrice, bikeType)
	if err != nil {
		return nil, err
	}
	bike.applyState(state)
	return bike, nil
}

func (b *Bike) BikeType() string { return b.bikeType }

// Clone returns a detached copy sharing no mutable state with the original.
func (b *Bike) Clone() Item {
	return &Bike{baseItem: b.cloneBase(), bikeType: b.bikeType}
}

func (b *Bike) TypeInfo() TypeInfo {
	return TypeInfo{Type: ItemTypeBike, Detail: b.bikeType}
}
