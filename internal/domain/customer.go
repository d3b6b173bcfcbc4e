package domain

import "fmt"

// Customer is a roster entry holding personal details and the ordered list
// of items currently on loan. The list is maintained by the ledger as part
// of each rent/return transaction, never mutated directly by callers.
type Customer struct {
	id            string
	firstName     string
	lastName      string
	address       string
	contactNumber string
	activeRentals []Item
}

// NewCustomer validates and constructs a customer. All fields are required.
func NewCustomer(id, firstName, lastName, address, contactNumber string) (*Customer, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "cannot be empty"}
	}
	if firstName == "" {
		return nil, &ValidationError{Field: "first_name", Reason: "cannot be empty"}
	}
	if lastName == "" {
		return nil, &ValidationError{Field: "last_name", Reason: "cannot be empty"}
	}
	if address == "" {
		return nil, &ValidationError{Field: "address", Reason: "cannot be empty"}
	}
	if contactNumber == "" {
		return nil, &ValidationError{Field: "contact_number", Reason: "cannot be empty"}
	}
	return &Customer{
		id:            id,
		firstName:     firstName,
		lastName:      lastName,
		address:       address,
		contactNumber: contactNumber,
	}, nil
}

func (c *Customer) ID() string            { return c.id }
func (c *Customer) FirstName() string     { return c.firstName }
func (c *Customer) LastName() string      { return c.lastName }
func (c *Customer) Address() string       { return c.address }
func (c *Customer) ContactNumber() string { return c.contactNumber }

func (c *Customer) FullName() string {
	return fmt.Sprintf("%s %s", c.firstName, c.lastName)
}

func (c *Customer) SetFirstName(v string) error {
	if v == "" {
		return &ValidationError{Field: "first_name", Reason: "cannot be empty"}
	}
	c.firstName = v
	return nil
}

func (c *Customer) SetLastName(v string) error {
	if v == "" {
		return &ValidationError{Field: "last_name", Reason: "cannot be empty"}
	}
	c.lastName = v
	return nil
}

func (c *Customer) SetAddress(v string) error {
	if v == "" {
		return &ValidationError{Field: "address", Reason: "cannot be empty"}
	}
	c.address = v
	return nil
}

func (c *Customer) SetContactNumber(v string) error {
	if v == "" {
		return &ValidationError{Field: "contact_number", Reason: "cannot be empty"}
	}
	c.contactNumber = v
	return nil
}

// CustomerEdit carries replacement details for EditDetails. Empty fields are
// left untouched.
type CustomerEdit struct {
	FirstName     string
	LastName      string
	Address       string
	ContactNumber string
}

// EditDetails overwrites each detail for which a non-empty replacement was
// supplied. An empty input never clears a field.
func (c *Customer) EditDetails(edit CustomerEdit) {
	if edit.FirstName != "" {
		c.firstName = edit.FirstName
	}
	if edit.LastName != "" {
		c.lastName = edit.LastName
	}
	if edit.Address != "" {
		c.address = edit.Address
	}
	if edit.ContactNumber != "" {
		c.contactNumber = edit.ContactNumber
	}
}

// Clone returns a detached copy: details are copied and the active-rental
// list holds clones of the loaned items, so readers of a clone never observe
// a concurrent mutation of the original.
func (c *Customer) Clone() *Customer {
	clone := *c
	clone.activeRentals = make([]Item, len(c.activeRentals))
	for i, item := range c.activeRentals {
		clone.activeRentals[i] = item.Clone()
	}
	return &clone
}

// ActiveRentals returns a copy of the items currently on loan, in the order
// they were rented.
func (c *Customer) ActiveRentals() []Item {
	out := make([]Item, len(c.activeRentals))
	copy(out, c.activeRentals)
	return out
}

// HasRental reports whether the item is in this customer's active list.
func (c *Customer) HasRental(itemID string) bool {
	for _, item := range c.activeRentals {
		if item.ID() == itemID {
			return true
		}
	}
	return false
}

func (c *Customer) HasActiveRentals() bool {
	return len(c.activeRentals) > 0
}

// AddRental appends an item to the customer's active list.
func (c *Customer) AddRental(item Item) error {
	if c.HasRental(item.ID()) {
		return fmt.Errorf("%s: %w", item.Name(), ErrDuplicateRental)
	}
	c.activeRentals = append(c.activeRentals, item)
	return nil
}

// RemoveRental removes an item from the customer's active list.
func (c *Customer) RemoveRental(item Item) error {
	for i, rented := range c.activeRentals {
		if rented.ID() == item.ID() {
			c.activeRentals = append(c.activeRentals[:i], c.activeRentals[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", item.Name(), ErrRentalNotFound)
}
