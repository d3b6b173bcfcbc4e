package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T) *Customer {
	t.Helper()
	customer, err := NewCustomer("cust1", "Alice", "Smith", "1 Main St", "555-0100")
	require.NoError(t, err)
	return customer
}

func newTestBike(t *testing.T, id string) *Bike {
	t.Helper()
	bike, err := NewBike(id, "CityBike", 10, "city")
	require.NoError(t, err)
	return bike
}

func TestNewCustomerValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields [5]string
		field  string
	}{
		{"Empty id", [5]string{"", "Alice", "Smith", "1 Main St", "555-0100"}, "id"},
		{"Empty first name", [5]string{"cust1", "", "Smith", "1 Main St", "555-0100"}, "first_name"},
		{"Empty last name", [5]string{"cust1", "Alice", "", "1 Main St", "555-0100"}, "last_name"},
		{"Empty address", [5]string{"cust1", "Alice", "Smith", "", "555-0100"}, "address"},
		{"Empty contact number", [5]string{"cust1", "Alice", "Smith", "1 Main St", ""}, "contact_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCustomer(tt.fields[0], tt.fields[1], tt.fields[2], tt.fields[3], tt.fields[4])
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	t.Run("Valid", func(t *testing.T) {
		customer := newTestCustomer(t)
		assert.Equal(t, "Alice Smith", customer.FullName())
		assert.False(t, customer.HasActiveRentals())
	})
}

func TestCustomerSettersRejectEmpty(t *testing.T) {
	customer := newTestCustomer(t)

	assert.Error(t, customer.SetFirstName(""))
	assert.Error(t, customer.SetLastName(""))
	assert.Error(t, customer.SetAddress(""))
	assert.Error(t, customer.SetContactNumber(""))

	require.NoError(t, customer.SetFirstName("Alicia"))
	assert.Equal(t, "Alicia", customer.FirstName())
}

func TestCustomerEditDetails(t *testing.T) {
	t.Run("Non-empty fields overwrite", func(t *testing.T) {
		customer := newTestCustomer(t)
		customer.EditDetails(CustomerEdit{FirstName: "Alicia", Address: "2 Oak Ave"})

		assert.Equal(t, "Alicia", customer.FirstName())
		assert.Equal(t, "Smith", customer.LastName())
		assert.Equal(t, "2 Oak Ave", customer.Address())
		assert.Equal(t, "555-0100", customer.ContactNumber())
	})

	t.Run("Empty input never clears a field", func(t *testing.T) {
		customer := newTestCustomer(t)
		customer.EditDetails(CustomerEdit{})

		assert.Equal(t, "Alice", customer.FirstName())
		assert.Equal(t, "Smith", customer.LastName())
		assert.Equal(t, "1 Main St", customer.Address())
		assert.Equal(t, "555-0100", customer.ContactNumber())
	})
}

func TestCustomerRentalList(t *testing.T) {
	customer := newTestCustomer(t)
	bike := newTestBike(t, "b1")

	t.Run("Add and remove", func(t *testing.T) {
		require.NoError(t, customer.AddRental(bike))
		assert.True(t, customer.HasRental("b1"))
		assert.True(t, customer.HasActiveRentals())

		require.NoError(t, customer.RemoveRental(bike))
		assert.False(t, customer.HasRental("b1"))
		assert.False(t, customer.HasActiveRentals())
	})

	t.Run("Duplicate add fails", func(t *testing.T) {
		require.NoError(t, customer.AddRental(bike))
		assert.ErrorIs(t, customer.AddRental(bike), ErrDuplicateRental)
		require.NoError(t, customer.RemoveRental(bike))
	})

	t.Run("Remove of item not on loan fails", func(t *testing.T) {
		assert.ErrorIs(t, customer.RemoveRental(bike), ErrRentalNotFound)
	})

	t.Run("List preserves rental order and is a copy", func(t *testing.T) {
		first := newTestBike(t, "b1")
		second := newTestBike(t, "b2")
		require.NoError(t, customer.AddRental(first))
		require.NoError(t, customer.AddRental(second))

		rentals := customer.ActiveRentals()
		require.Len(t, rentals, 2)
		assert.Equal(t, "b1", rentals[0].ID())
		assert.Equal(t, "b2", rentals[1].ID())

		rentals[0] = second
		assert.Equal(t, "b1", customer.ActiveRentals()[0].ID())
	})
}
