package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutharv/rental-system/internal/domain"
	"github.com/sutharv/rental-system/internal/repository"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data.json"))
}

func buildSnapshot(t *testing.T) *repository.Snapshot {
	t.Helper()
	snap := repository.NewSnapshot()

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rentedBike, err := domain.RestoreBike("b1", "CityBike", 10, "city", domain.ItemState{
		Rented:      true,
		RentalStart: &start,
		History: []domain.RentalRecord{{
			StartTime:     start.Add(-48 * time.Hour),
			EndTime:       start.Add(-47 * time.Hour),
			DurationHours: 1,
			Cost:          10,
		}},
	})
	require.NoError(t, err)

	car, err := domain.NewCar("c1", "Sedan", 80, "Toyota")
	require.NoError(t, err)

	alice, err := domain.NewCustomer("cust1", "Alice", "Smith", "1 Main St", "555-0100")
	require.NoError(t, err)
	require.NoError(t, alice.AddRental(rentedBike))
	bob, err := domain.NewCustomer("cust2", "Bob", "Jones", "2 Oak Ave", "555-0199")
	require.NoError(t, err)

	snap.Items["b1"] = rentedBike
	snap.Items["c1"] = car
	snap.Customers["cust1"] = alice
	snap.Customers["cust2"] = bob
	snap.History = []domain.HistoryEntry{{
		ID:           "h1",
		CustomerID:   "cust1",
		CustomerName: "Alice Smith",
		ItemID:       "b1",
		ItemName:     "CityBike",
		StartTime:    start.Add(-48 * time.Hour),
		EndTime:      start.Add(-47 * time.Hour),
		Cost:         10,
	}}
	return snap
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)

	require.NoError(t, store.Save(ctx, buildSnapshot(t)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Len(t, loaded.Items, 2)
	assert.Len(t, loaded.Customers, 2)
	require.Len(t, loaded.History, 1)
	assert.Equal(t, "h1", loaded.History[0].ID)

	t.Run("Rented item state survives", func(t *testing.T) {
		bike := loaded.Items["b1"]
		require.NotNil(t, bike)
		assert.True(t, bike.IsRented())
		start, ok := bike.CurrentRentalStart()
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), start.UTC())
		require.Len(t, bike.RentalHistory(), 1)
		assert.Equal(t, domain.TypeInfo{Type: domain.ItemTypeBike, Detail: "city"}, bike.TypeInfo())
	})

	t.Run("Pairing is rebuilt onto the customer", func(t *testing.T) {
		alice := loaded.Customers["cust1"]
		require.NotNil(t, alice)
		assert.True(t, alice.HasRental("b1"))

		bob := loaded.Customers["cust2"]
		require.NotNil(t, bob)
		assert.False(t, bob.HasActiveRentals())
	})

	t.Run("Variant fields survive", func(t *testing.T) {
		car, ok := loaded.Items["c1"].(*domain.Car)
		require.True(t, ok)
		assert.Equal(t, "Toyota", car.Brand())
	})
}

func TestStoreLoadFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing file loads empty", func(t *testing.T) {
		store := tempStore(t)
		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Items)
		assert.Empty(t, snap.Customers)
		assert.Empty(t, snap.History)
	})

	t.Run("Malformed JSON loads empty", func(t *testing.T) {
		store := tempStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Items)
	})

	t.Run("Invalid entity fields fail the load", func(t *testing.T) {
		store := tempStore(t)
		doc := map[string]any{
			"items": map[string]any{
				"b1": map[string]any{"id": "b1", "name": "", "rental_price": 10, "type": "bike", "bike_type": "city"},
			},
			"customers":      map[string]any{},
			"rental_history": []any{},
		}
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(store.Path(), data, 0o644))

		_, err = store.Load(ctx)
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestStoreDropsUnrecognizedTypes(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)

	doc := map[string]any{
		"items": map[string]any{
			"b1": map[string]any{"id": "b1", "name": "CityBike", "rental_price": 10, "type": "bike", "bike_type": "city"},
			"x1": map[string]any{"id": "x1", "name": "Hoverboard", "rental_price": 99, "type": "hoverboard"},
		},
		"customers":      map[string]any{},
		"rental_history": []any{},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0o644))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
	assert.Contains(t, snap.Items, "b1")
}

func TestStoreCustomerDocumentsOmitLoanLists(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)
	require.NoError(t, store.Save(ctx, buildSnapshot(t)))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	var customers map[string]map[string]any
	require.NoError(t, json.Unmarshal(doc["customers"], &customers))
	for _, c := range customers {
		assert.NotContains(t, c, "active_rentals")
	}

	var items map[string]map[string]any
	require.NoError(t, json.Unmarshal(doc["items"], &items))
	assert.Equal(t, "cust1", items["b1"]["current_renter_id"])
	assert.NotContains(t, items["c1"], "current_renter_id")
}

func TestStoreSaveReplacesAtomically(t *testing.T) {
	ctx := context.Background()
	store := tempStore(t)

	require.NoError(t, store.Save(ctx, repository.NewSnapshot()))
	require.NoError(t, store.Save(ctx, buildSnapshot(t)))

	// No temp file left behind after a successful save.
	_, err := os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 2)
}
