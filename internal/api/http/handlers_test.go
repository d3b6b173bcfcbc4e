package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutharv/rental-system/internal/repository"
	"github.com/sutharv/rental-system/internal/service"
)

type memStore struct{}

func (memStore) Save(ctx context.Context, snap *repository.Snapshot) error { return nil }
func (memStore) Load(ctx context.Context) (*repository.Snapshot, error) {
	return repository.NewSnapshot(), nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ledger := service.NewRentalLedger(memStore{})
	srv := httptest.NewServer(NewRouter(NewHandler(ledger)))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestItemEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Create bike", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", map[string]any{
			"id": "b1", "name": "CityBike", "rental_price": 10, "type": "bike", "bike_type": "city",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var item map[string]any
		decodeInto(t, resp, &item)
		assert.Equal(t, "b1", item["id"])
		assert.Equal(t, "city", item["bike_type"])
	})

	t.Run("Validation failure names the field", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", map[string]any{
			"id": "b2", "name": "RoadBike", "rental_price": -1, "type": "bike", "bike_type": "road",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body errorResponse
		decodeInto(t, resp, &body)
		assert.Equal(t, "rental_price", body.Field)
	})

	t.Run("Unknown type rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", map[string]any{
			"id": "s1", "name": "Scooter", "rental_price": 5, "type": "scooter",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Duplicate id conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", map[string]any{
			"id": "b1", "name": "CityBike", "rental_price": 10, "type": "bike", "bike_type": "city",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Search by price", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", map[string]any{
			"id": "b2", "name": "RoadBike", "rental_price": 50, "type": "bike", "bike_type": "road",
		})
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/items?search=under+20", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var items []map[string]any
		decodeInto(t, resp, &items)
		require.Len(t, items, 1)
		assert.Equal(t, "CityBike", items[0]["name"])
	})

	t.Run("Delete missing item", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/items/nope", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRentalFlowEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/items", map[string]any{
		"id": "b1", "name": "Bike", "rental_price": 5, "type": "bike", "bike_type": "city",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", map[string]any{
		"id": "cust1", "first_name": "Alice", "last_name": "Smith",
		"address": "1 Main St", "contact_number": "555-0100",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	rental := map[string]any{"customer_id": "cust1", "item_id": "b1"}

	t.Run("Rent succeeds", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/rentals", rental)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Second rent conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/rentals", rental)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Customer with active rental cannot be deleted", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/customers/cust1", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Rented items listing", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/items/rented", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var items []map[string]any
		decodeInto(t, resp, &items)
		assert.Len(t, items, 1)
	})

	t.Run("Return yields the cost", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/returns", rental)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body returnResponse
		decodeInto(t, resp, &body)
		assert.GreaterOrEqual(t, body.Cost, 0.0)
	})

	t.Run("Return without active rental is not found", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/returns", rental)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("History records the completed rental", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/history", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var entries []map[string]any
		decodeInto(t, resp, &entries)
		require.Len(t, entries, 1)
		assert.Equal(t, "b1", entries[0]["item_id"])
	})

	t.Run("Customer deletable after return", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/customers/cust1", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestCustomerEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", map[string]any{
		"id": "cust1", "first_name": "Alice", "last_name": "Smith",
		"address": "1 Main St", "contact_number": "555-0100",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("Edit overwrites only supplied fields", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/customers/cust1", map[string]any{
			"first_name": "Alicia",
		})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/customers?search=alicia", nil)
		var customers []map[string]any
		decodeInto(t, resp, &customers)
		require.Len(t, customers, 1)
		assert.Equal(t, "Alicia Smith", customers[0]["full_name"])
		assert.Equal(t, "1 Main St", customers[0]["address"])
	})

	t.Run("Edit of unknown customer is not found", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/customers/nope", map[string]any{"first_name": "X"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Health", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/health", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
