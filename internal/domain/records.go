package domain

import "time"

// RentalRecord is one completed rental in an item's own history.
type RentalRecord struct {
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationHours float64   `json:"duration_hours"`
	Cost          float64   `json:"cost"`
}

// HistoryEntry is one completed rental in the ledger's global log. Entries
// are immutable once appended.
type HistoryEntry struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Cost         float64   `json:"cost"`
}

// ActiveRental is a (customer, item) pairing currently in progress.
type ActiveRental struct {
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name"`
	StartTime    time.Time `json:"start_time"`
}
