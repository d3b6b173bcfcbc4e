package repository

import (
	"context"

	"github.com/sutharv/rental-system/internal/domain"
)

// Snapshot is the full materialized state of a rental ledger. The
// active-rentals index is deliberately absent: it is a cache derived from
// item and customer state, and is rebuilt after every load.
type Snapshot struct {
	Items     map[string]domain.Item
	Customers map[string]*domain.Customer
	History   []domain.HistoryEntry
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Items:     make(map[string]domain.Item),
		Customers: make(map[string]*domain.Customer),
	}
}

// SnapshotStore persists and restores full ledger snapshots. Save overwrites
// the previous snapshot in its entirety.
//
// Load degrades to an empty snapshot when the stored document is missing or
// unreadable as JSON; those failures are logged, not returned. Any other
// failure (I/O errors, snapshots whose contents do not decode into valid
// entities) is returned after logging.
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}
