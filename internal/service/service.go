package service

import (
	"context"

	"github.com/sutharv/rental-system/internal/domain"
)

// Ledger is the aggregate owning the item catalog, the customer roster, the
// active-rentals index and the global rental history. Mutating operations
// persist a full snapshot before returning; queries never touch storage.
type Ledger interface {
	Load(ctx context.Context) error

	AddItem(ctx context.Context, item domain.Item) error
	RemoveItem(ctx context.Context, itemID string) error

	AddCustomer(ctx context.Context, customer *domain.Customer) error
	RemoveCustomer(ctx context.Context, customerID string) error
	EditCustomer(ctx context.Context, customerID string, edit domain.CustomerEdit) error

	RentItem(ctx context.Context, customerID, itemID string) error
	ReturnItem(ctx context.Context, customerID, itemID string) (float64, error)

	Items(ctx context.Context) []domain.Item
	Customers(ctx context.Context) []*domain.Customer
	History(ctx context.Context) []domain.HistoryEntry
	CustomerRentals(ctx context.Context, customerID string) ([]domain.ActiveRental, error)
	ItemHistory(ctx context.Context, itemID string) ([]domain.HistoryEntry, error)
	CustomerHistory(ctx context.Context, customerID string) ([]domain.HistoryEntry, error)
	AvailableItems(ctx context.Context) []domain.Item
	RentedItems(ctx context.Context) []domain.Item
	CustomersWithActiveRentals(ctx context.Context) []*domain.Customer
	SearchItems(ctx context.Context, query string) []domain.Item
	SearchCustomers(ctx context.Context, query string) []*domain.Customer
}
