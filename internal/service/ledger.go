package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sutharv/rental-system/internal/domain"
	"github.com/sutharv/rental-system/internal/logger"
	"github.com/sutharv/rental-system/internal/repository"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

type rentalKey struct {
	customerID string
	itemID     string
}

// RentalLedger implements Ledger on in-memory state backed by a snapshot
// store. Item state, customer state and the active-rentals index are updated
// as one multi-step sequence, so a single coarse lock covers every operation
// end to end.
type RentalLedger struct {
	mu        sync.RWMutex
	store     repository.SnapshotStore
	items     map[string]domain.Item
	customers map[string]*domain.Customer
	active    map[rentalKey]domain.ActiveRental
	history   []domain.HistoryEntry
}

func NewRentalLedger(store repository.SnapshotStore) *RentalLedger {
	return &RentalLedger{
		store:     store,
		items:     make(map[string]domain.Item),
		customers: make(map[string]*domain.Customer),
		active:    make(map[rentalKey]domain.ActiveRental),
	}
}

// Load replaces the ledger contents with the persisted snapshot and rebuilds
// the active-rentals index from item and customer state. Missing or
// malformed snapshot files load as empty state; see repository.SnapshotStore.
func (l *RentalLedger) Load(ctx context.Context) error {
	snap, err := l.store.Load(ctx)
	if err != nil {
		return err
	}

	// Not every SnapshotStore implementation builds its result with
	// repository.NewSnapshot; nil maps must not reach the mutation paths.
	if snap.Items == nil {
		snap.Items = make(map[string]domain.Item)
	}
	if snap.Customers == nil {
		snap.Customers = make(map[string]*domain.Customer)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = snap.Items
	l.customers = snap.Customers
	l.history = snap.History
	l.active = deriveActiveRentals(snap.Items, snap.Customers)
	return nil
}

// deriveActiveRentals rebuilds the active-rentals index from item and
// customer state. The index is a cache over that state, never an independent
// source of truth: every rented item is matched against the customers'
// active-rental lists to recover the pairing, and the entry's start time is
// the item's recorded rental start.
func deriveActiveRentals(items map[string]domain.Item, customers map[string]*domain.Customer) map[rentalKey]domain.ActiveRental {
	active := make(map[rentalKey]domain.ActiveRental)
	for id, item := range items {
		if !item.IsRented() {
			continue
		}
		for _, customer := range customers {
			if !customer.HasRental(id) {
				continue
			}
			start, ok := item.CurrentRentalStart()
			if !ok {
				start = timeNow()
			}
			active[rentalKey{customerID: customer.ID(), itemID: id}] = domain.ActiveRental{
				CustomerID:   customer.ID(),
				CustomerName: customer.FullName(),
				ItemID:       id,
				ItemName:     item.Name(),
				StartTime:    start,
			}
			break
		}
	}
	return active
}

// persist writes the full ledger state through the snapshot store. The
// in-memory mutation that triggered it stays applied even when the write
// fails; the caller gets the persistence error to surface.
func (l *RentalLedger) persist(ctx context.Context) error {
	snap := &repository.Snapshot{
		Items:     l.items,
		Customers: l.customers,
		History:   l.history,
	}
	if err := l.store.Save(ctx, snap); err != nil {
		logger.Error("Failed to persist ledger snapshot", "error", err)
		return err
	}
	return nil
}

func (l *RentalLedger) AddItem(ctx context.Context, item domain.Item) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.items[item.ID()]; exists {
		return fmt.Errorf("item with id %s: %w", item.ID(), domain.ErrDuplicateID)
	}
	// The ledger owns its own copy; the caller's pointer stays outside the
	// lock and must never alias ledger state.
	l.items[item.ID()] = item.Clone()
	return l.persist(ctx)
}

func (l *RentalLedger) RemoveItem(ctx context.Context, itemID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, exists := l.items[itemID]
	if !exists {
		return fmt.Errorf("item with id %s: %w", itemID, domain.ErrNotFound)
	}
	if item.IsRented() {
		return fmt.Errorf("%s: %w", item.Name(), domain.ErrItemInUse)
	}
	delete(l.items, itemID)
	return l.persist(ctx)
}

func (l *RentalLedger) AddCustomer(ctx context.Context, customer *domain.Customer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.customers[customer.ID()]; exists {
		return fmt.Errorf("customer with id %s: %w", customer.ID(), domain.ErrDuplicateID)
	}
	l.customers[customer.ID()] = customer.Clone()
	return l.persist(ctx)
}

func (l *RentalLedger) RemoveCustomer(ctx context.Context, customerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	customer, exists := l.customers[customerID]
	if !exists {
		return fmt.Errorf("customer with id %s: %w", customerID, domain.ErrNotFound)
	}
	if customer.HasActiveRentals() {
		return fmt.Errorf("%s: %w", customer.FullName(), domain.ErrCustomerHasActiveRentals)
	}
	delete(l.customers, customerID)
	return l.persist(ctx)
}

func (l *RentalLedger) EditCustomer(ctx context.Context, customerID string, edit domain.CustomerEdit) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	customer, exists := l.customers[customerID]
	if !exists {
		return fmt.Errorf("customer with id %s: %w", customerID, domain.ErrNotFound)
	}
	customer.EditDetails(edit)
	return l.persist(ctx)
}

// RentItem starts a rental: it flips the item to rented, appends it to the
// customer's loan list and records the pairing in the active-rentals index.
// All checks run before the first state change, so a failure leaves both
// entities untouched.
func (l *RentalLedger) RentItem(ctx context.Context, customerID, itemID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	customer, exists := l.customers[customerID]
	if !exists {
		return fmt.Errorf("%s: %w", customerID, domain.ErrInvalidCustomer)
	}
	item, exists := l.items[itemID]
	if !exists {
		return fmt.Errorf("%s: %w", itemID, domain.ErrInvalidItem)
	}
	if customer.HasRental(itemID) {
		return fmt.Errorf("%s: %w", item.Name(), domain.ErrDuplicateRental)
	}

	if err := item.Rent(); err != nil {
		return err
	}
	if err := customer.AddRental(item); err != nil {
		return err
	}

	start, ok := item.CurrentRentalStart()
	if !ok {
		start = timeNow()
	}
	l.active[rentalKey{customerID: customerID, itemID: itemID}] = domain.ActiveRental{
		CustomerID:   customerID,
		CustomerName: customer.FullName(),
		ItemID:       itemID,
		ItemName:     item.Name(),
		StartTime:    start,
	}

	return l.persist(ctx)
}

// ReturnItem completes a rental and returns the computed cost: the item
// settles its own cost and history, the customer's loan list and the index
// drop the pairing, and a history entry is appended to the global log.
func (l *RentalLedger) ReturnItem(ctx context.Context, customerID, itemID string) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := rentalKey{customerID: customerID, itemID: itemID}
	rental, exists := l.active[key]
	if !exists {
		return 0, fmt.Errorf("customer %s, item %s: %w", customerID, itemID, domain.ErrNoActiveRental)
	}

	customer := l.customers[customerID]
	item := l.items[itemID]

	cost, err := item.Return()
	if err != nil {
		return 0, err
	}
	if err := customer.RemoveRental(item); err != nil {
		return 0, err
	}
	delete(l.active, key)

	l.history = append(l.history, domain.HistoryEntry{
		ID:           uuid.NewString(),
		CustomerID:   customerID,
		CustomerName: customer.FullName(),
		ItemID:       itemID,
		ItemName:     item.Name(),
		StartTime:    rental.StartTime,
		EndTime:      timeNow(),
		Cost:         cost,
	})

	if err := l.persist(ctx); err != nil {
		return cost, err
	}
	return cost, nil
}

func (l *RentalLedger) Items(ctx context.Context) []domain.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortedItems(l.items)
}

func (l *RentalLedger) Customers(ctx context.Context) []*domain.Customer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortedCustomers(l.customers)
}

// History returns a copy of the global rental history, oldest first.
func (l *RentalLedger) History(ctx context.Context) []domain.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(l.history))
	copy(out, l.history)
	return out
}

// CustomerRentals returns the customer's active rentals in rental order.
func (l *RentalLedger) CustomerRentals(ctx context.Context, customerID string) ([]domain.ActiveRental, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	customer, exists := l.customers[customerID]
	if !exists {
		return nil, fmt.Errorf("%s: %w", customerID, domain.ErrInvalidCustomer)
	}

	rentals := make([]domain.ActiveRental, 0, len(customer.ActiveRentals()))
	for _, item := range customer.ActiveRentals() {
		if rental, ok := l.active[rentalKey{customerID: customerID, itemID: item.ID()}]; ok {
			rentals = append(rentals, rental)
		}
	}
	return rentals, nil
}

func (l *RentalLedger) ItemHistory(ctx context.Context, itemID string) ([]domain.HistoryEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, exists := l.items[itemID]; !exists {
		return nil, fmt.Errorf("%s: %w", itemID, domain.ErrInvalidItem)
	}
	entries := make([]domain.HistoryEntry, 0)
	for _, entry := range l.history {
		if entry.ItemID == itemID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (l *RentalLedger) CustomerHistory(ctx context.Context, customerID string) ([]domain.HistoryEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, exists := l.customers[customerID]; !exists {
		return nil, fmt.Errorf("%s: %w", customerID, domain.ErrInvalidCustomer)
	}
	entries := make([]domain.HistoryEntry, 0)
	for _, entry := range l.history {
		if entry.CustomerID == customerID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (l *RentalLedger) AvailableItems(ctx context.Context) []domain.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	available := make(map[string]domain.Item)
	for id, item := range l.items {
		if !item.IsRented() {
			available[id] = item
		}
	}
	return sortedItems(available)
}

func (l *RentalLedger) RentedItems(ctx context.Context) []domain.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rented := make(map[string]domain.Item)
	for id, item := range l.items {
		if item.IsRented() {
			rented[id] = item
		}
	}
	return sortedItems(rented)
}

func (l *RentalLedger) CustomersWithActiveRentals(ctx context.Context) []*domain.Customer {
	l.mu.RLock()
	defer l.mu.RUnlock()

	renting := make(map[string]*domain.Customer)
	for id, customer := range l.customers {
		if customer.HasActiveRentals() {
			renting[id] = customer
		}
	}
	return sortedCustomers(renting)
}

// VerifyIntegrity re-derives the active-rentals index from item and customer
// state and reports every divergence from the live index, plus any breach of
// the item/customer bidirectional consistency invariant. An empty result
// means the ledger is consistent.
func (l *RentalLedger) VerifyIntegrity(ctx context.Context) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var issues []string

	derived := deriveActiveRentals(l.items, l.customers)
	for key := range l.active {
		if _, ok := derived[key]; !ok {
			issues = append(issues, fmt.Sprintf("index entry (%s, %s) has no backing item/customer state", key.customerID, key.itemID))
		}
	}
	for key := range derived {
		if _, ok := l.active[key]; !ok {
			issues = append(issues, fmt.Sprintf("rented item %s held by customer %s is missing from the index", key.itemID, key.customerID))
		}
	}

	for _, customer := range l.customers {
		for _, item := range customer.ActiveRentals() {
			if !item.IsRented() {
				issues = append(issues, fmt.Sprintf("customer %s lists item %s which is not rented", customer.ID(), item.ID()))
			}
		}
	}
	for id, item := range l.items {
		if !item.IsRented() {
			continue
		}
		if _, ok := item.CurrentRentalStart(); !ok {
			issues = append(issues, fmt.Sprintf("rented item %s has no recorded rental start", id))
		}
	}

	sort.Strings(issues)
	return issues
}

// sortedItems materializes a query result: detached clones, ordered by ID.
// Query callers read their result after the ledger lock is released, so a
// live entity pointer must never leave through here.
func sortedItems(items map[string]domain.Item) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// sortedCustomers materializes a query result; see sortedItems.
func sortedCustomers(customers map[string]*domain.Customer) []*domain.Customer {
	out := make([]*domain.Customer, 0, len(customers))
	for _, customer := range customers {
		out = append(out, customer.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
