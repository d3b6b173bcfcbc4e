package jsonfile

import (
	"time"

	"github.com/sutharv/rental-system/internal/domain"
	"github.com/sutharv/rental-system/internal/logger"
	"github.com/sutharv/rental-system/internal/repository"
)

// snapshotDocument is the on-disk shape of a ledger snapshot. There is no
// schema version field; field changes require an external migration.
type snapshotDocument struct {
	Items         map[string]itemDocument     `json:"items"`
	Customers     map[string]customerDocument `json:"customers"`
	RentalHistory []domain.HistoryEntry       `json:"rental_history"`
}

type itemDocument struct {
	ID                 string                `json:"id"`
	Name               string                `json:"name"`
	RentalPrice        float64               `json:"rental_price"`
	IsRented           bool                  `json:"is_rented"`
	RentalHistory      []domain.RentalRecord `json:"rental_history"`
	CurrentRentalStart *time.Time            `json:"current_rental_start"`
	// CurrentRenterID denormalizes the active-rentals pairing onto the rented
	// item so the customer's loan list can be rebuilt on load. Customer
	// documents never embed their loan lists.
	CurrentRenterID string `json:"current_renter_id,omitempty"`
	Type            string `json:"type"`
	Brand           string `json:"brand,omitempty"`
	BikeType        string `json:"bike_type,omitempty"`
}

type customerDocument struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

func encodeSnapshot(snap *repository.Snapshot) *snapshotDocument {
	doc := &snapshotDocument{
		Items:         make(map[string]itemDocument, len(snap.Items)),
		Customers:     make(map[string]customerDocument, len(snap.Customers)),
		RentalHistory: snap.History,
	}

	renters := make(map[string]string)
	for _, customer := range snap.Customers {
		for _, item := range customer.ActiveRentals() {
			renters[item.ID()] = customer.ID()
		}
	}

	for id, item := range snap.Items {
		info := item.TypeInfo()
		d := itemDocument{
			ID:            item.ID(),
			Name:          item.Name(),
			RentalPrice:   item.RentalPrice(),
			IsRented:      item.IsRented(),
			RentalHistory: item.RentalHistory(),
			Type:          info.Type,
		}
		if start, ok := item.CurrentRentalStart(); ok {
			d.CurrentRentalStart = &start
		}
		if item.IsRented() {
			d.CurrentRenterID = renters[item.ID()]
		}
		switch info.Type {
		case domain.ItemTypeCar:
			d.Brand = info.Detail
		case domain.ItemTypeBike:
			d.BikeType = info.Detail
		}
		doc.Items[id] = d
	}

	for id, customer := range snap.Customers {
		doc.Customers[id] = customerDocument{
			ID:            customer.ID(),
			FirstName:     customer.FirstName(),
			LastName:      customer.LastName(),
			Address:       customer.Address(),
			ContactNumber: customer.ContactNumber(),
		}
	}

	return doc
}

// decodeSnapshot rebuilds domain entities from a parsed document. Items with
// an unrecognized type discriminator are dropped with a warning rather than
// failing the load. Rented items are re-attached to the customer named by
// their current_renter_id; the active-rentals index itself is derived later
// by the ledger.
func decodeSnapshot(doc *snapshotDocument) (*repository.Snapshot, error) {
	snap := repository.NewSnapshot()
	snap.History = doc.RentalHistory

	for id, cd := range doc.Customers {
		customer, err := domain.NewCustomer(cd.ID, cd.FirstName, cd.LastName, cd.Address, cd.ContactNumber)
		if err != nil {
			return nil, err
		}
		snap.Customers[id] = customer
	}

	renters := make(map[string]string)
	for id, d := range doc.Items {
		state := domain.ItemState{
			Rented:      d.IsRented,
			RentalStart: d.CurrentRentalStart,
			History:     d.RentalHistory,
		}

		var item domain.Item
		var err error
		switch d.Type {
		case domain.ItemTypeCar:
			item, err = domain.RestoreCar(d.ID, d.Name, d.RentalPrice, d.Brand, state)
		case domain.ItemTypeBike:
			item, err = domain.RestoreBike(d.ID, d.Name, d.RentalPrice, d.BikeType, state)
		default:
			logger.Warn("Dropping item with unrecognized type", "item_id", id, "type", d.Type)
			continue
		}
		if err != nil {
			return nil, err
		}

		snap.Items[id] = item
		if d.IsRented && d.CurrentRenterID != "" {
			renters[id] = d.CurrentRenterID
		}
	}

	for itemID, customerID := range renters {
		customer, ok := snap.Customers[customerID]
		if !ok {
			logger.Warn("Rented item references unknown customer", "item_id", itemID, "customer_id", customerID)
			continue
		}
		if err := customer.AddRental(snap.Items[itemID]); err != nil {
			return nil, err
		}
	}

	return snap, nil
}
