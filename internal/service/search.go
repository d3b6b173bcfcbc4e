package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/sutharv/rental-system/internal/domain"
)

// SearchItems filters the catalog. An empty query returns everything. A
// query containing "under"/"below" or "over"/"above" is treated as a price
// ceiling or floor, using the run of digits in the query as the bound. When
// no digits can be extracted the query degrades to a name-only substring
// match; otherwise non-price queries match name, brand and bike type.
func (l *RentalLedger) SearchItems(ctx context.Context, query string) []domain.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if query == "" {
		return sortedItems(l.items)
	}

	q := strings.ToLower(query)
	matched := make(map[string]domain.Item)

	switch {
	case strings.Contains(q, "under") || strings.Contains(q, "below"):
		limit, ok := extractPrice(q)
		if !ok {
			return l.matchByName(q)
		}
		for id, item := range l.items {
			if item.RentalPrice() <= limit {
				matched[id] = item
			}
		}
	case strings.Contains(q, "over") || strings.Contains(q, "above"):
		limit, ok := extractPrice(q)
		if !ok {
			return l.matchByName(q)
		}
		for id, item := range l.items {
			if item.RentalPrice() >= limit {
				matched[id] = item
			}
		}
	default:
		for id, item := range l.items {
			info := item.TypeInfo()
			if strings.Contains(strings.ToLower(item.Name()), q) ||
				strings.Contains(strings.ToLower(info.Detail), q) {
				matched[id] = item
			}
		}
	}

	return sortedItems(matched)
}

// matchByName is the degraded search used when price extraction fails.
func (l *RentalLedger) matchByName(q string) []domain.Item {
	matched := make(map[string]domain.Item)
	for id, item := range l.items {
		if strings.Contains(strings.ToLower(item.Name()), q) {
			matched[id] = item
		}
	}
	return sortedItems(matched)
}

// extractPrice concatenates every digit in the query and parses the result:
// "under 20" yields 20, "under twenty" yields nothing.
func extractPrice(q string) (float64, bool) {
	var digits strings.Builder
	for _, r := range q {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SearchCustomers filters the roster by case-insensitive substring match
// against first name, last name, full name, address or contact number. An
// empty query returns everyone.
func (l *RentalLedger) SearchCustomers(ctx context.Context, query string) []*domain.Customer {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if query == "" {
		return sortedCustomers(l.customers)
	}

	q := strings.ToLower(query)
	matched := make(map[string]*domain.Customer)
	for id, customer := range l.customers {
		if strings.Contains(strings.ToLower(customer.FirstName()), q) ||
			strings.Contains(strings.ToLower(customer.LastName()), q) ||
			strings.Contains(strings.ToLower(customer.FullName()), q) ||
			strings.Contains(strings.ToLower(customer.Address()), q) ||
			strings.Contains(strings.ToLower(customer.ContactNumber()), q) {
			matched[id] = customer
		}
	}
	return sortedCustomers(matched)
}
