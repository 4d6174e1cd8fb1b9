package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Filter is the optional-field search criteria for orders. Absent fields
// contribute no predicate; present fields are combined with logical AND.
type Filter struct {
	CustomerID      *uuid.UUID
	Status          *Status
	MinOrderDate    *time.Time
	MaxOrderDate    *time.Time
	MinAmount       *float64
	MaxAmount       *float64
	ShippingCountry string
	ShippingCity    string
}

func (f Filter) HasCustomerID() bool { return f.CustomerID != nil }

func (f Filter) HasStatus() bool { return f.Status != nil }

func (f Filter) HasMinOrderDate() bool { return f.MinOrderDate != nil }

func (f Filter) HasMaxOrderDate() bool { return f.MaxOrderDate != nil }

func (f Filter) HasMinAmount() bool { return f.MinAmount != nil && *f.MinAmount >= 0 }

func (f Filter) HasMaxAmount() bool { return f.MaxAmount != nil && *f.MaxAmount >= 0 }

func (f Filter) HasShippingCountry() bool { return strings.TrimSpace(f.ShippingCountry) != "" }

func (f Filter) HasShippingCity() bool { return strings.TrimSpace(f.ShippingCity) != "" }

// IsEmpty reports whether no field contributes a predicate. Callers route
// empty filters to the unfiltered listing path.
func (f Filter) IsEmpty() bool {
	return !f.HasCustomerID() && !f.HasStatus() &&
		!f.HasMinOrderDate() && !f.HasMaxOrderDate() &&
		!f.HasMinAmount() && !f.HasMaxAmount() &&
		!f.HasShippingCountry() && !f.HasShippingCity()
}

// Predicate is one filter fragment evaluated against an order.
type Predicate func(*Order) bool

// Predicates compiles the present fields into their fragments. String fields
// compare case-insensitively: country as exact match, city as containment.
// Date and amount bounds are inclusive.
func (f Filter) Predicates() []Predicate {
	var fragments []Predicate
	if f.HasCustomerID() {
		customerID := *f.CustomerID
		fragments = append(fragments, func(o *Order) bool { return o.CustomerID == customerID })
	}
	if f.HasStatus() {
		status := *f.Status
		fragments = append(fragments, func(o *Order) bool { return o.Status == status })
	}
	if f.HasMinOrderDate() {
		min := *f.MinOrderDate
		fragments = append(fragments, func(o *Order) bool { return !o.OrderDate.Before(min) })
	}
	if f.HasMaxOrderDate() {
		max := *f.MaxOrderDate
		fragments = append(fragments, func(o *Order) bool { return !o.OrderDate.After(max) })
	}
	if f.HasMinAmount() {
		min := *f.MinAmount
		fragments = append(fragments, func(o *Order) bool { return o.TotalAmount >= min })
	}
	if f.HasMaxAmount() {
		max := *f.MaxAmount
		fragments = append(fragments, func(o *Order) bool { return o.TotalAmount <= max })
	}
	if f.HasShippingCountry() {
		country := strings.ToLower(strings.TrimSpace(f.ShippingCountry))
		fragments = append(fragments, func(o *Order) bool {
			return strings.ToLower(o.Shipping.Country) == country
		})
	}
	if f.HasShippingCity() {
		city := strings.ToLower(strings.TrimSpace(f.ShippingCity))
		fragments = append(fragments, func(o *Order) bool {
			return strings.Contains(strings.ToLower(o.Shipping.City), city)
		})
	}
	return fragments
}

// Matches evaluates all fragments with logical AND. An empty filter matches
// every order.
func (f Filter) Matches(order *Order) bool {
	for _, fragment := range f.Predicates() {
		if !fragment(order) {
			return false
		}
	}
	return true
}

// CacheKey renders a stable representation of the filter for memoized reads.
func (f Filter) CacheKey() string {
	parts := make([]string, 0, 8)
	if f.HasCustomerID() {
		parts = append(parts, "customer="+f.CustomerID.String())
	}
	if f.HasStatus() {
		parts = append(parts, "status="+string(*f.Status))
	}
	if f.HasMinOrderDate() {
		parts = append(parts, "minDate="+f.MinOrderDate.UTC().Format(time.RFC3339Nano))
	}
	if f.HasMaxOrderDate() {
		parts = append(parts, "maxDate="+f.MaxOrderDate.UTC().Format(time.RFC3339Nano))
	}
	if f.HasMinAmount() {
		parts = append(parts, fmt.Sprintf("minAmount=%g", *f.MinAmount))
	}
	if f.HasMaxAmount() {
		parts = append(parts, fmt.Sprintf("maxAmount=%g", *f.MaxAmount))
	}
	if f.HasShippingCountry() {
		parts = append(parts, "country="+strings.ToLower(strings.TrimSpace(f.ShippingCountry)))
	}
	if f.HasShippingCity() {
		parts = append(parts, "city="+strings.ToLower(strings.TrimSpace(f.ShippingCity)))
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, "&")
}
