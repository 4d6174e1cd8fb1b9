package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status enumerates the order lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrEmptyItems          = errors.New("order must contain at least one item")
	ErrInvalidQuantity     = errors.New("order item quantity must be greater than zero")
	ErrInvalidPrice        = errors.New("order item price must be greater than zero")
	ErrUnknownStatus       = errors.New("order status is not recognized")
	ErrInvalidTransition   = errors.New("order status transition is not allowed")
	ErrInvalidCancellation = errors.New("only pending orders can be cancelled")
	ErrMissingCustomer     = errors.New("order customer is required")
)

// ParseStatus normalizes a transport-supplied status value.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case StatusPending, StatusProcessed, StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// IsTerminal reports whether no further transitions are legal from the status.
func (s Status) IsTerminal() bool {
	return s == StatusProcessed || s == StatusCancelled
}

// ShippingAddress is the destination captured at placement time.
type ShippingAddress struct {
	Country    string
	City       string
	PostalCode string
}

// OrderItem is owned exclusively by its order. PriceAtPurchase snapshots the
// catalog price at placement so later price changes never affect the order.
type OrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	PriceAtPurchase float64
}

// Subtotal is the line contribution to the order total.
func (i OrderItem) Subtotal() float64 {
	return i.PriceAtPurchase * float64(i.Quantity)
}

// Order is the aggregate root of the order lifecycle. TotalAmount is derived
// from the items at construction and immutable afterwards.
type Order struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	Status      Status
	OrderDate   time.Time
	TotalAmount float64
	Shipping    ShippingAddress
	Items       []OrderItem
}

// NewOrder validates the line items, derives the total, and constructs a
// pending order owning its items.
func NewOrder(id, customerID uuid.UUID, shipping ShippingAddress, items []OrderItem) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, ErrMissingCustomer
	}
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	total := 0.0
	owned := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.ProductID)
		}
		if item.PriceAtPurchase <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidPrice, item.ProductID)
		}
		item.OrderID = id
		owned = append(owned, item)
		total += item.Subtotal()
	}
	return &Order{
		ID:          id,
		CustomerID:  customerID,
		Status:      StatusPending,
		OrderDate:   time.Now().UTC(),
		TotalAmount: total,
		Shipping:    shipping,
		Items:       owned,
	}, nil
}

// Process moves the order to PROCESSED. Only the pending state may transition;
// callers are expected to short-circuit the already-processed case before any
// stock side effects.
func (o *Order) Process() error {
	switch o.Status {
	case StatusPending, StatusProcessed:
		o.Status = StatusProcessed
		return nil
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusProcessed)
	}
}

// Cancel moves the order to CANCELLED. Legal only from PENDING.
func (o *Order) Cancel() error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: order is %s", ErrInvalidCancellation, o.Status)
	}
	o.Status = StatusCancelled
	return nil
}

// Clone returns a deep copy so adapters never hand out shared item slices.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = make([]OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
