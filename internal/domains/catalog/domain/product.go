package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrInvalidPrice      = errors.New("product price must be greater than zero")
	ErrNegativeStock     = errors.New("stock quantity cannot be negative")
	ErrInvalidQuantity   = errors.New("stock adjustment quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient product stock")
)

// Product is the catalog aggregate. StockQuantity and Version together form the
// optimistic-lock pair: every successful stock write bumps Version by one, and
// writers must present the Version they read.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct validates and constructs a catalog product with version zero.
func NewProduct(id uuid.UUID, name, description string, price float64, stock int) (*Product, error) {
	product := &Product{
		ID:            id,
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stock,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	return nil
}
