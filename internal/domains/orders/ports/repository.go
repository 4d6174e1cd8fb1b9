package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Page bounds a listing query.
type Page struct {
	Limit  int
	Offset int
}

// Repository persists orders together with their owned items.
// Create writes the order and its items as one atomic unit; results of Find
// and List are sorted by order date descending.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) (*domain.Order, error)
	List(ctx context.Context, page Page) ([]*domain.Order, error)
	Find(ctx context.Context, filter domain.Filter, page Page) ([]*domain.Order, error)
}
