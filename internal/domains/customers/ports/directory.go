package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/customers/domain"
)

var ErrNotFound = errors.New("customer not found")

// Directory resolves the authenticated caller to a domain customer.
type Directory interface {
	ByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Customer, error)
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}
