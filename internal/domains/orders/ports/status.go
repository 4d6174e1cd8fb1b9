package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
)

// ErrStatusNotConfigured reports a status missing from the status catalog.
// This is a deployment defect, not a per-request condition.
var ErrStatusNotConfigured = errors.New("order status not configured")

// StatusRecord is one row of the seeded status catalog.
type StatusRecord struct {
	ID          uuid.UUID
	Name        domain.Status
	Description string
}

// StatusCatalog resolves lifecycle statuses to their configured records.
type StatusCatalog interface {
	Lookup(ctx context.Context, status domain.Status) (StatusRecord, error)
}
