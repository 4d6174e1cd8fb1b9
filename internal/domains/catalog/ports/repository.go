package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrVersionConflict reports that another writer updated the product's
	// stock between the caller's read and its conditional write. Retryable.
	ErrVersionConflict = errors.New("product stock version conflict")
)

// StockSnapshot is the read half of the optimistic-lock contract.
type StockSnapshot struct {
	ProductID uuid.UUID
	Quantity  int
	Version   int64
}

// Repository persists catalog products. WriteStock is the only stock mutation
// path and must reject writes whose expectedVersion is stale.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	StockSnapshot(ctx context.Context, id uuid.UUID) (StockSnapshot, error)
	WriteStock(ctx context.Context, id uuid.UUID, newQuantity int, expectedVersion int64) (StockSnapshot, error)
}
