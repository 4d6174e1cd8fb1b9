package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog adapter. Version checks are performed
// under the write lock, so the conditional-write contract holds even when many
// goroutines race on the same product.
type Repository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
}

func NewRepository() *Repository {
	return &Repository{products: map[uuid.UUID]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	clone := *product
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) StockSnapshot(_ context.Context, id uuid.UUID) (ports.StockSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return ports.StockSnapshot{}, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}
	return ports.StockSnapshot{ProductID: id, Quantity: product.StockQuantity, Version: product.Version}, nil
}

func (r *Repository) WriteStock(_ context.Context, id uuid.UUID, newQuantity int, expectedVersion int64) (ports.StockSnapshot, error) {
	if newQuantity < 0 {
		return ports.StockSnapshot{}, domain.ErrNegativeStock
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return ports.StockSnapshot{}, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}
	if product.Version != expectedVersion {
		return ports.StockSnapshot{}, fmt.Errorf("%w: product %s expected version %d, stored %d",
			ports.ErrVersionConflict, id, expectedVersion, product.Version)
	}
	product.StockQuantity = newQuantity
	product.Version++
	product.UpdatedAt = time.Now().UTC()
	return ports.StockSnapshot{ProductID: id, Quantity: product.StockQuantity, Version: product.Version}, nil
}
