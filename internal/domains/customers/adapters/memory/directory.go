package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/customers/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/customers/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory is an in-memory customer directory adapter.
type Directory struct {
	mu      sync.RWMutex
	byOwner map[uuid.UUID]*domain.Customer
}

func NewDirectory() *Directory {
	return &Directory{byOwner: map[uuid.UUID]*domain.Customer{}}
}

func (d *Directory) ByOwner(_ context.Context, ownerID uuid.UUID) (*domain.Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	customer, ok := d.byOwner[ownerID]
	if !ok {
		return nil, fmt.Errorf("%w: owner %s", ports.ErrNotFound, ownerID)
	}
	clone := *customer
	return &clone, nil
}

func (d *Directory) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := *customer
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byOwner[clone.OwnerID] = &clone
	result := clone
	return &result, nil
}
