package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Create is atomic under
// the write lock, matching the order+items transactional contract.
type Repository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[uuid.UUID]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[clone.ID]; exists {
		return nil, fmt.Errorf("order %s already exists", clone.ID)
	}
	r.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}
	return order.Clone(), nil
}

func (r *Repository) UpdateStatus(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, order.ID)
	}
	stored.Status = order.Status
	return stored.Clone(), nil
}

func (r *Repository) List(ctx context.Context, page ports.Page) ([]*domain.Order, error) {
	return r.Find(ctx, domain.Filter{}, page)
}

func (r *Repository) Find(_ context.Context, filter domain.Filter, page ports.Page) ([]*domain.Order, error) {
	r.mu.RLock()
	matched := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.Matches(order) {
			matched = append(matched, order.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OrderDate.After(matched[j].OrderDate)
	})
	return paginate(matched, page), nil
}

func paginate(orders []*domain.Order, page ports.Page) []*domain.Order {
	if page.Offset >= len(orders) {
		return []*domain.Order{}
	}
	end := len(orders)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return orders[page.Offset:end]
}
