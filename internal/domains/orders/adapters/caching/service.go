package caching

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
	"github.com/Apurer/ecommerce-api-server/internal/platform/cache"
)

var (
	_ ports.Service          = (*Service)(nil)
	_ ports.CacheInvalidator = (*Invalidator)(nil)
)

// Invalidator adapts the platform cache store to the fire-and-forget eviction
// hook the core service calls after mutations.
type Invalidator struct {
	store *cache.Store
}

func NewInvalidator(store *cache.Store) *Invalidator {
	return &Invalidator{store: store}
}

func (i *Invalidator) Invalidate(_ context.Context, groups ...string) {
	if i == nil || i.store == nil {
		return
	}
	i.store.InvalidateGroups(groups...)
}

// Service memoizes the read paths of the orders service. Mutations pass
// through untouched; the core service evicts the affected groups itself.
type Service struct {
	inner ports.Service
	store *cache.Store
}

// New wraps the orders service with read-through caching.
func New(inner ports.Service, store *cache.Store) *Service {
	return &Service{inner: inner, store: store}
}

func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	return s.inner.PlaceOrder(ctx, input)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, target domain.Status) (*domain.Order, error) {
	return s.inner.UpdateOrderStatus(ctx, orderID, target)
}

func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	key := cache.Key(ports.CacheGroupOrders, orderID.String())
	if cached, ok := s.store.Get(key); ok {
		if order, ok := cached.(*domain.Order); ok {
			return order.Clone(), nil
		}
	}
	order, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.store.Set(key, order.Clone())
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, page ports.Page) ([]*domain.Order, error) {
	key := cache.Key(ports.CacheGroupPaginated, "all_orders", pageKey(page))
	return s.cachedList(ctx, key, func(ctx context.Context) ([]*domain.Order, error) {
		return s.inner.ListOrders(ctx, page)
	})
}

func (s *Service) SearchOrders(ctx context.Context, filter domain.Filter, page ports.Page) ([]*domain.Order, error) {
	key := cache.Key(ports.CacheGroupPaginated, "search_orders", filter.CacheKey(), pageKey(page))
	return s.cachedList(ctx, key, func(ctx context.Context) ([]*domain.Order, error) {
		return s.inner.SearchOrders(ctx, filter, page)
	})
}

func (s *Service) CustomerOrders(ctx context.Context, ownerID uuid.UUID, page ports.Page) ([]*domain.Order, error) {
	key := cache.Key(ports.CacheGroupPaginated, "customer_orders", ownerID.String(), pageKey(page))
	return s.cachedList(ctx, key, func(ctx context.Context) ([]*domain.Order, error) {
		return s.inner.CustomerOrders(ctx, ownerID, page)
	})
}

func (s *Service) cachedList(ctx context.Context, key string, load func(context.Context) ([]*domain.Order, error)) ([]*domain.Order, error) {
	if cached, ok := s.store.Get(key); ok {
		if orders, ok := cached.([]*domain.Order); ok {
			return cloneAll(orders), nil
		}
	}
	orders, err := load(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(key, cloneAll(orders))
	return orders, nil
}

func cloneAll(orders []*domain.Order) []*domain.Order {
	clones := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		clones = append(clones, order.Clone())
	}
	return clones
}

func pageKey(page ports.Page) string {
	return strconv.Itoa(page.Limit) + "_" + strconv.Itoa(page.Offset)
}
