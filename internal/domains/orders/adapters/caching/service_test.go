package caching

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
	"github.com/Apurer/ecommerce-api-server/internal/platform/cache"
)

// countingService records how often each read path hits the inner service.
type countingService struct {
	order *domain.Order

	getCalls    int
	listCalls   int
	searchCalls int
}

func (c *countingService) PlaceOrder(context.Context, ports.PlaceOrderInput) (*domain.Order, error) {
	return c.order, nil
}

func (c *countingService) GetOrder(context.Context, uuid.UUID) (*domain.Order, error) {
	c.getCalls++
	return c.order.Clone(), nil
}

func (c *countingService) ListOrders(context.Context, ports.Page) ([]*domain.Order, error) {
	c.listCalls++
	return []*domain.Order{c.order.Clone()}, nil
}

func (c *countingService) SearchOrders(context.Context, domain.Filter, ports.Page) ([]*domain.Order, error) {
	c.searchCalls++
	return []*domain.Order{c.order.Clone()}, nil
}

func (c *countingService) CustomerOrders(context.Context, uuid.UUID, ports.Page) ([]*domain.Order, error) {
	return []*domain.Order{c.order.Clone()}, nil
}

func (c *countingService) UpdateOrderStatus(context.Context, uuid.UUID, domain.Status) (*domain.Order, error) {
	return c.order, nil
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     domain.StatusPending,
		OrderDate:  time.Now().UTC(),
		Items: []domain.OrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, PriceAtPurchase: 10},
		},
	}
}

func TestGetOrder_ServedFromCacheOnSecondRead(t *testing.T) {
	inner := &countingService{order: testOrder()}
	store := cache.New(time.Minute, 10)
	svc := New(inner, store)

	first, err := svc.GetOrder(context.Background(), inner.order.ID)
	require.NoError(t, err)
	second, err := svc.GetOrder(context.Background(), inner.order.ID)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, inner.getCalls)
}

func TestGetOrder_ServesClones(t *testing.T) {
	inner := &countingService{order: testOrder()}
	store := cache.New(time.Minute, 10)
	svc := New(inner, store)

	first, err := svc.GetOrder(context.Background(), inner.order.ID)
	require.NoError(t, err)
	first.Items[0].Quantity = 99

	second, err := svc.GetOrder(context.Background(), inner.order.ID)
	require.NoError(t, err)
	require.Equal(t, 1, second.Items[0].Quantity)
}

func TestListOrders_KeyedByPage(t *testing.T) {
	inner := &countingService{order: testOrder()}
	store := cache.New(time.Minute, 10)
	svc := New(inner, store)

	_, err := svc.ListOrders(context.Background(), ports.Page{Limit: 20})
	require.NoError(t, err)
	_, err = svc.ListOrders(context.Background(), ports.Page{Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 1, inner.listCalls)

	_, err = svc.ListOrders(context.Background(), ports.Page{Limit: 20, Offset: 20})
	require.NoError(t, err)
	require.Equal(t, 2, inner.listCalls)
}

func TestSearchOrders_KeyedByFilter(t *testing.T) {
	inner := &countingService{order: testOrder()}
	store := cache.New(time.Minute, 10)
	svc := New(inner, store)

	pending := domain.StatusPending
	processed := domain.StatusProcessed

	_, err := svc.SearchOrders(context.Background(), domain.Filter{Status: &pending}, ports.Page{Limit: 20})
	require.NoError(t, err)
	_, err = svc.SearchOrders(context.Background(), domain.Filter{Status: &pending}, ports.Page{Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 1, inner.searchCalls)

	_, err = svc.SearchOrders(context.Background(), domain.Filter{Status: &processed}, ports.Page{Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 2, inner.searchCalls)
}

func TestInvalidator_EvictsWarmedReads(t *testing.T) {
	inner := &countingService{order: testOrder()}
	store := cache.New(time.Minute, 10)
	svc := New(inner, store)
	invalidator := NewInvalidator(store)

	_, err := svc.GetOrder(context.Background(), inner.order.ID)
	require.NoError(t, err)
	_, err = svc.ListOrders(context.Background(), ports.Page{Limit: 20})
	require.NoError(t, err)

	invalidator.Invalidate(context.Background(), ports.CacheGroupOrders, ports.CacheGroupPaginated)

	_, err = svc.GetOrder(context.Background(), inner.order.ID)
	require.NoError(t, err)
	_, err = svc.ListOrders(context.Background(), ports.Page{Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 2, inner.getCalls)
	require.Equal(t, 2, inner.listCalls)
}
