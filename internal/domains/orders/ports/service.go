package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
)

// LineRequest is one requested (product, quantity) pair at placement time.
type LineRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput carries everything needed to place an order for the
// authenticated account owner.
type PlaceOrderInput struct {
	OwnerID  uuid.UUID
	Shipping domain.ShippingAddress
	Items    []LineRequest
}

// Service exposes the order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, page Page) ([]*domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.Filter, page Page) ([]*domain.Order, error)
	CustomerOrders(ctx context.Context, ownerID uuid.UUID, page Page) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, target domain.Status) (*domain.Order, error)
}
