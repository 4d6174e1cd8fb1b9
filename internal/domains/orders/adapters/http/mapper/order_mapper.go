// Package mapper converts between transport payloads and the orders domain.
package mapper

import (
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

// OrderItemRequest is one requested line in a placement payload.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the placement payload. The owning customer comes from
// the authenticated caller, never the body.
type CreateOrderRequest struct {
	Country    string             `json:"country" binding:"required"`
	City       string             `json:"city" binding:"required"`
	PostalCode string             `json:"postalCode" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest carries the target status of a transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse is the transport shape of one order line.
type OrderItemResponse struct {
	OrderItemID uuid.UUID `json:"orderItemId"`
	ProductID   uuid.UUID `json:"productId"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
}

// OrderResponse is the transport shape of an order.
type OrderResponse struct {
	OrderID            uuid.UUID           `json:"orderId"`
	Status             string              `json:"status"`
	OrderDate          time.Time           `json:"orderDate"`
	TotalAmount        float64             `json:"totalAmount"`
	ShippingCountry    string              `json:"shippingCountry"`
	ShippingCity       string              `json:"shippingCity"`
	ShippingPostalCode string              `json:"shippingPostalCode"`
	Items              []OrderItemResponse `json:"items"`
}

// ToPlaceOrderInput converts a placement payload for the given owner.
func ToPlaceOrderInput(ownerID uuid.UUID, payload CreateOrderRequest) ports.PlaceOrderInput {
	items := make([]ports.LineRequest, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, ports.LineRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return ports.PlaceOrderInput{
		OwnerID: ownerID,
		Shipping: domain.ShippingAddress{
			Country:    payload.Country,
			City:       payload.City,
			PostalCode: payload.PostalCode,
		},
		Items: items,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) OrderResponse {
	if order == nil {
		return OrderResponse{}
	}
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			OrderItemID: item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Price:       item.PriceAtPurchase,
		})
	}
	return OrderResponse{
		OrderID:            order.ID,
		Status:             string(order.Status),
		OrderDate:          order.OrderDate,
		TotalAmount:        order.TotalAmount,
		ShippingCountry:    order.Shipping.Country,
		ShippingCity:       order.Shipping.City,
		ShippingPostalCode: order.Shipping.PostalCode,
		Items:              items,
	}
}

// FromDomainOrders converts a list of domain orders.
func FromDomainOrders(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
