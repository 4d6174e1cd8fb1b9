// Package http exposes the orders service over gin.
package http

import (
	"context"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

// HeaderUserID identifies the calling account owner. Upstream auth is expected
// to populate it; the API trusts the value.
const HeaderUserID = "X-User-ID"

// OrderAPI wires HTTP transport with the orders service and workflows.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service. A nil
// orchestrator runs the processed transition inline through the service.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Register mounts the order routes on the given router group.
func (api *OrderAPI) Register(group *gin.RouterGroup) {
	orders := group.Group("/orders")
	orders.POST("", api.PlaceOrder)
	orders.GET("", api.ListOrders)
	orders.GET("/search", api.SearchOrders)
	orders.GET("/me", api.CustomerOrders)
	orders.GET("/:orderId", api.GetOrder)
	orders.PATCH("/:orderId/status", api.UpdateOrderStatus)
}

// Post /api/v1/orders
// Place a new order for the calling customer
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}
	var payload mapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), mapper.ToPlaceOrderInput(ownerID, payload))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusCreated, mapper.FromDomainOrder(order))
}

// Get /api/v1/orders/:orderId
// Retrieve a single order
func (api *OrderAPI) GetOrder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// Get /api/v1/orders
// Retrieve all orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	orders, err := api.service.ListOrders(c.Request.Context(), page)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrders(orders))
}

// Get /api/v1/orders/search
// Retrieve orders matching the filter query parameters
func (api *OrderAPI) SearchOrders(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	orders, err := api.service.SearchOrders(c.Request.Context(), filter, page)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrders(orders))
}

// Get /api/v1/orders/me
// Retrieve the calling customer's orders
func (api *OrderAPI) CustomerOrders(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}
	orders, err := api.service.CustomerOrders(c.Request.Context(), ownerID, page)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrders(orders))
}

// Patch /api/v1/orders/:orderId/status
// Transition an order to PROCESSED or CANCELLED
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload mapper.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	target, err := domain.ParseStatus(payload.Status)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	order, err := api.transition(c.Request.Context(), orderID, target)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(nethttp.StatusOK, mapper.FromDomainOrder(order))
}

// transition routes the processed transition through the workflow orchestrator
// when one is configured; cancellations always run inline.
func (api *OrderAPI) transition(ctx context.Context, orderID uuid.UUID, target domain.Status) (*domain.Order, error) {
	if target == domain.StatusProcessed && api.workflows != nil {
		return api.workflows.ProcessOrder(ctx, orderID)
	}
	return api.service.UpdateOrderStatus(ctx, orderID, target)
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(HeaderUserID)
	if raw == "" {
		respondMissingCaller(c)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondInvalidCaller(c, raw)
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondInvalidParam(c, name, c.Param(name))
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(c *gin.Context) (ports.Page, bool) {
	page := ports.Page{}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondInvalidParam(c, "limit", raw)
			return ports.Page{}, false
		}
		page.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			respondInvalidParam(c, "offset", raw)
			return ports.Page{}, false
		}
		page.Offset = offset
	}
	return page, true
}

func parseFilter(c *gin.Context) (domain.Filter, bool) {
	filter := domain.Filter{
		ShippingCountry: c.Query("country"),
		ShippingCity:    c.Query("city"),
	}
	if raw := c.Query("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondInvalidParam(c, "customerId", raw)
			return domain.Filter{}, false
		}
		filter.CustomerID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			respondInvalidParam(c, "status", raw)
			return domain.Filter{}, false
		}
		filter.Status = &status
	}
	if raw := c.Query("minOrderDate"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondInvalidParam(c, "minOrderDate", raw)
			return domain.Filter{}, false
		}
		filter.MinOrderDate = &at
	}
	if raw := c.Query("maxOrderDate"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondInvalidParam(c, "maxOrderDate", raw)
			return domain.Filter{}, false
		}
		filter.MaxOrderDate = &at
	}
	if raw := c.Query("minAmount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil || amount < 0 {
			respondInvalidParam(c, "minAmount", raw)
			return domain.Filter{}, false
		}
		filter.MinAmount = &amount
	}
	if raw := c.Query("maxAmount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil || amount < 0 {
			respondInvalidParam(c, "maxAmount", raw)
			return domain.Filter{}, false
		}
		filter.MaxAmount = &amount
	}
	return filter, true
}
