package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

const (
	// ProcessOrderActivityName runs the PROCESSED transition use case.
	ProcessOrderActivityName = "orders.activities.ProcessOrder"
)

// Application error types used by workflow retry policies to recognize
// outcomes that re-running the activity cannot change.
const (
	ErrTypeStockConflict     = "StockConflict"
	ErrTypeInvalidTransition = "InvalidTransition"
	ErrTypeNotFound          = "NotFound"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// ProcessOrder transitions the order to PROCESSED, decrementing stock for its
// items. Terminal outcomes are marked non-retryable so the workflow does not
// re-run a transition that can never succeed.
func (a *Activities) ProcessOrder(ctx context.Context, orderID uuid.UUID) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order processing activity not initialized", "orderId", orderID)
		return nil, errors.New("order processing activity not initialized")
	}
	logger.Info("ProcessOrder activity started", "orderId", orderID)
	order, err := a.service.UpdateOrderStatus(ctx, orderID, ordersdomain.StatusProcessed)
	if err != nil {
		logger.Error("ProcessOrder activity failed", "orderId", orderID, "error", err)
		return nil, classifyProcessingError(err)
	}
	logger.Info("ProcessOrder activity completed", "orderId", orderID, "status", order.Status)
	return order, nil
}

func classifyProcessingError(err error) error {
	var conflict *application.StockConflictError
	switch {
	case errors.As(err, &conflict):
		return temporal.NewApplicationError(err.Error(), ErrTypeStockConflict)
	case errors.Is(err, ordersdomain.ErrInvalidTransition), errors.Is(err, ordersdomain.ErrInvalidCancellation):
		return temporal.NewApplicationError(err.Error(), ErrTypeInvalidTransition)
	case errors.Is(err, ordersports.ErrNotFound):
		return temporal.NewApplicationError(err.Error(), ErrTypeNotFound)
	}
	return err
}
