package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/google/uuid"

	ordersdomain "github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/durable/temporal/sequences"
)

const (
	// OrderProcessingWorkflowName is the public identifier for registering the workflow.
	OrderProcessingWorkflowName = "orders.workflows.Processing"
	// OrderProcessingTaskQueue is the queue consumed by the worker processing order workflows.
	OrderProcessingTaskQueue = "ORDER_PROCESSING"
)

// OrderProcessingWorkflowInput captures the payload for a processed transition.
type OrderProcessingWorkflowInput struct {
	OrderID uuid.UUID
	TraceID string
}

// OrderProcessingWorkflow orchestrates the stock decrement and status update
// that move an order to PROCESSED.
func OrderProcessingWorkflow(ctx workflow.Context, input OrderProcessingWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderProcessingWorkflow started", withTraceID(input.TraceID, "orderId", input.OrderID)...)
	order, err := sequences.RunOrderProcessingSequence(ctx, input.OrderID)
	if err != nil {
		logger.Error("OrderProcessingWorkflow failed", withTraceID(input.TraceID, "orderId", input.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderProcessingWorkflow completed", withTraceID(input.TraceID, "orderId", input.OrderID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
