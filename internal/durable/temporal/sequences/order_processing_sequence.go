package sequences

import (
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/ecommerce-api-server/internal/durable/temporal/activities/orders"
)

// RunOrderProcessingSequence executes the activity that transitions an order
// to PROCESSED. The service already retries stock version conflicts per
// attempt; this outer policy only covers transport and infrastructure
// failures, and never re-runs a terminal stock contention outcome.
func RunOrderProcessingSequence(ctx workflow.Context, orderID uuid.UUID) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order processing sequence started", "orderId", orderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrTypeStockConflict,
				orderactivities.ErrTypeInvalidTransition,
				orderactivities.ErrTypeNotFound,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.ProcessOrderActivityName, orderID).Get(ctx, &order)
	if err != nil {
		logger.Error("order processing sequence failed", "orderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("order processing sequence completed", "orderId", orderID, "status", order.Status)
	return &order, nil
}
