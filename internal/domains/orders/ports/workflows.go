package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the processing transition, either inline or on a
// durable workflow engine.
type WorkflowOrchestrator interface {
	ProcessOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
}
