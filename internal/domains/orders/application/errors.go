package application

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	catalogports "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
)

// StockConflictError is the terminal outcome of a decrement whose retry budget
// was exhausted by version conflicts. It deliberately does not unwrap to
// catalogports.ErrVersionConflict so that no retry layer picks it back up.
type StockConflictError struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Attempts  int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock conflict not resolved after %d attempts: product %s, order %s",
		e.Attempts, e.ProductID, e.OrderID)
}

// isVersionConflict classifies the retryable concurrency failure. It must never
// match the terminal StockConflictError.
func isVersionConflict(err error) bool {
	return errors.Is(err, catalogports.ErrVersionConflict)
}
