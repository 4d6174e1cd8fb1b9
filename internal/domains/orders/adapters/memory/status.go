package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

var _ ports.StatusCatalog = (*StatusCatalog)(nil)

// StatusCatalog is an in-memory status catalog pre-seeded with the three
// lifecycle statuses.
type StatusCatalog struct {
	mu       sync.RWMutex
	statuses map[domain.Status]ports.StatusRecord
}

func NewStatusCatalog() *StatusCatalog {
	catalog := &StatusCatalog{statuses: map[domain.Status]ports.StatusRecord{}}
	for status, description := range map[domain.Status]string{
		domain.StatusPending:   "Order received, awaiting processing",
		domain.StatusProcessed: "Order processed, stock deducted",
		domain.StatusCancelled: "Order cancelled before processing",
	} {
		catalog.statuses[status] = ports.StatusRecord{ID: uuid.New(), Name: status, Description: description}
	}
	return catalog
}

// Remove drops a status record; used to simulate a misconfigured deployment.
func (c *StatusCatalog) Remove(status domain.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statuses, status)
}

func (c *StatusCatalog) Lookup(_ context.Context, status domain.Status) (ports.StatusRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.statuses[status]
	if !ok {
		return ports.StatusRecord{}, fmt.Errorf("%w: %s", ports.ErrStatusNotConfigured, status)
	}
	return record, nil
}
