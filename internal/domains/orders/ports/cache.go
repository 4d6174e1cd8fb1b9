package ports

import "context"

// Cache group names evicted by mutating operations.
const (
	CacheGroupOrders    = "orders"
	CacheGroupPaginated = "paginated"
	CacheGroupProducts  = "products"
)

// CacheInvalidator is the fire-and-forget invalidation hook called after a
// successful mutation. Correctness never depends on it; it only accelerates
// reads.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, groups ...string)
}
