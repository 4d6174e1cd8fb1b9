package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	catalogapp "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
	customerports "github.com/Apurer/ecommerce-api-server/internal/domains/customers/ports"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Service orchestrates the order lifecycle use cases: placement, reads, search
// and status transitions. All stock movement goes through the catalog ledger's
// version-checked writes; this service owns the retry and compensation policy
// around them.
type Service struct {
	orders    ports.Repository
	statuses  ports.StatusCatalog
	customers customerports.Directory
	products  catalogports.Repository
	ledger    *catalogapp.Ledger

	cache  ports.CacheInvalidator
	logger *slog.Logger

	transitionRetry RetryPolicy
	stockRetry      RetryPolicy
}

type Option func(*Service)

// WithCacheInvalidator installs the hook evicting memoized reads after mutations.
func WithCacheInvalidator(cache ports.CacheInvalidator) Option {
	return func(s *Service) { s.cache = cache }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetryProfiles overrides the transition-level and stock-level retry
// policies, mainly so tests can run without real backoff sleeps.
func WithRetryProfiles(transition, stock RetryPolicy) Option {
	return func(s *Service) {
		s.transitionRetry = transition
		s.stockRetry = stock
	}
}

// NewService wires the order service with its collaborators.
func NewService(
	orders ports.Repository,
	statuses ports.StatusCatalog,
	customers customerports.Directory,
	products catalogports.Repository,
	ledger *catalogapp.Ledger,
	opts ...Option,
) *Service {
	s := &Service{
		orders:          orders,
		statuses:        statuses,
		customers:       customers,
		products:        products,
		ledger:          ledger,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		transitionRetry: defaultTransitionRetry(),
		stockRetry:      defaultStockRetry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates the requested items against the catalog, snapshots unit
// prices, and creates a pending order with its items as one atomic unit. The
// availability check does not reserve stock; decrement happens at processing.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	customer, err := s.customers.ByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.statuses.Lookup(ctx, domain.StatusPending); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyItems
	}

	orderID := uuid.New()
	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.StockQuantity < line.Quantity {
			return nil, fmt.Errorf("%w: product %s has %d, requested %d",
				catalogdomain.ErrInsufficientStock, product.ID, product.StockQuantity, line.Quantity)
		}
		items = append(items, domain.OrderItem{
			ID:              uuid.New(),
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: product.Price,
		})
	}

	order, err := domain.NewOrder(orderID, customer.ID, input.Shipping, items)
	if err != nil {
		return nil, err
	}
	saved, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ports.CacheGroupOrders, ports.CacheGroupPaginated)
	return saved, nil
}

// GetOrder loads a single order with its items.
func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// ListOrders returns all orders, newest first.
func (s *Service) ListOrders(ctx context.Context, page ports.Page) ([]*domain.Order, error) {
	return s.orders.List(ctx, normalizePage(page))
}

// SearchOrders applies the composed filter. An empty filter is routed to the
// unfiltered listing so no predicate query runs for it.
func (s *Service) SearchOrders(ctx context.Context, filter domain.Filter, page ports.Page) ([]*domain.Order, error) {
	if filter.IsEmpty() {
		return s.ListOrders(ctx, page)
	}
	return s.orders.Find(ctx, filter, normalizePage(page))
}

// CustomerOrders lists the orders of the customer owned by ownerID.
func (s *Service) CustomerOrders(ctx context.Context, ownerID uuid.UUID, page ports.Page) ([]*domain.Order, error) {
	customer, err := s.customers.ByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	filter := domain.Filter{CustomerID: &customer.ID}
	return s.orders.Find(ctx, filter, normalizePage(page))
}

// UpdateOrderStatus applies the requested transition. Processing decrements
// stock for every item through the retry wrapper; cancellation is legal only
// for pending orders. The whole transition is wrapped in the coarse retry
// profile so a version conflict that escapes the per-item path re-reads the
// order and starts over.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, target domain.Status) (*domain.Order, error) {
	switch target {
	case domain.StatusProcessed, domain.StatusCancelled:
	default:
		return nil, fmt.Errorf("%w: target %s", domain.ErrInvalidTransition, target)
	}
	if _, err := s.statuses.Lookup(ctx, target); err != nil {
		return nil, err
	}

	var result *domain.Order
	err := s.transitionRetry.Execute(ctx, isVersionConflict, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		var decremented bool
		switch target {
		case domain.StatusProcessed:
			if order.Status == domain.StatusProcessed {
				// Idempotent re-process: no decrement, no write.
				result = order
				return nil
			}
			if err := s.processOrder(ctx, order); err != nil {
				return err
			}
			decremented = true
		case domain.StatusCancelled:
			if err := order.Cancel(); err != nil {
				return err
			}
		}
		saved, err := s.orders.UpdateStatus(ctx, order)
		if err != nil {
			// The order is still stored in its prior status; undo the
			// decrements so stock and status stay consistent.
			if decremented {
				s.compensate(ctx, order.ID, order.Items)
			}
			return err
		}
		result = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ports.CacheGroupOrders, ports.CacheGroupPaginated, ports.CacheGroupProducts)
	return result, nil
}

// processOrder decrements stock for every line item in order, compensating any
// applied decrements when a later item fails so no partial decrement survives.
// Transition legality is checked before the first ledger call: an order in a
// terminal state must never touch stock.
func (s *Service) processOrder(ctx context.Context, order *domain.Order) error {
	if err := order.Process(); err != nil {
		return err
	}
	applied := make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if err := s.decrementWithRetry(ctx, order.ID, item); err != nil {
			s.compensate(ctx, order.ID, applied)
			return err
		}
		applied = append(applied, item)
	}
	return nil
}

func (s *Service) decrementWithRetry(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) error {
	err := s.stockRetry.Execute(ctx, isVersionConflict, func(ctx context.Context) error {
		_, err := s.ledger.Decrement(ctx, item.ProductID, item.Quantity)
		return err
	})
	if isVersionConflict(err) {
		return &StockConflictError{OrderID: orderID, ProductID: item.ProductID, Attempts: s.stockRetry.MaximumAttempts}
	}
	return err
}

// compensate re-increments already-decremented items before the failure is
// surfaced. A compensation that itself exhausts its retry budget is logged
// loudly; stock can then only be over-reserved, never silently lost.
func (s *Service) compensate(ctx context.Context, orderID uuid.UUID, applied []domain.OrderItem) {
	for _, item := range applied {
		err := s.stockRetry.Execute(ctx, isVersionConflict, func(ctx context.Context) error {
			_, err := s.ledger.Restock(ctx, item.ProductID, item.Quantity)
			return err
		})
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "stock compensation failed",
				slog.String("order.id", orderID.String()),
				slog.String("product.id", item.ProductID.String()),
				slog.Int("quantity", item.Quantity),
				slog.String("error", err.Error()))
		}
	}
}

func (s *Service) invalidate(ctx context.Context, groups ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, groups...)
	}
}

func normalizePage(page ports.Page) ports.Page {
	if page.Limit <= 0 {
		page.Limit = defaultPageLimit
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page
}

var _ ports.Service = (*Service)(nil)
