package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/application"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"
	"github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(
			attribute.String("customer.owner_id", input.OwnerID.String()),
			attribute.Int("order.item_count", len(input.Items)),
		))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("customer.owner_id", input.OwnerID.String()), slog.Int("items", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("customer.owner_id", input.OwnerID.String()))
	}
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", result.ID.String()),
		slog.Float64("order.total", result.TotalAmount))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder",
		trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID.String()))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, page ports.Page) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) SearchOrders(ctx context.Context, filter domain.Filter, page ports.Page) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.SearchOrders",
		trace.WithAttributes(attribute.String("orders.filter", filter.CacheKey())))
	defer span.End()

	result, err := s.inner.SearchOrders(ctx, filter, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) CustomerOrders(ctx context.Context, ownerID uuid.UUID, page ports.Page) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CustomerOrders",
		trace.WithAttributes(attribute.String("customer.owner_id", ownerID.String())))
	defer span.End()

	result, err := s.inner.CustomerOrders(ctx, ownerID, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customer orders", slog.String("customer.owner_id", ownerID.String()))
	}
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, target domain.Status) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(
			attribute.String("order.id", orderID.String()),
			attribute.String("order.target_status", string(target)),
		))
	defer span.End()

	s.logInfo(ctx, "updating order status",
		slog.String("order.id", orderID.String()),
		slog.String("target", string(target)))
	result, err := s.inner.UpdateOrderStatus(ctx, orderID, target)
	if err != nil {
		var conflict *application.StockConflictError
		if errors.As(err, &conflict) {
			s.metrics.recordStockConflict(ctx, conflict.ProductID)
		}
		return nil, s.handleError(ctx, span, err, "failed to update order status",
			slog.String("order.id", orderID.String()), slog.String("target", string(target)))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order status updated",
		slog.String("order.id", result.ID.String()),
		slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	transitions    metric.Int64Counter
	stockConflicts metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of completed status transitions"))
	conflicts, _ := m.Int64Counter("orders.service.stock_conflicts_exhausted", metric.WithDescription("Stock decrements abandoned after exhausting retries"))
	return serviceMetrics{ordersPlaced: placed, transitions: transitions, stockConflicts: conflicts}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordStockConflict(ctx context.Context, productID uuid.UUID) {
	if m.stockConflicts != nil {
		m.stockConflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("product.id", productID.String())))
	}
}

var _ ports.Service = (*Service)(nil)
