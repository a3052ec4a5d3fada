package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/petify-api/internal/domains/orders/domain"
	"github.com/Apurer/petify-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/petify-api/internal/domains/orders/adapters/observability"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
			attribute.String("order.customer_id", input.CustomerID),
			attribute.Int("order.items", len(input.Items)),
			attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("order.customer_id", input.CustomerID))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("order.customer_id", input.CustomerID))
	}
	s.metrics.recordPlaced(ctx, result.PaymentMethod)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID), slog.String("order.total", result.TotalAmount.StringFixed(2)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, input ports.UpdateStatusInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	result, err := s.inner.UpdateOrderStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status, result.PaymentStatus)
	s.logInfo(ctx, "order status updated",
		slog.String("order.id", result.ID),
		slog.String("status", string(result.Status)),
		slog.String("payment_status", string(result.PaymentStatus)))
	return result, nil
}

func (s *Service) RequestRefund(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.RequestRefund", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.RequestRefund(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to request refund", slog.String("order.id", id))
	}
	s.metrics.recordRefund(ctx)
	s.logInfo(ctx, "refund requested", slog.String("order.id", id))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", id))
	return nil
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
	ordersPlaced  metric.Int64Counter
	transitions   metric.Int64Counter
	refunds       metric.Int64Counter
	ordersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	transitions, _ := m.Int64Counter("orders.service.status_updates", metric.WithDescription("Number of order status updates"))
	refunds, _ := m.Int64Counter("orders.service.refunds_requested", metric.WithDescription("Number of refund requests"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{ordersPlaced: ordersPlaced, transitions: transitions, refunds: refunds, ordersDeleted: ordersDeleted}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, method domain.PaymentMethod) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.payment_method", string(method))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status, payment domain.PaymentStatus) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("order.status", string(status)),
			attribute.String("order.payment_status", string(payment))))
	}
}

func (m serviceMetrics) recordRefund(ctx context.Context) {
	if m.refunds != nil {
		m.refunds.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
