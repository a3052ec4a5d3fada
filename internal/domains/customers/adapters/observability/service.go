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

	customerdomain "github.com/Apurer/petify-api/internal/domains/customers/domain"
	customerports "github.com/Apurer/petify-api/internal/domains/customers/ports"
)

const tracerName = "github.com/Apurer/petify-api/internal/domains/customers/adapters/observability"

// Service decorates the customer service with tracing, logging, and metrics.
type Service struct {
	inner   customerports.Service
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

// New wraps the core customer service.
func New(inner customerports.Service, opts ...Option) customerports.Service {
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
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Register(ctx context.Context, input customerports.RegisterInput) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Register")
	defer span.End()
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register customer")
	}
	s.metrics.add(ctx, s.metrics.registered)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "customer registered", slog.String("customer_id", result.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*customerports.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "customer login failed")
	}
	s.metrics.add(ctx, s.metrics.logins)
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Get", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()
	return s.inner.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.List")
	defer span.End()
	list, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customers")
	}
	span.SetAttributes(attribute.Int("customer.count", len(list)))
	return list, nil
}

func (s *Service) Update(ctx context.Context, input customerports.UpdateInput) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Update", trace.WithAttributes(
		attribute.String("customer.id", input.ID),
		attribute.Bool("customer.password_changed", input.Password != nil),
	))
	defer span.End()
	result, err := s.inner.Update(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update customer", slog.String("customer_id", input.ID))
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Delete", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete customer", slog.String("customer_id", id))
	}
	s.metrics.add(ctx, s.metrics.deleted)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "customer deleted", slog.String("customer_id", id))
	return nil
}

func (s *Service) AddToCart(ctx context.Context, input customerports.CartInput) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.AddToCart", trace.WithAttributes(
		attribute.String("customer.id", input.CustomerID),
		attribute.String("product.id", input.ProductID),
		attribute.Int("cart.quantity", input.Quantity),
	))
	defer span.End()
	result, err := s.inner.AddToCart(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add to cart", slog.String("customer_id", input.CustomerID))
	}
	s.metrics.add(ctx, s.metrics.cartChanges, attribute.String("operation", "add"))
	return result, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, customerID, productID string) (*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.RemoveFromCart", trace.WithAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("product.id", productID),
	))
	defer span.End()
	result, err := s.inner.RemoveFromCart(ctx, customerID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove from cart", slog.String("customer_id", customerID))
	}
	s.metrics.add(ctx, s.metrics.cartChanges, attribute.String("operation", "remove"))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	registered  metric.Int64Counter
	deleted     metric.Int64Counter
	logins      metric.Int64Counter
	cartChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("customers.service.registered", metric.WithDescription("Number of customers registered"))
	deleted, _ := m.Int64Counter("customers.service.deleted", metric.WithDescription("Number of customers deleted"))
	logins, _ := m.Int64Counter("customers.service.logins", metric.WithDescription("Number of successful customer logins"))
	cart, _ := m.Int64Counter("customers.service.cart_changes", metric.WithDescription("Number of cart mutations"))
	return serviceMetrics{registered: registered, deleted: deleted, logins: logins, cartChanges: cart}
}

func (serviceMetrics) add(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

var _ customerports.Service = (*Service)(nil)
