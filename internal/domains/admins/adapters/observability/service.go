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

	admindomain "github.com/Apurer/petify-api/internal/domains/admins/domain"
	adminports "github.com/Apurer/petify-api/internal/domains/admins/ports"
)

const tracerName = "github.com/Apurer/petify-api/internal/domains/admins/adapters/observability"

// Service decorates the admin service with tracing, logging, and metrics.
type Service struct {
	inner   adminports.Service
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

// New wraps the core admin service.
func New(inner adminports.Service, opts ...Option) adminports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, input adminports.RegisterInput) (*admindomain.Admin, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.Register", trace.WithAttributes(attribute.String("admin.role", input.Role)))
	defer span.End()
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register admin")
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "admin registered", slog.String("admin_id", result.ID), slog.String("role", string(result.Role)))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*adminports.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "admin login failed")
	}
	s.metrics.recordLogin(ctx)
	return result, nil
}

func (s *Service) Logout(ctx context.Context, id string) {
	ctx, span := s.tracer.Start(ctx, "AdminService.Logout", trace.WithAttributes(attribute.String("admin.id", id)))
	defer span.End()
	s.inner.Logout(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*admindomain.Admin, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.Get", trace.WithAttributes(attribute.String("admin.id", id)))
	defer span.End()
	return s.inner.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*admindomain.Admin, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.List")
	defer span.End()
	return s.inner.List(ctx)
}

func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	ctx, span := s.tracer.Start(ctx, "AdminService.ChangePassword", trace.WithAttributes(attribute.String("admin.id", id)))
	defer span.End()
	if err := s.inner.ChangePassword(ctx, id, oldPassword, newPassword); err != nil {
		return s.handleError(ctx, span, err, "failed to change admin password", slog.String("admin_id", id))
	}
	s.logInfo(ctx, "admin password changed", slog.String("admin_id", id))
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "AdminService.Delete", trace.WithAttributes(attribute.String("admin.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete admin", slog.String("admin_id", id))
	}
	s.metrics.recordDeleted(ctx)
	return nil
}

func (s *Service) EnsureBootstrapAdmin(ctx context.Context, input adminports.RegisterInput) (*admindomain.Admin, bool, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.EnsureBootstrapAdmin")
	defer span.End()
	admin, created, err := s.inner.EnsureBootstrapAdmin(ctx, input)
	if err != nil {
		return nil, false, s.handleError(ctx, span, err, "failed to bootstrap superadmin")
	}
	span.SetAttributes(attribute.Bool("admin.bootstrap.created", created))
	if created {
		s.metrics.recordRegistered(ctx)
		s.logInfo(ctx, "bootstrap superadmin created", slog.String("admin_id", admin.ID))
	}
	return admin, created, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	adminsRegistered metric.Int64Counter
	adminsDeleted    metric.Int64Counter
	logins           metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("admins.service.registered", metric.WithDescription("Number of admins registered"))
	deleted, _ := m.Int64Counter("admins.service.deleted", metric.WithDescription("Number of admins deleted"))
	logins, _ := m.Int64Counter("admins.service.logins", metric.WithDescription("Number of successful admin logins"))
	return serviceMetrics{adminsRegistered: registered, adminsDeleted: deleted, logins: logins}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.adminsRegistered != nil {
		m.adminsRegistered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.adminsDeleted != nil {
		m.adminsDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ adminports.Service = (*Service)(nil)
