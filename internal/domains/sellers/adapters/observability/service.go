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

	"github.com/Apurer/petify-api/internal/domains/sellers/application/types"
	"github.com/Apurer/petify-api/internal/domains/sellers/ports"
)

const tracerName = "github.com/Apurer/petify-api/internal/domains/sellers/adapters/observability"

var _ ports.Service = (*Service)(nil)

// Service decorates the seller service with tracing, logging, and metrics.
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

// New wraps the seller service.
func New(inner ports.Service, opts ...Option) *Service {
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

func (s *Service) RegisterSeller(ctx context.Context, input types.RegisterSellerInput) (*types.SellerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.RegisterSeller")
	defer span.End()
	result, err := s.inner.RegisterSeller(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register seller")
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "seller registered", slog.String("seller_id", result.Entity.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*types.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "seller login failed")
	}
	s.metrics.recordLogin(ctx)
	return result, nil
}

func (s *Service) GetSeller(ctx context.Context, id string) (*types.SellerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.GetSeller", trace.WithAttributes(attribute.String("seller.id", id)))
	defer span.End()
	return s.inner.GetSeller(ctx, id)
}

func (s *Service) ListSellers(ctx context.Context, query types.SellerQuery) ([]*types.SellerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.ListSellers", trace.WithAttributes(attribute.String("seller.status", query.Status)))
	defer span.End()
	result, err := s.inner.ListSellers(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list sellers")
	}
	span.SetAttributes(attribute.Int("seller.result.count", len(result)))
	return result, nil
}

func (s *Service) UpdateSeller(ctx context.Context, input types.UpdateSellerInput) (*types.SellerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.UpdateSeller", trace.WithAttributes(attribute.String("seller.id", input.ID)))
	defer span.End()
	result, err := s.inner.UpdateSeller(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update seller", slog.String("seller_id", input.ID))
	}
	return result, nil
}

func (s *Service) DeleteSeller(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "SellerService.DeleteSeller", trace.WithAttributes(attribute.String("seller.id", id)))
	defer span.End()
	if err := s.inner.DeleteSeller(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete seller", slog.String("seller_id", id))
	}
	s.logInfo(ctx, "seller deleted", slog.String("seller_id", id))
	return nil
}

func (s *Service) VerifySeller(ctx context.Context, input types.VerifySellerInput) (*types.SellerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.VerifySeller", trace.WithAttributes(
		attribute.String("seller.id", input.SellerID),
		attribute.String("seller.decision", input.Decision),
	))
	defer span.End()
	result, err := s.inner.VerifySeller(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to verify seller", slog.String("seller_id", input.SellerID))
	}
	s.metrics.recordDecision(ctx, "seller", input.Decision)
	s.logInfo(ctx, "seller verified", slog.String("seller_id", input.SellerID), slog.String("status", string(result.Entity.Verification)))
	return result, nil
}

func (s *Service) RegisterPet(ctx context.Context, input types.RegisterPetInput) (*types.SellerProjection, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.RegisterPet", trace.WithAttributes(attribute.String("seller.id", input.SellerID)))
	defer span.End()
	result, err := s.inner.RegisterPet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register pet", slog.String("seller_id", input.SellerID))
	}
	s.metrics.recordPetRegistered(ctx)
	return result, nil
}

func (s *Service) VerifyPet(ctx context.Context, input types.VerifyPetInput) (*types.SellerProjection, error) {
	ctx, span := s.startPetSpan(ctx, "SellerService.VerifyPet", input.PetRef)
	defer span.End()
	result, err := s.inner.VerifyPet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to verify pet", slog.String("seller_id", input.SellerID), slog.Int("pet_index", input.Index))
	}
	s.metrics.recordDecision(ctx, "pet", input.Decision)
	return result, nil
}

func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.SellerProjection, error) {
	ctx, span := s.startPetSpan(ctx, "SellerService.UpdatePet", input.PetRef)
	defer span.End()
	result, err := s.inner.UpdatePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pet", slog.String("seller_id", input.SellerID), slog.Int("pet_index", input.Index))
	}
	return result, nil
}

func (s *Service) DeletePet(ctx context.Context, ref types.PetRef) (*types.SellerProjection, error) {
	ctx, span := s.startPetSpan(ctx, "SellerService.DeletePet", ref)
	defer span.End()
	result, err := s.inner.DeletePet(ctx, ref)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete pet", slog.String("seller_id", ref.SellerID), slog.Int("pet_index", ref.Index))
	}
	return result, nil
}

func (s *Service) VerifyPetByID(ctx context.Context, input types.VerifyPetInput) (*types.SellerProjection, error) {
	ctx, span := s.startPetSpan(ctx, "SellerService.VerifyPetByID", input.PetRef)
	defer span.End()
	result, err := s.inner.VerifyPetByID(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to verify pet", slog.String("seller_id", input.SellerID), slog.String("pet_id", input.PetID))
	}
	s.metrics.recordDecision(ctx, "pet", input.Decision)
	return result, nil
}

func (s *Service) UpdatePetByID(ctx context.Context, input types.UpdatePetInput) (*types.SellerProjection, error) {
	ctx, span := s.startPetSpan(ctx, "SellerService.UpdatePetByID", input.PetRef)
	defer span.End()
	result, err := s.inner.UpdatePetByID(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pet", slog.String("seller_id", input.SellerID), slog.String("pet_id", input.PetID))
	}
	return result, nil
}

func (s *Service) DeletePetByID(ctx context.Context, ref types.PetRef) (*types.SellerProjection, error) {
	ctx, span := s.startPetSpan(ctx, "SellerService.DeletePetByID", ref)
	defer span.End()
	result, err := s.inner.DeletePetByID(ctx, ref)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete pet", slog.String("seller_id", ref.SellerID), slog.String("pet_id", ref.PetID))
	}
	return result, nil
}

func (s *Service) ListApprovedPets(ctx context.Context) ([]types.ApprovedPet, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.ListApprovedPets")
	defer span.End()
	result, err := s.inner.ListApprovedPets(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list approved pets")
	}
	span.SetAttributes(attribute.Int("pet.result.count", len(result)))
	return result, nil
}

func (s *Service) startPetSpan(ctx context.Context, name string, ref types.PetRef) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("seller.id", ref.SellerID),
		attribute.Int("pet.index", ref.Index),
		attribute.String("pet.id", ref.PetID),
	))
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
	registered     metric.Int64Counter
	logins         metric.Int64Counter
	petsRegistered metric.Int64Counter
	decisions      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("sellers.service.registered", metric.WithDescription("Number of sellers registered"))
	logins, _ := m.Int64Counter("sellers.service.logins", metric.WithDescription("Number of successful seller logins"))
	pets, _ := m.Int64Counter("sellers.service.pets_registered", metric.WithDescription("Number of pets registered"))
	decisions, _ := m.Int64Counter("sellers.service.decisions", metric.WithDescription("Number of admin verification decisions"))
	return serviceMetrics{registered: registered, logins: logins, petsRegistered: pets, decisions: decisions}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordPetRegistered(ctx context.Context) {
	if m.petsRegistered != nil {
		m.petsRegistered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDecision(ctx context.Context, subject, decision string) {
	if m.decisions != nil {
		m.decisions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("subject", subject),
			attribute.String("decision", decision),
		))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
