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
)

const tracerName = "github.com/Apurer/petify-api/internal/domains/catalog/adapters/observability"

// instrumentation holds what both catalog decorators share.
type instrumentation struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics catalogMetrics
}

// Option configures a decorator.
type Option func(*instrumentation)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *instrumentation) {
		i.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(i *instrumentation) {
		i.tracer = tr
	}
}

// WithMeter injects the meter used to create catalog metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(i *instrumentation) {
		i.metrics = newCatalogMetrics(m)
	}
}

func newInstrumentation(opts []Option) instrumentation {
	i := instrumentation{
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newCatalogMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&i)
		}
	}
	if i.tracer == nil {
		i.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if i.logger == nil {
		i.logger = defaultLogger()
	}
	return i
}

func (i *instrumentation) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (i *instrumentation) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	i.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (i *instrumentation) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	i.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type catalogMetrics struct {
	categoriesChanged  metric.Int64Counter
	subcategoriesMoved metric.Int64Counter
	movesIncomplete    metric.Int64Counter
	movesReconciled    metric.Int64Counter
	productsChanged    metric.Int64Counter
	productsRejected   metric.Int64Counter
}

func newCatalogMetrics(m metric.Meter) catalogMetrics {
	if m == nil {
		return catalogMetrics{}
	}
	categoriesChanged, _ := m.Int64Counter("catalog.categories.changed", metric.WithDescription("Category writes by operation"))
	subcategoriesMoved, _ := m.Int64Counter("catalog.subcategories.moved", metric.WithDescription("Subcategories moved between categories"))
	movesIncomplete, _ := m.Int64Counter("catalog.moves.incomplete", metric.WithDescription("Subcategory moves left partially applied"))
	movesReconciled, _ := m.Int64Counter("catalog.moves.reconciled", metric.WithDescription("Incomplete moves repaired by outcome"))
	productsChanged, _ := m.Int64Counter("catalog.products.changed", metric.WithDescription("Product writes by operation"))
	productsRejected, _ := m.Int64Counter("catalog.products.rejected", metric.WithDescription("Product writes rejected by category validation"))
	return catalogMetrics{
		categoriesChanged:  categoriesChanged,
		subcategoriesMoved: subcategoriesMoved,
		movesIncomplete:    movesIncomplete,
		movesReconciled:    movesReconciled,
		productsChanged:    productsChanged,
		productsRejected:   productsRejected,
	}
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil || value == 0 {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
