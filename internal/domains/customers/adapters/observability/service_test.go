package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Apurer/petify-api/internal/domains/customers/adapters/memory"
	"github.com/Apurer/petify-api/internal/domains/customers/application"
	"github.com/Apurer/petify-api/internal/domains/customers/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

func TestService_CountsCartChanges(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	issuer, err := auth.NewIssuer(auth.Config{Secret: "obs-secret"})
	require.NoError(t, err)
	svc := New(application.NewService(memory.NewRepository(), issuer), WithMeter(provider.Meter("test")))

	ctx := context.Background()
	created, err := svc.Register(ctx, ports.RegisterInput{Name: "Zara", Email: "zara@example.com", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, ports.CartInput{CustomerID: created.ID, ProductID: "p-1", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.RemoveFromCart(ctx, created.ID, "p-1")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	values := map[string]int64{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		sum, ok := m.Data.(metricdata.Sum[int64])
		if !ok {
			continue
		}
		for _, dp := range sum.DataPoints {
			values[m.Name] += dp.Value
		}
	}
	require.Equal(t, int64(1), values["customers.service.registered"])
	require.Equal(t, int64(2), values["customers.service.cart_changes"])
}
