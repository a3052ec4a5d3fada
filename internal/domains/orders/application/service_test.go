package application

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petify-api/internal/domains/orders/domain"
	"github.com/Apurer/petify-api/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.orders[order.ID] = order.Clone()
	return order.Clone(), nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o.Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) List(_ context.Context, filter ports.Filter) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, o := range f.orders {
		if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
			continue
		}
		list = append(list, o.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func sequentialIDs() func() string {
	ids := []string{"o-1", "o-2", "o-3"}
	return func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
}

func kibble(qty int) []domain.Item {
	return []domain.Item{{
		ProductID: "p-1",
		Quantity:  qty,
		Price:     decimal.RequireFromString("12.50"),
		Snapshot:  domain.Snapshot{Name: "Kibble"},
	}}
}

func TestPlaceOrder_ValidatesAndPersists(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, WithIDGenerator(sequentialIDs()))

	saved, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{CustomerID: "c-1", Items: kibble(2)})
	require.NoError(t, err)
	require.Equal(t, "o-1", saved.ID)
	require.True(t, decimal.NewFromInt(25).Equal(saved.TotalAmount))
	require.Contains(t, repo.orders, "o-1")
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	_, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{CustomerID: "c-1", Items: kibble(0)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeOrderRepo(), WithIDGenerator(sequentialIDs()))
	_, err := svc.PlaceOrder(ctx, ports.PlaceOrderInput{CustomerID: "c-1", Items: kibble(1)})
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(ctx, ports.UpdateStatusInput{OrderID: "o-1", PaymentStatus: domain.PaymentPaid})
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	require.Equal(t, domain.StatusPending, updated.Status)

	_, err = svc.UpdateOrderStatus(ctx, ports.UpdateStatusInput{OrderID: "o-1", Status: "lost"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateOrderStatus(ctx, ports.UpdateStatusInput{OrderID: "missing", Status: domain.StatusShipped})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRequestRefund_RequiresPayment(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeOrderRepo(), WithIDGenerator(sequentialIDs()))
	_, err := svc.PlaceOrder(ctx, ports.PlaceOrderInput{CustomerID: "c-1", Items: kibble(1)})
	require.NoError(t, err)

	_, err = svc.RequestRefund(ctx, "o-1")
	require.ErrorIs(t, err, domain.ErrRefundNotAllowed)

	_, err = svc.UpdateOrderStatus(ctx, ports.UpdateStatusInput{OrderID: "o-1", PaymentStatus: domain.PaymentPaid})
	require.NoError(t, err)
	refunded, err := svc.RequestRefund(ctx, "o-1")
	require.NoError(t, err)
	require.True(t, refunded.RefundRequested)
}

func TestListAndDeleteOrders(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeOrderRepo(), WithIDGenerator(sequentialIDs()))
	for _, customer := range []string{"c-1", "c-2", "c-1"} {
		_, err := svc.PlaceOrder(ctx, ports.PlaceOrderInput{CustomerID: customer, Items: kibble(1)})
		require.NoError(t, err)
	}

	mine, err := svc.ListOrders(ctx, ports.Filter{CustomerID: "c-1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	require.NoError(t, svc.DeleteOrder(ctx, "o-2"))
	require.ErrorIs(t, svc.DeleteOrder(ctx, "o-2"), ports.ErrNotFound)

	all, err := svc.ListOrders(ctx, ports.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

type fakeKeyStore struct {
	records map[string]ports.IdempotencyRecord
	// raced is returned by Save to simulate a concurrent request claiming the key first.
	raced *ports.IdempotencyRecord
}

func (f *fakeKeyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	if rec, ok := f.records[key]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeKeyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if f.raced != nil {
		return f.raced, ports.ErrIdempotencyConflict
	}
	f.records[record.Key] = record
	return &record, nil
}

func TestPlaceOrder_IdempotencyKeyReplaysFirstOrder(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	keys := &fakeKeyStore{records: map[string]ports.IdempotencyRecord{}}
	svc := NewService(repo, WithIDGenerator(sequentialIDs()), WithIdempotencyStore(keys))

	input := ports.PlaceOrderInput{CustomerID: "c-1", Items: kibble(2), IdempotencyKey: "checkout-42"}
	first, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, repo.orders, 1)

	input.Items = kibble(3)
	_, err = svc.PlaceOrder(ctx, input)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	input.IdempotencyKey = ""
	third, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	require.Equal(t, "o-2", third.ID)
}

func TestPlaceOrder_IdempotencyRaceKeepsWinner(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	input := ports.PlaceOrderInput{CustomerID: "c-1", Items: kibble(1), IdempotencyKey: "k"}
	hash, err := FingerprintPlaceOrder(input)
	require.NoError(t, err)

	winner, err := NewService(repo, WithIDGenerator(func() string { return "winner" })).PlaceOrder(ctx, ports.PlaceOrderInput{CustomerID: "c-1", Items: kibble(1)})
	require.NoError(t, err)
	keys := &fakeKeyStore{
		records: map[string]ports.IdempotencyRecord{},
		raced:   &ports.IdempotencyRecord{Key: "k", RequestHash: hash, OrderID: winner.ID},
	}
	svc := NewService(repo, WithIDGenerator(sequentialIDs()), WithIdempotencyStore(keys))

	got, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	require.Equal(t, "winner", got.ID)
	require.NotContains(t, repo.orders, "o-1")
}

func TestFingerprintPlaceOrder_IgnoresItemOrderAndKey(t *testing.T) {
	items := append(kibble(1), domain.Item{ProductID: "p-0", Quantity: 1, Price: decimal.NewFromInt(3)})
	reversed := []domain.Item{items[1], items[0]}

	a, err := FingerprintPlaceOrder(ports.PlaceOrderInput{CustomerID: "c-1", Items: items, IdempotencyKey: "a"})
	require.NoError(t, err)
	b, err := FingerprintPlaceOrder(ports.PlaceOrderInput{CustomerID: " c-1 ", Items: reversed, IdempotencyKey: "b"})
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := FingerprintPlaceOrder(ports.PlaceOrderInput{CustomerID: "c-2", Items: items})
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

type fixedCatalog map[string]ports.Quote

func (c fixedCatalog) Quote(_ context.Context, productID string) (ports.Quote, error) {
	quote, ok := c[productID]
	if !ok {
		return ports.Quote{}, ports.ErrProductUnavailable
	}
	return quote, nil
}

func TestPlaceOrder_PricesFromCatalog(t *testing.T) {
	catalog := fixedCatalog{"p-1": {Price: decimal.RequireFromString("11.25"), Snapshot: domain.Snapshot{Name: "Kibble 2kg"}}}
	svc := NewService(newFakeOrderRepo(), WithIDGenerator(sequentialIDs()), WithCatalog(catalog))
	ctx := context.Background()

	items := kibble(2)
	items[0].Price = decimal.RequireFromString("0.01")
	saved, err := svc.PlaceOrder(ctx, ports.PlaceOrderInput{CustomerID: "c-1", Items: items})
	require.NoError(t, err)
	require.Equal(t, "22.5", saved.TotalAmount.String())
	require.Equal(t, "Kibble 2kg", saved.Items[0].Snapshot.Name)

	unknown := []domain.Item{{ProductID: "p-404", Quantity: 1}}
	_, err = svc.PlaceOrder(ctx, ports.PlaceOrderInput{CustomerID: "c-1", Items: unknown})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrProductUnavailable)
}
