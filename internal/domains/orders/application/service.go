package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/orders/domain"
	"github.com/Apurer/petify-api/internal/domains/orders/ports"
)

// Service orchestrates order use cases.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
	catalog     ports.Catalog
	newID       func() string
}

// Option customizes the service.
type Option func(*Service)

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithIdempotencyStore enables Idempotency-Key replays for PlaceOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithCatalog prices every line from catalog, ignoring client-supplied prices.
func WithCatalog(catalog ports.Catalog) Option {
	return func(s *Service) {
		s.catalog = catalog
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.placeOrder(ctx, input)
	}
	hash, err := FingerprintPlaceOrder(input)
	if err != nil {
		return nil, fmt.Errorf("fingerprint order: %w", err)
	}
	existing, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.replay(ctx, existing, hash)
	}

	order, err := s.placeOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: hash, OrderID: order.ID})
	if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil {
		// A concurrent retry won the key; drop the duplicate and replay the winner.
		_ = s.repo.Delete(ctx, order.ID)
		return s.replay(ctx, stored, hash)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) placeOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	items, err := s.price(ctx, input.Items)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := domain.NewOrder(s.newID(), input.CustomerID, items, input.PaymentMethod)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

func (s *Service) price(ctx context.Context, items []domain.Item) ([]domain.Item, error) {
	if s.catalog == nil {
		return items, nil
	}
	priced := make([]domain.Item, len(items))
	for i, item := range items {
		item.ProductID = strings.TrimSpace(item.ProductID)
		if item.ProductID == "" {
			return nil, domain.ErrMissingProduct
		}
		quote, err := s.catalog.Quote(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		item.Price = quote.Price
		item.Snapshot = quote.Snapshot
		priced[i] = item
	}
	return priced, nil
}

func (s *Service) replay(ctx context.Context, record *ports.IdempotencyRecord, hash string) (*domain.Order, error) {
	if record.RequestHash != hash {
		return nil, ports.ErrIdempotencyConflict
	}
	return s.repo.GetByID(ctx, record.OrderID)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListOrders(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	filter.CustomerID = strings.TrimSpace(filter.CustomerID)
	return s.repo.List(ctx, filter)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, input ports.UpdateStatusInput) (*domain.Order, error) {
	return s.mutate(ctx, input.OrderID, func(o *domain.Order) error {
		return o.UpdateStatus(input.Status, input.PaymentStatus)
	})
}

func (s *Service) RequestRefund(ctx context.Context, id string) (*domain.Order, error) {
	return s.mutate(ctx, id, (*domain.Order).RequestRefund)
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	order := current.Clone()
	if err := fn(order); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

var _ ports.Service = (*Service)(nil)
