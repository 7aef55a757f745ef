package test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/quickmart/internal/domain/errors"
	"github.com/polkiloo/quickmart/internal/domain/model"
	"github.com/polkiloo/quickmart/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	stored := *user
	stored.ID = s.Next
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.Next++
	s.Users[stored.Email] = &stored
	s.ByID[stored.ID] = &stored
	return &stored, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns users ordered by identifier.
func (s *UserRepositoryStub) List(ctx context.Context) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	users := make([]model.User, 0, len(s.ByID))
	for _, u := range s.ByID {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// ProductRepositoryStub keeps catalogue entries in memory.
type ProductRepositoryStub struct {
	Products []model.Product
	Err      error
}

// Create stores product assigning the next identifier.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	stored := *product
	stored.ID = 0
	for _, p := range s.Products {
		if p.ID >= stored.ID {
			stored.ID = p.ID
		}
	}
	stored.ID++
	s.Products = append(s.Products, stored)
	return &stored, nil
}

// GetByIDs returns known products with provided identifiers.
func (s *ProductRepositoryStub) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, id := range ids {
		for _, p := range s.Products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// List returns products optionally filtered by supplier.
func (s *ProductRepositoryStub) List(ctx context.Context, supplierID *int64) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, p := range s.Products {
		if supplierID == nil || p.SupplierID == *supplierID {
			out = append(out, p)
		}
	}
	return out, nil
}

// OrderStore is an in-memory order repository that serialises mutations the
// way the database row lock does and records emitted status events.
type OrderStore struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*model.Order
	events    []model.StatusEvent
	nextEvent int64

	// Err, when set, is returned by every call.
	Err error
	// ListCalls records filters passed to List.
	ListCalls []model.OrderFilter
}

// NewOrderStore constructs empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[uuid.UUID]*model.Order)}
}

// Create stores a copy of order assigning an ID when missing.
func (s *OrderStore) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.orders == nil {
		s.orders = make(map[uuid.UUID]*model.Order)
	}

	stored := CloneOrder(order)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	s.orders[stored.ID] = stored
	s.recordEvents(stored, 0)
	return CloneOrder(stored), nil
}

// GetByID returns a copy of stored order.
func (s *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	order, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return CloneOrder(order), nil
}

// List filters orders newest first.
func (s *OrderStore) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls = append(s.ListCalls, filter)
	if s.Err != nil {
		return nil, s.Err
	}

	var out []model.Order
	for _, o := range s.orders {
		if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.SupplierID != nil && !o.HasSupplier(*filter.SupplierID) {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.From != nil && o.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !o.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, *CloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CountByCustomer counts orders placed by customer.
func (s *OrderStore) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

// Mutate applies fn to a copy of the order while holding the store lock and
// commits it only when fn succeeds.
func (s *OrderStore) Mutate(ctx context.Context, id uuid.UUID, fn repository.OrderMutation) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	current, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}

	working := CloneOrder(current)
	if err := fn(working); err != nil {
		return nil, err
	}

	s.orders[id] = working
	s.recordEvents(working, len(current.StatusHistory))
	return CloneOrder(working), nil
}

// Events returns status events emitted so far.
func (s *OrderStore) Events() []model.StatusEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StatusEvent(nil), s.events...)
}

func (s *OrderStore) recordEvents(order *model.Order, from int) {
	for _, entry := range order.StatusHistory[from:] {
		s.nextEvent++
		s.events = append(s.events, model.StatusEvent{
			ID:          s.nextEvent,
			EventID:     uuid.New(),
			OrderID:     order.ID,
			OrderNumber: order.Number,
			CustomerID:  order.CustomerID,
			Status:      entry.Status,
			Note:        entry.Note,
			OccurredAt:  entry.Timestamp,
		})
	}
}

// CloneOrder deep copies order so callers cannot alias stored state.
func CloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Items = append([]model.OrderItem(nil), o.Items...)
	c.StatusHistory = append([]model.StatusEntry(nil), o.StatusHistory...)
	if o.ActualDelivery != nil {
		t := *o.ActualDelivery
		c.ActualDelivery = &t
	}
	if o.Review != nil {
		r := *o.Review
		c.Review = &r
	}
	return &c
}

// EventRepositoryStub hands out queued events and records publications.
type EventRepositoryStub struct {
	mu        sync.Mutex
	Batches   [][]model.StatusEvent
	ClaimFn   func(context.Context, int, time.Duration) ([]model.StatusEvent, error)
	MarkFn    func(context.Context, int64) error
	Published []int64
	calls     int
}

// ClaimBatch returns the next configured batch.
func (s *EventRepositoryStub) ClaimBatch(ctx context.Context, limit int, lease time.Duration) ([]model.StatusEvent, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit, lease)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls < len(s.Batches) {
		batch := s.Batches[s.calls]
		s.calls++
		return batch, nil
	}
	return nil, nil
}

// MarkPublished records event identifiers.
func (s *EventRepositoryStub) MarkPublished(ctx context.Context, id int64) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, id)
	return nil
}

// PublishedIDs returns a snapshot of published identifiers.
func (s *EventRepositoryStub) PublishedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Published...)
}

var (
	_ repository.UserRepository    = (*UserRepositoryStub)(nil)
	_ repository.ProductRepository = (*ProductRepositoryStub)(nil)
	_ repository.OrderRepository   = (*OrderStore)(nil)
	_ repository.EventRepository   = (*EventRepositoryStub)(nil)
)
