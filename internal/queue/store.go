package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gogo-cafe/api/internal/order"
	"github.com/gogo-cafe/api/internal/status"
)

// Errors returned by the store.
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order id already exists")
	ErrStaleOrder     = errors.New("order status changed, please retry")
)

// Persister mirrors the collection to durable storage. Satisfied by
// *database.OrderRepository.
type Persister interface {
	InsertOrder(ctx context.Context, o order.Order) error
	UpdateOrder(ctx context.Context, o order.Order) error
	LoadOrders(ctx context.Context) ([]order.Order, error)
}

// Snapshot is a point-in-time copy of the collection. Version increases on
// every accepted write.
type Snapshot struct {
	Orders  []order.Order
	Version uint64
}

// Transition asks the store to move one order. From, when set, must match the
// order's current status or the transition is rejected with ErrStaleOrder.
type Transition struct {
	OrderID string
	Target  status.Status
	From    status.Status
}

// Store is the single owner of the order collection. Writes are serialized
// by a mutex, so a transition is visible to the very next Read.
type Store struct {
	mu      sync.RWMutex
	orders  []order.Order
	index   map[string]int
	version uint64

	persister Persister
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPersister writes every accepted change through to p.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		index: make(map[string]int),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with what the persister holds. Aggregates are
// recomputed from the stored lines.
func (s *Store) Load(ctx context.Context) (int, error) {
	if s.persister == nil {
		return 0, nil
	}
	loaded, err := s.persister.LoadOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("load orders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]order.Order, 0, len(loaded))
	s.index = make(map[string]int, len(loaded))
	for _, o := range loaded {
		if _, dup := s.index[o.ID]; dup {
			continue
		}
		s.index[o.ID] = len(s.orders)
		s.orders = append(s.orders, o.Recalculate())
	}
	s.version++
	return len(s.orders), nil
}

// Read returns a snapshot of the collection.
func (s *Store) Read() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]order.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return Snapshot{Orders: out, Version: s.version}
}

// Version returns the current write counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Get returns one order by id.
func (s *Store) Get(id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return order.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return s.orders[i].Clone(), nil
}

// Add inserts a newly created order. Orders are never removed.
func (s *Store) Add(ctx context.Context, o order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.index[o.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
	}
	if s.persister != nil {
		if err := s.persister.InsertOrder(ctx, o); err != nil {
			log.Printf("ERROR: persist new order %s: %v", o.ID, err)
			return fmt.Errorf("insert order: %w", err)
		}
	}
	s.index[o.ID] = len(s.orders)
	s.orders = append(s.orders, o.Clone())
	s.version++
	return nil
}

// Apply runs the fulfillment state machine on one order and replaces it in
// the collection. It returns the record before and after the move. On any
// error the collection is unchanged. Re-completing a completed order is a
// no-op and does not bump the version.
func (s *Store) Apply(ctx context.Context, t Transition) (before, after order.Order, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[t.OrderID]
	if !ok {
		return order.Order{}, order.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, t.OrderID)
	}
	before = s.orders[i].Clone()
	if t.From != "" && before.Status != t.From {
		return order.Order{}, order.Order{}, fmt.Errorf("%w: expected %s, found %s", ErrStaleOrder, t.From, before.Status)
	}

	after, err = order.Advance(before, t.Target, s.now())
	if err != nil {
		return order.Order{}, order.Order{}, err
	}
	if after.Status == before.Status {
		return before, after, nil
	}
	if s.persister != nil {
		if err := s.persister.UpdateOrder(ctx, after); err != nil {
			log.Printf("ERROR: persist order %s: %v", after.ID, err)
			return order.Order{}, order.Order{}, fmt.Errorf("update order: %w", err)
		}
	}
	s.orders[i] = after.Clone()
	s.version++
	return before, after, nil
}

// Project returns the filtered view over the current collection.
func (s *Store) Project(f Filter) Projection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Project(s.orders, f)
}
