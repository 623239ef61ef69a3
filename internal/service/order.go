package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gogo-cafe/api/internal/catalog"
	"github.com/gogo-cafe/api/internal/enum"
	"github.com/gogo-cafe/api/internal/order"
	"github.com/gogo-cafe/api/internal/queue"
	"github.com/gogo-cafe/api/internal/status"
	"github.com/gogo-cafe/api/internal/value"
	"github.com/jackc/pgx/v5/pgconn"
)

const maxOrderIDRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrInvalidPaymentMethod = errors.New("invalid payment_method")
	ErrMissingCustomer      = errors.New("customer is required")
	ErrNotOwner             = errors.New("order belongs to another customer")
)

// Menu defines the catalog lookups needed to price an order.
// Satisfied by *catalog.Catalog.
type Menu interface {
	OrderableItem(id int) (catalog.MenuItem, error)
	OrderableToppings(ids []int) ([]catalog.Topping, error)
}

// OrderStore defines the collection methods the service needs.
// Satisfied by *queue.Store.
type OrderStore interface {
	Add(ctx context.Context, o order.Order) error
	Apply(ctx context.Context, t queue.Transition) (before, after order.Order, err error)
	Get(id string) (order.Order, error)
	Read() queue.Snapshot
	Project(f queue.Filter) queue.Projection
}

// Observer is told about every accepted write. Implementations must not block.
type Observer interface {
	OrderPlaced(o order.Order)
	OrderTransitioned(before, after order.Order)
}

// PlaceOrderRequest is the validated input for placing an order.
type PlaceOrderRequest struct {
	Customer      order.Customer
	PaymentMethod string
	Notes         string
	Items         []ItemRequest
}

// ItemRequest is a single line in a quote or order.
type ItemRequest struct {
	MenuItemID int
	ToppingIDs []int
	Quantity   int
	Notes      string
	// Sweetness defaults to order.DefaultSweetness when nil.
	Sweetness *int
}

// Quote is the priced cart returned before checkout.
type Quote struct {
	Items       []order.LineItem
	TotalAmount value.Money
	TotalItems  int
}

// Stats summarizes the orders matching a filter for the staff dashboard.
type Stats struct {
	Counts         map[status.Status]int
	Active         int
	Canceled       int
	Revenue        value.Money
	AverageElapsed time.Duration
}

// OrderService handles order business logic.
type OrderService struct {
	menu     Menu
	store    OrderStore
	ids      *order.IDGenerator
	now       func() time.Time
	observers []Observer
}

// OrderServiceOption configures an OrderService.
type OrderServiceOption func(*OrderService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

// WithObserver registers o for order events. May be given more than once.
func WithObserver(o Observer) OrderServiceOption {
	return func(s *OrderService) { s.observers = append(s.observers, o) }
}

// NewOrderService creates a new OrderService.
func NewOrderService(menu Menu, store OrderStore, ids *order.IDGenerator, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{menu: menu, store: store, ids: ids, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncIDs advances the id sequence past every order already in the store.
// Call after the store is loaded from persistence.
func (s *OrderService) SyncIDs() {
	now := s.now()
	for _, o := range s.store.Read().Orders {
		s.ids.Observe(o.ID, now)
	}
}

// Quote prices items without placing an order.
func (s *OrderService) Quote(ctx context.Context, items []ItemRequest) (*Quote, error) {
	cart, err := s.buildCart(items)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Items:       cart.Items(),
		TotalAmount: cart.Total(),
		TotalItems:  cart.ItemCount(),
	}, nil
}

// PlaceOrder validates and prices the request, then adds the order to the
// queue in the initial status. Retries up to maxOrderIDRetries times when
// the generated id is already taken.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*order.Order, error) {
	return s.place(ctx, req, s.now)
}

func (s *OrderService) place(ctx context.Context, req PlaceOrderRequest, clock func() time.Time) (*order.Order, error) {
	// --- Validate order-level fields ---
	if strings.TrimSpace(req.Customer.ID) == "" {
		return nil, ErrMissingCustomer
	}
	if req.PaymentMethod != "" && !enum.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	cart, err := s.buildCart(req.Items)
	if err != nil {
		return nil, err
	}

	// Retry loop: handles id collisions with orders restored from storage.
	var lastErr error
	for attempt := 0; attempt < maxOrderIDRetries; attempt++ {
		now := clock()
		o, err := cart.Checkout(order.CheckoutRequest{
			ID:            s.ids.Next(now),
			Customer:      req.Customer,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			Now:           now,
		})
		if err != nil {
			return nil, err
		}

		err = s.store.Add(ctx, o)
		if err == nil {
			for _, obs := range s.observers {
				obs.OrderPlaced(o)
			}
			return &o, nil
		}
		if isOrderIDConflict(err) {
			lastErr = err
			continue
		}
		return nil, fmt.Errorf("add order: %w", err)
	}
	return nil, lastErr
}

// isOrderIDConflict checks if err is a duplicate id, either from the
// in-memory index or a primary key violation in Postgres (code 23505).
func isOrderIDConflict(err error) bool {
	if errors.Is(err, queue.ErrDuplicateOrder) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// buildCart validates items against the menu and prices them.
func (s *OrderService) buildCart(items []ItemRequest) (*order.Cart, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	cart := order.NewCart()
	for i, item := range items {
		qty, err := value.NewQuantity(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}

		menuItem, err := s.menu.OrderableItem(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		toppings, err := s.menu.OrderableToppings(item.ToppingIDs)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}

		sweetness := order.DefaultSweetness
		if item.Sweetness != nil {
			sweetness = *item.Sweetness
		}

		if _, err := cart.Add(menuItem, toppings, qty, item.Notes, sweetness); err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
	}
	return cart, nil
}

// Get returns one order. When customerID is set the order must belong to
// that customer.
func (s *OrderService) Get(ctx context.Context, id, customerID string) (*order.Order, error) {
	o, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if customerID != "" && o.Customer.ID != customerID {
		return nil, ErrNotOwner
	}
	return &o, nil
}

// CustomerOrders returns a customer's orders, newest first.
func (s *OrderService) CustomerOrders(ctx context.Context, customerID string) []order.Order {
	var out []order.Order
	for _, o := range s.store.Read().Orders {
		if o.Customer.ID == customerID {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b order.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if out == nil {
		out = []order.Order{}
	}
	return out
}

// Board returns the staff view of orders matching f.
func (s *OrderService) Board(ctx context.Context, f queue.Filter) queue.Projection {
	return s.store.Project(f)
}

// Advance moves an order to target. from, when non-empty, is the status the
// caller last saw; a mismatch is rejected with queue.ErrStaleOrder.
func (s *OrderService) Advance(ctx context.Context, id string, target, from status.Status) (*order.Order, error) {
	if _, err := status.Parse(string(target)); err != nil {
		return nil, err
	}
	before, after, err := s.store.Apply(ctx, queue.Transition{OrderID: id, Target: target, From: from})
	if err != nil {
		return nil, err
	}
	if before.Status != after.Status {
		for _, obs := range s.observers {
			obs.OrderTransitioned(before, after)
		}
	}
	return &after, nil
}

// Cancel moves an order to CANCELED.
func (s *OrderService) Cancel(ctx context.Context, id string) (*order.Order, error) {
	return s.Advance(ctx, id, status.Canceled, "")
}

// Stats computes dashboard figures over the orders matching f. Revenue and
// average elapsed time cover completed orders only.
func (s *OrderService) Stats(ctx context.Context, f queue.Filter) Stats {
	p := s.store.Project(f)
	all := p.All()

	stats := Stats{
		Counts:  p.Counts(),
		Active:  len(p.ActiveQueue()),
		Revenue: value.Zero(),
	}

	var total time.Duration
	completed := 0
	for _, o := range all {
		switch o.Status {
		case status.Completed:
			stats.Revenue = stats.Revenue.Add(o.TotalAmount)
			total += order.Elapsed(o, s.now())
			completed++
		case status.Canceled:
			stats.Canceled++
		}
	}
	if completed > 0 {
		stats.AverageElapsed = total / time.Duration(completed)
	}
	return stats
}

// --- Sample data ---

type sampleOrder struct {
	customer int
	payment  string
	minsAgo  int
	status   status.Status
	items    []ItemRequest
	notes    string
}

func intPtr(v int) *int { return &v }

func sampleOrders() []sampleOrder {
	return []sampleOrder{
		{
			customer: 0,
			payment:  enum.PaymentMethodCreditCard,
			minsAgo:  25,
			status:   status.Waiting,
			items: []ItemRequest{
				{MenuItemID: 2, ToppingIDs: []int{1}, Quantity: 2},
				{MenuItemID: 1, Quantity: 1, Sweetness: intPtr(50)},
			},
		},
		{
			customer: 1,
			payment:  enum.PaymentMethodCash,
			minsAgo:  18,
			status:   status.InProgress,
			items: []ItemRequest{
				{MenuItemID: 3, ToppingIDs: []int{2, 4}, Quantity: 1, Notes: "less ice"},
			},
		},
		{
			customer: 2,
			payment:  enum.PaymentMethodQRCode,
			minsAgo:  12,
			status:   status.Ready,
			items: []ItemRequest{
				{MenuItemID: 6, Quantity: 1},
				{MenuItemID: 11, Quantity: 1, Sweetness: intPtr(75)},
			},
			notes: "pick up at counter",
		},
		{
			customer: 0,
			payment:  enum.PaymentMethodDebitCard,
			minsAgo:  60,
			status:   status.Completed,
			items: []ItemRequest{
				{MenuItemID: 4, ToppingIDs: []int{6}, Quantity: 3},
			},
		},
	}
}

// SeedSampleOrders places a small set of demo orders for customers, with
// back-dated creation times, and walks each one to its sample status.
func (s *OrderService) SeedSampleOrders(ctx context.Context, customers []order.Customer) ([]order.Order, error) {
	if len(customers) == 0 {
		return nil, ErrMissingCustomer
	}
	base := s.now()

	var placed []order.Order
	for _, sample := range sampleOrders() {
		at := base.Add(-time.Duration(sample.minsAgo) * time.Minute)
		customer := customers[sample.customer%len(customers)]
		o, err := s.place(ctx, PlaceOrderRequest{
			Customer:      customer,
			PaymentMethod: sample.payment,
			Notes:         sample.notes,
			Items:         sample.items,
		}, func() time.Time { return at })
		if err != nil {
			return placed, fmt.Errorf("seed order for %s: %w", customer.Name, err)
		}

		for o.Status != sample.status {
			next, ok := status.Successor(o.Status)
			if !ok {
				break
			}
			advanced, err := s.Advance(ctx, o.ID, next, o.Status)
			if err != nil {
				return placed, fmt.Errorf("seed advance %s: %w", o.ID, err)
			}
			o = advanced
		}
		placed = append(placed, *o)
	}
	return placed, nil
}
