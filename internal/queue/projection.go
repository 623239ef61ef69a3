// Package queue owns the order collection and derives the staff views over it.
package queue

import (
	"slices"
	"strings"
	"time"

	"github.com/gogo-cafe/api/internal/order"
	"github.com/gogo-cafe/api/internal/status"
)

// Filter narrows the orders shown to staff. Zero bounds are open.
type Filter struct {
	// Query matches order id or customer name, case-insensitively.
	Query string
	// From and To bound CreatedAt, both inclusive.
	From time.Time
	To   time.Time
}

func (f Filter) matches(o order.Order) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(o.ID), q) &&
			!strings.Contains(strings.ToLower(o.Customer.Name), q) {
			return false
		}
	}
	if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && o.CreatedAt.After(f.To) {
		return false
	}
	return true
}

// Projection is a filtered, FIFO-sorted view of an order collection. It is
// computed from its inputs on construction and holds no reference to them.
type Projection struct {
	orders []order.Order
}

// Project filters orders by f and sorts the result oldest first. Orders
// created at the same instant are ordered by id so the output does not
// depend on input order.
func Project(orders []order.Order, f Filter) Projection {
	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if f.matches(o) {
			out = append(out, o.Clone())
		}
	}
	slices.SortStableFunc(out, compareFIFO)
	return Projection{orders: out}
}

func compareFIFO(a, b order.Order) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// All returns every filtered order, oldest first.
func (p Projection) All() []order.Order {
	return p.selectWhere(func(order.Order) bool { return true })
}

// ByStatus returns the filtered orders in s, oldest first.
func (p Projection) ByStatus(s status.Status) []order.Order {
	return p.selectWhere(func(o order.Order) bool { return o.Status == s })
}

// ActiveQueue returns the filtered orders in active statuses, oldest first.
// Canceled orders never appear, whatever the registry says.
func (p Projection) ActiveQueue() []order.Order {
	return p.selectWhere(func(o order.Order) bool {
		return o.Status != status.Canceled && status.IsActive(o.Status)
	})
}

// Counts returns the number of filtered orders per tab status.
func (p Projection) Counts() map[status.Status]int {
	counts := make(map[status.Status]int)
	for _, s := range status.TabStatuses() {
		counts[s] = 0
	}
	for _, o := range p.orders {
		if _, ok := counts[o.Status]; ok {
			counts[o.Status]++
		}
	}
	return counts
}

func (p Projection) selectWhere(keep func(order.Order) bool) []order.Order {
	out := []order.Order{}
	for _, o := range p.orders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}
