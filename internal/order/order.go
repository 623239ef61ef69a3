package order

import (
	"time"

	"github.com/gogo-cafe/api/internal/pricing"
	"github.com/gogo-cafe/api/internal/status"
	"github.com/gogo-cafe/api/internal/value"
)

// Customer is the opaque reference handed over by the identity provider.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Order is a placed order. Line items are frozen once the order exists;
// only Advance changes Status and CompletedAt.
type Order struct {
	ID            string        `json:"id"`
	Customer      Customer      `json:"customer"`
	Items         []LineItem    `json:"items"`
	TotalAmount   value.Money   `json:"total_amount"`
	TotalItems    int           `json:"total_items"`
	Status        status.Status `json:"status"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// clone returns a copy that shares nothing mutable with o.
func (o Order) clone() Order {
	c := o
	c.Items = append([]LineItem(nil), o.Items...)
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

// Clone is the exported form of clone, for containers handing out snapshots.
func (o Order) Clone() Order {
	return o.clone()
}

// Recalculate returns o with aggregates recomputed from its lines. Used when
// restoring orders from storage.
func (o Order) Recalculate() Order {
	c := o.clone()
	c.TotalAmount = pricing.OrderTotal(c.Items)
	c.TotalItems = pricing.TotalItemCount(c.Items)
	return c
}

// Elapsed is the time from creation to completion, or to now while the
// order is still open.
func Elapsed(o Order, now time.Time) time.Duration {
	end := now
	if o.CompletedAt != nil {
		end = *o.CompletedAt
	}
	if end.Before(o.CreatedAt) {
		return 0
	}
	return end.Sub(o.CreatedAt)
}
