package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gogo-cafe/api/internal/catalog"
	"github.com/gogo-cafe/api/internal/pricing"
	"github.com/gogo-cafe/api/internal/status"
	"github.com/gogo-cafe/api/internal/value"
	"github.com/google/uuid"
)

// Errors returned by cart operations.
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrLineItemNotFound = errors.New("line item not found in cart")
	ErrMissingOrderID   = errors.New("order id is required")
)

// Cart holds line items before checkout. It is owned by a single caller and
// is not safe for concurrent use.
type Cart struct {
	items []LineItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add prices a new line and appends it.
func (c *Cart) Add(item catalog.MenuItem, toppings []catalog.Topping, qty value.Quantity, notes string, sweetness int) (LineItem, error) {
	li, err := NewLineItem(item, toppings, qty, notes, sweetness)
	if err != nil {
		return LineItem{}, err
	}
	c.items = append(c.items, li)
	return li, nil
}

func (c *Cart) indexOf(id uuid.UUID) (int, error) {
	for i, li := range c.items {
		if li.id == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrLineItemNotFound, id)
}

func (c *Cart) replace(id uuid.UUID, update func(LineItem) (LineItem, error)) (LineItem, error) {
	i, err := c.indexOf(id)
	if err != nil {
		return LineItem{}, err
	}
	updated, err := update(c.items[i])
	if err != nil {
		return LineItem{}, err
	}
	c.items[i] = updated
	return updated, nil
}

// SetQuantity validates raw and reprices the line. The cart is unchanged on error.
func (c *Cart) SetQuantity(id uuid.UUID, raw int) (LineItem, error) {
	qty, err := value.NewQuantity(raw)
	if err != nil {
		return LineItem{}, err
	}
	return c.replace(id, func(li LineItem) (LineItem, error) { return li.WithQuantity(qty) })
}

func (c *Cart) Increment(id uuid.UUID) (LineItem, error) {
	return c.replace(id, func(li LineItem) (LineItem, error) {
		return li.WithQuantity(li.quantity.Increment())
	})
}

// Decrement fails when the line is already at quantity 1; use Remove instead.
func (c *Cart) Decrement(id uuid.UUID) (LineItem, error) {
	return c.replace(id, func(li LineItem) (LineItem, error) {
		qty, err := li.quantity.Decrement()
		if err != nil {
			return LineItem{}, err
		}
		return li.WithQuantity(qty)
	})
}

func (c *Cart) SetToppings(id uuid.UUID, toppings []catalog.Topping) (LineItem, error) {
	return c.replace(id, func(li LineItem) (LineItem, error) { return li.WithToppings(toppings) })
}

func (c *Cart) Remove(id uuid.UUID) error {
	i, err := c.indexOf(id)
	if err != nil {
		return err
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Total() value.Money {
	return pricing.OrderTotal(c.items)
}

func (c *Cart) ItemCount() int {
	return pricing.TotalItemCount(c.items)
}

// CheckoutRequest carries what the cart does not know about the order.
type CheckoutRequest struct {
	ID            string
	Customer      Customer
	PaymentMethod string
	Notes         string
	Now           time.Time
}

// Checkout freezes the cart into a new order in the initial queue status.
// The cart itself is left untouched so the caller decides when to clear it.
func (c *Cart) Checkout(req CheckoutRequest) (Order, error) {
	if len(c.items) == 0 {
		return Order{}, ErrEmptyCart
	}
	if strings.TrimSpace(req.ID) == "" {
		return Order{}, ErrMissingOrderID
	}
	items := c.Items()
	return Order{
		ID:            req.ID,
		Customer:      req.Customer,
		Items:         items,
		TotalAmount:   pricing.OrderTotal(items),
		TotalItems:    pricing.TotalItemCount(items),
		Status:        status.Waiting,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedAt:     req.Now,
		UpdatedAt:     req.Now,
	}, nil
}
