// Package pricing computes line and order amounts from catalog snapshots.
// All functions are pure; rounding for display is left to callers.
package pricing

import (
	"errors"
	"fmt"

	"github.com/gogo-cafe/api/internal/catalog"
	"github.com/gogo-cafe/api/internal/value"
)

// ErrInvalidQuantity is returned when LineTotal gets a zero-value Quantity.
var ErrInvalidQuantity = errors.New("quantity must be built with value.NewQuantity")

// Line is anything that carries a stored total and a quantity.
type Line interface {
	TotalPrice() value.Money
	Quantity() value.Quantity
}

// UnitPrice is the base price plus the sum of topping prices.
func UnitPrice(item catalog.MenuItem, toppings []catalog.Topping) (value.Money, error) {
	unit, err := value.NewMoney(item.BasePrice)
	if err != nil {
		return value.Money{}, fmt.Errorf("menu item %d base price: %w", item.ID, err)
	}
	for _, tp := range toppings {
		price, err := value.NewMoney(tp.Price)
		if err != nil {
			return value.Money{}, fmt.Errorf("topping %d price: %w", tp.ID, err)
		}
		unit = unit.Add(price)
	}
	return unit, nil
}

// LineTotal is UnitPrice * qty.
func LineTotal(item catalog.MenuItem, toppings []catalog.Topping, qty value.Quantity) (value.Money, error) {
	if !qty.IsValid() {
		return value.Money{}, ErrInvalidQuantity
	}
	unit, err := UnitPrice(item, toppings)
	if err != nil {
		return value.Money{}, err
	}
	return unit.Mul(qty.Int())
}

// OrderTotal sums the stored line totals. An empty slice yields zero.
func OrderTotal[L Line](lines []L) value.Money {
	total := value.Zero()
	for _, l := range lines {
		total = total.Add(l.TotalPrice())
	}
	return total
}

// TotalItemCount sums line quantities. An empty slice yields 0.
func TotalItemCount[L Line](lines []L) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity().Int()
	}
	return n
}
