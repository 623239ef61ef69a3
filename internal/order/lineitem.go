package order

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogo-cafe/api/internal/catalog"
	"github.com/gogo-cafe/api/internal/pricing"
	"github.com/gogo-cafe/api/internal/value"
	"github.com/google/uuid"
)

// DefaultSweetness is full sweetness, the menu default.
const DefaultSweetness = 100

// ErrInvalidSweetness is returned for sweetness outside 0-100.
var ErrInvalidSweetness = errors.New("sweetness must be between 0 and 100")

// LineItem is one cart or order entry. The menu item and toppings are copies
// taken when the line was added; later catalog changes do not reach it.
// The total is always (base + toppings) * quantity and is recomputed by every
// constructor, so it cannot drift from its inputs.
type LineItem struct {
	id        uuid.UUID
	menuItem  catalog.MenuItem
	toppings  []catalog.Topping
	quantity  value.Quantity
	notes     string
	sweetness int
	total     value.Money
}

// NewLineItem snapshots item and toppings and prices the line.
func NewLineItem(item catalog.MenuItem, toppings []catalog.Topping, qty value.Quantity, notes string, sweetness int) (LineItem, error) {
	return buildLineItem(uuid.New(), item, toppings, qty, notes, sweetness)
}

func buildLineItem(id uuid.UUID, item catalog.MenuItem, toppings []catalog.Topping, qty value.Quantity, notes string, sweetness int) (LineItem, error) {
	if sweetness < 0 || sweetness > 100 {
		return LineItem{}, fmt.Errorf("%w: got %d", ErrInvalidSweetness, sweetness)
	}
	snapshot := append([]catalog.Topping(nil), toppings...)
	total, err := pricing.LineTotal(item, snapshot, qty)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{
		id:        id,
		menuItem:  item,
		toppings:  snapshot,
		quantity:  qty,
		notes:     notes,
		sweetness: sweetness,
		total:     total,
	}, nil
}

// WithQuantity returns a copy of l with a new quantity and recomputed total.
func (l LineItem) WithQuantity(qty value.Quantity) (LineItem, error) {
	return buildLineItem(l.id, l.menuItem, l.toppings, qty, l.notes, l.sweetness)
}

// WithToppings returns a copy of l with a new topping selection and recomputed total.
func (l LineItem) WithToppings(toppings []catalog.Topping) (LineItem, error) {
	return buildLineItem(l.id, l.menuItem, toppings, l.quantity, l.notes, l.sweetness)
}

func (l LineItem) ID() uuid.UUID               { return l.id }
func (l LineItem) MenuItem() catalog.MenuItem  { return l.menuItem }
func (l LineItem) Quantity() value.Quantity    { return l.quantity }
func (l LineItem) Notes() string               { return l.notes }
func (l LineItem) Sweetness() int              { return l.sweetness }
func (l LineItem) TotalPrice() value.Money     { return l.total }
func (l LineItem) Toppings() []catalog.Topping { return append([]catalog.Topping(nil), l.toppings...) }

// UnitPrice is the per-item price (base + toppings).
func (l LineItem) UnitPrice() value.Money {
	unit, _ := pricing.UnitPrice(l.menuItem, l.toppings)
	return unit
}

type lineItemJSON struct {
	ID         uuid.UUID         `json:"id"`
	MenuItem   catalog.MenuItem  `json:"menu_item"`
	Toppings   []catalog.Topping `json:"toppings"`
	Quantity   value.Quantity    `json:"quantity"`
	Notes      string            `json:"notes,omitempty"`
	Sweetness  int               `json:"sweetness"`
	TotalPrice value.Money       `json:"total_price"`
}

func (l LineItem) MarshalJSON() ([]byte, error) {
	toppings := l.toppings
	if toppings == nil {
		toppings = []catalog.Topping{}
	}
	return json.Marshal(lineItemJSON{
		ID:         l.id,
		MenuItem:   l.menuItem,
		Toppings:   toppings,
		Quantity:   l.quantity,
		Notes:      l.notes,
		Sweetness:  l.sweetness,
		TotalPrice: l.total,
	})
}

// UnmarshalJSON restores a line and recomputes its total; a stored
// total_price that disagrees with the inputs is ignored.
func (l *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == uuid.Nil {
		raw.ID = uuid.New()
	}
	li, err := buildLineItem(raw.ID, raw.MenuItem, raw.Toppings, raw.Quantity, raw.Notes, raw.Sweetness)
	if err != nil {
		return err
	}
	*l = li
	return nil
}
