package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Errors returned by catalog lookups.
var (
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrToppingNotFound     = errors.New("topping not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrToppingUnavailable  = errors.New("topping is not available")
	ErrNegativePrice       = errors.New("catalog price cannot be negative")
)

// MenuCategory groups menu items on the customer menu.
type MenuCategory struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MenuItem is a drink as listed in the catalog. Orders keep a copy of it.
type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	CategoryID  int             `json:"category_id"`
	ImageURL    string          `json:"image_url,omitempty"`
	Available   bool            `json:"is_available"`
}

// Topping is an add-on with an additive unit price.
type Topping struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"is_available"`
}

// Catalog is an immutable menu. It is safe for concurrent readers.
type Catalog struct {
	categories []MenuCategory
	items      []MenuItem
	toppings   []Topping

	itemsByID    map[int]MenuItem
	toppingsByID map[int]Topping
}

// New builds a catalog, rejecting negative prices and duplicate ids.
func New(categories []MenuCategory, items []MenuItem, toppings []Topping) (*Catalog, error) {
	c := &Catalog{
		categories:   append([]MenuCategory(nil), categories...),
		items:        append([]MenuItem(nil), items...),
		toppings:     append([]Topping(nil), toppings...),
		itemsByID:    make(map[int]MenuItem, len(items)),
		toppingsByID: make(map[int]Topping, len(toppings)),
	}
	for _, it := range items {
		if it.BasePrice.IsNegative() {
			return nil, fmt.Errorf("menu item %d: %w", it.ID, ErrNegativePrice)
		}
		if _, dup := c.itemsByID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %d", it.ID)
		}
		c.itemsByID[it.ID] = it
	}
	for _, tp := range toppings {
		if tp.Price.IsNegative() {
			return nil, fmt.Errorf("topping %d: %w", tp.ID, ErrNegativePrice)
		}
		if _, dup := c.toppingsByID[tp.ID]; dup {
			return nil, fmt.Errorf("duplicate topping id %d", tp.ID)
		}
		c.toppingsByID[tp.ID] = tp
	}
	sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].ID < c.items[j].ID })
	return c, nil
}

func (c *Catalog) Categories() []MenuCategory {
	return append([]MenuCategory(nil), c.categories...)
}

func (c *Catalog) MenuItems() []MenuItem {
	return append([]MenuItem(nil), c.items...)
}

// MenuItemsByCategory returns the items in categoryID, ordered by id.
func (c *Catalog) MenuItemsByCategory(categoryID int) []MenuItem {
	var out []MenuItem
	for _, it := range c.items {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) Toppings() []Topping {
	return append([]Topping(nil), c.toppings...)
}

// MenuItem looks up a menu item by id.
func (c *Catalog) MenuItem(id int) (MenuItem, error) {
	it, ok := c.itemsByID[id]
	if !ok {
		return MenuItem{}, fmt.Errorf("%w: id %d", ErrMenuItemNotFound, id)
	}
	return it, nil
}

// Topping looks up a topping by id.
func (c *Catalog) Topping(id int) (Topping, error) {
	tp, ok := c.toppingsByID[id]
	if !ok {
		return Topping{}, fmt.Errorf("%w: id %d", ErrToppingNotFound, id)
	}
	return tp, nil
}

// OrderableItem is MenuItem plus an availability check, for cart building.
func (c *Catalog) OrderableItem(id int) (MenuItem, error) {
	it, err := c.MenuItem(id)
	if err != nil {
		return MenuItem{}, err
	}
	if !it.Available {
		return MenuItem{}, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, it.Name)
	}
	return it, nil
}

// OrderableToppings resolves ids in order, failing on the first missing or
// unavailable topping.
func (c *Catalog) OrderableToppings(ids []int) ([]Topping, error) {
	out := make([]Topping, 0, len(ids))
	for _, id := range ids {
		tp, err := c.Topping(id)
		if err != nil {
			return nil, err
		}
		if !tp.Available {
			return nil, fmt.Errorf("%w: %s", ErrToppingUnavailable, tp.Name)
		}
		out = append(out, tp)
	}
	return out, nil
}
