package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if got := len(c.Categories()); got != 3 {
		t.Errorf("categories: got %d, want 3", got)
	}
	if got := len(c.MenuItems()); got != 13 {
		t.Errorf("menu items: got %d, want 13", got)
	}
	if got := len(c.Toppings()); got != 6 {
		t.Errorf("toppings: got %d, want 6", got)
	}
	if got := len(c.MenuItemsByCategory(2)); got != 4 {
		t.Errorf("tea items: got %d, want 4", got)
	}

	espresso, err := c.MenuItem(1)
	if err != nil {
		t.Fatalf("lookup espresso: %v", err)
	}
	if !espresso.BasePrice.Equal(decimal.NewFromInt(50)) {
		t.Errorf("espresso price: got %s, want 50", espresso.BasePrice)
	}
}

func TestLookupNotFound(t *testing.T) {
	c := Default()

	if _, err := c.MenuItem(99); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("expected ErrMenuItemNotFound, got %v", err)
	}
	if _, err := c.Topping(99); !errors.Is(err, ErrToppingNotFound) {
		t.Errorf("expected ErrToppingNotFound, got %v", err)
	}
	if _, err := c.OrderableToppings([]int{1, 42}); !errors.Is(err, ErrToppingNotFound) {
		t.Errorf("expected ErrToppingNotFound, got %v", err)
	}
}

func TestOrderableRejectsUnavailable(t *testing.T) {
	c, err := New(
		[]MenuCategory{{ID: 1, Name: "Coffee"}},
		[]MenuItem{{ID: 1, Name: "Latte", BasePrice: decimal.NewFromInt(70), CategoryID: 1}},
		[]Topping{{ID: 1, Name: "Oat Milk", Price: decimal.NewFromInt(15)}},
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := c.OrderableItem(1); !errors.Is(err, ErrMenuItemUnavailable) {
		t.Errorf("expected ErrMenuItemUnavailable, got %v", err)
	}
	if _, err := c.OrderableToppings([]int{1}); !errors.Is(err, ErrToppingUnavailable) {
		t.Errorf("expected ErrToppingUnavailable, got %v", err)
	}
}

func TestNewRejectsNegativePrice(t *testing.T) {
	_, err := New(nil, []MenuItem{{ID: 1, BasePrice: decimal.NewFromInt(-5)}}, nil)
	if !errors.Is(err, ErrNegativePrice) {
		t.Errorf("expected ErrNegativePrice, got %v", err)
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	c := Default()
	items := c.MenuItems()
	items[0].Name = "changed"

	again, _ := c.MenuItem(items[0].ID)
	if again.Name == "changed" {
		t.Error("catalog was mutated through returned slice")
	}
}
