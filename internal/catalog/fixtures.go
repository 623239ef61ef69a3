package catalog

import "github.com/shopspring/decimal"

// Default returns the café's standard menu.
func Default() *Catalog {
	c, err := New(defaultCategories(), defaultMenuItems(), defaultToppings())
	if err != nil {
		// Fixture data is static; a failure here is a programming error.
		panic(err)
	}
	return c
}

func defaultCategories() []MenuCategory {
	return []MenuCategory{
		{ID: 1, Name: "Coffee"},
		{ID: 2, Name: "Tea"},
		{ID: 3, Name: "Smoothie"},
	}
}

func item(id int, name, desc string, price int64, category int, image string) MenuItem {
	return MenuItem{
		ID:          id,
		Name:        name,
		Description: desc,
		BasePrice:   decimal.NewFromInt(price),
		CategoryID:  category,
		ImageURL:    image,
		Available:   true,
	}
}

func defaultMenuItems() []MenuItem {
	return []MenuItem{
		item(1, "Espresso", "Rich and bold espresso shot", 50, 1, "/images/espresso.png"),
		item(2, "Latte", "Smooth latte with steamed milk", 70, 1, "/images/latte.png"),
		item(3, "Cappuccino", "Classic cappuccino with frothy milk", 75, 1, "/images/cappuccino.png"),
		item(4, "Americano", "Espresso with hot water", 60, 1, "/images/americano.png"),
		item(5, "Mocha", "Chocolatey mocha with espresso", 80, 1, "/images/mocha.png"),
		item(6, "Green Tea", "Refreshing green tea", 40, 2, "/images/green-tea.png"),
		item(7, "Black Tea", "Strong black tea", 45, 2, "/images/black-tea.png"),
		item(8, "Chai Latte", "Spiced chai latte with milk", 65, 2, "/images/chai-latte.png"),
		item(9, "Thai Tea", "Sweet and creamy Thai iced tea", 55, 2, "/images/thai-tea.png"),
		item(10, "Mango Smoothie", "Creamy mango smoothie", 90, 3, "/images/mango-smoothie.png"),
		item(11, "Berry Blast Smoothie", "Mixed berry smoothie", 95, 3, "/images/berry-smoothie.png"),
		item(12, "Banana Smoothie", "Banana and yogurt smoothie", 85, 3, "/images/banana-smoothie.png"),
		item(13, "Pineapple Smoothie", "Tropical pineapple smoothie", 90, 3, "/images/pineapple-smoothie.png"),
	}
}

func defaultToppings() []Topping {
	tp := func(id int, name string, price int64) Topping {
		return Topping{ID: id, Name: name, Price: decimal.NewFromInt(price), Available: true}
	}
	return []Topping{
		tp(1, "Extra Shot", 20),
		tp(2, "Soy Milk", 15),
		tp(3, "Almond Milk", 20),
		tp(4, "Whipped Cream", 10),
		tp(5, "Chocolate Syrup", 10),
		tp(6, "Caramel Syrup", 10),
	}
}
