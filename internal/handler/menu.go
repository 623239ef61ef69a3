package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gogo-cafe/api/internal/catalog"
)

// MenuReader defines the catalog reads needed by menu handlers.
// Satisfied by *catalog.Catalog.
type MenuReader interface {
	Categories() []catalog.MenuCategory
	MenuItems() []catalog.MenuItem
	MenuItemsByCategory(categoryID int) []catalog.MenuItem
	Toppings() []catalog.Topping
}

// MenuHandler serves the read-only menu.
type MenuHandler struct {
	menu MenuReader
}

func NewMenuHandler(menu MenuReader) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
// Expected to be mounted at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.ListCategories)
	r.Get("/items", h.ListItems)
	r.Get("/toppings", h.ListToppings)
}

func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.menu.Categories())
}

// ListItems handles GET /menu/items, optionally filtered by ?category_id=.
func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	s := r.URL.Query().Get("category_id")
	if s == "" {
		writeJSON(w, http.StatusOK, h.menu.MenuItems())
		return
	}

	categoryID, err := strconv.Atoi(s)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
		return
	}
	items := h.menu.MenuItemsByCategory(categoryID)
	if items == nil {
		items = []catalog.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) ListToppings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.menu.Toppings())
}
