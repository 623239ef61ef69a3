package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gogo-cafe/api/internal/catalog"
	"github.com/gogo-cafe/api/internal/handler"
)

func setupMenuRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Route("/menu", handler.NewMenuHandler(catalog.Default()).RegisterRoutes)
	r.Get("/statuses", handler.ListStatuses)
	return r
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	return rr
}

type menuItemJSON struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
}

func TestListCategories(t *testing.T) {
	rr := get(setupMenuRouter(), "/menu/categories")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	cats := decode[[]struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}](t, rr)
	if len(cats) != 3 || cats[0].Name != "Coffee" {
		t.Errorf("categories: %+v", cats)
	}
}

func TestListItems(t *testing.T) {
	router := setupMenuRouter()

	all := decode[[]menuItemJSON](t, get(router, "/menu/items"))
	if len(all) != 13 {
		t.Errorf("all items: got %d, want 13", len(all))
	}

	tea := decode[[]menuItemJSON](t, get(router, "/menu/items?category_id=2"))
	if len(tea) != 4 {
		t.Fatalf("tea items: got %d, want 4", len(tea))
	}
	for _, it := range tea {
		if it.CategoryID != 2 {
			t.Errorf("item %d in category %d", it.ID, it.CategoryID)
		}
	}

	rr := get(router, "/menu/items?category_id=99")
	if rr.Code != http.StatusOK || rr.Body.String() != "[]\n" {
		t.Errorf("empty category: %d %q", rr.Code, rr.Body.String())
	}

	if rr := get(router, "/menu/items?category_id=abc"); rr.Code != http.StatusBadRequest {
		t.Errorf("bad category: got %d, want 400", rr.Code)
	}
}

func TestListToppings(t *testing.T) {
	toppings := decode[[]struct {
		ID    int    `json:"id"`
		Price string `json:"price"`
	}](t, get(setupMenuRouter(), "/menu/toppings"))
	if len(toppings) != 6 {
		t.Fatalf("toppings: got %d, want 6", len(toppings))
	}
	if toppings[0].Price != "20" {
		t.Errorf("extra shot price: got %s", toppings[0].Price)
	}
}

func TestListStatuses(t *testing.T) {
	rr := get(setupMenuRouter(), "/statuses")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decode[struct {
		Statuses []struct {
			Status string `json:"status"`
			Next   string `json:"next"`
		} `json:"statuses"`
		Tabs   []string          `json:"tabs"`
		Active []string          `json:"active"`
		Colors map[string]string `json:"colors"`
	}](t, rr)

	if len(resp.Statuses) != 5 || resp.Statuses[0].Status != "WAITING" || resp.Statuses[0].Next != "IN_PROGRESS" {
		t.Errorf("statuses: %+v", resp.Statuses)
	}
	if len(resp.Tabs) != 4 || len(resp.Active) != 3 {
		t.Errorf("tabs %v active %v", resp.Tabs, resp.Active)
	}
	if resp.Colors["CANCELED"] != "#ef4444" {
		t.Errorf("colors: %v", resp.Colors)
	}
}
