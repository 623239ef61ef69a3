package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gogo-cafe/api/internal/catalog"
	"github.com/gogo-cafe/api/internal/enum"
	"github.com/gogo-cafe/api/internal/middleware"
	"github.com/gogo-cafe/api/internal/order"
	"github.com/gogo-cafe/api/internal/queue"
	"github.com/gogo-cafe/api/internal/service"
	"github.com/gogo-cafe/api/internal/status"
	"github.com/gogo-cafe/api/internal/value"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Quote(ctx context.Context, items []service.ItemRequest) (*service.Quote, error)
	PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*order.Order, error)
	Get(ctx context.Context, id, customerID string) (*order.Order, error)
	CustomerOrders(ctx context.Context, customerID string) []order.Order
	Board(ctx context.Context, f queue.Filter) queue.Projection
	Advance(ctx context.Context, id string, target, from status.Status) (*order.Order, error)
	Cancel(ctx context.Context, id string) (*order.Order, error)
	Stats(ctx context.Context, f queue.Filter) service.Stats
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc OrderServicer
	now func() time.Time
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer) *OrderHandler {
	return &OrderHandler{svc: svc, now: time.Now}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders behind Authenticate.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/quote", h.Quote)
	r.Post("/", h.Create)
	r.Get("/mine", h.ListMine)
	r.Get("/{id}", h.Get)

	// Staff board
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.UserRoleBarista, enum.UserRoleManager))
		r.Get("/", h.List)
		r.Get("/queue", h.Queue)
		r.Get("/stats", h.Stats)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.Cancel)
	})
}

// --- Request / Response types ---

type itemRequest struct {
	MenuItemID int    `json:"menu_item_id"`
	ToppingIDs []int  `json:"topping_ids"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
	Sweetness  *int   `json:"sweetness"`
}

type quoteRequest struct {
	Items []itemRequest `json:"items"`
}

type createOrderRequest struct {
	PaymentMethod string        `json:"payment_method"`
	Notes         string        `json:"notes"`
	Items         []itemRequest `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
	// From is the status the client last saw. Optional.
	From string `json:"from"`
}

type quoteResponse struct {
	Items       []order.LineItem `json:"items"`
	TotalAmount value.Money      `json:"total_amount"`
	TotalItems  int              `json:"total_items"`
}

type orderResponse struct {
	order.Order
	StatusLabel    string            `json:"status_label"`
	StatusColor    string            `json:"status_color"`
	NextAction     *order.NextAction `json:"next_action,omitempty"`
	CanCancel      bool              `json:"can_cancel"`
	ElapsedSeconds int64             `json:"elapsed_seconds"`
}

type orderListResponse struct {
	Orders []orderResponse        `json:"orders"`
	Counts map[status.Status]int `json:"counts,omitempty"`
}

type statsResponse struct {
	Counts                map[status.Status]int `json:"counts"`
	Active                int                   `json:"active"`
	Canceled              int                   `json:"canceled"`
	Revenue               value.Money           `json:"revenue"`
	AverageElapsedSeconds int64                 `json:"average_elapsed_seconds"`
}

// --- Handlers ---

// Quote handles POST /orders/quote.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if msg := validateItems(req.Items); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	q, err := h.svc.Quote(r.Context(), toServiceItems(req.Items))
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: quote order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Items:       q.Items,
		TotalAmount: q.TotalAmount,
		TotalItems:  q.TotalItems,
	})
}

// Create handles POST /orders. The customer is the authenticated user.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if msg := validateItems(req.Items); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	o, err := h.svc.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		Customer:      order.Customer{ID: claims.UserID.String(), Name: claims.Name},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Items:         toServiceItems(req.Items),
	})
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, h.toOrderResponse(*o))
}

// ListMine handles GET /orders/mine, newest first.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orders := h.svc.CustomerOrders(r.Context(), claims.UserID.String())
	writeJSON(w, http.StatusOK, orderListResponse{Orders: h.toOrderResponses(orders)})
}

// Get handles GET /orders/{id}. Customers may only read their own orders.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	owner := claims.UserID.String()
	if enum.IsStaffRole(claims.Role) {
		owner = ""
	}

	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), owner)
	if err != nil {
		if errors.Is(err, queue.ErrOrderNotFound) || errors.Is(err, service.ErrNotOwner) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, h.toOrderResponse(*o))
}

// List handles GET /orders?status=&q=&start_date=&end_date=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}

	p := h.svc.Board(r.Context(), f)

	orders := p.All()
	if s := r.URL.Query().Get("status"); s != "" {
		st, err := status.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		orders = p.ByStatus(st)
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: h.toOrderResponses(orders),
		Counts: p.Counts(),
	})
}

// Queue handles GET /orders/queue: every active order, oldest first.
func (h *OrderHandler) Queue(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	p := h.svc.Board(r.Context(), f)
	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: h.toOrderResponses(p.ActiveQueue()),
		Counts: p.Counts(),
	})
}

// Stats handles GET /orders/stats.
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}
	s := h.svc.Stats(r.Context(), f)
	writeJSON(w, http.StatusOK, statsResponse{
		Counts:                s.Counts,
		Active:                s.Active,
		Canceled:              s.Canceled,
		Revenue:               s.Revenue,
		AverageElapsedSeconds: int64(s.AverageElapsed / time.Second),
	})
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}
	target, err := status.Parse(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}
	var from status.Status
	if req.From != "" {
		if from, err = status.Parse(req.From); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from status"})
			return
		}
	}

	updated, err := h.svc.Advance(r.Context(), chi.URLParam(r, "id"), target, from)
	if err != nil {
		writeTransitionError(w, "update order status", err)
		return
	}

	writeJSON(w, http.StatusOK, h.toOrderResponse(*updated))
}

// Cancel handles DELETE /orders/{id}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	canceled, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeTransitionError(w, "cancel order", err)
		return
	}

	writeJSON(w, http.StatusOK, h.toOrderResponse(*canceled))
}

// --- Helpers ---

func formatItemError(idx int, msg string) string {
	return "items[" + strconv.Itoa(idx) + "]: " + msg
}

func validateItems(items []itemRequest) string {
	if len(items) == 0 {
		return "items are required"
	}
	for i, item := range items {
		if item.MenuItemID <= 0 {
			return formatItemError(i, "menu_item_id is required")
		}
		if item.Quantity <= 0 {
			return formatItemError(i, "quantity must be > 0")
		}
	}
	return ""
}

func toServiceItems(items []itemRequest) []service.ItemRequest {
	out := make([]service.ItemRequest, len(items))
	for i, item := range items {
		out[i] = service.ItemRequest{
			MenuItemID: item.MenuItemID,
			ToppingIDs: item.ToppingIDs,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
			Sweetness:  item.Sweetness,
		}
	}
	return out
}

// parseFilter reads q, start_date and end_date. Dates are YYYY-MM-DD and
// end_date covers the whole day. It writes the 400 itself on failure.
func parseFilter(w http.ResponseWriter, r *http.Request) (queue.Filter, bool) {
	f := queue.Filter{Query: r.URL.Query().Get("q")}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return queue.Filter{}, false
		}
		f.From = t
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return queue.Filter{}, false
		}
		f.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_date is before start_date"})
		return queue.Filter{}, false
	}
	return f, true
}

func writeTransitionError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, queue.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, queue.ErrStaleOrder):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed, please retry"})
	case errors.Is(err, order.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, status.ErrUnknownStatus):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyItems) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidPaymentMethod) ||
		errors.Is(err, service.ErrMissingCustomer) ||
		errors.Is(err, catalog.ErrMenuItemNotFound) ||
		errors.Is(err, catalog.ErrToppingNotFound) ||
		errors.Is(err, catalog.ErrMenuItemUnavailable) ||
		errors.Is(err, catalog.ErrToppingUnavailable) ||
		errors.Is(err, order.ErrInvalidSweetness) ||
		errors.Is(err, value.ErrQuantityTooLow)
}

func (h *OrderHandler) toOrderResponse(o order.Order) orderResponse {
	resp := orderResponse{
		Order:          o,
		StatusColor:    status.Color(o.Status),
		CanCancel:      status.CanCancel(o.Status),
		ElapsedSeconds: int64(order.Elapsed(o, h.now()) / time.Second),
	}
	if cfg, ok := status.Lookup(o.Status); ok {
		resp.StatusLabel = cfg.Label
	}
	if next, ok := order.NextActionFor(o.Status); ok {
		resp.NextAction = &next
	}
	return resp
}

func (h *OrderHandler) toOrderResponses(orders []order.Order) []orderResponse {
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = h.toOrderResponse(o)
	}
	return resp
}
