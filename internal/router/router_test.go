package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gogo-cafe/api/internal/auth"
	"github.com/gogo-cafe/api/internal/catalog"
	"github.com/gogo-cafe/api/internal/config"
	"github.com/gogo-cafe/api/internal/enum"
	"github.com/gogo-cafe/api/internal/metrics"
	"github.com/gogo-cafe/api/internal/order"
	"github.com/gogo-cafe/api/internal/queue"
	"github.com/gogo-cafe/api/internal/router"
	"github.com/gogo-cafe/api/internal/service"
	"github.com/gogo-cafe/api/internal/ws"
	"github.com/gorilla/websocket"
)

const testPassword = "test-pass"

type testServer struct {
	*httptest.Server
	hub *ws.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenTTL:     time.Minute,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}

	users, err := auth.NewDemoDirectory(testPassword)
	if err != nil {
		t.Fatalf("directory: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	go hub.Run(ctx)

	store := queue.NewStore()
	m := metrics.New(func() float64 {
		return float64(len(store.Project(queue.Filter{}).ActiveQueue()))
	})
	svc := service.NewOrderService(catalog.Default(), store, order.NewIDGenerator(),
		service.WithObserver(m),
		service.WithObserver(ws.NewNotifier(hub)),
	)

	srv := httptest.NewServer(router.New(cfg, router.Deps{
		Menu:    catalog.Default(),
		Users:   users,
		Orders:  svc,
		Hub:     hub,
		Metrics: m,
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return &testServer{Server: srv, hub: hub}
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": testPassword})
	resp, err := http.Post(s.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", username, resp.StatusCode)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return tok.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func waitForClients(t *testing.T, hub *ws.Hub, room string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(room) < n {
		if time.Now().After(deadline) {
			t.Fatalf("room %s: %d clients, want %d", room, hub.ClientCount(room), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.do(t, "GET", "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d", resp.StatusCode)
	}
}

func TestOrdersRequireToken(t *testing.T) {
	srv := newTestServer(t)
	if resp := srv.do(t, "GET", "/orders/mine", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", resp.StatusCode)
	}
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 response, got %v", resp)
	}
}

func TestOrderFlowReachesBoardAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	customer := srv.login(t, "jane")
	barista := srv.login(t, "bob")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders?token=" + barista
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForClients(t, srv.hub, ws.StaffRoom, 1)

	resp := srv.do(t, "POST", "/orders", customer, map[string]interface{}{
		"payment_method": enum.PaymentMethodQRCode,
		"items":          []map[string]interface{}{{"menu_item_id": 1, "quantity": 1}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: status %d", resp.StatusCode)
	}
	var placed struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&placed)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read ws: %v", err)
	}
	var ev struct {
		Type    string `json:"type"`
		Payload struct {
			ID string `json:"id"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != enum.EventOrderCreated || ev.Payload.ID != placed.ID {
		t.Errorf("event: %+v", ev)
	}

	if resp := srv.do(t, "GET", "/orders/queue", customer, nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("customer on board: got %d, want 403", resp.StatusCode)
	}
	if resp := srv.do(t, "GET", "/orders/queue", barista, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("barista on board: got %d, want 200", resp.StatusCode)
	}

	resp = srv.do(t, "GET", "/metrics", "", nil)
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"gogo_orders_placed_total 1", "gogo_orders_active_queue 1"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
