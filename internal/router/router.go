package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gogo-cafe/api/internal/config"
	"github.com/gogo-cafe/api/internal/handler"
	"github.com/gogo-cafe/api/internal/metrics"
	mw "github.com/gogo-cafe/api/internal/middleware"
	"github.com/gogo-cafe/api/internal/ws"
)

// Deps are the long-lived components the routes are served from.
type Deps struct {
	Menu    handler.MenuReader
	Users   handler.UserDirectory
	Orders  handler.OrderServicer
	Hub     *ws.Hub
	Metrics *metrics.Metrics
}

// New creates a Chi router with all application routes wired up.
// Menu, statuses and auth are public; orders require a bearer token.
func New(cfg *config.Config, deps Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(mw.Instrument(deps.Metrics))
	}

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	authHandler := handler.NewAuthHandler(deps.Users, cfg.JWTSecret, cfg.AccessTokenTTL)
	authHandler.RegisterRoutes(r)

	menuHandler := handler.NewMenuHandler(deps.Menu)
	r.Route("/menu", menuHandler.RegisterRoutes)
	r.Get("/statuses", handler.ListStatuses)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(deps.Hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		orderHandler := handler.NewOrderHandler(deps.Orders)
		r.Route("/orders", orderHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
