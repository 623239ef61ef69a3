package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogo-cafe/api/internal/auth"
	"github.com/gogo-cafe/api/internal/catalog"
	"github.com/gogo-cafe/api/internal/config"
	"github.com/gogo-cafe/api/internal/database"
	"github.com/gogo-cafe/api/internal/metrics"
	"github.com/gogo-cafe/api/internal/order"
	"github.com/gogo-cafe/api/internal/queue"
	"github.com/gogo-cafe/api/internal/router"
	"github.com/gogo-cafe/api/internal/service"
	"github.com/gogo-cafe/api/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	users, err := auth.NewDemoDirectory(cfg.DemoPassword)
	if err != nil {
		return fmt.Errorf("demo users: %w", err)
	}
	menu := catalog.Default()

	// Orders live in memory; Postgres, when configured, keeps a durable copy.
	var storeOpts []queue.Option
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		storeOpts = append(storeOpts, queue.WithPersister(database.NewOrderRepository(pool)))
		log.Println("Connected to database")
	} else {
		log.Println("DATABASE_URL not set, orders are kept in memory only")
	}

	store := queue.NewStore(storeOpts...)
	n, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	log.Printf("Loaded %d orders", n)

	hub := ws.NewHub()
	go hub.Run(ctx)

	m := metrics.New(func() float64 {
		return float64(len(store.Project(queue.Filter{}).ActiveQueue()))
	})

	orders := service.NewOrderService(menu, store, order.NewIDGenerator(),
		service.WithObserver(m),
		service.WithObserver(ws.NewNotifier(hub)),
	)
	orders.SyncIDs()

	if cfg.SeedSampleOrders && n == 0 {
		var customers []order.Customer
		for _, u := range users.Customers() {
			customers = append(customers, order.Customer{ID: u.ID.String(), Name: u.Name})
		}
		seeded, err := orders.SeedSampleOrders(ctx, customers)
		if err != nil {
			return fmt.Errorf("seed sample orders: %w", err)
		}
		log.Printf("Seeded %d sample orders", len(seeded))
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(cfg, router.Deps{
			Menu:    menu,
			Users:   users,
			Orders:  orders,
			Hub:     hub,
			Metrics: m,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
