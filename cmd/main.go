package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"resto-service/config"
	"resto-service/internal/drivers"
	"resto-service/internal/menu"
	"resto-service/internal/orders"
	"resto-service/internal/restaurants"
	"resto-service/internal/tracking"
	"resto-service/internal/users"
	"resto-service/migrations"
	"resto-service/pkg/db"
	"resto-service/pkg/jwt"
	"resto-service/pkg/kafka"
	"resto-service/pkg/logger"
	rredis "resto-service/pkg/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 1. Config & logging ──
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logg := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer logg.Sync()

	// ── 2. JWT secret ──
	if err := jwt.Init(cfg.JWT.Secret, cfg.JWT.Expiry); err != nil {
		logg.Fatal("jwt init failed", "error", err)
	}

	// ── 3. PostgreSQL ──
	database, err := db.Connect(ctx, cfg.Postgres.URL, logg)
	if err != nil {
		logg.Fatal("postgres connect failed", "error", err)
	}
	defer database.Close()

	if err := database.RunMigrations(ctx, migrations.FS); err != nil {
		logg.Fatal("migrations failed", "error", err)
	}

	// ── 4. Redis ──
	redisClient, err := rredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logg)
	if err != nil {
		logg.Fatal("redis connect failed", "error", err)
	}
	defer redisClient.Close()

	// ── 5. Kafka ──
	var kafkaClient *kafka.Client
	if cfg.Kafka.Enabled {
		kafkaClient = kafka.NewClient(cfg.Kafka.Brokers, logg)
		if err := kafkaClient.EnsureTopics(ctx,
			kafka.TopicOrderCreated,
			kafka.TopicOrderStatusChanged,
			kafka.TopicDriverAssigned,
		); err != nil {
			logg.Fatal("kafka topics failed", "error", err)
		}
	}

	// ── 6. Services ──
	userSvc := users.NewService(database.Pool)
	restaurantSvc := restaurants.NewService(database.Pool)
	menuSvc := menu.NewService(database.Pool)
	driverSvc := drivers.NewService(database.Pool, redisClient, cfg.Tracking.StaleThreshold)
	orderSvc := orders.NewService(database.Pool, kafkaClient, logg)

	// ── 7. Background consumers ──
	orderSvc.StartDriverAssignedConsumer(ctx)

	// ── 8. Tracking hub ──
	hub := tracking.NewHub(driverSvc, cfg.Tracking.SendBuffer, logg)

	// ── 9. HTTP router ──
	userHandler := users.NewHandler(userSvc)
	orderHandler := orders.NewHandler(orderSvc)

	r := chi.NewRouter()
	r.Use(logger.HTTPLogger(logg))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(jwt.OptionalAuth)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"resto-service"}`))
	})

	r.Mount("/auth", userHandler.AuthRoutes())
	r.Mount("/users", userHandler.Routes())
	r.Mount("/restaurants", restaurants.NewHandler(restaurantSvc).Routes())
	r.Mount("/menu", menu.NewHandler(menuSvc).Routes())
	r.Mount("/orders", orderHandler.Routes())
	r.Mount("/dashboard", orderHandler.StatsRoutes())
	r.Mount("/drivers", drivers.NewHandler(driverSvc).Routes())
	r.Mount("/ws", hub.Routes())

	// ── 10. Start server ──
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logg.Info("resto-service listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-gctx.Done():
		}
		logg.Info("shutting down")

		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		cancel() // stop consumers
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logg.Fatal("server error", "error", err)
	}
}
