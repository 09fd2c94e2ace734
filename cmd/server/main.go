package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"bakery-backend/internal/auth"
	"bakery-backend/internal/cache"
	"bakery-backend/internal/config"
	"bakery-backend/internal/database"
	"bakery-backend/internal/db"
	"bakery-backend/internal/excel"
	"bakery-backend/internal/handlers"
	"bakery-backend/internal/health"
	httpapi "bakery-backend/internal/http"
	"bakery-backend/internal/middleware"
	"bakery-backend/internal/realtime"
	"bakery-backend/internal/store"
	"bakery-backend/internal/store/memory"
	"bakery-backend/internal/store/postgres"
	"bakery-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	assets := flag.String("assets", "attached_assets", "Directory holding forecast/plan xlsx exports")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	var (
		st   store.Storage
		pool *pgxpool.Pool
	)

	switch cfg.Storage.Driver {
	case "memory":
		log.Println("Using in-memory store with seed data")
		st = memory.NewSeeded()
	default:
		var err error
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err = db.Connect(ctx, cfg)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		log.Printf("Connected to database %s@%s:%d/%s",
			cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

		// Migrations are embedded so a fresh database bootstraps itself.
		log.Println("Running database migrations...")
		migrator := database.NewMigrator(pool, migrations.FS)
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		err = migrator.RunMigrations(ctx)
		cancel()
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		st = postgres.New(pool)
	}

	// Redis cache is optional. A nil cache always misses.
	reportCache := cache.New(cfg)

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Close()

	jwtManager := auth.NewJWTManager(cfg)
	parser := excel.NewParser(*assets)
	healthChecker := health.NewHealthChecker(pool)

	authHandler := handlers.NewAuthHandler(st, jwtManager)
	branchHandler := handlers.NewBranchHandler(st)
	ingredientHandler := handlers.NewIngredientHandler(st, hub)
	productHandler := handlers.NewProductHandler(st)
	checkHandler := handlers.NewCheckHandler(st, hub)
	forecastHandler := handlers.NewForecastHandler(st, hub, parser)
	statsHandler := handlers.NewStatsHandler(st, parser)
	optimizationHandler := handlers.NewOptimizationHandler(st, reportCache)
	reportHandler := handlers.NewReportHandler(st)
	imageHandler := handlers.NewImageHandler(cfg)
	healthHandler := handlers.NewHealthHandler(healthChecker, hub)

	router := httpapi.NewRouter(
		authHandler,
		branchHandler,
		ingredientHandler,
		productHandler,
		checkHandler,
		forecastHandler,
		statsHandler,
		optimizationHandler,
		reportHandler,
		imageHandler,
		healthHandler,
		middleware.NewAuthMiddleware(jwtManager),
		hub,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.Metrics(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
