package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL OPERATIONAL DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all ingredient stock lots")
	fmt.Println("  - Delete all product stock and hourly checks")
	fmt.Println("  - Delete all forecasts")
	fmt.Println("  - Delete all imported report tables")
	fmt.Println("  - Delete all users")
	fmt.Println()
	fmt.Println("Reference data (branches, ingredients, products) is kept.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "bakery_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("Resetting database...")

	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	// product_forecasts cascades from branch_forecasts but is listed anyway
	// so a partial schema does not leave rows behind.
	tables := []string{
		"hourly_checks",
		"product_stock",
		"ingredient_stock",
		"demand_forecasts",
		"product_forecasts",
		"branch_forecasts",
		"users",
		"product_recipes",
		"production_plans",
		"promotion_recommendations",
		"dynamic_pricing_schedules",
		"shelf_life_alerts",
		"daily_action_plans",
		"branch_waste_analysis",
		"ingredient_demand_forecasts",
	}

	for _, table := range tables {
		_, err = tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  ✓ Cleared %s\n", table)
	}

	err = tx.Commit(ctx)
	if err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("✅ Database reset successful!")
	fmt.Println()
	fmt.Println("Sign up a new user via POST /auth/signup to start testing.")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
