// Package store defines the storage contract shared by the in-memory and
// PostgreSQL implementations. The implementation is chosen once at startup;
// handlers only ever see this interface.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bakery-backend/internal/models"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on unique-constraint violations
	// (duplicate username, duplicate branch id).
	ErrConflict = errors.New("already exists")
)

// Storage is the uniform contract over the data store. Multi-row writes are
// best-effort, not atomic, unless a method documents otherwise: a failing
// item leaves previously written items in place.
type Storage interface {
	// Users
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	// Branches
	ListBranches(ctx context.Context) ([]models.Branch, error)
	GetBranch(ctx context.Context, id string) (*models.Branch, error)
	CreateBranch(ctx context.Context, branch models.Branch) (*models.Branch, error)

	// Ingredients
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, ingredient models.Ingredient) (*models.Ingredient, error)

	// Ingredient stock lots. Listings join ingredient reference data;
	// lots whose ingredient no longer exists are omitted.
	ListIngredientStock(ctx context.Context, branchID string) ([]models.IngredientStockItem, error)
	ListIngredientStockExpiring(ctx context.Context, branchID string, days int) ([]models.IngredientStockItem, error)
	AddIngredientStock(ctx context.Context, lot models.IngredientStock) (*models.IngredientStock, error)
	UpdateIngredientStockQuantity(ctx context.Context, id string, quantity decimal.Decimal) (*models.IngredientStock, error)
	DeleteIngredientStock(ctx context.Context, id string) error

	// Bakery products
	ListProducts(ctx context.Context) ([]models.BakeryProduct, error)
	GetProduct(ctx context.Context, id string) (*models.BakeryProduct, error)
	CreateProduct(ctx context.Context, product models.BakeryProduct) (*models.BakeryProduct, error)

	// Product stock snapshots
	ListProductStock(ctx context.Context, branchID string) ([]models.ProductStockItem, error)
	AddProductStock(ctx context.Context, stock models.ProductStock) (*models.ProductStock, error)
	UpdateProductStockQuantity(ctx context.Context, id string, quantity int) (*models.ProductStock, error)

	// Hourly checks (append-only)
	AddHourlyCheck(ctx context.Context, check models.HourlyCheck) (*models.HourlyCheck, error)
	ListHourlyChecks(ctx context.Context, branchID string, day time.Time) ([]models.HourlyCheck, error)

	// Hourly demand forecasts
	ListDemandForecasts(ctx context.Context, branchID string, date string) ([]models.DemandForecast, error)
	AddDemandForecast(ctx context.Context, forecast models.DemandForecast) (*models.DemandForecast, error)

	// Branch forecasts. AddBranchForecast persists the branch row and its
	// product rows together; the PostgreSQL implementation wraps both in a
	// transaction.
	ListBranchForecasts(ctx context.Context, date string) ([]models.BranchForecast, error)
	GetBranchForecast(ctx context.Context, branchID, date string) (*models.BranchForecastWithProducts, error)
	AddBranchForecast(ctx context.Context, forecast models.BranchForecast, products []models.ProductForecast) (*models.BranchForecast, error)
	ListProductForecasts(ctx context.Context, branchForecastID string) ([]models.ProductForecast, error)

	// Imported optimization report tables: read by the API, replaced in
	// bulk by cmd/import. An empty branch/store/sku filter means all rows.
	ListProductRecipes(ctx context.Context, sku string) ([]models.ProductRecipe, error)
	ListProductionPlans(ctx context.Context, branch string) ([]models.ProductionPlan, error)
	ListPromotionRecommendations(ctx context.Context, store string) ([]models.PromotionRecommendation, error)
	ListPricingSchedules(ctx context.Context, branch string) ([]models.DynamicPricingSchedule, error)
	ListShelfLifeAlerts(ctx context.Context, branch string) ([]models.ShelfLifeAlert, error)
	ListDailyActionPlans(ctx context.Context, branch string) ([]models.DailyActionPlan, error)
	ListWasteAnalysis(ctx context.Context, store string) ([]models.BranchWasteAnalysis, error)
	ListIngredientDemandForecasts(ctx context.Context) ([]models.IngredientDemandForecast, error)

	ReplaceProductRecipes(ctx context.Context, rows []models.ProductRecipe) error
	ReplaceProductionPlans(ctx context.Context, rows []models.ProductionPlan) error
	ReplacePromotionRecommendations(ctx context.Context, rows []models.PromotionRecommendation) error
	ReplacePricingSchedules(ctx context.Context, rows []models.DynamicPricingSchedule) error
	ReplaceShelfLifeAlerts(ctx context.Context, rows []models.ShelfLifeAlert) error
	ReplaceDailyActionPlans(ctx context.Context, rows []models.DailyActionPlan) error
	ReplaceWasteAnalysis(ctx context.Context, rows []models.BranchWasteAnalysis) error
	ReplaceIngredientDemandForecasts(ctx context.Context, rows []models.IngredientDemandForecast) error
}
