// Command import bulk loads the optimization report exports into the
// database. Each JSON file under <dir> replaces one report table wholesale.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"bakery-backend/internal/cache"
	"bakery-backend/internal/config"
	"bakery-backend/internal/database"
	"bakery-backend/internal/db"
	"bakery-backend/internal/models"
	"bakery-backend/internal/store/postgres"
	"bakery-backend/migrations"
)

// The exports use the analysts' column headers verbatim, so each file gets
// its own raw struct and a mapping into the API model.

type rawRecipe struct {
	SKU            string          `json:"SKU"`
	ShelfLifeDays  int             `json:"Shelf_Life_Days"`
	TotalCost      decimal.Decimal `json:"Total_Cost"`
	IngredientCode string          `json:"Ingredient_Code"`
	Quantity       decimal.Decimal `json:"Quantity"`
	Unit           string          `json:"Unit"`
	Price          decimal.Decimal `json:"Price"`
	Cost           decimal.Decimal `json:"Cost"`
	HasSubstitute  bool            `json:"Has_Substitute"`
}

type rawProductionPlan struct {
	Branch            string          `json:"Branch"`
	ProductCode       json.Number     `json:"Product_Code"`
	Product           string          `json:"Product"`
	Forecast          int             `json:"Forecast"`
	OptimalProduction int             `json:"Optimal_Production"`
	Adjustment        int             `json:"Adjustment"`
	Reasoning         string          `json:"Reasoning"`
	ShelfLifeDays     int             `json:"Shelf_Life_Days"`
	WasteRate         decimal.Decimal `json:"Waste_Rate"`
}

type rawPromotion struct {
	Store       string          `json:"store"`
	ProductCode string          `json:"product_code"`
	QtySold     int             `json:"qty_sold"`
	WasteQty    int             `json:"waste_qty"`
	WasteRate   decimal.Decimal `json:"waste_rate"`
	WasteCost   decimal.Decimal `json:"waste_cost"`
	TotalVolume int             `json:"total_volume"`
}

type rawPricing struct {
	Branch          string          `json:"Branch"`
	ProductCode     json.Number     `json:"Product_Code"`
	Product         string          `json:"Product"`
	ForecastQty     int             `json:"Forecast_Qty"`
	Time            string          `json:"Time"`
	DiscountPercent int             `json:"Discount_%"`
	Action          string          `json:"Action"`
	Reason          string          `json:"Reason"`
	Priority        string          `json:"Priority"`
	WasteRate       decimal.Decimal `json:"Waste_Rate"`
}

type rawShelfLifeAlert struct {
	Branch      string      `json:"Branch"`
	Product     string      `json:"Product"`
	ProductCode json.Number `json:"Product_Code"`
	ShelfLife   int         `json:"Shelf_Life"`
	Time        string      `json:"Time"`
	AlertType   string      `json:"Alert_Type"`
	Message     string      `json:"Message"`
	Action      string      `json:"Action"`
	Urgency     string      `json:"Urgency"`
}

type rawActionPlan struct {
	Branch          string `json:"Branch"`
	Product         string `json:"Product"`
	MorningAction   string `json:"Morning_Action"`
	AfternoonAction string `json:"Afternoon_Action"`
	EveningAction   string `json:"Evening_Action"`
	ShelfLife       int    `json:"Shelf_Life"`
}

type rawWaste struct {
	Store       string          `json:"store"`
	QtySold     int             `json:"qty_sold"`
	WasteQty    int             `json:"waste_qty"`
	WasteCost   decimal.Decimal `json:"waste_cost"`
	WasteRate   decimal.Decimal `json:"waste_rate"`
	TotalVolume int             `json:"total_volume"`
}

type rawDemand struct {
	IngredientCode string          `json:"Ingredient_Code"`
	TotalDemand    decimal.Decimal `json:"Total_Demand"`
	Unit           string          `json:"Unit"`
	NumSKUs        int             `json:"Num_SKUs"`
	NumBranches    int             `json:"Num_Branches"`
	HasSubstitute  bool            `json:"Has_Substitute"`
	NumSubstitutes int             `json:"Num_Substitutes"`
}

func readJSON[T any](dir, name string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rows, nil
}

func main() {
	dir := flag.String("dir", filepath.Join("attached_assets", "converted_files"),
		"Directory holding the report JSON exports")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	st := postgres.New(pool)
	log.Println("Starting data import...")

	recipes, err := readJSON[rawRecipe](*dir, "Ingredient_Report_1_SKU_Recipes.json")
	if err != nil {
		log.Fatal(err)
	}
	recipeRows := make([]models.ProductRecipe, len(recipes))
	for i, r := range recipes {
		recipeRows[i] = models.ProductRecipe{
			SKU:            r.SKU,
			ShelfLifeDays:  r.ShelfLifeDays,
			TotalCost:      r.TotalCost,
			IngredientCode: r.IngredientCode,
			Quantity:       r.Quantity,
			Unit:           r.Unit,
			Price:          r.Price,
			Cost:           r.Cost,
			HasSubstitute:  r.HasSubstitute,
		}
	}
	if err := st.ReplaceProductRecipes(ctx, recipeRows); err != nil {
		log.Fatalf("product recipes: %v", err)
	}
	log.Printf("Imported %d product recipes", len(recipeRows))

	plans, err := readJSON[rawProductionPlan](*dir, "Optimization_2_Production_Plans.json")
	if err != nil {
		log.Fatal(err)
	}
	planRows := make([]models.ProductionPlan, len(plans))
	for i, r := range plans {
		planRows[i] = models.ProductionPlan{
			Branch:            r.Branch,
			ProductCode:       r.ProductCode.String(),
			Product:           r.Product,
			Forecast:          r.Forecast,
			OptimalProduction: r.OptimalProduction,
			Adjustment:        r.Adjustment,
			Reasoning:         r.Reasoning,
			ShelfLifeDays:     r.ShelfLifeDays,
			WasteRate:         r.WasteRate,
		}
	}
	if err := st.ReplaceProductionPlans(ctx, planRows); err != nil {
		log.Fatalf("production plans: %v", err)
	}
	log.Printf("Imported %d production plans", len(planRows))

	promos, err := readJSON[rawPromotion](*dir, "Report_3_Promotion_Recommendations.json")
	if err != nil {
		log.Fatal(err)
	}
	promoRows := make([]models.PromotionRecommendation, len(promos))
	for i, r := range promos {
		promoRows[i] = models.PromotionRecommendation{
			Store:       r.Store,
			ProductCode: r.ProductCode,
			QtySold:     r.QtySold,
			WasteQty:    r.WasteQty,
			WasteRate:   r.WasteRate,
			WasteCost:   r.WasteCost,
			TotalVolume: r.TotalVolume,
		}
	}
	if err := st.ReplacePromotionRecommendations(ctx, promoRows); err != nil {
		log.Fatalf("promotion recommendations: %v", err)
	}
	log.Printf("Imported %d promotion recommendations", len(promoRows))

	pricing, err := readJSON[rawPricing](*dir, "Optimization_1_Dynamic_Pricing_Schedule.json")
	if err != nil {
		log.Fatal(err)
	}
	pricingRows := make([]models.DynamicPricingSchedule, len(pricing))
	for i, r := range pricing {
		pricingRows[i] = models.DynamicPricingSchedule{
			Branch:          r.Branch,
			ProductCode:     r.ProductCode.String(),
			Product:         r.Product,
			ForecastQty:     r.ForecastQty,
			Time:            r.Time,
			DiscountPercent: r.DiscountPercent,
			Action:          r.Action,
			Reason:          r.Reason,
			Priority:        r.Priority,
			WasteRate:       r.WasteRate,
		}
	}
	if err := st.ReplacePricingSchedules(ctx, pricingRows); err != nil {
		log.Fatalf("pricing schedules: %v", err)
	}
	log.Printf("Imported %d dynamic pricing schedules", len(pricingRows))

	alerts, err := readJSON[rawShelfLifeAlert](*dir, "Optimization_3_Shelf_Life_Alerts.json")
	if err != nil {
		log.Fatal(err)
	}
	alertRows := make([]models.ShelfLifeAlert, len(alerts))
	for i, r := range alerts {
		alertRows[i] = models.ShelfLifeAlert{
			Branch:      r.Branch,
			Product:     r.Product,
			ProductCode: r.ProductCode.String(),
			ShelfLife:   r.ShelfLife,
			Time:        r.Time,
			AlertType:   r.AlertType,
			Message:     r.Message,
			Action:      r.Action,
			Urgency:     r.Urgency,
		}
	}
	if err := st.ReplaceShelfLifeAlerts(ctx, alertRows); err != nil {
		log.Fatalf("shelf life alerts: %v", err)
	}
	log.Printf("Imported %d shelf life alerts", len(alertRows))

	actions, err := readJSON[rawActionPlan](*dir, "Optimization_4_Daily_Action_Plan.json")
	if err != nil {
		log.Fatal(err)
	}
	actionRows := make([]models.DailyActionPlan, len(actions))
	for i, r := range actions {
		actionRows[i] = models.DailyActionPlan{
			Branch:          r.Branch,
			Product:         r.Product,
			MorningAction:   r.MorningAction,
			AfternoonAction: r.AfternoonAction,
			EveningAction:   r.EveningAction,
			ShelfLife:       r.ShelfLife,
		}
	}
	if err := st.ReplaceDailyActionPlans(ctx, actionRows); err != nil {
		log.Fatalf("daily action plans: %v", err)
	}
	log.Printf("Imported %d daily action plans", len(actionRows))

	waste, err := readJSON[rawWaste](*dir, "Report_2_Branch_Waste_Analysis.json")
	if err != nil {
		log.Fatal(err)
	}
	wasteRows := make([]models.BranchWasteAnalysis, len(waste))
	for i, r := range waste {
		wasteRows[i] = models.BranchWasteAnalysis{
			Store:       r.Store,
			QtySold:     r.QtySold,
			WasteQty:    r.WasteQty,
			WasteCost:   r.WasteCost,
			WasteRate:   r.WasteRate,
			TotalVolume: r.TotalVolume,
		}
	}
	if err := st.ReplaceWasteAnalysis(ctx, wasteRows); err != nil {
		log.Fatalf("waste analysis: %v", err)
	}
	log.Printf("Imported %d branch waste analysis records", len(wasteRows))

	demand, err := readJSON[rawDemand](*dir, "Ingredient_Report_3_Demand_Forecast.json")
	if err != nil {
		log.Fatal(err)
	}
	demandRows := make([]models.IngredientDemandForecast, len(demand))
	for i, r := range demand {
		demandRows[i] = models.IngredientDemandForecast{
			IngredientCode: r.IngredientCode,
			TotalDemand:    r.TotalDemand,
			Unit:           r.Unit,
			NumSKUs:        r.NumSKUs,
			NumBranches:    r.NumBranches,
			HasSubstitute:  r.HasSubstitute,
			NumSubstitutes: r.NumSubstitutes,
		}
	}
	if err := st.ReplaceIngredientDemandForecasts(ctx, demandRows); err != nil {
		log.Fatalf("ingredient demand forecasts: %v", err)
	}
	log.Printf("Imported %d ingredient demand forecasts", len(demandRows))

	// Drop any cached report reads so the API serves the new data.
	if c := cache.New(cfg); c != nil {
		c.Invalidate(ctx, "opt:*")
	}

	log.Println("Data import completed")
}
