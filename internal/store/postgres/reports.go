package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"bakery-backend/internal/models"
)

// The eight report tables are bulk loaded: each Replace* truncates the table
// and re-inserts inside one transaction, so readers never observe a half
// loaded table.

func (s *Store) replaceAll(ctx context.Context, table string, columns []string, rows [][]any) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
		return err
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Product recipes

func (s *Store) ListProductRecipes(ctx context.Context, sku string) ([]models.ProductRecipe, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, sku, shelf_life_days, total_cost, ingredient_code, quantity, unit, price, cost, has_substitute
		FROM product_recipes
		WHERE $1 = '' OR sku = $1
		ORDER BY sku, ingredient_code`, sku)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ProductRecipe, 0)
	for rows.Next() {
		var r models.ProductRecipe
		if err := rows.Scan(&r.ID, &r.SKU, &r.ShelfLifeDays, &r.TotalCost, &r.IngredientCode,
			&r.Quantity, &r.Unit, &r.Price, &r.Cost, &r.HasSubstitute); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceProductRecipes(ctx context.Context, recipes []models.ProductRecipe) error {
	rows := make([][]any, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []any{r.SKU, r.ShelfLifeDays, r.TotalCost, r.IngredientCode,
			r.Quantity, r.Unit, r.Price, r.Cost, r.HasSubstitute})
	}
	return s.replaceAll(ctx, "product_recipes",
		[]string{"sku", "shelf_life_days", "total_cost", "ingredient_code", "quantity", "unit", "price", "cost", "has_substitute"},
		rows)
}

// Production plans

func (s *Store) ListProductionPlans(ctx context.Context, branch string) ([]models.ProductionPlan, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, branch, product_code, product, forecast, optimal_production,
		       adjustment, reasoning, shelf_life_days, waste_rate
		FROM production_plans
		WHERE $1 = '' OR branch = $1
		ORDER BY branch, product_code`, branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ProductionPlan, 0)
	for rows.Next() {
		var p models.ProductionPlan
		if err := rows.Scan(&p.ID, &p.Branch, &p.ProductCode, &p.Product, &p.Forecast,
			&p.OptimalProduction, &p.Adjustment, &p.Reasoning, &p.ShelfLifeDays, &p.WasteRate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceProductionPlans(ctx context.Context, plans []models.ProductionPlan) error {
	rows := make([][]any, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []any{p.Branch, p.ProductCode, p.Product, p.Forecast,
			p.OptimalProduction, p.Adjustment, p.Reasoning, p.ShelfLifeDays, p.WasteRate})
	}
	return s.replaceAll(ctx, "production_plans",
		[]string{"branch", "product_code", "product", "forecast", "optimal_production", "adjustment", "reasoning", "shelf_life_days", "waste_rate"},
		rows)
}

// Promotion recommendations (waste-driven, per store)

func (s *Store) ListPromotionRecommendations(ctx context.Context, storeName string) ([]models.PromotionRecommendation, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, store, product_code, qty_sold, waste_qty, waste_rate, waste_cost, total_volume
		FROM promotion_recommendations
		WHERE $1 = '' OR store = $1
		ORDER BY store, product_code`, storeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PromotionRecommendation, 0)
	for rows.Next() {
		var p models.PromotionRecommendation
		if err := rows.Scan(&p.ID, &p.Store, &p.ProductCode, &p.QtySold, &p.WasteQty,
			&p.WasteRate, &p.WasteCost, &p.TotalVolume); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ReplacePromotionRecommendations(ctx context.Context, recs []models.PromotionRecommendation) error {
	rows := make([][]any, 0, len(recs))
	for _, p := range recs {
		rows = append(rows, []any{p.Store, p.ProductCode, p.QtySold, p.WasteQty,
			p.WasteRate, p.WasteCost, p.TotalVolume})
	}
	return s.replaceAll(ctx, "promotion_recommendations",
		[]string{"store", "product_code", "qty_sold", "waste_qty", "waste_rate", "waste_cost", "total_volume"},
		rows)
}

// Dynamic pricing schedules

func (s *Store) ListPricingSchedules(ctx context.Context, branch string) ([]models.DynamicPricingSchedule, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, branch, product_code, product, forecast_qty, time_slot,
		       discount_percent, action, reason, priority, waste_rate
		FROM dynamic_pricing_schedules
		WHERE $1 = '' OR branch = $1
		ORDER BY branch, product_code, time_slot`, branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DynamicPricingSchedule, 0)
	for rows.Next() {
		var p models.DynamicPricingSchedule
		if err := rows.Scan(&p.ID, &p.Branch, &p.ProductCode, &p.Product, &p.ForecastQty,
			&p.Time, &p.DiscountPercent, &p.Action, &p.Reason, &p.Priority, &p.WasteRate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ReplacePricingSchedules(ctx context.Context, schedules []models.DynamicPricingSchedule) error {
	rows := make([][]any, 0, len(schedules))
	for _, p := range schedules {
		rows = append(rows, []any{p.Branch, p.ProductCode, p.Product, p.ForecastQty,
			p.Time, p.DiscountPercent, p.Action, p.Reason, p.Priority, p.WasteRate})
	}
	return s.replaceAll(ctx, "dynamic_pricing_schedules",
		[]string{"branch", "product_code", "product", "forecast_qty", "time_slot", "discount_percent", "action", "reason", "priority", "waste_rate"},
		rows)
}

// Shelf life alerts

func (s *Store) ListShelfLifeAlerts(ctx context.Context, branch string) ([]models.ShelfLifeAlert, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, branch, product, product_code, shelf_life, time_slot,
		       alert_type, message, action, urgency
		FROM shelf_life_alerts
		WHERE $1 = '' OR branch = $1
		ORDER BY branch, product_code, time_slot`, branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ShelfLifeAlert, 0)
	for rows.Next() {
		var a models.ShelfLifeAlert
		if err := rows.Scan(&a.ID, &a.Branch, &a.Product, &a.ProductCode, &a.ShelfLife,
			&a.Time, &a.AlertType, &a.Message, &a.Action, &a.Urgency); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceShelfLifeAlerts(ctx context.Context, alerts []models.ShelfLifeAlert) error {
	rows := make([][]any, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []any{a.Branch, a.Product, a.ProductCode, a.ShelfLife,
			a.Time, a.AlertType, a.Message, a.Action, a.Urgency})
	}
	return s.replaceAll(ctx, "shelf_life_alerts",
		[]string{"branch", "product", "product_code", "shelf_life", "time_slot", "alert_type", "message", "action", "urgency"},
		rows)
}

// Daily action plans

func (s *Store) ListDailyActionPlans(ctx context.Context, branch string) ([]models.DailyActionPlan, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, branch, product, morning_action, afternoon_action, evening_action, shelf_life
		FROM daily_action_plans
		WHERE $1 = '' OR branch = $1
		ORDER BY branch, product`, branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DailyActionPlan, 0)
	for rows.Next() {
		var p models.DailyActionPlan
		if err := rows.Scan(&p.ID, &p.Branch, &p.Product, &p.MorningAction,
			&p.AfternoonAction, &p.EveningAction, &p.ShelfLife); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceDailyActionPlans(ctx context.Context, plans []models.DailyActionPlan) error {
	rows := make([][]any, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []any{p.Branch, p.Product, p.MorningAction,
			p.AfternoonAction, p.EveningAction, p.ShelfLife})
	}
	return s.replaceAll(ctx, "daily_action_plans",
		[]string{"branch", "product", "morning_action", "afternoon_action", "evening_action", "shelf_life"},
		rows)
}

// Branch waste analysis

func (s *Store) ListWasteAnalysis(ctx context.Context, storeName string) ([]models.BranchWasteAnalysis, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, store, qty_sold, waste_qty, waste_cost, waste_rate, total_volume
		FROM branch_waste_analysis
		WHERE $1 = '' OR store = $1
		ORDER BY store`, storeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.BranchWasteAnalysis, 0)
	for rows.Next() {
		var w models.BranchWasteAnalysis
		if err := rows.Scan(&w.ID, &w.Store, &w.QtySold, &w.WasteQty,
			&w.WasteCost, &w.WasteRate, &w.TotalVolume); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceWasteAnalysis(ctx context.Context, analysis []models.BranchWasteAnalysis) error {
	rows := make([][]any, 0, len(analysis))
	for _, w := range analysis {
		rows = append(rows, []any{w.Store, w.QtySold, w.WasteQty, w.WasteCost, w.WasteRate, w.TotalVolume})
	}
	return s.replaceAll(ctx, "branch_waste_analysis",
		[]string{"store", "qty_sold", "waste_qty", "waste_cost", "waste_rate", "total_volume"},
		rows)
}

// Ingredient demand forecasts

func (s *Store) ListIngredientDemandForecasts(ctx context.Context) ([]models.IngredientDemandForecast, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, ingredient_code, total_demand, unit, num_skus, num_branches, has_substitute, num_substitutes
		FROM ingredient_demand_forecasts
		ORDER BY ingredient_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.IngredientDemandForecast, 0)
	for rows.Next() {
		var f models.IngredientDemandForecast
		if err := rows.Scan(&f.ID, &f.IngredientCode, &f.TotalDemand, &f.Unit,
			&f.NumSKUs, &f.NumBranches, &f.HasSubstitute, &f.NumSubstitutes); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceIngredientDemandForecasts(ctx context.Context, forecasts []models.IngredientDemandForecast) error {
	rows := make([][]any, 0, len(forecasts))
	for _, f := range forecasts {
		rows = append(rows, []any{f.IngredientCode, f.TotalDemand, f.Unit,
			f.NumSKUs, f.NumBranches, f.HasSubstitute, f.NumSubstitutes})
	}
	return s.replaceAll(ctx, "ingredient_demand_forecasts",
		[]string{"ingredient_code", "total_demand", "unit", "num_skus", "num_branches", "has_substitute", "num_substitutes"},
		rows)
}
