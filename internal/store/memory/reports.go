package memory

import (
	"context"

	"github.com/google/uuid"

	"bakery-backend/internal/models"
)

// Imported optimization report tables. Reads filter by branch/store/sku when
// the argument is non-empty; Replace swaps the whole table, matching the
// delete-then-insert semantics of the bulk importer.

func (s *Store) ListProductRecipes(ctx context.Context, sku string) ([]models.ProductRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ProductRecipe, 0)
	for _, r := range s.recipes {
		if sku == "" || r.SKU == sku {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListProductionPlans(ctx context.Context, branch string) ([]models.ProductionPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ProductionPlan, 0)
	for _, r := range s.productionPlan {
		if branch == "" || r.Branch == branch {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListPromotionRecommendations(ctx context.Context, store string) ([]models.PromotionRecommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PromotionRecommendation, 0)
	for _, r := range s.promotions {
		if store == "" || r.Store == store {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListPricingSchedules(ctx context.Context, branch string) ([]models.DynamicPricingSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DynamicPricingSchedule, 0)
	for _, r := range s.pricing {
		if branch == "" || r.Branch == branch {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListShelfLifeAlerts(ctx context.Context, branch string) ([]models.ShelfLifeAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ShelfLifeAlert, 0)
	for _, r := range s.shelfAlerts {
		if branch == "" || r.Branch == branch {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListDailyActionPlans(ctx context.Context, branch string) ([]models.DailyActionPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DailyActionPlan, 0)
	for _, r := range s.dailyActions {
		if branch == "" || r.Branch == branch {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListWasteAnalysis(ctx context.Context, store string) ([]models.BranchWasteAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BranchWasteAnalysis, 0)
	for _, r := range s.wasteAnalysis {
		if store == "" || r.Store == store {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListIngredientDemandForecasts(ctx context.Context) ([]models.IngredientDemandForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.IngredientDemandForecast, 0, len(s.ingredientDmd))
	out = append(out, s.ingredientDmd...)
	return out, nil
}

func (s *Store) ReplaceProductRecipes(ctx context.Context, rows []models.ProductRecipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = s.recipes[:0]
	for _, r := range rows {
		r.ID = uuid.NewString()
		s.recipes = append(s.recipes, r)
	}
	return nil
}

func (s *Store) ReplaceProductionPlans(ctx context.Context, rows []models.ProductionPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productionPlan = s.productionPlan[:0]
	for _, r := range rows {
		r.ID = uuid.NewString()
		s.productionPlan = append(s.productionPlan, r)
	}
	return nil
}

func (s *Store) ReplacePromotionRecommendations(ctx context.Context, rows []models.PromotionRecommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotions = s.promotions[:0]
	for _, r := range rows {
		r.ID = uuid.NewString()
		s.promotions = append(s.promotions, r)
	}
	return nil
}

func (s *Store) ReplacePricingSchedules(ctx context.Context, rows []models.DynamicPricingSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pricing = s.pricing[:0]
	for _, r := range rows {
		r.ID = uuid.NewString()
		s.pricing = append(s.pricing, r)
	}
	return nil
}

func (s *Store) ReplaceShelfLifeAlerts(ctx context.Context, rows []models.ShelfLifeAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shelfAlerts = s.shelfAlerts[:0]
	for _, r := range rows {
		r.ID = uuid.NewString()
		s.shelfAlerts = append(s.shelfAlerts, r)
	}
	return nil
}

func (s *Store) ReplaceDailyActionPlans(ctx context.Context, rows []models.DailyActionPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyActions = s.dailyActions[:0]
	for _, r := range rows {
		r.ID = uuid.NewString()
		s.dailyActions = append(s.dailyActions, r)
	}
	return nil
}

func (s *Store) ReplaceWasteAnalysis(ctx context.Context, rows []models.BranchWasteAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wasteAnalysis = s.wasteAnalysis[:0]
	for _, r := range rows {
		r.ID = uuid.NewString()
		s.wasteAnalysis = append(s.wasteAnalysis, r)
	}
	return nil
}

func (s *Store) ReplaceIngredientDemandForecasts(ctx context.Context, rows []models.IngredientDemandForecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredientDmd = s.ingredientDmd[:0]
	for _, r := range rows {
		r.ID = uuid.NewString()
		s.ingredientDmd = append(s.ingredientDmd, r)
	}
	return nil
}
