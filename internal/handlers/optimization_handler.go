package handlers

import (
	"net/http"

	"bakery-backend/internal/cache"
	"bakery-backend/internal/models"
	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

// OptimizationHandler serves the bulk-imported report tables. Reads go
// through the redis cache when it is up; cache keys carry the filter so
// branch-scoped and global reads never mix.
type OptimizationHandler struct {
	Store store.Storage
	Cache *cache.Cache
}

func NewOptimizationHandler(st store.Storage, c *cache.Cache) *OptimizationHandler {
	return &OptimizationHandler{Store: st, Cache: c}
}

// serveCached answers from cache when possible, else loads and fills.
func serveCached[T any](h *OptimizationHandler, w http.ResponseWriter, r *http.Request, key string,
	load func() ([]T, error)) {

	var cached []T
	if h.Cache.GetJSON(r.Context(), key, &cached) {
		utils.JSON(w, http.StatusOK, cached)
		return
	}

	rows, err := load()
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch report")
		return
	}

	h.Cache.SetJSON(r.Context(), key, rows)
	utils.JSON(w, http.StatusOK, rows)
}

func (h *OptimizationHandler) ProductionPlans(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branchId")
	serveCached(h, w, r, "opt:production-plans:"+branch, func() ([]models.ProductionPlan, error) {
		return h.Store.ListProductionPlans(r.Context(), branch)
	})
}

func (h *OptimizationHandler) Promotions(w http.ResponseWriter, r *http.Request) {
	storeName := r.URL.Query().Get("branchId")
	serveCached(h, w, r, "opt:promotions:"+storeName, func() ([]models.PromotionRecommendation, error) {
		return h.Store.ListPromotionRecommendations(r.Context(), storeName)
	})
}

func (h *OptimizationHandler) PricingSchedules(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branchId")
	serveCached(h, w, r, "opt:pricing-schedules:"+branch, func() ([]models.DynamicPricingSchedule, error) {
		return h.Store.ListPricingSchedules(r.Context(), branch)
	})
}

func (h *OptimizationHandler) ShelfLifeAlerts(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branchId")
	serveCached(h, w, r, "opt:shelf-life-alerts:"+branch, func() ([]models.ShelfLifeAlert, error) {
		return h.Store.ListShelfLifeAlerts(r.Context(), branch)
	})
}

func (h *OptimizationHandler) DailyActions(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branchId")
	serveCached(h, w, r, "opt:daily-actions:"+branch, func() ([]models.DailyActionPlan, error) {
		return h.Store.ListDailyActionPlans(r.Context(), branch)
	})
}

func (h *OptimizationHandler) WasteAnalysis(w http.ResponseWriter, r *http.Request) {
	storeName := r.URL.Query().Get("branchId")
	serveCached(h, w, r, "opt:waste-analysis:"+storeName, func() ([]models.BranchWasteAnalysis, error) {
		return h.Store.ListWasteAnalysis(r.Context(), storeName)
	})
}

func (h *OptimizationHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")
	serveCached(h, w, r, "opt:recipes:"+sku, func() ([]models.ProductRecipe, error) {
		return h.Store.ListProductRecipes(r.Context(), sku)
	})
}

func (h *OptimizationHandler) IngredientDemand(w http.ResponseWriter, r *http.Request) {
	serveCached(h, w, r, "opt:ingredient-demand", func() ([]models.IngredientDemandForecast, error) {
		return h.Store.ListIngredientDemandForecasts(r.Context())
	})
}
