package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bakery-backend/internal/handlers"
	"bakery-backend/internal/middleware"
	"bakery-backend/internal/realtime"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	branchHandler *handlers.BranchHandler,
	ingredientHandler *handlers.IngredientHandler,
	productHandler *handlers.ProductHandler,
	checkHandler *handlers.CheckHandler,
	forecastHandler *handlers.ForecastHandler,
	statsHandler *handlers.StatsHandler,
	optimizationHandler *handlers.OptimizationHandler,
	reportHandler *handlers.ReportHandler,
	imageHandler *handlers.ImageHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	hub *realtime.Hub,
) *mux.Router {
	r := mux.NewRouter()

	// Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Reference data
	r.HandleFunc("/api/branches", branchHandler.List).Methods("GET")
	r.HandleFunc("/api/branches/{branchId}", branchHandler.Get).Methods("GET")
	r.HandleFunc("/api/ingredients", ingredientHandler.List).Methods("GET")
	r.HandleFunc("/api/products", productHandler.List).Methods("GET")

	// Ingredient stock
	r.HandleFunc("/api/ingredients/stock/batch", ingredientHandler.AddStockBatch).Methods("POST")
	r.HandleFunc("/api/ingredients/stock/{branchId}", ingredientHandler.GetStock).Methods("GET")
	r.HandleFunc("/api/ingredients/expiring/{branchId}/{days}", ingredientHandler.GetExpiring).Methods("GET")
	r.HandleFunc("/api/ingredients/stock", ingredientHandler.AddStock).Methods("POST")
	r.HandleFunc("/api/ingredients/stock/{id}", ingredientHandler.UpdateStock).Methods("PATCH")
	r.HandleFunc("/api/ingredients/stock/{id}", ingredientHandler.DeleteStock).Methods("DELETE")

	// Product stock and hourly checks
	r.HandleFunc("/api/products/stock/{branchId}", productHandler.GetStock).Methods("GET")
	r.HandleFunc("/api/hourly-check", checkHandler.Submit).Methods("POST")

	// Forecasts
	r.HandleFunc("/api/forecast/{branchId}", forecastHandler.HourlyChart).Methods("GET")
	r.HandleFunc("/api/today-forecast/{branchId}", forecastHandler.TodayForecast).Methods("GET")
	r.HandleFunc("/api/forecasts/import", forecastHandler.Import).Methods("POST")
	r.HandleFunc("/api/forecasts/{branchId}/{date}", forecastHandler.GetForBranch).Methods("GET")
	r.HandleFunc("/api/forecasts/{date}", forecastHandler.ListByDate).Methods("GET")

	// Derived views
	r.HandleFunc("/api/production-plan/{branchId}", statsHandler.ProductionPlan).Methods("GET")
	r.HandleFunc("/api/stats/{branchId}", statsHandler.BranchStats).Methods("GET")

	// Imported optimization reports
	r.HandleFunc("/api/optimization/production-plans", optimizationHandler.ProductionPlans).Methods("GET")
	r.HandleFunc("/api/optimization/promotions", optimizationHandler.Promotions).Methods("GET")
	r.HandleFunc("/api/optimization/pricing-schedules", optimizationHandler.PricingSchedules).Methods("GET")
	r.HandleFunc("/api/optimization/shelf-life-alerts", optimizationHandler.ShelfLifeAlerts).Methods("GET")
	r.HandleFunc("/api/optimization/daily-actions", optimizationHandler.DailyActions).Methods("GET")
	r.HandleFunc("/api/optimization/waste-analysis", optimizationHandler.WasteAnalysis).Methods("GET")
	r.HandleFunc("/api/optimization/recipes", optimizationHandler.Recipes).Methods("GET")
	r.HandleFunc("/api/optimization/ingredient-demand", optimizationHandler.IngredientDemand).Methods("GET")

	// Printable reports
	r.HandleFunc("/api/reports/expiry/{branchId}", reportHandler.ExpiryPDF).Methods("GET")

	// Image uploads (only when object storage is configured; writes require
	// a logged-in user)
	if imageHandler != nil {
		r.Handle("/api/images",
			authMiddleware.Authenticate(http.HandlerFunc(imageHandler.Upload))).Methods("POST")
	}

	// Real-time channel
	r.HandleFunc("/ws", hub.HandleWS)

	// Health and metrics
	r.HandleFunc("/healthz", healthHandler.Basic).Methods("GET")
	r.HandleFunc("/healthz/system", healthHandler.System).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
