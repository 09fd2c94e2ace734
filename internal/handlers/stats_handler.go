package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"bakery-backend/internal/excel"
	"bakery-backend/internal/models"
	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

// Lots within this window count toward the dashboard's expiring tile.
const expiringStatDays = 3

type StatsHandler struct {
	Store store.Storage
	Excel *excel.Parser
}

func NewStatsHandler(st store.Storage, parser *excel.Parser) *StatsHandler {
	return &StatsHandler{Store: st, Excel: parser}
}

func (h *StatsHandler) BranchStats(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]
	ctx := r.Context()

	ingredientStock, err := h.Store.ListIngredientStock(ctx, branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	expiring, err := h.Store.ListIngredientStockExpiring(ctx, branchID, expiringStatDays)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	productStock, err := h.Store.ListProductStock(ctx, branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	totalProducts := 0
	for _, s := range productStock {
		totalProducts += s.Quantity
	}

	utils.JSON(w, http.StatusOK, models.BranchStats{
		TotalIngredients: len(ingredientStock),
		ExpiringCount:    len(expiring),
		TotalProducts:    totalProducts,
	})
}

// ProductionPlan builds one recommendation per catalog product. Forecast
// demand comes from the production-plan export when available, else from
// today's imported forecast products; without either it is zero and the
// suggestion is to cover current shortfall only.
func (h *StatsHandler) ProductionPlan(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]
	ctx := r.Context()

	products, err := h.Store.ListProducts(ctx)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch production plan")
		return
	}
	productStock, err := h.Store.ListProductStock(ctx, branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch production plan")
		return
	}

	demandByName := h.demandByProductName(r, branchID)
	hasIngredients := h.branchHasUsableIngredients(r, branchID)

	recommendations := make([]models.ProductionRecommendation, 0, len(products))
	for _, product := range products {
		currentStock := 0
		for _, s := range productStock {
			if s.ProductID == product.ID {
				currentStock = s.Quantity
				break
			}
		}

		forecastDemand := demandByName[strings.ToLower(product.Name)]
		suggested := forecastDemand - currentStock
		if suggested < 0 {
			suggested = 0
		}

		recommendations = append(recommendations, models.ProductionRecommendation{
			ID:                   product.ID,
			Name:                 product.Name,
			CurrentStock:         currentStock,
			ForecastDemand:       forecastDemand,
			SuggestedProduction:  suggested,
			IngredientsAvailable: hasIngredients,
			ShelfLifeHours:       product.ShelfLifeHours,
		})
	}

	utils.JSON(w, http.StatusOK, recommendations)
}

func (h *StatsHandler) demandByProductName(r *http.Request, branchID string) map[string]int {
	demand := make(map[string]int)

	if h.Excel != nil {
		if plans, err := h.Excel.ParseProductionPlans(); err == nil {
			for _, plan := range plans {
				if plan.Branch == "" || plan.Branch == branchID {
					demand[strings.ToLower(plan.Product)] = plan.RecommendedQuantity
				}
			}
			if len(demand) > 0 {
				return demand
			}
		}
	}

	today := time.Now().Format(dateLayout)
	forecast, err := h.Store.GetBranchForecast(r.Context(), branchID, today)
	if err != nil {
		return demand
	}
	for _, p := range forecast.Products {
		demand[strings.ToLower(p.ProductName)] = p.ForecastQuantity
	}
	return demand
}

// branchHasUsableIngredients reports whether at least one unexpired lot is
// on hand.
func (h *StatsHandler) branchHasUsableIngredients(r *http.Request, branchID string) bool {
	stock, err := h.Store.ListIngredientStock(r.Context(), branchID)
	if err != nil {
		return false
	}
	for _, lot := range stock {
		if lot.DaysUntilExpiry >= 0 && !lot.Quantity.IsZero() {
			return true
		}
	}
	return false
}
