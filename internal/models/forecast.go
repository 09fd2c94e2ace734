package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandForecast is one hourly demand prediction for a product at a branch.
type DemandForecast struct {
	ID              string `json:"id"`
	BranchID        string `json:"branchId"`
	ProductID       string `json:"productId"`
	ForecastDate    string `json:"forecastDate"`
	Hour            int    `json:"hour"`
	PredictedDemand int    `json:"predictedDemand"`
}

// BranchForecast is one imported forecast for a branch on a date.
// Accuracy is the rounded mean of the child product accuracies; nil when the
// import carried no products.
type BranchForecast struct {
	ID            string           `json:"id"`
	BranchID      string           `json:"branchId"`
	BranchName    string           `json:"branchName"`
	ForecastDate  string           `json:"forecastDate"`
	TotalForecast int              `json:"totalForecast"`
	Accuracy      *decimal.Decimal `json:"accuracy"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ProductForecast is one product row owned by a BranchForecast. ModelType is
// an opaque label of the forecasting method ("Hybrid", "ARIMA", ...).
type ProductForecast struct {
	ID               string           `json:"id"`
	BranchForecastID string           `json:"branchForecastId"`
	ProductID        *string          `json:"productId"`
	ProductCode      *string          `json:"productCode"`
	ProductName      string           `json:"productName"`
	ForecastQuantity int              `json:"forecastQuantity"`
	MinQuantity      *int             `json:"minQuantity"`
	MaxQuantity      *int             `json:"maxQuantity"`
	Accuracy         *decimal.Decimal `json:"accuracy"`
	ModelType        *string          `json:"modelType"`
}

// BranchForecastWithProducts is a branch forecast with its owned products.
type BranchForecastWithProducts struct {
	BranchForecast
	Products []ProductForecast `json:"products"`
}

// ImportProductForecast is one product row of a forecast import payload.
type ImportProductForecast struct {
	ProductID        *string          `json:"productId"`
	ProductCode      *string          `json:"productCode"`
	ProductName      string           `json:"productName"`
	ForecastQuantity int              `json:"forecastQuantity"`
	MinQuantity      *int             `json:"minQuantity"`
	MaxQuantity      *int             `json:"maxQuantity"`
	Accuracy         *decimal.Decimal `json:"accuracy"`
	ModelType        *string          `json:"modelType"`
}

// ImportBranchForecast is one branch block of a forecast import payload.
type ImportBranchForecast struct {
	BranchID      string                  `json:"branchId"`
	BranchName    string                  `json:"branchName"`
	TotalForecast int                     `json:"totalForecast"`
	Accuracy      *decimal.Decimal        `json:"accuracy"`
	Products      []ImportProductForecast `json:"products"`
}

// ImportForecastRequest is the body of POST /api/forecasts/import.
type ImportForecastRequest struct {
	ForecastDate string                 `json:"forecastDate"`
	Branches     []ImportBranchForecast `json:"branches"`
}

// ImportForecastResult is the response of POST /api/forecasts/import.
type ImportForecastResult struct {
	Success         bool             `json:"success"`
	Count           int              `json:"count"`
	Forecasts       []BranchForecast `json:"forecasts"`
	OverallAccuracy *decimal.Decimal `json:"overallAccuracy"`
}

// HourlyForecastPoint is one point of the hourly demand chart
// (GET /api/forecast/{branchId}).
type HourlyForecastPoint struct {
	Hour      string `json:"hour"`
	Predicted int    `json:"predicted"`
	Actual    *int   `json:"actual,omitempty"`
}

// ProductForecastWithStock joins a forecast product with the branch's live
// product stock for the today-forecast view.
type ProductForecastWithStock struct {
	ProductName      string           `json:"productName"`
	ProductCode      *string          `json:"productCode"`
	ForecastQuantity int              `json:"forecastQuantity"`
	MinQuantity      *int             `json:"minQuantity"`
	MaxQuantity      *int             `json:"maxQuantity"`
	CurrentStock     int              `json:"currentStock"`
	HoursOnShelf     float64          `json:"hoursOnShelf"`
	NeedsPromotion   bool             `json:"needsPromotion"`
	ShelfLifeHours   int              `json:"shelfLifeHours"`
	Accuracy         *decimal.Decimal `json:"accuracy"`
	ModelType        *string          `json:"modelType"`
}

// TodayForecast is the response of GET /api/today-forecast/{branchId}.
type TodayForecast struct {
	Date          string                     `json:"date"`
	BranchID      string                     `json:"branchId"`
	BranchName    string                     `json:"branchName"`
	TotalForecast int                        `json:"totalForecast"`
	Accuracy      *decimal.Decimal           `json:"accuracy"`
	Products      []ProductForecastWithStock `json:"products"`
}

// ProductionRecommendation is one row of GET /api/production-plan/{branchId}.
type ProductionRecommendation struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	CurrentStock         int    `json:"currentStock"`
	ForecastDemand       int    `json:"forecastDemand"`
	SuggestedProduction  int    `json:"suggestedProduction"`
	IngredientsAvailable bool   `json:"ingredientsAvailable"`
	ShelfLifeHours       int    `json:"shelfLifeHours"`
}

// BranchStats is the response of GET /api/stats/{branchId}.
type BranchStats struct {
	TotalIngredients int `json:"totalIngredients"`
	ExpiringCount    int `json:"expiringCount"`
	TotalProducts    int `json:"totalProducts"`
}
