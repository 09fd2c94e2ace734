package models

import "github.com/shopspring/decimal"

// The eight report tables below mirror external optimization exports
// (spreadsheet/JSON). They are bulk loaded by cmd/import and read-only from
// the API. Field sets follow the exports one to one.

type ProductRecipe struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	ShelfLifeDays  int             `json:"shelfLifeDays"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	IngredientCode string          `json:"ingredientCode"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	Price          decimal.Decimal `json:"price"`
	Cost           decimal.Decimal `json:"cost"`
	HasSubstitute  bool            `json:"hasSubstitute"`
}

type ProductionPlan struct {
	ID                string          `json:"id"`
	Branch            string          `json:"branch"`
	ProductCode       string          `json:"productCode"`
	Product           string          `json:"product"`
	Forecast          int             `json:"forecast"`
	OptimalProduction int             `json:"optimalProduction"`
	Adjustment        int             `json:"adjustment"`
	Reasoning         string          `json:"reasoning"`
	ShelfLifeDays     int             `json:"shelfLifeDays"`
	WasteRate         decimal.Decimal `json:"wasteRate"`
}

type PromotionRecommendation struct {
	ID          string          `json:"id"`
	Store       string          `json:"store"`
	ProductCode string          `json:"productCode"`
	QtySold     int             `json:"qtySold"`
	WasteQty    int             `json:"wasteQty"`
	WasteRate   decimal.Decimal `json:"wasteRate"`
	WasteCost   decimal.Decimal `json:"wasteCost"`
	TotalVolume int             `json:"totalVolume"`
}

type DynamicPricingSchedule struct {
	ID              string          `json:"id"`
	Branch          string          `json:"branch"`
	ProductCode     string          `json:"productCode"`
	Product         string          `json:"product"`
	ForecastQty     int             `json:"forecastQty"`
	Time            string          `json:"time"`
	DiscountPercent int             `json:"discountPercent"`
	Action          string          `json:"action"`
	Reason          string          `json:"reason"`
	Priority        string          `json:"priority"`
	WasteRate       decimal.Decimal `json:"wasteRate"`
}

type ShelfLifeAlert struct {
	ID          string `json:"id"`
	Branch      string `json:"branch"`
	Product     string `json:"product"`
	ProductCode string `json:"productCode"`
	ShelfLife   int    `json:"shelfLife"`
	Time        string `json:"time"`
	AlertType   string `json:"alertType"`
	Message     string `json:"message"`
	Action      string `json:"action"`
	Urgency     string `json:"urgency"`
}

type DailyActionPlan struct {
	ID              string `json:"id"`
	Branch          string `json:"branch"`
	Product         string `json:"product"`
	MorningAction   string `json:"morningAction"`
	AfternoonAction string `json:"afternoonAction"`
	EveningAction   string `json:"eveningAction"`
	ShelfLife       int    `json:"shelfLife"`
}

type BranchWasteAnalysis struct {
	ID          string          `json:"id"`
	Store       string          `json:"store"`
	QtySold     int             `json:"qtySold"`
	WasteQty    int             `json:"wasteQty"`
	WasteCost   decimal.Decimal `json:"wasteCost"`
	WasteRate   decimal.Decimal `json:"wasteRate"`
	TotalVolume int             `json:"totalVolume"`
}

type IngredientDemandForecast struct {
	ID             string          `json:"id"`
	IngredientCode string          `json:"ingredientCode"`
	TotalDemand    decimal.Decimal `json:"totalDemand"`
	Unit           string          `json:"unit"`
	NumSKUs        int             `json:"numSkus"`
	NumBranches    int             `json:"numBranches"`
	HasSubstitute  bool            `json:"hasSubstitute"`
	NumSubstitutes int             `json:"numSubstitutes"`
}
