package models

import "github.com/shopspring/decimal"

// Ingredient is static reference data for a raw material.
type Ingredient struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	ImageURL *string `json:"imageUrl"`
}

// IngredientStock is one received lot of an ingredient at a branch.
// Quantity uses the ingredient's unit. Expiry and received dates are
// calendar dates in YYYY-MM-DD form.
type IngredientStock struct {
	ID              string          `json:"id"`
	IngredientID    string          `json:"ingredientId"`
	BranchID        string          `json:"branchId"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExpiryDate      string          `json:"expiryDate"`
	BatchNumber     *string         `json:"batchNumber"`
	ReceivedDate    string          `json:"receivedDate"`
	IsFromYesterday bool            `json:"isFromYesterday"`
}

// IngredientStockItem is a lot joined with its ingredient reference data,
// as returned by stock listings. DaysUntilExpiry is computed at query time,
// never stored.
type IngredientStockItem struct {
	IngredientStock
	Ingredient      Ingredient `json:"ingredient"`
	DaysUntilExpiry int        `json:"daysUntilExpiry"`
}

// ExpiryAlert is the alert view for lots expiring soon.
type ExpiryAlert struct {
	ID              string          `json:"id"`
	IngredientName  string          `json:"ingredientName"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	ExpiryDate      string          `json:"expiryDate"`
	DaysUntilExpiry int             `json:"daysUntilExpiry"`
	Branch          string          `json:"branch"`
	SuggestedAction string          `json:"suggestedAction"`
}

// AddIngredientStockRequest is the body of POST /api/ingredients/stock.
type AddIngredientStockRequest struct {
	IngredientID    string           `json:"ingredientId"`
	BranchID        string           `json:"branchId"`
	Quantity        *decimal.Decimal `json:"quantity"`
	ExpiryDate      string           `json:"expiryDate"`
	BatchNumber     *string          `json:"batchNumber"`
	ReceivedDate    string           `json:"receivedDate"`
	IsFromYesterday *bool            `json:"isFromYesterday"`
}

// BatchStockEntry is one item of a batch ingredient-stock submission.
type BatchStockEntry struct {
	IngredientID string           `json:"ingredientId"`
	Quantity     *decimal.Decimal `json:"quantity"`
	ExpiryDate   string           `json:"expiryDate"`
	BatchNumber  *string          `json:"batchNumber"`
}

// BatchStockRequest is the body of POST /api/ingredients/stock/batch.
// Type is "yesterday" for carryover lots or "today" for fresh deliveries.
type BatchStockRequest struct {
	BranchID string            `json:"branchId"`
	Type     string            `json:"type"`
	Entries  []BatchStockEntry `json:"entries"`
}
