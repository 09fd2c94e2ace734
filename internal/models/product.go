package models

import "time"

// BakeryProduct is static reference data for a finished product.
// ShelfLifeHours is how long a produced batch remains sellable.
type BakeryProduct struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ImageURL       *string `json:"imageUrl"`
	ShelfLifeHours int     `json:"shelfLifeHours"`
}

// ProductStock is a produced batch snapshot per branch. Quantity is
// overwritten by hourly checks: the physical count becomes the new system
// truth.
type ProductStock struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	BranchID       string    `json:"branchId"`
	Quantity       int       `json:"quantity"`
	ProductionTime time.Time `json:"productionTime"`
}

// ProductStockItem is product stock joined with its product reference data.
type ProductStockItem struct {
	ProductStock
	Product BakeryProduct `json:"product"`
}
