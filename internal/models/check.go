package models

// HourlyCheck is the append-only audit record of one product count during an
// hourly check. Variance = CountedQuantity - SystemQuantity; negative means
// shrinkage.
type HourlyCheck struct {
	ID              string `json:"id"`
	BranchID        string `json:"branchId"`
	ProductID       string `json:"productId"`
	CheckTime       string `json:"checkTime"`
	CountedQuantity int    `json:"countedQuantity"`
	SystemQuantity  int    `json:"systemQuantity"`
	Variance        int    `json:"variance"`
}

// HourlyCheckEntry is one product's count in a check submission.
type HourlyCheckEntry struct {
	ProductID       string `json:"productId"`
	CountedQuantity *int   `json:"countedQuantity"`
	SystemQuantity  *int   `json:"systemQuantity"`
}

// HourlyCheckRequest is the body of POST /api/hourly-check.
type HourlyCheckRequest struct {
	BranchID string             `json:"branchId"`
	Checks   []HourlyCheckEntry `json:"checks"`
}

// PromotionAdvice is the advisory output of the low-stock heuristic. It is
// returned with the check result and broadcast, never persisted.
type PromotionAdvice struct {
	ProductID string `json:"productId"`
	Discount  int    `json:"discount"`
	Reason    string `json:"reason"`
}

// HourlyCheckResult is the response of POST /api/hourly-check.
type HourlyCheckResult struct {
	Checks          []HourlyCheck     `json:"checks"`
	Recommendations []PromotionAdvice `json:"recommendations"`
}
