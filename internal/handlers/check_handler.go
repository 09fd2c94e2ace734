package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"bakery-backend/internal/models"
	"bakery-backend/internal/realtime"
	"bakery-backend/internal/rules"
	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

type CheckHandler struct {
	Store store.Storage
	Hub   *realtime.Hub
}

func NewCheckHandler(st store.Storage, hub *realtime.Hub) *CheckHandler {
	return &CheckHandler{Store: st, Hub: hub}
}

func validateHourlyCheck(req *models.HourlyCheckRequest) []utils.FieldError {
	var errs []utils.FieldError
	if req.BranchID == "" {
		errs = append(errs, utils.FieldError{Field: "branchId", Message: "required"})
	}
	if len(req.Checks) == 0 {
		errs = append(errs, utils.FieldError{Field: "checks", Message: "must not be empty"})
	}
	for i, c := range req.Checks {
		prefix := "checks[" + strconv.Itoa(i) + "]."
		if c.ProductID == "" {
			errs = append(errs, utils.FieldError{Field: prefix + "productId", Message: "required"})
		}
		if c.CountedQuantity == nil {
			errs = append(errs, utils.FieldError{Field: prefix + "countedQuantity", Message: "required"})
		} else if *c.CountedQuantity < 0 {
			errs = append(errs, utils.FieldError{Field: prefix + "countedQuantity", Message: "must not be negative"})
		}
		if c.SystemQuantity == nil {
			errs = append(errs, utils.FieldError{Field: prefix + "systemQuantity", Message: "required"})
		}
	}
	return errs
}

// Submit records one hourly count per product. Each product is an
// independent write: an audit row is appended, then the branch's product
// stock is overwritten with the counted value. A failure partway leaves the
// earlier products' writes in place.
func (h *CheckHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.HourlyCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validateHourlyCheck(&req); len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	checkTime := time.Now().Format(time.RFC3339)

	checks := make([]models.HourlyCheck, 0, len(req.Checks))
	for _, c := range req.Checks {
		counted := *c.CountedQuantity
		system := *c.SystemQuantity

		check, err := h.Store.AddHourlyCheck(r.Context(), models.HourlyCheck{
			BranchID:        req.BranchID,
			ProductID:       c.ProductID,
			CheckTime:       checkTime,
			CountedQuantity: counted,
			SystemQuantity:  system,
			Variance:        rules.Variance(counted, system),
		})
		if err != nil {
			utils.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "Failed to process hourly check",
				"created": checks,
			})
			return
		}

		// The physical count becomes the new system truth.
		stock, err := h.Store.ListProductStock(r.Context(), req.BranchID)
		if err != nil {
			utils.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "Failed to process hourly check",
				"created": checks,
			})
			return
		}
		for _, s := range stock {
			if s.ProductID == c.ProductID {
				if _, err := h.Store.UpdateProductStockQuantity(r.Context(), s.ID, counted); err != nil {
					utils.JSON(w, http.StatusInternalServerError, map[string]any{
						"error":   "Failed to process hourly check",
						"created": checks,
					})
					return
				}
				break
			}
		}

		checks = append(checks, *check)
	}

	h.Hub.Publish(req.BranchID, realtime.Event{
		Type:     realtime.EventProductStockUpdated,
		BranchID: req.BranchID,
		Payload:  map[string]any{"kind": "hourly-check-completed", "count": len(checks)},
	})

	recommendations := make([]models.PromotionAdvice, 0)
	for _, c := range req.Checks {
		if c.CountedQuantity != nil && rules.PromotionEligible(*c.CountedQuantity) {
			recommendations = append(recommendations, models.PromotionAdvice{
				ProductID: c.ProductID,
				Discount:  rules.PromotionDiscountPercent,
				Reason:    rules.LowStockReason,
			})
		}
	}
	if len(recommendations) > 0 {
		h.Hub.Publish(req.BranchID, realtime.Event{
			Type:     realtime.EventPromotion,
			BranchID: req.BranchID,
			Payload:  map[string]any{"recommendations": recommendations},
		})
	}

	utils.JSON(w, http.StatusOK, models.HourlyCheckResult{
		Checks:          checks,
		Recommendations: recommendations,
	})
}
