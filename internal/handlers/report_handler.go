package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bakery-backend/internal/models"
	"bakery-backend/internal/reports"
	"bakery-backend/internal/rules"
	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

type ReportHandler struct {
	Store store.Storage
}

func NewReportHandler(st store.Storage) *ReportHandler {
	return &ReportHandler{Store: st}
}

// ExpiryPDF streams the branch's expiry alert list as a PDF. Default window
// is 7 days.
func (h *ReportHandler) ExpiryPDF(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	days := 7
	if q := r.URL.Query().Get("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			utils.ValidationError(w, []utils.FieldError{{Field: "days", Message: "must be an integer"}})
			return
		}
		days = n
	}

	branch, err := h.Store.GetBranch(r.Context(), branchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Branch not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	stock, err := h.Store.ListIngredientStockExpiring(r.Context(), branchID, days)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	alerts := make([]models.ExpiryAlert, 0, len(stock))
	for _, s := range stock {
		alerts = append(alerts, models.ExpiryAlert{
			ID:              s.ID,
			IngredientName:  s.Ingredient.Name,
			Quantity:        s.Quantity,
			Unit:            s.Ingredient.Unit,
			ExpiryDate:      s.ExpiryDate,
			DaysUntilExpiry: s.DaysUntilExpiry,
			Branch:          branchID,
			SuggestedAction: rules.SuggestedAction(s.DaysUntilExpiry),
		})
	}

	pdfBytes, err := reports.GenerateExpiryPDF(branch.Name, days, alerts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="expiry-report-%s.pdf"`, branchID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
