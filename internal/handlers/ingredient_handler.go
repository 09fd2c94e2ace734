package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"bakery-backend/internal/models"
	"bakery-backend/internal/realtime"
	"bakery-backend/internal/rules"
	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

const dateLayout = "2006-01-02"

type IngredientHandler struct {
	Store store.Storage
	Hub   *realtime.Hub
}

func NewIngredientHandler(st store.Storage, hub *realtime.Hub) *IngredientHandler {
	return &IngredientHandler{Store: st, Hub: hub}
}

func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.Store.ListIngredients(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch ingredients")
		return
	}
	utils.JSON(w, http.StatusOK, ingredients)
}

// GetStock lists a branch's lots with daysUntilExpiry computed. Carryover
// lots sort first, then by received date ascending.
func (h *IngredientHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	stock, err := h.Store.ListIngredientStock(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch ingredient stock")
		return
	}

	sort.SliceStable(stock, func(i, j int) bool {
		if stock[i].IsFromYesterday != stock[j].IsFromYesterday {
			return stock[i].IsFromYesterday
		}
		return stock[i].ReceivedDate < stock[j].ReceivedDate
	})

	utils.JSON(w, http.StatusOK, stock)
}

func (h *IngredientHandler) GetExpiring(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID := vars["branchId"]
	days, err := strconv.Atoi(vars["days"])
	if err != nil {
		utils.ValidationError(w, []utils.FieldError{{Field: "days", Message: "must be an integer"}})
		return
	}

	stock, err := h.Store.ListIngredientStockExpiring(r.Context(), branchID, days)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch expiring ingredients")
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

	utils.JSON(w, http.StatusOK, alerts)
}

func validateAddStock(req *models.AddIngredientStockRequest) []utils.FieldError {
	var errs []utils.FieldError
	if req.IngredientID == "" {
		errs = append(errs, utils.FieldError{Field: "ingredientId", Message: "required"})
	}
	if req.BranchID == "" {
		errs = append(errs, utils.FieldError{Field: "branchId", Message: "required"})
	}
	if req.Quantity == nil {
		errs = append(errs, utils.FieldError{Field: "quantity", Message: "required"})
	} else if req.Quantity.IsNegative() {
		errs = append(errs, utils.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if _, err := time.Parse(dateLayout, req.ExpiryDate); err != nil {
		errs = append(errs, utils.FieldError{Field: "expiryDate", Message: "must be a YYYY-MM-DD date"})
	}
	if _, err := time.Parse(dateLayout, req.ReceivedDate); err != nil {
		errs = append(errs, utils.FieldError{Field: "receivedDate", Message: "must be a YYYY-MM-DD date"})
	}
	return errs
}

func (h *IngredientHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req models.AddIngredientStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validateAddStock(&req); len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	isFromYesterday := false
	if req.IsFromYesterday != nil {
		isFromYesterday = *req.IsFromYesterday
	}

	lot, err := h.Store.AddIngredientStock(r.Context(), models.IngredientStock{
		IngredientID:    req.IngredientID,
		BranchID:        req.BranchID,
		Quantity:        *req.Quantity,
		ExpiryDate:      req.ExpiryDate,
		BatchNumber:     req.BatchNumber,
		ReceivedDate:    req.ReceivedDate,
		IsFromYesterday: isFromYesterday,
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to add ingredient stock")
		return
	}

	h.Hub.Publish(req.BranchID, realtime.Event{
		Type:     realtime.EventStockUpdated,
		BranchID: req.BranchID,
		Payload:  map[string]any{"kind": "ingredient-added", "lotId": lot.ID},
	})

	utils.JSON(w, http.StatusOK, lot)
}

// AddStockBatch writes each entry independently. Entries written before a
// failing one stay written; the response reports them under "created".
func (h *IngredientHandler) AddStockBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []utils.FieldError
	if req.BranchID == "" {
		errs = append(errs, utils.FieldError{Field: "branchId", Message: "required"})
	}
	if req.Type != "yesterday" && req.Type != "today" {
		errs = append(errs, utils.FieldError{Field: "type", Message: `must be "yesterday" or "today"`})
	}
	if len(req.Entries) == 0 {
		errs = append(errs, utils.FieldError{Field: "entries", Message: "must not be empty"})
	}
	for i, entry := range req.Entries {
		if entry.IngredientID == "" {
			errs = append(errs, utils.FieldError{Field: "entries[" + strconv.Itoa(i) + "].ingredientId", Message: "required"})
		}
		if entry.Quantity == nil {
			errs = append(errs, utils.FieldError{Field: "entries[" + strconv.Itoa(i) + "].quantity", Message: "required"})
		}
		if _, err := time.Parse(dateLayout, entry.ExpiryDate); err != nil {
			errs = append(errs, utils.FieldError{Field: "entries[" + strconv.Itoa(i) + "].expiryDate", Message: "must be a YYYY-MM-DD date"})
		}
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	receivedDate := time.Now().Format(dateLayout)
	created := make([]models.IngredientStock, 0, len(req.Entries))
	for _, entry := range req.Entries {
		lot, err := h.Store.AddIngredientStock(r.Context(), models.IngredientStock{
			IngredientID:    entry.IngredientID,
			BranchID:        req.BranchID,
			Quantity:        *entry.Quantity,
			ExpiryDate:      entry.ExpiryDate,
			BatchNumber:     entry.BatchNumber,
			ReceivedDate:    receivedDate,
			IsFromYesterday: req.Type == "yesterday",
		})
		if err != nil {
			// Partial failure: already-written lots are not rolled back.
			utils.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "Failed to add ingredient stock batch",
				"created": created,
			})
			return
		}
		created = append(created, *lot)
	}

	h.Hub.Publish(req.BranchID, realtime.Event{
		Type:     realtime.EventStockUpdated,
		BranchID: req.BranchID,
		Payload:  map[string]any{"kind": "batch-added", "count": len(created)},
	})

	utils.JSON(w, http.StatusOK, created)
}

type updateStockRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
}

func (h *IngredientHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == nil || req.Quantity.IsNegative() {
		utils.ValidationError(w, []utils.FieldError{{Field: "quantity", Message: "required, must not be negative"}})
		return
	}

	lot, err := h.Store.UpdateIngredientStockQuantity(r.Context(), id, *req.Quantity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Stock lot not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to update ingredient stock")
		return
	}

	h.Hub.Publish(lot.BranchID, realtime.Event{
		Type:     realtime.EventStockUpdated,
		BranchID: lot.BranchID,
		Payload:  map[string]any{"kind": "lot-adjusted", "lotId": lot.ID},
	})

	utils.JSON(w, http.StatusOK, lot)
}

func (h *IngredientHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Store.DeleteIngredientStock(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Stock lot not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to delete ingredient stock")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
