package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"bakery-backend/internal/excel"
	"bakery-backend/internal/models"
	"bakery-backend/internal/realtime"
	"bakery-backend/internal/rules"
	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

// Dashboard chart covers the trading hours 08:00 through 19:00.
const (
	chartFirstHour = 8
	chartHourCount = 12
)

type ForecastHandler struct {
	Store store.Storage
	Hub   *realtime.Hub
	Excel *excel.Parser
}

func NewForecastHandler(st store.Storage, hub *realtime.Hub, parser *excel.Parser) *ForecastHandler {
	return &ForecastHandler{Store: st, Hub: hub, Excel: parser}
}

func validateImport(req *models.ImportForecastRequest) []utils.FieldError {
	var errs []utils.FieldError
	if _, err := time.Parse(dateLayout, req.ForecastDate); err != nil {
		errs = append(errs, utils.FieldError{Field: "forecastDate", Message: "must be a YYYY-MM-DD date"})
	}
	if len(req.Branches) == 0 {
		errs = append(errs, utils.FieldError{Field: "branches", Message: "must not be empty"})
	}
	for i, b := range req.Branches {
		prefix := "branches[" + strconv.Itoa(i) + "]."
		if b.BranchID == "" {
			errs = append(errs, utils.FieldError{Field: prefix + "branchId", Message: "required"})
		}
		if b.BranchName == "" {
			errs = append(errs, utils.FieldError{Field: prefix + "branchName", Message: "required"})
		}
		for j, p := range b.Products {
			if p.ProductName == "" {
				errs = append(errs, utils.FieldError{
					Field:   fmt.Sprintf("%sproducts[%d].productName", prefix, j),
					Message: "required",
				})
			}
		}
	}
	return errs
}

// Import persists one branch forecast per payload branch, products included.
// A branch whose accuracy is omitted gets the rounded mean of its product
// accuracies; a branch with no products keeps a null accuracy.
func (h *ForecastHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req models.ImportForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validateImport(&req); len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	imported := make([]models.BranchForecast, 0, len(req.Branches))
	for _, b := range req.Branches {
		products := make([]models.ProductForecast, 0, len(b.Products))
		for _, p := range b.Products {
			products = append(products, models.ProductForecast{
				ProductID:        p.ProductID,
				ProductCode:      p.ProductCode,
				ProductName:      p.ProductName,
				ForecastQuantity: p.ForecastQuantity,
				MinQuantity:      p.MinQuantity,
				MaxQuantity:      p.MaxQuantity,
				Accuracy:         p.Accuracy,
				ModelType:        p.ModelType,
			})
		}

		accuracy := b.Accuracy
		if accuracy == nil {
			accuracy = rules.BranchAccuracy(products)
		}

		forecast, err := h.Store.AddBranchForecast(r.Context(), models.BranchForecast{
			BranchID:      b.BranchID,
			BranchName:    b.BranchName,
			ForecastDate:  req.ForecastDate,
			TotalForecast: b.TotalForecast,
			Accuracy:      accuracy,
		}, products)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to import forecasts")
			return
		}
		imported = append(imported, *forecast)
	}

	h.Hub.Publish("", realtime.Event{
		Type:    realtime.EventForecastUpdated,
		Payload: map[string]any{"date": req.ForecastDate},
	})

	utils.JSON(w, http.StatusOK, models.ImportForecastResult{
		Success:         true,
		Count:           len(imported),
		Forecasts:       imported,
		OverallAccuracy: rules.OverallAccuracy(imported),
	})
}

func (h *ForecastHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	forecasts, err := h.Store.ListBranchForecasts(r.Context(), date)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch forecasts")
		return
	}

	out := make([]models.BranchForecastWithProducts, 0, len(forecasts))
	for _, f := range forecasts {
		products, err := h.Store.ListProductForecasts(r.Context(), f.ID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch forecasts")
			return
		}
		out = append(out, models.BranchForecastWithProducts{
			BranchForecast: f,
			Products:       products,
		})
	}

	utils.JSON(w, http.StatusOK, out)
}

func (h *ForecastHandler) GetForBranch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	forecast, err := h.Store.GetBranchForecast(r.Context(), vars["branchId"], vars["date"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Forecast not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch forecast")
		return
	}

	utils.JSON(w, http.StatusOK, forecast)
}

// HourlyChart serves the per-hour demand line for the dashboard. The XLSX
// export wins when present; otherwise stored demand forecasts for today are
// used. Hours with no prediction chart as zero.
func (h *ForecastHandler) HourlyChart(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]
	today := time.Now().Format(dateLayout)

	predicted := make(map[int]int, chartHourCount)

	var fromFile bool
	if h.Excel != nil {
		if rows, err := h.Excel.ParseDemandForecast(); err == nil {
			fromFile = true
			for _, row := range rows {
				if row.Branch == "" || row.Branch == branchID {
					predicted[row.Hour] = row.PredictedDemand
				}
			}
		}
	}

	if !fromFile {
		forecasts, err := h.Store.ListDemandForecasts(r.Context(), branchID, today)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch forecast")
			return
		}
		for _, f := range forecasts {
			predicted[f.Hour] += f.PredictedDemand
		}
	}

	points := make([]models.HourlyForecastPoint, 0, chartHourCount)
	for i := 0; i < chartHourCount; i++ {
		hour := chartFirstHour + i
		points = append(points, models.HourlyForecastPoint{
			Hour:      fmt.Sprintf("%02d:00", hour),
			Predicted: predicted[hour],
		})
	}

	utils.JSON(w, http.StatusOK, points)
}

// TodayForecast joins today's branch forecast with live product stock so the
// dashboard can flag slow movers.
func (h *ForecastHandler) TodayForecast(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]
	today := time.Now().Format(dateLayout)

	forecast, err := h.Store.GetBranchForecast(r.Context(), branchID, today)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "No forecast for today")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch forecast")
		return
	}

	stock, err := h.Store.ListProductStock(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch product stock")
		return
	}

	now := time.Now()
	products := make([]models.ProductForecastWithStock, 0, len(forecast.Products))
	for _, p := range forecast.Products {
		item := models.ProductForecastWithStock{
			ProductName:      p.ProductName,
			ProductCode:      p.ProductCode,
			ForecastQuantity: p.ForecastQuantity,
			MinQuantity:      p.MinQuantity,
			MaxQuantity:      p.MaxQuantity,
			Accuracy:         p.Accuracy,
			ModelType:        p.ModelType,
		}
		for _, s := range stock {
			if matchesProduct(p, s) {
				hours := rules.HoursOnShelf(s.ProductionTime, now)
				item.CurrentStock = s.Quantity
				item.HoursOnShelf = hours
				item.NeedsPromotion = rules.NeedsPromotion(hours)
				item.ShelfLifeHours = s.Product.ShelfLifeHours
				break
			}
		}
		products = append(products, item)
	}

	utils.JSON(w, http.StatusOK, models.TodayForecast{
		Date:          today,
		BranchID:      forecast.BranchID,
		BranchName:    forecast.BranchName,
		TotalForecast: forecast.TotalForecast,
		Accuracy:      forecast.Accuracy,
		Products:      products,
	})
}

// matchesProduct links a forecast row to live stock by product id when the
// import carried one, by name otherwise.
func matchesProduct(p models.ProductForecast, s models.ProductStockItem) bool {
	if p.ProductID != nil && *p.ProductID != "" {
		return *p.ProductID == s.ProductID
	}
	return p.ProductName == s.Product.Name
}
