// Command import-forecast loads a daily forecast export (JSON or XLSX),
// groups rows by branch, and either POSTs the result to the running server
// or, with --direct, writes it straight to the database.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bakery-backend/internal/config"
	"bakery-backend/internal/database"
	"bakery-backend/internal/db"
	"bakery-backend/internal/models"
	"bakery-backend/internal/rules"
	"bakery-backend/internal/store/postgres"
	"bakery-backend/migrations"
)

// forecastItem is one row of the export. Branch is "id: name".
type forecastItem struct {
	Branch      string          `json:"Branch"`
	ProductCode string          `json:"Product_Code"`
	Product     string          `json:"Product"`
	Date        string          `json:"Date"`
	Forecast    int             `json:"Forecast"`
	Lower       int             `json:"Lower"`
	Upper       int             `json:"Upper"`
	Accuracy    decimal.Decimal `json:"Accuracy_%"`
	Method      string          `json:"Method"`
}

func main() {
	file := flag.String("file", "", "Forecast export (.json or .xlsx)")
	date := flag.String("date", "", "Override forecast date (YYYY-MM-DD)")
	serverURL := flag.String("url", "http://localhost:8080", "Server base URL")
	direct := flag.Bool("direct", false, "Write to the database instead of POSTing")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: import-forecast -file <export.json|export.xlsx> [-date YYYY-MM-DD] [-direct]")
	}

	items, err := readExport(*file)
	if err != nil {
		log.Fatalf("Failed to read export: %v", err)
	}
	if len(items) == 0 {
		log.Fatal("Export contains no rows")
	}

	forecastDate := items[0].Date
	if *date != "" {
		forecastDate = *date
	}

	branches := groupByBranch(items)
	log.Printf("Loaded %d rows across %d branches for %s", len(items), len(branches), forecastDate)

	if *direct {
		if err := importDirect(forecastDate, branches); err != nil {
			log.Fatalf("Direct import failed: %v", err)
		}
	} else {
		if err := importViaAPI(*serverURL, forecastDate, branches); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	}
	log.Println("Forecast import completed")
}

func readExport(path string) ([]forecastItem, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var items []forecastItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return items, nil
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}

// readXLSX reads the same columns the JSON export carries, from the first
// sheet, first row as headers.
func readXLSX(path string) ([]forecastItem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(row []string, name string) int {
		s := cell(row, name)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	}

	items := make([]forecastItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		acc, _ := decimal.NewFromString(cell(row, "accuracy_%"))
		items = append(items, forecastItem{
			Branch:      cell(row, "branch"),
			ProductCode: cell(row, "product_code"),
			Product:     cell(row, "product"),
			Date:        cell(row, "date"),
			Forecast:    num(row, "forecast"),
			Lower:       num(row, "lower"),
			Upper:       num(row, "upper"),
			Accuracy:    acc,
			Method:      cell(row, "method"),
		})
	}
	return items, nil
}

// groupByBranch turns flat export rows into per-branch import blocks,
// preserving first-seen branch order. Branch accuracy is the rounded mean of
// the product accuracies.
func groupByBranch(items []forecastItem) []models.ImportBranchForecast {
	index := make(map[string]int)
	var branches []models.ImportBranchForecast

	for _, item := range items {
		branchID, branchName := splitBranch(item.Branch)
		i, ok := index[branchID]
		if !ok {
			i = len(branches)
			index[branchID] = i
			branches = append(branches, models.ImportBranchForecast{
				BranchID:   branchID,
				BranchName: branchName,
			})
		}

		code := item.ProductCode
		minQty, maxQty := item.Lower, item.Upper
		acc := item.Accuracy
		method := item.Method
		branches[i].TotalForecast += item.Forecast
		branches[i].Products = append(branches[i].Products, models.ImportProductForecast{
			ProductCode:      &code,
			ProductName:      item.Product,
			ForecastQuantity: item.Forecast,
			MinQuantity:      &minQty,
			MaxQuantity:      &maxQty,
			Accuracy:         &acc,
			ModelType:        &method,
		})
	}

	for i := range branches {
		products := make([]models.ProductForecast, len(branches[i].Products))
		for j, p := range branches[i].Products {
			products[j] = models.ProductForecast{Accuracy: p.Accuracy}
		}
		branches[i].Accuracy = rules.BranchAccuracy(products)
	}
	return branches
}

func splitBranch(s string) (id, name string) {
	parts := strings.SplitN(s, ": ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return s, s
}

func importViaAPI(baseURL, date string, branches []models.ImportBranchForecast) error {
	payload := models.ImportForecastRequest{ForecastDate: date, Branches: branches}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post(baseURL+"/api/forecasts/import", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}

	var result models.ImportForecastResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	log.Printf("Imported forecasts for %d branches (date %s)", result.Count, date)
	return nil
}

func importDirect(date string, branches []models.ImportBranchForecast) error {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
		return err
	}

	st := postgres.New(pool)
	for _, b := range branches {
		forecast := models.BranchForecast{
			BranchID:      b.BranchID,
			BranchName:    b.BranchName,
			ForecastDate:  date,
			TotalForecast: b.TotalForecast,
			Accuracy:      b.Accuracy,
		}
		products := make([]models.ProductForecast, len(b.Products))
		for i, p := range b.Products {
			products[i] = models.ProductForecast{
				ProductID:        p.ProductID,
				ProductCode:      p.ProductCode,
				ProductName:      p.ProductName,
				ForecastQuantity: p.ForecastQuantity,
				MinQuantity:      p.MinQuantity,
				MaxQuantity:      p.MaxQuantity,
				Accuracy:         p.Accuracy,
				ModelType:        p.ModelType,
			}
		}
		if _, err := st.AddBranchForecast(ctx, forecast, products); err != nil {
			return fmt.Errorf("branch %s: %w", b.BranchID, err)
		}
		log.Printf("Imported forecast for branch %s (%d products)", b.BranchID, len(products))
	}
	return nil
}
