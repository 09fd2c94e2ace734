// Package excel reads the spreadsheet exports dropped into the assets
// directory by the planning team. Header names vary between export versions,
// so lookups try several spellings.
package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	demandForecastFile = "demand_forecast.xlsx"
	productionPlanFile = "production_plans.xlsx"
)

// DemandRow is one hourly prediction from the demand forecast export.
type DemandRow struct {
	Date            string
	Hour            int
	Branch          string
	Product         string
	PredictedDemand int
}

// PlanRow is one recommendation from the production plan export.
type PlanRow struct {
	Product             string
	RecommendedQuantity int
	Branch              string
	TimeSlot            string
}

type Parser struct {
	basePath string
}

func NewParser(basePath string) *Parser {
	return &Parser{basePath: basePath}
}

// ParseDemandForecast reads the hourly demand export. A missing file is an
// error; the caller falls back to stored forecasts.
func (p *Parser) ParseDemandForecast() ([]DemandRow, error) {
	rows, err := p.readSheet(demandForecastFile)
	if err != nil {
		return nil, err
	}

	out := make([]DemandRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, DemandRow{
			Date:            row.str("Date", "date"),
			Hour:            row.num("Hour", "hour"),
			Branch:          row.str("Branch", "branch"),
			Product:         row.str("Product", "product"),
			PredictedDemand: row.num("Predicted Demand", "predicted_demand", "Demand"),
		})
	}
	return out, nil
}

// ParseProductionPlans reads the production plan export.
func (p *Parser) ParseProductionPlans() ([]PlanRow, error) {
	rows, err := p.readSheet(productionPlanFile)
	if err != nil {
		return nil, err
	}

	out := make([]PlanRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, PlanRow{
			Product:             row.str("Product", "product"),
			RecommendedQuantity: row.num("Recommended Quantity", "recommended_quantity", "Quantity"),
			Branch:              row.str("Branch", "branch"),
			TimeSlot:            row.str("Time Slot", "time_slot", "Time"),
		})
	}
	return out, nil
}

// record maps lower-cased header names to cell values.
type record map[string]string

func (r record) str(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[strings.ToLower(key)]; ok && v != "" {
			return v
		}
	}
	return ""
}

func (r record) num(keys ...string) int {
	s := r.str(keys...)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func (p *Parser) readSheet(name string) ([]record, error) {
	path := filepath.Join(p.basePath, name)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(record, len(headers))
		for i, cell := range row {
			if i < len(headers) && headers[i] != "" {
				rec[headers[i]] = strings.TrimSpace(cell)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
