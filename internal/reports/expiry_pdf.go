// Package reports renders printable reports for branch managers.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"bakery-backend/internal/models"
)

// GenerateExpiryPDF renders the expiry alert list for one branch as an A4
// table.
func GenerateExpiryPDF(branchName string, days int, alerts []models.ExpiryAlert) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Bakery Operations - Expiry Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Branch: %s", branchName), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Lots expiring within %d days - Generated: %s",
		days, time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(50, 7, "Ingredient", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Quantity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Unit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Expiry Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Days", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Suggested Action", "1", 1, "C", true, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 10)
	for _, alert := range alerts {
		name := alert.IngredientName
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		action := alert.SuggestedAction
		if len(action) > 38 {
			action = action[:35] + "..."
		}
		pdf.CellFormat(50, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, alert.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 6, alert.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, alert.ExpiryDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", alert.DaysUntilExpiry), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, action, "1", 1, "L", false, 0, "")
	}

	if len(alerts) == 0 {
		pdf.CellFormat(190, 7, "No lots expiring in this window.", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render expiry pdf: %w", err)
	}
	return buf.Bytes(), nil
}
