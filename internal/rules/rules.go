// Package rules holds the pure stock and forecast calculations. Every
// function here is deterministic over its arguments; callers supply the
// clock.
package rules

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bakery-backend/internal/models"
)

// PromotionDiscountPercent is the flat discount suggested for low-stock
// products during hourly checks.
const PromotionDiscountPercent = 10

// LowStockReason is the advisory text attached to low-stock recommendations.
const LowStockReason = "low stock - recommend 10% discount"

// DaysUntilExpiry returns the number of calendar days from today until the
// expiry date, ignoring time of day. A lot expiring today yields 0; a lot
// that expired yesterday yields -1. Callers treat <= 0 as critical.
func DaysUntilExpiry(expiry, today time.Time) int {
	e := truncateToDate(expiry)
	t := truncateToDate(today)
	return int(e.Sub(t).Hours() / 24)
}

// ExpiringSoon reports whether a lot with the given days-until-expiry falls
// inside the caller's threshold. The bound is inclusive and already-expired
// lots (negative days) still count as expiring soon.
func ExpiringSoon(daysUntilExpiry, threshold int) bool {
	return daysUntilExpiry <= threshold
}

// SuggestedAction returns the action text for an expiry alert. Bands are
// evaluated top to bottom, first match wins.
func SuggestedAction(daysUntilExpiry int) string {
	switch {
	case daysUntilExpiry == 0:
		return "use immediately - produce with it"
	case daysUntilExpiry <= 1:
		return "use in today's production"
	case daysUntilExpiry <= 3:
		return fmt.Sprintf("plan to use within %d days", daysUntilExpiry)
	default:
		return "monitor usage"
	}
}

// Variance is the signed difference between the physical count and the
// system quantity. Negative means shrinkage, positive means overage.
func Variance(counted, system int) int {
	return counted - system
}

// PromotionEligible reports whether a counted quantity falls in the
// low-but-nonzero band that triggers a discount recommendation. The (10,20)
// exclusive bounds are intentional and preserved as observed.
func PromotionEligible(counted int) bool {
	return counted > 10 && counted < 20
}

// HoursOnShelf is the elapsed shelf age of a product batch in hours.
func HoursOnShelf(productionTime, now time.Time) float64 {
	return now.Sub(productionTime).Hours()
}

// NeedsPromotion reports whether a batch has sat on the shelf long enough
// to warrant a promotion, independent of the hourly-check heuristic.
func NeedsPromotion(hoursOnShelf float64) bool {
	return hoursOnShelf > 3
}

// BranchAccuracy aggregates product forecast accuracies into a branch-level
// figure: the mean rounded to 2 decimal places. Products without an accuracy
// are skipped. Returns nil when no product carries an accuracy, so an empty
// import stores NULL rather than a fabricated zero.
func BranchAccuracy(products []models.ProductForecast) *decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for _, p := range products {
		if p.Accuracy == nil {
			continue
		}
		sum = sum.Add(*p.Accuracy)
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum.Div(decimal.NewFromInt(int64(n))).Round(2)
	return &mean
}

// OverallAccuracy is the unweighted mean of branch accuracies across a
// date's forecast set, rounded to 2 decimal places. Branches without an
// accuracy are skipped; nil when none have one.
func OverallAccuracy(branches []models.BranchForecast) *decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for _, b := range branches {
		if b.Accuracy == nil {
			continue
		}
		sum = sum.Add(*b.Accuracy)
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum.Div(decimal.NewFromInt(int64(n))).Round(2)
	return &mean
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
