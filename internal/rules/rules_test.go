package rules

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bakery-backend/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysUntilExpiry(t *testing.T) {
	today := date("2025-10-06")

	tests := []struct {
		expiry string
		want   int
	}{
		{"2025-10-06", 0},
		{"2025-10-07", 1},
		{"2025-10-03", -3},
		{"2025-10-13", 7},
		{"2025-10-05", -1},
	}
	for _, tt := range tests {
		if got := DaysUntilExpiry(date(tt.expiry), today); got != tt.want {
			t.Errorf("DaysUntilExpiry(%s) = %d, want %d", tt.expiry, got, tt.want)
		}
	}
}

func TestDaysUntilExpiryIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 10, 6, 23, 45, 0, 0, time.UTC)
	expiry := time.Date(2025, 10, 7, 0, 5, 0, 0, time.UTC)
	if got := DaysUntilExpiry(expiry, today); got != 1 {
		t.Errorf("expected 1 day with times truncated, got %d", got)
	}
}

func TestExpiringSoonIncludesExpired(t *testing.T) {
	if !ExpiringSoon(-3, 3) {
		t.Error("already-expired lots must still count as expiring soon")
	}
	if !ExpiringSoon(3, 3) {
		t.Error("bound is inclusive")
	}
	if ExpiringSoon(4, 3) {
		t.Error("4 days is beyond a 3-day threshold")
	}
}

func TestSuggestedAction(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "use immediately - produce with it"},
		{1, "use in today's production"},
		{-1, "use in today's production"},
		{2, "plan to use within 2 days"},
		{3, "plan to use within 3 days"},
		{4, "monitor usage"},
		{10, "monitor usage"},
	}
	for _, tt := range tests {
		if got := SuggestedAction(tt.days); got != tt.want {
			t.Errorf("SuggestedAction(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestVariance(t *testing.T) {
	if got := Variance(15, 20); got != -5 {
		t.Errorf("Variance(15, 20) = %d, want -5", got)
	}
	if got := Variance(22, 20); got != 2 {
		t.Errorf("Variance(22, 20) = %d, want 2", got)
	}
}

func TestPromotionEligible(t *testing.T) {
	tests := []struct {
		counted int
		want    bool
	}{
		{15, true},
		{11, true},
		{19, true},
		{10, false}, // exclusive lower bound
		{20, false}, // exclusive upper bound
		{25, false},
		{0, false},
	}
	for _, tt := range tests {
		if got := PromotionEligible(tt.counted); got != tt.want {
			t.Errorf("PromotionEligible(%d) = %v, want %v", tt.counted, got, tt.want)
		}
	}
}

func TestNeedsPromotion(t *testing.T) {
	now := time.Now()

	fourHoursAgo := now.Add(-4 * time.Hour)
	hours := HoursOnShelf(fourHoursAgo, now)
	if hours < 3.99 || hours > 4.01 {
		t.Fatalf("HoursOnShelf = %f, want ~4", hours)
	}
	if !NeedsPromotion(hours) {
		t.Error("4 hours on shelf should need promotion")
	}

	oneHourAgo := now.Add(-1 * time.Hour)
	if NeedsPromotion(HoursOnShelf(oneHourAgo, now)) {
		t.Error("1 hour on shelf should not need promotion")
	}
}

func acc(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBranchAccuracy(t *testing.T) {
	products := []models.ProductForecast{
		{Accuracy: acc("62.5")},
		{Accuracy: acc("55.2")},
		{Accuracy: acc("60.1")},
	}
	got := BranchAccuracy(products)
	if got == nil {
		t.Fatal("expected accuracy, got nil")
	}
	if want := decimal.RequireFromString("59.27"); !got.Equal(want) {
		t.Errorf("BranchAccuracy = %s, want %s", got, want)
	}
}

func TestBranchAccuracyNoProducts(t *testing.T) {
	if got := BranchAccuracy(nil); got != nil {
		t.Errorf("zero products must yield nil accuracy, got %s", got)
	}
	// Products that carry no accuracy are skipped entirely.
	if got := BranchAccuracy([]models.ProductForecast{{}, {}}); got != nil {
		t.Errorf("products without accuracy must yield nil, got %s", got)
	}
}

func TestOverallAccuracy(t *testing.T) {
	branches := []models.BranchForecast{
		{Accuracy: acc("60.00")},
		{Accuracy: acc("70.00")},
		{Accuracy: nil}, // skipped, not counted as zero
	}
	got := OverallAccuracy(branches)
	if got == nil {
		t.Fatal("expected accuracy, got nil")
	}
	if want := decimal.RequireFromString("65"); !got.Equal(want) {
		t.Errorf("OverallAccuracy = %s, want %s", got, want)
	}
}
