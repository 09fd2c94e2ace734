package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bakery-backend/internal/models"
	"bakery-backend/internal/store"
)

func TestSeededReferenceData(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	branches, err := s.ListBranches(ctx)
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(branches) != 7 {
		t.Fatalf("expected 7 seeded branches, got %d", len(branches))
	}

	ingredients, _ := s.ListIngredients(ctx)
	if len(ingredients) != 6 {
		t.Fatalf("expected 6 seeded ingredients, got %d", len(ingredients))
	}

	products, _ := s.ListProducts(ctx)
	if len(products) != 6 {
		t.Fatalf("expected 6 seeded products, got %d", len(products))
	}
}

func TestAddIngredientStockNoDedup(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	ingredients, _ := s.ListIngredients(ctx)
	lot := models.IngredientStock{
		IngredientID: ingredients[0].ID,
		BranchID:     "3510",
		Quantity:     decimal.RequireFromString("10"),
		ExpiryDate:   time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		ReceivedDate: time.Now().Format("2006-01-02"),
	}

	first, err := s.AddIngredientStock(ctx, lot)
	if err != nil {
		t.Fatalf("AddIngredientStock: %v", err)
	}
	second, err := s.AddIngredientStock(ctx, lot)
	if err != nil {
		t.Fatalf("AddIngredientStock: %v", err)
	}
	// Same payload twice yields two independent lots, never a merge.
	if first.ID == second.ID {
		t.Error("resubmitted lot must get a fresh id")
	}

	items, _ := s.ListIngredientStock(ctx, "3510")
	found := 0
	for _, it := range items {
		if it.IngredientID == lot.IngredientID && it.Quantity.Equal(lot.Quantity) && it.ExpiryDate == lot.ExpiryDate {
			found++
		}
	}
	if found < 2 {
		t.Errorf("expected both duplicate lots listed, found %d", found)
	}
}

func TestExpiringFilterIncludesExpired(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	ingredients, _ := s.ListIngredients(ctx)
	expired := models.IngredientStock{
		IngredientID: ingredients[0].ID,
		BranchID:     "18469",
		Quantity:     decimal.RequireFromString("2"),
		ExpiryDate:   time.Now().AddDate(0, 0, -4).Format("2006-01-02"),
		ReceivedDate: time.Now().AddDate(0, 0, -10).Format("2006-01-02"),
	}
	farOut := expired
	farOut.ExpiryDate = time.Now().AddDate(0, 0, 30).Format("2006-01-02")

	if _, err := s.AddIngredientStock(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddIngredientStock(ctx, farOut); err != nil {
		t.Fatal(err)
	}

	items, err := s.ListIngredientStockExpiring(ctx, "18469", 3)
	if err != nil {
		t.Fatalf("ListIngredientStockExpiring: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected only the expired lot, got %d items", len(items))
	}
	if items[0].DaysUntilExpiry != -4 {
		t.Errorf("expected daysUntilExpiry -4, got %d", items[0].DaysUntilExpiry)
	}
}

func TestUpdateProductStockQuantity(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	stock, _ := s.ListProductStock(ctx, "3510")
	if len(stock) == 0 {
		t.Fatal("expected seeded product stock")
	}

	updated, err := s.UpdateProductStockQuantity(ctx, stock[0].ID, 42)
	if err != nil {
		t.Fatalf("UpdateProductStockQuantity: %v", err)
	}
	if updated.Quantity != 42 {
		t.Errorf("quantity = %d, want 42", updated.Quantity)
	}

	if _, err := s.UpdateProductStockQuantity(ctx, "missing", 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBranchForecastRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	acc := decimal.RequireFromString("59.27")
	code := "P-100"
	products := []models.ProductForecast{
		{ProductName: "croissant", ProductCode: &code, ForecastQuantity: 40, Accuracy: &acc},
		{ProductName: "muffin", ForecastQuantity: 25},
	}

	created, err := s.AddBranchForecast(ctx, models.BranchForecast{
		BranchID:      "3510",
		BranchName:    "Kamala Beach 1",
		ForecastDate:  "2025-10-06",
		TotalForecast: 65,
		Accuracy:      &acc,
	}, products)
	if err != nil {
		t.Fatalf("AddBranchForecast: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Error("created forecast must have id and createdAt")
	}

	got, err := s.GetBranchForecast(ctx, "3510", "2025-10-06")
	if err != nil {
		t.Fatalf("GetBranchForecast: %v", err)
	}
	if len(got.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got.Products))
	}
	for _, p := range got.Products {
		if p.BranchForecastID != created.ID {
			t.Errorf("product not linked to parent forecast")
		}
	}

	if _, err := s.GetBranchForecast(ctx, "3510", "2025-10-07"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for other date, got %v", err)
	}
}

func TestBranchForecastReimportWinsNewest(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := models.BranchForecast{
		BranchID:     "3510",
		BranchName:   "Kamala Beach 1",
		ForecastDate: "2025-10-06",
	}

	stale := base
	stale.TotalForecast = 65
	if _, err := s.AddBranchForecast(ctx, stale, []models.ProductForecast{
		{ProductName: "croissant", ForecastQuantity: 65},
	}); err != nil {
		t.Fatal(err)
	}

	fresh := base
	fresh.TotalForecast = 80
	reimported, err := s.AddBranchForecast(ctx, fresh, []models.ProductForecast{
		{ProductName: "croissant", ForecastQuantity: 50},
		{ProductName: "muffin", ForecastQuantity: 30},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Re-imports append rows; reads must always pick the newest.
	for i := 0; i < 50; i++ {
		got, err := s.GetBranchForecast(ctx, "3510", "2025-10-06")
		if err != nil {
			t.Fatalf("GetBranchForecast: %v", err)
		}
		if got.ID != reimported.ID {
			t.Fatalf("iteration %d returned stale forecast (total %d)", i, got.TotalForecast)
		}
		if len(got.Products) != 2 {
			t.Fatalf("expected re-imported products, got %d", len(got.Products))
		}
	}
}

func TestReplaceReportTable(t *testing.T) {
	s := New()
	ctx := context.Background()

	rows := []models.ProductionPlan{
		{Branch: "3510", Product: "croissant", Forecast: 40, OptimalProduction: 45},
		{Branch: "18469", Product: "donut", Forecast: 20, OptimalProduction: 18},
	}
	if err := s.ReplaceProductionPlans(ctx, rows); err != nil {
		t.Fatal(err)
	}

	all, _ := s.ListProductionPlans(ctx, "")
	if len(all) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(all))
	}
	filtered, _ := s.ListProductionPlans(ctx, "3510")
	if len(filtered) != 1 || filtered[0].Product != "croissant" {
		t.Fatalf("branch filter wrong: %+v", filtered)
	}

	// Replace swaps the table wholesale.
	if err := s.ReplaceProductionPlans(ctx, rows[:1]); err != nil {
		t.Fatal(err)
	}
	all, _ = s.ListProductionPlans(ctx, "")
	if len(all) != 1 {
		t.Fatalf("expected 1 plan after replace, got %d", len(all))
	}
}

func TestCreateUserConflict(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &models.User{Username: "baker", Password: "hash"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateUser(ctx, &models.User{Username: "baker"}); !errors.Is(err, store.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
