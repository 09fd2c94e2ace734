package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bakery-backend/internal/auth"
	"bakery-backend/internal/config"
	"bakery-backend/internal/excel"
	"bakery-backend/internal/handlers"
	"bakery-backend/internal/health"
	httpapi "bakery-backend/internal/http"
	"bakery-backend/internal/middleware"
	"bakery-backend/internal/models"
	"bakery-backend/internal/realtime"
	"bakery-backend/internal/store"
	"bakery-backend/internal/store/memory"
)

// newTestServer wires the full router over the seeded memory store, so tests
// exercise routing, validation, and handlers together.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := memory.NewSeeded()
	hub := realtime.NewHub()
	go hub.Run()
	t.Cleanup(hub.Close)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "bakery-backend"

	parser := excel.NewParser(t.TempDir())
	jwtManager := auth.NewJWTManager(cfg)

	router := httpapi.NewRouter(
		handlers.NewAuthHandler(st, jwtManager),
		handlers.NewBranchHandler(st),
		handlers.NewIngredientHandler(st, hub),
		handlers.NewProductHandler(st),
		handlers.NewCheckHandler(st, hub),
		handlers.NewForecastHandler(st, hub, parser),
		handlers.NewStatsHandler(st, parser),
		handlers.NewOptimizationHandler(st, nil),
		handlers.NewReportHandler(st),
		nil, // image uploads disabled
		handlers.NewHealthHandler(health.NewHealthChecker(nil), hub),
		middleware.NewAuthMiddleware(jwtManager),
		hub,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func getJSON(t *testing.T, url string, dest any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	if dest != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			t.Fatalf("decode GET %s: %v", url, err)
		}
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func seededIngredients(t *testing.T, base string) []models.Ingredient {
	t.Helper()
	var ingredients []models.Ingredient
	getJSON(t, base+"/api/ingredients", &ingredients)
	if len(ingredients) == 0 {
		t.Fatal("no seeded ingredients")
	}
	return ingredients
}

func TestAddIngredientStock(t *testing.T) {
	srv := newTestServer(t)
	ingredients := seededIngredients(t, srv.URL)

	qty := decimal.RequireFromString("12.5")
	resp := postJSON(t, srv.URL+"/api/ingredients/stock", models.AddIngredientStockRequest{
		IngredientID: ingredients[0].ID,
		BranchID:     "18504",
		Quantity:     &qty,
		ExpiryDate:   time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
		ReceivedDate: time.Now().Format("2006-01-02"),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add stock status = %d", resp.StatusCode)
	}
	var lot models.IngredientStock
	decode(t, resp, &lot)
	if lot.ID == "" {
		t.Error("created lot has no id")
	}
	if lot.IsFromYesterday {
		t.Error("lot defaulted to carryover")
	}

	var items []models.IngredientStockItem
	getJSON(t, srv.URL+"/api/ingredients/stock/18504", &items)
	found := false
	for _, it := range items {
		if it.ID == lot.ID {
			found = true
			if it.DaysUntilExpiry != 2 {
				t.Errorf("daysUntilExpiry = %d, want 2", it.DaysUntilExpiry)
			}
			if it.Ingredient.Name != ingredients[0].Name {
				t.Errorf("joined ingredient = %q, want %q", it.Ingredient.Name, ingredients[0].Name)
			}
		}
	}
	if !found {
		t.Error("created lot missing from branch listing")
	}
}

func TestAddIngredientStockValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/ingredients/stock", map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, resp, &body)

	fields := make(map[string]bool)
	for _, e := range body.Errors {
		fields[e.Field] = true
	}
	for _, want := range []string{"ingredientId", "branchId", "quantity", "expiryDate", "receivedDate"} {
		if !fields[want] {
			t.Errorf("missing validation error for %s", want)
		}
	}
}

func TestBatchAddCarryover(t *testing.T) {
	srv := newTestServer(t)
	ingredients := seededIngredients(t, srv.URL)

	q1 := decimal.RequireFromString("5")
	q2 := decimal.RequireFromString("0")
	resp := postJSON(t, srv.URL+"/api/ingredients/stock/batch", models.BatchStockRequest{
		BranchID: "9922",
		Type:     "yesterday",
		Entries: []models.BatchStockEntry{
			{IngredientID: ingredients[0].ID, Quantity: &q1, ExpiryDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02")},
			{IngredientID: ingredients[1].ID, Quantity: &q2, ExpiryDate: time.Now().Format("2006-01-02")},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("batch status = %d", resp.StatusCode)
	}
	var created []models.IngredientStock
	decode(t, resp, &created)
	if len(created) != 2 {
		t.Fatalf("created %d lots, want 2", len(created))
	}
	today := time.Now().Format("2006-01-02")
	for _, lot := range created {
		if !lot.IsFromYesterday {
			t.Errorf("lot %s not flagged as carryover", lot.ID)
		}
		if lot.ReceivedDate != today {
			t.Errorf("receivedDate = %s, want %s", lot.ReceivedDate, today)
		}
	}
}

func TestBatchRejectsUnknownType(t *testing.T) {
	srv := newTestServer(t)
	ingredients := seededIngredients(t, srv.URL)

	q := decimal.RequireFromString("1")
	resp := postJSON(t, srv.URL+"/api/ingredients/stock/batch", models.BatchStockRequest{
		BranchID: "9922",
		Type:     "tomorrow",
		Entries: []models.BatchStockEntry{
			{IngredientID: ingredients[0].ID, Quantity: &q, ExpiryDate: time.Now().Format("2006-01-02")},
		},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHourlyCheckUpdatesStockAndRecommends(t *testing.T) {
	srv := newTestServer(t)

	var stock []models.ProductStockItem
	getJSON(t, srv.URL+"/api/products/stock/3510", &stock)
	if len(stock) < 2 {
		t.Fatalf("seeded product stock = %d items, want at least 2", len(stock))
	}

	// counted 12 sits inside the (10,20) promotion band; counted 2 does not.
	c1, s1 := 12, stock[0].Quantity
	c2, s2 := 2, stock[1].Quantity
	resp := postJSON(t, srv.URL+"/api/hourly-check", models.HourlyCheckRequest{
		BranchID: "3510",
		Checks: []models.HourlyCheckEntry{
			{ProductID: stock[0].ProductID, CountedQuantity: &c1, SystemQuantity: &s1},
			{ProductID: stock[1].ProductID, CountedQuantity: &c2, SystemQuantity: &s2},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hourly check status = %d", resp.StatusCode)
	}
	var result models.HourlyCheckResult
	decode(t, resp, &result)

	if len(result.Checks) != 2 {
		t.Fatalf("recorded %d checks, want 2", len(result.Checks))
	}
	if got := result.Checks[0].Variance; got != c1-s1 {
		t.Errorf("variance = %d, want %d", got, c1-s1)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(result.Recommendations))
	}
	rec := result.Recommendations[0]
	if rec.ProductID != stock[0].ProductID || rec.Discount != 10 {
		t.Errorf("recommendation = %+v, want product %s at 10%%", rec, stock[0].ProductID)
	}

	// The physical count overwrites the stored quantity.
	var after []models.ProductStockItem
	getJSON(t, srv.URL+"/api/products/stock/3510", &after)
	for _, it := range after {
		if it.ProductID == stock[0].ProductID && it.Quantity != c1 {
			t.Errorf("stock after check = %d, want %d", it.Quantity, c1)
		}
		if it.ProductID == stock[1].ProductID && it.Quantity != c2 {
			t.Errorf("stock after check = %d, want %d", it.Quantity, c2)
		}
	}
}

// stockListFailsStore simulates the product stock lookup failing mid-check.
type stockListFailsStore struct {
	store.Storage
}

func (stockListFailsStore) ListProductStock(ctx context.Context, branchID string) ([]models.ProductStockItem, error) {
	return nil, errors.New("connection reset")
}

func TestHourlyCheckStockLookupFailure(t *testing.T) {
	hub := realtime.NewHub()
	go hub.Run()
	t.Cleanup(hub.Close)

	h := handlers.NewCheckHandler(stockListFailsStore{memory.NewSeeded()}, hub)

	counted, system := 12, 15
	body, _ := json.Marshal(models.HourlyCheckRequest{
		BranchID: "3510",
		Checks: []models.HourlyCheckEntry{
			{ProductID: "p-1", CountedQuantity: &counted, SystemQuantity: &system},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/hourly-check", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	// The stock overwrite is part of the check; its failure must not
	// report success.
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var out struct {
		Error   string               `json:"error"`
		Created []models.HourlyCheck `json:"created"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Error == "" {
		t.Error("expected error message in response")
	}
	if len(out.Created) != 0 {
		t.Errorf("created = %d checks, want 0 before the first overwrite", len(out.Created))
	}
}

func TestHourlyCheckValidation(t *testing.T) {
	srv := newTestServer(t)

	counted := 5
	resp := postJSON(t, srv.URL+"/api/hourly-check", models.HourlyCheckRequest{
		BranchID: "3510",
		Checks: []models.HourlyCheckEntry{
			{ProductID: "", CountedQuantity: &counted},
		},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestForecastImportAndFetch(t *testing.T) {
	srv := newTestServer(t)
	today := time.Now().Format("2006-01-02")

	acc1 := decimal.RequireFromString("90")
	acc2 := decimal.RequireFromString("80")
	resp := postJSON(t, srv.URL+"/api/forecasts/import", models.ImportForecastRequest{
		ForecastDate: today,
		Branches: []models.ImportBranchForecast{
			{
				BranchID:      "3510",
				BranchName:    "Kamala Beach 1",
				TotalForecast: 70,
				Products: []models.ImportProductForecast{
					{ProductName: "croissant", ForecastQuantity: 40, Accuracy: &acc1},
					{ProductName: "muffin", ForecastQuantity: 30, Accuracy: &acc2},
				},
			},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d", resp.StatusCode)
	}
	var result models.ImportForecastResult
	decode(t, resp, &result)
	if !result.Success || result.Count != 1 {
		t.Fatalf("result = %+v, want success with count 1", result)
	}
	want := decimal.RequireFromString("85")
	if result.Forecasts[0].Accuracy == nil || !result.Forecasts[0].Accuracy.Equal(want) {
		t.Errorf("branch accuracy = %v, want 85", result.Forecasts[0].Accuracy)
	}
	if result.OverallAccuracy == nil || !result.OverallAccuracy.Equal(want) {
		t.Errorf("overall accuracy = %v, want 85", result.OverallAccuracy)
	}

	var fetched models.BranchForecastWithProducts
	getJSON(t, srv.URL+"/api/forecasts/3510/"+today, &fetched)
	if fetched.BranchID != "3510" || len(fetched.Products) != 2 {
		t.Fatalf("fetched forecast = branch %s with %d products", fetched.BranchID, len(fetched.Products))
	}

	var todayView models.TodayForecast
	getJSON(t, srv.URL+"/api/today-forecast/3510", &todayView)
	if todayView.TotalForecast != 70 {
		t.Errorf("today totalForecast = %d, want 70", todayView.TotalForecast)
	}
	for _, p := range todayView.Products {
		// Seeded croissant stock is 5 hours old, past the promotion cutoff.
		if p.ProductName == "croissant" {
			if p.CurrentStock == 0 {
				t.Error("croissant forecast not joined with live stock")
			}
			if !p.NeedsPromotion {
				t.Error("croissant should need promotion after 5 hours on shelf")
			}
		}
	}
}

func TestTodayForecastMissing(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/today-forecast/9922")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHourlyChartAlwaysTwelvePoints(t *testing.T) {
	srv := newTestServer(t)

	var points []models.HourlyForecastPoint
	getJSON(t, srv.URL+"/api/forecast/3510", &points)
	if len(points) != 12 {
		t.Fatalf("chart has %d points, want 12", len(points))
	}
	if points[0].Hour != "08:00" || points[11].Hour != "19:00" {
		t.Errorf("chart spans %s..%s, want 08:00..19:00", points[0].Hour, points[11].Hour)
	}
	for _, p := range points {
		if p.Predicted != 0 {
			t.Errorf("hour %s predicted = %d without any forecast data", p.Hour, p.Predicted)
		}
	}
}

func TestBranchLookup(t *testing.T) {
	srv := newTestServer(t)

	var branch models.Branch
	resp := getJSON(t, srv.URL+"/api/branches/3510", &branch)
	if resp.StatusCode != http.StatusOK || branch.Name != "Kamala Beach 1" {
		t.Fatalf("branch 3510 = %+v (status %d)", branch, resp.StatusCode)
	}

	missing, err := http.Get(srv.URL + "/api/branches/0000")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown branch status = %d, want 404", missing.StatusCode)
	}
}

func TestUpdateStockNotFound(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"quantity": "5"})
	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/ingredients/stock/missing-lot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("PATCH status = %d, want 404", resp.StatusCode)
	}

	del, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/ingredients/stock/missing-lot", nil)
	resp, err = http.DefaultClient.Do(del)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("DELETE status = %d, want 404", resp.StatusCode)
	}
}

func TestExpiringAlerts(t *testing.T) {
	srv := newTestServer(t)

	var alerts []models.ExpiryAlert
	getJSON(t, srv.URL+"/api/ingredients/expiring/3510/3", &alerts)
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2 seeded lots inside 3 days", len(alerts))
	}
	var foundToday bool
	for _, a := range alerts {
		if a.DaysUntilExpiry == 0 {
			foundToday = true
			if a.SuggestedAction != "use immediately - produce with it" {
				t.Errorf("action for same-day expiry = %q", a.SuggestedAction)
			}
		}
	}
	if !foundToday {
		t.Error("missing alert for the lot expiring today")
	}
}

func TestBranchStats(t *testing.T) {
	srv := newTestServer(t)

	var stats models.BranchStats
	getJSON(t, srv.URL+"/api/stats/3510", &stats)
	if stats.TotalIngredients != 2 {
		t.Errorf("totalIngredients = %d, want 2", stats.TotalIngredients)
	}
	if stats.ExpiringCount != 2 {
		t.Errorf("expiringCount = %d, want 2", stats.ExpiringCount)
	}
	if stats.TotalProducts != 15 {
		t.Errorf("totalProducts = %d, want 15", stats.TotalProducts)
	}
}

func TestSignupAndLogin(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/signup", models.SignupRequest{Username: "manager", Password: "secret1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	var signedUp models.LoginResponse
	decode(t, resp, &signedUp)
	if signedUp.Token == "" || signedUp.User.Username != "manager" {
		t.Fatalf("signup response = %+v", signedUp)
	}

	dup := postJSON(t, srv.URL+"/auth/signup", models.SignupRequest{Username: "manager", Password: "secret1"})
	dup.Body.Close()
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", dup.StatusCode)
	}

	login := postJSON(t, srv.URL+"/auth/login", models.LoginRequest{Username: "manager", Password: "secret1"})
	if login.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", login.StatusCode)
	}
	var loggedIn models.LoginResponse
	decode(t, login, &loggedIn)
	if loggedIn.Token == "" {
		t.Error("login returned no token")
	}

	bad := postJSON(t, srv.URL+"/auth/login", models.LoginRequest{Username: "manager", Password: "wrong-pass"})
	bad.Body.Close()
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", bad.StatusCode)
	}
}

func TestSignupValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/signup", models.SignupRequest{Username: "", Password: "short"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
