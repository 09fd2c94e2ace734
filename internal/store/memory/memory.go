// Package memory is the map-backed Storage implementation used for offline
// and development runs, selected when no database is reachable. All data is
// lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bakery-backend/internal/models"
	"bakery-backend/internal/rules"
	"bakery-backend/internal/store"
)

const dateLayout = "2006-01-02"

type Store struct {
	mu              sync.RWMutex
	users           map[string]models.User
	branches        map[string]models.Branch
	ingredients     map[string]models.Ingredient
	ingredientStock map[string]models.IngredientStock
	products        map[string]models.BakeryProduct
	productStock    map[string]models.ProductStock
	hourlyChecks    map[string]models.HourlyCheck
	demandForecasts map[string]models.DemandForecast
	branchForecasts map[string]models.BranchForecast
	productForecast map[string]models.ProductForecast

	recipes        []models.ProductRecipe
	productionPlan []models.ProductionPlan
	promotions     []models.PromotionRecommendation
	pricing        []models.DynamicPricingSchedule
	shelfAlerts    []models.ShelfLifeAlert
	dailyActions   []models.DailyActionPlan
	wasteAnalysis  []models.BranchWasteAnalysis
	ingredientDmd  []models.IngredientDemandForecast

	lastForecastAt time.Time
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users:           make(map[string]models.User),
		branches:        make(map[string]models.Branch),
		ingredients:     make(map[string]models.Ingredient),
		ingredientStock: make(map[string]models.IngredientStock),
		products:        make(map[string]models.BakeryProduct),
		productStock:    make(map[string]models.ProductStock),
		hourlyChecks:    make(map[string]models.HourlyCheck),
		demandForecasts: make(map[string]models.DemandForecast),
		branchForecasts: make(map[string]models.BranchForecast),
		productForecast: make(map[string]models.ProductForecast),
	}
}

// NewSeeded returns an in-memory store pre-loaded with demo branches,
// ingredients, products and a few stock rows for the first branch.
func NewSeeded() *Store {
	s := New()
	s.seed()
	return s
}

func (s *Store) seed() {
	branches := []models.Branch{
		{ID: "3510", Name: "Kamala Beach 1"},
		{ID: "18469", Name: "Rawai Beach"},
		{ID: "18504", Name: "Sam Kong Market"},
		{ID: "8732", Name: "Ratchaphruek (Bang Phlap)"},
		{ID: "15757", Name: "The Bliss South Beach Patong"},
		{ID: "9146", Name: "Phanason Village"},
		{ID: "9922", Name: "Srisuda"},
	}
	for _, b := range branches {
		s.branches[b.ID] = b
	}

	type ing struct{ name, unit string }
	var flourID, milkID string
	for _, i := range []ing{
		{"bread flour", "kg"},
		{"fresh milk", "L"},
		{"butter", "kg"},
		{"eggs", "pcs"},
		{"sugar", "kg"},
		{"salt", "g"},
	} {
		id := uuid.NewString()
		s.ingredients[id] = models.Ingredient{ID: id, Name: i.name, Unit: i.unit}
		switch i.name {
		case "bread flour":
			flourID = id
		case "fresh milk":
			milkID = id
		}
	}

	type prod struct {
		name  string
		hours int
	}
	var croissantID, cookieID, muffinID string
	for _, p := range []prod{
		{"croissant", 8},
		{"danish", 12},
		{"butter cake", 24},
		{"donut", 16},
		{"butter cookie", 72},
		{"muffin", 12},
	} {
		id := uuid.NewString()
		s.products[id] = models.BakeryProduct{ID: id, Name: p.name, ShelfLifeHours: p.hours}
		switch p.name {
		case "croissant":
			croissantID = id
		case "butter cookie":
			cookieID = id
		case "muffin":
			muffinID = id
		}
	}

	first := branches[0].ID
	now := time.Now()
	today := now.Format(dateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(dateLayout)
	twoDaysAgo := now.AddDate(0, 0, -2).Format(dateLayout)
	batch1 := "BATCH-001"
	batch2 := "BATCH-002"

	for _, lot := range []models.IngredientStock{
		{
			ID:           uuid.NewString(),
			IngredientID: flourID,
			BranchID:     first,
			Quantity:     decimal.RequireFromString("25.5"),
			ExpiryDate:   tomorrow,
			BatchNumber:  &batch1,
			ReceivedDate: twoDaysAgo,
		},
		{
			ID:           uuid.NewString(),
			IngredientID: milkID,
			BranchID:     first,
			Quantity:     decimal.RequireFromString("15"),
			ExpiryDate:   today,
			BatchNumber:  &batch2,
			ReceivedDate: now.AddDate(0, 0, -1).Format(dateLayout),
		},
	} {
		s.ingredientStock[lot.ID] = lot
	}

	for _, ps := range []models.ProductStock{
		{ID: uuid.NewString(), ProductID: croissantID, BranchID: first, Quantity: 8, ProductionTime: now.Add(-5 * time.Hour)},
		{ID: uuid.NewString(), ProductID: cookieID, BranchID: first, Quantity: 3, ProductionTime: now.Add(-2 * time.Hour)},
		{ID: uuid.NewString(), ProductID: muffinID, BranchID: first, Quantity: 4, ProductionTime: now.Add(-4 * time.Hour)},
	} {
		s.productStock[ps.ID] = ps
	}
}

// Users

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return store.ErrConflict
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = *user
	return nil
}

// Branches

func (s *Store) ListBranches(ctx context.Context) ([]models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetBranch(ctx context.Context, id string) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (s *Store) CreateBranch(ctx context.Context, branch models.Branch) (*models.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.branches[branch.ID]; ok {
		return nil, store.ErrConflict
	}
	s.branches[branch.ID] = branch
	return &branch, nil
}

// Ingredients

func (s *Store) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ingredient, 0, len(s.ingredients))
	for _, i := range s.ingredients {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.ingredients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &i, nil
}

func (s *Store) CreateIngredient(ctx context.Context, ingredient models.Ingredient) (*models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ingredient.ID = uuid.NewString()
	s.ingredients[ingredient.ID] = ingredient
	return &ingredient, nil
}

// Ingredient stock

func (s *Store) ListIngredientStock(ctx context.Context, branchID string) ([]models.IngredientStockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listIngredientStockLocked(branchID), nil
}

func (s *Store) listIngredientStockLocked(branchID string) []models.IngredientStockItem {
	today := time.Now()
	out := make([]models.IngredientStockItem, 0)
	for _, lot := range s.ingredientStock {
		if lot.BranchID != branchID {
			continue
		}
		ing, ok := s.ingredients[lot.IngredientID]
		if !ok {
			continue
		}
		days := 0
		if exp, err := time.Parse(dateLayout, lot.ExpiryDate); err == nil {
			days = rules.DaysUntilExpiry(exp, today)
		}
		out = append(out, models.IngredientStockItem{
			IngredientStock: lot,
			Ingredient:      ing,
			DaysUntilExpiry: days,
		})
	}
	return out
}

func (s *Store) ListIngredientStockExpiring(ctx context.Context, branchID string, days int) ([]models.IngredientStockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.listIngredientStockLocked(branchID)
	out := make([]models.IngredientStockItem, 0)
	for _, item := range all {
		if rules.ExpiringSoon(item.DaysUntilExpiry, days) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) AddIngredientStock(ctx context.Context, lot models.IngredientStock) (*models.IngredientStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lot.ID = uuid.NewString()
	s.ingredientStock[lot.ID] = lot
	return &lot, nil
}

func (s *Store) UpdateIngredientStockQuantity(ctx context.Context, id string, quantity decimal.Decimal) (*models.IngredientStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lot, ok := s.ingredientStock[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	lot.Quantity = quantity
	s.ingredientStock[id] = lot
	return &lot, nil
}

func (s *Store) DeleteIngredientStock(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ingredientStock[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.ingredientStock, id)
	return nil
}

// Products

func (s *Store) ListProducts(ctx context.Context) ([]models.BakeryProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BakeryProduct, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.BakeryProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product models.BakeryProduct) (*models.BakeryProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = uuid.NewString()
	s.products[product.ID] = product
	return &product, nil
}

// Product stock

func (s *Store) ListProductStock(ctx context.Context, branchID string) ([]models.ProductStockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ProductStockItem, 0)
	for _, ps := range s.productStock {
		if ps.BranchID != branchID {
			continue
		}
		p, ok := s.products[ps.ProductID]
		if !ok {
			continue
		}
		out = append(out, models.ProductStockItem{ProductStock: ps, Product: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.Name < out[j].Product.Name })
	return out, nil
}

func (s *Store) AddProductStock(ctx context.Context, stock models.ProductStock) (*models.ProductStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock.ID = uuid.NewString()
	s.productStock[stock.ID] = stock
	return &stock, nil
}

func (s *Store) UpdateProductStockQuantity(ctx context.Context, id string, quantity int) (*models.ProductStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.productStock[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	ps.Quantity = quantity
	s.productStock[id] = ps
	return &ps, nil
}

// Hourly checks

func (s *Store) AddHourlyCheck(ctx context.Context, check models.HourlyCheck) (*models.HourlyCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	check.ID = uuid.NewString()
	s.hourlyChecks[check.ID] = check
	return &check, nil
}

func (s *Store) ListHourlyChecks(ctx context.Context, branchID string, day time.Time) ([]models.HourlyCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dayStr := day.Format(dateLayout)
	out := make([]models.HourlyCheck, 0)
	for _, c := range s.hourlyChecks {
		if c.BranchID != branchID {
			continue
		}
		if t, err := time.Parse(time.RFC3339, c.CheckTime); err == nil && t.Format(dateLayout) == dayStr {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckTime < out[j].CheckTime })
	return out, nil
}

// Demand forecasts

func (s *Store) ListDemandForecasts(ctx context.Context, branchID string, date string) ([]models.DemandForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DemandForecast, 0)
	for _, f := range s.demandForecasts {
		if f.BranchID == branchID && f.ForecastDate == date {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

func (s *Store) AddDemandForecast(ctx context.Context, forecast models.DemandForecast) (*models.DemandForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	forecast.ID = uuid.NewString()
	s.demandForecasts[forecast.ID] = forecast
	return &forecast, nil
}

// Branch forecasts

func (s *Store) ListBranchForecasts(ctx context.Context, date string) ([]models.BranchForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BranchForecast, 0)
	for _, f := range s.branchForecasts {
		if f.ForecastDate == date {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BranchID < out[j].BranchID })
	return out, nil
}

func (s *Store) GetBranchForecast(ctx context.Context, branchID, date string) (*models.BranchForecastWithProducts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Re-imports append rather than overwrite, so several forecasts can
	// exist for the same branch and date. Reads take the newest.
	var latest *models.BranchForecast
	for _, f := range s.branchForecasts {
		if f.BranchID == branchID && f.ForecastDate == date {
			if latest == nil || f.CreatedAt.After(latest.CreatedAt) {
				f := f
				latest = &f
			}
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	products := s.listProductForecastsLocked(latest.ID)
	return &models.BranchForecastWithProducts{BranchForecast: *latest, Products: products}, nil
}

func (s *Store) AddBranchForecast(ctx context.Context, forecast models.BranchForecast, products []models.ProductForecast) (*models.BranchForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	forecast.ID = uuid.NewString()
	// CreatedAt breaks ties between re-imports of the same branch and
	// date, so it must be strictly increasing across inserts.
	now := time.Now()
	if !now.After(s.lastForecastAt) {
		now = s.lastForecastAt.Add(time.Nanosecond)
	}
	s.lastForecastAt = now
	forecast.CreatedAt = now
	s.branchForecasts[forecast.ID] = forecast
	for _, p := range products {
		p.ID = uuid.NewString()
		p.BranchForecastID = forecast.ID
		s.productForecast[p.ID] = p
	}
	return &forecast, nil
}

func (s *Store) ListProductForecasts(ctx context.Context, branchForecastID string) ([]models.ProductForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listProductForecastsLocked(branchForecastID), nil
}

func (s *Store) listProductForecastsLocked(branchForecastID string) []models.ProductForecast {
	out := make([]models.ProductForecast, 0)
	for _, p := range s.productForecast {
		if p.BranchForecastID == branchForecastID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out
}
