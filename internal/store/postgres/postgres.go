// Package postgres is the pgx-backed Storage implementation.
//
// Date columns are cast to text in queries so the wire format stays the
// calendar-date string the API exposes (YYYY-MM-DD).
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bakery-backend/internal/models"
	"bakery-backend/internal/rules"
	"bakery-backend/internal/store"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrConflict
	}
	return err
}

// Users

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRow(ctx,
		`SELECT id, username, password FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.DB.QueryRow(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`,
		user.Username, user.Password).Scan(&user.ID)
	return mapErr(err)
}

// Branches

func (s *Store) ListBranches(ctx context.Context) ([]models.Branch, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, name, location FROM branches ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Branch, 0)
	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Location); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) GetBranch(ctx context.Context, id string) (*models.Branch, error) {
	var b models.Branch
	err := s.DB.QueryRow(ctx, `SELECT id, name, location FROM branches WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Location)
	if err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (s *Store) CreateBranch(ctx context.Context, branch models.Branch) (*models.Branch, error) {
	_, err := s.DB.Exec(ctx,
		`INSERT INTO branches (id, name, location) VALUES ($1, $2, $3)`,
		branch.ID, branch.Name, branch.Location)
	if err != nil {
		return nil, mapErr(err)
	}
	return &branch, nil
}

// Ingredients

func (s *Store) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, name, unit, image_url FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Ingredient, 0)
	for rows.Next() {
		var i models.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.Unit, &i.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *Store) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	var i models.Ingredient
	err := s.DB.QueryRow(ctx,
		`SELECT id, name, unit, image_url FROM ingredients WHERE id = $1`, id).
		Scan(&i.ID, &i.Name, &i.Unit, &i.ImageURL)
	if err != nil {
		return nil, mapErr(err)
	}
	return &i, nil
}

func (s *Store) CreateIngredient(ctx context.Context, ingredient models.Ingredient) (*models.Ingredient, error) {
	err := s.DB.QueryRow(ctx,
		`INSERT INTO ingredients (name, unit, image_url) VALUES ($1, $2, $3) RETURNING id`,
		ingredient.Name, ingredient.Unit, ingredient.ImageURL).Scan(&ingredient.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &ingredient, nil
}

// Ingredient stock

const ingredientStockSelect = `
	SELECT s.id, s.ingredient_id, s.branch_id, s.quantity,
	       s.expiry_date::text, s.batch_number, s.received_date::text, s.is_from_yesterday,
	       i.id, i.name, i.unit, i.image_url
	FROM ingredient_stock s
	JOIN ingredients i ON i.id = s.ingredient_id`

func (s *Store) scanIngredientStockItems(rows pgx.Rows) ([]models.IngredientStockItem, error) {
	defer rows.Close()
	today := time.Now()
	out := make([]models.IngredientStockItem, 0)
	for rows.Next() {
		var item models.IngredientStockItem
		if err := rows.Scan(
			&item.ID, &item.IngredientID, &item.BranchID, &item.Quantity,
			&item.ExpiryDate, &item.BatchNumber, &item.ReceivedDate, &item.IsFromYesterday,
			&item.Ingredient.ID, &item.Ingredient.Name, &item.Ingredient.Unit, &item.Ingredient.ImageURL,
		); err != nil {
			return nil, err
		}
		if exp, err := time.Parse("2006-01-02", item.ExpiryDate); err == nil {
			item.DaysUntilExpiry = rules.DaysUntilExpiry(exp, today)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) ListIngredientStock(ctx context.Context, branchID string) ([]models.IngredientStockItem, error) {
	rows, err := s.DB.Query(ctx, ingredientStockSelect+` WHERE s.branch_id = $1`, branchID)
	if err != nil {
		return nil, err
	}
	return s.scanIngredientStockItems(rows)
}

func (s *Store) ListIngredientStockExpiring(ctx context.Context, branchID string, days int) ([]models.IngredientStockItem, error) {
	// expiry_date <= today + N days keeps already-expired lots in the
	// result, matching the inclusive-upper-bound-only filter.
	rows, err := s.DB.Query(ctx,
		ingredientStockSelect+` WHERE s.branch_id = $1 AND s.expiry_date <= CURRENT_DATE + $2::int`,
		branchID, days)
	if err != nil {
		return nil, err
	}
	return s.scanIngredientStockItems(rows)
}

func (s *Store) AddIngredientStock(ctx context.Context, lot models.IngredientStock) (*models.IngredientStock, error) {
	err := s.DB.QueryRow(ctx, `
		INSERT INTO ingredient_stock
			(ingredient_id, branch_id, quantity, expiry_date, batch_number, received_date, is_from_yesterday)
		VALUES ($1, $2, $3, $4::date, $5, $6::date, $7)
		RETURNING id`,
		lot.IngredientID, lot.BranchID, lot.Quantity, lot.ExpiryDate,
		lot.BatchNumber, lot.ReceivedDate, lot.IsFromYesterday).Scan(&lot.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &lot, nil
}

func (s *Store) UpdateIngredientStockQuantity(ctx context.Context, id string, quantity decimal.Decimal) (*models.IngredientStock, error) {
	var lot models.IngredientStock
	err := s.DB.QueryRow(ctx, `
		UPDATE ingredient_stock SET quantity = $2 WHERE id = $1
		RETURNING id, ingredient_id, branch_id, quantity,
		          expiry_date::text, batch_number, received_date::text, is_from_yesterday`,
		id, quantity).Scan(
		&lot.ID, &lot.IngredientID, &lot.BranchID, &lot.Quantity,
		&lot.ExpiryDate, &lot.BatchNumber, &lot.ReceivedDate, &lot.IsFromYesterday)
	if err != nil {
		return nil, mapErr(err)
	}
	return &lot, nil
}

func (s *Store) DeleteIngredientStock(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM ingredient_stock WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Products

func (s *Store) ListProducts(ctx context.Context) ([]models.BakeryProduct, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT id, name, image_url, shelf_life_hours FROM bakery_products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.BakeryProduct, 0)
	for rows.Next() {
		var p models.BakeryProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL, &p.ShelfLifeHours); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.BakeryProduct, error) {
	var p models.BakeryProduct
	err := s.DB.QueryRow(ctx,
		`SELECT id, name, image_url, shelf_life_hours FROM bakery_products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.ImageURL, &p.ShelfLifeHours)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product models.BakeryProduct) (*models.BakeryProduct, error) {
	err := s.DB.QueryRow(ctx,
		`INSERT INTO bakery_products (name, image_url, shelf_life_hours) VALUES ($1, $2, $3) RETURNING id`,
		product.Name, product.ImageURL, product.ShelfLifeHours).Scan(&product.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &product, nil
}

// Product stock

func (s *Store) ListProductStock(ctx context.Context, branchID string) ([]models.ProductStockItem, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT s.id, s.product_id, s.branch_id, s.quantity, s.production_time,
		       p.id, p.name, p.image_url, p.shelf_life_hours
		FROM product_stock s
		JOIN bakery_products p ON p.id = s.product_id
		WHERE s.branch_id = $1
		ORDER BY p.name`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ProductStockItem, 0)
	for rows.Next() {
		var item models.ProductStockItem
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.BranchID, &item.Quantity, &item.ProductionTime,
			&item.Product.ID, &item.Product.Name, &item.Product.ImageURL, &item.Product.ShelfLifeHours,
		); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) AddProductStock(ctx context.Context, stock models.ProductStock) (*models.ProductStock, error) {
	err := s.DB.QueryRow(ctx, `
		INSERT INTO product_stock (product_id, branch_id, quantity, production_time)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		stock.ProductID, stock.BranchID, stock.Quantity, stock.ProductionTime).Scan(&stock.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &stock, nil
}

func (s *Store) UpdateProductStockQuantity(ctx context.Context, id string, quantity int) (*models.ProductStock, error) {
	var ps models.ProductStock
	err := s.DB.QueryRow(ctx, `
		UPDATE product_stock SET quantity = $2 WHERE id = $1
		RETURNING id, product_id, branch_id, quantity, production_time`,
		id, quantity).Scan(&ps.ID, &ps.ProductID, &ps.BranchID, &ps.Quantity, &ps.ProductionTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &ps, nil
}

// Hourly checks

func (s *Store) AddHourlyCheck(ctx context.Context, check models.HourlyCheck) (*models.HourlyCheck, error) {
	err := s.DB.QueryRow(ctx, `
		INSERT INTO hourly_checks
			(branch_id, product_id, check_time, counted_quantity, system_quantity, variance)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		check.BranchID, check.ProductID, check.CheckTime,
		check.CountedQuantity, check.SystemQuantity, check.Variance).Scan(&check.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &check, nil
}

func (s *Store) ListHourlyChecks(ctx context.Context, branchID string, day time.Time) ([]models.HourlyCheck, error) {
	dayStr := day.Format("2006-01-02")
	rows, err := s.DB.Query(ctx, `
		SELECT id, branch_id, product_id, check_time, counted_quantity, system_quantity, variance
		FROM hourly_checks
		WHERE branch_id = $1 AND left(check_time, 10) = $2
		ORDER BY check_time`, branchID, dayStr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.HourlyCheck, 0)
	for rows.Next() {
		var c models.HourlyCheck
		if err := rows.Scan(&c.ID, &c.BranchID, &c.ProductID, &c.CheckTime,
			&c.CountedQuantity, &c.SystemQuantity, &c.Variance); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Demand forecasts

func (s *Store) ListDemandForecasts(ctx context.Context, branchID string, date string) ([]models.DemandForecast, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, branch_id, product_id, forecast_date::text, hour, predicted_demand
		FROM demand_forecasts
		WHERE branch_id = $1 AND forecast_date = $2::date
		ORDER BY hour`, branchID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DemandForecast, 0)
	for rows.Next() {
		var f models.DemandForecast
		if err := rows.Scan(&f.ID, &f.BranchID, &f.ProductID, &f.ForecastDate, &f.Hour, &f.PredictedDemand); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) AddDemandForecast(ctx context.Context, forecast models.DemandForecast) (*models.DemandForecast, error) {
	err := s.DB.QueryRow(ctx, `
		INSERT INTO demand_forecasts (branch_id, product_id, forecast_date, hour, predicted_demand)
		VALUES ($1, $2, $3::date, $4, $5) RETURNING id`,
		forecast.BranchID, forecast.ProductID, forecast.ForecastDate,
		forecast.Hour, forecast.PredictedDemand).Scan(&forecast.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &forecast, nil
}
