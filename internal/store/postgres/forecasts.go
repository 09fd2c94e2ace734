package postgres

import (
	"context"
	"fmt"

	"bakery-backend/internal/models"
)

func (s *Store) ListBranchForecasts(ctx context.Context, date string) ([]models.BranchForecast, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, branch_id, branch_name, forecast_date::text, total_forecast, accuracy, created_at
		FROM branch_forecasts
		WHERE forecast_date = $1::date
		ORDER BY branch_id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.BranchForecast, 0)
	for rows.Next() {
		var f models.BranchForecast
		if err := rows.Scan(&f.ID, &f.BranchID, &f.BranchName, &f.ForecastDate,
			&f.TotalForecast, &f.Accuracy, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) GetBranchForecast(ctx context.Context, branchID, date string) (*models.BranchForecastWithProducts, error) {
	var f models.BranchForecastWithProducts
	err := s.DB.QueryRow(ctx, `
		SELECT id, branch_id, branch_name, forecast_date::text, total_forecast, accuracy, created_at
		FROM branch_forecasts
		WHERE branch_id = $1 AND forecast_date = $2::date
		ORDER BY created_at DESC
		LIMIT 1`, branchID, date).
		Scan(&f.ID, &f.BranchID, &f.BranchName, &f.ForecastDate,
			&f.TotalForecast, &f.Accuracy, &f.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	products, err := s.ListProductForecasts(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	f.Products = products
	return &f, nil
}

// AddBranchForecast inserts the branch row and all product rows in a single
// transaction, so an import never leaves a branch forecast without its
// products.
func (s *Store) AddBranchForecast(ctx context.Context, forecast models.BranchForecast, products []models.ProductForecast) (*models.BranchForecast, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO branch_forecasts (branch_id, branch_name, forecast_date, total_forecast, accuracy)
		VALUES ($1, $2, $3::date, $4, $5)
		RETURNING id, created_at`,
		forecast.BranchID, forecast.BranchName, forecast.ForecastDate,
		forecast.TotalForecast, forecast.Accuracy).Scan(&forecast.ID, &forecast.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}

	for i, p := range products {
		_, err := tx.Exec(ctx, `
			INSERT INTO product_forecasts
				(branch_forecast_id, product_id, product_code, product_name,
				 forecast_quantity, min_quantity, max_quantity, accuracy, model_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			forecast.ID, p.ProductID, p.ProductCode, p.ProductName,
			p.ForecastQuantity, p.MinQuantity, p.MaxQuantity, p.Accuracy, p.ModelType)
		if err != nil {
			return nil, fmt.Errorf("insert product forecast %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &forecast, nil
}

func (s *Store) ListProductForecasts(ctx context.Context, branchForecastID string) ([]models.ProductForecast, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, branch_forecast_id, product_id, product_code, product_name,
		       forecast_quantity, min_quantity, max_quantity, accuracy, model_type
		FROM product_forecasts
		WHERE branch_forecast_id = $1
		ORDER BY product_name`, branchForecastID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ProductForecast, 0)
	for rows.Next() {
		var p models.ProductForecast
		if err := rows.Scan(&p.ID, &p.BranchForecastID, &p.ProductID, &p.ProductCode,
			&p.ProductName, &p.ForecastQuantity, &p.MinQuantity, &p.MaxQuantity,
			&p.Accuracy, &p.ModelType); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
