package store

import (
	"context"
	"database/sql"

	"github.com/alextreichler/tiendamanzana/internal/models"
)

const productColumns = `id, category, model, description, price, image_url, generation, kind, compatible_model, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Category, &p.Model, &p.Description, &p.Price,
		&p.ImageURL, &p.Generation, &p.Kind, &p.CompatibleModel, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (category, model, description, price, image_url, generation, kind, compatible_model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.ExecContext(ctx, query, p.Category, p.Model, p.Description,
		p.Price, p.ImageURL, p.Generation, p.Kind, p.CompatibleModel)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

// GetProduct is the point lookup the cart projector and the order
// materializer both resolve through. Missing rows map to ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, category models.Category, id int) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = ? AND id = ?`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, category, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) GetProductsByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = ? ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET model = ?, description = ?, price = ?, image_url = ?, generation = ?, kind = ?, compatible_model = ?
		WHERE category = ? AND id = ?
	`
	_, err := s.DB.ExecContext(ctx, query, p.Model, p.Description, p.Price,
		p.ImageURL, p.Generation, p.Kind, p.CompatibleModel, p.Category, p.ID)
	return err
}

func (s *Store) DeleteProduct(ctx context.Context, category models.Category, id int) error {
	query := `DELETE FROM products WHERE category = ? AND id = ?`
	_, err := s.DB.ExecContext(ctx, query, category, id)
	return err
}
