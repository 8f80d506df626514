package store

import (
	"context"
	"database/sql"

	"github.com/alextreichler/tiendamanzana/internal/models"
)

type DashboardStats struct {
	TotalProducts      int
	TotalShoppers      int
	TotalOrders        int
	ProductsByCategory map[models.Category]int
	OrdersByStatus     map[string]int
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ProductsByCategory: make(map[models.Category]int),
		OrdersByStatus:     make(map[string]int),
	}

	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM shoppers`).Scan(&stats.TotalShoppers)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT category, COUNT(*) FROM products GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cat models.Category
		var count int
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, err
		}
		stats.ProductsByCategory[cat] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := s.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	return stats, statusRows.Err()
}
