package store

import (
	"context"
	"database/sql"

	"github.com/alextreichler/tiendamanzana/internal/models"
)

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (shopper_id, address_id, payment_method_id, total, status, created_at)
		VALUES (?, NULLIF(?, 0), NULLIF(?, 0), ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.ExecContext(ctx, query, o.ShopperID, o.AddressID,
		o.PaymentMethodID, o.Total, o.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = int(id)
	return nil
}

func (s *Store) CreateOrderLine(ctx context.Context, l *models.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, category, product_id, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := s.DB.ExecContext(ctx, query, l.OrderID, l.Category,
		l.ProductID, l.Quantity, l.UnitPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = int(id)
	return nil
}

const orderColumns = `o.id, o.shopper_id, COALESCE(u.name, ''), COALESCE(o.address_id, 0), COALESCE(o.payment_method_id, 0), o.total, o.status, o.created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.ShopperID, &o.ShopperName, &o.AddressID,
		&o.PaymentMethodID, &o.Total, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN shoppers u ON o.shopper_id = u.id
		WHERE o.id = ?
	`
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrdersByShopper returns a shopper's orders newest first.
func (s *Store) GetOrdersByShopper(ctx context.Context, shopperID int) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN shoppers u ON o.shopper_id = u.id
		WHERE o.shopper_id = ?
		ORDER BY o.created_at DESC
	`
	return s.queryOrders(ctx, query, shopperID)
}

func (s *Store) GetAllOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN shoppers u ON o.shopper_id = u.id
		ORDER BY o.created_at DESC
		LIMIT ? OFFSET ?
	`
	return s.queryOrders(ctx, query, limit, offset)
}

func (s *Store) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// GetOrderLines returns an order's lines joined with the live product for a
// display name; a deleted product falls back to the category label.
func (s *Store) GetOrderLines(ctx context.Context, orderID int) ([]models.OrderLine, error) {
	query := `
		SELECT l.id, l.order_id, l.category, l.product_id, l.quantity, l.unit_price,
		       COALESCE(NULLIF(p.model, ''), NULLIF(p.kind, ''), l.category)
		FROM order_lines l
		LEFT JOIN products p ON l.product_id = p.id AND l.category = p.category
		WHERE l.order_id = ?
		ORDER BY l.id
	`
	rows, err := s.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.Category, &l.ProductID,
			&l.Quantity, &l.UnitPrice, &l.ProductName); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *Store) GetTotalOrdersCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

func (s *Store) DeleteOrder(ctx context.Context, id int) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = ?`, id); err != nil {
		return err
	}
	_, err := s.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	return err
}
