package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alextreichler/tiendamanzana/internal/models"
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const shopperColumns = `id, name, email, phone, password, COALESCE(address_id, 0), COALESCE(payment_method_id, 0)`

func scanShopper(row interface{ Scan(...any) error }) (*models.Shopper, error) {
	var u models.Shopper
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Password,
		&u.AddressID, &u.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateShopper(ctx context.Context, u *models.Shopper) error {
	query := `
		INSERT INTO shoppers (name, email, phone, password, address_id, payment_method_id)
		VALUES (?, ?, ?, ?, NULLIF(?, 0), NULLIF(?, 0))
	`
	res, err := s.DB.ExecContext(ctx, query, u.Name, u.Email, u.Phone,
		u.Password, u.AddressID, u.PaymentMethodID)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	return nil
}

func (s *Store) GetShopperByID(ctx context.Context, id int) (*models.Shopper, error) {
	query := `SELECT ` + shopperColumns + ` FROM shoppers WHERE id = ?`
	u, err := scanShopper(s.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) GetShopperByEmail(ctx context.Context, email string) (*models.Shopper, error) {
	query := `SELECT ` + shopperColumns + ` FROM shoppers WHERE email = ?`
	u, err := scanShopper(s.DB.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) GetAllShoppers(ctx context.Context) ([]models.Shopper, error) {
	query := `SELECT ` + shopperColumns + ` FROM shoppers ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shoppers []models.Shopper
	for rows.Next() {
		u, err := scanShopper(rows)
		if err != nil {
			return nil, err
		}
		shoppers = append(shoppers, *u)
	}
	return shoppers, rows.Err()
}

func (s *Store) UpdateShopper(ctx context.Context, u *models.Shopper) error {
	query := `
		UPDATE shoppers
		SET name = ?, email = ?, phone = ?, password = ?, address_id = NULLIF(?, 0), payment_method_id = NULLIF(?, 0)
		WHERE id = ?
	`
	_, err := s.DB.ExecContext(ctx, query, u.Name, u.Email, u.Phone,
		u.Password, u.AddressID, u.PaymentMethodID, u.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) DeleteShopper(ctx context.Context, id int) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM shoppers WHERE id = ?`, id)
	return err
}

// --- Addresses ---

func (s *Store) CreateAddress(ctx context.Context, a *models.Address) error {
	query := `
		INSERT INTO addresses (street, postal_code, neighborhood, city, country)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := s.DB.ExecContext(ctx, query, a.Street, a.PostalCode,
		a.Neighborhood, a.City, a.Country)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = int(id)
	return nil
}

func (s *Store) GetAddress(ctx context.Context, id int) (*models.Address, error) {
	query := `SELECT id, street, postal_code, neighborhood, city, country FROM addresses WHERE id = ?`
	var a models.Address
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Street,
		&a.PostalCode, &a.Neighborhood, &a.City, &a.Country)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) UpdateAddress(ctx context.Context, a *models.Address) error {
	query := `
		UPDATE addresses
		SET street = ?, postal_code = ?, neighborhood = ?, city = ?, country = ?
		WHERE id = ?
	`
	_, err := s.DB.ExecContext(ctx, query, a.Street, a.PostalCode,
		a.Neighborhood, a.City, a.Country, a.ID)
	return err
}

func (s *Store) DeleteAddress(ctx context.Context, id int) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM addresses WHERE id = ?`, id)
	return err
}

// --- Payment methods ---

func (s *Store) CreatePaymentMethod(ctx context.Context, p *models.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (card_holder, card_number, expiry, cvv)
		VALUES (?, ?, ?, ?)
	`
	res, err := s.DB.ExecContext(ctx, query, p.CardHolder, p.CardNumber, p.Expiry, p.CVV)
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

func (s *Store) GetPaymentMethod(ctx context.Context, id int) (*models.PaymentMethod, error) {
	query := `SELECT id, card_holder, card_number, expiry, cvv FROM payment_methods WHERE id = ?`
	var p models.PaymentMethod
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.CardHolder,
		&p.CardNumber, &p.Expiry, &p.CVV)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, p *models.PaymentMethod) error {
	query := `
		UPDATE payment_methods
		SET card_holder = ?, card_number = ?, expiry = ?, cvv = ?
		WHERE id = ?
	`
	_, err := s.DB.ExecContext(ctx, query, p.CardHolder, p.CardNumber, p.Expiry, p.CVV, p.ID)
	return err
}

func (s *Store) DeletePaymentMethod(ctx context.Context, id int) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM payment_methods WHERE id = ?`, id)
	return err
}

// --- Admins ---

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `SELECT id, email, password FROM admins WHERE email = ?`
	var a models.Admin
	err := s.DB.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.Password)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAdmin is mainly for seeding the console account from the cli.
func (s *Store) CreateAdmin(ctx context.Context, email, hashedPassword string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO admins (email, password) VALUES (?, ?)`, email, hashedPassword)
	return err
}
