package store

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned for point lookups that resolve to no row.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicateEmail is returned when a shopper create/update collides with
// an existing email.
var ErrDuplicateEmail = errors.New("store: email already registered")

type Store struct {
	DB *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

// InitSchema creates all tables. The server normally relies on Migrate; the
// cli calls this so it can run against a fresh database.
func (s *Store) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL DEFAULT '0',
		image_url TEXT NOT NULL DEFAULT '',
		generation TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT '',
		compatible_model TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS addresses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		street TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		neighborhood TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS payment_methods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		card_holder TEXT NOT NULL DEFAULT '',
		card_number TEXT NOT NULL DEFAULT '',
		expiry TEXT NOT NULL DEFAULT '',
		cvv TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS shoppers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL,
		address_id INTEGER,
		payment_method_id INTEGER
	);

	CREATE TABLE IF NOT EXISTS admins (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		shopper_id INTEGER NOT NULL,
		address_id INTEGER,
		payment_method_id INTEGER,
		total TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'Pendiente',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS order_lines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		unit_price TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	CREATE INDEX IF NOT EXISTS idx_orders_shopper ON orders(shopper_id);
	CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id);
	`
	_, err := s.DB.Exec(query)
	return err
}
