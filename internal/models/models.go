package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of product categories the store sells. The
// string values are the wire slugs used in cart keys, form fields and URLs.
type Category string

const (
	CategoryPhone     Category = "celular"
	CategoryLaptop    Category = "laptop"
	CategoryTablet    Category = "tablet"
	CategoryEarbuds   Category = "airpod"
	CategoryAccessory Category = "accesorio"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPhone,
	CategoryLaptop,
	CategoryTablet,
	CategoryEarbuds,
	CategoryAccessory,
}

// ParseCategory normalizes a wire slug to a Category. Unknown slugs return
// ok=false; callers treat those lines as pruning candidates.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryPhone:
		return CategoryPhone, true
	case CategoryLaptop:
		return CategoryLaptop, true
	case CategoryTablet:
		return CategoryTablet, true
	case CategoryEarbuds:
		return CategoryEarbuds, true
	case CategoryAccessory:
		return CategoryAccessory, true
	}
	return "", false
}

func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// Label is the human-readable category name used in page titles.
func (c Category) Label() string {
	switch c {
	case CategoryPhone:
		return "Celulares"
	case CategoryLaptop:
		return "Laptops"
	case CategoryTablet:
		return "Tablets"
	case CategoryEarbuds:
		return "Airpods"
	case CategoryAccessory:
		return "Accesorios"
	}
	return string(c)
}

// Product is a catalog entry. Generation is only set for earbuds; Kind and
// CompatibleModel only for accessories. Every other category uses Model.
type Product struct {
	ID              int             `json:"id"`
	Category        Category        `json:"category"`
	Model           string          `json:"model"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        string          `json:"image_url"`
	Generation      string          `json:"generation,omitempty"`
	Kind            string          `json:"kind,omitempty"`
	CompatibleModel string          `json:"compatible_model,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// DisplayName falls back from model name to accessory kind to a generic
// placeholder. The chain is explicit; no reflection.
func (p Product) DisplayName() string {
	if p.Model != "" {
		return p.Model
	}
	if p.Kind != "" {
		return p.Kind
	}
	return "Producto"
}

// Address is a shipping address. All five fields are required at checkout.
type Address struct {
	ID           int    `json:"id"`
	Street       string `json:"street"`
	PostalCode   string `json:"postal_code"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// Complete reports whether every field has been filled in.
func (a Address) Complete() bool {
	return a.Street != "" && a.PostalCode != "" && a.Neighborhood != "" &&
		a.City != "" && a.Country != ""
}

// PaymentMethod is a stored card. Details are kept, never charged. A shopper
// has at most one at a time.
type PaymentMethod struct {
	ID         int    `json:"id"`
	CardHolder string `json:"card_holder"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"-"`
}

// LastFour returns the trailing card digits for display.
func (p PaymentMethod) LastFour() string {
	if len(p.CardNumber) < 4 {
		return p.CardNumber
	}
	return p.CardNumber[len(p.CardNumber)-4:]
}

// Shopper is a storefront account. AddressID and PaymentMethodID are zero
// until the shopper saves one during checkout (or an admin attaches one).
type Shopper struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"-"` // bcrypt hash
	AddressID       int    `json:"address_id,omitempty"`
	PaymentMethodID int    `json:"payment_method_id,omitempty"`
}

// Admin is a console account, seeded via the cli.
type Admin struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash
}

// Order is a finalized checkout. Total is the projected cart total at
// materialization time; it is not derived from the persisted lines.
type Order struct {
	ID              int             `json:"id"`
	ShopperID       int             `json:"shopper_id"`
	ShopperName     string          `json:"shopper_name"` // for display convenience
	AddressID       int             `json:"address_id"`
	PaymentMethodID int             `json:"payment_method_id"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	Lines           []OrderLine     `json:"lines,omitempty"`
}

// OrderLine references its product by category tag plus id, so exactly one
// category is populated by construction. UnitPrice is frozen at the price
// the shopper saw when the cart was projected.
type OrderLine struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	Category    Category        `json:"category"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"` // for display convenience
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal is quantity times the frozen unit price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

const OrderStatusPending = "Pendiente"
