// Package session is the ephemeral per-visitor state: shopper identity,
// admin flag, the cart mapping and the cached navbar item count. It is
// deliberately an interface so cart and checkout logic can be exercised
// without a cookie transport.
package session

import (
	"net/http"

	"github.com/alextreichler/tiendamanzana/internal/cart"
)

// Data is everything the storefront keeps per visitor.
type Data struct {
	ShopperID   int
	ShopperName string
	IsAdmin     bool
	Cart        cart.Cart
	CartCount   int
}

// LoggedIn reports whether an authenticated shopper identity is present.
func (d *Data) LoggedIn() bool {
	return d.ShopperID != 0
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Type    string // "success" or "error"
	Message string
}

// Store reads and writes visitor state keyed by whatever the transport
// uses to identify a visitor (a cookie in production, nothing in tests).
type Store interface {
	// Get returns the visitor's state, zero-valued for new visitors.
	Get(r *http.Request) *Data
	// Save persists the state back to the visitor.
	Save(r *http.Request, w http.ResponseWriter, d *Data) error
	// Clear wipes the visitor's state entirely (logout).
	Clear(r *http.Request, w http.ResponseWriter) error
	// AddFlash queues a one-shot message.
	AddFlash(r *http.Request, w http.ResponseWriter, f Flash)
	// Flashes drains queued messages.
	Flashes(r *http.Request, w http.ResponseWriter) []Flash
}
