package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/gorilla/csrf"
)

// CartHandler serves the cart view and its three mutations. Every mutation
// re-runs the projector (pruning stale lines, refreshing the cached count)
// before redirecting back to the cart.
type CartHandler struct {
	*App
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	proj, err := h.refreshCart(r, w, sess)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	data := h.pageData(r, w, sess, "Mi Carrito de Compras")
	data["Lines"] = proj.Lines
	data["Total"] = proj.Total
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "carrito.html", data)
}

// Add handles POST /carrito/agregar/. Unknown categories and missing
// products redirect silently; the shopper never sees an error page for a
// stale product link.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.FormValue("next"))
	if next == "/" {
		next = "/carrito/"
	}

	category, ok := models.ParseCategory(r.FormValue("product_type"))
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	productID, err := strconv.Atoi(r.FormValue("product_id"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	quantity, err := strconv.Atoi(r.FormValue("cantidad"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	if _, err := h.Store.GetProduct(r.Context(), category, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		http.Error(w, "Error loading product", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	sess.Cart.Add(category, productID, quantity)
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Remove handles POST /carrito/eliminar/{key}/. Removing an absent key is
// a no-op so repeat submissions are harmless.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	sess := h.Sessions.Get(r)
	sess.Cart.Remove(key)
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/carrito/", http.StatusSeeOther)
}

// Update handles POST /carrito/actualizar/{key}/. A quantity below 1
// removes the line; an unparsable quantity leaves the cart untouched.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	quantity, err := strconv.Atoi(r.FormValue("cantidad"))
	if err != nil {
		http.Redirect(w, r, "/carrito/", http.StatusSeeOther)
		return
	}

	sess := h.Sessions.Get(r)
	sess.Cart.SetQuantity(key, quantity)
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/carrito/", http.StatusSeeOther)
}
