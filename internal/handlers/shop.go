package handlers

import (
	"net/http"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/gorilla/csrf"
)

// ShopHandler serves the public storefront pages.
type ShopHandler struct {
	*App
}

// categoryPaths maps the plural URL segment under /productos/ to its
// category. Unknown segments 404.
var categoryPaths = map[string]models.Category{
	"celulares":  models.CategoryPhone,
	"laptops":    models.CategoryLaptop,
	"tablets":    models.CategoryTablet,
	"airpods":    models.CategoryEarbuds,
	"accesorios": models.CategoryAccessory,
}

func (h *ShopHandler) Index(w http.ResponseWriter, r *http.Request) {
	// ServeMux sends every unmatched path here; keep the home page strict.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess := h.Sessions.Get(r)
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	data := h.pageData(r, w, sess, "Inicio - Tienda Apple")
	h.render(w, "home.html", data)
}

func (h *ShopHandler) Category(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryPaths[r.PathValue("categoria")]
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess := h.Sessions.Get(r)
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	products, err := h.Store.GetProductsByCategory(r.Context(), category)
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	data := h.pageData(r, w, sess, category.Label())
	data["Category"] = category
	data["Products"] = products
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "productos.html", data)
}

// MyOrders shows the logged-in shopper's order history, newest first.
func (h *ShopHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if !h.requireShopper(w, r, sess) {
		return
	}
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	orders, err := h.Store.GetOrdersByShopper(r.Context(), sess.ShopperID)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}
	for i := range orders {
		lines, err := h.Store.GetOrderLines(r.Context(), orders[i].ID)
		if err != nil {
			http.Error(w, "Error fetching order details", http.StatusInternalServerError)
			return
		}
		orders[i].Lines = lines
	}

	data := h.pageData(r, w, sess, "Mis Pedidos")
	data["Orders"] = orders
	h.render(w, "mis_pedidos.html", data)
}
