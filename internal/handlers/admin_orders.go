package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/gorilla/csrf"
)

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	orders, err := h.Store.GetAllOrders(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	totalOrders, err := h.Store.GetTotalOrdersCount(r.Context())
	if err != nil {
		http.Error(w, "Error fetching total order count", http.StatusInternalServerError)
		return
	}
	totalPages := (totalOrders + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Ver Pedidos")
	data["Orders"] = orders
	data["CurrentPage"] = page
	data["TotalPages"] = totalPages
	data["Limit"] = limit
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_pedidos.html", data)
}

// EditOrderForm shows an order with its lines and a status field.
func (h *AdminHandler) EditOrderForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	order, err := h.Store.GetOrder(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}
	order.Lines, err = h.Store.GetOrderLines(r.Context(), order.ID)
	if err != nil {
		http.Error(w, "Error fetching order lines", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Actualizar Estado del Pedido")
	data["Order"] = order
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_pedido.html", data)
}

// UpdateOrder changes the free-text status. It returns to the owning
// user's edit page, where the console links orders from.
func (h *AdminHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	order, err := h.Store.GetOrder(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}

	if err := h.Store.UpdateOrderStatus(r.Context(), id, r.FormValue("estado")); err != nil {
		http.Error(w, "Error updating status", http.StatusInternalServerError)
		return
	}

	h.Sessions.AddFlash(r, w, sessionFlash("success", "Pedido actualizado."))
	http.Redirect(w, r, "/admin/usuario/actualizar/"+strconv.Itoa(order.ShopperID)+"/", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteOrderConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	order, err := h.Store.GetOrder(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Borrar Pedido")
	data["Order"] = order
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_pedido_borrar.html", data)
}

// DeleteOrder removes the order and its lines.
func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	order, err := h.Store.GetOrder(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Redirect(w, r, "/admin/pedido/ver/", http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}

	if err := h.Store.DeleteOrder(r.Context(), id); err != nil {
		http.Error(w, "Error deleting order", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/usuario/actualizar/"+strconv.Itoa(order.ShopperID)+"/", http.StatusSeeOther)
}
