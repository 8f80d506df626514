package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/gorilla/csrf"
	"golang.org/x/crypto/bcrypt"
)

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	shoppers, err := h.Store.GetAllShoppers(r.Context())
	if err != nil {
		http.Error(w, "Error fetching users", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Ver Usuarios")
	data["Shoppers"] = shoppers
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_usuarios.html", data)
}

func (h *AdminHandler) NewUserForm(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Agregar Usuario")
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_usuario_form.html", data)
}

// CreateUser creates the shopper together with an address and a payment
// method. If the shopper insert fails on a duplicate email, the two
// records created before it are removed so no orphans are left behind.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	renderError := func(msg string) {
		sess := h.Sessions.Get(r)
		data := h.pageData(r, w, sess, "Agregar Usuario")
		data["CsrfField"] = csrf.TemplateField(r)
		data["Error"] = msg
		data["Values"] = r.Form
		h.render(w, "admin_usuario_form.html", data)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(r.FormValue("password")), bcrypt.DefaultCost)
	if err != nil {
		renderError("Error interno.")
		return
	}

	addr := models.Address{
		Street:       r.FormValue("calle"),
		PostalCode:   r.FormValue("codigo_postal"),
		Neighborhood: r.FormValue("colonia"),
		City:         r.FormValue("ciudad"),
		Country:      r.FormValue("pais"),
	}
	if err := h.Store.CreateAddress(ctx, &addr); err != nil {
		renderError("Error al guardar la dirección: " + err.Error())
		return
	}

	pm := models.PaymentMethod{
		CardHolder: r.FormValue("titular"),
		CardNumber: r.FormValue("numero_tarjeta"),
		Expiry:     r.FormValue("fecha_vencimiento"),
		CVV:        r.FormValue("cvv"),
	}
	if err := h.Store.CreatePaymentMethod(ctx, &pm); err != nil {
		h.Store.DeleteAddress(ctx, addr.ID)
		renderError("Error al guardar el método de pago: " + err.Error())
		return
	}

	shopper := models.Shopper{
		Name:            r.FormValue("nombre"),
		Email:           r.FormValue("email"),
		Phone:           r.FormValue("telefono"),
		Password:        string(hashed),
		AddressID:       addr.ID,
		PaymentMethodID: pm.ID,
	}
	if err := h.Store.CreateShopper(ctx, &shopper); err != nil {
		// Cleanup so the failed create leaves no orphaned records.
		h.Store.DeleteAddress(ctx, addr.ID)
		h.Store.DeletePaymentMethod(ctx, pm.ID)
		if errors.Is(err, store.ErrDuplicateEmail) {
			renderError("El email ya está registrado.")
			return
		}
		renderError("Error al guardar el usuario: " + err.Error())
		return
	}

	http.Redirect(w, r, "/admin/usuario/ver/", http.StatusSeeOther)
}

func (h *AdminHandler) EditUserForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	shopper, err := h.Store.GetShopperByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching user", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Actualizar Usuario")
	data["Shopper"] = shopper
	data["CsrfField"] = csrf.TemplateField(r)

	if shopper.AddressID != 0 {
		if addr, err := h.Store.GetAddress(r.Context(), shopper.AddressID); err == nil {
			data["Address"] = addr
		}
	}
	if shopper.PaymentMethodID != 0 {
		if pm, err := h.Store.GetPaymentMethod(r.Context(), shopper.PaymentMethodID); err == nil {
			data["PaymentMethod"] = pm
		}
	}
	if orders, err := h.Store.GetOrdersByShopper(r.Context(), shopper.ID); err == nil {
		data["Orders"] = orders
	}

	h.render(w, "admin_usuario_form.html", data)
}

// UpdateUser updates the shopper plus its address and payment method,
// creating and attaching either record if the shopper doesn't have one yet.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	shopper, err := h.Store.GetShopperByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching user", http.StatusInternalServerError)
		return
	}

	shopper.Name = r.FormValue("nombre")
	shopper.Email = r.FormValue("email")
	shopper.Phone = r.FormValue("telefono")
	if pw := r.FormValue("password"); pw != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Error interno", http.StatusInternalServerError)
			return
		}
		shopper.Password = string(hashed)
	}

	addr := models.Address{
		ID:           shopper.AddressID,
		Street:       r.FormValue("calle"),
		PostalCode:   r.FormValue("codigo_postal"),
		Neighborhood: r.FormValue("colonia"),
		City:         r.FormValue("ciudad"),
		Country:      r.FormValue("pais"),
	}
	if addr.ID != 0 {
		err = h.Store.UpdateAddress(ctx, &addr)
	} else {
		err = h.Store.CreateAddress(ctx, &addr)
		shopper.AddressID = addr.ID
	}
	if err != nil {
		h.Sessions.AddFlash(r, w, sessionFlash("error", "Error al guardar la dirección."))
		http.Redirect(w, r, "/admin/usuario/ver/", http.StatusSeeOther)
		return
	}

	pm := models.PaymentMethod{
		ID:         shopper.PaymentMethodID,
		CardHolder: r.FormValue("titular"),
		CardNumber: r.FormValue("numero_tarjeta"),
		Expiry:     r.FormValue("fecha_vencimiento"),
		CVV:        r.FormValue("cvv"),
	}
	if pm.ID != 0 {
		err = h.Store.UpdatePaymentMethod(ctx, &pm)
	} else {
		err = h.Store.CreatePaymentMethod(ctx, &pm)
		shopper.PaymentMethodID = pm.ID
	}
	if err != nil {
		h.Sessions.AddFlash(r, w, sessionFlash("error", "Error al guardar el método de pago."))
		http.Redirect(w, r, "/admin/usuario/ver/", http.StatusSeeOther)
		return
	}

	if err := h.Store.UpdateShopper(ctx, shopper); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			sess := h.Sessions.Get(r)
			data := h.pageData(r, w, sess, "Actualizar Usuario")
			data["Shopper"] = shopper
			data["Address"] = &addr
			data["PaymentMethod"] = &pm
			data["Error"] = "El email ya está registrado."
			data["CsrfField"] = csrf.TemplateField(r)
			h.render(w, "admin_usuario_form.html", data)
			return
		}
		slog.Error("Failed to update shopper", "id", id, "error", err)
		http.Error(w, "Error updating user", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/usuario/ver/", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteUserConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	shopper, err := h.Store.GetShopperByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching user", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Borrar Usuario")
	data["Shopper"] = shopper
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_usuario_borrar.html", data)
}

// DeleteUser removes the shopper along with its owned address and payment
// method so no orphaned records remain.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	shopper, err := h.Store.GetShopperByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		http.Redirect(w, r, "/admin/usuario/ver/", http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching user", http.StatusInternalServerError)
		return
	}

	if shopper.AddressID != 0 {
		h.Store.DeleteAddress(ctx, shopper.AddressID)
	}
	if shopper.PaymentMethodID != 0 {
		h.Store.DeletePaymentMethod(ctx, shopper.PaymentMethodID)
	}
	if err := h.Store.DeleteShopper(ctx, shopper.ID); err != nil {
		slog.Error("Failed to delete shopper", "id", id, "error", err)
		http.Error(w, "Error deleting user", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/usuario/ver/", http.StatusSeeOther)
}
