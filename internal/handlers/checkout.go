package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alextreichler/tiendamanzana/internal/checkout"
	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/session"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/gorilla/csrf"
)

// CheckoutHandler walks the shopper through address, payment, summary and
// finalize. Each step is gated: login always, a non-empty cart from the
// payment step on, and saved address/payment before the summary.
type CheckoutHandler struct {
	*App
	Materializer *checkout.Materializer
}

// shopper loads the logged-in shopper record backing the session identity.
// A session pointing at a deleted account is treated as logged out.
func (h *CheckoutHandler) shopper(w http.ResponseWriter, r *http.Request, sess *session.Data) (*models.Shopper, bool) {
	shopper, err := h.Store.GetShopperByID(r.Context(), sess.ShopperID)
	if errors.Is(err, store.ErrNotFound) {
		h.Sessions.Clear(r, w)
		http.Redirect(w, r, "/login/?next="+r.URL.Path, http.StatusSeeOther)
		return nil, false
	}
	if err != nil {
		http.Error(w, "Error loading account", http.StatusInternalServerError)
		return nil, false
	}
	return shopper, true
}

func (h *CheckoutHandler) AddressForm(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if !h.requireShopper(w, r, sess) {
		return
	}
	shopper, ok := h.shopper(w, r, sess)
	if !ok {
		return
	}
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	data := h.pageData(r, w, sess, "Dirección de Envío")
	data["CsrfField"] = csrf.TemplateField(r)
	if shopper.AddressID != 0 {
		if addr, err := h.Store.GetAddress(r.Context(), shopper.AddressID); err == nil {
			data["Address"] = addr
		}
	}
	h.render(w, "checkout_direccion.html", data)
}

func (h *CheckoutHandler) SaveAddress(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if !h.requireShopper(w, r, sess) {
		return
	}
	shopper, ok := h.shopper(w, r, sess)
	if !ok {
		return
	}

	addr := models.Address{
		Street:       r.FormValue("calle"),
		PostalCode:   r.FormValue("codigo_postal"),
		Neighborhood: r.FormValue("colonia"),
		City:         r.FormValue("ciudad"),
		Country:      r.FormValue("pais"),
	}
	if !addr.Complete() {
		h.Sessions.AddFlash(r, w, sessionFlash("error", "Todos los campos de la dirección son obligatorios."))
		http.Redirect(w, r, "/checkout/direccion/", http.StatusSeeOther)
		return
	}

	// Update the shopper's existing address in place, or create and attach.
	if shopper.AddressID != 0 {
		addr.ID = shopper.AddressID
		if err := h.Store.UpdateAddress(r.Context(), &addr); err != nil {
			h.storageError(w, r, "/checkout/direccion/", err)
			return
		}
	} else {
		if err := h.Store.CreateAddress(r.Context(), &addr); err != nil {
			h.storageError(w, r, "/checkout/direccion/", err)
			return
		}
		shopper.AddressID = addr.ID
		if err := h.Store.UpdateShopper(r.Context(), shopper); err != nil {
			h.storageError(w, r, "/checkout/direccion/", err)
			return
		}
	}

	http.Redirect(w, r, "/checkout/pago/", http.StatusSeeOther)
}

func (h *CheckoutHandler) PaymentForm(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if !h.requireShopper(w, r, sess) {
		return
	}
	shopper, ok := h.shopper(w, r, sess)
	if !ok {
		return
	}
	proj, err := h.refreshCart(r, w, sess)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	// An empty cart has no business on the payment step.
	if proj.ItemCount == 0 {
		http.Redirect(w, r, "/carrito/", http.StatusSeeOther)
		return
	}

	data := h.pageData(r, w, sess, "Método de Pago")
	data["CsrfField"] = csrf.TemplateField(r)
	data["Total"] = proj.Total
	if shopper.PaymentMethodID != 0 {
		if pm, err := h.Store.GetPaymentMethod(r.Context(), shopper.PaymentMethodID); err == nil {
			data["PaymentMethod"] = pm
		}
	}
	h.render(w, "checkout_pago.html", data)
}

func (h *CheckoutHandler) SavePayment(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if !h.requireShopper(w, r, sess) {
		return
	}
	shopper, ok := h.shopper(w, r, sess)
	if !ok {
		return
	}

	pm := models.PaymentMethod{
		CardHolder: r.FormValue("titular"),
		CardNumber: r.FormValue("numero_tarjeta"),
		Expiry:     r.FormValue("fecha_vencimiento"),
		CVV:        r.FormValue("cvv"),
	}

	// One card per shopper: update in place, never append.
	if shopper.PaymentMethodID != 0 {
		pm.ID = shopper.PaymentMethodID
		if err := h.Store.UpdatePaymentMethod(r.Context(), &pm); err != nil {
			h.storageError(w, r, "/checkout/pago/", err)
			return
		}
	} else {
		if err := h.Store.CreatePaymentMethod(r.Context(), &pm); err != nil {
			h.storageError(w, r, "/checkout/pago/", err)
			return
		}
		shopper.PaymentMethodID = pm.ID
		if err := h.Store.UpdateShopper(r.Context(), shopper); err != nil {
			h.storageError(w, r, "/checkout/pago/", err)
			return
		}
	}

	http.Redirect(w, r, "/checkout/resumen/", http.StatusSeeOther)
}

func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if !h.requireShopper(w, r, sess) {
		return
	}
	shopper, ok := h.shopper(w, r, sess)
	if !ok {
		return
	}

	// Both prerequisites must exist before confirmation.
	if shopper.AddressID == 0 {
		http.Redirect(w, r, "/checkout/direccion/", http.StatusSeeOther)
		return
	}
	if shopper.PaymentMethodID == 0 {
		http.Redirect(w, r, "/checkout/pago/", http.StatusSeeOther)
		return
	}

	proj, err := h.refreshCart(r, w, sess)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	addr, err := h.Store.GetAddress(r.Context(), shopper.AddressID)
	if err != nil {
		http.Error(w, "Error loading address", http.StatusInternalServerError)
		return
	}
	pm, err := h.Store.GetPaymentMethod(r.Context(), shopper.PaymentMethodID)
	if err != nil {
		http.Error(w, "Error loading payment method", http.StatusInternalServerError)
		return
	}

	data := h.pageData(r, w, sess, "Resumen del Pedido")
	data["CsrfField"] = csrf.TemplateField(r)
	data["Lines"] = proj.Lines
	data["Total"] = proj.Total
	data["Address"] = addr
	data["PaymentMethod"] = pm
	h.render(w, "checkout_resumen.html", data)
}

// Finalize materializes the cart into an order and shows the thanks page.
func (h *CheckoutHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if !h.requireShopper(w, r, sess) {
		return
	}
	shopper, ok := h.shopper(w, r, sess)
	if !ok {
		return
	}

	proj, err := h.refreshCart(r, w, sess)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	if proj.ItemCount == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	order, err := h.Materializer.Materialize(r.Context(), shopper, proj, &sess.Cart)
	if err != nil {
		slog.Error("Order finalization failed", "shopper_id", shopper.ID, "error", err)
		h.Sessions.AddFlash(r, w, sessionFlash("error", "No se pudo completar el pedido. Intenta de nuevo."))
		http.Redirect(w, r, "/checkout/resumen/", http.StatusSeeOther)
		return
	}

	// The cart was cleared by the materializer; persist the reset.
	sess.CartCount = 0
	if err := h.Sessions.Save(r, w, sess); err != nil {
		slog.Error("Failed to save session after checkout", "error", err)
	}

	data := h.pageData(r, w, sess, "Pedido Confirmado")
	data["Order"] = order
	h.render(w, "gracias.html", data)
}

func (h *CheckoutHandler) storageError(w http.ResponseWriter, r *http.Request, backTo string, err error) {
	slog.Error("Checkout storage error", "error", err)
	h.Sessions.AddFlash(r, w, sessionFlash("error", "Ocurrió un error al guardar: "+err.Error()))
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}
