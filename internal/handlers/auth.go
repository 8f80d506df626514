package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/gorilla/csrf"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler covers shopper registration and the shared login form that
// signs in both shoppers and console admins.
type AuthHandler struct {
	*App
}

// safeNext only allows same-site relative destinations for the post-login
// redirect.
func safeNext(next string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && next[1] == '/') {
		return "/"
	}
	return next
}

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	data := h.pageData(r, w, sess, "Iniciar Sesión")
	data["CsrfField"] = csrf.TemplateField(r)
	data["Next"] = safeNext(r.URL.Query().Get("next"))
	h.render(w, "login.html", data)
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	email := r.FormValue("email")
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	// Console accounts take precedence; they share the login form.
	admin, err := h.Store.GetAdminByEmail(r.Context(), email)
	if err != nil {
		h.loginError(w, r, "Error interno. Intenta de nuevo.")
		return
	}
	if admin != nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
			h.loginError(w, r, "Contraseña incorrecta.")
			return
		}
		sess.IsAdmin = true
		sess.ShopperID = 0
		sess.ShopperName = ""
		if err := h.Sessions.Save(r, w, sess); err != nil {
			slog.Error("Failed to save session", "error", err)
			http.Error(w, "Failed to save session", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/admin/inicio/", http.StatusSeeOther)
		return
	}

	shopper, err := h.Store.GetShopperByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		h.loginError(w, r, "Usuario no encontrado.")
		return
	}
	if err != nil {
		h.loginError(w, r, "Error interno. Intenta de nuevo.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(shopper.Password), []byte(password)) != nil {
		h.loginError(w, r, "Contraseña incorrecta.")
		return
	}

	sess.IsAdmin = false
	sess.ShopperID = shopper.ID
	sess.ShopperName = shopper.Name
	if err := h.Sessions.Save(r, w, sess); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	// If the shopper came from the cart, next sends them on to checkout.
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) loginError(w http.ResponseWriter, r *http.Request, msg string) {
	h.Sessions.AddFlash(r, w, sessionFlash("error", msg))
	next := safeNext(r.FormValue("next"))
	http.Redirect(w, r, "/login/?next="+next, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Clear(r, w); err != nil {
		slog.Error("Failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterGet(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)
	if _, err := h.refreshCart(r, w, sess); err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	data := h.pageData(r, w, sess, "Registro de Usuario")
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "registro.html", data)
}

func (h *AuthHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(r)

	name := r.FormValue("nombre")
	email := r.FormValue("email")
	phone := r.FormValue("telefono")
	password := r.FormValue("password")

	renderError := func(msg string) {
		data := h.pageData(r, w, sess, "Registro de Usuario")
		data["CsrfField"] = csrf.TemplateField(r)
		data["Error"] = msg
		data["Values"] = r.Form
		h.render(w, "registro.html", data)
	}

	if name == "" || email == "" || phone == "" || password == "" {
		renderError("Todos los campos son obligatorios.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		renderError("Ocurrió un error al registrar.")
		return
	}

	shopper := &models.Shopper{Name: name, Email: email, Phone: phone, Password: string(hashed)}
	if err := h.Store.CreateShopper(r.Context(), shopper); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			renderError("El email ya está registrado.")
			return
		}
		slog.Error("Failed to create shopper", "error", err)
		renderError("Ocurrió un error al registrar.")
		return
	}

	sess.IsAdmin = false
	sess.ShopperID = shopper.ID
	sess.ShopperName = shopper.Name
	if err := h.Sessions.Save(r, w, sess); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
