package handlers

import (
	"net/http"
)

// AdminHandler serves the administration console: dashboard, catalog CRUD,
// user CRUD and order management.
type AdminHandler struct {
	*App
}

// RequireAdmin gates console routes behind the admin session flag.
func (h *AdminHandler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.Sessions.Get(r)
		if !sess.IsAdmin {
			h.Sessions.AddFlash(r, w, sessionFlash("error", "Debes iniciar sesión como administrador."))
			http.Redirect(w, r, "/login/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats(r.Context())
	if err != nil {
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Inicio CRUD")
	data["Stats"] = stats
	h.render(w, "admin.html", data)
}
