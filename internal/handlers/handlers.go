package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alextreichler/tiendamanzana/internal/cart"
	"github.com/alextreichler/tiendamanzana/internal/session"
	"github.com/alextreichler/tiendamanzana/internal/store"
)

// App carries the dependencies every handler needs. Handler types embed it.
type App struct {
	Store     *store.Store
	Templates *TemplateCache
	Sessions  session.Store
}

// render executes a cached template. Missing templates are a deploy error,
// not a user error.
func (a *App) render(w http.ResponseWriter, name string, data map[string]interface{}) {
	tmpl := a.Templates.Get(name)
	if tmpl == nil {
		slog.Error("Template not found", "name", name)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("Failed to execute template", "name", name, "error", err)
	}
}

// pageData seeds the keys every storefront page expects.
func (a *App) pageData(r *http.Request, w http.ResponseWriter, sess *session.Data, title string) map[string]interface{} {
	return map[string]interface{}{
		"Titulo":      title,
		"CartCount":   sess.CartCount,
		"IsAdmin":     sess.IsAdmin,
		"ShopperName": sess.ShopperName,
		"Flashes":     a.Sessions.Flashes(r, w),
	}
}

// refreshCart re-runs the projector over the session cart, persisting any
// pruning and the cached item count back to the session. Every cart read
// and mutation funnels through here.
func (a *App) refreshCart(r *http.Request, w http.ResponseWriter, sess *session.Data) (cart.Projection, error) {
	proj, err := cart.Project(r.Context(), a.Store, &sess.Cart)
	if err != nil {
		return cart.Projection{}, err
	}
	sess.CartCount = proj.ItemCount
	if err := a.Sessions.Save(r, w, sess); err != nil {
		return cart.Projection{}, err
	}
	return proj, nil
}

func sessionFlash(typ, msg string) session.Flash {
	return session.Flash{Type: typ, Message: msg}
}

// requireShopper gates checkout steps behind an authenticated shopper,
// preserving the originally requested destination for post-login redirect.
func (a *App) requireShopper(w http.ResponseWriter, r *http.Request, sess *session.Data) bool {
	if sess.LoggedIn() {
		return true
	}
	http.Redirect(w, r, "/login/?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
	return false
}
