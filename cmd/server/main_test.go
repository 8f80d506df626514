package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alextreichler/tiendamanzana/internal/checkout"
	"github.com/alextreichler/tiendamanzana/internal/handlers"
	"github.com/alextreichler/tiendamanzana/internal/session"
	"github.com/stretchr/testify/assert"
)

func newTestMux() *http.ServeMux {
	app := &handlers.App{
		Templates: handlers.NewTemplateCache(),
		Sessions:  session.NewMemoryStore(),
	}
	return routes(
		&handlers.ShopHandler{App: app},
		&handlers.AuthHandler{App: app},
		&handlers.CartHandler{App: app},
		&handlers.CheckoutHandler{App: app, Materializer: &checkout.Materializer{}},
		&handlers.AdminHandler{App: app},
		handlers.NewRateLimiter(time.Second),
	)
}

// Registering an overlapping pattern pair makes ServeMux panic, so building
// the full table at all is the core assertion here.
func TestRoutesRegisterWithoutConflict(t *testing.T) {
	assert.NotPanics(t, func() { newTestMux() })
}

func TestRouteDispatch(t *testing.T) {
	mux := newTestMux()

	cases := map[string]struct {
		method, path string
		pattern      string
	}{
		"home":              {http.MethodGet, "/", "/"},
		"category":          {http.MethodGet, "/productos/laptops/", "GET /productos/{categoria}/"},
		"cart view":         {http.MethodGet, "/carrito/", "GET /carrito/"},
		"cart add":          {http.MethodPost, "/carrito/agregar/", "POST /carrito/agregar/"},
		"finalize":          {http.MethodPost, "/checkout/finalizar/", "POST /checkout/finalizar/"},
		"dashboard":         {http.MethodGet, "/admin/inicio/", "/admin/inicio/{$}"},
		"product list":      {http.MethodGet, "/admin/laptop/ver/", "GET /admin/{categoria}/ver/"},
		"user list":         {http.MethodGet, "/admin/usuario/ver/", "GET /admin/usuario/ver/"},
		"order edit":        {http.MethodGet, "/admin/pedido/actualizar/3/", "GET /admin/pedido/actualizar/{id}/"},
		"product edit form": {http.MethodGet, "/admin/celular/actualizar/3/", "GET /admin/{categoria}/actualizar/{id}/"},
	}

	for name, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		_, pattern := mux.Handler(req)
		assert.Equal(t, tc.pattern, pattern, name)
	}
}
