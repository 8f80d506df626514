package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/session"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func seedShopperWithPassword(t *testing.T, st *store.Store, password string) *models.Shopper {
	t.Helper()
	u := &models.Shopper{Name: "Ana", Email: "ana@example.com", Password: hash(t, password)}
	require.NoError(t, st.CreateShopper(context.Background(), u))
	return u
}

func TestLoginShopperSuccess(t *testing.T) {
	app, mem, st := newTestApp(t)
	u := seedShopperWithPassword(t, st, "secreto")

	h := &AuthHandler{App: app}
	form := url.Values{"email": {"ana@example.com"}, "password": {"secreto"}, "next": {"/checkout/direccion/"}}
	rec := httptest.NewRecorder()
	h.LoginPost(rec, postForm("/login/", form))

	assertRedirect(t, rec, "/checkout/direccion/")
	assert.Equal(t, u.ID, mem.Data.ShopperID)
	assert.Equal(t, "Ana", mem.Data.ShopperName)
	assert.False(t, mem.Data.IsAdmin)
}

func TestLoginWrongPassword(t *testing.T) {
	app, mem, st := newTestApp(t)
	seedShopperWithPassword(t, st, "secreto")

	h := &AuthHandler{App: app}
	form := url.Values{"email": {"ana@example.com"}, "password": {"incorrecto"}}
	rec := httptest.NewRecorder()
	h.LoginPost(rec, postForm("/login/", form))

	assertRedirect(t, rec, "/login/?next=/")
	assert.Zero(t, mem.Data.ShopperID)
	flashes := mem.Flashes(nil, nil)
	require.Len(t, flashes, 1)
	assert.Equal(t, "error", flashes[0].Type)
}

func TestLoginUnknownEmail(t *testing.T) {
	app, _, _ := newTestApp(t)

	h := &AuthHandler{App: app}
	form := url.Values{"email": {"nadie@example.com"}, "password": {"x"}}
	rec := httptest.NewRecorder()
	h.LoginPost(rec, postForm("/login/", form))

	assertRedirect(t, rec, "/login/?next=/")
}

func TestLoginAdminTakesPrecedence(t *testing.T) {
	app, mem, st := newTestApp(t)
	ctx := context.Background()

	// Same email registered both as admin and shopper.
	require.NoError(t, st.CreateAdmin(ctx, "root@example.com", hash(t, "consola")))
	require.NoError(t, st.CreateShopper(ctx, &models.Shopper{Name: "Root", Email: "root@example.com", Password: hash(t, "otra")}))

	h := &AuthHandler{App: app}
	form := url.Values{"email": {"root@example.com"}, "password": {"consola"}}
	rec := httptest.NewRecorder()
	h.LoginPost(rec, postForm("/login/", form))

	assertRedirect(t, rec, "/admin/inicio/")
	assert.True(t, mem.Data.IsAdmin)
	assert.Zero(t, mem.Data.ShopperID)
}

func TestLoginRejectsOffsiteNext(t *testing.T) {
	app, _, st := newTestApp(t)
	seedShopperWithPassword(t, st, "secreto")

	h := &AuthHandler{App: app}
	form := url.Values{"email": {"ana@example.com"}, "password": {"secreto"}, "next": {"https://evil.example"}}
	rec := httptest.NewRecorder()
	h.LoginPost(rec, postForm("/login/", form))

	assertRedirect(t, rec, "/")
}

func TestLogoutClearsSession(t *testing.T) {
	app, mem, _ := newTestApp(t)
	mem.Data = session.Data{ShopperID: 3, ShopperName: "Ana", CartCount: 2}

	h := &AuthHandler{App: app}
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodGet, "/logout/", nil))

	assertRedirect(t, rec, "/")
	assert.Zero(t, mem.Data.ShopperID)
	assert.Zero(t, mem.Data.CartCount)
}

func TestRegisterCreatesAndLogsIn(t *testing.T) {
	app, mem, st := newTestApp(t)

	h := &AuthHandler{App: app}
	form := url.Values{
		"nombre":   {"Luis"},
		"email":    {"luis@example.com"},
		"telefono": {"5512345678"},
		"password": {"secreto"},
	}
	rec := httptest.NewRecorder()
	h.RegisterPost(rec, postForm("/registro/", form))

	assertRedirect(t, rec, "/")
	assert.NotZero(t, mem.Data.ShopperID)
	assert.Equal(t, "Luis", mem.Data.ShopperName)

	u, err := st.GetShopperByEmail(context.Background(), "luis@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secreto")))
}

func TestRequireAdminGate(t *testing.T) {
	app, mem, _ := newTestApp(t)
	h := &AdminHandler{App: app}

	called := false
	gated := h.RequireAdmin(func(http.ResponseWriter, *http.Request) { called = true })

	rec := httptest.NewRecorder()
	gated(rec, httptest.NewRequest(http.MethodGet, "/admin/inicio/", nil))
	assertRedirect(t, rec, "/login/")
	assert.False(t, called)

	mem.Data.IsAdmin = true
	rec = httptest.NewRecorder()
	gated(rec, httptest.NewRequest(http.MethodGet, "/admin/inicio/", nil))
	assert.True(t, called)
}
