package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alextreichler/tiendamanzana/internal/checkout"
	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/session"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *session.MemoryStore, *store.Store) {
	t.Helper()
	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.InitSchema())
	t.Cleanup(func() { st.DB.Close() })

	mem := session.NewMemoryStore()
	app := &App{Store: st, Templates: NewTemplateCache(), Sessions: mem}
	return app, mem, st
}

func seedShopper(t *testing.T, st *store.Store) *models.Shopper {
	t.Helper()
	u := &models.Shopper{Name: "Ana", Email: "ana@example.com", Password: "hash"}
	require.NoError(t, st.CreateShopper(context.Background(), u))
	return u
}

func seedPhone(t *testing.T, st *store.Store) *models.Product {
	t.Helper()
	p := &models.Product{
		Category: models.CategoryPhone,
		Model:    "iPhone 15",
		Price:    decimal.RequireFromString("500.00"),
	}
	require.NoError(t, st.CreateProduct(context.Background(), p))
	return p
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}

func TestCheckoutStepsRequireLogin(t *testing.T) {
	app, _, _ := newTestApp(t)
	h := &CheckoutHandler{App: app}

	steps := map[string]http.HandlerFunc{
		"/checkout/direccion/": h.AddressForm,
		"/checkout/pago/":      h.PaymentForm,
		"/checkout/resumen/":   h.Summary,
	}
	for path, handler := range steps {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler(rec, req)
		assertRedirect(t, rec, "/login/?next="+url.QueryEscape(path))
	}
}

func TestPaymentFormEmptyCartRedirectsToCart(t *testing.T) {
	app, mem, st := newTestApp(t)
	u := seedShopper(t, st)
	mem.Data = session.Data{ShopperID: u.ID, ShopperName: u.Name}

	h := &CheckoutHandler{App: app}
	rec := httptest.NewRecorder()
	h.PaymentForm(rec, httptest.NewRequest(http.MethodGet, "/checkout/pago/", nil))

	assertRedirect(t, rec, "/carrito/")
}

func TestSummaryWithoutAddressRedirects(t *testing.T) {
	app, mem, st := newTestApp(t)
	u := seedShopper(t, st)
	mem.Data = session.Data{ShopperID: u.ID, ShopperName: u.Name}

	h := &CheckoutHandler{App: app}
	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/checkout/resumen/", nil))

	assertRedirect(t, rec, "/checkout/direccion/")
}

func TestSummaryWithoutPaymentRedirects(t *testing.T) {
	app, mem, st := newTestApp(t)
	ctx := context.Background()

	u := seedShopper(t, st)
	addr := &models.Address{Street: "Reforma 1", PostalCode: "06600", Neighborhood: "Juárez", City: "CDMX", Country: "México"}
	require.NoError(t, st.CreateAddress(ctx, addr))
	u.AddressID = addr.ID
	require.NoError(t, st.UpdateShopper(ctx, u))
	mem.Data = session.Data{ShopperID: u.ID, ShopperName: u.Name}

	h := &CheckoutHandler{App: app}
	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/checkout/resumen/", nil))

	assertRedirect(t, rec, "/checkout/pago/")
}

func TestSaveAddressRejectsIncompleteForm(t *testing.T) {
	app, mem, st := newTestApp(t)
	u := seedShopper(t, st)
	mem.Data = session.Data{ShopperID: u.ID, ShopperName: u.Name}

	form := url.Values{"calle": {"Reforma 1"}, "ciudad": {"CDMX"}}
	req := httptest.NewRequest(http.MethodPost, "/checkout/guardar_direccion/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	h := &CheckoutHandler{App: app}
	rec := httptest.NewRecorder()
	h.SaveAddress(rec, req)

	assertRedirect(t, rec, "/checkout/direccion/")
	flashes := mem.Flashes(nil, nil)
	require.Len(t, flashes, 1)
	assert.Equal(t, "error", flashes[0].Type)
}

func TestSaveAddressAttachesToShopper(t *testing.T) {
	app, mem, st := newTestApp(t)
	u := seedShopper(t, st)
	mem.Data = session.Data{ShopperID: u.ID, ShopperName: u.Name}

	form := url.Values{
		"calle":         {"Reforma 1"},
		"codigo_postal": {"06600"},
		"colonia":       {"Juárez"},
		"ciudad":        {"CDMX"},
		"pais":          {"México"},
	}
	req := httptest.NewRequest(http.MethodPost, "/checkout/guardar_direccion/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	h := &CheckoutHandler{App: app}
	rec := httptest.NewRecorder()
	h.SaveAddress(rec, req)

	assertRedirect(t, rec, "/checkout/pago/")

	got, err := st.GetShopperByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotZero(t, got.AddressID)
	addr, err := st.GetAddress(context.Background(), got.AddressID)
	require.NoError(t, err)
	assert.Equal(t, "Reforma 1", addr.Street)
}

func TestFinalizeEmptyCartRedirectsHome(t *testing.T) {
	app, mem, st := newTestApp(t)
	u := seedShopper(t, st)
	mem.Data = session.Data{ShopperID: u.ID, ShopperName: u.Name}

	h := &CheckoutHandler{
		App:          app,
		Materializer: &checkout.Materializer{Catalog: st, Orders: st},
	}
	rec := httptest.NewRecorder()
	h.Finalize(rec, httptest.NewRequest(http.MethodPost, "/checkout/finalizar/", nil))

	assertRedirect(t, rec, "/")
}

func TestStaleSessionShopperIsLoggedOut(t *testing.T) {
	app, mem, _ := newTestApp(t)
	mem.Data = session.Data{ShopperID: 999, ShopperName: "Fantasma"}

	h := &CheckoutHandler{App: app}
	rec := httptest.NewRecorder()
	h.AddressForm(rec, httptest.NewRequest(http.MethodGet, "/checkout/direccion/", nil))

	assertRedirect(t, rec, "/login/?next=/checkout/direccion/")
	assert.Zero(t, mem.Data.ShopperID, "session must be cleared for a vanished account")
}
