package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alextreichler/tiendamanzana/internal/cart"
	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCartAddUnknownCategoryRedirectsHome(t *testing.T) {
	app, _, _ := newTestApp(t)
	h := &CartHandler{App: app}

	form := url.Values{"product_type": {"reloj"}, "product_id": {"1"}}
	rec := httptest.NewRecorder()
	h.Add(rec, postForm("/carrito/agregar/", form))

	assertRedirect(t, rec, "/")
}

func TestCartAddMissingProductRedirectsHome(t *testing.T) {
	app, _, _ := newTestApp(t)
	h := &CartHandler{App: app}

	form := url.Values{"product_type": {"celular"}, "product_id": {"99"}}
	rec := httptest.NewRecorder()
	h.Add(rec, postForm("/carrito/agregar/", form))

	assertRedirect(t, rec, "/")
}

func TestCartAddStoresLineAndCount(t *testing.T) {
	app, mem, st := newTestApp(t)
	p := seedPhone(t, st)
	h := &CartHandler{App: app}

	form := url.Values{
		"product_type": {"celular"},
		"product_id":   {strconv.Itoa(p.ID)},
		"cantidad":     {"2"},
	}
	rec := httptest.NewRecorder()
	h.Add(rec, postForm("/carrito/agregar/", form))

	assertRedirect(t, rec, "/carrito/")
	line, ok := mem.Data.Cart.Get("celular:" + strconv.Itoa(p.ID))
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 2, mem.Data.CartCount)
}

func TestCartAddBadQuantityDefaultsToOne(t *testing.T) {
	app, mem, st := newTestApp(t)
	p := seedPhone(t, st)
	h := &CartHandler{App: app}

	form := url.Values{
		"product_type": {"celular"},
		"product_id":   {strconv.Itoa(p.ID)},
		"cantidad":     {"muchos"},
	}
	rec := httptest.NewRecorder()
	h.Add(rec, postForm("/carrito/agregar/", form))

	line, ok := mem.Data.Cart.Get("celular:" + strconv.Itoa(p.ID))
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestCartAddHonorsNext(t *testing.T) {
	app, _, st := newTestApp(t)
	p := seedPhone(t, st)
	h := &CartHandler{App: app}

	form := url.Values{
		"product_type": {"celular"},
		"product_id":   {strconv.Itoa(p.ID)},
		"next":         {"/productos/celulares/"},
	}
	rec := httptest.NewRecorder()
	h.Add(rec, postForm("/carrito/agregar/", form))

	assertRedirect(t, rec, "/productos/celulares/")
}

func TestCartAddRejectsOffsiteNext(t *testing.T) {
	app, _, st := newTestApp(t)
	p := seedPhone(t, st)
	h := &CartHandler{App: app}

	for _, next := range []string{"https://evil.example/", "//evil.example/"} {
		form := url.Values{
			"product_type": {"celular"},
			"product_id":   {strconv.Itoa(p.ID)},
			"next":         {next},
		}
		rec := httptest.NewRecorder()
		h.Add(rec, postForm("/carrito/agregar/", form))

		assertRedirect(t, rec, "/carrito/")
	}
}

func TestCartUpdateBadQuantityLeavesCartUntouched(t *testing.T) {
	app, mem, st := newTestApp(t)
	p := seedPhone(t, st)
	key := "celular:" + strconv.Itoa(p.ID)
	mem.Data.Cart = cart.Cart{Lines: []cart.Line{{Category: models.CategoryPhone, ProductID: p.ID, Quantity: 2}}}

	h := &CartHandler{App: app}
	req := postForm("/carrito/actualizar/"+key+"/", url.Values{"cantidad": {"abc"}})
	req.SetPathValue("key", key)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assertRedirect(t, rec, "/carrito/")
	line, ok := mem.Data.Cart.Get(key)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
}

func TestCartUpdateZeroRemovesLine(t *testing.T) {
	app, mem, st := newTestApp(t)
	p := seedPhone(t, st)
	key := "celular:" + strconv.Itoa(p.ID)
	mem.Data.Cart = cart.Cart{Lines: []cart.Line{{Category: models.CategoryPhone, ProductID: p.ID, Quantity: 2}}}

	h := &CartHandler{App: app}
	req := postForm("/carrito/actualizar/"+key+"/", url.Values{"cantidad": {"0"}})
	req.SetPathValue("key", key)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assertRedirect(t, rec, "/carrito/")
	assert.True(t, mem.Data.Cart.Empty())
	assert.Zero(t, mem.Data.CartCount)
}

func TestCartRemove(t *testing.T) {
	app, mem, st := newTestApp(t)
	p := seedPhone(t, st)
	key := "celular:" + strconv.Itoa(p.ID)
	mem.Data.Cart = cart.Cart{Lines: []cart.Line{{Category: models.CategoryPhone, ProductID: p.ID, Quantity: 1}}}

	h := &CartHandler{App: app}
	req := postForm("/carrito/eliminar/"+key+"/", url.Values{})
	req.SetPathValue("key", key)
	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	assertRedirect(t, rec, "/carrito/")
	assert.True(t, mem.Data.Cart.Empty())
}

func TestProjectionPrunesDeletedProductOnView(t *testing.T) {
	app, mem, _ := newTestApp(t)
	// Product 42 never existed in the catalog.
	mem.Data.Cart = cart.Cart{Lines: []cart.Line{{Category: models.CategoryPhone, ProductID: 42, Quantity: 3}}}

	sess := app.Sessions.Get(httptest.NewRequest(http.MethodGet, "/carrito/", nil))
	proj, err := app.refreshCart(httptest.NewRequest(http.MethodGet, "/carrito/", nil), httptest.NewRecorder(), sess)
	require.NoError(t, err)

	assert.Empty(t, proj.Lines)
	assert.True(t, mem.Data.Cart.Empty(), "pruned cart must be persisted back to the session")
	assert.Zero(t, mem.Data.CartCount)
}
