package handlers

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/nfnt/resize"
	"github.com/shopspring/decimal"
)

// adminCategory resolves the {categoria} path segment (the singular wire
// slug) for the per-category CRUD routes.
func adminCategory(w http.ResponseWriter, r *http.Request) (models.Category, bool) {
	category, ok := models.ParseCategory(r.PathValue("categoria"))
	if !ok {
		http.NotFound(w, r)
		return "", false
	}
	return category, true
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category, ok := adminCategory(w, r)
	if !ok {
		return
	}

	products, err := h.Store.GetProductsByCategory(r.Context(), category)
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Ver "+category.Label())
	data["Category"] = category
	data["Products"] = products
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_productos.html", data)
}

func (h *AdminHandler) NewProductForm(w http.ResponseWriter, r *http.Request) {
	category, ok := adminCategory(w, r)
	if !ok {
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Agregar "+category.Label())
	data["Category"] = category
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_producto_form.html", data)
}

// productFromForm reads the shared product fields. Category-specific fields
// are simply empty for categories that don't use them.
func productFromForm(r *http.Request, category models.Category) (*models.Product, error) {
	price, err := decimal.NewFromString(r.FormValue("precio"))
	if err != nil {
		return nil, fmt.Errorf("precio inválido: %w", err)
	}
	if price.IsNegative() {
		return nil, errors.New("el precio no puede ser negativo")
	}

	return &models.Product{
		Category:        category,
		Model:           r.FormValue("modelo"),
		Description:     r.FormValue("descripcion"),
		Price:           price,
		ImageURL:        r.FormValue("imagen_url"),
		Generation:      r.FormValue("generacion"),
		Kind:            r.FormValue("tipo"),
		CompatibleModel: r.FormValue("modelo_compatible"),
	}, nil
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	category, ok := adminCategory(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		r.ParseForm()
	}

	product, err := productFromForm(r, category)
	if err != nil {
		h.productFormError(w, r, category, nil, err.Error())
		return
	}

	if url, ok := h.uploadedImage(w, r); ok {
		product.ImageURL = url
	}

	if err := h.Store.CreateProduct(r.Context(), product); err != nil {
		h.productFormError(w, r, category, nil, "Error al guardar: "+err.Error())
		return
	}

	h.Sessions.AddFlash(r, w, sessionFlash("success", "Producto agregado."))
	http.Redirect(w, r, "/admin/"+string(category)+"/ver/", http.StatusSeeOther)
}

func (h *AdminHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	category, ok := adminCategory(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	product, err := h.Store.GetProduct(r.Context(), category, id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Actualizar "+category.Label())
	data["Category"] = category
	data["Product"] = product
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_producto_form.html", data)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	category, ok := adminCategory(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		r.ParseForm()
	}

	product, err := productFromForm(r, category)
	if err != nil {
		h.productFormError(w, r, category, &id, err.Error())
		return
	}
	product.ID = id

	if url, ok := h.uploadedImage(w, r); ok {
		product.ImageURL = url
	}

	if err := h.Store.UpdateProduct(r.Context(), product); err != nil {
		h.productFormError(w, r, category, &id, "Error al actualizar: "+err.Error())
		return
	}

	h.Sessions.AddFlash(r, w, sessionFlash("success", "Producto actualizado."))
	http.Redirect(w, r, "/admin/"+string(category)+"/ver/", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteProductConfirm(w http.ResponseWriter, r *http.Request) {
	category, ok := adminCategory(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	product, err := h.Store.GetProduct(r.Context(), category, id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}

	sess := h.Sessions.Get(r)
	data := h.pageData(r, w, sess, "Borrar "+category.Label())
	data["Category"] = category
	data["Product"] = product
	data["CsrfField"] = csrf.TemplateField(r)
	h.render(w, "admin_producto_borrar.html", data)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	category, ok := adminCategory(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteProduct(r.Context(), category, id); err != nil {
		h.Sessions.AddFlash(r, w, sessionFlash("error", "Error al borrar."))
	} else {
		h.Sessions.AddFlash(r, w, sessionFlash("success", "Producto borrado."))
	}
	http.Redirect(w, r, "/admin/"+string(category)+"/ver/", http.StatusSeeOther)
}

func (h *AdminHandler) productFormError(w http.ResponseWriter, r *http.Request, category models.Category, id *int, msg string) {
	h.Sessions.AddFlash(r, w, sessionFlash("error", msg))
	if id != nil {
		http.Redirect(w, r, fmt.Sprintf("/admin/%s/actualizar/%d/", category, *id), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/"+string(category)+"/agregar/", http.StatusSeeOther)
}

// uploadedImage processes an optional "imagen" file: decode, resize to a
// max width of 800px, store under static/uploads with a UUID name. Returns
// the public URL and whether an image was handled.
func (h *AdminHandler) uploadedImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("imagen")
	if err != nil {
		return "", false
	}
	defer file.Close()

	url, err := processImage(file, header)
	if err != nil {
		h.Sessions.AddFlash(r, w, sessionFlash("error", err.Error()))
		return "", false
	}
	return url, true
}

func processImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	var img image.Image
	var err error
	switch filepath.Ext(header.Filename) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		return "", errors.New("Formato de imagen no soportado. Solo PNG, JPG, JPEG.")
	}
	if err != nil {
		return "", errors.New("No se pudo decodificar la imagen.")
	}

	resized := resize.Resize(800, 0, img, resize.Lanczos3)

	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	uploadPath := filepath.Join("static/uploads", filename)
	out, err := os.Create(uploadPath)
	if err != nil {
		return "", errors.New("Error al guardar la imagen.")
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 80}); err != nil {
		return "", errors.New("Error al codificar la imagen.")
	}
	return "/static/uploads/" + filename, nil
}
