package httpx

import (
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	Service *catalog.Service
	ew      errorWriter
}

// Register mounts the public browse routes; writes go through protected.
func (h *CatalogHandler) Register(public, protected chi.Router) {
	public.Get("/categories", h.listCategories)
	public.Get("/categories/{id}", h.getCategory)
	public.Get("/products", h.listProducts)
	public.Get("/products/search/{query}", h.search)
	public.Get("/products/{id}", h.getProduct)
	protected.Post("/products", h.createProduct)
	protected.Put("/products/{id}", h.updateProduct)
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Service.Categories(r.Context())
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", cs)
}

func (h *CatalogHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Category(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", c)
}

func queryInt(r *http.Request, key string, c *apperr.Collector) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.Add("%s must be an integer", key)
	}
	return n
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	var c apperr.Collector
	f := catalog.ProductFilter{
		CategoryID: r.URL.Query().Get("categoryId"),
		SupplierID: r.URL.Query().Get("supplierId"),
		Limit:      queryInt(r, "limit", &c),
		Offset:     queryInt(r, "offset", &c),
	}
	if err := c.Err("invalid query"); err != nil {
		h.ew.write(w, r, err)
		return
	}
	ps, err := h.Service.Products(r.Context(), f)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", ps)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", p)
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Service.Search(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", ps)
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	p, err := h.Service.CreateProduct(r.Context(), principal(r), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "product created", p)
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	p, err := h.Service.UpdateProduct(r.Context(), principal(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "product updated", p)
}
