package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-wholesale-rfq/internal/cart"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	Service *cart.Service
	ew      errorWriter
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.items)
	r.Get("/cart/stats", h.stats)
	r.Post("/cart/add", h.add)
	r.Put("/cart/update/{itemId}", h.update)
	r.Delete("/cart/remove/{itemId}", h.remove)
	r.Delete("/cart/clear", h.clear)
}

func (h *CartHandler) items(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Items(r.Context(), principal(r).UserID)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", map[string]any{"items": items, "summary": cart.Summarize(items)})
}

func (h *CartHandler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Stats(r.Context(), principal(r).UserID)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", st)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var in cart.AddInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	it, err := h.Service.AddItem(r.Context(), principal(r).UserID, in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "item added to cart", it)
}

func (h *CartHandler) update(w http.ResponseWriter, r *http.Request) {
	var in cart.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	it, err := h.Service.UpdateItem(r.Context(), principal(r).UserID, chi.URLParam(r, "itemId"), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "cart item updated", it)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RemoveItem(r.Context(), principal(r).UserID, chi.URLParam(r, "itemId")); err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "item removed from cart", nil)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.Clear(r.Context(), principal(r).UserID)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "cart cleared", map[string]int{"removed": n})
}
