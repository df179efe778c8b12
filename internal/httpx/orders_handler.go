package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-wholesale-rfq/internal/orders"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	Service *orders.Service
	ew      errorWriter
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Put("/orders/{id}/status", h.updateStatus)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.ListMine(r.Context(), principal(r), orders.Status(r.URL.Query().Get("status")))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Get(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", o)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status orders.Status `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.ew.write(w, r, err)
		return
	}
	o, err := h.Service.UpdateStatus(r.Context(), principal(r), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "order status updated", o)
}
