package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/go-chi/chi/v5"
)

type FreightHandler struct {
	Service *freight.Service
	Limit   func(http.Handler) http.Handler
	ew      errorWriter
}

func (h *FreightHandler) Register(r chi.Router) {
	if h.Limit != nil {
		r.With(h.Limit).Post("/freight/calculate", h.calculate)
	} else {
		r.Post("/freight/calculate", h.calculate)
	}
	r.Get("/freight/{id}", h.get)
	r.Put("/freight/{id}/confirm", h.confirm)
	r.Put("/freight/{id}/status", h.setStatus)
}

func (h *FreightHandler) calculate(w http.ResponseWriter, r *http.Request) {
	var req freight.Request
	if err := decodeJSON(r, &req); err != nil {
		h.ew.write(w, r, err)
		return
	}
	e, err := h.Service.Calculate(r.Context(), principal(r).UserID, req)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "freight calculated", e)
}

func (h *FreightHandler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.Get(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", e)
}

func (h *FreightHandler) confirm(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.Confirm(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "freight confirmed", e)
}

func (h *FreightHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status freight.Status `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.ew.write(w, r, err)
		return
	}
	e, err := h.Service.SetStatus(r.Context(), principal(r), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "freight status updated", e)
}
