package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-wholesale-rfq/internal/payments"
	"github.com/go-chi/chi/v5"
)

type PaymentsHandler struct {
	Service *payments.Service
	ew      errorWriter
}

func (h *PaymentsHandler) Register(r chi.Router) {
	r.Post("/quotes/{id}/payment-order", h.create)
	r.Post("/payment-orders/{orderNumber}/process", h.process)
	r.Get("/payment-orders/{orderNumber}", h.get)
}

func (h *PaymentsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in payments.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	o, err := h.Service.CreatePaymentOrder(r.Context(), principal(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "payment order created", o)
}

func (h *PaymentsHandler) process(w http.ResponseWriter, r *http.Request) {
	var in payments.ProcessInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	o, err := h.Service.ProcessPayment(r.Context(), principal(r), chi.URLParam(r, "orderNumber"), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "payment completed", o)
}

func (h *PaymentsHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Get(r.Context(), principal(r), chi.URLParam(r, "orderNumber"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", o)
}
