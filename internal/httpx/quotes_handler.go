package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
	"github.com/go-chi/chi/v5"
)

type QuotesHandler struct {
	Service *quotes.Service
	ew      errorWriter
}

func (h *QuotesHandler) Register(r chi.Router) {
	r.With(RequireRole(h.ew, auth.RoleBuyer)).Post("/quotes", h.sendCart)
	r.With(RequireRole(h.ew, auth.RoleBuyer)).Post("/quotes/rfq", h.createRFQ)
	r.Get("/quotes", h.listMine)
	r.Get("/quotes/stats", h.stats)
	r.Get("/quotes/{id}", h.get)
	r.Put("/quotes/{id}/respond", h.respond)
	r.Put("/quotes/{id}/status", h.respond)
	r.With(RequireRole(h.ew, auth.RoleAdmin)).Delete("/quotes/{id}", h.delete)
	r.Post("/quotes/{id}/comments", h.createComment)
	r.Get("/quotes/{id}/comments", h.comments)
	r.Get("/quotes/{id}/comments/latest", h.latestComment)
}

func (h *QuotesHandler) sendCart(w http.ResponseWriter, r *http.Request) {
	var in quotes.CartQuoteInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	res, err := h.Service.SendCartQuote(r.Context(), principal(r), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "quote request sent", res)
}

func (h *QuotesHandler) createRFQ(w http.ResponseWriter, r *http.Request) {
	var in quotes.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	q, err := h.Service.CreateQuote(r.Context(), principal(r), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "quote request created", q)
}

func (h *QuotesHandler) listMine(w http.ResponseWriter, r *http.Request) {
	qs, err := h.Service.ListMine(r.Context(), principal(r), quotes.Status(r.URL.Query().Get("status")))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", qs)
}

func (h *QuotesHandler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Stats(r.Context(), principal(r))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", st)
}

func (h *QuotesHandler) get(w http.ResponseWriter, r *http.Request) {
	q, err := h.Service.Get(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", q)
}

func (h *QuotesHandler) respond(w http.ResponseWriter, r *http.Request) {
	var in quotes.RespondInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	q, err := h.Service.Respond(r.Context(), principal(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "quote updated", q)
}

func (h *QuotesHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), principal(r), chi.URLParam(r, "id")); err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "quote deleted", nil)
}

func (h *QuotesHandler) createComment(w http.ResponseWriter, r *http.Request) {
	var in quotes.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		h.ew.write(w, r, err)
		return
	}
	c, err := h.Service.CreateComment(r.Context(), principal(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "comment added", c)
}

func (h *QuotesHandler) comments(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Service.Comments(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", cs)
}

func (h *QuotesHandler) latestComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.LatestComment(r.Context(), principal(r), chi.URLParam(r, "id"))
	if err != nil {
		h.ew.write(w, r, err)
		return
	}
	if c == nil {
		writeOK(w, http.StatusOK, "no comments yet", nil)
		return
	}
	writeOK(w, http.StatusOK, "", c)
}
