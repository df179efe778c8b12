package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/go-chi/chi/v5/middleware"
)

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, code int, msg string, data any) {
	writeJSON(w, code, envelope{Success: true, Message: msg, Data: data})
}

// errorWriter maps apperr kinds to status codes. Internal details are only
// exposed when verbose is set (development).
type errorWriter struct{ verbose bool }

func (ew errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.HTTPStatus(err)
	body := envelope{Success: false}
	var e *apperr.Error
	if errors.As(err, &e) {
		body.Error = e.Message
		body.Errors = e.Fields
	}
	if code == http.StatusInternalServerError {
		log.Printf("request %s %s failed (req_id=%s): %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
		body.Error = "internal server error"
		if ew.verbose {
			body.Error = err.Error()
		}
	}
	writeJSON(w, code, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid json", err.Error())
	}
	return nil
}
