// Package apperr is the error taxonomy shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindUnauthenticated:
		return "AUTHENTICATION_REQUIRED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindConflict:
		return "CONFLICT"
	case KindRateLimited:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error carries a Kind for status mapping. Fields holds the aggregated
// field-level messages of a validation failure.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if len(e.Fields) > 0 {
		msg = msg + ": " + strings.Join(e.Fields, "; ")
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func RateLimited(msg string) *Error { return &Error{Kind: KindRateLimited, Message: msg} }

// Internal wraps an unexpected failure (usually from the store).
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Message: "internal error", Err: err}
}

// KindOf returns KindInternal for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, k Kind) bool { return err != nil && KindOf(err) == k }

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Collector accumulates field errors so every violation is reported together.
type Collector struct{ fields []string }

func (c *Collector) Add(format string, args ...any) { c.fields = append(c.fields, fmt.Sprintf(format, args...)) }

func (c *Collector) Check(ok bool, format string, args ...any) {
	if !ok {
		c.Add(format, args...)
	}
}

func (c *Collector) Fields() []string { return c.fields }

// Err returns nil when nothing was collected.
func (c *Collector) Err(msg string) error {
	if len(c.fields) == 0 {
		return nil
	}
	return Validation(msg, c.fields...)
}
