package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"not found", NotFound("quote", "q1"), http.StatusNotFound},
		{"unauthenticated", Unauthenticated("no token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("nope"), http.StatusForbidden},
		{"conflict", Conflict("terminal"), http.StatusConflict},
		{"rate limited", RateLimited("slow down"), http.StatusTooManyRequests},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("cart item", "c1")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestCollectorAccumulates(t *testing.T) {
	var c Collector
	require.NoError(t, c.Err("invalid"))

	c.Check(false, "origin must be at least %d characters", 3)
	c.Check(true, "never")
	c.Add("incoterm is invalid")

	err := c.Err("invalid freight request")
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, []string{"origin must be at least 3 characters", "incoterm is invalid"}, e.Fields)
}

func TestInternalUnwrap(t *testing.T) {
	root := errors.New("connection reset")
	err := Internal("quotes.Create", root)
	assert.ErrorIs(t, err, root)
	assert.Contains(t, err.Error(), "quotes.Create")
}
