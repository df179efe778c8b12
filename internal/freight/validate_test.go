package freight_test

import (
	"testing"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func validRequest() freight.Request {
	return freight.Request{
		Origin:            "Shanghai",
		Destination:       "Rotterdam",
		ContainerType:     catalog.Container40GP,
		ContainerQuantity: 2,
		EstimatedDate:     now.Add(30 * 24 * time.Hour).Format(time.RFC3339),
		Incoterm:          catalog.IncotermFOB,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *freight.Request)
		ok     bool
	}{
		{"valid", func(*freight.Request) {}, true},
		{"quantity lower bound", func(r *freight.Request) { r.ContainerQuantity = 1 }, true},
		{"quantity upper bound", func(r *freight.Request) { r.ContainerQuantity = 50 }, true},
		{"quantity zero", func(r *freight.Request) { r.ContainerQuantity = 0 }, false},
		{"quantity 51", func(r *freight.Request) { r.ContainerQuantity = 51 }, false},
		{"origin too short", func(r *freight.Request) { r.Origin = "SH" }, false},
		{"origin three chars", func(r *freight.Request) { r.Origin = "SHA" }, true},
		{"same place ignoring case", func(r *freight.Request) { r.Destination = "shanghai" }, false},
		{"unknown container", func(r *freight.Request) { r.ContainerType = "10GP" }, false},
		{"unknown incoterm", func(r *freight.Request) { r.Incoterm = "XYZ" }, false},
		{"date tomorrow", func(r *freight.Request) { r.EstimatedDate = now.Add(24 * time.Hour).Format(time.RFC3339) }, true},
		{"date now", func(r *freight.Request) { r.EstimatedDate = now.Format(time.RFC3339) }, false},
		{"date in the past", func(r *freight.Request) { r.EstimatedDate = "2020-01-01" }, false},
		{"date 365 days ahead", func(r *freight.Request) { r.EstimatedDate = now.Add(365 * 24 * time.Hour).Format(time.RFC3339) }, true},
		{"date 366 days ahead", func(r *freight.Request) { r.EstimatedDate = now.Add(366 * 24 * time.Hour).Format(time.RFC3339) }, false},
		{"date only form", func(r *freight.Request) { r.EstimatedDate = "2026-06-01" }, true},
		{"garbage date", func(r *freight.Request) { r.EstimatedDate = "next tuesday" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := freight.Validate(req, now)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	_, err := freight.Validate(freight.Request{
		Origin:            "AB",
		Destination:       "ab",
		ContainerType:     "bogus",
		ContainerQuantity: 0,
		EstimatedDate:     "",
		Incoterm:          "",
	}, now)
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	// origin, destination, same place, container, quantity, date, incoterm
	assert.Len(t, e.Fields, 7)
}

func TestValidateReturnsParsedDate(t *testing.T) {
	req := validRequest()
	req.EstimatedDate = "2026-07-01"
	d, err := freight.Validate(req, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), d)
}
