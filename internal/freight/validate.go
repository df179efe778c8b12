package freight

import (
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
)

const (
	MinPlaceLen  = 3
	MinQuantity  = 1
	MaxQuantity  = 50
	MaxLeadTime  = 365 * 24 * time.Hour
	dateOnlyForm = "2006-01-02"
)

type Request struct {
	Origin            string                `json:"origin"`
	Destination       string                `json:"destination"`
	ContainerType     catalog.ContainerType `json:"containerType"`
	ContainerQuantity int                   `json:"containerQuantity"`
	EstimatedDate     string                `json:"estimatedDate"`
	Incoterm          catalog.Incoterm      `json:"incoterm"`
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateOnlyForm, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Validate checks every rule and reports all violations together.
// It returns the parsed shipping date on success.
func Validate(req Request, now time.Time) (time.Time, error) {
	var c apperr.Collector
	origin := strings.TrimSpace(req.Origin)
	dest := strings.TrimSpace(req.Destination)

	c.Check(len(origin) >= MinPlaceLen, "origin must be at least %d characters", MinPlaceLen)
	c.Check(len(dest) >= MinPlaceLen, "destination must be at least %d characters", MinPlaceLen)
	if origin != "" && dest != "" {
		c.Check(!strings.EqualFold(origin, dest), "origin and destination must be different")
	}
	c.Check(req.ContainerType.Valid(), "containerType must be one of: %s", catalog.ContainerTypeList())
	c.Check(req.ContainerQuantity >= MinQuantity && req.ContainerQuantity <= MaxQuantity,
		"containerQuantity must be between %d and %d", MinQuantity, MaxQuantity)

	date, ok := parseDate(req.EstimatedDate)
	switch {
	case !ok:
		c.Add("estimatedDate must be a valid date")
	case !date.After(now):
		c.Add("estimatedDate must be in the future")
	case date.After(now.Add(MaxLeadTime)):
		c.Add("estimatedDate cannot be more than one year ahead")
	}
	c.Check(req.Incoterm.Valid(), "incoterm must be one of: %s", catalog.IncotermList())

	if err := c.Err("invalid freight request"); err != nil {
		return time.Time{}, err
	}
	return date, nil
}
