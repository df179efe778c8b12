package freight

import (
	"errors"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusCalculated Status = "calculated"
	StatusConfirmed  Status = "confirmed"
	StatusExpired    Status = "expired"
)

var validNext = map[Status]map[Status]bool{
	StatusDraft:      {StatusCalculated: true, StatusExpired: true},
	StatusCalculated: {StatusConfirmed: true, StatusExpired: true},
	StatusConfirmed:  {},
	StatusExpired:    {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Quotable reports whether an estimate may be attached to a quote.
func (s Status) Quotable() bool { return s == StatusCalculated || s == StatusConfirmed }

const (
	Currency = "USD"
	Validity = 7 * 24 * time.Hour
)

var (
	ErrNotFound = errors.New("freight: estimate not found")
	// ErrStale is returned by a conditional status update that lost a race.
	ErrStale = errors.New("freight: status changed concurrently")
)

// Estimate is a persisted freight quote.
type Estimate struct {
	ID                string                `json:"id"`
	RequestedBy       string                `json:"requestedBy"`
	Origin            string                `json:"origin"`
	Destination       string                `json:"destination"`
	ContainerType     catalog.ContainerType `json:"containerType"`
	ContainerQuantity int                   `json:"containerQuantity"`
	EstimatedDate     time.Time             `json:"estimatedDate"`
	Incoterm          catalog.Incoterm      `json:"incoterm"`
	Cost              decimal.Decimal       `json:"cost"`
	Currency          string                `json:"currency"`
	TransitDays       int                   `json:"transitTime"`
	Carrier           string                `json:"carrier"`
	Status            Status                `json:"status"`
	ValidUntil        time.Time             `json:"validUntil"`
	QuoteID           *string               `json:"quoteId,omitempty"`
	OrderID           *string               `json:"orderId,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}
