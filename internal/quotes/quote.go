package quotes

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("quotes: not found")
	// ErrStale means a conditional write found the quote in another status
	// or the freight estimate already linked.
	ErrStale = errors.New("quotes: concurrent modification")
	// ErrCartChanged means a cart row was edited or removed after it was read.
	ErrCartChanged = errors.New("quotes: cart changed")
	// ErrHasPayments blocks deleting a quote that payment orders reference.
	ErrHasPayments = errors.New("quotes: quote has payment orders")
)

// CartLine is a cart row as read when the quote was built. It is consumed
// only if it still holds this quantity.
type CartLine struct {
	ID       string
	Quantity int
}

type Item struct {
	ID                string                `json:"id"`
	QuoteID           string                `json:"quoteId"`
	ProductID         string                `json:"productId"`
	Quantity          int                   `json:"quantity"`
	ContainerType     catalog.ContainerType `json:"containerType,omitempty"`
	PricePerContainer decimal.Decimal       `json:"pricePerContainer"`
	Currency          string                `json:"currency"`
	Incoterm          catalog.Incoterm      `json:"incoterm,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	LineTotal         decimal.Decimal       `json:"lineTotal"`
}

type Quote struct {
	ID               string          `json:"id"`
	BuyerID          string          `json:"buyerId"`
	SupplierID       string          `json:"supplierId"`
	Items            []Item          `json:"items"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	Currency         string          `json:"currency"`
	Status           Status          `json:"status"`
	PaymentTerms     string          `json:"paymentTerms,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	FreightQuoteID   *string         `json:"freightQuoteId,omitempty"`
	FreightCost      decimal.Decimal `json:"freightCost"`
	SupplierComments string          `json:"supplierComments,omitempty"`
	FromCart         bool            `json:"fromCart"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	AcceptedAt       *time.Time      `json:"acceptedAt,omitempty"`
	Comments         []Comment       `json:"comments,omitempty"`
}

// ItemsTotal is the sum of line totals, without freight.
func (q Quote) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range q.Items {
		sum = sum.Add(it.LineTotal)
	}
	return sum
}

type Comment struct {
	ID        string    `json:"id"`
	QuoteID   string    `json:"quoteId"`
	UserID    string    `json:"userId"`
	UserType  UserType  `json:"userType"`
	Comment   string    `json:"comment"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft is one quote to persist. NewFreight is inserted alongside it;
// LinkFreightID attaches an already stored estimate.
type Draft struct {
	Quote         *Quote
	NewFreight    *freight.Estimate
	LinkFreightID string
}

// Response is a conditional status change plus the comment recording it.
type Response struct {
	QuoteID          string
	From             Status
	To               Status
	TotalPrice       decimal.Decimal
	SupplierComments *string
	AcceptedAt       *time.Time
	UpdatedAt        time.Time
	Comment          Comment
}

type ListFilter struct {
	BuyerID    string
	SupplierID string
	Status     Status
}

type Store interface {
	// CreateQuotes writes all drafts (quotes, items, freight) and deletes the
	// consumed cart lines of cartOf in the same transaction. Rows added to the
	// cart meanwhile are left alone; a consumed line that changed fails the
	// whole write with ErrCartChanged.
	CreateQuotes(ctx context.Context, drafts []Draft, cartOf string, consumed []CartLine) error
	GetQuote(ctx context.Context, id string) (Quote, error)
	ListQuotes(ctx context.Context, f ListFilter) ([]Quote, error)
	ApplyQuoteResponse(ctx context.Context, r Response) error
	// DeleteQuote returns ErrHasPayments when payment orders reference the quote.
	DeleteQuote(ctx context.Context, id string) error
	AddQuoteComment(ctx context.Context, c *Comment) error
	ListQuoteComments(ctx context.Context, quoteID string) ([]Comment, error)
	LatestQuoteComment(ctx context.Context, quoteID string) (*Comment, error)
}
