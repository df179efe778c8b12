package payments

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

const TTL = 24 * time.Hour

var (
	ErrNotFound = errors.New("payments: order not found")
	// ErrBuyerMismatch is returned when the quote does not belong to the buyer
	// creating the payment order.
	ErrBuyerMismatch = errors.New("payments: quote belongs to another buyer")
)

type Order struct {
	OrderNumber       string          `json:"orderNumber"`
	QuoteID           string          `json:"quoteId"`
	BuyerID           string          `json:"buyerId"`
	SupplierID        string          `json:"supplierId"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Currency          string          `json:"currency"`
	PaymentMethod     string          `json:"paymentMethod"`
	PaymentStatus     Status          `json:"paymentStatus"`
	ShippingAddress   string          `json:"shippingAddress,omitempty"`
	AuthorizationID   string          `json:"authorizationId,omitempty"`
	ApprovalURL       string          `json:"approvalUrl,omitempty"`
	ExternalPaymentID string          `json:"externalPaymentId,omitempty"`
	PayerID           string          `json:"payerId,omitempty"`
	Token             string          `json:"token,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	ExpiresAt         time.Time       `json:"expiresAt"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
}

type Completion struct {
	ExternalPaymentID string
	PayerID           string
	Token             string
	CompletedAt       time.Time
}

type Store interface {
	// CreatePaymentOrder inserts o only if the referenced quote belongs to
	// o.BuyerID; otherwise it returns ErrBuyerMismatch.
	CreatePaymentOrder(ctx context.Context, o *Order) error
	GetPaymentOrder(ctx context.Context, orderNumber string) (Order, error)
	// CompletePaymentOrder overwrites status and provider identifiers unconditionally.
	CompletePaymentOrder(ctx context.Context, orderNumber string, c Completion) (Order, error)
}
