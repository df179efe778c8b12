package payments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuthorizeRequest struct {
	OrderNumber string
	Amount      decimal.Decimal
	Currency    string
	Method      string
}

type Authorization struct {
	ID          string
	ApprovalURL string
}

type CaptureRequest struct {
	OrderNumber     string
	AuthorizationID string
	PaymentID       string
	PayerID         string
	Token           string
	Amount          decimal.Decimal
	Currency        string
}

type Capture struct {
	ExternalPaymentID string
	Status            Status
}

// Provider is the external payment gateway boundary.
type Provider interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (Authorization, error)
	Capture(ctx context.Context, req CaptureRequest) (Capture, error)
}

// SimulatedProvider approves everything. It verifies neither signatures nor
// amounts and must not be used with real money.
type SimulatedProvider struct {
	ApprovalBaseURL string
}

func (p SimulatedProvider) Authorize(_ context.Context, req AuthorizeRequest) (Authorization, error) {
	base := p.ApprovalBaseURL
	if base == "" {
		base = "https://payments.invalid/approve"
	}
	return Authorization{
		ID:          "SIM-AUTH-" + shortID(),
		ApprovalURL: strings.TrimRight(base, "/") + "/" + req.OrderNumber,
	}, nil
}

func (SimulatedProvider) Capture(_ context.Context, req CaptureRequest) (Capture, error) {
	id := req.PaymentID
	if id == "" {
		id = "SIM-PAY-" + shortID()
	}
	return Capture{ExternalPaymentID: id, Status: StatusCompleted}, nil
}

func shortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
