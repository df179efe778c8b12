package quotes

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/google/uuid"
)

type CommentInput struct {
	UserType UserType `json:"userType"`
	Comment  string   `json:"comment"`
	Status   Status   `json:"status"`
}

func (in CommentInput) validate() error {
	var c apperr.Collector
	c.Check(in.UserType.Valid(), "userType must be BUYER or SUPPLIER")
	c.Check(strings.TrimSpace(in.Comment) != "", "comment is required")
	switch {
	case in.Status == "":
		c.Add("status is required")
	case !in.Status.Valid():
		c.Add("status %s is unknown", in.Status)
	}
	return c.Err("invalid comment")
}

// CreateComment appends to the quote's audit trail. The comment's status is a
// snapshot supplied by the caller and is not reconciled with the quote.
func (s *Service) CreateComment(ctx context.Context, who auth.Principal, quoteID string, in CommentInput) (Comment, error) {
	if err := in.validate(); err != nil {
		return Comment{}, err
	}
	q, err := s.load(ctx, quoteID)
	if err != nil {
		return Comment{}, err
	}
	side, err := participant(who, q)
	if err != nil {
		return Comment{}, err
	}
	if side != in.UserType {
		return Comment{}, apperr.Forbidden("userType does not match the authenticated user")
	}
	c := Comment{
		ID:        uuid.NewString(),
		QuoteID:   quoteID,
		UserID:    who.UserID,
		UserType:  side,
		Comment:   strings.TrimSpace(in.Comment),
		Status:    in.Status,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Store.AddQuoteComment(ctx, &c); err != nil {
		return Comment{}, apperr.Internal("quotes.CreateComment", err)
	}
	s.notify(ctx, q, c, KindComment)
	return c, nil
}

// Comments returns the trail oldest first.
func (s *Service) Comments(ctx context.Context, who auth.Principal, quoteID string) ([]Comment, error) {
	if err := s.authorizeRead(ctx, who, quoteID); err != nil {
		return nil, err
	}
	cs, err := s.Store.ListQuoteComments(ctx, quoteID)
	if err != nil {
		return nil, apperr.Internal("quotes.Comments", err)
	}
	return cs, nil
}

// LatestComment returns nil when the quote has no comments.
func (s *Service) LatestComment(ctx context.Context, who auth.Principal, quoteID string) (*Comment, error) {
	if err := s.authorizeRead(ctx, who, quoteID); err != nil {
		return nil, err
	}
	c, err := s.Store.LatestQuoteComment(ctx, quoteID)
	if err != nil {
		return nil, apperr.Internal("quotes.LatestComment", err)
	}
	return c, nil
}

func (s *Service) authorizeRead(ctx context.Context, who auth.Principal, quoteID string) error {
	q, err := s.load(ctx, quoteID)
	if err != nil {
		return err
	}
	if who.Role == auth.RoleAdmin {
		return nil
	}
	_, err = participant(who, q)
	return err
}

const (
	KindComment       = "comment"
	KindStatusChanged = "status_changed"
)

// Notification tells the other side of a quote that something happened.
type Notification struct {
	Kind          string    `json:"kind"`
	QuoteID       string    `json:"quoteId"`
	RecipientID   string    `json:"recipientId"`
	RecipientType UserType  `json:"recipientType"`
	SenderID      string    `json:"senderId"`
	SenderType    UserType  `json:"senderType"`
	Status        Status    `json:"status"`
	Message       string    `json:"message"`
	At            time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// notify is best effort; delivery failures are logged, never returned.
func (s *Service) notify(ctx context.Context, q Quote, c Comment, kind string) {
	if s.Notifier == nil {
		return
	}
	n := Notification{
		Kind:       kind,
		QuoteID:    q.ID,
		SenderID:   c.UserID,
		SenderType: c.UserType,
		Status:     c.Status,
		Message:    c.Comment,
		At:         c.CreatedAt,
	}
	if c.UserType == UserBuyer {
		n.RecipientID, n.RecipientType = q.SupplierID, UserSupplier
	} else {
		n.RecipientID, n.RecipientType = q.BuyerID, UserBuyer
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		log.Printf("notify quote=%s recipient=%s: %v", q.ID, n.RecipientID, err)
	}
}
