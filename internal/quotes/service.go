package quotes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/cart"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/events"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is also the only accepted one: catalog prices and freight
// carry no currency of their own and are denominated in it.
const DefaultCurrency = "USD"

func checkCurrency(c *apperr.Collector, currency string) {
	if strings.TrimSpace(currency) != "" {
		c.Check(strings.EqualFold(strings.TrimSpace(currency), DefaultCurrency), "currency must be %s", DefaultCurrency)
	}
}

var (
	totalTolerance    = decimal.New(1, -2)
	counterOfferRatio = decimal.New(95, -2)
)

type Products interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
}

type CartReader interface {
	Items(ctx context.Context, userID string) ([]cart.Item, error)
}

type FreightEstimator interface {
	Estimate(requestedBy string, req freight.Request) (freight.Estimate, error)
	Get(ctx context.Context, who auth.Principal, id string) (freight.Estimate, error)
}

type Service struct {
	Store    Store
	Products Products
	Cart     CartReader
	Freight  FreightEstimator
	Events   *events.Emitter
	Notifier Notifier
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// FreightDetails either points at a stored estimate or carries the
// parameters for a new one.
type FreightDetails struct {
	FreightQuoteID string `json:"freightQuoteId"`
	freight.Request
}

type ItemInput struct {
	ProductID         string                `json:"productId"`
	Quantity          int                   `json:"quantity"`
	PricePerContainer decimal.Decimal       `json:"pricePerContainer"`
	Currency          string                `json:"currency"`
	ContainerType     catalog.ContainerType `json:"containerType"`
	Incoterm          catalog.Incoterm      `json:"incoterm"`
	Notes             string                `json:"notes"`
}

type CreateInput struct {
	Items             []ItemInput      `json:"items"`
	TotalAmount       *decimal.Decimal `json:"totalAmount"`
	Currency          string           `json:"currency"`
	PaymentConditions string           `json:"paymentConditions"`
	FreightDetails    *FreightDetails  `json:"freightDetails"`
	Notes             string           `json:"notes"`
}

func (in CreateInput) validate() error {
	var c apperr.Collector
	if len(in.Items) == 0 {
		c.Add("at least one item is required")
	}
	c.Check(strings.TrimSpace(in.Currency) != "", "currency is required")
	checkCurrency(&c, in.Currency)
	for i, it := range in.Items {
		c.Check(strings.TrimSpace(it.ProductID) != "", "items[%d].productId is required", i)
		c.Check(it.Quantity >= 1, "items[%d].quantity must be at least 1", i)
		c.Check(it.PricePerContainer.IsPositive(), "items[%d].pricePerContainer must be greater than 0", i)
		switch {
		case strings.TrimSpace(it.Currency) == "":
			c.Add("items[%d].currency is required", i)
		case in.Currency != "" && !strings.EqualFold(strings.TrimSpace(it.Currency), strings.TrimSpace(in.Currency)):
			c.Add("items[%d].currency must match quote currency %s", i, in.Currency)
		}
		if it.ContainerType != "" {
			c.Check(it.ContainerType.Valid(), "items[%d].containerType must be one of: %s", i, catalog.ContainerTypeList())
		}
		if it.Incoterm != "" {
			c.Check(it.Incoterm.Valid(), "items[%d].incoterm must be one of: %s", i, catalog.IncotermList())
		}
	}
	return c.Err("invalid quote request")
}

func requireBuyer(who auth.Principal) error {
	if who.Role != auth.RoleBuyer {
		return apperr.Forbidden("only buyers can request quotes")
	}
	return nil
}

func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

// CreateQuote turns an ad-hoc RFQ into a PENDING quote. All items must come
// from one supplier.
func (s *Service) CreateQuote(ctx context.Context, who auth.Principal, in CreateInput) (Quote, error) {
	if err := requireBuyer(who); err != nil {
		return Quote{}, err
	}
	if err := in.validate(); err != nil {
		return Quote{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	now := s.now().UTC()
	q := &Quote{
		ID:           uuid.NewString(),
		BuyerID:      who.UserID,
		Currency:     currency,
		Status:       StatusPending,
		PaymentTerms: in.PaymentConditions,
		Notes:        in.Notes,
		FreightCost:  decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, it := range in.Items {
		p, err := s.Products.Product(ctx, it.ProductID)
		if err != nil {
			return Quote{}, err
		}
		if q.SupplierID == "" {
			q.SupplierID = p.SupplierID
		} else if q.SupplierID != p.SupplierID {
			return Quote{}, apperr.Validation("invalid quote request", "all items must belong to the same supplier")
		}
		ct := it.ContainerType
		if ct == "" {
			ct = p.ContainerType
		}
		q.Items = append(q.Items, Item{
			ID:                uuid.NewString(),
			QuoteID:           q.ID,
			ProductID:         p.ID,
			Quantity:          it.Quantity,
			ContainerType:     ct,
			PricePerContainer: it.PricePerContainer,
			Currency:          currency,
			Incoterm:          it.Incoterm,
			Notes:             it.Notes,
			LineTotal:         lineTotal(it.PricePerContainer, it.Quantity),
		})
	}

	d := Draft{Quote: q}
	if err := s.attachFreight(ctx, who, &d, in.FreightDetails); err != nil {
		return Quote{}, err
	}
	q.TotalPrice = q.ItemsTotal().Add(q.FreightCost)
	if in.TotalAmount != nil && in.TotalAmount.Sub(q.TotalPrice).Abs().GreaterThan(totalTolerance) {
		return Quote{}, apperr.Validation("invalid quote request",
			fmt.Sprintf("totalAmount %s does not match items and freight total %s", in.TotalAmount.StringFixed(2), q.TotalPrice.StringFixed(2)))
	}

	if err := s.create(ctx, []Draft{d}, "", nil); err != nil {
		return Quote{}, err
	}
	return *q, nil
}

type CartQuoteInput struct {
	Currency          string          `json:"currency"`
	PaymentConditions string          `json:"paymentConditions"`
	FreightDetails    *FreightDetails `json:"freightDetails"`
	Notes             string          `json:"notes"`
}

type CartQuoteResult struct {
	Quotes      []Quote         `json:"quotes"`
	ItemCount   int             `json:"itemCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// SendCartQuote converts the buyer's cart into one PENDING quote per supplier
// and removes the quoted rows from the cart, all in one transaction.
func (s *Service) SendCartQuote(ctx context.Context, who auth.Principal, in CartQuoteInput) (CartQuoteResult, error) {
	if err := requireBuyer(who); err != nil {
		return CartQuoteResult{}, err
	}
	items, err := s.Cart.Items(ctx, who.UserID)
	if err != nil {
		return CartQuoteResult{}, err
	}
	if len(items) == 0 {
		return CartQuoteResult{}, apperr.Validation("cannot send quote", "cart is empty")
	}
	var c apperr.Collector
	checkCurrency(&c, in.Currency)
	if err := c.Err("cannot send quote"); err != nil {
		return CartQuoteResult{}, err
	}
	currency := DefaultCurrency

	now := s.now().UTC()
	var drafts []Draft
	consumed := make([]CartLine, 0, len(items))
	bySupplier := map[string]*Quote{}
	for _, ci := range items {
		consumed = append(consumed, CartLine{ID: ci.ID, Quantity: ci.ContainerQuantity})
		q, ok := bySupplier[ci.SupplierID]
		if !ok {
			q = &Quote{
				ID:           uuid.NewString(),
				BuyerID:      who.UserID,
				SupplierID:   ci.SupplierID,
				Currency:     currency,
				Status:       StatusPending,
				PaymentTerms: in.PaymentConditions,
				Notes:        in.Notes,
				FreightCost:  decimal.Zero,
				FromCart:     true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			bySupplier[ci.SupplierID] = q
			drafts = append(drafts, Draft{Quote: q})
		}
		q.Items = append(q.Items, Item{
			ID:                uuid.NewString(),
			QuoteID:           q.ID,
			ProductID:         ci.ProductID,
			Quantity:          ci.ContainerQuantity,
			ContainerType:     ci.ContainerType,
			PricePerContainer: ci.UnitPrice(),
			Currency:          currency,
			Incoterm:          ci.Incoterm,
			Notes:             ci.Notes,
			LineTotal:         lineTotal(ci.UnitPrice(), ci.ContainerQuantity),
		})
	}

	if in.FreightDetails != nil {
		if len(drafts) > 1 {
			return CartQuoteResult{}, apperr.Validation("cannot send quote", "freight can only be attached when the cart holds one supplier's products")
		}
		if err := s.attachFreight(ctx, who, &drafts[0], in.FreightDetails); err != nil {
			return CartQuoteResult{}, err
		}
	}

	res := CartQuoteResult{TotalAmount: decimal.Zero}
	for _, d := range drafts {
		d.Quote.TotalPrice = d.Quote.ItemsTotal().Add(d.Quote.FreightCost)
		res.ItemCount += len(d.Quote.Items)
		res.TotalAmount = res.TotalAmount.Add(d.Quote.TotalPrice)
	}
	if err := s.create(ctx, drafts, who.UserID, consumed); err != nil {
		return CartQuoteResult{}, err
	}
	for _, d := range drafts {
		res.Quotes = append(res.Quotes, *d.Quote)
	}
	return res, nil
}

func (s *Service) attachFreight(ctx context.Context, who auth.Principal, d *Draft, fd *FreightDetails) error {
	if fd == nil {
		return nil
	}
	if d.Quote.Currency != freight.Currency {
		return apperr.Validation("invalid freight details", "freight is priced in "+freight.Currency+"; quote currency must match")
	}
	var est freight.Estimate
	if fd.FreightQuoteID != "" {
		e, err := s.Freight.Get(ctx, who, fd.FreightQuoteID)
		if err != nil {
			return err
		}
		switch {
		case !e.Status.Quotable():
			return apperr.Conflict("freight quote is " + string(e.Status))
		case e.QuoteID != nil:
			return apperr.Conflict("freight quote is already attached to a quote")
		case s.now().After(e.ValidUntil):
			return apperr.Conflict("freight quote has expired")
		}
		est = e
		d.LinkFreightID = e.ID
	} else {
		e, err := s.Freight.Estimate(who.UserID, fd.Request)
		if err != nil {
			return err
		}
		est = e
		d.NewFreight = &e
	}
	qid := d.Quote.ID
	est.QuoteID = &qid
	if d.NewFreight != nil {
		d.NewFreight.QuoteID = &qid
	}
	d.Quote.FreightQuoteID = &est.ID
	d.Quote.FreightCost = est.Cost
	return nil
}

func (s *Service) create(ctx context.Context, drafts []Draft, cartOf string, consumed []CartLine) error {
	err := s.Store.CreateQuotes(ctx, drafts, cartOf, consumed)
	switch {
	case errors.Is(err, ErrStale):
		return apperr.Conflict("freight quote is already attached to a quote")
	case errors.Is(err, ErrCartChanged):
		return apperr.Conflict("cart changed while the quote was being sent, reload and retry")
	}
	if err != nil {
		return apperr.Internal("quotes.Create", err)
	}
	for _, d := range drafts {
		q := d.Quote
		s.Events.Emit(ctx, events.TopicQuoteCreated, events.EventQuoteCreated, q.ID, events.QuoteCreatedPayload{
			QuoteID:     q.ID,
			BuyerID:     q.BuyerID,
			SupplierID:  q.SupplierID,
			ItemCount:   len(q.Items),
			TotalPrice:  q.TotalPrice,
			Currency:    q.Currency,
			FromCart:    q.FromCart,
			FreightCost: q.FreightCost,
		})
	}
	return nil
}

// participant resolves the caller's side of q. Callers outside the quote get
// NotFound so existence is not leaked.
func participant(who auth.Principal, q Quote) (UserType, error) {
	switch {
	case who.Role == auth.RoleBuyer && who.UserID == q.BuyerID:
		return UserBuyer, nil
	case who.Role == auth.RoleSupplier && who.UserID == q.SupplierID:
		return UserSupplier, nil
	}
	return "", apperr.NotFound("quote", q.ID)
}

func (s *Service) load(ctx context.Context, id string) (Quote, error) {
	q, err := s.Store.GetQuote(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Quote{}, apperr.NotFound("quote", id)
	}
	if err != nil {
		return Quote{}, apperr.Internal("quotes.Get", err)
	}
	return q, nil
}

// Get returns the quote with its comment trail. Admins see every quote.
func (s *Service) Get(ctx context.Context, who auth.Principal, id string) (Quote, error) {
	q, err := s.load(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	if who.Role != auth.RoleAdmin {
		if _, err := participant(who, q); err != nil {
			return Quote{}, err
		}
	}
	cs, err := s.Store.ListQuoteComments(ctx, id)
	if err != nil {
		return Quote{}, apperr.Internal("quotes.Get", err)
	}
	q.Comments = cs
	return q, nil
}

type RespondInput struct {
	Status     Status           `json:"status"`
	TotalPrice *decimal.Decimal `json:"totalPrice"`
	Comment    string           `json:"comment"`
}

// Respond moves a PENDING quote to one of its response states, optionally
// rewriting the price, and records the responder's comment.
func (s *Service) Respond(ctx context.Context, who auth.Principal, id string, in RespondInput) (Quote, error) {
	if !in.Status.Valid() || in.Status == StatusPending {
		return Quote{}, apperr.Validation("invalid response", "status must be one of: QUOTED, COUNTER_OFFER, ACCEPTED, REJECTED")
	}
	q, err := s.load(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	side, err := participant(who, q)
	if err != nil {
		return Quote{}, err
	}
	if !responderCan[side][in.Status] {
		return Quote{}, apperr.Forbidden(fmt.Sprintf("%s cannot set status %s", side, in.Status))
	}
	if !CanTransition(q.Status, in.Status) {
		return Quote{}, apperr.Conflict(fmt.Sprintf("cannot move quote from %s to %s", q.Status, in.Status))
	}

	total := q.TotalPrice
	switch {
	case in.TotalPrice != nil:
		if in.Status != StatusQuoted && in.Status != StatusCounterOffer {
			return Quote{}, apperr.Validation("invalid response", "totalPrice can only be set with QUOTED or COUNTER_OFFER")
		}
		if !in.TotalPrice.IsPositive() {
			return Quote{}, apperr.Validation("invalid response", "totalPrice must be greater than 0")
		}
		total = in.TotalPrice.Round(2)
	case in.Status == StatusCounterOffer:
		total = q.TotalPrice.Mul(counterOfferRatio).Round(2)
	}

	text := strings.TrimSpace(in.Comment)
	if text == "" {
		text = "Status changed to " + string(in.Status)
	}
	now := s.now().UTC()
	r := Response{
		QuoteID:    q.ID,
		From:       q.Status,
		To:         in.Status,
		TotalPrice: total,
		UpdatedAt:  now,
		Comment: Comment{
			ID:        uuid.NewString(),
			QuoteID:   q.ID,
			UserID:    who.UserID,
			UserType:  side,
			Comment:   text,
			Status:    in.Status,
			CreatedAt: now,
		},
	}
	if side == UserSupplier {
		r.SupplierComments = &text
	}
	if in.Status == StatusAccepted {
		r.AcceptedAt = &now
	}

	err = s.Store.ApplyQuoteResponse(ctx, r)
	if errors.Is(err, ErrStale) {
		return Quote{}, apperr.Conflict("quote status changed, reload and retry")
	}
	if err != nil {
		return Quote{}, apperr.Internal("quotes.Respond", err)
	}

	s.Events.Emit(ctx, events.TopicQuoteResponded, events.EventQuoteResponded, q.ID, events.QuoteRespondedPayload{
		QuoteID:    q.ID,
		From:       string(q.Status),
		To:         string(in.Status),
		UserID:     who.UserID,
		UserType:   string(side),
		TotalPrice: total,
	})
	s.notify(ctx, q, r.Comment, KindStatusChanged)
	return s.Get(ctx, who, q.ID)
}

func (s *Service) ListMine(ctx context.Context, who auth.Principal, status Status) ([]Quote, error) {
	f := ListFilter{Status: status}
	switch who.Role {
	case auth.RoleBuyer:
		f.BuyerID = who.UserID
	case auth.RoleSupplier:
		f.SupplierID = who.UserID
	}
	if status != "" && !status.Valid() {
		return nil, apperr.Validation("invalid filter", "unknown status "+string(status))
	}
	qs, err := s.Store.ListQuotes(ctx, f)
	if err != nil {
		return nil, apperr.Internal("quotes.ListMine", err)
	}
	return qs, nil
}

type Stats struct {
	Total         int             `json:"total"`
	ByStatus      map[Status]int  `json:"byStatus"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	AcceptedValue decimal.Decimal `json:"acceptedValue"`
}

func (s *Service) Stats(ctx context.Context, who auth.Principal) (Stats, error) {
	qs, err := s.ListMine(ctx, who, "")
	if err != nil {
		return Stats{}, err
	}
	st := Stats{ByStatus: map[Status]int{}, TotalValue: decimal.Zero, AcceptedValue: decimal.Zero}
	for k := range validNext {
		st.ByStatus[k] = 0
	}
	for _, q := range qs {
		st.Total++
		st.ByStatus[q.Status]++
		st.TotalValue = st.TotalValue.Add(q.TotalPrice)
		if q.Status == StatusAccepted {
			st.AcceptedValue = st.AcceptedValue.Add(q.TotalPrice)
		}
	}
	return st, nil
}

func (s *Service) Delete(ctx context.Context, who auth.Principal, id string) error {
	if who.Role != auth.RoleAdmin {
		return apperr.Forbidden("only admins can delete quotes")
	}
	err := s.Store.DeleteQuote(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("quote", id)
	}
	if errors.Is(err, ErrHasPayments) {
		return apperr.Conflict("quote has payment orders and cannot be deleted")
	}
	if err != nil {
		return apperr.Internal("quotes.Delete", err)
	}
	log.Printf("quote %s deleted by admin %s", id, who.UserID)
	return nil
}
