package memstore

import (
	"context"
	"sort"

	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
)

func cloneQuote(q quotes.Quote) quotes.Quote {
	q.Items = append([]quotes.Item(nil), q.Items...)
	q.Comments = nil
	return q
}

// CreateQuotes validates every freight link and consumed cart line before
// touching any table so a failed draft leaves nothing behind.
func (s *Store) CreateQuotes(_ context.Context, drafts []quotes.Draft, cartOf string, consumed []quotes.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range drafts {
		if d.LinkFreightID == "" {
			continue
		}
		e, ok := s.estimates[d.LinkFreightID]
		if !ok || e.QuoteID != nil {
			return quotes.ErrStale
		}
	}
	for _, l := range consumed {
		i := s.findCartItem(cartOf, l.ID)
		if i < 0 || s.cartItems[i].ContainerQuantity != l.Quantity {
			return quotes.ErrCartChanged
		}
	}
	for _, d := range drafts {
		q := d.Quote
		if d.NewFreight != nil {
			s.estimates[d.NewFreight.ID] = *d.NewFreight
		}
		if d.LinkFreightID != "" {
			e := s.estimates[d.LinkFreightID]
			qid := q.ID
			e.QuoteID = &qid
			e.UpdatedAt = q.CreatedAt
			s.estimates[e.ID] = e
		}
		s.quotes[q.ID] = cloneQuote(*q)
	}
	for _, l := range consumed {
		i := s.findCartItem(cartOf, l.ID)
		s.cartItems = append(s.cartItems[:i], s.cartItems[i+1:]...)
	}
	return nil
}

func (s *Store) GetQuote(_ context.Context, id string) (quotes.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok {
		return quotes.Quote{}, quotes.ErrNotFound
	}
	return cloneQuote(q), nil
}

func (s *Store) ListQuotes(_ context.Context, f quotes.ListFilter) ([]quotes.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []quotes.Quote{}
	for _, q := range s.quotes {
		if (f.BuyerID != "" && q.BuyerID != f.BuyerID) ||
			(f.SupplierID != "" && q.SupplierID != f.SupplierID) ||
			(f.Status != "" && q.Status != f.Status) {
			continue
		}
		out = append(out, cloneQuote(q))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) ApplyQuoteResponse(_ context.Context, r quotes.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[r.QuoteID]
	if !ok || q.Status != r.From {
		return quotes.ErrStale
	}
	q.Status = r.To
	q.TotalPrice = r.TotalPrice
	if r.SupplierComments != nil {
		q.SupplierComments = *r.SupplierComments
	}
	if r.AcceptedAt != nil {
		at := *r.AcceptedAt
		q.AcceptedAt = &at
	}
	q.UpdatedAt = r.UpdatedAt
	s.quotes[q.ID] = q
	s.comments[q.ID] = append(s.comments[q.ID], r.Comment)
	return nil
}

func (s *Store) DeleteQuote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotes[id]; !ok {
		return quotes.ErrNotFound
	}
	for _, o := range s.payments {
		if o.QuoteID == id {
			return quotes.ErrHasPayments
		}
	}
	for eid, e := range s.estimates {
		if e.QuoteID != nil && *e.QuoteID == id {
			e.QuoteID = nil
			s.estimates[eid] = e
		}
	}
	delete(s.quotes, id)
	delete(s.comments, id)
	return nil
}

func (s *Store) AddQuoteComment(_ context.Context, c *quotes.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[c.QuoteID] = append(s.comments[c.QuoteID], *c)
	return nil
}

func (s *Store) ListQuoteComments(_ context.Context, quoteID string) ([]quotes.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]quotes.Comment{}, s.comments[quoteID]...), nil
}

func (s *Store) LatestQuoteComment(_ context.Context, quoteID string) (*quotes.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.comments[quoteID]
	if len(cs) == 0 {
		return nil, nil
	}
	c := cs[len(cs)-1]
	return &c, nil
}
