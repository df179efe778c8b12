package memstore

import (
	"context"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
)

func (s *Store) CreateFreightQuote(_ context.Context, e *freight.Estimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estimates[e.ID] = *e
	return nil
}

func (s *Store) GetFreightQuote(_ context.Context, id string) (freight.Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.estimates[id]
	if !ok {
		return freight.Estimate{}, freight.ErrNotFound
	}
	return e, nil
}

func (s *Store) UpdateFreightStatus(_ context.Context, id string, from, to freight.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.estimates[id]
	if !ok || e.Status != from {
		return freight.ErrStale
	}
	e.Status = to
	e.UpdatedAt = at
	s.estimates[id] = e
	return nil
}
