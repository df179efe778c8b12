package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
)

// AddCategory is used for seeding; categories have no write API.
func (s *Store) AddCategory(c catalog.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

func (s *Store) ListCategories(_ context.Context) ([]catalog.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (catalog.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return catalog.Category{}, catalog.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListProducts(_ context.Context, f catalog.ProductFilter) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []catalog.Product{}
	for _, p := range s.products {
		if !p.IsActive ||
			(f.CategoryID != "" && p.CategoryID != f.CategoryID) ||
			(f.SupplierID != "" && p.SupplierID != f.SupplierID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func page[T any](in []T, offset, limit int) []T {
	if offset >= len(in) {
		return in[:0]
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func (s *Store) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (s *Store) SearchProducts(_ context.Context, query string, limit int) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	out := []catalog.Product{}
	for _, p := range s.products {
		if p.IsActive && matches(p, q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return page(out, 0, limit), nil
}

func matches(p catalog.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, t := range p.Specifications.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func (s *Store) CreateProduct(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.products[p.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	p.SupplierID = old.SupplierID
	p.CreatedAt = old.CreatedAt
	s.products[p.ID] = *p
	return nil
}
