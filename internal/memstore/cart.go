package memstore

import (
	"context"

	"github.com/ariefcatur/go-wholesale-rfq/internal/cart"
)

// withSupplier fills the denormalized supplier from the product table.
func (s *Store) withSupplier(it cart.Item) cart.Item {
	it.SupplierID = s.products[it.ProductID].SupplierID
	return it
}

func (s *Store) UpsertCartItem(_ context.Context, it *cart.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.cartItems {
		if cur.UserID != it.UserID || cur.ProductID != it.ProductID || cur.ContainerType != it.ContainerType {
			continue
		}
		cur.ContainerQuantity += it.ContainerQuantity
		cur.PricePerContainer = it.PricePerContainer
		if it.CustomPrice != nil {
			cur.CustomPrice = it.CustomPrice
		}
		cur.Incoterm = it.Incoterm
		if it.Notes != "" {
			cur.Notes = it.Notes
		}
		cur.UpdatedAt = it.UpdatedAt
		s.cartItems[i] = cur
		*it = s.withSupplier(cur)
		return nil
	}
	s.cartItems = append(s.cartItems, *it)
	*it = s.withSupplier(*it)
	return nil
}

func (s *Store) findCartItem(userID, itemID string) int {
	for i, it := range s.cartItems {
		if it.ID == itemID && it.UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Store) GetCartItem(_ context.Context, userID, itemID string) (cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findCartItem(userID, itemID)
	if i < 0 {
		return cart.Item{}, cart.ErrNotFound
	}
	return s.withSupplier(s.cartItems[i]), nil
}

func (s *Store) UpdateCartItem(_ context.Context, it *cart.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findCartItem(it.UserID, it.ID)
	if i < 0 {
		return cart.ErrNotFound
	}
	cur := s.cartItems[i]
	cur.ContainerQuantity = it.ContainerQuantity
	cur.CustomPrice = it.CustomPrice
	cur.Notes = it.Notes
	cur.UpdatedAt = it.UpdatedAt
	s.cartItems[i] = cur
	return nil
}

func (s *Store) DeleteCartItem(_ context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findCartItem(userID, itemID)
	if i < 0 {
		return cart.ErrNotFound
	}
	s.cartItems = append(s.cartItems[:i], s.cartItems[i+1:]...)
	return nil
}

func (s *Store) ClearCart(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCart(userID), nil
}

func (s *Store) clearCart(userID string) int {
	kept := s.cartItems[:0]
	n := 0
	for _, it := range s.cartItems {
		if it.UserID == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	s.cartItems = kept
	return n
}

func (s *Store) ListCartItems(_ context.Context, userID string) ([]cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []cart.Item{}
	for _, it := range s.cartItems {
		if it.UserID == userID {
			out = append(out, s.withSupplier(it))
		}
	}
	return out, nil
}
