// Package memstore keeps every store interface in process memory. It backs
// STORAGE_DRIVER=memory and the service tests. One mutex guards all tables so
// multi-table writes are atomic like their SQL counterparts.
package memstore

import (
	"sync"

	"github.com/ariefcatur/go-wholesale-rfq/internal/cart"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/ariefcatur/go-wholesale-rfq/internal/orders"
	"github.com/ariefcatur/go-wholesale-rfq/internal/payments"
	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
)

type Store struct {
	mu sync.Mutex

	categories map[string]catalog.Category
	products   map[string]catalog.Product
	cartItems  []cart.Item
	estimates  map[string]freight.Estimate
	quotes     map[string]quotes.Quote
	comments   map[string][]quotes.Comment
	payments   map[string]payments.Order
	orders     map[string]orders.Order
}

var (
	_ catalog.Store  = (*Store)(nil)
	_ cart.Store     = (*Store)(nil)
	_ freight.Store  = (*Store)(nil)
	_ quotes.Store   = (*Store)(nil)
	_ payments.Store = (*Store)(nil)
	_ orders.Store   = (*Store)(nil)
)

func New() *Store {
	return &Store{
		categories: map[string]catalog.Category{},
		products:   map[string]catalog.Product{},
		estimates:  map[string]freight.Estimate{},
		quotes:     map[string]quotes.Quote{},
		comments:   map[string][]quotes.Comment{},
		payments:   map[string]payments.Order{},
		orders:     map[string]orders.Order{},
	}
}
