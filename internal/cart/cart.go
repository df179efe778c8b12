package cart

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("cart: item not found")

type Item struct {
	ID                string                `json:"id"`
	UserID            string                `json:"userId"`
	ProductID         string                `json:"productId"`
	SupplierID        string                `json:"supplierId"`
	ContainerQuantity int                   `json:"containerQuantity"`
	ContainerType     catalog.ContainerType `json:"containerType"`
	PricePerContainer decimal.Decimal       `json:"pricePerContainer"`
	CustomPrice       *decimal.Decimal      `json:"customPrice,omitempty"`
	Incoterm          catalog.Incoterm      `json:"incoterm"`
	Notes             string                `json:"notes,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// UnitPrice is the custom price when one was negotiated, else the captured catalog price.
func (i Item) UnitPrice() decimal.Decimal {
	if i.CustomPrice != nil {
		return *i.CustomPrice
	}
	return i.PricePerContainer
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.ContainerQuantity)))
}

type Stats struct {
	ItemCount       int             `json:"itemCount"`
	TotalContainers int             `json:"totalContainers"`
	TotalValue      decimal.Decimal `json:"totalValue"`
}

func Summarize(items []Item) Stats {
	st := Stats{TotalValue: decimal.Zero}
	for _, it := range items {
		st.ItemCount++
		st.TotalContainers += it.ContainerQuantity
		st.TotalValue = st.TotalValue.Add(it.LineTotal())
	}
	return st
}

// Store persists cart rows. SupplierID is denormalized from the product on read.
type Store interface {
	// UpsertCartItem inserts the row or, when (user, product, container type) already
	// exists, adds to its quantity and refreshes price, incoterm and notes. it is
	// updated to the persisted row.
	UpsertCartItem(ctx context.Context, it *Item) error
	GetCartItem(ctx context.Context, userID, itemID string) (Item, error)
	UpdateCartItem(ctx context.Context, it *Item) error
	DeleteCartItem(ctx context.Context, userID, itemID string) error
	ClearCart(ctx context.Context, userID string) (int, error)
	ListCartItems(ctx context.Context, userID string) ([]Item, error)
}
