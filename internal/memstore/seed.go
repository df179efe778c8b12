package memstore

import (
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/shopspring/decimal"
)

const DemoSupplier = "supplier-demo"

// SeedDemo loads a small catalog so the memory driver is usable out of the box.
func (s *Store) SeedDemo(now time.Time) {
	cats := []catalog.Category{
		{ID: "cat-apparel", Name: "Apparel", Description: "Garments in bulk", CreatedAt: now},
		{ID: "cat-furniture", Name: "Furniture", Description: "Flat-packed furniture", CreatedAt: now},
	}
	for _, c := range cats {
		s.AddCategory(c)
	}
	maxQty := 40
	prods := []catalog.Product{
		{
			ID: "prod-tshirt", Title: "Cotton T-Shirts", Description: "Plain crew-neck t-shirts, assorted sizes",
			CategoryID: "cat-apparel", SupplierID: DemoSupplier, PricePerContainer: decimal.NewFromInt(20400),
			UnitsPerContainer: 24000, MOQ: 1, MaxQuantity: &maxQty, ContainerType: catalog.Container40GP,
			StockContainers: 30, IsNegotiable: true, Incoterm: catalog.IncotermFOB,
			Specifications: catalog.Specifications{Colors: []string{"white", "black"}, Sizes: []string{"S", "M", "L"}, Materials: []string{"cotton"}, Tags: []string{"basics"}},
			IsActive:       true, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "prod-chair", Title: "Stacking Chairs", Description: "Polypropylene stacking chairs",
			CategoryID: "cat-furniture", SupplierID: DemoSupplier, PricePerContainer: decimal.NewFromInt(15800),
			UnitsPerContainer: 1800, MOQ: 2, ContainerType: catalog.Container40HC,
			StockContainers: 12, Incoterm: catalog.IncotermCIF,
			Specifications: catalog.Specifications{Colors: []string{"grey"}, Materials: []string{"polypropylene"}, Tags: []string{"outdoor", "events"}},
			IsActive:       true, CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second),
		},
	}
	for i := range prods {
		s.mu.Lock()
		s.products[prods[i].ID] = prods[i]
		s.mu.Unlock()
	}
}
