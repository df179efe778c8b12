package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ContainerType string

const (
	Container20GP ContainerType = "20GP"
	Container40GP ContainerType = "40GP"
	Container40HC ContainerType = "40HC"
	Container45HC ContainerType = "45HC"
)

var ContainerTypes = []ContainerType{Container20GP, Container40GP, Container40HC, Container45HC}

func (c ContainerType) Valid() bool {
	for _, ct := range ContainerTypes {
		if c == ct {
			return true
		}
	}
	return false
}

type Incoterm string

const (
	IncotermEXW Incoterm = "EXW"
	IncotermFOB Incoterm = "FOB"
	IncotermCIF Incoterm = "CIF"
	IncotermCFR Incoterm = "CFR"
	IncotermDDP Incoterm = "DDP"
	IncotermDAP Incoterm = "DAP"
)

var Incoterms = []Incoterm{IncotermEXW, IncotermFOB, IncotermCIF, IncotermCFR, IncotermDDP, IncotermDAP}

func (i Incoterm) Valid() bool {
	for _, it := range Incoterms {
		if i == it {
			return true
		}
	}
	return false
}

// ContainerTypeList is used in validation messages.
func ContainerTypeList() string {
	s := make([]string, len(ContainerTypes))
	for i, c := range ContainerTypes {
		s[i] = string(c)
	}
	return strings.Join(s, ", ")
}

func IncotermList() string {
	s := make([]string, len(Incoterms))
	for i, c := range Incoterms {
		s[i] = string(c)
	}
	return strings.Join(s, ", ")
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `json:"parentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Specifications struct {
	Colors    []string `json:"colors,omitempty"`
	Sizes     []string `json:"sizes,omitempty"`
	Materials []string `json:"materials,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type Product struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	CategoryID        string          `json:"categoryId"`
	SupplierID        string          `json:"supplierId"`
	PricePerContainer decimal.Decimal `json:"pricePerContainer"`
	UnitsPerContainer int             `json:"unitsPerContainer"`
	MOQ               int             `json:"moq"`
	MaxQuantity       *int            `json:"maxQuantity,omitempty"`
	ContainerType     ContainerType   `json:"containerType"`
	StockContainers   int             `json:"stockContainers"`
	IsNegotiable      bool            `json:"isNegotiable"`
	Incoterm          Incoterm        `json:"incoterm"`
	Specifications    Specifications  `json:"specifications"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type ProductFilter struct {
	CategoryID string
	SupplierID string
	Limit      int
	Offset     int
}
