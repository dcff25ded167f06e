package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Size is a garment size label. The empty Size means the record does not
// track size.
type Size string

const (
	SizeS    Size = "S"
	SizeM    Size = "M"
	SizeL    Size = "L"
	SizeXL   Size = "XL"
	SizeXXL  Size = "XXL"
	SizeXXXL Size = "XXXL"
)

// SizeOrder is the display order of known sizes, smallest first.
var SizeOrder = []Size{SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeXXXL}

// Rank returns the position of s in SizeOrder, or -1 when s is not a known size.
func (s Size) Rank() int {
	for i, known := range SizeOrder {
		if s == known {
			return i
		}
	}
	return -1
}

// Known reports whether s is one of SizeOrder.
func (s Size) Known() bool { return s.Rank() >= 0 }

// SKU is one inventory record as served by the backend. Optional attributes
// are empty strings when absent; Size is always present in the schema but
// may be empty.
type SKU struct {
	ID          int64           `json:"id"`
	SkuCode     string          `json:"skuCode"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	StyleName   string          `json:"styleName,omitempty"`
	Colour      string          `json:"colour,omitempty"`
	Size        Size            `json:"size"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// StockValue is price × quantity for this record.
func (s SKU) StockValue() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SKUInput is the writable subset of SKU sent on create and update.
type SKUInput struct {
	SkuCode     string          `json:"skuCode"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	StyleName   string          `json:"styleName"`
	Colour      string          `json:"colour"`
	Size        Size            `json:"size"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
}

// StockLevel classifies a quantity for display.
type StockLevel string

const (
	StockLow    StockLevel = "low"
	StockMedium StockLevel = "medium"
	StockHigh   StockLevel = "high"
)

// MediumStockCeiling is the exclusive upper bound of the medium band.
const MediumStockCeiling = 100

// ClassifyStock returns the stock band for quantity given the low-stock threshold.
func ClassifyStock(quantity, lowThreshold int) StockLevel {
	switch {
	case quantity < lowThreshold:
		return StockLow
	case quantity < MediumStockCeiling:
		return StockMedium
	default:
		return StockHigh
	}
}

// Label is the human text for a stock band.
func (l StockLevel) Label() string {
	switch l {
	case StockLow:
		return "Low Stock"
	case StockMedium:
		return "Medium"
	default:
		return "In Stock"
	}
}
