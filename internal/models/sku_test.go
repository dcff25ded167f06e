package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSizeRank(t *testing.T) {
	assert.Equal(t, 0, SizeS.Rank())
	assert.Equal(t, 5, SizeXXXL.Rank())
	assert.Equal(t, -1, Size("XS").Rank())
	assert.Equal(t, -1, Size("").Rank())
	assert.False(t, Size("m").Known())
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		qty  int
		want StockLevel
	}{
		{0, StockLow},
		{49, StockLow},
		{50, StockMedium},
		{99, StockMedium},
		{100, StockHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStock(tt.qty, 50), "quantity %d", tt.qty)
	}
	assert.Equal(t, "Low Stock", StockLow.Label())
	assert.Equal(t, "In Stock", StockHigh.Label())
}

func TestStockValue(t *testing.T) {
	s := SKU{Quantity: 3, Price: decimal.RequireFromString("0.1")}
	assert.True(t, decimal.RequireFromString("0.3").Equal(s.StockValue()))
}
