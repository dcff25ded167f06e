package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/sku_console/internal/models"
)

// DefaultLowStockThreshold is the quantity below which a record is low on stock.
const DefaultLowStockThreshold = 50

// Stats are the aggregate figures shown above the SKU table.
type Stats struct {
	TotalItems    int             `json:"totalItems"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	LowStockCount int             `json:"lowStockCount"`
}

// ComputeStats recomputes every aggregate from scratch. Records with
// quantity strictly below lowThreshold count as low stock.
func ComputeStats(records []models.SKU, lowThreshold int) Stats {
	stats := Stats{TotalItems: len(records), TotalValue: decimal.Zero}
	for _, r := range records {
		stats.TotalValue = stats.TotalValue.Add(r.StockValue())
		if r.Quantity < lowThreshold {
			stats.LowStockCount++
		}
	}
	return stats
}
