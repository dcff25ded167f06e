package service

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/sku_console/internal/filter"
	"github.com/GTDGit/sku_console/internal/inventory"
	"github.com/GTDGit/sku_console/internal/models"
)

const descriptionPreviewLen = 50

// RecordView is one table row.
type RecordView struct {
	models.SKU
	StockLevel         models.StockLevel `json:"stockLevel"`
	StockLabel         string            `json:"stockLabel"`
	StockValue         decimal.Decimal   `json:"stockValue"`
	DescriptionPreview string            `json:"descriptionPreview"`
}

// View is everything the presentation layer renders. It is a copy; later
// state changes do not show through it.
type View struct {
	Authenticated  bool                `json:"authenticated"`
	Loading        bool                `json:"loading"`
	Busy           bool                `json:"busy"`
	Records        []RecordView        `json:"records"`
	TotalRecords   int                 `json:"totalRecords"`
	Categories     []string            `json:"categories"`
	Facets         inventory.Facets    `json:"facets"`
	Stats          inventory.Stats     `json:"stats"`
	Filters        filter.State        `json:"filters"`
	FiltersActive  bool                `json:"filtersActive"`
	Edit           *EditContext        `json:"edit,omitempty"`
	PendingDelete  *DeleteConfirmation `json:"pendingDelete,omitempty"`
	Notice         string              `json:"notice,omitempty"`
	RequiredFields []string            `json:"requiredFields"`
}

// View returns a snapshot of the controller state.
func (s *InventoryService) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	low := s.cache.LowThreshold()
	rows := make([]RecordView, len(s.visible))
	for i, r := range s.visible {
		level := models.ClassifyStock(r.Quantity, low)
		rows[i] = RecordView{
			SKU:                r,
			StockLevel:         level,
			StockLabel:         level.Label(),
			StockValue:         r.StockValue(),
			DescriptionPreview: DescriptionPreview(r.Description),
		}
	}

	v := View{
		Authenticated:  s.authenticated,
		Loading:        s.loading,
		Busy:           s.busy,
		Records:        rows,
		TotalRecords:   s.cache.Len(),
		Categories:     append([]string{}, s.cache.Categories()...),
		Facets:         s.cache.Facets().Clone(),
		Stats:          s.cache.Stats(),
		Filters:        s.filters,
		FiltersActive:  s.filters.Active(),
		Notice:         s.notice,
		RequiredFields: s.validator.Required(),
	}
	if s.edit != nil {
		e := copyEdit(s.edit)
		v.Edit = &e
	}
	if s.pendingDelete != nil {
		d := *s.pendingDelete
		v.PendingDelete = &d
	}
	return v
}

// DescriptionPreview truncates long descriptions for the table.
func DescriptionPreview(desc string) string {
	r := []rune(desc)
	if len(r) <= descriptionPreviewLen {
		return desc
	}
	return string(r[:descriptionPreviewLen]) + "..."
}
