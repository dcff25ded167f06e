// Package inventory holds the client-side snapshot of the SKU collection and
// everything derived from it.
package inventory

import (
	"slices"

	"github.com/GTDGit/sku_console/internal/models"
)

// Cache is the last fetched snapshot of server state. It is replaced
// wholesale on every fetch and never patched record by record. Cache is not
// safe for concurrent use; its owner serialises access.
type Cache struct {
	records      []models.SKU
	categories   []string
	facets       Facets
	stats        Stats
	lowThreshold int
}

// NewCache creates an empty cache.
func NewCache(lowThreshold int) *Cache {
	if lowThreshold <= 0 {
		lowThreshold = DefaultLowStockThreshold
	}
	c := &Cache{lowThreshold: lowThreshold}
	c.Clear()
	return c
}

// ReplaceRecords swaps in a freshly fetched record collection and recomputes
// facets and stats.
func (c *Cache) ReplaceRecords(records []models.SKU) {
	c.records = slices.Clone(records)
	if c.records == nil {
		c.records = []models.SKU{}
	}
	c.facets = DeriveFacets(c.records)
	c.stats = ComputeStats(c.records, c.lowThreshold)
}

// ReplaceCategories swaps in a freshly fetched category list.
func (c *Cache) ReplaceCategories(categories []string) {
	c.categories = slices.Clone(categories)
	if c.categories == nil {
		c.categories = []string{}
	}
}

// Clear empties records, categories, facets and stats.
func (c *Cache) Clear() {
	c.ReplaceRecords(nil)
	c.ReplaceCategories(nil)
}

// Records returns the cached records in fetch order. Callers must not modify
// the returned slice.
func (c *Cache) Records() []models.SKU { return c.records }

// Categories returns the cached categories.
func (c *Cache) Categories() []string { return c.categories }

// Facets returns the facets derived from the current records.
func (c *Cache) Facets() Facets { return c.facets }

// Stats returns the aggregates of the current records.
func (c *Cache) Stats() Stats { return c.stats }

// LowThreshold returns the quantity below which a record is low on stock.
func (c *Cache) LowThreshold() int { return c.lowThreshold }

// Len returns the number of cached records.
func (c *Cache) Len() int { return len(c.records) }

// Find returns the cached record with id.
func (c *Cache) Find(id int64) (models.SKU, bool) {
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.SKU{}, false
}
