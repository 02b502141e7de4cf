// Package nomenclature provides the article catalogue.
// An article is known by its ID and, at some call sites, by its catalogue code.
package nomenclature

import (
	"context"

	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
)

// Article is a stocked item.
type Article struct {
	ID id.ID `db:"id" json:"id"`

	// Label is the display name
	Label string `db:"label" json:"label"`

	// Catalogue is the alternate key used by catalogue-driven reports
	Catalogue string `db:"catalogue" json:"catalogue,omitempty"`

	// CategoryID / CategoryName group rows in the stock situation report
	CategoryID   id.ID  `db:"category_id" json:"categoryId,omitempty"`
	CategoryName string `db:"category_name" json:"categoryName,omitempty"`

	// WarehouseID is the article's home store
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`

	Unit string `db:"unit" json:"unit,omitempty"`

	// MinThreshold / MaxThreshold drive the stock status; zero means unset
	MinThreshold types.Quantity `db:"min_threshold" json:"minThreshold"`
	MaxThreshold types.Quantity `db:"max_threshold" json:"maxThreshold"`
}

// ListFilter narrows the article list.
type ListFilter struct {
	WarehouseID *id.ID
	CategoryID  *id.ID
}

// Matches applies the filter in memory, for stores that cannot filter.
func (f ListFilter) Matches(a *Article) bool {
	if f.WarehouseID != nil && a.WarehouseID != *f.WarehouseID {
		return false
	}
	if f.CategoryID != nil && a.CategoryID != *f.CategoryID {
		return false
	}
	return true
}

// Repository reads articles from the reference store.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Article, error)
}
