// Package entity provides the read-only records shared by stock documents.
package entity

import (
	"time"

	"stockcard/internal/core/id"
)

// Document is the header common to inventories, receipts and issues.
// Headers are snapshots of the reference store and are never modified.
type Document struct {
	// ID is the document identifier in the reference store
	ID id.ID `db:"id" json:"id"`

	// Number is the human document number, empty when the store has none
	Number string `db:"number" json:"number,omitempty"`

	// Date is the business date; it decides the fiscal year
	Date time.Time `db:"date" json:"date"`

	// WarehouseID is the store the document belongs to, if known
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`
}

// Reference is the label shown on a stock card row.
func (d Document) Reference() string {
	if d.Number != "" {
		return d.Number
	}
	return d.ID.String()
}

// After orders headers by date, then by ID. Used to pick the authoritative
// inventory of a year: the latest date wins and the highest ID breaks ties.
func (d Document) After(other Document) bool {
	if !d.Date.Equal(other.Date) {
		return d.Date.After(other.Date)
	}
	return other.ID.Less(d.ID)
}
