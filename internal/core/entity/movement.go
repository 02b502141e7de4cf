package entity

import (
	"time"

	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
)

// MovementKind classifies an event on a stock card.
type MovementKind string

const (
	// MovementOpening is the synthetic opening balance taken from inventory.
	MovementOpening MovementKind = "opening_balance"
	// MovementEntry increases the balance (stock receipt).
	MovementEntry MovementKind = "entry"
	// MovementExit decreases the balance (stock issue).
	MovementExit MovementKind = "exit"
)

// StockMovement is one event of an article's stock card. It is derived from
// document lines and never persisted.
type StockMovement struct {
	Date        time.Time      `json:"date"`
	Kind        MovementKind   `json:"kind"`
	Quantity    types.Quantity `json:"quantity"`
	ReferenceID id.ID          `json:"referenceId,omitempty"`
	Reference   string         `json:"reference,omitempty"`
	UnitPrice   *types.Money   `json:"unitPrice,omitempty"`
}

// SignedQuantity returns the balance delta of the movement.
// Entry = positive, Exit = negative, anything else leaves the balance unchanged.
func (m StockMovement) SignedQuantity() types.Quantity {
	switch m.Kind {
	case MovementEntry:
		return m.Quantity
	case MovementExit:
		return -m.Quantity
	default:
		return 0
	}
}
