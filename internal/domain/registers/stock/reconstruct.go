// Package stock reconstructs article stock balances for a fiscal year from
// inventory counts, goods receipts and goods issues.
//
// Every function here is pure: inputs are snapshots, nothing is cached and
// the same inputs always give the same result.
package stock

import (
	"sort"

	"stockcard/internal/core/entity"
	"stockcard/internal/core/fiscal"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
	"stockcard/internal/domain/documents"
	"stockcard/internal/domain/documents/goods_issue"
	"stockcard/internal/domain/documents/goods_receipt"
	"stockcard/internal/domain/documents/inventory"
)

// BalancePoint is one row of a stock card: a movement and the balance after it.
type BalancePoint struct {
	Event          entity.StockMovement `json:"event"`
	RunningBalance types.Quantity       `json:"runningBalance"`
}

// Summary aggregates a fiscal year for one article.
type Summary struct {
	Baseline     types.Quantity `json:"baseline"`
	TotalEntries types.Quantity `json:"totalEntries"`
	TotalExits   types.Quantity `json:"totalExits"`
	FinalBalance types.Quantity `json:"finalBalance"`
}

// Summarize computes FinalBalance = baseline + entries - exits.
func Summarize(baseline, entries, exits types.Quantity) Summary {
	return Summary{
		Baseline:     baseline,
		TotalEntries: entries,
		TotalExits:   exits,
		FinalBalance: baseline + entries - exits,
	}
}

// SelectInventory returns the authoritative inventory of the year: the
// latest-dated one, the highest ID on equal dates. A header whose lines
// failed to load can still be selected; it then yields a zero baseline.
func SelectInventory(scope fiscal.Scope, inventories []documents.Fetched[inventory.Line]) (documents.Fetched[inventory.Line], bool) {
	var (
		best  documents.Fetched[inventory.Line]
		found bool
	)
	for _, inv := range inventories {
		if !scope.Contains(inv.Header.Date) {
			continue
		}
		if !found || inv.Header.After(best.Header) {
			best, found = inv, true
		}
	}
	return best, found
}

// ComputeBaseline sums the physical quantity counted for articleID in the
// year's authoritative inventory. No inventory in the year means 0.
func ComputeBaseline(articleID id.ID, scope fiscal.Scope, inventories []documents.Fetched[inventory.Line]) types.Quantity {
	selected, ok := SelectInventory(scope, inventories)
	if !ok {
		return 0
	}
	return sumArticle(articleID, selected.LinesOrEmpty())
}

// ComputeEntryTotal sums the received quantity of articleID over all the
// year's goods receipts. Receipts whose lines failed to load count as 0.
func ComputeEntryTotal(articleID id.ID, scope fiscal.Scope, receipts []documents.Fetched[goods_receipt.Line]) types.Quantity {
	return sumInYear(articleID, scope, receipts)
}

// ComputeExitTotal sums the issued quantity of articleID over all the
// year's goods issues. Issues whose lines failed to load count as 0.
func ComputeExitTotal(articleID id.ID, scope fiscal.Scope, issues []documents.Fetched[goods_issue.Line]) types.Quantity {
	return sumInYear(articleID, scope, issues)
}

func sumInYear[L documents.Line](articleID id.ID, scope fiscal.Scope, items []documents.Fetched[L]) types.Quantity {
	return documents.Fold(items, types.Quantity(0), func(acc types.Quantity, h entity.Document, l L) types.Quantity {
		if scope.Contains(h.Date) && l.LineArticleID() == articleID {
			return acc + l.LineQuantity()
		}
		return acc
	})
}

func sumArticle[L documents.Line](articleID id.ID, lines []L) types.Quantity {
	var total types.Quantity
	for _, l := range lines {
		if l.LineArticleID() == articleID {
			total += l.LineQuantity()
		}
	}
	return total
}

// Movements builds the entry and exit events of articleID in the year, one
// per matching document line, in document order.
func Movements(
	articleID id.ID,
	scope fiscal.Scope,
	receipts []documents.Fetched[goods_receipt.Line],
	issues []documents.Fetched[goods_issue.Line],
) []entity.StockMovement {
	var events []entity.StockMovement
	events = documents.Fold(receipts, events, func(acc []entity.StockMovement, h entity.Document, l goods_receipt.Line) []entity.StockMovement {
		if !scope.Contains(h.Date) || l.ArticleID != articleID {
			return acc
		}
		return append(acc, entity.StockMovement{
			Date:        h.Date,
			Kind:        entity.MovementEntry,
			Quantity:    l.Quantity,
			ReferenceID: h.ID,
			Reference:   h.Reference(),
			UnitPrice:   l.UnitPrice,
		})
	})
	events = documents.Fold(issues, events, func(acc []entity.StockMovement, h entity.Document, l goods_issue.Line) []entity.StockMovement {
		if !scope.Contains(h.Date) || l.ArticleID != articleID {
			return acc
		}
		return append(acc, entity.StockMovement{
			Date:        h.Date,
			Kind:        entity.MovementExit,
			Quantity:    l.Quantity,
			ReferenceID: h.ID,
			Reference:   h.Reference(),
			UnitPrice:   l.UnitPrice,
		})
	})
	return events
}

// ReconstructTrace replays events in date order starting from baseline.
//
// The first point is always the opening balance. If events[0] is an opening
// event it supplies that point's reference; otherwise the point is
// synthesized. The remaining events are stable-sorted by date (equal dates
// keep input order). The opening point is never dated after the earliest
// movement, so the whole trace stays in ascending date order. Entries add,
// exits subtract, other kinds leave the balance unchanged. Balances may go
// negative. events is not modified.
func ReconstructTrace(baseline types.Quantity, events []entity.StockMovement) []BalancePoint {
	opening := entity.StockMovement{Kind: entity.MovementOpening}
	rest := events
	if len(events) > 0 && events[0].Kind == entity.MovementOpening {
		opening = events[0]
		rest = events[1:]
	}
	opening.Quantity = baseline

	sorted := make([]entity.StockMovement, len(rest))
	copy(sorted, rest)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	if len(sorted) > 0 && (opening.Date.IsZero() || sorted[0].Date.Before(opening.Date)) {
		opening.Date = sorted[0].Date
	}

	trace := make([]BalancePoint, 0, len(sorted)+1)
	trace = append(trace, BalancePoint{Event: opening, RunningBalance: baseline})

	running := baseline
	for _, ev := range sorted {
		running += ev.SignedQuantity()
		trace = append(trace, BalancePoint{Event: ev, RunningBalance: running})
	}
	return trace
}
