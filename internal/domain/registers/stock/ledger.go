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

// Ledger holds the per-article accumulators of one fiscal year, built in a
// single pass over shared collections. It gives the same numbers as calling
// ComputeBaseline, ComputeEntryTotal and ComputeExitTotal per article, without
// rescanning the collections for each one.
type Ledger struct {
	baseline map[id.ID]types.Quantity
	entries  map[id.ID]types.Quantity
	exits    map[id.ID]types.Quantity

	baselineAmount map[id.ID]types.Money
	entryAmount    map[id.ID]types.Money
	exitAmount     map[id.ID]types.Money

	// Inventory is the header that supplied the baselines, if any
	Inventory *entity.Document
}

// BuildLedger accumulates the year's baselines and movements.
func BuildLedger(
	scope fiscal.Scope,
	inventories []documents.Fetched[inventory.Line],
	receipts []documents.Fetched[goods_receipt.Line],
	issues []documents.Fetched[goods_issue.Line],
) *Ledger {
	l := &Ledger{
		baseline:       make(map[id.ID]types.Quantity),
		entries:        make(map[id.ID]types.Quantity),
		exits:          make(map[id.ID]types.Quantity),
		baselineAmount: make(map[id.ID]types.Money),
		entryAmount:    make(map[id.ID]types.Money),
		exitAmount:     make(map[id.ID]types.Money),
	}

	if selected, ok := SelectInventory(scope, inventories); ok {
		header := selected.Header
		l.Inventory = &header
		for _, line := range selected.LinesOrEmpty() {
			tally(l.baseline, l.baselineAmount, line)
		}
	}
	accumulate(l.entries, l.entryAmount, scope, receipts)
	accumulate(l.exits, l.exitAmount, scope, issues)
	return l
}

func accumulate[L documents.Line](qty map[id.ID]types.Quantity, amount map[id.ID]types.Money, scope fiscal.Scope, items []documents.Fetched[L]) {
	documents.Fold(items, struct{}{}, func(acc struct{}, h entity.Document, line L) struct{} {
		if scope.Contains(h.Date) {
			tally(qty, amount, line)
		}
		return acc
	})
}

func tally[L documents.Line](qty map[id.ID]types.Quantity, amount map[id.ID]types.Money, line L) {
	articleID := line.LineArticleID()
	qty[articleID] += line.LineQuantity()
	amount[articleID] = amount[articleID].Add(lineValue(line))
}

// Summary returns the year's figures for one article. Unknown articles get
// an all-zero summary.
func (l *Ledger) Summary(articleID id.ID) Summary {
	return Summarize(l.baseline[articleID], l.entries[articleID], l.exits[articleID])
}

// Valuation returns the year's amounts for one article. Unknown articles
// are worth zero.
func (l *Ledger) Valuation(articleID id.ID) Valuation {
	return Value(l.baselineAmount[articleID], l.entryAmount[articleID], l.exitAmount[articleID])
}

// Articles returns every article that appears in the year's documents,
// ordered by ID.
func (l *Ledger) Articles() []id.ID {
	seen := make(map[id.ID]struct{}, len(l.baseline)+len(l.entries)+len(l.exits))
	for _, m := range []map[id.ID]types.Quantity{l.baseline, l.entries, l.exits} {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	out := make([]id.ID, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
