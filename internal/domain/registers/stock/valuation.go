package stock

import (
	"github.com/shopspring/decimal"

	"stockcard/internal/core/entity"
	"stockcard/internal/core/fiscal"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
	"stockcard/internal/domain/documents"
	"stockcard/internal/domain/documents/goods_issue"
	"stockcard/internal/domain/documents/goods_receipt"
	"stockcard/internal/domain/documents/inventory"
)

// Valuation is the money side of a Summary. Every line is worth its
// quantity times its own unit price; unpriced lines are worth zero.
type Valuation struct {
	BaselineAmount types.Money `json:"baselineAmount"`
	EntryAmount    types.Money `json:"entryAmount"`
	ExitAmount     types.Money `json:"exitAmount"`
	FinalAmount    types.Money `json:"finalAmount"`
}

// Value computes FinalAmount = baseline + entries - exits.
func Value(baseline, entries, exits types.Money) Valuation {
	return Valuation{
		BaselineAmount: baseline,
		EntryAmount:    entries,
		ExitAmount:     exits,
		FinalAmount:    baseline.Add(entries).Sub(exits),
	}
}

// Add sums two valuations field by field.
func (v Valuation) Add(o Valuation) Valuation {
	return Value(
		v.BaselineAmount.Add(o.BaselineAmount),
		v.EntryAmount.Add(o.EntryAmount),
		v.ExitAmount.Add(o.ExitAmount),
	)
}

// Valuate prices the year of one article over the same lines ComputeBaseline,
// ComputeEntryTotal and ComputeExitTotal count.
func Valuate(
	articleID id.ID,
	scope fiscal.Scope,
	inventories []documents.Fetched[inventory.Line],
	receipts []documents.Fetched[goods_receipt.Line],
	issues []documents.Fetched[goods_issue.Line],
) Valuation {
	baseline := decimal.Zero
	if selected, ok := SelectInventory(scope, inventories); ok {
		for _, l := range selected.LinesOrEmpty() {
			if l.ArticleID == articleID {
				baseline = baseline.Add(lineValue(l))
			}
		}
	}
	return Value(
		baseline,
		valueInYear(articleID, scope, receipts),
		valueInYear(articleID, scope, issues),
	)
}

func valueInYear[L documents.Line](articleID id.ID, scope fiscal.Scope, items []documents.Fetched[L]) types.Money {
	return documents.Fold(items, decimal.Zero, func(acc types.Money, h entity.Document, l L) types.Money {
		if scope.Contains(h.Date) && l.LineArticleID() == articleID {
			return acc.Add(lineValue(l))
		}
		return acc
	})
}

func lineValue[L documents.Line](l L) types.Money {
	return l.LineQuantity().Value(l.LineUnitPrice())
}
