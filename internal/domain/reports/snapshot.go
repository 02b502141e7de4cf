package reports

import (
	"context"

	"stockcard/internal/core/apperror"
	"stockcard/internal/core/entity"
	"stockcard/internal/core/fiscal"
	"stockcard/internal/core/tx"
	"stockcard/internal/domain"
	"stockcard/internal/domain/catalogs/nomenclature"
	"stockcard/internal/domain/documents"
	"stockcard/internal/domain/documents/goods_issue"
	"stockcard/internal/domain/documents/goods_receipt"
	"stockcard/internal/domain/documents/inventory"
	"stockcard/internal/domain/registers/stock"
	"stockcard/pkg/logger"
)

// Document kinds as they appear in warnings, logs and metrics.
const (
	DocInventory    = "inventory"
	DocGoodsReceipt = "goods_receipt"
	DocGoodsIssue   = "goods_issue"
	collArticles    = "articles"
)

// Sources are the read-only repositories of the reference data store.
type Sources struct {
	Inventories inventory.Repository
	Receipts    goods_receipt.Repository
	Issues      goods_issue.Repository
	Articles    nomenclature.Repository

	// Tx wraps the base collection reads; nil means no transaction.
	Tx tx.ReadOnlyManager
}

// Snapshot is everything one report needs, loaded once per request.
type Snapshot struct {
	Scope       fiscal.Scope
	Inventories []documents.Fetched[inventory.Line]
	Receipts    []documents.Fetched[goods_receipt.Line]
	Issues      []documents.Fetched[goods_issue.Line]
	Articles    *nomenclature.Index
}

// Failures lists every header whose lines could not be loaded.
func (s *Snapshot) Failures() []documents.FetchFailure {
	var out []documents.FetchFailure
	out = append(out, documents.Failures(DocInventory, s.Inventories)...)
	out = append(out, documents.Failures(DocGoodsReceipt, s.Receipts)...)
	out = append(out, documents.Failures(DocGoodsIssue, s.Issues)...)
	return out
}

// Loader builds snapshots.
type Loader struct {
	src         Sources
	concurrency int
	metrics     Metrics
}

// NewLoader creates a loader issuing at most concurrency line fetches at once.
func NewLoader(src Sources, concurrency int, metrics Metrics) *Loader {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if src.Tx == nil {
		src.Tx = tx.Passthrough{}
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Loader{src: src, concurrency: concurrency, metrics: metrics}
}

type baseCollections struct {
	inventories []*inventory.Inventory
	receipts    []*goods_receipt.GoodsReceipt
	issues      []*goods_issue.GoodsIssue
	articles    []*nomenclature.Article
}

// Load reads the base collections, then the lines of the year's headers.
//
// A failed base collection aborts with a MISSING_COLLECTION error. A failed
// line fetch only marks its header; see Snapshot.Failures.
func (l *Loader) Load(ctx context.Context, scope fiscal.Scope, articles nomenclature.ListFilter) (*Snapshot, error) {
	start, end := scope.Year.Bounds(scope.Location)
	period := domain.Period{From: start, To: end}

	var base baseCollections
	err := l.src.Tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if base.inventories, err = l.src.Inventories.List(ctx, period); err != nil {
			return apperror.NewMissingCollection(DocInventory, err)
		}
		if base.receipts, err = l.src.Receipts.List(ctx, period); err != nil {
			return apperror.NewMissingCollection(DocGoodsReceipt, err)
		}
		if base.issues, err = l.src.Issues.List(ctx, period); err != nil {
			return apperror.NewMissingCollection(DocGoodsIssue, err)
		}
		if base.articles, err = l.src.Articles.List(ctx, articles); err != nil {
			return apperror.NewMissingCollection(collArticles, err)
		}
		return nil
	})
	if err != nil {
		if _, ok := apperror.AsAppError(err); ok {
			return nil, err
		}
		return nil, apperror.NewMissingCollection("snapshot", err)
	}

	snap := &Snapshot{Scope: scope, Articles: nomenclature.NewIndex(base.articles)}

	// Only the authoritative inventory's lines are ever read.
	invHeaders := headersInYear(scope, base.inventories, func(d *inventory.Inventory) entity.Document { return d.Document })
	if selected, ok := stock.SelectInventory(scope, headersOnly[inventory.Line](invHeaders)); ok {
		if snap.Inventories, err = documents.FetchAll[inventory.Line](ctx, []entity.Document{selected.Header}, l.src.Inventories, 1); err != nil {
			return nil, err
		}
	}

	recHeaders := headersInYear(scope, base.receipts, func(d *goods_receipt.GoodsReceipt) entity.Document { return d.Document })
	if snap.Receipts, err = documents.FetchAll[goods_receipt.Line](ctx, recHeaders, l.src.Receipts, l.concurrency); err != nil {
		return nil, err
	}

	issHeaders := headersInYear(scope, base.issues, func(d *goods_issue.GoodsIssue) entity.Document { return d.Document })
	if snap.Issues, err = documents.FetchAll[goods_issue.Line](ctx, issHeaders, l.src.Issues, l.concurrency); err != nil {
		return nil, err
	}

	l.reportFailures(ctx, snap)
	return snap, nil
}

func (l *Loader) reportFailures(ctx context.Context, snap *Snapshot) {
	counts := map[string]int{}
	for _, f := range snap.Failures() {
		counts[f.Document]++
		logger.Warn(ctx, "document lines unavailable, counted as zero",
			"document", f.Document,
			"document_id", f.DocumentID,
			"error", f.Reason,
		)
	}
	for doc, n := range counts {
		l.metrics.LineFetchFailed(ctx, doc, n)
	}
}

func headersInYear[T any](scope fiscal.Scope, items []*T, header func(*T) entity.Document) []entity.Document {
	out := make([]entity.Document, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if h := header(item); scope.Contains(h.Date) {
			out = append(out, h)
		}
	}
	return out
}

func headersOnly[L documents.Line](headers []entity.Document) []documents.Fetched[L] {
	out := make([]documents.Fetched[L], len(headers))
	for i, h := range headers {
		out[i].Header = h
	}
	return out
}
