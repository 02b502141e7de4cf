package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockcard/internal/core/apperror"
	"stockcard/internal/core/entity"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
	"stockcard/internal/domain"
	"stockcard/internal/domain/catalogs/nomenclature"
	"stockcard/internal/domain/documents/goods_issue"
	"stockcard/internal/domain/documents/goods_receipt"
	"stockcard/internal/domain/documents/inventory"
	"stockcard/internal/domain/registers/stock"
)

// --- in-memory reference store ---

type memInventories struct {
	headers []*inventory.Inventory
	lines   map[id.ID][]inventory.Line
	listErr error
	fetched []id.ID
}

func (m *memInventories) List(_ context.Context, _ domain.Period) ([]*inventory.Inventory, error) {
	return m.headers, m.listErr
}

func (m *memInventories) GetLines(_ context.Context, docID id.ID) ([]inventory.Line, error) {
	m.fetched = append(m.fetched, docID)
	return m.lines[docID], nil
}

type memReceipts struct {
	headers []*goods_receipt.GoodsReceipt
	lines   map[id.ID][]goods_receipt.Line
	failing map[id.ID]bool
	listErr error
}

func (m *memReceipts) List(_ context.Context, _ domain.Period) ([]*goods_receipt.GoodsReceipt, error) {
	return m.headers, m.listErr
}

func (m *memReceipts) GetLines(_ context.Context, docID id.ID) ([]goods_receipt.Line, error) {
	if m.failing[docID] {
		return nil, errors.New("upstream 500")
	}
	return m.lines[docID], nil
}

type memIssues struct {
	headers []*goods_issue.GoodsIssue
	lines   map[id.ID][]goods_issue.Line
}

func (m *memIssues) List(_ context.Context, _ domain.Period) ([]*goods_issue.GoodsIssue, error) {
	return m.headers, nil
}

func (m *memIssues) GetLines(_ context.Context, docID id.ID) ([]goods_issue.Line, error) {
	return m.lines[docID], nil
}

type memArticles struct {
	items []*nomenclature.Article
}

func (m *memArticles) List(_ context.Context, f nomenclature.ListFilter) ([]*nomenclature.Article, error) {
	var out []*nomenclature.Article
	for _, a := range m.items {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

type countingTx struct{ calls int }

func (c *countingTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

type recordingMetrics struct {
	failures   map[string]int
	unresolved int
	reports    []string
}

func (r *recordingMetrics) LineFetchFailed(_ context.Context, doc string, n int) {
	if r.failures == nil {
		r.failures = map[string]int{}
	}
	r.failures[doc] += n
}

func (r *recordingMetrics) UnresolvedArticles(_ context.Context, n int) { r.unresolved += n }

func (r *recordingMetrics) ReportDone(_ context.Context, report string, _ time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.reports = append(r.reports, report+":"+outcome)
}

func d(m time.Month, day int) time.Time { return time.Date(2024, m, day, 0, 0, 0, 0, time.UTC) }

func q(n int64) types.Quantity { return types.NewQuantity(n) }

func money(s string) *types.Money {
	m := decimal.RequireFromString(s)
	return &m
}

func doc(docID id.ID, number string, date time.Time) entity.Document {
	return entity.Document{ID: docID, Number: number, Date: date}
}

type fixture struct {
	inventories *memInventories
	receipts    *memReceipts
	issues      *memIssues
	articles    *memArticles
	tx          *countingTx
	metrics     *recordingMetrics
}

func newFixture() *fixture {
	return &fixture{
		inventories: &memInventories{
			headers: []*inventory.Inventory{
				{Document: doc("I1", "INV-1", d(1, 3))},
				{Document: doc("I2", "INV-2", d(1, 10))},
				{Document: doc("I0", "INV-0", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))},
			},
			lines: map[id.ID][]inventory.Line{
				"I1": {{ArticleID: "A", PhysicalQuantity: q(999)}},
				"I2": {
					{ArticleID: "A", PhysicalQuantity: q(60), UnitPrice: money("2")},
					{ArticleID: "A", PhysicalQuantity: q(40), UnitPrice: money("2")},
					{ArticleID: "B", PhysicalQuantity: q(3), UnitPrice: money("10")},
				},
				"I0": {{ArticleID: "A", PhysicalQuantity: q(1)}},
			},
		},
		receipts: &memReceipts{
			headers: []*goods_receipt.GoodsReceipt{
				{Document: doc("R1", "BE-1", d(3, 2))},
				{Document: doc("R2", "BE-2", d(4, 1))},
				{Document: doc("R3", "BE-3", d(5, 1))},
			},
			lines: map[id.ID][]goods_receipt.Line{
				"R1": {{ArticleID: "A", Quantity: q(50), UnitPrice: money("2.5")}},
				"R2": {{ArticleID: "A", Quantity: q(500), UnitPrice: money("1")}},
				"R3": {{ArticleID: "B", Quantity: q(10), UnitPrice: money("10")}, {ArticleID: "Z", Quantity: q(1)}},
			},
			failing: map[id.ID]bool{"R2": true},
		},
		issues: &memIssues{
			headers: []*goods_issue.GoodsIssue{
				{Document: doc("S1", "BS-1", d(3, 1))},
				nil,
			},
			lines: map[id.ID][]goods_issue.Line{
				"S1": {{ArticleID: "A", Quantity: q(30), UnitPrice: money("2.2")}, {ArticleID: "B", Quantity: q(20), UnitPrice: money("10")}},
			},
		},
		articles: &memArticles{items: []*nomenclature.Article{
			{ID: "A", Label: "Paper A4", Catalogue: "CAT-A", CategoryID: "office", WarehouseID: "W1", MinThreshold: q(10), MaxThreshold: q(500)},
			{ID: "B", Label: "Toner", Catalogue: "CAT-B", CategoryID: "office", WarehouseID: "W1"},
			{ID: "C", Label: "Chair", Catalogue: "CAT-C", CategoryID: "furniture", WarehouseID: "W2"},
		}},
		tx:      &countingTx{},
		metrics: &recordingMetrics{},
	}
}

func (f *fixture) service() *Service {
	return NewService(Config{
		Sources: Sources{
			Inventories: f.inventories,
			Receipts:    f.receipts,
			Issues:      f.issues,
			Articles:    f.articles,
			Tx:          f.tx,
		},
		Concurrency: 2,
		Metrics:     f.metrics,
	})
}

func TestStockCard_ByCatalogue(t *testing.T) {
	f := newFixture()
	card, err := f.service().StockCard(context.Background(), StockCardRequest{Catalogue: " cat-a", Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, id.ID("A"), card.Article.ID)
	require.NotNil(t, card.Inventory)
	assert.Equal(t, "INV-2", card.Inventory.Reference)
	assert.Equal(t, []id.ID{"I2"}, f.inventories.fetched, "only the authoritative inventory is read")

	assert.Equal(t, stock.Summary{Baseline: q(100), TotalEntries: q(50), TotalExits: q(30), FinalBalance: q(120)}, card.Summary)
	assert.Equal(t, stock.StatusNormal, card.Status)

	require.Len(t, card.Trace, 3)
	assert.Equal(t, entity.MovementOpening, card.Trace[0].Event.Kind)
	assert.Equal(t, "INV-2", card.Trace[0].Event.Reference)
	assert.Equal(t, q(100), card.Trace[0].RunningBalance)
	assert.Equal(t, "BS-1", card.Trace[1].Event.Reference)
	assert.Equal(t, q(70), card.Trace[1].RunningBalance)
	require.NotNil(t, card.Trace[1].Event.UnitPrice)
	assert.Equal(t, "2.2", card.Trace[1].Event.UnitPrice.String())
	assert.Equal(t, "BE-1", card.Trace[2].Event.Reference)
	assert.Equal(t, q(120), card.Trace[2].RunningBalance)

	assertAmounts(t, [4]string{"200", "125", "66", "259"}, card.Valuation)
	assert.False(t, card.UnknownArticle)

	require.Len(t, card.Warnings, 1)
	assert.Equal(t, DocGoodsReceipt, card.Warnings[0].Document)
	assert.Equal(t, id.ID("R2"), card.Warnings[0].DocumentID)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, map[string]int{DocGoodsReceipt: 1}, f.metrics.failures)
	assert.Equal(t, []string{"stock_card:ok"}, f.metrics.reports)
}

func assertAmounts(t *testing.T, want [4]string, got stock.Valuation) {
	t.Helper()
	assert.Equal(t, want, [4]string{
		got.BaselineAmount.String(),
		got.EntryAmount.String(),
		got.ExitAmount.String(),
		got.FinalAmount.String(),
	})
}

func TestStockCard_MovementBeforeInventory(t *testing.T) {
	f := newFixture()
	f.receipts.headers = append(f.receipts.headers, &goods_receipt.GoodsReceipt{Document: doc("R0", "BE-0", d(1, 5))})
	f.receipts.lines["R0"] = []goods_receipt.Line{{ArticleID: "A", Quantity: q(5)}}

	card, err := f.service().StockCard(context.Background(), StockCardRequest{ArticleID: "A", Year: 2024})
	require.NoError(t, err)

	require.NotNil(t, card.Inventory)
	assert.Equal(t, d(1, 10), card.Inventory.Date, "inventory date is kept on the card")

	require.Len(t, card.Trace, 4)
	assert.Equal(t, entity.MovementOpening, card.Trace[0].Event.Kind)
	assert.Equal(t, d(1, 5), card.Trace[0].Event.Date)
	assert.Equal(t, "BE-0", card.Trace[1].Event.Reference)
	for i := 1; i < len(card.Trace); i++ {
		assert.False(t, card.Trace[i].Event.Date.Before(card.Trace[i-1].Event.Date), "row %d out of order", i)
	}
	assert.Equal(t, []types.Quantity{q(100), q(105), q(75), q(125)}, []types.Quantity{
		card.Trace[0].RunningBalance, card.Trace[1].RunningBalance, card.Trace[2].RunningBalance, card.Trace[3].RunningBalance,
	})
	assert.Equal(t, q(125), card.Summary.FinalBalance)
}

func TestStockCard_ArticleMissingFromCatalogue(t *testing.T) {
	f := newFixture()
	card, err := f.service().StockCard(context.Background(), StockCardRequest{ArticleID: "Z", Year: 2024})
	require.NoError(t, err)

	assert.True(t, card.UnknownArticle)
	assert.Equal(t, nomenclature.Article{ID: "Z"}, card.Article)
	assert.Equal(t, stock.Summary{TotalEntries: q(1), FinalBalance: q(1)}, card.Summary)
	require.Len(t, card.Trace, 2)
	assert.Equal(t, "BE-3", card.Trace[1].Event.Reference)
	assert.Equal(t, 1, f.metrics.unresolved)
	assert.Equal(t, []string{"stock_card:ok"}, f.metrics.reports)
}

func TestStockCard_NoInventoryInYear(t *testing.T) {
	f := newFixture()
	f.inventories.headers = f.inventories.headers[2:]

	card, err := f.service().StockCard(context.Background(), StockCardRequest{ArticleID: "B", Year: 2024})
	require.NoError(t, err)

	assert.Nil(t, card.Inventory)
	assert.Empty(t, f.inventories.fetched)
	assert.Equal(t, q(0), card.Summary.Baseline)
	assert.Equal(t, q(-10), card.Summary.FinalBalance)
	assert.Equal(t, stock.StatusOutOfStock, card.Status)
	assert.Equal(t, q(-20), card.Trace[1].RunningBalance)
}

func TestStockCard_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  StockCardRequest
		code string
	}{
		{"missing article", StockCardRequest{Year: 2024}, apperror.CodeValidation},
		{"bad year", StockCardRequest{ArticleID: "A", Year: 12}, apperror.CodeValidation},
		{"unknown catalogue", StockCardRequest{Catalogue: "CAT-404", Year: 2024}, apperror.CodeUnresolvedArticle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.service().StockCard(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestStockCard_MissingBaseCollectionIsFatal(t *testing.T) {
	f := newFixture()
	f.receipts.listErr = errors.New("connection refused")

	_, err := f.service().StockCard(context.Background(), StockCardRequest{ArticleID: "A", Year: 2024})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMissingCollection, appErr.Code)
	assert.Equal(t, DocGoodsReceipt, appErr.Details["collection"])
	assert.Equal(t, []string{"stock_card:error"}, f.metrics.reports)
}

func TestStockSituation(t *testing.T) {
	f := newFixture()
	sit, err := f.service().StockSituation(context.Background(), SituationRequest{Year: 2024})
	require.NoError(t, err)

	require.Len(t, sit.Groups, 2)
	furniture, office := sit.Groups[0], sit.Groups[1]
	assert.Equal(t, id.ID("furniture"), furniture.CategoryID)
	assert.Equal(t, id.ID("office"), office.CategoryID)

	require.Len(t, office.Rows, 2)
	assert.Equal(t, "Paper A4", office.Rows[0].Label)
	assert.Equal(t, q(120), office.Rows[0].FinalBalance)
	assert.Equal(t, q(50), office.Rows[0].TotalEntries, "R2 lines failed to load and are not counted")
	assertAmounts(t, [4]string{"200", "125", "66", "259"}, office.Rows[0].Valuation)
	assertAmounts(t, [4]string{"30", "100", "200", "-70"}, office.Rows[1].Valuation)
	assertAmounts(t, [4]string{"230", "225", "266", "189"}, office.Amounts)
	assert.Equal(t, "Toner", office.Rows[1].Label)
	assert.Equal(t, q(3+10-20), office.Rows[1].FinalBalance)
	assert.Equal(t, stock.StatusOutOfStock, office.Rows[1].Status)
	assert.Equal(t, q(120-7), office.Totals.FinalBalance)

	require.Len(t, furniture.Rows, 1)
	assert.Equal(t, stock.Summary{}, furniture.Rows[0].Summary)

	assert.Equal(t, 3, sit.RowCount)
	assert.Equal(t, q(113), sit.Totals.FinalBalance)
	assert.Equal(t, q(103), sit.Totals.Baseline)
	assert.Equal(t, q(60), sit.Totals.TotalEntries)
	assert.Equal(t, q(50), sit.Totals.TotalExits)
	assertAmounts(t, [4]string{"230", "225", "266", "189"}, sit.Amounts)
	assert.Equal(t, []id.ID{"Z"}, sit.UnknownArticles)
	require.Len(t, sit.Warnings, 1)
	assert.Equal(t, id.ID("R2"), sit.Warnings[0].DocumentID)
	assert.Equal(t, 1, f.metrics.unresolved)
}

func TestStockSituation_DuplicateCatalogueEntry(t *testing.T) {
	f := newFixture()
	dup := *f.articles.items[0]
	f.articles.items = append(f.articles.items, &dup)

	sit, err := f.service().StockSituation(context.Background(), SituationRequest{Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, 3, sit.RowCount)
	assert.Equal(t, q(113), sit.Totals.FinalBalance)
	assertAmounts(t, [4]string{"230", "225", "266", "189"}, sit.Amounts)

	office := sit.Groups[1]
	require.Len(t, office.Rows, 2)
	assert.Equal(t, q(113), office.Totals.FinalBalance)
}

func TestStockSituation_CataloguesAndFilters(t *testing.T) {
	f := newFixture()
	sit, err := f.service().StockSituation(context.Background(), SituationRequest{
		Year:       2024,
		Catalogues: []string{"CAT-B", "CAT-404", "cat-b", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"CAT-404"}, sit.Unresolved)
	assert.Equal(t, 1, sit.RowCount)
	assert.Equal(t, id.ID("B"), sit.Groups[0].Rows[0].ArticleID)

	w2 := id.ID("W2")
	sit, err = f.service().StockSituation(context.Background(), SituationRequest{Year: 2024, WarehouseID: &w2})
	require.NoError(t, err)
	assert.Equal(t, 1, sit.RowCount)
	assert.Equal(t, id.ID("C"), sit.Groups[0].Rows[0].ArticleID)
	assert.Empty(t, sit.UnknownArticles)
}

func TestStockSituation_Idempotent(t *testing.T) {
	f := newFixture()
	svc := f.service()

	first, err := svc.StockSituation(context.Background(), SituationRequest{Year: 2024})
	require.NoError(t, err)
	second, err := svc.StockSituation(context.Background(), SituationRequest{Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
