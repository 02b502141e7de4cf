// Package reports builds stock reports from reference store snapshots.
package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stockcard/internal/core/apperror"
	"stockcard/internal/core/entity"
	"stockcard/internal/core/fiscal"
	"stockcard/internal/core/id"
	"stockcard/internal/domain/catalogs/nomenclature"
	"stockcard/internal/domain/registers/stock"
	"stockcard/pkg/logger"
)

var tracer = otel.Tracer("stockcard/reports")

const (
	reportStockCard = "stock_card"
	reportSituation = "stock_situation"
)

// Config configures the reports service.
type Config struct {
	Sources Sources

	// Concurrency bounds parallel line fetches per document kind (default 8)
	Concurrency int

	// Location decides which fiscal year a timestamp belongs to (default UTC)
	Location *time.Location

	Metrics Metrics
}

// Service provides report generation operations.
type Service struct {
	loader   *Loader
	location *time.Location
	metrics  Metrics
}

// NewService creates a new reports service.
func NewService(cfg Config) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	return &Service{
		loader:   NewLoader(cfg.Sources, cfg.Concurrency, cfg.Metrics),
		location: cfg.Location,
		metrics:  cfg.Metrics,
	}
}

// Location returns the time zone used for fiscal years.
func (s *Service) Location() *time.Location { return s.location }

// StockCard reconstructs the running balance of one article over a year.
func (s *Service) StockCard(ctx context.Context, req StockCardRequest) (card *StockCard, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "reports.StockCard", trace.WithAttributes(
		attribute.Int("fiscal.year", int(req.Year)),
		attribute.String("article.id", req.ArticleID.String()),
		attribute.String("article.catalogue", req.Catalogue),
	))
	defer func() {
		s.finish(ctx, span, reportStockCard, started, err)
	}()

	if err := req.Year.Validate(); err != nil {
		return nil, apperror.NewValidation(err.Error()).WithDetail("field", "year")
	}
	req.Catalogue = strings.TrimSpace(req.Catalogue)
	if req.ArticleID.IsNil() && req.Catalogue == "" {
		return nil, apperror.NewValidation("articleId or catalogue is required")
	}

	scope := fiscal.NewScope(req.Year, s.location)
	snap, err := s.loader.Load(ctx, scope, nomenclature.ListFilter{})
	if err != nil {
		return nil, err
	}

	article, known, err := s.resolveArticle(ctx, snap.Articles, req)
	if err != nil {
		return nil, err
	}

	baseline := stock.ComputeBaseline(article.ID, scope, snap.Inventories)
	entries := stock.ComputeEntryTotal(article.ID, scope, snap.Receipts)
	exits := stock.ComputeExitTotal(article.ID, scope, snap.Issues)

	var events []entity.StockMovement
	inv := inventoryRef(scope, snap)
	if inv != nil {
		events = append(events, entity.StockMovement{
			Date:        inv.Date,
			Kind:        entity.MovementOpening,
			ReferenceID: inv.ID,
			Reference:   inv.Reference,
		})
	}
	events = append(events, stock.Movements(article.ID, scope, snap.Receipts, snap.Issues)...)

	summary := stock.Summarize(baseline, entries, exits)
	card = &StockCard{
		Year:           req.Year,
		Article:        *article,
		Inventory:      inv,
		Trace:          stock.ReconstructTrace(baseline, events),
		Summary:        summary,
		Valuation:      stock.Valuate(article.ID, scope, snap.Inventories, snap.Receipts, snap.Issues),
		Status:         stock.Classify(summary.FinalBalance, article.MinThreshold, article.MaxThreshold),
		UnknownArticle: !known,
		Warnings:       snap.Failures(),
	}

	logger.Info(ctx, "stock card computed",
		"article_id", article.ID,
		"year", req.Year,
		"events", len(card.Trace)-1,
		"final_balance", summary.FinalBalance.String(),
	)
	return card, nil
}

// resolveArticle finds the requested article. An explicit ID missing from
// the catalogue still yields a bare article, since its documents may exist;
// known is then false.
func (s *Service) resolveArticle(ctx context.Context, idx *nomenclature.Index, req StockCardRequest) (article *nomenclature.Article, known bool, err error) {
	articleID := req.ArticleID
	if articleID.IsNil() {
		resolved, ok := idx.Resolve(req.Catalogue)
		if !ok {
			s.metrics.UnresolvedArticles(ctx, 1)
			logger.Warn(ctx, "catalogue code has no article", "catalogue", req.Catalogue)
			return nil, false, apperror.NewUnresolvedArticle(req.Catalogue)
		}
		articleID = resolved
	}

	if a, ok := idx.Get(articleID); ok {
		return a, true, nil
	}
	s.metrics.UnresolvedArticles(ctx, 1)
	logger.Warn(ctx, "article missing from the catalogue, computing from documents only", "article_id", articleID)
	return &nomenclature.Article{ID: articleID}, false, nil
}

// StockSituation computes every selected article's year figures from one
// shared snapshot, grouped by category and warehouse.
func (s *Service) StockSituation(ctx context.Context, req SituationRequest) (sit *Situation, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "reports.StockSituation", trace.WithAttributes(
		attribute.Int("fiscal.year", int(req.Year)),
		attribute.Int("catalogues", len(req.Catalogues)),
	))
	defer func() {
		s.finish(ctx, span, reportSituation, started, err)
	}()

	if err := req.Year.Validate(); err != nil {
		return nil, apperror.NewValidation(err.Error()).WithDetail("field", "year")
	}

	scope := fiscal.NewScope(req.Year, s.location)
	filter := nomenclature.ListFilter{WarehouseID: req.WarehouseID, CategoryID: req.CategoryID}
	snap, err := s.loader.Load(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	ledger := stock.BuildLedger(scope, snap.Inventories, snap.Receipts, snap.Issues)
	selected, unresolved := s.selectArticles(ctx, snap.Articles, req.Catalogues)

	sit = &Situation{
		Year:       req.Year,
		Inventory:  inventoryRef(scope, snap),
		Unresolved: unresolved,
		Warnings:   snap.Failures(),
	}

	// Articles moved during the year but absent from the catalogue. Only
	// meaningful when the catalogue was not narrowed by a filter.
	if filter.WarehouseID == nil && filter.CategoryID == nil {
		for _, articleID := range ledger.Articles() {
			if _, ok := snap.Articles.Get(articleID); !ok {
				sit.UnknownArticles = append(sit.UnknownArticles, articleID)
			}
		}
		if n := len(sit.UnknownArticles); n > 0 {
			s.metrics.UnresolvedArticles(ctx, n)
			logger.Warn(ctx, "documents reference articles missing from the catalogue",
				"count", n,
				"article_ids", sit.UnknownArticles,
			)
		}
	}

	sit.Groups = groupRows(selected, ledger)
	for _, g := range sit.Groups {
		sit.RowCount += len(g.Rows)
		sit.Totals = addSummary(sit.Totals, g.Totals)
		sit.Amounts = sit.Amounts.Add(g.Amounts)
	}

	logger.Info(ctx, "stock situation computed",
		"year", req.Year,
		"rows", sit.RowCount,
		"groups", len(sit.Groups),
		"unresolved", len(sit.Unresolved),
		"warnings", len(sit.Warnings),
	)
	return sit, nil
}

// selectArticles returns the report's articles: all indexed ones, or only
// those named by catalogue code. Unknown codes are returned separately.
func (s *Service) selectArticles(ctx context.Context, idx *nomenclature.Index, catalogues []string) ([]*nomenclature.Article, []string) {
	if len(catalogues) == 0 {
		return idx.Articles(), nil
	}

	var (
		selected   []*nomenclature.Article
		unresolved []string
		seen       = make(map[id.ID]struct{}, len(catalogues))
	)
	for _, code := range catalogues {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		articleID, ok := idx.Resolve(code)
		if !ok {
			unresolved = append(unresolved, code)
			logger.Warn(ctx, "catalogue code has no article, skipped", "catalogue", code)
			continue
		}
		if _, dup := seen[articleID]; dup {
			continue
		}
		seen[articleID] = struct{}{}
		article, _ := idx.Get(articleID)
		selected = append(selected, article)
	}
	s.metrics.UnresolvedArticles(ctx, len(unresolved))
	return selected, unresolved
}

type groupKey struct {
	category  id.ID
	warehouse id.ID
}

func groupRows(articles []*nomenclature.Article, ledger *stock.Ledger) []SituationGroup {
	byKey := make(map[groupKey]*SituationGroup)
	for _, a := range articles {
		key := groupKey{category: a.CategoryID, warehouse: a.WarehouseID}
		g, ok := byKey[key]
		if !ok {
			g = &SituationGroup{CategoryID: a.CategoryID, CategoryName: a.CategoryName, WarehouseID: a.WarehouseID}
			byKey[key] = g
		}
		summary := ledger.Summary(a.ID)
		valuation := ledger.Valuation(a.ID)
		g.Rows = append(g.Rows, SituationRow{
			ArticleID: a.ID,
			Label:     a.Label,
			Catalogue: a.Catalogue,
			Unit:      a.Unit,
			Status:    stock.Classify(summary.FinalBalance, a.MinThreshold, a.MaxThreshold),
			Summary:   summary,
			Valuation: valuation,
		})
		g.Totals = addSummary(g.Totals, summary)
		g.Amounts = g.Amounts.Add(valuation)
	}

	groups := make([]SituationGroup, 0, len(byKey))
	for _, g := range byKey {
		sort.SliceStable(g.Rows, func(i, j int) bool {
			if g.Rows[i].Label != g.Rows[j].Label {
				return g.Rows[i].Label < g.Rows[j].Label
			}
			return g.Rows[i].ArticleID.Less(g.Rows[j].ArticleID)
		})
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CategoryID != groups[j].CategoryID {
			return groups[i].CategoryID.Less(groups[j].CategoryID)
		}
		return groups[i].WarehouseID.Less(groups[j].WarehouseID)
	})
	return groups
}

func addSummary(a, b stock.Summary) stock.Summary {
	return stock.Summarize(a.Baseline+b.Baseline, a.TotalEntries+b.TotalEntries, a.TotalExits+b.TotalExits)
}

func inventoryRef(scope fiscal.Scope, snap *Snapshot) *InventoryRef {
	selected, ok := stock.SelectInventory(scope, snap.Inventories)
	if !ok {
		return nil
	}
	return &InventoryRef{
		ID:        selected.Header.ID,
		Reference: selected.Header.Reference(),
		Date:      selected.Header.Date,
	}
}

func (s *Service) finish(ctx context.Context, span trace.Span, report string, started time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if appErr, ok := apperror.AsAppError(err); ok && appErr.HTTPStatus < 500 {
			logger.Info(ctx, fmt.Sprintf("%s rejected", report), "error", err)
		} else {
			logger.Error(ctx, fmt.Sprintf("%s failed", report), "error", err)
		}
	}
	s.metrics.ReportDone(ctx, report, started, err)
	span.End()
}
