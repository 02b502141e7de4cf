package refstore

import (
	"context"
	"net/url"

	"stockcard/internal/core/id"
	"stockcard/internal/domain"
	"stockcard/internal/domain/catalogs/nomenclature"
	"stockcard/internal/domain/documents/goods_issue"
	"stockcard/internal/domain/documents/goods_receipt"
	"stockcard/internal/domain/documents/inventory"
)

// Endpoint paths, relative to the base URL.
const (
	pathInventories    = "stkinventaire/findall"
	pathInventoryLines = "inventaireDetails/findbyinventaire"
	pathEntries        = "stkEntrees/findall"
	pathEntryLines     = "stkEntreeDetails/findbyentree"
	pathExits          = "stkSorties/findall"
	pathExitLines      = "stkSortieDetails/findbysortie"
	pathArticles       = "stkarticle/findall"
)

// The store only offers findall endpoints, so List ignores the period and
// callers filter by fiscal year. Headers without a date are dropped: they
// belong to no fiscal year.

// --- Inventories ---

type InventoryRepo struct{ c *Client }

func NewInventoryRepo(c *Client) *InventoryRepo { return &InventoryRepo{c: c} }

func (r *InventoryRepo) List(ctx context.Context, _ domain.Period) ([]*inventory.Inventory, error) {
	var rows []inventoryDTO
	if err := r.c.getJSON(ctx, pathInventories, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]*inventory.Inventory, 0, len(rows))
	for _, row := range rows {
		if row.DateInventaire.IsZero() || row.InventaireID.IsNil() {
			continue
		}
		out = append(out, &inventory.Inventory{
			Document: header(row.InventaireID, row.NumInventaire, row.DateInventaire, row.MagasinID, r.c.location),
		})
	}
	return out, nil
}

func (r *InventoryRepo) GetLines(ctx context.Context, docID id.ID) ([]inventory.Line, error) {
	var rows []inventoryLineDTO
	q := url.Values{"inventaireId": {docID.String()}}
	if err := r.c.getJSON(ctx, pathInventoryLines, q, &rows); err != nil {
		return nil, err
	}
	out := make([]inventory.Line, 0, len(rows))
	for _, row := range rows {
		out = append(out, inventory.Line{
			ArticleID:        lineArticle(row.ArticleID, row.Article),
			PhysicalQuantity: row.QuantitePhysique,
			UnitPrice:        row.PrixUnitaire,
		})
	}
	return out, nil
}

// --- Entries ---

type ReceiptRepo struct{ c *Client }

func NewReceiptRepo(c *Client) *ReceiptRepo { return &ReceiptRepo{c: c} }

func (r *ReceiptRepo) List(ctx context.Context, _ domain.Period) ([]*goods_receipt.GoodsReceipt, error) {
	var rows []entryDTO
	if err := r.c.getJSON(ctx, pathEntries, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]*goods_receipt.GoodsReceipt, 0, len(rows))
	for _, row := range rows {
		if row.DateEntree.IsZero() || row.EntreeID.IsNil() {
			continue
		}
		out = append(out, &goods_receipt.GoodsReceipt{
			Document:     header(row.EntreeID, row.NumEntree, row.DateEntree, row.MagasinID, r.c.location),
			SupplierName: row.Fournisseur.name(),
		})
	}
	return out, nil
}

func (r *ReceiptRepo) GetLines(ctx context.Context, docID id.ID) ([]goods_receipt.Line, error) {
	var rows []entryLineDTO
	q := url.Values{"entreeId": {docID.String()}}
	if err := r.c.getJSON(ctx, pathEntryLines, q, &rows); err != nil {
		return nil, err
	}
	out := make([]goods_receipt.Line, 0, len(rows))
	for _, row := range rows {
		out = append(out, goods_receipt.Line{
			ArticleID: lineArticle(row.ArticleID, row.Article),
			Quantity:  row.QteE,
			UnitPrice: row.PrixUnitaire,
		})
	}
	return out, nil
}

// --- Exits ---

type IssueRepo struct{ c *Client }

func NewIssueRepo(c *Client) *IssueRepo { return &IssueRepo{c: c} }

func (r *IssueRepo) List(ctx context.Context, _ domain.Period) ([]*goods_issue.GoodsIssue, error) {
	var rows []exitDTO
	if err := r.c.getJSON(ctx, pathExits, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]*goods_issue.GoodsIssue, 0, len(rows))
	for _, row := range rows {
		if row.DateSortie.IsZero() || row.SortieID.IsNil() {
			continue
		}
		out = append(out, &goods_issue.GoodsIssue{
			Document:  header(row.SortieID, row.NumSortie, row.DateSortie, row.MagasinID, r.c.location),
			Recipient: row.Beneficiaire,
		})
	}
	return out, nil
}

func (r *IssueRepo) GetLines(ctx context.Context, docID id.ID) ([]goods_issue.Line, error) {
	var rows []exitLineDTO
	q := url.Values{"sortieId": {docID.String()}}
	if err := r.c.getJSON(ctx, pathExitLines, q, &rows); err != nil {
		return nil, err
	}
	out := make([]goods_issue.Line, 0, len(rows))
	for _, row := range rows {
		out = append(out, goods_issue.Line{
			ArticleID: lineArticle(row.ArticleID, row.Article),
			Quantity:  row.QteS,
			UnitPrice: row.unitPrice(),
		})
	}
	return out, nil
}

// --- Articles ---

type ArticleRepo struct{ c *Client }

func NewArticleRepo(c *Client) *ArticleRepo { return &ArticleRepo{c: c} }

func (r *ArticleRepo) List(ctx context.Context, filter nomenclature.ListFilter) ([]*nomenclature.Article, error) {
	var rows []articleDTO
	if err := r.c.getJSON(ctx, pathArticles, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]*nomenclature.Article, 0, len(rows))
	for _, row := range rows {
		a := &nomenclature.Article{
			ID:           row.ArticleID,
			Label:        row.Libelle,
			Catalogue:    row.Catalogue,
			CategoryID:   row.Categorie.id(),
			CategoryName: row.Categorie.name(),
			WarehouseID:  row.MagasinID,
			Unit:         row.Unite,
			MinThreshold: row.Seuil,
			MaxThreshold: row.SeuilMax,
		}
		if !a.ID.IsNil() && filter.Matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Sources bundles the four repositories.
type Sources struct {
	Inventories *InventoryRepo
	Receipts    *ReceiptRepo
	Issues      *IssueRepo
	Articles    *ArticleRepo
}

// NewSources builds every repository on one client.
func NewSources(c *Client) Sources {
	return Sources{
		Inventories: NewInventoryRepo(c),
		Receipts:    NewReceiptRepo(c),
		Issues:      NewIssueRepo(c),
		Articles:    NewArticleRepo(c),
	}
}
