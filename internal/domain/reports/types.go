package reports

import (
	"time"

	"stockcard/internal/core/fiscal"
	"stockcard/internal/core/id"
	"stockcard/internal/domain/catalogs/nomenclature"
	"stockcard/internal/domain/documents"
	"stockcard/internal/domain/registers/stock"
)

// --- Stock card (one article) ---

// StockCardRequest selects the article by ID or by catalogue code.
type StockCardRequest struct {
	ArticleID id.ID
	Catalogue string
	Year      fiscal.Year
}

// InventoryRef identifies the inventory that supplied the opening balance.
type InventoryRef struct {
	ID        id.ID     `json:"id"`
	Reference string    `json:"reference"`
	Date      time.Time `json:"date"`
}

// StockCard is the chronological trace of one article over a fiscal year.
type StockCard struct {
	Year      fiscal.Year          `json:"year"`
	Article   nomenclature.Article `json:"article"`
	Inventory *InventoryRef        `json:"inventory,omitempty"`
	Trace     []stock.BalancePoint `json:"trace"`
	Summary   stock.Summary        `json:"summary"`
	Valuation stock.Valuation      `json:"valuation"`
	Status    stock.Status         `json:"status"`

	// UnknownArticle is set when the requested article ID is missing from
	// the catalogue. Article then carries the ID only.
	UnknownArticle bool `json:"unknownArticle,omitempty"`

	// Warnings lists documents whose lines could not be loaded; their
	// quantities are missing from Trace and Summary.
	Warnings []documents.FetchFailure `json:"warnings,omitempty"`
}

// --- Stock situation (all articles) ---

// SituationRequest scopes the batch report. Catalogues, when set, restricts
// the rows to those codes; codes without an article are reported, not fatal.
type SituationRequest struct {
	Year        fiscal.Year
	WarehouseID *id.ID
	CategoryID  *id.ID
	Catalogues  []string
}

// SituationRow is one article of the stock situation.
type SituationRow struct {
	ArticleID id.ID        `json:"articleId"`
	Label     string       `json:"label"`
	Catalogue string       `json:"catalogue,omitempty"`
	Unit      string       `json:"unit,omitempty"`
	Status    stock.Status `json:"status"`
	stock.Summary
	stock.Valuation
}

// SituationGroup gathers the rows of one category in one warehouse.
type SituationGroup struct {
	CategoryID   id.ID           `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	WarehouseID  id.ID           `json:"warehouseId"`
	Rows         []SituationRow  `json:"rows"`
	Totals       stock.Summary   `json:"totals"`
	Amounts      stock.Valuation `json:"amounts"`
}

// Situation is the batch stock report of a fiscal year.
type Situation struct {
	Year      fiscal.Year      `json:"year"`
	Inventory *InventoryRef    `json:"inventory,omitempty"`
	Groups    []SituationGroup `json:"groups"`
	Totals    stock.Summary    `json:"totals"`
	Amounts   stock.Valuation  `json:"amounts"`
	RowCount  int              `json:"rowCount"`

	// Unresolved lists requested catalogue codes with no article.
	Unresolved []string `json:"unresolved,omitempty"`

	// UnknownArticles lists article IDs found on documents but missing from
	// the catalogue; they have no row.
	UnknownArticles []id.ID `json:"unknownArticles,omitempty"`

	Warnings []documents.FetchFailure `json:"warnings,omitempty"`
}
