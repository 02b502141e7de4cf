package dto

import (
	"time"

	"stockcard/internal/core/entity"
	"stockcard/internal/core/fiscal"
	"stockcard/internal/core/types"
	"stockcard/internal/domain/documents"
	"stockcard/internal/domain/registers/stock"
	"stockcard/internal/domain/reports"
)

// --- Stock card ---

// StockCardRequest is bound from the stock-card query string.
type StockCardRequest struct {
	ArticleID string `form:"articleId"`
	Catalogue string `form:"catalogue"`
	Year      *int   `form:"year"`
}

// ToDomain converts the request; defaultYear is used when year is absent.
func (r StockCardRequest) ToDomain(defaultYear fiscal.Year) reports.StockCardRequest {
	req := reports.StockCardRequest{Catalogue: r.Catalogue, Year: defaultYear}
	if r.Year != nil {
		req.Year = fiscal.Year(*r.Year)
	}
	if articleID := optionalID(r.ArticleID); articleID != nil {
		req.ArticleID = *articleID
	}
	return req
}

// StockCardRow is one line of the chronological trace.
type StockCardRow struct {
	Date        string         `json:"date"`
	Kind        string         `json:"kind"`
	Reference   string         `json:"reference,omitempty"`
	ReferenceID string         `json:"referenceId,omitempty"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   *types.Money   `json:"unitPrice,omitempty"`
	Amount      *types.Money   `json:"amount,omitempty"`
	Balance     types.Quantity `json:"balance"`
}

// StockCardResponse represents the stock card of one article.
type StockCardResponse struct {
	Year      int                   `json:"year"`
	Article   ArticleResponse       `json:"article"`
	Inventory *reports.InventoryRef `json:"inventory,omitempty"`
	Rows      []StockCardRow        `json:"rows"`
	Summary   stock.Summary         `json:"summary"`
	Valuation stock.Valuation       `json:"valuation"`
	Status    stock.Status          `json:"status"`

	UnknownArticle bool                     `json:"unknownArticle,omitempty"`
	Warnings       []documents.FetchFailure `json:"warnings,omitempty"`
}

// ArticleResponse is the article header shown above a stock card.
type ArticleResponse struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	Catalogue    string         `json:"catalogue,omitempty"`
	CategoryName string         `json:"categoryName,omitempty"`
	Unit         string         `json:"unit,omitempty"`
	MinThreshold types.Quantity `json:"minThreshold"`
	MaxThreshold types.Quantity `json:"maxThreshold"`
}

// FromStockCard converts domain report to response DTO. Dates are printed
// as calendar days in loc, the zone fiscal years are cut in.
func FromStockCard(card *reports.StockCard, loc *time.Location) *StockCardResponse {
	if loc == nil {
		loc = time.UTC
	}
	resp := &StockCardResponse{
		Year: int(card.Year),
		Article: ArticleResponse{
			ID:           card.Article.ID.String(),
			Label:        card.Article.Label,
			Catalogue:    card.Article.Catalogue,
			CategoryName: card.Article.CategoryName,
			Unit:         card.Article.Unit,
			MinThreshold: card.Article.MinThreshold,
			MaxThreshold: card.Article.MaxThreshold,
		},
		Inventory: card.Inventory,
		Rows:      make([]StockCardRow, len(card.Trace)),
		Summary:   card.Summary,
		Valuation: card.Valuation,
		Status:    card.Status,

		UnknownArticle: card.UnknownArticle,
		Warnings:       card.Warnings,
	}

	for i, p := range card.Trace {
		row := StockCardRow{
			Kind:        string(p.Event.Kind),
			Reference:   p.Event.Reference,
			ReferenceID: p.Event.ReferenceID.String(),
			Quantity:    p.Event.Quantity,
			UnitPrice:   p.Event.UnitPrice,
			Balance:     p.RunningBalance,
		}
		if !p.Event.Date.IsZero() {
			row.Date = p.Event.Date.In(loc).Format(dateLayout)
		}
		if p.Event.Kind == entity.MovementOpening {
			row.Quantity = p.RunningBalance
		} else if p.Event.UnitPrice != nil {
			amount := p.Event.Quantity.Value(p.Event.UnitPrice)
			row.Amount = &amount
		}
		resp.Rows[i] = row
	}
	return resp
}

const dateLayout = "2006-01-02"

// --- Stock situation ---

// StockSituationRequest is bound from the stock-situation query string.
type StockSituationRequest struct {
	Year        *int     `form:"year"`
	WarehouseID string   `form:"warehouseId"`
	CategoryID  string   `form:"categoryId"`
	Catalogues  []string `form:"catalogue"`
}

// ToDomain converts the request; defaultYear is used when year is absent.
func (r StockSituationRequest) ToDomain(defaultYear fiscal.Year) reports.SituationRequest {
	req := reports.SituationRequest{
		Year:        defaultYear,
		WarehouseID: optionalID(r.WarehouseID),
		CategoryID:  optionalID(r.CategoryID),
		Catalogues:  splitList(r.Catalogues),
	}
	if r.Year != nil {
		req.Year = fiscal.Year(*r.Year)
	}
	return req
}

// FromSituation prepares the domain report for serving. Groups is never
// null in the response.
func FromSituation(s *reports.Situation) *reports.Situation {
	if s.Groups == nil {
		s.Groups = []reports.SituationGroup{}
	}
	return s
}
