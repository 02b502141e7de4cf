// Package goods_issue provides the read-only GoodsIssue document (stock exit).
package goods_issue

import (
	"context"

	"stockcard/internal/core/entity"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
	"stockcard/internal/domain"
)

// GoodsIssue is a stock exit.
type GoodsIssue struct {
	entity.Document

	// Recipient is the service or person the goods were issued to
	Recipient string `db:"recipient" json:"recipient,omitempty"`
}

// Line is one issued article. UnitPrice is the weighted average cost the
// goods left the store at.
type Line struct {
	ArticleID id.ID          `db:"article_id" json:"articleId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice *types.Money   `db:"unit_price" json:"unitPrice,omitempty"`
}

func (l Line) LineArticleID() id.ID         { return l.ArticleID }
func (l Line) LineQuantity() types.Quantity { return l.Quantity }
func (l Line) LineUnitPrice() *types.Money  { return l.UnitPrice }

// Repository reads goods issues from the reference store.
type Repository interface {
	List(ctx context.Context, period domain.Period) ([]*GoodsIssue, error)
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
}
