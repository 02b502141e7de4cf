// Package goods_receipt provides the read-only GoodsReceipt document (stock entry).
package goods_receipt

import (
	"context"

	"stockcard/internal/core/entity"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
	"stockcard/internal/domain"
)

// GoodsReceipt is a stock entry.
type GoodsReceipt struct {
	entity.Document

	// SupplierName is informational, shown on stock cards when present
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`
}

// Line is one received article.
type Line struct {
	ArticleID id.ID          `db:"article_id" json:"articleId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice *types.Money   `db:"unit_price" json:"unitPrice,omitempty"`
}

func (l Line) LineArticleID() id.ID         { return l.ArticleID }
func (l Line) LineQuantity() types.Quantity { return l.Quantity }
func (l Line) LineUnitPrice() *types.Money  { return l.UnitPrice }

// Repository reads goods receipts from the reference store.
type Repository interface {
	List(ctx context.Context, period domain.Period) ([]*GoodsReceipt, error)
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
}
