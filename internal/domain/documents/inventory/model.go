// Package inventory provides the read-only Inventory document (stock count).
package inventory

import (
	"context"

	"stockcard/internal/core/entity"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
	"stockcard/internal/domain"
)

// Inventory is a physical stock count. The latest count of a fiscal year
// provides the opening balance of every article it lists.
type Inventory struct {
	entity.Document
}

// Line is one counted article.
type Line struct {
	ArticleID        id.ID          `db:"article_id" json:"articleId"`
	PhysicalQuantity types.Quantity `db:"physical_quantity" json:"physicalQuantity"`
	UnitPrice        *types.Money   `db:"unit_price" json:"unitPrice,omitempty"`
}

func (l Line) LineArticleID() id.ID         { return l.ArticleID }
func (l Line) LineQuantity() types.Quantity { return l.PhysicalQuantity }
func (l Line) LineUnitPrice() *types.Money  { return l.UnitPrice }

// Repository reads inventories from the reference store.
type Repository interface {
	List(ctx context.Context, period domain.Period) ([]*Inventory, error)
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
}
