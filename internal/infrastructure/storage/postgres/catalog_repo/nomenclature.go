// Package catalog_repo provides the read-only PostgreSQL article catalogue.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockcard/internal/domain/catalogs/nomenclature"
	"stockcard/internal/infrastructure/storage/postgres"
)

const nomenclatureTable = "cat_nomenclature"

// Articles are nomenclature items (not folders). The parent folder is the
// category; the SKU column is the catalogue code; stock thresholds and the
// home warehouse live in the JSONB attributes.
var nomenclatureCols = []string{
	"n.id::text AS id",
	"n.name AS label",
	"COALESCE(n.article, '') AS catalogue",
	"COALESCE(n.parent_id::text, '') AS category_id",
	"COALESCE(p.name, '') AS category_name",
	"COALESCE(n.attributes->>'warehouse_id', '') AS warehouse_id",
	"COALESCE(u.name, '') AS unit",
	"COALESCE(ROUND((n.attributes->>'min_stock')::numeric * 10000), 0)::bigint AS min_threshold",
	"COALESCE(ROUND((n.attributes->>'max_stock')::numeric * 10000), 0)::bigint AS max_threshold",
}

// NomenclatureRepo implements nomenclature.Repository.
type NomenclatureRepo struct {
	tm *postgres.TxManager
}

// NewNomenclatureRepo creates a new nomenclature repository.
func NewNomenclatureRepo(tm *postgres.TxManager) *NomenclatureRepo {
	return &NomenclatureRepo{tm: tm}
}

// Builder returns a new squirrel builder.
func (r *NomenclatureRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *NomenclatureRepo) listQuery(filter nomenclature.ListFilter) squirrel.SelectBuilder {
	q := r.Builder().
		Select(nomenclatureCols...).
		From(nomenclatureTable + " n").
		LeftJoin(nomenclatureTable + " p ON p.id = n.parent_id").
		LeftJoin("cat_units u ON u.id = n.base_unit_id").
		Where(squirrel.Eq{"n.deletion_mark": false, "n.is_folder": false})

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"n.attributes->>'warehouse_id'": filter.WarehouseID.String()})
	}
	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"n.parent_id::text": filter.CategoryID.String()})
	}
	return q.OrderBy("n.id")
}

// List returns the articles matching filter.
func (r *NomenclatureRepo) List(ctx context.Context, filter nomenclature.ListFilter) ([]*nomenclature.Article, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*nomenclature.Article
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", nomenclatureTable, err)
	}
	return items, nil
}
