// Package document_repo provides read-only PostgreSQL repositories for
// inventories, goods receipts and goods issues.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockcard/internal/core/id"
	"stockcard/internal/domain"
	"stockcard/internal/infrastructure/storage/postgres"
)

// Quantities are stored as BIGINT scaled by 10 000 and scan straight into
// types.Quantity. IDs are cast to text for the opaque id.ID type.

// docTable describes one document kind: a header table and its lines.
type docTable struct {
	table      string
	headerCols []string
	joins      []string
	linesTable string
	lineCols   []string
}

// baseRepo holds the SQL shared by all document kinds.
type baseRepo struct {
	tm *postgres.TxManager
	t  docTable
}

// Builder returns a new squirrel builder.
func (r *baseRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// listQuery selects posted, not deleted headers inside period.
func (r *baseRepo) listQuery(period domain.Period) squirrel.SelectBuilder {
	q := r.Builder().
		Select(r.t.headerCols...).
		From(r.t.table + " d")
	for _, j := range r.t.joins {
		q = q.LeftJoin(j)
	}
	q = q.Where(squirrel.Eq{"d.deletion_mark": false, "d.posted": true})

	if !period.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"d.date": period.From})
	}
	if !period.To.IsZero() {
		q = q.Where(squirrel.Lt{"d.date": period.To})
	}
	return q.OrderBy("d.date", "d.id")
}

// linesQuery selects the lines of one document in line order.
func (r *baseRepo) linesQuery(docID id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select(r.t.lineCols...).
		From(r.t.linesTable).
		Where(squirrel.Eq{"document_id": docID.String()}).
		OrderBy("line_no")
}

func list[H any](ctx context.Context, r *baseRepo, period domain.Period) ([]*H, error) {
	sql, args, err := r.listQuery(period).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var out []*H
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.table, err)
	}
	return out, nil
}

func lines[L any](ctx context.Context, r *baseRepo, docID id.ID) ([]L, error) {
	sql, args, err := r.linesQuery(docID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var out []L
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("get %s for %s: %w", r.t.linesTable, docID, err)
	}
	return out, nil
}

var headerCols = []string{
	"d.id::text AS id",
	"d.number",
	"d.date",
	"COALESCE(d.warehouse_id::text, '') AS warehouse_id",
}

func withCols(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
