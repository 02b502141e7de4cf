package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockcard/internal/domain"
)

func TestListQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	tests := []struct {
		name     string
		repo     *baseRepo
		period   domain.Period
		wantSQL  string
		wantArgs []any
	}{
		{
			name:   "inventory open period",
			repo:   &NewInventoryRepo(nil).baseRepo,
			period: domain.Period{},
			wantSQL: "SELECT d.id::text AS id, d.number, d.date, COALESCE(d.warehouse_id::text, '') AS warehouse_id " +
				"FROM doc_inventories d WHERE d.deletion_mark = $1 AND d.posted = $2 ORDER BY d.date, d.id",
			wantArgs: []any{false, true},
		},
		{
			name:   "receipts in year",
			repo:   &NewGoodsReceiptRepo(nil).baseRepo,
			period: domain.Period{From: from, To: to},
			wantSQL: "SELECT d.id::text AS id, d.number, d.date, COALESCE(d.warehouse_id::text, '') AS warehouse_id, " +
				"COALESCE(s.name, '') AS supplier_name FROM doc_goods_receipts d " +
				"LEFT JOIN cat_counterparties s ON s.id = d.supplier_id " +
				"WHERE d.deletion_mark = $1 AND d.posted = $2 AND d.date >= $3 AND d.date < $4 ORDER BY d.date, d.id",
			wantArgs: []any{false, true, from, to},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.repo.listQuery(tt.period).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestLinesQuery(t *testing.T) {
	sql, args, err := NewGoodsIssueRepo(nil).linesQuery("42").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT product_id::text AS article_id, quantity, unit_price FROM doc_goods_issue_lines WHERE document_id = $1 ORDER BY line_no", sql)
	assert.Equal(t, []any{"42"}, args)

	sql, _, err = NewInventoryRepo(nil).linesQuery("1").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "actual_quantity AS physical_quantity, unit_price FROM doc_inventory_lines")
}
