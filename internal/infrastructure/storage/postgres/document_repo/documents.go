package document_repo

import (
	"context"

	"stockcard/internal/core/id"
	"stockcard/internal/domain"
	"stockcard/internal/domain/documents/goods_issue"
	"stockcard/internal/domain/documents/goods_receipt"
	"stockcard/internal/domain/documents/inventory"
	"stockcard/internal/infrastructure/storage/postgres"
)

// --- Inventory ---

var inventoryTable = docTable{
	table:      "doc_inventories",
	headerCols: headerCols,
	linesTable: "doc_inventory_lines",
	lineCols: []string{
		"product_id::text AS article_id",
		"actual_quantity AS physical_quantity",
		"unit_price",
	},
}

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct{ baseRepo }

func NewInventoryRepo(tm *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{baseRepo{tm: tm, t: inventoryTable}}
}

func (r *InventoryRepo) List(ctx context.Context, period domain.Period) ([]*inventory.Inventory, error) {
	return list[inventory.Inventory](ctx, &r.baseRepo, period)
}

func (r *InventoryRepo) GetLines(ctx context.Context, docID id.ID) ([]inventory.Line, error) {
	return lines[inventory.Line](ctx, &r.baseRepo, docID)
}

// --- Goods receipt ---

var goodsReceiptTable = docTable{
	table:      "doc_goods_receipts",
	headerCols: withCols(headerCols, "COALESCE(s.name, '') AS supplier_name"),
	joins:      []string{"cat_counterparties s ON s.id = d.supplier_id"},
	linesTable: "doc_goods_receipt_lines",
	lineCols: []string{
		"product_id::text AS article_id",
		"quantity",
		"unit_price",
	},
}

// GoodsReceiptRepo implements goods_receipt.Repository.
type GoodsReceiptRepo struct{ baseRepo }

func NewGoodsReceiptRepo(tm *postgres.TxManager) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{baseRepo{tm: tm, t: goodsReceiptTable}}
}

func (r *GoodsReceiptRepo) List(ctx context.Context, period domain.Period) ([]*goods_receipt.GoodsReceipt, error) {
	return list[goods_receipt.GoodsReceipt](ctx, &r.baseRepo, period)
}

func (r *GoodsReceiptRepo) GetLines(ctx context.Context, docID id.ID) ([]goods_receipt.Line, error) {
	return lines[goods_receipt.Line](ctx, &r.baseRepo, docID)
}

// --- Goods issue ---

var goodsIssueTable = docTable{
	table:      "doc_goods_issues",
	headerCols: withCols(headerCols, "COALESCE(c.name, '') AS recipient"),
	joins:      []string{"cat_counterparties c ON c.id = d.customer_id"},
	linesTable: "doc_goods_issue_lines",
	lineCols: []string{
		"product_id::text AS article_id",
		"quantity",
		"unit_price",
	},
}

// GoodsIssueRepo implements goods_issue.Repository.
type GoodsIssueRepo struct{ baseRepo }

func NewGoodsIssueRepo(tm *postgres.TxManager) *GoodsIssueRepo {
	return &GoodsIssueRepo{baseRepo{tm: tm, t: goodsIssueTable}}
}

func (r *GoodsIssueRepo) List(ctx context.Context, period domain.Period) ([]*goods_issue.GoodsIssue, error) {
	return list[goods_issue.GoodsIssue](ctx, &r.baseRepo, period)
}

func (r *GoodsIssueRepo) GetLines(ctx context.Context, docID id.ID) ([]goods_issue.Line, error) {
	return lines[goods_issue.Line](ctx, &r.baseRepo, docID)
}
