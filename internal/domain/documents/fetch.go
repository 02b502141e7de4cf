// Package documents holds what inventories, receipts and issues share:
// the per-header line fetch and its fail-open result.
package documents

import (
	"context"

	"golang.org/x/sync/errgroup"

	"stockcard/internal/core/entity"
	"stockcard/internal/core/id"
	"stockcard/internal/core/types"
)

// Line is implemented by every document line type.
type Line interface {
	LineArticleID() id.ID
	LineQuantity() types.Quantity

	// LineUnitPrice is nil when the line carries no price.
	LineUnitPrice() *types.Money
}

// LineFetcher loads the lines of one document.
type LineFetcher[L Line] interface {
	GetLines(ctx context.Context, docID id.ID) ([]L, error)
}

// Fetched is the outcome of loading one header's lines. When Err is set the
// header still takes part in header-level decisions (such as picking the
// latest inventory) but contributes no lines.
type Fetched[L Line] struct {
	Header entity.Document
	Lines  []L
	Err    error
}

// OK reports whether the lines were loaded.
func (f Fetched[L]) OK() bool { return f.Err == nil }

// LinesOrEmpty returns the loaded lines, or nil when the fetch failed.
func (f Fetched[L]) LinesOrEmpty() []L {
	if f.Err != nil {
		return nil
	}
	return f.Lines
}

// Fold visits every line of every successfully fetched header in order.
func Fold[L Line, A any](items []Fetched[L], acc A, fn func(acc A, header entity.Document, line L) A) A {
	for _, item := range items {
		for _, line := range item.LinesOrEmpty() {
			acc = fn(acc, item.Header, line)
		}
	}
	return acc
}

// FetchFailure describes a header whose lines could not be loaded.
type FetchFailure struct {
	Document   string `json:"document"`
	DocumentID id.ID  `json:"documentId"`
	Reason     string `json:"reason"`
}

// Failures lists the headers whose fetch failed.
func Failures[L Line](document string, items []Fetched[L]) []FetchFailure {
	var out []FetchFailure
	for _, item := range items {
		if item.Err != nil {
			out = append(out, FetchFailure{
				Document:   document,
				DocumentID: item.Header.ID,
				Reason:     item.Err.Error(),
			})
		}
	}
	return out
}

// FetchAll loads the lines of every header with at most limit requests in
// flight. Per-header failures are captured in the result, never returned;
// the only error is ctx cancellation. Results keep the order of headers.
func FetchAll[L Line](ctx context.Context, headers []entity.Document, fetcher LineFetcher[L], limit int) ([]Fetched[L], error) {
	out := make([]Fetched[L], len(headers))
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, h := range headers {
		out[i].Header = h
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			lines, err := fetcher.GetLines(gctx, h.ID)
			out[i].Lines, out[i].Err = lines, err
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
