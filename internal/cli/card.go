package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"stockcard/internal/core/id"
	"stockcard/internal/domain/reports"
)

type cardCmd struct {
	env       *Env
	article   string
	catalogue string
	year      int
}

func (*cardCmd) Name() string     { return "card" }
func (*cardCmd) Synopsis() string { return "print the stock card of one article" }
func (*cardCmd) Usage() string {
	return `stockctl card (-article <id> | -catalogue <code>) [-year <yyyy>]

  Reconstructs the running balance of one article over a fiscal year,
  starting from the year's latest inventory.
`
}

func (c *cardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.article, "article", "", "article ID")
	f.StringVar(&c.catalogue, "catalogue", "", "article catalogue code")
	f.IntVar(&c.year, "year", 0, "fiscal year (defaults to the current year)")
}

func (c *cardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.article == "" && c.catalogue == "" {
		fmt.Fprintln(c.env.Stderr, "Error: -article or -catalogue is required")
		return subcommands.ExitUsageError
	}

	return c.env.run(ctx, func(ctx context.Context, svc Reports) (any, error) {
		req := reports.StockCardRequest{
			Catalogue: c.catalogue,
			Year:      c.env.year(c.year, svc.Location()),
		}
		if articleID, ok := id.Parse(c.article); ok {
			req.ArticleID = articleID
		}
		return svc.StockCard(ctx, req)
	})
}
