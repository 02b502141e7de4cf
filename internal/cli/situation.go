package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"stockcard/internal/core/id"
	"stockcard/internal/domain/reports"
)

type situationCmd struct {
	env        *Env
	year       int
	warehouse  string
	category   string
	catalogues string
}

func (*situationCmd) Name() string     { return "situation" }
func (*situationCmd) Synopsis() string { return "print the stock situation of all articles" }
func (*situationCmd) Usage() string {
	return `stockctl situation [-year <yyyy>] [-warehouse <id>] [-category <id>] [-catalogue <c1,c2,...>]

  Computes baseline, entries, exits and final balance for every article,
  grouped by category and warehouse.
`
}

func (c *situationCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "fiscal year (defaults to the current year)")
	f.StringVar(&c.warehouse, "warehouse", "", "only articles of this warehouse")
	f.StringVar(&c.category, "category", "", "only articles of this category")
	f.StringVar(&c.catalogues, "catalogue", "", "comma separated catalogue codes")
}

func (c *situationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(ctx context.Context, svc Reports) (any, error) {
		req := reports.SituationRequest{Year: c.env.year(c.year, svc.Location())}
		if v, ok := id.Parse(c.warehouse); ok {
			req.WarehouseID = &v
		}
		if v, ok := id.Parse(c.category); ok {
			req.CategoryID = &v
		}
		for _, code := range strings.Split(c.catalogues, ",") {
			if code = strings.TrimSpace(code); code != "" {
				req.Catalogues = append(req.Catalogues, code)
			}
		}
		return svc.StockSituation(ctx, req)
	})
}
