package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/orderlens/internal/rfm"
	"github.com/roach88/orderlens/internal/segment"
)

var cop = message.NewPrinter(language.Spanish)

// COP formats an amount as whole Colombian pesos with "." grouping,
// e.g. "COP 1.234.567".
func COP(v decimal.Decimal) string {
	return cop.Sprintf("COP %d", v.Round(0).IntPart())
}

// Percent formats a share in [0,1] with one decimal.
func Percent(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

// paretoTarget is the cumulative revenue share the overview reports.
const paretoTarget = 0.8

// WriteOverview prints a short executive overview of the analysis.
func WriteOverview(w io.Writer, a *Analysis) error {
	k := a.KPIs
	lines := []string{
		fmt.Sprintf("Orders:              %d", k.TotalOrders),
		fmt.Sprintf("Customers:           %d", k.TotalCustomers),
		fmt.Sprintf("Revenue:             %s", COP(k.TotalRevenue)),
		fmt.Sprintf("Average order value: %s", COP(decimal.NewFromFloat(k.AverageOrderValue))),
		fmt.Sprintf("Orders w/ discount:  %s", Percent(k.ShareOrdersDiscount)),
		fmt.Sprintf("Last 30 days:        %s", COP(k.RevenueLast30Days)),
	}
	if len(a.TopProducts) > 0 {
		p := a.TopProducts[0]
		lines = append(lines, fmt.Sprintf("Top product:         %s (%s)", p.Title, Percent(p.RevenueShare)))
	}
	if len(a.Pareto) > 0 {
		n := segment.ParetoCut(a.Pareto, paretoTarget)
		lines = append(lines, fmt.Sprintf("Pareto 80%%:          %d of %d products", n, len(a.Pareto)))
	}
	if len(a.TopCategories) > 0 {
		c := a.TopCategories[0]
		lines = append(lines, fmt.Sprintf("Top category:        %s / %s (%s)", c.Category, c.Subcategory, Percent(c.RevenueShare)))
	}
	for _, s := range rfm.Distribution(a.RFM) {
		lines = append(lines, fmt.Sprintf("Segment %-12s %s", s.Segment+":", Percent(s.Share)))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
