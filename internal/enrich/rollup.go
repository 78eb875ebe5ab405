package enrich

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/model"
)

// OrderRollup summarises the line items of one order.
type OrderRollup struct {
	Lines   int
	Units   decimal.Decimal
	Revenue decimal.Decimal
}

// Rollup groups items by parent order id. Each parent id appears once.
func Rollup(items []model.LineItem) map[string]OrderRollup {
	out := make(map[string]OrderRollup)
	for _, it := range items {
		r, ok := out[it.OrderID]
		if !ok {
			r = OrderRollup{Units: decimal.Zero, Revenue: decimal.Zero}
		}
		r.Lines++
		r.Units = r.Units.Add(it.Quantity)
		r.Revenue = r.Revenue.Add(it.Revenue)
		out[it.OrderID] = r
	}
	return out
}
