package segment

import (
	"github.com/roach88/orderlens/internal/model"
	"github.com/roach88/orderlens/internal/stats"
)

// BasketMetric is one named row of the basket-shape table.
type BasketMetric struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// BasketShape describes the distribution of lines and units per order.
// An empty order set yields zeros.
func BasketShape(orders []model.Order) []BasketMetric {
	lines := make([]float64, len(orders))
	units := make([]float64, len(orders))
	single, multi := 0, 0
	for i, o := range orders {
		lines[i] = float64(o.Lines)
		units[i] = o.Units.InexactFloat64()
		switch {
		case o.Lines == 1:
			single++
		case o.Lines >= 2:
			multi++
		}
	}

	share := func(n int) float64 {
		if len(orders) == 0 {
			return 0
		}
		return float64(n) / float64(len(orders))
	}

	return []BasketMetric{
		{"lines_mean", stats.Mean(lines)},
		{"lines_median", stats.Median(lines)},
		{"lines_p25", stats.Percentile(lines, 0.25)},
		{"lines_p75", stats.Percentile(lines, 0.75)},
		{"units_mean", stats.Mean(units)},
		{"units_median", stats.Median(units)},
		{"units_p25", stats.Percentile(units, 0.25)},
		{"units_p75", stats.Percentile(units, 0.75)},
		{"orders_single_line", share(single)},
		{"orders_multi_line", share(multi)},
	}
}
