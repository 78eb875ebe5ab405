package segment

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/model"
)

// CategoryRow is one (category, subcategory) in the revenue ranking.
type CategoryRow struct {
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory"`
	Units        decimal.Decimal `json:"units"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueShare float64         `json:"revenue_share"`
}

type categoryKey struct {
	category, subcategory string
}

// TopCategories aggregates every item by taxonomy pair, ordered by revenue
// descending, ties by category then subcategory. No truncation.
func TopCategories(items []model.LineItem) []CategoryRow {
	index := make(map[categoryKey]int)
	var rows []CategoryRow
	total := decimal.Zero

	for _, it := range items {
		k := categoryKey{it.Category, it.Subcategory}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, CategoryRow{
				Category:    it.Category,
				Subcategory: it.Subcategory,
				Units:       decimal.Zero,
				Revenue:     decimal.Zero,
			})
		}
		rows[i].Units = rows[i].Units.Add(it.Quantity)
		rows[i].Revenue = rows[i].Revenue.Add(it.Revenue)
		total = total.Add(it.Revenue)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if c := rows[a].Revenue.Cmp(rows[b].Revenue); c != 0 {
			return c > 0
		}
		if rows[a].Category != rows[b].Category {
			return rows[a].Category < rows[b].Category
		}
		return rows[a].Subcategory < rows[b].Subcategory
	})
	for i := range rows {
		rows[i].RevenueShare = model.Share(rows[i].Revenue, total)
	}
	return rows
}
