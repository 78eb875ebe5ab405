package segment

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/model"
)

// DefaultTopProducts is the default ranking length.
const DefaultTopProducts = 25

// ProductRow is one product in the revenue ranking.
type ProductRow struct {
	ProductID    string          `json:"product_id"`
	Title        string          `json:"product_title"`
	Vendor       string          `json:"vendor"`
	ProductType  string          `json:"product_type"`
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory"`
	Units        decimal.Decimal `json:"units"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueShare float64         `json:"revenue_share"`
}

// RankProducts aggregates items by product id and returns every product
// ordered by revenue descending, ties by product id. Descriptive fields
// come from the first item seen for the product. Items without a product
// id are skipped.
func RankProducts(items []model.LineItem) []ProductRow {
	index := make(map[string]int)
	var rows []ProductRow
	total := decimal.Zero

	for _, it := range items {
		if it.ProductID == "" {
			continue
		}
		i, ok := index[it.ProductID]
		if !ok {
			i = len(rows)
			index[it.ProductID] = i
			rows = append(rows, ProductRow{
				ProductID:   it.ProductID,
				Title:       it.Title,
				Vendor:      it.Vendor,
				ProductType: it.ProductType,
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
		return rows[a].ProductID < rows[b].ProductID
	})
	for i := range rows {
		rows[i].RevenueShare = model.Share(rows[i].Revenue, total)
	}
	return rows
}

// TopProducts returns the first limit rows of RankProducts. Shares are
// relative to the full product set. A non-positive limit selects
// DefaultTopProducts.
func TopProducts(items []model.LineItem, limit int) []ProductRow {
	if limit <= 0 {
		limit = DefaultTopProducts
	}
	return Head(RankProducts(items), limit)
}

// ParetoRow is a product with its rank and cumulative revenue share.
type ParetoRow struct {
	Rank            int     `json:"rank"`
	ProductID       string  `json:"product_id"`
	Title           string  `json:"product_title"`
	RevenueShare    float64 `json:"revenue_share"`
	CumulativeShare float64 `json:"cum_share"`
}

// Pareto returns the full ranking with cumulative shares.
func Pareto(ranked []ProductRow) []ParetoRow {
	out := make([]ParetoRow, len(ranked))
	var cum float64
	for i, r := range ranked {
		cum += r.RevenueShare
		out[i] = ParetoRow{
			Rank:            i + 1,
			ProductID:       r.ProductID,
			Title:           r.Title,
			RevenueShare:    r.RevenueShare,
			CumulativeShare: cum,
		}
	}
	return out
}

// ParetoCut returns how many top-ranked products are needed to reach the
// target cumulative share, or len(rows) if it is never reached.
func ParetoCut(rows []ParetoRow, target float64) int {
	for _, r := range rows {
		if r.CumulativeShare >= target {
			return r.Rank
		}
	}
	return len(rows)
}

// Head returns at most n leading elements.
func Head[T any](rows []T, n int) []T {
	if n < 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
