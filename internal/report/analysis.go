package report

import (
	"github.com/roach88/orderlens/internal/kpi"
	"github.com/roach88/orderlens/internal/model"
	"github.com/roach88/orderlens/internal/rfm"
	"github.com/roach88/orderlens/internal/segment"
)

// DefaultSummaryHead is how many ranked rows the summary keeps.
const DefaultSummaryHead = 10

// Options controls table lengths.
type Options struct {
	TopProducts int
	SummaryHead int
}

// Analysis is the full set of derived tables for one snapshot.
type Analysis struct {
	KPIs          kpi.Bundle
	TopProducts   []segment.ProductRow
	Pareto        []segment.ParetoRow
	TopCategories []segment.CategoryRow
	Daily         []segment.DailyRow
	Hourly        []segment.HourlyRow
	Monthly       []segment.MonthlyRow
	Weekdays      []segment.WeekdayRow
	Basket        []segment.BasketMetric
	RFM           []rfm.Record

	summaryHead int
}

// Build runs every aggregator over the enriched tables.
func Build(tables *model.Tables, opts Options) *Analysis {
	if opts.TopProducts <= 0 {
		opts.TopProducts = segment.DefaultTopProducts
	}
	if opts.SummaryHead <= 0 {
		opts.SummaryHead = DefaultSummaryHead
	}

	ranked := segment.RankProducts(tables.Items)
	return &Analysis{
		KPIs:          kpi.Compute(tables.Orders),
		TopProducts:   segment.Head(ranked, opts.TopProducts),
		Pareto:        segment.Pareto(ranked),
		TopCategories: segment.TopCategories(tables.Items),
		Daily:         segment.Daily(tables.Orders),
		Hourly:        segment.Hourly(tables.Orders),
		Monthly:       segment.Monthly(tables.Orders),
		Weekdays:      segment.Weekdays(tables.Orders),
		Basket:        segment.BasketShape(tables.Orders),
		RFM:           rfm.Compute(tables.Orders),
		summaryHead:   opts.SummaryHead,
	}
}

// Summary is the structured digest written to analysis_summary.json.
type Summary struct {
	KPIs          kpi.Bundle             `json:"kpis"`
	TopProducts   []segment.ProductRow   `json:"top_products"`
	TopCategories []segment.CategoryRow  `json:"top_categories"`
	Basket        []segment.BasketMetric `json:"basket"`
	RFMOverview   map[string]float64     `json:"rfm_overview"`
}

// Summary returns the digest: KPIs, heads of the ranked tables, the basket
// table and the share of customers per RFM segment.
func (a *Analysis) Summary() Summary {
	head := a.summaryHead
	if head <= 0 {
		head = DefaultSummaryHead
	}

	overview := make(map[string]float64)
	for _, s := range rfm.Distribution(a.RFM) {
		overview[s.Segment] = s.Share
	}

	return Summary{
		KPIs:          a.KPIs,
		TopProducts:   nonNil(segment.Head(a.TopProducts, head)),
		TopCategories: nonNil(segment.Head(a.TopCategories, head)),
		Basket:        nonNil(a.Basket),
		RFMOverview:   overview,
	}
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
