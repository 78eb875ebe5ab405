// Package rfm scores customers on recency, frequency and monetary value
// and assigns each a behavioural segment.
//
// Scores come from percentile ranks bucketed into five equal-width bins.
// Recency is inverted: the most recent customers score 5, while the most
// frequent and highest-spending customers score 5 on the other axes.
// Ranks break ties by row position, and rows are ordered by customer id,
// so repeated runs over the same snapshot give identical scores.
package rfm

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/model"
	"github.com/roach88/orderlens/internal/stats"
)

// Segment labels.
const (
	SegmentLoyal   = "Loyal"
	SegmentNew     = "New/Potential"
	SegmentAtRisk  = "At Risk"
	SegmentChurned = "Churned"
	SegmentActive  = "Active"
)

var (
	recencyLabels = []int{5, 4, 3, 2, 1}
	valueLabels   = []int{1, 2, 3, 4, 5}
)

// Record is the RFM profile of one customer.
type Record struct {
	CustomerID     string          `json:"customer_id"`
	LastPurchase   time.Time       `json:"last_purchase"`
	Frequency      int             `json:"frequency"`
	Monetary       decimal.Decimal `json:"monetary"`
	RecencyDays    int             `json:"recency_days"`
	RecencyScore   int             `json:"recency_score"`
	FrequencyScore int             `json:"frequency_score"`
	MonetaryScore  int             `json:"monetary_score"`
	Score          int             `json:"rfm_score"`
	Segment        string          `json:"segment"`
}

// Compute returns one record per customer, ordered by customer id. Orders
// without a customer id or without a timestamp are ignored. An empty
// result is not an error.
func Compute(orders []model.Order) []Record {
	byCustomer := make(map[string]*Record)
	var latest time.Time
	for _, o := range orders {
		if !o.HasCustomer() || !o.HasTimestamp {
			continue
		}
		if o.Local.After(latest) {
			latest = o.Local
		}
		r, ok := byCustomer[o.CustomerID]
		if !ok {
			r = &Record{CustomerID: o.CustomerID, LastPurchase: o.Local, Monetary: decimal.Zero}
			byCustomer[o.CustomerID] = r
		}
		if o.Local.After(r.LastPurchase) {
			r.LastPurchase = o.Local
		}
		r.Frequency++
		r.Monetary = r.Monetary.Add(o.Total)
	}
	if len(byCustomer) == 0 {
		return nil
	}

	ref := ReferenceDate(latest)
	records := make([]Record, 0, len(byCustomer))
	for _, r := range byCustomer {
		r.RecencyDays = RecencyDays(ref, r.LastPurchase)
		records = append(records, *r)
	}
	sort.Slice(records, func(a, b int) bool {
		return records[a].CustomerID < records[b].CustomerID
	})

	recency := make([]float64, len(records))
	frequency := make([]float64, len(records))
	monetary := make([]float64, len(records))
	for i, r := range records {
		recency[i] = float64(r.RecencyDays)
		frequency[i] = float64(r.Frequency)
		monetary[i] = r.Monetary.InexactFloat64()
	}
	recencyPct := stats.PercentRank(recency)
	frequencyPct := stats.PercentRank(frequency)
	monetaryPct := stats.PercentRank(monetary)

	for i := range records {
		r := &records[i]
		r.RecencyScore = stats.Score(recencyPct[i], recencyLabels)
		r.FrequencyScore = stats.Score(frequencyPct[i], valueLabels)
		r.MonetaryScore = stats.Score(monetaryPct[i], valueLabels)
		r.Score = r.RecencyScore + r.FrequencyScore + r.MonetaryScore
		r.Segment = Segment(r.RecencyScore, r.FrequencyScore)
	}
	return records
}

// ReferenceDate is the start of the day after latest, in latest's zone.
func ReferenceDate(latest time.Time) time.Time {
	y, m, d := latest.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, latest.Location())
}

// RecencyDays returns the whole days between last and ref, truncated.
func RecencyDays(ref, last time.Time) int {
	return int(math.Floor(ref.Sub(last).Hours() / 24))
}

// Segment labels a customer from the recency and frequency scores. Rules
// are checked in priority order.
func Segment(recency, frequency int) string {
	switch {
	case recency >= 4 && frequency >= 4:
		return SegmentLoyal
	case recency >= 4 && frequency <= 2:
		return SegmentNew
	case recency <= 2 && frequency >= 4:
		return SegmentAtRisk
	case recency <= 2 && frequency <= 2:
		return SegmentChurned
	default:
		return SegmentActive
	}
}

// Share is the fraction of customers in one segment.
type Share struct {
	Segment string  `json:"segment"`
	Share   float64 `json:"share"`
}

// Distribution returns the share of customers per segment, rounded to four
// decimals, largest first with ties by label.
func Distribution(records []Record) []Share {
	if len(records) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Segment]++
	}

	out := make([]Share, 0, len(counts))
	for seg, n := range counts {
		share := decimal.NewFromInt(int64(n)).
			Div(decimal.NewFromInt(int64(len(records)))).
			Round(4).
			InexactFloat64()
		out = append(out, Share{Segment: seg, Share: share})
	}
	sort.Slice(out, func(a, b int) bool {
		if counts[out[a].Segment] != counts[out[b].Segment] {
			return counts[out[a].Segment] > counts[out[b].Segment]
		}
		return out[a].Segment < out[b].Segment
	})
	return out
}
