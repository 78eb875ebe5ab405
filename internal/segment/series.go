package segment

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/model"
)

// DailyRow aggregates orders by localized calendar date.
type DailyRow struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders_count"`
	Units   decimal.Decimal `json:"units"`
}

// HourlyRow aggregates orders by localized hour of day.
type HourlyRow struct {
	Hour    int             `json:"hour"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders_count"`
}

// MonthlyRow aggregates orders by localized calendar month (YYYY-MM).
type MonthlyRow struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders_count"`
}

// WeekdayRow aggregates orders by localized weekday.
type WeekdayRow struct {
	Weekday string          `json:"weekday"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders_count"`
}

// Daily returns one row per date with at least one timed order, ascending.
func Daily(orders []model.Order) []DailyRow {
	byDate := make(map[string]*DailyRow)
	for _, o := range orders {
		if !o.HasTimestamp {
			continue
		}
		r, ok := byDate[o.Date]
		if !ok {
			r = &DailyRow{Date: o.Date, Revenue: decimal.Zero, Units: decimal.Zero}
			byDate[o.Date] = r
		}
		r.Revenue = r.Revenue.Add(o.Total)
		r.Orders++
		r.Units = r.Units.Add(o.Units)
	}

	out := make([]DailyRow, 0, len(byDate))
	for _, r := range byDate {
		out = append(out, *r)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	return out
}

// Hourly returns one row per hour with at least one timed order, ascending.
func Hourly(orders []model.Order) []HourlyRow {
	var buckets [24]*HourlyRow
	for _, o := range orders {
		if !o.HasTimestamp {
			continue
		}
		r := buckets[o.Hour]
		if r == nil {
			r = &HourlyRow{Hour: o.Hour, Revenue: decimal.Zero}
			buckets[o.Hour] = r
		}
		r.Revenue = r.Revenue.Add(o.Total)
		r.Orders++
	}

	var out []HourlyRow
	for _, r := range buckets {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// Monthly returns one row per month with at least one timed order,
// ascending.
func Monthly(orders []model.Order) []MonthlyRow {
	byMonth := make(map[string]*MonthlyRow)
	for _, o := range orders {
		if !o.HasTimestamp {
			continue
		}
		key := o.Local.Format("2006-01")
		r, ok := byMonth[key]
		if !ok {
			r = &MonthlyRow{Month: key, Revenue: decimal.Zero}
			byMonth[key] = r
		}
		r.Revenue = r.Revenue.Add(o.Total)
		r.Orders++
	}

	out := make([]MonthlyRow, 0, len(byMonth))
	for _, r := range byMonth {
		out = append(out, *r)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Month < out[b].Month })
	return out
}

// weekOrder lists weekdays Monday first.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Weekdays returns one row per weekday with at least one timed order,
// Monday first.
func Weekdays(orders []model.Order) []WeekdayRow {
	byDay := make(map[time.Weekday]*WeekdayRow)
	for _, o := range orders {
		if !o.HasTimestamp {
			continue
		}
		wd := o.Local.Weekday()
		r, ok := byDay[wd]
		if !ok {
			r = &WeekdayRow{Weekday: wd.String(), Revenue: decimal.Zero}
			byDay[wd] = r
		}
		r.Revenue = r.Revenue.Add(o.Total)
		r.Orders++
	}

	var out []WeekdayRow
	for _, wd := range weekOrder {
		if r, ok := byDay[wd]; ok {
			out = append(out, *r)
		}
	}
	return out
}
