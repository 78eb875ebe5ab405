// Package kpi reduces enriched orders into a fixed bundle of summary
// statistics.
package kpi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/model"
	"github.com/roach88/orderlens/internal/stats"
)

// Bundle is the KPI snapshot of one run. Zero orders yield all-zero
// values, never NaN.
type Bundle struct {
	TotalOrders         int             `json:"total_orders"`
	TotalCustomers      int             `json:"total_customers"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	SubtotalRevenue     decimal.Decimal `json:"subtotal_revenue"`
	TotalDiscounts      decimal.Decimal `json:"total_discounts"`
	TotalShipping       decimal.Decimal `json:"total_shipping"`
	TotalTax            decimal.Decimal `json:"total_tax"`
	AverageOrderValue   float64         `json:"average_order_value"`
	MedianOrderValue    float64         `json:"median_order_value"`
	OrdersWithDiscount  int             `json:"orders_with_discount"`
	OrdersWithShipping  int             `json:"orders_with_shipping"`
	ShareOrdersDiscount float64         `json:"share_orders_discount"`
	ShareOrdersShipping float64         `json:"share_orders_shipping"`
	AvgLinesPerOrder    float64         `json:"avg_lines_per_order"`
	MedianLinesPerOrder float64         `json:"median_lines_per_order"`
	AvgUnitsPerOrder    float64         `json:"avg_units_per_order"`
	MedianUnitsPerOrder float64         `json:"median_units_per_order"`
	AvgItemsPerOrder    float64         `json:"avg_items_per_order"`
	MedianItemsPerOrder float64         `json:"median_items_per_order"`
	RevenueLast30Days   decimal.Decimal `json:"revenue_last_30_days"`
	RevenueLast90Days   decimal.Decimal `json:"revenue_last_90_days"`
	RevenueLast365Days  decimal.Decimal `json:"revenue_last_365_days"`
}

// Compute builds the bundle from enriched orders.
func Compute(orders []model.Order) Bundle {
	n := len(orders)
	b := Bundle{
		TotalOrders:        n,
		TotalRevenue:       decimal.Zero,
		SubtotalRevenue:    decimal.Zero,
		TotalDiscounts:     decimal.Zero,
		TotalShipping:      decimal.Zero,
		TotalTax:           decimal.Zero,
		RevenueLast30Days:  decimal.Zero,
		RevenueLast90Days:  decimal.Zero,
		RevenueLast365Days: decimal.Zero,
	}

	customers := make(map[string]struct{})
	totals := make([]float64, 0, n)
	lines := make([]float64, 0, n)
	units := make([]float64, 0, n)

	for _, o := range orders {
		if o.HasCustomer() {
			customers[o.CustomerID] = struct{}{}
		}
		b.TotalRevenue = b.TotalRevenue.Add(o.Total)
		b.SubtotalRevenue = b.SubtotalRevenue.Add(o.Subtotal)
		b.TotalDiscounts = b.TotalDiscounts.Add(o.Discount)
		b.TotalShipping = b.TotalShipping.Add(o.Shipping)
		b.TotalTax = b.TotalTax.Add(o.Tax)

		if o.Discount.IsPositive() {
			b.OrdersWithDiscount++
		}
		if o.Shipping.IsPositive() {
			b.OrdersWithShipping++
		}

		totals = append(totals, o.Total.InexactFloat64())
		lines = append(lines, float64(o.Lines))
		units = append(units, o.Units.InexactFloat64())
	}

	b.TotalCustomers = len(customers)
	b.AverageOrderValue = stats.Mean(totals)
	b.MedianOrderValue = stats.Median(totals)
	if n > 0 {
		b.ShareOrdersDiscount = float64(b.OrdersWithDiscount) / float64(n)
		b.ShareOrdersShipping = float64(b.OrdersWithShipping) / float64(n)
	}
	b.AvgLinesPerOrder = stats.Mean(lines)
	b.MedianLinesPerOrder = stats.Median(lines)
	b.AvgUnitsPerOrder = stats.Mean(units)
	b.MedianUnitsPerOrder = stats.Median(units)
	b.AvgItemsPerOrder = b.AvgUnitsPerOrder
	b.MedianItemsPerOrder = b.MedianUnitsPerOrder

	if latest, ok := LatestLocal(orders); ok {
		b.RevenueLast30Days = TrailingRevenue(orders, latest, 30)
		b.RevenueLast90Days = TrailingRevenue(orders, latest, 90)
		b.RevenueLast365Days = TrailingRevenue(orders, latest, 365)
	}
	return b
}

// LatestLocal returns the maximum localized timestamp among orders that
// have one.
func LatestLocal(orders []model.Order) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, o := range orders {
		if !o.HasTimestamp {
			continue
		}
		if !found || o.Local.After(latest) {
			latest = o.Local
			found = true
		}
	}
	return latest, found
}

// TrailingRevenue sums order totals whose localized timestamp is at or
// after latest minus days*24h. The boundary instant is included.
func TrailingRevenue(orders []model.Order, latest time.Time, days int) decimal.Decimal {
	cutoff := latest.Add(-time.Duration(days) * 24 * time.Hour)
	sum := decimal.Zero
	for _, o := range orders {
		if o.HasTimestamp && !o.Local.Before(cutoff) {
			sum = sum.Add(o.Total)
		}
	}
	return sum
}
