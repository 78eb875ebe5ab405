package kpi

import "github.com/shopspring/decimal"

// Metric is one (name, value) row of the KPI overview table.
type Metric struct {
	Name  string          `json:"metric"`
	Value decimal.Decimal `json:"value"`
}

// Metrics flattens the bundle into rows in declaration order.
func (b Bundle) Metrics() []Metric {
	i := func(v int) decimal.Decimal { return decimal.NewFromInt(int64(v)) }
	f := decimal.NewFromFloat

	return []Metric{
		{"total_orders", i(b.TotalOrders)},
		{"total_customers", i(b.TotalCustomers)},
		{"total_revenue", b.TotalRevenue},
		{"subtotal_revenue", b.SubtotalRevenue},
		{"total_discounts", b.TotalDiscounts},
		{"total_shipping", b.TotalShipping},
		{"total_tax", b.TotalTax},
		{"average_order_value", f(b.AverageOrderValue)},
		{"median_order_value", f(b.MedianOrderValue)},
		{"orders_with_discount", i(b.OrdersWithDiscount)},
		{"orders_with_shipping", i(b.OrdersWithShipping)},
		{"share_orders_discount", f(b.ShareOrdersDiscount)},
		{"share_orders_shipping", f(b.ShareOrdersShipping)},
		{"avg_lines_per_order", f(b.AvgLinesPerOrder)},
		{"median_lines_per_order", f(b.MedianLinesPerOrder)},
		{"avg_units_per_order", f(b.AvgUnitsPerOrder)},
		{"median_units_per_order", f(b.MedianUnitsPerOrder)},
		{"avg_items_per_order", f(b.AvgItemsPerOrder)},
		{"median_items_per_order", f(b.MedianItemsPerOrder)},
		{"revenue_last_30_days", b.RevenueLast30Days},
		{"revenue_last_90_days", b.RevenueLast90Days},
		{"revenue_last_365_days", b.RevenueLast365Days},
	}
}
