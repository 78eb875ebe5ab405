package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawOrder is one row of the orders export before coercion.
type RawOrder struct {
	ID         string
	CustomerID string // empty for guest checkouts
	CreatedAt  string
	Total      string
	Subtotal   string
	Discount   string
	Shipping   string
	Tax        string
}

// RawLineItem is one row of the line-items export before coercion.
type RawLineItem struct {
	ID                  string
	OrderID             string
	ProductID           string
	Title               string
	Vendor              string
	ProductType         string
	VariantTitle        string
	OriginalUnitPrice   string
	DiscountedUnitPrice string
	Quantity            string
}

// Order is an order with its derived monetary, temporal and rollup fields.
type Order struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id,omitempty"`

	// CreatedAt is the UTC instant; Local is the same instant in the
	// reporting zone. Both are zero when HasTimestamp is false.
	CreatedAt    time.Time `json:"created_at"`
	Local        time.Time `json:"created_at_local"`
	HasTimestamp bool      `json:"has_timestamp"`
	Date         string    `json:"created_date,omitempty"` // YYYY-MM-DD, local
	Hour         int       `json:"created_hour"`
	Weekday      string    `json:"created_weekday,omitempty"`

	Total    decimal.Decimal `json:"total_price"`
	Subtotal decimal.Decimal `json:"subtotal_amount"`
	Discount decimal.Decimal `json:"discount_amount"`
	Shipping decimal.Decimal `json:"shipping_amount"`
	Tax      decimal.Decimal `json:"tax_amount"`

	Lines       int             `json:"lines"`
	Units       decimal.Decimal `json:"units"`
	LineRevenue decimal.Decimal `json:"line_revenue"`
}

// HasCustomer reports whether the order is attributed to a customer.
func (o Order) HasCustomer() bool {
	return o.CustomerID != ""
}

// LineItem is a product line with resolved price, revenue and taxonomy.
type LineItem struct {
	ID           string `json:"id"`
	OrderID      string `json:"order_id"`
	ProductID    string `json:"product_id"`
	Title        string `json:"product_title"`
	Vendor       string `json:"vendor"`
	ProductType  string `json:"product_type"`
	VariantTitle string `json:"variant_title"`

	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"line_revenue"`

	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Tables holds the enriched snapshot. It is read-only once produced.
type Tables struct {
	Orders []Order
	Items  []LineItem
}
