package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/model"
)

// RawOrder builds a raw order with only the total set. Other amounts are
// zero.
func RawOrder(id, customer, createdAt, total string) model.RawOrder {
	return model.RawOrder{
		ID:         id,
		CustomerID: customer,
		CreatedAt:  createdAt,
		Total:      total,
		Subtotal:   total,
		Discount:   "0",
		Shipping:   "0",
		Tax:        "0",
	}
}

// RawItem builds a raw line item priced at the original unit price.
func RawItem(id, orderID, productID, title, price, qty string) model.RawLineItem {
	return model.RawLineItem{
		ID:                id,
		OrderID:           orderID,
		ProductID:         productID,
		Title:             title,
		OriginalUnitPrice: price,
		Quantity:          qty,
	}
}

// Bogota is the fixed UTC-5 offset used to build localized fixtures
// without a tz database lookup.
var Bogota = time.FixedZone("COT", -5*60*60)

// Order builds an enriched order localized to Bogota.
func Order(id, customer string, local time.Time, total int64) model.Order {
	local = local.In(Bogota)
	return model.Order{
		ID:           id,
		CustomerID:   customer,
		CreatedAt:    local.UTC(),
		Local:        local,
		HasTimestamp: true,
		Date:         local.Format(time.DateOnly),
		Hour:         local.Hour(),
		Weekday:      local.Weekday().String(),
		Total:        decimal.NewFromInt(total),
		Subtotal:     decimal.NewFromInt(total),
		Discount:     decimal.Zero,
		Shipping:     decimal.Zero,
		Tax:          decimal.Zero,
		Units:        decimal.Zero,
		LineRevenue:  decimal.Zero,
	}
}

// Day returns midnight of the given date in Bogota plus hours.
func Day(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, Bogota)
}

// Item builds an enriched line item with revenue = price * qty.
func Item(orderID, productID, title string, price, qty int64, category, subcategory string) model.LineItem {
	p := decimal.NewFromInt(price)
	q := decimal.NewFromInt(qty)
	return model.LineItem{
		ID:          orderID + "/" + productID,
		OrderID:     orderID,
		ProductID:   productID,
		Title:       title,
		UnitPrice:   p,
		Quantity:    q,
		Revenue:     p.Mul(q),
		Category:    category,
		Subcategory: subcategory,
	}
}
