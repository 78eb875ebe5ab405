// Package enrich derives monetary, temporal and rollup fields from raw
// order and line-item records and classifies every line item.
//
// Value-level problems never fail a run: unparseable amounts become zero
// and unparseable timestamps leave the order without a localized time, so
// it is skipped by every time-dependent aggregate. Table-level problems
// (duplicate order ids) are returned as errors.
package enrich

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/roach88/orderlens/internal/classify"
	"github.com/roach88/orderlens/internal/model"
)

// DefaultTimezone is the reporting zone for localized date parts.
const DefaultTimezone = "America/Bogota"

// ErrDuplicateOrder is returned when two order rows share an id. Joining
// rollups onto such a table would count the same line revenue twice.
var ErrDuplicateOrder = errors.New("duplicate order id")

// timestampLayouts are tried in order. Layouts without an offset are read
// as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Enricher turns raw tables into the enriched snapshot.
type Enricher struct {
	loc        *time.Location
	classifier *classify.Classifier
	logger     *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithClassifier overrides the built-in product rules.
func WithClassifier(c *classify.Classifier) Option {
	return func(e *Enricher) { e.classifier = c }
}

// WithLogger sets the logger used for recovered-value diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Enricher) { e.logger = l }
}

// New creates an Enricher for the named IANA zone.
func New(timezone string, opts ...Option) (*Enricher, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	e := &Enricher{
		loc:        loc,
		classifier: classify.New(nil),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Enrich derives all fields and joins per-order rollups. Row count and row
// order of both tables are preserved.
func (e *Enricher) Enrich(orders []model.RawOrder, items []model.RawLineItem) (*model.Tables, error) {
	enrichedItems := make([]model.LineItem, len(items))
	for i, raw := range items {
		enrichedItems[i] = e.item(raw)
	}

	rollups := Rollup(enrichedItems)

	seen := make(map[string]struct{}, len(orders))
	enrichedOrders := make([]model.Order, len(orders))
	badTimestamps := 0
	for i, raw := range orders {
		if _, dup := seen[raw.ID]; dup {
			return nil, fmt.Errorf("enrich orders: %w: %q", ErrDuplicateOrder, raw.ID)
		}
		seen[raw.ID] = struct{}{}

		o := e.order(raw)
		if !o.HasTimestamp {
			badTimestamps++
			e.logger.Debug("unparseable order timestamp", "order", raw.ID, "value", raw.CreatedAt)
		}
		if r, ok := rollups[o.ID]; ok {
			o.Lines = r.Lines
			o.Units = r.Units
			o.LineRevenue = r.Revenue
		}
		enrichedOrders[i] = o
	}

	if badTimestamps > 0 {
		e.logger.Warn("orders without a usable timestamp", "count", badTimestamps)
	}

	return &model.Tables{Orders: enrichedOrders, Items: enrichedItems}, nil
}

func (e *Enricher) order(raw model.RawOrder) model.Order {
	o := model.Order{
		ID:          raw.ID,
		CustomerID:  strings.TrimSpace(raw.CustomerID),
		Total:       Money(raw.Total),
		Subtotal:    Money(raw.Subtotal),
		Discount:    Money(raw.Discount),
		Shipping:    Money(raw.Shipping),
		Tax:         Money(raw.Tax),
		Units:       decimal.Zero,
		LineRevenue: decimal.Zero,
	}

	ts, ok := ParseTimestamp(raw.CreatedAt)
	if !ok {
		return o
	}
	local := ts.In(e.loc)
	o.CreatedAt = ts
	o.Local = local
	o.HasTimestamp = true
	o.Date = local.Format(time.DateOnly)
	o.Hour = local.Hour()
	o.Weekday = local.Weekday().String()
	return o
}

func (e *Enricher) item(raw model.RawLineItem) model.LineItem {
	price := UnitPrice(raw.DiscountedUnitPrice, raw.OriginalUnitPrice)
	qty := Money(raw.Quantity)
	class := e.classifier.Classify(raw.Title, raw.ProductType, raw.VariantTitle)

	return model.LineItem{
		ID:           raw.ID,
		OrderID:      raw.OrderID,
		ProductID:    raw.ProductID,
		Title:        raw.Title,
		Vendor:       raw.Vendor,
		ProductType:  raw.ProductType,
		VariantTitle: raw.VariantTitle,
		UnitPrice:    price,
		Quantity:     qty,
		Revenue:      price.Mul(qty),
		Category:     class.Category,
		Subcategory:  class.Subcategory,
	}
}

// Money parses a decimal amount. Blank or malformed input yields zero.
func Money(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// UnitPrice returns the discounted price when it is strictly positive and
// the original price otherwise.
func UnitPrice(discounted, original string) decimal.Decimal {
	if d := Money(discounted); d.IsPositive() {
		return d
	}
	return Money(original)
}

// ParseTimestamp reads an export timestamp and returns it in UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
