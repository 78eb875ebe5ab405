// Package loader reads the Shopify bulk-export CSV files into raw records.
//
// The loader only maps columns; it does not coerce values. Missing required
// columns are fatal. Blank cells and the literal "null" normalise to the
// empty string.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roach88/orderlens/internal/model"
)

// Export column names.
const (
	ColID           = "id"
	ColCustomerID   = "customer.id"
	ColCreatedAt    = "createdAt"
	ColTotal        = "totalPriceSet.shopMoney.amount"
	ColSubtotal     = "subtotalPriceSet.shopMoney.amount"
	ColDiscount     = "totalDiscountsSet.shopMoney.amount"
	ColShipping     = "totalShippingPriceSet.shopMoney.amount"
	ColTax          = "totalTaxSet.shopMoney.amount"
	ColParentID     = "__parentId"
	ColProductID    = "variant.product.id"
	ColTitle        = "variant.product.title"
	ColVendor       = "variant.product.vendor"
	ColProductType  = "variant.product.productType"
	ColVariantTitle = "variant.title"
	ColOriginal     = "originalUnitPriceSet.shopMoney.amount"
	ColDiscounted   = "discountedUnitPriceSet.shopMoney.amount"
	ColQuantity     = "quantity"
)

// OrderColumns are required in the orders file.
var OrderColumns = []string{
	ColID, ColCustomerID, ColCreatedAt,
	ColTotal, ColSubtotal, ColDiscount, ColShipping, ColTax,
}

// ItemColumns are required in the line-items file.
var ItemColumns = []string{
	ColID, ColParentID, ColProductID, ColTitle, ColVendor, ColProductType,
	ColVariantTitle, ColOriginal, ColDiscounted, ColQuantity,
}

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// nullMarkers normalise to the empty string.
var nullMarkers = map[string]bool{"": true, "null": true}

// table is a header-indexed CSV.
type table struct {
	index map[string]int
	rows  [][]string
}

func (t *table) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[i])
	if nullMarkers[v] {
		return ""
	}
	return v
}

func readTable(r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &table{index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// ReadOrders parses an orders CSV.
func ReadOrders(r io.Reader) ([]model.RawOrder, error) {
	t, err := readTable(r, OrderColumns)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	out := make([]model.RawOrder, len(t.rows))
	for i, row := range t.rows {
		out[i] = model.RawOrder{
			ID:         t.get(row, ColID),
			CustomerID: t.get(row, ColCustomerID),
			CreatedAt:  t.get(row, ColCreatedAt),
			Total:      t.get(row, ColTotal),
			Subtotal:   t.get(row, ColSubtotal),
			Discount:   t.get(row, ColDiscount),
			Shipping:   t.get(row, ColShipping),
			Tax:        t.get(row, ColTax),
		}
	}
	return out, nil
}

// ReadItems parses a line-items CSV.
func ReadItems(r io.Reader) ([]model.RawLineItem, error) {
	t, err := readTable(r, ItemColumns)
	if err != nil {
		return nil, fmt.Errorf("read line items: %w", err)
	}

	out := make([]model.RawLineItem, len(t.rows))
	for i, row := range t.rows {
		out[i] = model.RawLineItem{
			ID:                  t.get(row, ColID),
			OrderID:             t.get(row, ColParentID),
			ProductID:           t.get(row, ColProductID),
			Title:               t.get(row, ColTitle),
			Vendor:              t.get(row, ColVendor),
			ProductType:         t.get(row, ColProductType),
			VariantTitle:        t.get(row, ColVariantTitle),
			OriginalUnitPrice:   t.get(row, ColOriginal),
			DiscountedUnitPrice: t.get(row, ColDiscounted),
			Quantity:            t.get(row, ColQuantity),
		}
	}
	return out, nil
}

// Snapshot is the raw input of one run together with the source
// signatures it was read from.
type Snapshot struct {
	Orders     []model.RawOrder
	Items      []model.RawLineItem
	OrdersFile Signature
	ItemsFile  Signature
}

// Load reads both export files.
func Load(ordersPath, itemsPath string) (*Snapshot, error) {
	ordersSig, err := Stat(ordersPath)
	if err != nil {
		return nil, err
	}
	itemsSig, err := Stat(itemsPath)
	if err != nil {
		return nil, err
	}

	orders, err := readFile(ordersPath, ReadOrders)
	if err != nil {
		return nil, err
	}
	items, err := readFile(itemsPath, ReadItems)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Orders:     orders,
		Items:      items,
		OrdersFile: ordersSig,
		ItemsFile:  itemsSig,
	}, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
