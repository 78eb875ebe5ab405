package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Artifact file names.
const (
	FileKPIs          = "kpis_overview.csv"
	FileTopProducts   = "top_products.csv"
	FilePareto        = "pareto.csv"
	FileTopCategories = "top_categories.csv"
	FileDaily         = "sales_by_day.csv"
	FileHourly        = "sales_by_hour.csv"
	FileMonthly       = "sales_by_month.csv"
	FileWeekdays      = "sales_by_weekday.csv"
	FileBasket        = "basket_shape.csv"
	FileRFM           = "rfm_segments.csv"
	FileSummary       = "analysis_summary.json"
)

func init() {
	// Amounts are exported as JSON numbers, matching the CSV tables.
	decimal.MarshalJSONWithoutQuotes = true
}

// Table is a rendered CSV artifact.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Tables renders every CSV artifact in a fixed order. The RFM table is
// left out when there are no RFM records.
func (a *Analysis) Tables() []Table {
	tables := []Table{
		a.kpiTable(),
		a.productTable(),
		a.paretoTable(),
		a.categoryTable(),
		a.dailyTable(),
		a.hourlyTable(),
		a.monthlyTable(),
		a.weekdayTable(),
		a.basketTable(),
	}
	if len(a.RFM) > 0 {
		tables = append(tables, a.rfmTable())
	}
	return tables
}

// Write exports every artifact into dir, creating it if needed, and
// returns the written file names. Files are staged in a sibling directory
// first, so a failed export leaves dir as it was.
func Write(dir string, a *Analysis) ([]string, error) {
	files, err := a.render()
	if err != nil {
		return nil, err
	}
	if err := commit(dir, files); err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names, nil
}

type artifact struct {
	name string
	data []byte
}

func (a *Analysis) render() ([]artifact, error) {
	var files []artifact
	for _, t := range a.Tables() {
		data, err := t.CSV()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", t.Name, err)
		}
		files = append(files, artifact{name: t.Name, data: data})
	}

	summary, err := MarshalSummary(a.Summary())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", FileSummary, err)
	}
	return append(files, artifact{name: FileSummary, data: summary}), nil
}

// commit writes files into a staging directory beside dir and moves them
// into place once all of them are on disk.
func commit(dir string, files []artifact) error {
	parent := filepath.Dir(filepath.Clean(dir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".orderlens-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, f := range files {
		if err := os.WriteFile(filepath.Join(staging, f.name), f.data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := os.Chmod(staging, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := os.Rename(staging, dir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		return nil
	}

	for _, f := range files {
		if err := os.Rename(filepath.Join(staging, f.name), filepath.Join(dir, f.name)); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

// CSV encodes the table with a header row. Text cells are NFC normalised.
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		normalized := make([]string, len(row))
		for i, cell := range row {
			normalized[i] = norm.NFC.String(cell)
		}
		if err := w.Write(normalized); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalSummary renders the summary as indented JSON without HTML
// escaping.
func MarshalSummary(s Summary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *Analysis) kpiTable() Table {
	t := Table{Name: FileKPIs, Header: []string{"metric", "value"}}
	for _, m := range a.KPIs.Metrics() {
		t.Rows = append(t.Rows, []string{m.Name, m.Value.String()})
	}
	return t
}

func (a *Analysis) productTable() Table {
	t := Table{Name: FileTopProducts, Header: []string{
		"product_id", "product_title", "vendor", "product_type",
		"category", "subcategory", "units", "revenue", "revenue_share",
	}}
	for _, r := range a.TopProducts {
		t.Rows = append(t.Rows, []string{
			r.ProductID, r.Title, r.Vendor, r.ProductType,
			r.Category, r.Subcategory, r.Units.String(), r.Revenue.String(), num(r.RevenueShare),
		})
	}
	return t
}

func (a *Analysis) paretoTable() Table {
	t := Table{Name: FilePareto, Header: []string{"rank", "product_id", "product_title", "revenue_share", "cum_share"}}
	for _, r := range a.Pareto {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.Rank), r.ProductID, r.Title, num(r.RevenueShare), num(r.CumulativeShare),
		})
	}
	return t
}

func (a *Analysis) categoryTable() Table {
	t := Table{Name: FileTopCategories, Header: []string{"category", "subcategory", "units", "revenue", "revenue_share"}}
	for _, r := range a.TopCategories {
		t.Rows = append(t.Rows, []string{
			r.Category, r.Subcategory, r.Units.String(), r.Revenue.String(), num(r.RevenueShare),
		})
	}
	return t
}

func (a *Analysis) dailyTable() Table {
	t := Table{Name: FileDaily, Header: []string{"date", "revenue", "orders_count", "units"}}
	for _, r := range a.Daily {
		t.Rows = append(t.Rows, []string{r.Date, r.Revenue.String(), strconv.Itoa(r.Orders), r.Units.String()})
	}
	return t
}

func (a *Analysis) hourlyTable() Table {
	t := Table{Name: FileHourly, Header: []string{"hour", "revenue", "orders_count"}}
	for _, r := range a.Hourly {
		t.Rows = append(t.Rows, []string{strconv.Itoa(r.Hour), r.Revenue.String(), strconv.Itoa(r.Orders)})
	}
	return t
}

func (a *Analysis) monthlyTable() Table {
	t := Table{Name: FileMonthly, Header: []string{"month", "revenue", "orders_count"}}
	for _, r := range a.Monthly {
		t.Rows = append(t.Rows, []string{r.Month, r.Revenue.String(), strconv.Itoa(r.Orders)})
	}
	return t
}

func (a *Analysis) weekdayTable() Table {
	t := Table{Name: FileWeekdays, Header: []string{"weekday", "revenue", "orders_count"}}
	for _, r := range a.Weekdays {
		t.Rows = append(t.Rows, []string{r.Weekday, r.Revenue.String(), strconv.Itoa(r.Orders)})
	}
	return t
}

func (a *Analysis) basketTable() Table {
	t := Table{Name: FileBasket, Header: []string{"metric", "value"}}
	for _, r := range a.Basket {
		t.Rows = append(t.Rows, []string{r.Metric, num(r.Value)})
	}
	return t
}

func (a *Analysis) rfmTable() Table {
	t := Table{Name: FileRFM, Header: []string{
		"customer_id", "last_purchase", "frequency", "monetary", "recency_days",
		"recency_score", "frequency_score", "monetary_score", "rfm_score", "segment",
	}}
	for _, r := range a.RFM {
		t.Rows = append(t.Rows, []string{
			r.CustomerID,
			r.LastPurchase.Format(time.RFC3339),
			strconv.Itoa(r.Frequency),
			r.Monetary.String(),
			strconv.Itoa(r.RecencyDays),
			strconv.Itoa(r.RecencyScore),
			strconv.Itoa(r.FrequencyScore),
			strconv.Itoa(r.MonetaryScore),
			strconv.Itoa(r.Score),
			r.Segment,
		})
	}
	return t
}
