package harness

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against a successful result
// and returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertKPI:
		return assertKPI(result, a)
	case AssertBasket:
		return assertBasket(result, a)
	case AssertTopProducts:
		return assertTopProducts(result, a)
	case AssertItemCategory:
		return assertItemCategory(result, a)
	case AssertRFMSegment:
		return assertRFMSegment(result, a)
	case AssertRowCount:
		return assertRowCount(result, a)
	case AssertArtifactAbsent:
		if _, ok := result.Artifacts[a.Artifact]; ok {
			return &AssertionError{Type: a.Type, Expected: a.Artifact + " absent", Actual: "present"}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertKPI(result *Result, a Assertion) error {
	want, err := decimal.NewFromString(a.Value)
	if err != nil {
		return fmt.Errorf("kpi %s: bad value %q: %w", a.Metric, a.Value, err)
	}
	for _, m := range result.Analysis.KPIs.Metrics() {
		if m.Name != a.Metric {
			continue
		}
		if !m.Value.Equal(want) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s = %s", a.Metric, want),
				Actual:   fmt.Sprintf("%s = %s", a.Metric, m.Value),
			}
		}
		return nil
	}
	return &AssertionError{Type: a.Type, Expected: "metric " + a.Metric, Actual: "no such metric"}
}

func assertBasket(result *Result, a Assertion) error {
	want, err := strconv.ParseFloat(a.Value, 64)
	if err != nil {
		return fmt.Errorf("basket %s: bad value %q: %w", a.Metric, a.Value, err)
	}
	for _, m := range result.Analysis.Basket {
		if m.Metric != a.Metric {
			continue
		}
		if math.Abs(m.Value-want) > 1e-9 {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s = %v", a.Metric, want),
				Actual:   fmt.Sprintf("%s = %v", a.Metric, m.Value),
			}
		}
		return nil
	}
	return &AssertionError{Type: a.Type, Expected: "metric " + a.Metric, Actual: "no such metric"}
}

func assertTopProducts(result *Result, a Assertion) error {
	var got []string
	for _, p := range result.Analysis.TopProducts {
		got = append(got, p.ProductID)
	}
	if len(got) < len(a.Products) || strings.Join(got[:len(a.Products)], ",") != strings.Join(a.Products, ",") {
		return &AssertionError{
			Type:     a.Type,
			Expected: "ranking starting " + strings.Join(a.Products, ", "),
			Actual:   strings.Join(got, ", "),
		}
	}
	return nil
}

func assertItemCategory(result *Result, a Assertion) error {
	for _, item := range result.Items {
		if item.ID != a.Item {
			continue
		}
		if item.Category != a.Category || item.Subcategory != a.Subcategory {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s: %s / %s", a.Item, a.Category, a.Subcategory),
				Actual:   fmt.Sprintf("%s: %s / %s", a.Item, item.Category, item.Subcategory),
			}
		}
		return nil
	}
	return &AssertionError{Type: a.Type, Expected: "line item " + a.Item, Actual: "no such item"}
}

func assertRFMSegment(result *Result, a Assertion) error {
	for _, r := range result.Analysis.RFM {
		if r.CustomerID != a.Customer {
			continue
		}
		if r.Segment != a.Segment {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s in %s", a.Customer, a.Segment),
				Actual:   fmt.Sprintf("%s in %s (score %d)", a.Customer, r.Segment, r.Score),
			}
		}
		return nil
	}
	return &AssertionError{Type: a.Type, Expected: "customer " + a.Customer, Actual: "not scored"}
}

func assertRowCount(result *Result, a Assertion) error {
	data, ok := result.Artifacts[a.Artifact]
	if !ok {
		return &AssertionError{Type: a.Type, Expected: a.Artifact + " present", Actual: "absent"}
	}
	// Rendered tables have one header line and end with a newline
	rows := bytes.Count(data, []byte("\n")) - 1
	if rows != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d rows in %s", a.Count, a.Artifact),
			Actual:   fmt.Sprintf("%d rows", rows),
		}
	}
	return nil
}
