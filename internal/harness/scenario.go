package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/orderlens/internal/report"
)

// Scenario defines an end-to-end analytics scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and prefixes its golden files.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Timezone is the reporting zone. Empty selects the default.
	Timezone string `yaml:"timezone,omitempty"`

	// TopProducts bounds the top products table. Zero selects the default.
	TopProducts int `yaml:"top_products,omitempty"`

	// Orders and Items are the CSV exports, header row included.
	Orders string `yaml:"orders"`
	Items  string `yaml:"items"`

	// Assertions validate the analysis and its artifacts.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Golden lists artifact file names compared against golden files.
	Golden []string `yaml:"golden,omitempty"`

	// ExpectError is a substring of the fatal error the inputs must
	// produce. Empty means the run must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates one fact about the analysis.
type Assertion struct {
	// Type selects the check. See the package documentation.
	Type string `yaml:"type"`

	// Metric and Value are used by kpi and basket.
	Metric string `yaml:"metric,omitempty"`
	Value  string `yaml:"value,omitempty"`

	// Products is the expected ranking prefix (used by top_products).
	Products []string `yaml:"products,omitempty"`

	// Item, Category and Subcategory are used by item_category.
	Item        string `yaml:"item,omitempty"`
	Category    string `yaml:"category,omitempty"`
	Subcategory string `yaml:"subcategory,omitempty"`

	// Customer and Segment are used by rfm_segment.
	Customer string `yaml:"customer,omitempty"`
	Segment  string `yaml:"segment,omitempty"`

	// Artifact is the file name used by row_count and artifact_absent.
	Artifact string `yaml:"artifact,omitempty"`

	// Count is the expected number of data rows (used by row_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertKPI            = "kpi"
	AssertBasket         = "basket"
	AssertTopProducts    = "top_products"
	AssertItemCategory   = "item_category"
	AssertRFMSegment     = "rfm_segment"
	AssertRowCount       = "row_count"
	AssertArtifactAbsent = "artifact_absent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Orders == "" {
		return fmt.Errorf("orders export is required")
	}
	if s.Items == "" {
		return fmt.Errorf("items export is required")
	}
	if s.TopProducts < 0 {
		return fmt.Errorf("top_products must be non-negative")
	}
	if s.ExpectError == "" && len(s.Assertions) == 0 && len(s.Golden) == 0 {
		return fmt.Errorf("assertions or golden artifacts are required")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	for i, name := range s.Golden {
		if !isArtifact(name) {
			return fmt.Errorf("golden[%d]: unknown artifact %q", i, name)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertKPI, AssertBasket:
		if a.Metric == "" || a.Value == "" {
			return fmt.Errorf("assertions[%d]: metric and value are required for %s", index, a.Type)
		}
	case AssertTopProducts:
		if len(a.Products) == 0 {
			return fmt.Errorf("assertions[%d]: products list is required for top_products", index)
		}
	case AssertItemCategory:
		if a.Item == "" || a.Category == "" || a.Subcategory == "" {
			return fmt.Errorf("assertions[%d]: item, category and subcategory are required for item_category", index)
		}
	case AssertRFMSegment:
		if a.Customer == "" || a.Segment == "" {
			return fmt.Errorf("assertions[%d]: customer and segment are required for rfm_segment", index)
		}
	case AssertRowCount:
		if !isArtifact(a.Artifact) {
			return fmt.Errorf("assertions[%d]: unknown artifact %q for row_count", index, a.Artifact)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertArtifactAbsent:
		if !isArtifact(a.Artifact) {
			return fmt.Errorf("assertions[%d]: unknown artifact %q for artifact_absent", index, a.Artifact)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

var artifactNames = map[string]bool{
	report.FileKPIs:          true,
	report.FileTopProducts:   true,
	report.FilePareto:        true,
	report.FileTopCategories: true,
	report.FileDaily:         true,
	report.FileHourly:        true,
	report.FileMonthly:       true,
	report.FileWeekdays:      true,
	report.FileBasket:        true,
	report.FileRFM:           true,
	report.FileSummary:       true,
}

func isArtifact(name string) bool {
	return artifactNames[name]
}
