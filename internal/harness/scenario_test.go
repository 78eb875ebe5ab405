package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioOrders = `id,customer.id,createdAt,totalPriceSet.shopMoney.amount,subtotalPriceSet.shopMoney.amount,totalDiscountsSet.shopMoney.amount,totalShippingPriceSet.shopMoney.amount,totalTaxSet.shopMoney.amount
o1,c1,2024-03-01T15:00:00Z,100000,100000,0,0,0
`

const scenarioItems = `id,__parentId,variant.product.id,variant.product.title,variant.product.vendor,variant.product.productType,variant.title,originalUnitPriceSet.shopMoney.amount,discountedUnitPriceSet.shopMoney.amount,quantity
i1,o1,whey,Whey Protein Gold 2lb,ON,,,100000,,1
`

// validScenario returns a minimal scenario that passes validation.
func validScenario() *Scenario {
	return &Scenario{
		Name:        "single_order",
		Description: "One order, one item",
		Orders:      scenarioOrders,
		Items:       scenarioItems,
		Assertions: []Assertion{
			{Type: AssertKPI, Metric: "total_orders", Value: "1"},
		},
	}
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "test.yaml")

	content := `
name: test_scenario
description: "Test scenario for validation"
timezone: UTC
top_products: 5
orders: |
  id,customer.id,createdAt
  o1,c1,2024-03-01T15:00:00Z
items: |
  id,__parentId
  i1,o1
assertions:
  - type: kpi
    metric: total_orders
    value: "1"
golden:
  - top_products.csv
`
	require.NoError(t, os.WriteFile(scenarioPath, []byte(content), 0644))

	scenario, err := LoadScenario(scenarioPath)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, "UTC", scenario.Timezone)
	assert.Equal(t, 5, scenario.TopProducts)
	assert.Contains(t, scenario.Orders, "o1,c1,")
	assert.Len(t, scenario.Assertions, 1)
	assert.Equal(t, []string{"top_products.csv"}, scenario.Golden)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	content := `
name: typo
description: "assertion instead of assertions"
orders: "id\n"
items: "id\n"
assertion:
  - type: kpi
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateScenario(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{"valid", func(s *Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"missing orders", func(s *Scenario) { s.Orders = "" }, "orders export is required"},
		{"missing items", func(s *Scenario) { s.Items = "" }, "items export is required"},
		{"negative top products", func(s *Scenario) { s.TopProducts = -1 }, "top_products must be non-negative"},
		{"nothing to check", func(s *Scenario) { s.Assertions = nil }, "assertions or golden artifacts are required"},
		{"expect error only", func(s *Scenario) {
			s.Assertions = nil
			s.ExpectError = "duplicate order id"
		}, ""},
		{"unknown golden artifact", func(s *Scenario) { s.Golden = []string{"report.pdf"} }, `golden[0]: unknown artifact "report.pdf"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"missing type", Assertion{}, "type is required"},
		{"unknown type", Assertion{Type: "chart"}, `unknown assertion type "chart"`},
		{"kpi without value", Assertion{Type: AssertKPI, Metric: "total_orders"}, "metric and value are required for kpi"},
		{"basket without metric", Assertion{Type: AssertBasket, Value: "1"}, "metric and value are required for basket"},
		{"top products empty", Assertion{Type: AssertTopProducts}, "products list is required"},
		{"item category partial", Assertion{Type: AssertItemCategory, Item: "i1"}, "item, category and subcategory are required"},
		{"rfm without segment", Assertion{Type: AssertRFMSegment, Customer: "c1"}, "customer and segment are required"},
		{"row count unknown artifact", Assertion{Type: AssertRowCount, Artifact: "x.csv"}, `unknown artifact "x.csv"`},
		{"row count negative", Assertion{Type: AssertRowCount, Artifact: "pareto.csv", Count: -1}, "count must be non-negative"},
		{"absent unknown artifact", Assertion{Type: AssertArtifactAbsent}, `unknown artifact ""`},
		{"row count ok", Assertion{Type: AssertRowCount, Artifact: "pareto.csv"}, ""},
		{"absent ok", Assertion{Type: AssertArtifactAbsent, Artifact: "rfm_segments.csv"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssertion(0, &tt.assertion)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "assertions[0]")
		})
	}
}
