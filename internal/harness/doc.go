// Package harness runs end-to-end analytics scenarios.
//
// A scenario carries an orders export and a line-items export inline,
// runs them through loading, enrichment and report building, then checks
// assertions against the resulting tables and artifacts.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	timezone: America/Bogota   # optional
//	top_products: 25           # optional
//	orders: |
//	  id,customer.id,createdAt,...
//	  o1,c1,2024-03-01T15:00:00Z,...
//	items: |
//	  id,__parentId,variant.product.id,...
//	assertions:
//	  - type: kpi
//	    metric: total_orders
//	    value: "3"
//	golden:
//	  - top_categories.csv
//
// # Assertion Types
//
//   - kpi: a KPI overview metric equals value (decimal comparison)
//   - basket: a basket-shape metric equals value
//   - top_products: the ranking starts with the listed product ids
//   - item_category: a line item got the given category and subcategory
//   - rfm_segment: a customer got the given segment label
//   - row_count: an artifact table has count data rows
//   - artifact_absent: an artifact is not produced
//
// A scenario may instead set expect_error to a substring of the fatal
// error the inputs must produce; assertions are then optional.
//
// # Golden Files
//
// Artifacts listed under golden are compared byte for byte against
// testdata/golden/{name}_{artifact}.golden. To regenerate them, run:
//
//	go test ./internal/harness -update
package harness
