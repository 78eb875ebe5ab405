package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/orderlens/internal/enrich"
	"github.com/roach88/orderlens/internal/loader"
	"github.com/roach88/orderlens/internal/model"
	"github.com/roach88/orderlens/internal/report"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Parse the inline exports
// 2. Enrich and build the analysis
// 3. Render every artifact in memory
// 4. Evaluate assertions
//
// A fatal stage error passes only if it matches ExpectError. Errors that
// prevent evaluation are returned, failed assertions are recorded in the
// result.
func Run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	tables, err := buildTables(scenario)
	if err != nil {
		if scenario.ExpectError != "" && strings.Contains(err.Error(), scenario.ExpectError) {
			return result, nil
		}
		if scenario.ExpectError != "" {
			result.AddError(fmt.Sprintf("expected error containing %q, got %q", scenario.ExpectError, err.Error()))
			return result, nil
		}
		return nil, err
	}
	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected error containing %q, run succeeded", scenario.ExpectError))
		return result, nil
	}

	analysis := report.Build(tables, report.Options{TopProducts: scenario.TopProducts})
	result.Analysis = analysis
	result.Items = tables.Items

	for _, t := range analysis.Tables() {
		data, err := t.CSV()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", t.Name, err)
		}
		result.Artifacts[t.Name] = data
	}
	summary, err := report.MarshalSummary(analysis.Summary())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", report.FileSummary, err)
	}
	result.Artifacts[report.FileSummary] = summary

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

func buildTables(scenario *Scenario) (*model.Tables, error) {
	orders, err := loader.ReadOrders(strings.NewReader(scenario.Orders))
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	items, err := loader.ReadItems(strings.NewReader(scenario.Items))
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}

	// Suppress logs in tests
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := enrich.New(scenario.Timezone, enrich.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return e.Enrich(orders, items)
}
