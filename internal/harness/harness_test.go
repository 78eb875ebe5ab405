package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/orderlens/internal/report"
)

// TestScenarios runs every scenario under testdata/scenarios.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenarios found")

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err, "failed to load %s", path)
			assert.Equal(t, name, scenario.Name, "scenario name should match its file")

			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestRun_ProducesEveryArtifact(t *testing.T) {
	result, err := Run(validScenario())
	require.NoError(t, err)
	require.True(t, result.Pass, "errors=%v", result.Errors)

	for _, name := range []string{
		report.FileKPIs, report.FileTopProducts, report.FilePareto,
		report.FileTopCategories, report.FileDaily, report.FileHourly,
		report.FileMonthly, report.FileWeekdays, report.FileBasket,
		report.FileRFM, report.FileSummary,
	} {
		assert.Contains(t, result.Artifacts, name)
	}
	assert.Len(t, result.Items, 1)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, 1, result.Analysis.KPIs.TotalOrders)
}

func TestRun_IsDeterministic(t *testing.T) {
	first, err := Run(validScenario())
	require.NoError(t, err)
	second, err := Run(validScenario())
	require.NoError(t, err)

	assert.Equal(t, first.Artifacts, second.Artifacts)
}

func TestRun_FailedAssertionRecorded(t *testing.T) {
	scenario := validScenario()
	scenario.Assertions = []Assertion{
		{Type: AssertKPI, Metric: "total_orders", Value: "2"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "total_orders = 2")
}

func TestRun_ExpectErrorMatched(t *testing.T) {
	scenario := validScenario()
	scenario.Orders += "o1,c1,2024-03-01T15:00:00Z,100000,100000,0,0,0\n"
	scenario.ExpectError = "duplicate order id"

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors=%v", result.Errors)
	assert.Nil(t, result.Analysis)
}

func TestRun_ExpectErrorButSucceeded(t *testing.T) {
	scenario := validScenario()
	scenario.ExpectError = "duplicate order id"

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "run succeeded")
}

func TestRun_ExpectErrorMismatch(t *testing.T) {
	scenario := validScenario()
	scenario.Items = "id\n"
	scenario.ExpectError = "duplicate order id"

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "missing required column")
}

func TestRun_UnexpectedErrorReturned(t *testing.T) {
	scenario := validScenario()
	scenario.Timezone = "Mars/Olympus_Mons"

	_, err := Run(scenario)
	require.Error(t, err)
}

func TestGoldenName(t *testing.T) {
	assert.Equal(t, "checkout_mix_top_categories", GoldenName("checkout_mix", "top_categories.csv"))
	assert.Equal(t, "s_analysis_summary", GoldenName("s", "analysis_summary.json"))
}
