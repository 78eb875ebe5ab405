package harness

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario, fails the test on assertion errors and
// compares every artifact listed under golden against
// testdata/golden/{scenario.Name}_{artifact}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, name := range scenario.Golden {
		data, ok := result.Artifacts[name]
		if !ok {
			return fmt.Errorf("artifact %s not produced", name)
		}
		g.Assert(t, GoldenName(scenario.Name, name), data)
	}
	return nil
}

// GoldenName is the golden file name, without suffix, for an artifact of a
// scenario.
func GoldenName(scenario, artifact string) string {
	return scenario + "_" + strings.TrimSuffix(artifact, filepath.Ext(artifact))
}
