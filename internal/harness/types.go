package harness

import (
	"github.com/roach88/orderlens/internal/model"
	"github.com/roach88/orderlens/internal/report"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Analysis is nil when the run failed with the expected error.
	Analysis *report.Analysis `json:"-"`

	// Items are the enriched line items.
	Items []model.LineItem `json:"-"`

	// Artifacts maps file names to rendered content.
	Artifacts map[string][]byte `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Errors:    []string{},
		Artifacts: make(map[string][]byte),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
