// Package doctor diagnoses a preview installation: the config file, the
// persisted panel states sessions are restored from, and the terminal the
// interactive previewer draws in.
package doctor

import (
	"context"
	"fmt"
)

// Status grades a single finding.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Finding is one diagnosed fact, such as a config field or a persisted panel.
type Finding struct {
	Subject string `json:"subject"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	// Removable marks a persisted panel that can no longer be restored.
	// Autofix deletes it from the state store.
	Removable bool `json:"removable,omitempty"`
}

// Section groups the findings of one check.
type Section struct {
	Title    string    `json:"title"`
	Findings []Finding `json:"findings"`
}

// Check diagnoses one part of the installation.
type Check interface {
	Name() string
	Run(ctx context.Context) Section
}

// Tally counts findings by status. Removable counts unrestorable panels still
// present in the store.
type Tally struct {
	Passed    int `json:"passed"`
	Warned    int `json:"warned"`
	Failed    int `json:"failed"`
	Removable int `json:"removable"`
}

// Report is the outcome of a doctor run.
type Report struct {
	Healthy  bool      `json:"healthy"`
	Summary  Tally     `json:"summary"`
	Sections []Section `json:"checks"`
}

// Diagnose runs checks in order and builds a report from their sections.
func Diagnose(ctx context.Context, checks ...Check) Report {
	sections := make([]Section, 0, len(checks))
	for _, check := range checks {
		sections = append(sections, check.Run(ctx))
	}
	return Build(sections)
}

// Build tallies sections into a report. A report is healthy when nothing failed.
func Build(sections []Section) Report {
	var t Tally
	for _, s := range sections {
		for _, f := range s.Findings {
			switch f.Status {
			case StatusPass:
				t.Passed++
			case StatusWarn:
				t.Warned++
			case StatusFail:
				t.Failed++
			}
			if f.Removable && f.Status != StatusPass {
				t.Removable++
			}
		}
	}

	return Report{
		Healthy:  t.Failed == 0,
		Summary:  t,
		Sections: sections,
	}
}

// Hint suggests autofix when unrestorable panels remain, or returns "".
func (r Report) Hint() string {
	switch n := r.Summary.Removable; n {
	case 0:
		return ""
	case 1:
		return "1 persisted panel cannot be restored; run 'preview doctor --autofix' to remove it"
	default:
		return fmt.Sprintf("%d persisted panels cannot be restored; run 'preview doctor --autofix' to remove them", n)
	}
}
