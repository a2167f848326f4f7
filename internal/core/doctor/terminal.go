package doctor

import (
	"context"
	"os"

	"golang.org/x/term"
)

// Package-level variables to allow test overrides.
var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	getenvFunc     = os.Getenv
)

// TerminalCheck verifies the interactive previewer can draw in the current
// terminal.
type TerminalCheck struct{}

// NewTerminalCheck creates a new terminal check.
func NewTerminalCheck() *TerminalCheck {
	return &TerminalCheck{}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Section {
	section := Section{Title: c.Name()}

	if isTerminalFunc() {
		section.Findings = append(section.Findings, Finding{
			Subject:  "stdout",
			Status: StatusPass,
			Detail: "is a terminal",
		})
	} else {
		section.Findings = append(section.Findings, Finding{
			Subject:  "stdout",
			Status: StatusWarn,
			Detail: "not a terminal (the previewer needs an interactive terminal)",
		})
	}

	switch t := getenvFunc("TERM"); t {
	case "":
		section.Findings = append(section.Findings, Finding{
			Subject:  "TERM",
			Status: StatusWarn,
			Detail: "not set",
		})
	case "dumb":
		section.Findings = append(section.Findings, Finding{
			Subject:  "TERM",
			Status: StatusFail,
			Detail: "dumb terminals cannot use the alternate screen",
		})
	default:
		section.Findings = append(section.Findings, Finding{
			Subject:  "TERM",
			Status: StatusPass,
			Detail: t,
		})
	}

	return section
}
