package app

import (
	"context"

	"github.com/colonyops/preview/internal/core/doctor"
)

// RunChecks diagnoses the config, the persisted panels and the terminal.
func (a *App) RunChecks(ctx context.Context, configPath string, autofix bool) doctor.Report {
	return doctor.Diagnose(ctx,
		doctor.NewConfigCheck(a.Config, configPath),
		doctor.NewStateCheck(a.Store, autofix),
		doctor.NewTerminalCheck(),
	)
}
