package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/preview/internal/app"
	"github.com/colonyops/preview/internal/printer"
	"github.com/colonyops/preview/internal/profiler"
	"github.com/colonyops/preview/internal/tui"
	"github.com/colonyops/preview/pkg/utils"
)

type TuiCmd struct {
	flags *Flags
	app   *app.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *app.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof and preview debug HTTP endpoints on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("PREVIEW_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	docs, err := documentArgs(c.Args().Slice())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The alt screen hides anything written while the program runs, so
	// notices are held until it exits.
	notices := &utils.DeferredWriter{}
	p := printer.New(notices)
	defer func() {
		if notices.Pending() {
			_ = notices.Flush(c.Root().ErrWriter)
		}
	}()

	cmd.app.Start(ctx)

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		profServer.Handle("/debug/previews", cmd.app.DebugHandler())
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		url := fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())
		log.Info().Str("url", url).Msg("profiler endpoint available")
		p.Infof("profiler was available at %s", url)
	}

	restored, err := cmd.app.RestorePanels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to restore previews")
		p.Warnf("some previews could not be restored: %v", err)
	}
	log.Debug().Int("panels", restored).Msg("restored previews")

	m := tui.New(ctx, tui.Options{
		Registry:  cmd.app.Registry,
		Workspace: cmd.app.Workspace,
		Scroll:    cmd.app.Scroll,
		Store:     cmd.app.Store,
		Loop:      cmd.app.Loop,
		Bus:       cmd.app.Bus,
		Documents: docs,
	})

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
