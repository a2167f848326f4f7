package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/colonyops/preview/internal/app"
)

// Root builds the command tree shared by the binary and the docs generator.
// The caller adds Before and After hooks that populate a.
func Root(flags *Flags, a *app.App, version string) *cli.Command {
	root := &cli.Command{
		Name:      "preview",
		Usage:     "Live markdown previews in the terminal",
		UsageText: "preview [global options] [command [command options]] [FILE...]",
		Description: `Preview renders markdown documents into panels laid out in up to three
slots. Unlocked previews follow the active document; locked previews stay on
the document they were opened for.

Run 'preview FILE...' to open the interactive previewer for the given files.
Open panels are saved on exit and restored on the next start.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("PREVIEW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/preview.log)",
				Sources:     cli.EnvVars("PREVIEW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("PREVIEW_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("PREVIEW_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
	}

	tuiCmd := NewTuiCmd(flags, a)

	root = NewRenderCmd(flags, a).Register(root)
	root = NewStateCmd(flags, a).Register(root)
	root = NewConfigValidateCmd(flags, a).Register(root)
	root = NewDoctorCmd(flags, a).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// The TUI is the default action; positional arguments are documents.
	root.Action = tuiCmd.Run

	return root
}
