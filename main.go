package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/preview/internal/app"
	"github.com/colonyops/preview/internal/commands"
	"github.com/colonyops/preview/internal/core/config"
	"github.com/colonyops/preview/internal/printer"
	"github.com/colonyops/preview/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser  func()
		previewApp = &app.App{}
	)

	flags := &commands.Flags{}

	root := commands.Root(flags, previewApp, build())

	root.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}

		// Always log to a file; the TUI owns the terminal.
		logFile := flags.LogFile
		if logFile == "" {
			logFile = cfg.LogFile()
		}
		logger, closer, err := logutils.New(flags.LogLevel, logFile)
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer

		a, err := app.New(cfg, flags.ConfigPath)
		if err != nil {
			return ctx, fmt.Errorf("setup app: %w", err)
		}

		// Commands already hold a pointer to previewApp.
		*previewApp = *a

		return printer.NewContext(ctx, printer.New(c.Root().Writer)), nil
	}

	root.After = func(ctx context.Context, c *cli.Command) error {
		var closeErr error
		if previewApp.Registry != nil {
			closeErr = previewApp.Close()
			if closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close app")
			}
		}

		if logCloser != nil {
			logCloser()
		}
		return closeErr
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
