package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/preview/internal/app"
	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/render"
)

type RenderCmd struct {
	flags *Flags
	app   *app.App

	// flags
	width int
	theme string
}

// NewRenderCmd creates a new render command
func NewRenderCmd(flags *Flags, app *app.App) *RenderCmd {
	return &RenderCmd{flags: flags, app: app}
}

// Register adds the render command to the application
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render documents to stdout",
		UsageText: "preview render [--width N] [--theme NAME] FILE...",
		Description: `Renders each file the way a preview panel would, using the configured
theme, word wrap and per-path overrides.

Width defaults to the terminal width when stdout is a terminal, otherwise to
the configured word wrap.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "width",
				Aliases:     []string{"w"},
				Usage:       "word wrap width",
				Destination: &cmd.width,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "theme name (overrides config)",
				Destination: &cmd.theme,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one file is required")
	}
	docs, err := documentArgs(c.Args().Slice())
	if err != nil {
		return err
	}

	w := c.Root().Writer
	for _, doc := range docs {
		settings := cmd.app.Display.Get(string(doc))
		if cmd.theme != "" {
			settings.Theme = cmd.theme
		}
		settings.WordWrap = cmd.wrapWidth(settings.WordWrap)

		out, err := cmd.app.Renderer.Render(ctx, doc, preview.RenderContext{Settings: settings})
		if err != nil {
			_, _ = fmt.Fprint(c.Root().ErrWriter, render.ErrorView(doc, err))
			return fmt.Errorf("render %s: %w", doc.Base(), err)
		}
		if _, err := fmt.Fprint(w, out); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *RenderCmd) wrapWidth(configured int) int {
	if cmd.width > 0 {
		return cmd.width
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}
	return configured
}
