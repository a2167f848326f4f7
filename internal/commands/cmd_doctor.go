package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/preview/internal/app"
	"github.com/colonyops/preview/internal/core/doctor"
	"github.com/colonyops/preview/internal/core/styles"
	"github.com/colonyops/preview/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *app.App
	format  string
	autofix bool
}

// NewDoctorCmd creates a new doctor command.
func NewDoctorCmd(flags *Flags, app *app.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

// Register adds the doctor command to the application.
func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your preview setup",
		UsageText:   "preview doctor [options]",
		Description: "Runs diagnostic checks on configuration, persisted panels, and the terminal.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "automatically fix issues (e.g., delete panels that can no longer be restored)",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	report := cmd.app.RunChecks(ctx, cmd.flags.ConfigPath, cmd.autofix)

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, report); err != nil {
			return err
		}
	} else {
		cmd.outputText(c.Root().ErrWriter, report)
	}

	if !report.Healthy {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *DoctorCmd) outputText(w io.Writer, report doctor.Report) {
	divider := styles.DividerStyle.Render(strings.Repeat("─", 40))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render("Preview Doctor"))
	_, _ = fmt.Fprintln(w, divider)
	_, _ = fmt.Fprintln(w)

	for _, section := range report.Sections {
		_, _ = fmt.Fprintln(w, styles.TextBoldStyle.Render(section.Title))

		for _, f := range section.Findings {
			var detail string
			if f.Detail != "" {
				detail = " " + styles.TextMutedStyle.Render(f.Detail)
			}
			_, _ = fmt.Fprintf(w, "  %s %s%s\n", statusIcon(f.Status), f.Subject, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	sum := report.Summary
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		styles.TextSuccessStyle.Render(fmt.Sprintf("%d passed", sum.Passed)),
		styles.TextWarningStyle.Render(fmt.Sprintf("%d warnings", sum.Warned)),
		styles.TextErrorStyle.Render(fmt.Sprintf("%d failed", sum.Failed)),
	)

	if hint := report.Hint(); hint != "" && !cmd.autofix {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.TextMutedStyle.Render(hint))
	}
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusPass:
		return styles.TextSuccessStyle.Render("✔")
	case doctor.StatusWarn:
		return styles.TextWarningStyle.Render("●")
	default:
		return styles.TextErrorStyle.Render("✘")
	}
}
