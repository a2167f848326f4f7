package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/preview/internal/app"
	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/printer"
	"github.com/colonyops/preview/pkg/iojson"
)

type StateCmd struct {
	flags *Flags
	app   *app.App

	// flags
	jsonOutput bool
	importFile iojson.FileReader[[]preview.StoredState]
}

// NewStateCmd creates a new state command
func NewStateCmd(flags *Flags, app *app.App) *StateCmd {
	return &StateCmd{flags: flags, app: app}
}

// stateEntry is one persisted panel as reported by `state ls --json`.
type stateEntry struct {
	PanelID   string    `json:"panel_id"`
	Slot      int       `json:"slot"`
	Resource  string    `json:"resource,omitempty"`
	Locked    bool      `json:"locked"`
	Line      *int      `json:"line,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	Error     string    `json:"error,omitempty"`
}

// Register adds the state command to the application
func (cmd *StateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "state",
		Usage: "Inspect and manage persisted preview panels",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List persisted panels",
				UsageText: "preview state ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:          "rm",
				Usage:         "Remove persisted panels by ID",
				UsageText:     "preview state rm PANEL_ID...",
				ShellComplete: PanelIDCompleter(cmd.app),
				Action:        cmd.runRemove,
			},
			{
				Name:      "export",
				Usage:     "Write persisted panels as JSON",
				UsageText: "preview state export > panels.json",
				Action:    cmd.runExport,
			},
			{
				Name:      "import",
				Usage:     "Save panels from a JSON export",
				UsageText: "preview state import [-f FILE]",
				Flags:     []cli.Flag{cmd.importFile.Flag()},
				Action:    cmd.runImport,
			},
			{
				Name:      "clear",
				Usage:     "Remove every persisted panel",
				UsageText: "preview state clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *StateCmd) entries(ctx context.Context) ([]stateEntry, error) {
	states, err := cmd.app.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}

	entries := make([]stateEntry, 0, len(states))
	for _, st := range states {
		e := stateEntry{
			PanelID:   st.PanelID,
			Slot:      int(st.Slot),
			UpdatedAt: st.UpdatedAt,
		}
		decoded, err := preview.DecodeState(st.Blob)
		if err != nil {
			e.Error = err.Error()
		} else {
			e.Resource = string(decoded.Resource)
			e.Locked = decoded.Locked
			e.Line = decoded.Line
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (cmd *StateCmd) runList(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.entries(ctx)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, entries)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No persisted panels")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PANEL\tSLOT\tLOCKED\tRESOURCE\tUPDATED")
	for _, e := range entries {
		resource := e.Resource
		if e.Error != "" {
			resource = "(invalid: " + e.Error + ")"
		} else {
			resource = preview.Resource(resource).Path()
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%s\n",
			e.PanelID, e.Slot, e.Locked, resource, e.UpdatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func (cmd *StateCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one panel ID is required")
	}

	p := printer.Ctx(ctx)
	var missing int
	for _, id := range c.Args().Slice() {
		err := cmd.app.Store.Delete(ctx, id)
		switch {
		case errors.Is(err, preview.ErrNotFound):
			p.Warnf("panel %s not found", id)
			missing++
		case err != nil:
			return fmt.Errorf("delete %s: %w", id, err)
		default:
			p.Successf("removed %s", id)
		}
	}

	if missing > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *StateCmd) runClear(ctx context.Context, _ *cli.Command) error {
	if err := cmd.app.Store.Clear(ctx); err != nil {
		return fmt.Errorf("clear states: %w", err)
	}
	printer.Ctx(ctx).Successf("cleared persisted panels")
	return nil
}

func (cmd *StateCmd) runExport(ctx context.Context, c *cli.Command) error {
	states, err := cmd.app.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("list states: %w", err)
	}
	if states == nil {
		states = []preview.StoredState{}
	}
	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, states)
}

func (cmd *StateCmd) runImport(ctx context.Context, _ *cli.Command) error {
	states, err := cmd.importFile.Read()
	if err != nil {
		return err
	}

	for _, st := range states {
		if _, err := preview.DecodeState(st.Blob); err != nil {
			return fmt.Errorf("panel %s: %w", st.PanelID, err)
		}
	}
	for _, st := range states {
		if err := cmd.app.Store.Save(ctx, st); err != nil {
			return fmt.Errorf("save %s: %w", st.PanelID, err)
		}
	}

	printer.Ctx(ctx).Successf("imported %d panel(s)", len(states))
	return nil
}
