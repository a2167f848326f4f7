package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/preview/internal/app"
)

// PanelIDCompleter returns a ShellCompleteFunc that suggests persisted panel
// IDs as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func PanelIDCompleter(app *app.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Store == nil {
			return
		}
		states, err := app.Store.List(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, st := range states {
			_, _ = fmt.Fprintln(w, st.PanelID)
		}
	}
}
