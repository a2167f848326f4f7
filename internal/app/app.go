// Package app wires the preview registry to its collaborators. Commands and
// the TUI consume App instead of assembling raw dependencies.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/colonyops/preview/internal/core/config"
	"github.com/colonyops/preview/internal/core/display"
	"github.com/colonyops/preview/internal/core/docwatch"
	"github.com/colonyops/preview/internal/core/eventbus"
	"github.com/colonyops/preview/internal/core/logging"
	"github.com/colonyops/preview/internal/core/loop"
	"github.com/colonyops/preview/internal/core/preview"
	"github.com/colonyops/preview/internal/core/scroll"
	"github.com/colonyops/preview/internal/core/styles"
	"github.com/colonyops/preview/internal/host"
	"github.com/colonyops/preview/internal/render"
	"github.com/colonyops/preview/internal/store/jsonfile"
	"github.com/colonyops/preview/internal/store/sqlite"
)

const (
	loopBuffer = 256
	busBuffer  = 64
)

// App is the central entry point for preview operations.
type App struct {
	Config    *config.Config
	Loop      *loop.Loop
	Bus       *eventbus.EventBus
	Display   *display.Store
	Scroll    *scroll.Monitor
	Renderer  *render.Markdown
	Workspace *host.Workspace
	Registry  *preview.Registry
	Store     preview.StateStore

	configPath string
	docs       *docwatch.Watcher
	db         *sqlite.DB
	log        zerolog.Logger
}

// New builds an App from a loaded config. configPath is watched for changes
// once Start is called.
func New(cfg *config.Config, configPath string) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	applyTheme(cfg.Preview.Theme)

	a := &App{
		Config:     cfg,
		Loop:       loop.New(loopBuffer),
		Bus:        eventbus.New(busBuffer),
		Display:    cfg.DisplayStore(),
		Scroll:     scroll.NewMonitor(),
		Renderer:   render.NewMarkdown(),
		Workspace:  host.New(),
		configPath: configPath,
		log:        logging.Component("app"),
	}
	loop.RegisterDebugLogger(a.Loop, logging.Component("loop"))
	eventbus.RegisterDebugLogger(a.Bus, logging.Component("eventbus"))

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	a.Store = store

	opts := preview.Options{
		Host:      a.Workspace,
		Renderer:  a.Renderer,
		Config:    a.Display,
		Scroll:    a.Scroll,
		Exec:      a.Loop,
		Context:   a.Workspace,
		Bus:       a.Bus,
		ErrorView: render.ErrorView,
	}
	if cfg.Watch.Documents {
		docs, err := docwatch.New(a.Loop.Post, cfg.Watch.Debounce)
		if err != nil {
			a.log.Warn().Err(err).Msg("document watching disabled")
		} else {
			a.docs = docs
			opts.Documents = docs
		}
	}

	a.Registry = preview.NewRegistry(opts)
	a.Display.OnChange(a.Registry.PropagateConfigChange)

	return a, nil
}

func (a *App) openStore() (preview.StateStore, error) {
	switch a.Config.State.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(a.Config.StatePath())
		if err != nil {
			return nil, fmt.Errorf("open state database: %w", err)
		}
		a.db = db

		jsonPath := filepath.Join(a.Config.DataDir, config.JSONStateFile)
		n, err := sqlite.MigrateFromJSON(context.Background(), db, jsonPath)
		if err != nil {
			a.log.Warn().Err(err).Msg("failed to migrate JSON panel states")
		} else if n > 0 {
			a.log.Info().Int("panels", n).Msg("migrated JSON panel states")
		}
		return sqlite.NewStateStore(db), nil
	default:
		return jsonfile.NewStateStore(a.Config.StatePath()), nil
	}
}

// Start runs the event bus and, when enabled, the config watcher. Both stop
// when ctx is done.
func (a *App) Start(ctx context.Context) {
	go a.Bus.Start(ctx)

	if !a.Config.Watch.Config || a.configPath == "" {
		return
	}
	go func() {
		err := config.Watch(ctx, a.configPath, a.Config.DataDir, a.Config.Watch.Debounce, func(cfg *config.Config, err error) {
			if err != nil {
				return
			}
			a.Loop.Post(func() { a.ApplyConfig(cfg) })
		})
		if err != nil {
			a.log.Error().Err(err).Str("path", a.configPath).Msg("config watch stopped")
		}
	}()
}

// ApplyConfig swaps in reloaded display settings. Every session re-renders
// through the display store's change hook. Must run on the event loop.
func (a *App) ApplyConfig(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		a.log.Warn().Err(err).Msg("ignoring invalid config")
		return
	}
	a.Config.Preview = cfg.Preview
	a.Config.Overrides = cfg.Overrides
	applyTheme(cfg.Preview.Theme)
	a.Display.Replace(cfg.Preview, cfg.Overrides)
	a.Bus.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Path: a.configPath})
}

// RestorePanels rebuilds the previews saved by the last session.
func (a *App) RestorePanels(ctx context.Context) (int, error) {
	return a.Workspace.Restore(ctx, a.Registry, a.Store)
}

// PersistPanels saves every open preview.
func (a *App) PersistPanels(ctx context.Context) (int, error) {
	return a.Workspace.Persist(ctx, a.Registry, a.Store)
}

// Close disposes every session and releases watchers and the database.
func (a *App) Close() error {
	a.Registry.Shutdown()
	a.Loop.Close()

	var errs []error
	if a.docs != nil {
		errs = append(errs, a.docs.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

// applyTheme switches the chrome palette when theme names one. Glamour
// standard styles leave the chrome on its default palette.
func applyTheme(theme string) {
	p, ok := styles.GetPalette(theme)
	if !ok {
		p, _ = styles.GetPalette(styles.DefaultTheme)
	}
	styles.SetTheme(p)
}
