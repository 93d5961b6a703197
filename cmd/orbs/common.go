package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/stream-orbs/internal/assets"
	"github.com/vovakirdan/stream-orbs/internal/config"
	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/modes/pachinko"
	"github.com/vovakirdan/stream-orbs/internal/modes/physics"
	"github.com/vovakirdan/stream-orbs/internal/modes/race"
	"github.com/vovakirdan/stream-orbs/internal/modes/snake"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/stage"
	"github.com/vovakirdan/stream-orbs/internal/storage"
)

func defaultRuntime() core.RuntimeConfig {
	return core.DefaultConfig()
}

// runtimeConfig builds the runtime config from the global flags.
func runtimeConfig() core.RuntimeConfig {
	return core.RuntimeConfig{
		CanvasW:  flagWidth,
		CanvasH:  flagHeight,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// newLogger returns a prefixed logger. Full-screen commands pass a file or
// io.Discard so log lines do not tear the terminal UI.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

var modeLoaders = map[string]func(path string) (any, error){
	physics.ID:  func(p string) (any, error) { return config.LoadPhysics(p) },
	snake.ID:    func(p string) (any, error) { return config.LoadSnake(p) },
	pachinko.ID: func(p string) (any, error) { return config.LoadPachinko(p) },
	race.ID:     func(p string) (any, error) { return config.LoadRace(p) },
}

// loadModeConfigs applies the YAML config of every mode to st. Files named
// with --config win over the user and local config directories.
func loadModeConfigs(st *stage.Stage, paths map[string]string) error {
	custom := make(map[string]string, len(paths))
	for id, path := range paths {
		canonical, ok := registry.Resolve(id)
		if !ok {
			return fmt.Errorf("--config: %w: %q", registry.ErrUnknownMode, id)
		}
		custom[canonical] = path
	}

	ids := make([]string, 0, len(modeLoaders))
	for id := range modeLoaders {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		cfg, err := modeLoaders[id](custom[id])
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("cannot encode %s config: %w", id, err)
		}
		if err := st.ConfigureMode(id, data); err != nil {
			return err
		}
	}
	return nil
}

// openStore opens the database, logging instead of failing: the stage
// works without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open orbs database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// newStage creates a stage with the image loader, the mode configs and
// the saved roster wired in.
func newStage(logger *log.Logger, store *storage.Store, opts ...stage.Option) (*stage.Stage, error) {
	loader := assets.NewLoader(logger.WithPrefix("assets"))
	opts = append([]stage.Option{
		stage.WithLogger(logger),
		stage.WithLoader(loader),
	}, opts...)

	st, err := stage.New(runtimeConfig(), opts...)
	if err != nil {
		return nil, err
	}
	if err := loadModeConfigs(st, flagConfig); err != nil {
		return nil, err
	}
	if store != nil {
		restoreRoster(st, store, logger)
	}
	return st, nil
}

// restoreRoster adds the saved orbs to st in their saved order.
func restoreRoster(st *stage.Stage, store *storage.Store, logger *log.Logger) {
	saved, err := store.Orbs()
	if err != nil {
		logger.Warn("could not load saved orbs", "error", err)
		return
	}
	for _, o := range saved {
		if _, err := st.Add(o.Config); err != nil {
			logger.Warn("skipping saved orb", "id", o.ID, "error", err)
		}
	}
	if len(saved) > 0 {
		logger.Info("restored orbs", "count", st.Len())
	}
}

// saveRoster replaces the saved roster with the orbs currently on stage.
func saveRoster(st *stage.Stage, store *storage.Store, logger *log.Logger) {
	if err := store.ReplaceOrbs(st.Configs()); err != nil {
		logger.Warn("could not save orbs", "error", err)
		return
	}
	logger.Info("saved orbs", "count", st.Len())
}
