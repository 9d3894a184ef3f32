package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/Josh-Grafman/boatrental/internal/config"
	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/loop"
	"github.com/Josh-Grafman/boatrental/internal/notify"
	"github.com/Josh-Grafman/boatrental/internal/selection"
	"github.com/Josh-Grafman/boatrental/internal/store"
	"github.com/Josh-Grafman/boatrental/internal/views"
)

// appEnv holds what the data commands share: the validated config, the
// logger and the cached store.
type appEnv struct {
	cfg    *config.Config
	logger *logging.Logger
	store  *store.Store
	svc    *store.CachedService
}

// openEnv loads the config, opens the logger and the store, and seeds an
// empty store when store.seed_on_first_run is set.
func openEnv(ctx context.Context) (*appEnv, error) {
	return open(ctx, true)
}

func open(ctx context.Context, seed bool) (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.ResolvePath(config.ConfigDir()), logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	if seed && cfg.Store.SeedOnFirstRun {
		if err := seedIfEmpty(ctx, st, logger); err != nil {
			_ = st.Close()
			_ = logger.Close()
			return nil, err
		}
	}

	return &appEnv{
		cfg:    cfg,
		logger: logger,
		store:  st,
		svc:    store.NewCachedService(st, cfg.Store.CacheTTL(), logger),
	}, nil
}

func seedIfEmpty(ctx context.Context, st *store.Store, logger *logging.Logger) error {
	fleet, err := store.DefaultFleet()
	if err != nil {
		return err
	}
	res, err := st.Seed(ctx, fleet, false)
	if err != nil {
		return err
	}
	if !res.Skipped {
		logger.Info("seeded empty store", "types", res.Types, "boats", res.Boats, "reviews", res.Reviews)
	}
	return nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	rotation := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   true,
	}
	logger, err := logging.NewLogger(config.LogDir(), cfg.Logging.Level, rotation)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return logger, nil
}

// Close closes the store and the logger.
func (e *appEnv) Close() error {
	err := e.store.Close()
	_ = e.logger.Close()
	return err
}

// viewDeps wires views for a one-shot command: work runs inline on the
// calling goroutine and notices are printed to out.
func (e *appEnv) viewDeps(out io.Writer) (views.Deps, *cliNotifier) {
	bus := event.NewBus(e.logger)
	n := &cliNotifier{out: out, logged: notify.NewLogNotifier(e.logger)}
	return views.Deps{
		Bus:         bus,
		Selection:   selection.New(bus, e.logger),
		Exec:        loop.Inline{},
		Notifier:    n,
		Invalidator: e.svc,
		Logger:      e.logger,
	}, n
}

// cliNotifier prints notices and remembers the last error so a command can
// exit non-zero.
type cliNotifier struct {
	out    io.Writer
	logged *notify.LogNotifier
	failed *notify.Notice
}

func (c *cliNotifier) Notice(n notify.Notice) {
	c.logged.Notice(n)
	if n.Variant == notify.Error {
		c.failed = &n
	}
	if n.Message == "" {
		fmt.Fprintln(c.out, n.Title)
		return
	}
	fmt.Fprintf(c.out, "%s: %s\n", n.Title, n.Message)
}

// Err returns the last error notice as an error.
func (c *cliNotifier) Err() error {
	if c.failed == nil {
		return nil
	}
	if c.failed.Message == "" {
		return errors.New(c.failed.Title)
	}
	return fmt.Errorf("%s: %s", c.failed.Title, c.failed.Message)
}
