package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/tui"
	"github.com/Josh-Grafman/boatrental/internal/views"
	"github.com/Josh-Grafman/boatrental/internal/watch"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the boat browser",
	Long: `Open the interactive boat browser.

Pick a boat type (typos are forgiven), move through the results, and press
enter to see a boat. The detail pane has Details, Reviews and Add Review
tabs; m shows where the boat is moored, n lists boats near you and s cycles
through similar boats. Press ? for every key.

When another boatrental process changes the database, the browser reloads
the affected boats.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

var browseType string

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&browseType, "type", "t", "", "Start with this boat type (default: search.default_type)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the browser needs a terminal; use 'boatrental boats list' for plain output")
	}

	env, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	similarBy, err := boat.ParseSimilarBy(env.cfg.Similar.DefaultBy)
	if err != nil {
		return err
	}

	defaultType := env.cfg.Search.DefaultType
	if browseType != "" {
		defaultType = browseType
	}

	app := tui.New(tui.Options{
		Service:     env.svc,
		Invalidator: env.svc,
		Locator:     views.FixedLocator(boat.Location{Latitude: env.cfg.Map.HomeLatitude, Longitude: env.cfg.Map.HomeLongitude}),
		NearMeLimit: env.cfg.Map.NearMeLimit,
		SimilarBy:   similarBy,
		DefaultType: defaultType,
		Author:      env.cfg.Reviews.ResolveAuthor(),
		Theme:       env.cfg.TUI.Theme,
		Columns:     env.cfg.TUI.TileColumns,
		Logger:      env.logger,
	})

	if env.cfg.Watch.Enabled {
		w, err := watch.New(env.store.Path(), env.cfg.Watch.Debounce(), env.logger)
		if err != nil {
			env.logger.Warn("database watcher disabled", "error", err.Error())
		} else {
			// Changes made elsewhere are not covered by the cache's hints,
			// so drop it before the views re-fetch.
			w.OnChange(func() {
				app.Post(func() {
					env.svc.Invalidate()
					app.Model().Selection().Refresh()
				})
			})
			defer w.Stop()
			if err := w.Start(); err != nil {
				env.logger.Warn("database watcher disabled", "error", err.Error())
			}
		}
	}

	env.logger.Info("browser started", "theme", env.cfg.TUI.Theme)
	return app.Run()
}
