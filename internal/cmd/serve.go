package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/feed"
	"github.com/Josh-Grafman/boatrental/internal/loop"
	"github.com/Josh-Grafman/boatrental/internal/notify"
	"github.com/Josh-Grafman/boatrental/internal/selection"
	"github.com/Josh-Grafman/boatrental/internal/views"
	"github.com/Josh-Grafman/boatrental/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the live selection feed over websockets",
	Long: `Serve the boat and review channels to browsers.

Clients connect to ws://ADDRESS/feed and receive one JSON frame per message:

  {"channel":"boat","kind":"select","boat_id":"b-sea-breeze",...}

and may send commands back:

  {"action":"select","boat_id":"b-sea-breeze"}
  {"action":"refresh","boat_ids":["b-sea-breeze"]}

Changes other processes make to the database are announced as refresh
frames. GET /healthz reports the number of connected clients.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr     string
	serveMaxConns int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default: feed.address)")
	serveCmd.Flags().IntVar(&serveMaxConns, "max-conns", feed.DefaultMaxConnections, "Maximum concurrent connections")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	addr := serveAddr
	if addr == "" {
		addr = env.cfg.Feed.Address
	}
	logger := env.logger.WithComponent("serve")

	// Every view and the coordinator are confined to this loop.
	ui := loop.New(env.logger)
	defer ui.Close()

	bus := event.NewBus(env.logger)
	sel := selection.New(bus, env.logger)
	deps := views.Deps{
		Bus:         bus,
		Selection:   sel,
		Exec:        ui,
		Notifier:    notify.NewLogNotifier(env.logger),
		Invalidator: env.svc,
		Logger:      env.logger,
	}
	// The detail view drops selections of boats that no longer exist.
	detail := views.NewDetailView(env.svc, views.NewReviewsView(env.svc, deps), deps)
	defer detail.Close()

	hub := feed.NewHub(env.cfg.Feed.AllowedOrigins, env.logger)
	sub := hub.Attach(bus)
	defer sub.Release()
	hub.OnCommand(func(c feed.Command) {
		ui.Post(func() {
			switch c.Action {
			case feed.ActionSelect:
				sel.Select(c.BoatID)
			case feed.ActionRefresh:
				env.svc.NotifyUpdated(c.BoatIDs...)
				sel.Refresh(c.BoatIDs...)
			}
		})
	})

	var watcher *watch.Watcher
	if env.cfg.Watch.Enabled {
		watcher, err = watch.New(env.store.Path(), env.cfg.Watch.Debounce(), env.logger)
		if err != nil {
			return err
		}
		// Changes made elsewhere are not covered by the cache's hints.
		watcher.OnChange(func() {
			ui.Post(func() {
				env.svc.Invalidate()
				sel.Refresh()
			})
		})
		if err := watcher.Start(); err != nil {
			watcher.Stop()
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ui.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	server := feed.NewServer(hub, serveMaxConns, env.logger)
	g.Go(func() error {
		return server.ListenAndServe(gctx, addr)
	})

	if watcher != nil {
		g.Go(func() error {
			<-gctx.Done()
			watcher.Stop()
			return nil
		})
	}

	go func() {
		select {
		case <-server.Ready():
			fmt.Fprintf(cmd.OutOrStdout(), "Feed listening on ws://%s/feed\n", server.Addr())
		case <-gctx.Done():
		}
	}()

	if err := g.Wait(); err != nil {
		logger.Error("serve failed", "error", err.Error())
		return err
	}
	logger.Info("serve stopped")
	return nil
}
