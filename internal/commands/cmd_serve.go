package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/eventbus"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/web"
	"github.com/colonyops/jobcheck/pkg/profiler"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type ServeCmd struct {
	flags *Flags
	app   *jobcheck.App

	// flags
	addr string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, app *jobcheck.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the checklist API",
		UsageText: "jobcheck [--watch] serve [--addr HOST:PORT]",
		Description: `Starts a local JSON API under /api that a page can drive. The server holds one
open checklist at a time; requests are handled one after another.

The global --watch flag reloads the catalog when one of its source files
changes, and --profiler-port exposes pprof while the server runs.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (default server.addr)",
				Sources:     cli.EnvVars("JOBCHECK_ADDR"),
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	addr := cmd.addr
	if addr == "" {
		addr = cmd.app.Config.Server.Addr
	}

	stop, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stop()

	if cmd.flags.Watch {
		w, err := catalog.NewWatcher(cmd.app.Catalog, log.Logger)
		if err != nil {
			return fmt.Errorf("watch catalog: %w", err)
		}
		defer func() { _ = w.Close() }()
		go forwardReloads(w.Subscribe(), cmd.app.Bus)
	}

	return web.NewServer(cmd.app, log.Logger).Run(ctx, addr)
}

// forwardReloads publishes every catalog reload on the bus until events is
// closed.
func forwardReloads(events <-chan catalog.ReloadEvent, bus *eventbus.EventBus) {
	for ev := range events {
		payload := eventbus.CatalogReloadedPayload{Err: ev.Err}
		if ev.Catalog != nil {
			payload.JobTypes = ev.Catalog.Len()
		}
		bus.PublishCatalogReloaded(payload)
	}
}

// startProfiler starts pprof when port is positive. The returned func stops
// it.
func startProfiler(ctx context.Context, port int) (func(), error) {
	if port <= 0 {
		return func() {}, nil
	}

	profServer := profiler.New(port, log.Logger)
	if err := profServer.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	log.Info().Str("url", profServer.URL()).Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := profServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}
