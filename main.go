package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/jobcheck/internal/commands"
	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/dispatch"
	"github.com/colonyops/jobcheck/internal/core/eventbus"
	"github.com/colonyops/jobcheck/internal/core/kv"
	"github.com/colonyops/jobcheck/internal/core/logging"
	"github.com/colonyops/jobcheck/internal/core/styles"
	"github.com/colonyops/jobcheck/internal/core/updatecheck"
	"github.com/colonyops/jobcheck/internal/data/db"
	"github.com/colonyops/jobcheck/internal/data/stores"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/colonyops/jobcheck/internal/store/jsonfile"
	"github.com/colonyops/jobcheck/pkg/executil"
	"github.com/colonyops/jobcheck/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() (v, c, d string) {
	v, c, d = version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	return v, c, d
}

func build() string {
	v, c, d := buildInfo()

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	// A .env in the working directory may set JOBCHECK_* variables.
	_ = godotenv.Load()

	ctx := printer.NewContext(context.Background(), printer.New(os.Stdout, os.Stderr))

	var (
		logCloser func()
		appRef    = &jobcheck.App{}
		database  *db.DB
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}
	app := commands.NewRoot(flags, appRef)
	app.Version = build()
	runningVersion, _, _ := buildInfo()

	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		flags.Config = cfg

		// Always log to a file; use explicit path or default to <datadir>/jobcheck.log
		logFile := flags.LogFile
		if logFile == "" {
			logFile = cfg.LogFile()
		}

		logger, closer, err := logutils.New(flags.LogLevel, logFile)
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer

		if !styles.UseTheme(cfg.TUI.Theme) {
			log.Warn().Str("theme", cfg.TUI.Theme).Msg("unknown theme, using default")
		}

		provider := catalog.NewProvider(&catalog.Loader{
			Sources: cfg.Catalog.Sources,
			BaseDir: cfg.ConfigDir,
			Timeout: cfg.Catalog.Timeout,
			Log:     logging.Component("catalog"),
		})
		// A failed load is kept by the provider and reported by each surface.
		if _, err := provider.Load(ctx); err != nil {
			log.Error().Err(err).Msg("catalog load failed")
		}

		var backend kv.KV
		switch cfg.Store.Backend {
		case config.BackendJSON:
			backend = jsonfile.NewKVFile(cfg.StoreFile())
		default:
			database, err = stores.OpenDB(cfg.DataDir, db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			})
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}
			backend = stores.NewKVStore(database)
		}

		bus := eventbus.New(64)
		busCtx, cancel := context.WithCancel(context.Background())
		busCancel = cancel
		go bus.Start(busCtx)
		eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
		eventbus.RegisterAuditLogger(bus, logging.Component("audit"))

		sink := &dispatch.OpenerSink{
			Exec:    &executil.RealExecutor{},
			Command: cfg.Dispatch.OpenCommand,
		}

		svc := jobcheck.NewChecklistService(provider, checklist.NewKVStore(backend), sink, bus, cfg, log.Logger)

		// Populate the pre-allocated App struct (commands already hold a pointer to it)
		*appRef = *jobcheck.NewApp(svc, provider, cfg, bus, database)
		appRef.Doctor = appRef.Doctor.WithUpdateCheck(updatecheck.New(backend), runningVersion)

		return ctx, nil
	}

	app.After = func(ctx context.Context, c *cli.Command) error {
		if busCancel != nil {
			busCancel()
		}

		// Close database connection
		if database != nil {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
				return err
			}
		}

		// Close log file
		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
