// Cinematic Wish plays a short birthday experience: a scripted sequence of
// scenes with particle effects, a soundtrack and optional room lighting.
//
// The experience can be watched in the terminal, driven over HTTP and
// followed over WebSocket. Transitions are journaled to SQLite and can be
// mirrored to MQTT lighting and InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/amrit740/riti-s-cinematic-wish/internal/api"
	"github.com/amrit740/riti-s-cinematic-wish/internal/audio"
	"github.com/amrit740/riti-s-cinematic-wish/internal/clock"
	"github.com/amrit740/riti-s-cinematic-wish/internal/experience"
	"github.com/amrit740/riti-s-cinematic-wish/internal/infrastructure/config"
	"github.com/amrit740/riti-s-cinematic-wish/internal/infrastructure/database"
	"github.com/amrit740/riti-s-cinematic-wish/internal/infrastructure/influxdb"
	"github.com/amrit740/riti-s-cinematic-wish/internal/infrastructure/logging"
	"github.com/amrit740/riti-s-cinematic-wish/internal/infrastructure/mqtt"
	"github.com/amrit740/riti-s-cinematic-wish/internal/journal"
	"github.com/amrit740/riti-s-cinematic-wish/internal/lighting"
	"github.com/amrit740/riti-s-cinematic-wish/internal/render/terminal"
	"github.com/amrit740/riti-s-cinematic-wish/internal/telemetry"
	"github.com/amrit740/riti-s-cinematic-wish/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	// Default configuration file path
	defaultConfigPath = "configs/config.yaml"

	// shutdownTimeout bounds the final teardown of the experience.
	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // composition root
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	configPath := getConfigPath()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closeLog, err := logging.Open(cfg.Logging, version)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // best-effort on exit
	log.Info("starting Cinematic Wish",
		"version", version,
		"commit", commit,
		"build_date", date,
		"config", configPath,
	)

	// Journal
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	applied, err := db.Migrate(ctx, migrations.FS)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("journal ready", "path", db.Path(), "migrations_applied", applied)

	recorder := journal.NewRecorder(journal.NewSQLiteRepository(db.DB), time.Now, log)
	checks := map[string]api.HealthChecker{"database": db}

	opts, err := experienceOptions(cfg)
	if err != nil {
		return err
	}
	opts.Observers = append(opts.Observers, recorder)
	effectObservers := []experience.EffectObserver{recorder}

	// Telemetry (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, connErr := influxdb.Connect(cfg.InfluxDB)
		if connErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", connErr)
		}
		defer func() {
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Warn("InfluxDB write error", "error", err)
		})
		tel := telemetry.NewRecorder(influxClient, time.Now)
		opts.Observers = append(opts.Observers, tel)
		effectObservers = append(effectObservers, tel)
		checks["influxdb"] = influxClient
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	// Lighting (optional)
	var (
		mqttClient *mqtt.Client
		bridge     *lighting.Bridge
	)
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() { log.Info("MQTT reconnected") })
		mqttClient.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })

		bridge = lighting.NewBridge(mqttClient, mqttClient.Topics(), lighting.Options{}, log)
		opts.Observers = append(opts.Observers, bridge)
		effectObservers = append(effectObservers, bridge)
		checks["mqtt"] = mqttClient
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"prefix", mqttClient.Topics().Prefix(),
		)
	}

	player := openPlayer(cfg.Audio, log)
	if closer, ok := player.(interface{ Close() error }); ok {
		defer closer.Close() //nolint:errcheck // best-effort on exit
	}

	loop := clock.NewLoop(clock.DefaultQueueSize)
	loop.SetPanicHandler(func(recovered any) {
		log.Error("panic recovered on scheduler loop", "panic", recovered)
	})
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go loop.Run(loopCtx)
	defer func() {
		stopLoop()
		<-loop.Done()
	}()

	exp, err := experience.New(loop, loop, player, opts, log)
	if err != nil {
		return fmt.Errorf("building experience: %w", err)
	}
	for _, o := range effectObservers {
		exp.SubscribeEffects(o)
	}

	if mqttClient != nil {
		if subErr := mqttClient.Subscribe(mqttClient.Topics().Command(), byte(cfg.MQTT.QoS), bridge.CommandHandler(exp)); subErr != nil {
			return fmt.Errorf("subscribing to lighting commands: %w", subErr)
		}
	}

	// HTTP API (optional)
	if cfg.API.Enabled {
		deps := api.Deps{
			Config:     cfg.API,
			WS:         cfg.WebSocket,
			Logger:     log,
			Experience: exp,
			Journal:    journal.NewSQLiteRepository(db.DB),
			Checks:     checks,
			DB:         db,
			Version:    version,
		}
		if bridge != nil {
			deps.Lighting = lightingStats{Bridge: bridge, Client: mqttClient}
		}
		srv, apiErr := api.New(deps)
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		exp.Subscribe(srv)
		exp.SubscribeEffects(srv)
		if startErr := srv.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	if bridge != nil {
		g.Go(func() error { return bridge.Run(gctx) })
	}

	if cfg.Terminal.Enabled {
		screen, screenErr := tcell.NewScreen()
		if screenErr != nil {
			return fmt.Errorf("opening terminal: %w", screenErr)
		}
		if initErr := screen.Init(); initErr != nil {
			return fmt.Errorf("initialising terminal: %w", initErr)
		}
		defer screen.Fini()

		renderer := terminal.New(screen, exp, terminal.Options{
			FPS:       cfg.Terminal.FPS,
			QuitAfter: cfg.Terminal.Quit,
		}, log)
		g.Go(func() error {
			// The viewer quitting ends the whole process.
			defer stop()
			return renderer.Run(gctx)
		})
	}

	if cfg.Autostart {
		if startErr := exp.Start(ctx); startErr != nil {
			return fmt.Errorf("autostart: %w", startErr)
		}
		log.Info("experience started automatically")
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-gctx.Done()
	log.Info("shutting down")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("component failed", "error", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := exp.Close(closeCtx); err != nil {
		log.Warn("closing experience", "error", err)
	}

	log.Info("Cinematic Wish stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses WISH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WISH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig loads path. A missing default file is not an error; the
// built-in defaults plus environment overrides are used instead.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNotFound) && path == defaultConfigPath {
		return config.Load("")
	}
	return cfg, err
}

// openPlayer opens the speaker when audio is enabled. Any failure falls
// back to silence so the experience still runs.
func openPlayer(cfg config.AudioConfig, log *logging.Logger) audio.Player {
	if !cfg.Enabled {
		return &audio.Silent{}
	}
	sp, err := audio.NewSpeaker(cfg.SampleRate, cfg.Tempo)
	if err != nil {
		log.Warn("audio unavailable, continuing silently", "error", err)
		return &audio.Silent{}
	}
	return sp
}

// lightingStats reports bridge health to the metrics endpoint.
type lightingStats struct {
	*lighting.Bridge
	*mqtt.Client
}
