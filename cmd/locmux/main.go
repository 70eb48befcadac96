// locmux - location monitoring multiplexer
//
// This is the main entry point for the locmux daemon. locmux sits between
// an MQTT-attached GPS tracker and any number of in-process and remote
// listeners, aggregating their accuracy demands into a single device
// configuration and fanning fixes back out:
//   - One tracker, many listeners, one reconciled device configuration
//   - SQLite journal of fixes, failures, and configuration changes
//   - Optional InfluxDB telemetry
//   - HTTP/WebSocket API for status, history, and live fix streams
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/locmux/migrations"

	"github.com/nerrad567/locmux/internal/api"
	"github.com/nerrad567/locmux/internal/bridges/gps"
	"github.com/nerrad567/locmux/internal/infrastructure/config"
	"github.com/nerrad567/locmux/internal/infrastructure/database"
	"github.com/nerrad567/locmux/internal/infrastructure/logging"
	"github.com/nerrad567/locmux/internal/infrastructure/mqtt"
	"github.com/nerrad567/locmux/internal/journal"
	"github.com/nerrad567/locmux/internal/monitor"
	"github.com/nerrad567/locmux/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting locmux",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise fix journal
	fixJournal := journal.NewSQLiteJournal(db.DB)
	fixJournal.SetLogger(log)
	log.Info("fix journal initialised")

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var telemetryClient *telemetry.Client
	if cfg.Telemetry.Enabled {
		telemetryClient, err = telemetry.Connect(cfg.Telemetry, cfg.Service.ID)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := telemetryClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.Telemetry.URL,
			"org", cfg.Telemetry.Org,
			"bucket", cfg.Telemetry.Bucket,
		)

		telemetryClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Create the GPS tracker bridge. The bridge and the monitoring manager
	// reference each other, so the bridge starts without a sink and the
	// manager is attached below.
	bridge := gps.New(gps.Config{
		TopicPrefix:            cfg.Tracker.TopicPrefix,
		QoS:                    byte(cfg.MQTT.QoS),
		StartupTimeout:         time.Duration(cfg.Tracker.StartupTimeout) * time.Second,
		WhenInUseJustification: cfg.Authorization.WhenInUse,
		AlwaysJustification:    cfg.Authorization.Always,
	}, mqttClient, nil)
	bridge.SetLogger(log)

	// WebSocket hub is shared between the API server and the manager's
	// broadcast path.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// Create and start the monitoring manager
	opts := []monitor.Option{
		monitor.WithLogger(log),
		monitor.WithRecorder(fixJournal),
		monitor.WithBroadcaster(hub),
	}
	if telemetryClient != nil {
		opts = append(opts, monitor.WithRecorder(telemetryClient))
	}
	manager := monitor.New(bridge, cfg.Authorization, opts...)
	bridge.SetSink(manager)

	manager.Start(ctx)
	defer func() {
		log.Info("stopping monitor manager")
		manager.Close()
	}()

	// Start the bridge: subscribes to tracker topics and waits for the
	// retained authorization snapshot.
	if startErr := bridge.Start(ctx); startErr != nil {
		return fmt.Errorf("starting GPS bridge: %w", startErr)
	}
	log.Info("GPS bridge started", "topic_prefix", cfg.Tracker.TopicPrefix)

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Security:    cfg.Security,
		Logger:      log,
		Monitor:     manager,
		Journal:     fixJournal,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, telemetryClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. Monitor manager
	// 3. InfluxDB (if enabled)
	// 4. MQTT
	// 5. Database

	log.Info("locmux stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LOCMUX_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LOCMUX_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - telemetryClient: InfluxDB client to check (may be nil if disabled)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, telemetryClient *telemetry.Client, apiServer *api.Server) error {
	// Check database
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Check MQTT
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	// Check InfluxDB (if enabled)
	if telemetryClient != nil {
		if err := telemetryClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	// Check API server
	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
