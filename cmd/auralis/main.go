// Auralis Core - Presence-Driven Music Automation Hub
//
// This is the main entry point for the Auralis Core application.
// Auralis connects presence sensors to music players over MQTT:
// occupancy events drive per-zone play/stop commands, and dashboards
// follow along over zone-scoped WebSocket subscriptions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/auralis-home/auralis-core/internal/api"
	"github.com/auralis-home/auralis-core/internal/audit"
	"github.com/auralis-home/auralis-core/internal/infrastructure/config"
	"github.com/auralis-home/auralis-core/internal/infrastructure/database"
	"github.com/auralis-home/auralis-core/internal/infrastructure/influxdb"
	"github.com/auralis-home/auralis-core/internal/infrastructure/logging"
	"github.com/auralis-home/auralis-core/internal/infrastructure/mqtt"
	"github.com/auralis-home/auralis-core/internal/music"
	"github.com/auralis-home/auralis-core/internal/presence"
	"github.com/auralis-home/auralis-core/internal/zone"
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
	// Load .env if present; real environment wins over file values
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Auralis Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration (defaults + env overrides when no file exists)
	configPath := getConfigPath()
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "zones", len(cfg.Zones))

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database for the command audit trail
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

	auditRepo, err := audit.NewSQLiteRepository(db.DB)
	if err != nil {
		return fmt.Errorf("initialising command audit trail: %w", err)
	}

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

	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional command telemetry)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Zone state store, seeded vacant from configuration
	store := zone.NewStore(cfg.ZoneIDs())
	log.Info("zone store initialised", "zones", store.Count())

	// Command router: validation, bus publish, audit, telemetry
	routerOpts := []music.RouterOption{music.WithAuditRepository(auditRepo)}
	if influxClient != nil {
		routerOpts = append(routerOpts, music.WithTelemetry(influxClient))
	}
	router := music.NewRouter(mqttClient, log, routerOpts...)
	router.Start(ctx)
	defer func() {
		log.Info("stopping command router")
		router.Close()
	}()

	// WebSocket hub, shared between the API server and the presence handler
	hub := api.NewHub(cfg.WebSocket, store, router, log)
	go hub.Run(ctx)

	// Presence pipeline: broker messages -> store -> commands -> fan-out
	handler := presence.NewHandler(store, router, hub, log)

	// API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Store:       store,
		Music:       router,
		MQTT:        mqttClient,
		DB:          db,
		AuditRepo:   auditRepo,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Subscribe the presence pipeline to the bus. Subscriptions are
	// restored automatically after a reconnect.
	if err := subscribeTopics(mqttClient, cfg, handler, log); err != nil {
		return err
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (stops accepting requests, closes WebSocket clients)
	// 2. Command router (drains pending audit writes)
	// 3. InfluxDB (if enabled, flushes batched points)
	// 4. MQTT (publishes offline status, disconnects)
	// 5. Database

	log.Info("Auralis Core stopped")
	return nil
}

// subscribeTopics registers the presence handler for all inbound topics.
func subscribeTopics(client *mqtt.Client, cfg *config.Config, handler *presence.Handler, log *logging.Logger) error {
	qos := byte(cfg.MQTT.QoS)
	topics := []string{
		mqtt.AllPresence(),
		mqtt.TopicMusicControl,
		mqtt.TopicMusicPlaylist,
	}

	for _, topic := range topics {
		if err := client.Subscribe(topic, qos, handler.HandleMessage); err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		log.Info("subscribed", "topic", topic, "qos", qos)
	}

	return nil
}

// getConfigPath returns the configuration file path.
// Uses AURALIS_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("AURALIS_CONFIG"); path != "" {
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
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
