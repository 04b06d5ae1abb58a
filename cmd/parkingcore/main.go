// Smart Parking coordinator.
//
// parkingcore owns the occupancy state of one lot. It listens to the slot
// sensors and the entrance button over MQTT, opens the gate while slots are
// free, drives the FREE/FULL signage, and writes an audit trail to SQLite.
// InfluxDB telemetry and Redis decision counters are optional.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	_ "github.com/MeirG9/SmartCity-Parking-IoT-2026/migrations"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/audit"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/config"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/database"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/influxdb"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/logging"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/mqtt"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/stats"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/parking"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// shutdownTimeout bounds draining the audit queue after the signal.
const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("parkingcore", pflag.ContinueOnError)
	configFlag := flags.StringP("config", "c", "", "config file (default $PARKING_CONFIG or "+config.DefaultPath+")")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting parking coordinator",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, configPath, err := config.LoadFrom(*configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if configPath == "" {
		log.Info("no config file, using built-in defaults")
	} else {
		log.Info("configuration loaded", "path", configPath)
	}

	log = logging.New(cfg.Logging, version)

	ns, err := parking.NewNamespace(cfg.Parking.TopicRoot)
	if err != nil {
		return fmt.Errorf("building topic namespace: %w", err)
	}

	db, err := database.Open(ctx, database.Config{
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

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path, "migrations_applied", applied)

	sink := audit.NewSink(audit.NewSQLiteRepository(db.DB), cfg.Audit.QueueSize, log.With("component", "audit"))
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := sink.Close(drainCtx); closeErr != nil {
			log.Error("audit queue not drained", "error", closeErr)
		}
		written, failed, dropped := sink.Stats()
		log.Info("audit sink closed", "written", written, "failed", failed, "dropped", dropped)
	}()

	opts := parking.Options{
		Namespace: ns,
		Capacity:  cfg.Parking.TotalSlots,
		QoS:       byte(cfg.MQTT.QoS), // #nosec G115 -- validated to 0..2
		Audit:     sink,
		Logger:    log.With("component", "engine"),
	}

	influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB, ns.Root())
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		log.Warn("InfluxDB unavailable, running without telemetry", "error", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		opts.Telemetry = influxClient
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	counters, err := stats.Connect(ctx, cfg.Redis)
	switch {
	case errors.Is(err, stats.ErrDisabled):
		log.Info("Redis counters disabled")
	case err != nil:
		log.Warn("Redis unavailable, running without decision counters", "error", err)
	default:
		defer func() {
			if closeErr := counters.Close(); closeErr != nil {
				log.Error("error closing Redis", "error", closeErr)
			}
		}()
		opts.Stats = counters
		log.Info("Redis connected", "addr", cfg.Redis.Addr)
	}

	mqttClient := mqtt.New(cfg.MQTT, ns.SystemStatus())
	mqttClient.SetLogger(log.With("component", "mqtt"))
	opts.Bus = mqttClient

	engine, err := parking.New(opts)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	engineCtx, stopEngine := context.WithCancel(ctx)
	defer stopEngine()
	engineDone := make(chan error, 1)
	go func() { engineDone <- engine.Run(engineCtx) }()

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT connected, subscribing")
		engine.OnConnected()
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	if err := mqttClient.Connect(); err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	log.Info("MQTT session up",
		"broker", mqtt.BrokerURL(cfg.MQTT),
		"client_id", cfg.MQTT.Broker.ClientID,
		"root", ns.Root(),
		"capacity", cfg.Parking.TotalSlots,
	)

	if err := healthCheck(ctx, db, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	stopEngine()
	if err := <-engineDone; err != nil {
		log.Error("engine stopped with error", "error", err)
	}

	// Deferred closes run in reverse order: MQTT, Redis, InfluxDB, audit, database.
	log.Info("parking coordinator stopped")
	return nil
}

// healthCheck verifies the mandatory connections.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	return nil
}
