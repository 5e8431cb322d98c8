// Hearth - conversational home control.
//
// This is the main entry point for the hearth service. It turns model
// replies into Home Assistant service calls, base station commands and
// local preference changes, and can run either as a one-shot CLI or as
// a small HTTP API (serve mode).
//
// Usage:
//
//	hearth "turn on the kitchen lights"
//	hearth serve
//	hearth reset
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hearthline/hearth-core/internal/api"
	"github.com/hearthline/hearth-core/internal/assistant"
	"github.com/hearthline/hearth-core/internal/dispatch"
	"github.com/hearthline/hearth-core/internal/history"
	"github.com/hearthline/hearth-core/internal/homeassistant"
	"github.com/hearthline/hearth-core/internal/infrastructure/config"
	"github.com/hearthline/hearth-core/internal/infrastructure/database"
	"github.com/hearthline/hearth-core/internal/infrastructure/influxdb"
	"github.com/hearthline/hearth-core/internal/infrastructure/logging"
	"github.com/hearthline/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearthline/hearth-core/internal/llm"
	"github.com/hearthline/hearth-core/internal/prefs"
	"github.com/hearthline/hearth-core/internal/prompt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(`usage: hearth <message> | hearth serve | hearth reset`)
	}

	log := logging.Default()
	log.Info("starting hearth", "version", version, "commit", commit, "build_date", date)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	prefStore, err := prefs.Load(cfg.Preferences.File)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}

	// The stored log mode wins over the configured level, so flipping the
	// debug virtual switch takes effect on the next start.
	cfg.Logging.Level = logging.LevelForMode(prefStore.Setting(prefs.SettingLogMode))
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised", "level", cfg.Logging.Level, "format", cfg.Logging.Format)

	db, err := database.Open(database.Config{
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

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	histRepo := history.NewSQLiteRepository(db.DB)

	dispatcher, err := dispatch.New(dispatch.Config{
		HAURL:          cfg.HomeAssistant.URL,
		HAToken:        cfg.HomeAssistant.Token,
		BaseStationURL: cfg.BaseStation.URL,
	}, dispatch.NewHTTPTransport(cfg.RequestTimeout()), prefStore, nil, log)
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	control := homeassistant.New(cfg.HomeAssistant.URL, cfg.HomeAssistant.Token, cfg.RequestTimeout())

	model, err := llm.New(cfg.OpenAI, log)
	if err != nil {
		return fmt.Errorf("creating model connection: %w", err)
	}

	prompts, err := prompt.Load(cfg.Prompts.File)
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}

	// MQTT and InfluxDB are optional observability sinks.
	var events assistant.EventPublisher
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	switch {
	case errors.Is(err, mqtt.ErrDisabled):
		log.Info("MQTT disabled")
	case err != nil:
		return fmt.Errorf("connecting to MQTT: %w", err)
	default:
		defer func() {
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port))
		events = mqttClient
	}

	var metrics assistant.MetricsWriter
	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
		metrics = influxClient
	}

	a, err := assistant.New(assistant.Deps{
		Prefs:        prefStore,
		Dispatcher:   dispatcher,
		Control:      control,
		Model:        model,
		Prompts:      prompts,
		History:      histRepo,
		Logger:       log,
		Events:       events,
		Metrics:      metrics,
		Conversation: cfg.Assistant.Conversation,
		HistoryLimit: cfg.Assistant.HistoryLimit,
		PromptName:   cfg.Prompts.Name,
		EntitiesFile: cfg.HomeAssistant.EntitiesFile,
	})
	if err != nil {
		return fmt.Errorf("creating assistant: %w", err)
	}

	switch args[0] {
	case "serve":
		return serve(ctx, cfg, log, a)
	case "reset":
		if err := a.ResetHistory(ctx); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	default:
		return oneShot(ctx, log, a, strings.Join(args, " "))
	}
}

// oneShot runs a single conversation turn and prints the reply.
func oneShot(ctx context.Context, log *logging.Logger, a *assistant.Assistant, message string) error {
	out, err := a.Run(ctx, message)
	if err != nil {
		return fmt.Errorf("processing message: %w", err)
	}

	fmt.Println(out.ResponseText)
	if out.Actionable() {
		log.Info("dispatched", "service", out.Service, "result", out.HAResult)
	}
	return nil
}

// serve runs the HTTP API until the context is cancelled.
func serve(ctx context.Context, cfg *config.Config, log *logging.Logger, a *assistant.Assistant) error {
	srv, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Pipeline: a,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("serving", "host", cfg.API.Host, "port", cfg.API.Port)
	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses the HEARTH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
