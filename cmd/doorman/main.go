// Doorman Bridge - Yale Doorman to MQTT adapter
//
// This is the main entry point for the Doorman bridge. The bridge polls
// the Yale Home cloud API for lock state, reconciles the status snapshot
// with the event history feed, and republishes authoritative lock state
// onto the local MQTT broker for home-automation consumers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/doorman-bridge/internal/api"
	"github.com/nerrad567/doorman-bridge/internal/infrastructure/config"
	"github.com/nerrad567/doorman-bridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/doorman-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/doorman-bridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/doorman-bridge/internal/poller"
	"github.com/nerrad567/doorman-bridge/internal/yale"
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
	printToken := flag.Bool("print-api-token", false, "mint an API access token and exit")
	flag.Parse()

	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *printToken); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - printToken: When true, mint an API token, print it, and exit
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, printToken bool) error {
	// Use default logger until config is loaded
	log := logging.Default()

	// Load .env if present; real environment takes precedence
	if err := godotenv.Load(); err == nil {
		log.Info(".env file loaded")
	}

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if printToken {
		token, tokenErr := api.GenerateToken("cli", cfg.Security.JWT.Secret, cfg.Security.JWT.AccessTokenTTL)
		if tokenErr != nil {
			return fmt.Errorf("generating API token: %w", tokenErr)
		}
		fmt.Println(token)
		return nil
	}

	log.Info("starting Doorman bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Vendor client and shared session
	yaleClient := yale.NewClient(cfg.Yale.BaseURL, cfg.GetRequestTimeout())
	yaleClient.SetLogger(log.With("component", "yale"))

	sessions := yale.NewSessionManager(yaleClient, yale.Credentials{
		Username:       cfg.Yale.Username,
		Password:       cfg.Yale.Password,
		BootstrapToken: cfg.Yale.BootstrapToken,
	}, cfg.GetTokenMargin())
	sessions.SetLogger(log.With("component", "session"))

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

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	var recorder poller.Recorder
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
		recorder = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	// Discover locks from the vendor's status snapshot
	locks, err := poller.Discover(ctx, sessions, yaleClient, log.With("component", "discovery"))
	if err != nil {
		return fmt.Errorf("discovering locks: %w", err)
	}
	if len(locks) == 0 {
		log.Warn("no locks discovered, the loop will still poll for history")
	}

	p, err := poller.New(poller.Deps{
		Locks:    locks,
		Interval: cfg.GetPollInterval(),
		Logger:   log.With("component", "poller"),
		MQTT:     mqttClient,
		Recorder: recorder,
	})
	if err != nil {
		return fmt.Errorf("creating poller: %w", err)
	}

	// Read-only API over the discovered locks
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		Security: cfg.Security,
		Logger:   log.With("component", "api"),
		Locks:    p,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete", "locks", len(locks))

	// Run the poll loop until shutdown
	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Run(groupCtx)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("poller stopped: %w", err)
	}

	log.Info("shutdown signal received, cleaning up")
	log.Info("Doorman bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses DOORMAN_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("DOORMAN_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
