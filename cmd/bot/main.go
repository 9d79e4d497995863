// Package main is the entry point for the StrikeTracker bot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PancyStudios/StrikeTrackerBot/internal/commands"
	"github.com/PancyStudios/StrikeTrackerBot/internal/events"
	"github.com/PancyStudios/StrikeTrackerBot/internal/services"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/config"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/database"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/discord"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/mqtt"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/store"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Starting StrikeTracker %s...", config.Version), "Main")
	logger.Info(fmt.Sprintf("Working directory: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				logger.Warn(fmt.Sprintf("Error closing Discord session: %v", err), "Main")
			}
		}
	})

	// Storage
	backend, backendName, db := openStorage(cfg)
	defer func() {
		if db != nil {
			if err := db.Disconnect(); err != nil {
				logger.Warn(fmt.Sprintf("Error disconnecting database: %v", err), "Main")
			}
		}
	}()

	// Initialize MQTT
	var broker *mqtt.MqttCommunicator
	if cfg.MQTTEnabled() {
		clientID := "striketracker"
		if !cfg.IsProd() {
			clientID = "striketracker_canary"
		}
		broker = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, clientID, cfg.MQTTTopicPrefix)
		defer broker.Destroy()
	} else {
		logger.Info("MQTT_HOST not set, broker events disabled", "Main")
	}

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	opts := services.Options{
		Backend:       backend,
		BackendName:   backendName,
		Messenger:     discord.NewSessionMessenger(discordClient.Session),
		ImagesDir:     cfg.ImagesDir,
		LogChannelEnv: cfg.LogChannelEnv,
	}
	if broker != nil {
		opts.Events = broker
	}
	svc := services.Init(opts)
	defer svc.Close()

	if broker != nil {
		broker.On("trackers", svc.TrackersRequest)
		broker.On("chiefs", svc.ChiefsRequest)
	}

	// Register commands and events
	commands.RegisterAll(discordClient)
	events.RegisterAll(discordClient)

	// Initialize web server
	if cfg.WebEnabled() {
		webServer, err := web.Init(cfg.LogsWebhook, cfg.WebAllowedHosts)
		if err != nil {
			logger.Critical(fmt.Sprintf("Error creating web server: %v", err), "Main")
			os.Exit(1)
		}
		web.SetupAPIRoutes(webServer, &web.API{
			Chiefs:         svc.Striker,
			Trackers:       svc.Tracker,
			StorageBackend: backendName,
		})
		webServer.StartAsync(cfg.Port)
		defer webServer.Stop()
	}

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Warn(fmt.Sprintf("Error closing Discord session: %v", err), "Main")
		}
	}()

	logger.Success("StrikeTracker started!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Shutting down StrikeTracker...", "Main")
}

// openStorage picks the document backend. Mongo falls back to files when the
// first connection fails.
func openStorage(cfg *config.Config) (store.Backend, string, *database.Database) {
	if !cfg.UsesMongo() {
		logger.Info(fmt.Sprintf("Storing documents in %s", cfg.DataDir), "Main")
		return store.NewFileBackend(cfg.DataDir), config.BackendFile, nil
	}

	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database, using %s instead: %v", cfg.DataDir, err), "Main")
		if db != nil {
			_ = db.Disconnect()
		}
		return store.NewFileBackend(cfg.DataDir), config.BackendFile, nil
	}
	return store.NewMongoBackend(db), config.BackendMongo, db
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
