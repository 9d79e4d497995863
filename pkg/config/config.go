// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// DefaultLogChannelEnv lists the environment variables consulted, in order,
// when a guild has no strike log channel of its own.
var DefaultLogChannelEnv = []string{
	"STRIKE_LOG_CHANNEL_ID",
	"INFRACTION_LOG_CHANNEL_ID",
	"STRIKER_LOG_CHANNEL",
}

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken      string
	ApplicationID string
	GuildID       string

	// Storage
	DataDir        string
	ImagesDir      string
	StorageBackend string

	// MongoDB
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost        string
	MQTTPort        string
	MQTTUser        string
	MQTTPassword    string
	MQTTTopicPrefix string

	// Web Server
	Port            string
	WebAllowedHosts string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook string
	LogsWebhook  string

	// Striker
	LogChannelEnv []string
}

var (
	Version   = "Dev-Local"
	BuildTime = "unknown"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken:      getEnv("DISCORD_TOKEN", ""),
		ApplicationID: getEnv("CLIENT_ID", ""),
		GuildID:       getEnv("GUILD_ID", ""),

		// Storage
		DataDir:        getEnv("DATA_DIR", "./data"),
		ImagesDir:      getEnv("IMAGES_DIR", "./images"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),

		// MongoDB
		MongoDBURL: getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DBName:     getEnv("DB_NAME", "StrikeTracker"),

		// MQTT
		MQTTHost:        getEnv("MQTT_HOST", ""),
		MQTTPort:        getEnv("MQTT_PORT", "1883"),
		MQTTUser:        getEnv("MQTT_USER", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "striketracker"),

		// Web Server
		Port:            getEnv("PORT", ""),
		WebAllowedHosts: getEnv("WEB_ALLOWED_HOSTS", ""),

		// Environment
		Environment: getEnv("ENVIRONMENT", "dev"),

		// Webhooks
		ErrorWebhook: getEnv("ERROR_WEBHOOK", ""),
		LogsWebhook:  getEnv("LOGS_WEBHOOK", ""),

		// Striker
		LogChannelEnv: getEnvList("STRIKE_LOG_CHANNEL_ENV", DefaultLogChannelEnv),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated environment variable, dropping blanks
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return append([]string(nil), defaultValue...)
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return out
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// UsesMongo reports whether documents are stored in MongoDB instead of files
func (c *Config) UsesMongo() bool {
	return c.StorageBackend == BackendMongo
}

// WebEnabled reports whether the HTTP API should be started
func (c *Config) WebEnabled() bool {
	return c.Port != ""
}

// MQTTEnabled reports whether a broker was configured
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}
