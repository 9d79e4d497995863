package config

import (
	"os"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	// Set up test environment variables
	os.Setenv("DISCORD_TOKEN", "test-token")
	os.Setenv("GUILD_ID", "123456789012345678")
	os.Setenv("ENVIRONMENT", "test")
	defer func() {
		os.Unsetenv("DISCORD_TOKEN")
		os.Unsetenv("GUILD_ID")
		os.Unsetenv("ENVIRONMENT")
	}()

	// Reset global config
	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.GuildID != "123456789012345678" {
		t.Errorf("GuildID = %v, want %v", config.GuildID, "123456789012345678")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"unset", "", []string{"A", "B"}},
		{"single", "LOG_CHANNEL", []string{"LOG_CHANNEL"}},
		{"trimmed", " ONE , TWO ,,", []string{"ONE", "TWO"}},
		{"only separators", " , ,", []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.raw == "" {
				os.Unsetenv("TEST_LIST")
			} else {
				os.Setenv("TEST_LIST", tt.raw)
			}
			defer os.Unsetenv("TEST_LIST")

			if got := getEnvList("TEST_LIST", []string{"A", "B"}); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("getEnvList() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("ENVIRONMENT", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	os.Setenv("ENVIRONMENT", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}

	os.Unsetenv("ENVIRONMENT")
}

func TestGet(t *testing.T) {
	resetForTesting()

	// Get should create a new config if none exists
	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	// Get should return the same config on subsequent calls
	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	// Clear all environment variables
	for _, key := range []string{
		"DISCORD_TOKEN", "CLIENT_ID", "GUILD_ID", "DATA_DIR", "IMAGES_DIR",
		"STORAGE_BACKEND", "MONGODB_URL", "DB_NAME", "MQTT_HOST", "MQTT_PORT",
		"PORT", "ENVIRONMENT", "STRIKE_LOG_CHANNEL_ENV",
	} {
		os.Unsetenv(key)
	}

	resetForTesting()
	config, _ := Load()

	if config.DataDir != "./data" {
		t.Errorf("DataDir default = %v, want %v", config.DataDir, "./data")
	}

	if config.ImagesDir != "./images" {
		t.Errorf("ImagesDir default = %v, want %v", config.ImagesDir, "./images")
	}

	if config.StorageBackend != BackendFile || config.UsesMongo() {
		t.Errorf("StorageBackend default = %v, want %v", config.StorageBackend, BackendFile)
	}

	if config.MQTTEnabled() {
		t.Error("MQTT should be disabled without MQTT_HOST")
	}

	if config.WebEnabled() {
		t.Error("Web API should be disabled without PORT")
	}

	if config.Environment != "dev" {
		t.Errorf("Environment default = %v, want %v", config.Environment, "dev")
	}

	if !reflect.DeepEqual(config.LogChannelEnv, DefaultLogChannelEnv) {
		t.Errorf("LogChannelEnv default = %v, want %v", config.LogChannelEnv, DefaultLogChannelEnv)
	}
}

func TestStorageBackendIsCaseInsensitive(t *testing.T) {
	os.Setenv("STORAGE_BACKEND", "Mongo")
	defer os.Unsetenv("STORAGE_BACKEND")

	resetForTesting()
	config, _ := Load()

	if !config.UsesMongo() {
		t.Errorf("UsesMongo() = false for STORAGE_BACKEND=%q", "Mongo")
	}
}
