package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the bridge.
type Config struct {
	ScenarioPath string
	SchemaPath   string
	TickMS       int
	MaxCycles    int

	MQTT MQTTConfig
}

// MQTTConfig holds broker settings.
type MQTTConfig struct {
	BrokerURL      string
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	TopicPrefix    string
	KeepAlive      int
	ConnectTimeout int
}

// LoadConfig reads configuration from environment variables, optionally
// seeded from a .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional.
		fmt.Printf("warning: .env file not found: %v\n", err)
	}

	config := &Config{
		ScenarioPath: getEnvString("BRIDGE_SCENARIO", "scenario.json"),
		SchemaPath:   getEnvString("BRIDGE_SCHEMA", "schemas/scenario.schema.json"),
		TickMS:       getEnvInt("BRIDGE_TICK_MS", 200),
		MaxCycles:    getEnvInt("BRIDGE_MAX_CYCLES", 10000),
		MQTT: MQTTConfig{
			BrokerURL:      getEnvString("MQTT_BROKER_URL", "tcp://localhost:1883"),
			ClientID:       getEnvString("MQTT_CLIENT_ID", "logibots_fleet_bridge"),
			Username:       getEnvString("MQTT_USERNAME", ""),
			Password:       getEnvString("MQTT_PASSWORD", ""),
			QoS:            byte(getEnvInt("MQTT_QOS", 1)),
			TopicPrefix:    getEnvString("MQTT_TOPIC_PREFIX", "fleet"),
			KeepAlive:      getEnvInt("MQTT_KEEP_ALIVE", 60),
			ConnectTimeout: getEnvInt("MQTT_CONNECT_TIMEOUT", 10),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.TickMS < 1 {
		return fmt.Errorf("BRIDGE_TICK_MS must be greater than 0")
	}
	if config.MQTT.BrokerURL == "" {
		return fmt.Errorf("MQTT_BROKER_URL is required")
	}
	if config.MQTT.ClientID == "" {
		return fmt.Errorf("MQTT_CLIENT_ID is required")
	}
	if config.MQTT.QoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1, or 2")
	}
	if config.MQTT.ConnectTimeout < 1 {
		return fmt.Errorf("MQTT_CONNECT_TIMEOUT must be greater than 0")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		fmt.Printf("warning: invalid integer value for %s: %s, using default: %d\n", key, value, defaultValue)
	}
	return defaultValue
}
