package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Hearth.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Assistant     AssistantConfig     `yaml:"assistant"`
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	BaseStation   BaseStationConfig   `yaml:"basestation"`
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Prompts       PromptsConfig       `yaml:"prompts"`
	Preferences   PreferencesConfig   `yaml:"preferences"`
	Database      DatabaseConfig      `yaml:"database"`
	Logging       LoggingConfig       `yaml:"logging"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	InfluxDB      InfluxDBConfig      `yaml:"influxdb"`
	API           APIConfig           `yaml:"api"`
}

// AssistantConfig contains settings for the conversation pipeline.
type AssistantConfig struct {
	// Conversation names the chat history thread used for context.
	Conversation string `yaml:"conversation"`

	// HistoryLimit is the maximum number of prior turns sent to the model.
	HistoryLimit int `yaml:"history_limit"`
}

// HomeAssistantConfig contains connection settings for the primary control plane.
type HomeAssistantConfig struct {
	// URL is the Home Assistant base URL (e.g., "http://homeassistant.local:8123").
	URL string `yaml:"url"`

	// Token is the long-lived access token. Normally supplied via the
	// HEARTH_HA_TOKEN or HA_TOKEN environment variable rather than YAML.
	Token string `yaml:"token"`

	// EntitiesFile lists the entity IDs exposed to the model, one per line.
	EntitiesFile string `yaml:"entities_file"`

	// Timeout is the outbound request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// BaseStationConfig contains settings for the secondary device API
// (the base-station speaker behind the media_player.base_speaker
// virtual entity).
type BaseStationConfig struct {
	URL string `yaml:"url"`
}

// OpenAIConfig contains model connection settings.
type OpenAIConfig struct {
	// APIKey is normally supplied via the OPENAI_API_KEY environment variable.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the API endpoint, for OpenAI-compatible local
	// servers. Empty means the official endpoint.
	BaseURL string `yaml:"base_url"`

	// Model is the default model, used until the intelligence-level
	// selector overrides it.
	Model string `yaml:"model"`

	// ReasoningEffort is passed through to models that support it.
	ReasoningEffort string `yaml:"reasoning_effort"`

	// MaxTokens caps completion length. 0 means no explicit cap.
	MaxTokens int `yaml:"max_tokens"`
}

// PromptsConfig locates the named system prompts.
type PromptsConfig struct {
	File string `yaml:"file"`
	Name string `yaml:"name"`
}

// PreferencesConfig locates the preference store file.
type PreferencesConfig struct {
	File string `yaml:"file"`
}

// DatabaseConfig contains SQLite database settings for chat history.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	Output string            `yaml:"output"`
	File   FileLoggingConfig `yaml:"file"`
}

// FileLoggingConfig contains file-based logging settings, used when
// logging.output is "file".
type FileLoggingConfig struct {
	Path string `yaml:"path"`
}

// MQTTConfig contains MQTT broker connection settings for dispatch events.
type MQTTConfig struct {
	Enabled     bool             `yaml:"enabled"`
	Broker      MQTTBrokerConfig `yaml:"broker"`
	Auth        MQTTAuthConfig   `yaml:"auth"`
	QoS         int              `yaml:"qos"`
	TopicPrefix string           `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB connection settings for dispatch telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains HTTP API server settings for serve mode.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HEARTH_SECTION_KEY
// For example: HEARTH_HA_URL, HEARTH_DATABASE_PATH. The two credentials
// additionally honour their conventional names (HA_TOKEN, OPENAI_API_KEY).
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Assistant: AssistantConfig{
			Conversation: "hearth",
			HistoryLimit: 20,
		},
		HomeAssistant: HomeAssistantConfig{
			EntitiesFile: "configs/entities.txt",
			Timeout:      10,
		},
		OpenAI: OpenAIConfig{
			Model:           "gpt-5-nano",
			ReasoningEffort: "low",
		},
		Prompts: PromptsConfig{
			File: "configs/prompts.yaml",
			Name: "hearth",
		},
		Preferences: PreferencesConfig{
			File: "configs/preferences.yaml",
		},
		Database: DatabaseConfig{
			Path:        "./data/hearth.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "hearth-core",
			},
			QoS:         1,
			TopicPrefix: "hearth",
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8087,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 120,
				Idle:  60,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Home Assistant
	if v := os.Getenv("HEARTH_HA_URL"); v != "" {
		cfg.HomeAssistant.URL = v
	}
	if v := os.Getenv("HEARTH_HA_TOKEN"); v != "" {
		cfg.HomeAssistant.Token = v
	} else if v := os.Getenv("HA_TOKEN"); v != "" {
		cfg.HomeAssistant.Token = v
	}

	// Base station
	if v := os.Getenv("HEARTH_BASESTATION_URL"); v != "" {
		cfg.BaseStation.URL = v
	}

	// OpenAI
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}

	// Database
	if v := os.Getenv("HEARTH_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("HEARTH_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HEARTH_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HEARTH_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("HEARTH_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// API
	if v := os.Getenv("HEARTH_API_HOST"); v != "" {
		cfg.API.Host = v
	}
}

// Validate checks the configuration for errors.
//
// Missing credentials are treated as configuration errors: without the
// Home Assistant token and the OpenAI key the pipeline cannot do anything
// useful, so startup fails early rather than degrading every call.
func (c *Config) Validate() error {
	var errs []string

	if c.HomeAssistant.URL == "" {
		errs = append(errs, "homeassistant.url is required")
	}
	if c.HomeAssistant.Token == "" {
		errs = append(errs, "homeassistant.token is required (set HEARTH_HA_TOKEN or HA_TOKEN environment variable)")
	}
	if c.HomeAssistant.Timeout <= 0 {
		errs = append(errs, "homeassistant.timeout must be positive")
	}

	if c.OpenAI.APIKey == "" {
		errs = append(errs, "openai.api_key is required (set OPENAI_API_KEY environment variable)")
	}

	if c.Preferences.File == "" {
		errs = append(errs, "preferences.file is required")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.Enabled && (c.MQTT.QoS < 0 || c.MQTT.QoS > 2) {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// RequestTimeout returns the outbound request timeout as a Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.HomeAssistant.Timeout) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
