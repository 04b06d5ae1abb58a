package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the parking coordinator.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Parking   ParkingConfig   `yaml:"parking"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Database  DatabaseConfig  `yaml:"database"`
	Audit     AuditConfig     `yaml:"audit"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Redis     RedisConfig     `yaml:"redis"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ParkingConfig describes the deployment: which topic namespace it owns and
// how many slots the lot has.
type ParkingConfig struct {
	// TopicRoot is the deployment-unique prefix for every topic on the bus.
	TopicRoot string `yaml:"topic_root"`

	// TotalSlots is the lot capacity N. Slot ids run from 1 to N.
	TotalSlots int `yaml:"total_slots"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// AuditConfig controls the asynchronous audit writer.
type AuditConfig struct {
	// QueueSize bounds the number of entries waiting to be written.
	// Entries beyond it are dropped and reported.
	QueueSize int `yaml:"queue_size"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	KeepAlive int                 `yaml:"keep_alive"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
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

// MQTTReconnectConfig contains MQTT reconnection settings.
//
// The transport never reconnects on its own. Enabling this hands the policy
// to the paho client's auto-reconnect loop, layered on by the operator.
type MQTTReconnectConfig struct {
	Enabled      bool `yaml:"enabled"`
	InitialDelay int  `yaml:"initial_delay"`
	MaxDelay     int  `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// RedisConfig contains settings for the access decision counters.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	// TTLHours is how long per-minute buckets are kept.
	TTLHours int `yaml:"ttl_hours"`
}

// SimulatorConfig contains timing for the device emulators.
type SimulatorConfig struct {
	GateOpenDurationMS int `yaml:"gate_open_duration_ms"`
	GateAutoCloseMS    int `yaml:"gate_auto_close_ms"`
	TrafficIntervalMS  int `yaml:"traffic_interval_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PARKING_SECTION_KEY
// For example: PARKING_DATABASE_PATH, PARKING_MQTT_HOST
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

// Config file locations.
const (
	// EnvConfigPath names the environment variable holding the config file path.
	EnvConfigPath = "PARKING_CONFIG"

	// DefaultPath is used when neither a flag nor PARKING_CONFIG names a file.
	DefaultPath = "configs/config.yaml"
)

// ResolvePath picks the config file: flagPath, then $PARKING_CONFIG, then
// DefaultPath. explicit is false only for the DefaultPath fallback.
func ResolvePath(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// LoadFrom loads the file ResolvePath picks. When the default file does not
// exist the built-in configuration is validated and used instead, and the
// returned path is empty. A missing file that was named explicitly is an error.
func LoadFrom(flagPath string) (*Config, string, error) {
	path, explicit := ResolvePath(flagPath)

	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := cfg.Validate(); err != nil {
				return nil, "", fmt.Errorf("validating config: %w", err)
			}
			return cfg, "", nil
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Default returns the built-in configuration with environment overrides
// applied. Binaries fall back to it when no config file exists.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with the values the lot was commissioned with.
func defaultConfig() *Config {
	return &Config{
		Parking: ParkingConfig{
			TopicRoot:  "SmartCity/Parking/Meir_Final_Project_2026",
			TotalSlots: 4,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "broker.hivemq.com",
				Port:     1883,
				ClientID: "Manager_App_v1",
			},
			QoS:       0,
			KeepAlive: 60,
			Reconnect: MQTTReconnectConfig{
				Enabled:      false,
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/smart_parking.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Audit: AuditConfig{
			QueueSize: 256,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Prefix:   "parking:access",
			TTLHours: 24,
		},
		Simulator: SimulatorConfig{
			GateOpenDurationMS: 3000,
			GateAutoCloseMS:    2000,
			TrafficIntervalMS:  3000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PARKING_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PARKING_TOPIC_ROOT"); v != "" {
		cfg.Parking.TopicRoot = v
	}

	if v := os.Getenv("PARKING_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("PARKING_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("PARKING_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("PARKING_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("PARKING_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Redis
	if v := os.Getenv("PARKING_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("PARKING_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	root := strings.Trim(c.Parking.TopicRoot, "/")
	if root == "" {
		errs = append(errs, "parking.topic_root is required")
	} else if strings.ContainsAny(root, "+#") {
		errs = append(errs, "parking.topic_root must not contain MQTT wildcards")
	}
	if c.Parking.TotalSlots < 1 {
		errs = append(errs, "parking.total_slots must be at least 1")
	}

	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.KeepAlive < 0 {
		errs = append(errs, "mqtt.keep_alive must not be negative")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.Audit.QueueSize < 1 {
		errs = append(errs, "audit.queue_size must be at least 1")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis.addr is required when redis is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetKeepAlive returns the MQTT keep-alive interval as a Duration.
func (c *Config) GetKeepAlive() time.Duration {
	return time.Duration(c.MQTT.KeepAlive) * time.Second
}

// GetGateOpenDuration returns how long the emulated gate takes to open.
func (c *Config) GetGateOpenDuration() time.Duration {
	return time.Duration(c.Simulator.GateOpenDurationMS) * time.Millisecond
}

// GetGateAutoClose returns how long the emulated gate stays open.
func (c *Config) GetGateAutoClose() time.Duration {
	return time.Duration(c.Simulator.GateAutoCloseMS) * time.Millisecond
}

// GetTrafficInterval returns the auto-traffic tick of the simulator.
func (c *Config) GetTrafficInterval() time.Duration {
	return time.Duration(c.Simulator.TrafficIntervalMS) * time.Millisecond
}

// GetRedisTTL returns the retention of per-minute access buckets.
func (c *Config) GetRedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLHours) * time.Hour
}
