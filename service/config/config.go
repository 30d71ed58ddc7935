/*
 * @module service/config/config
 * @description Service configuration: optional YAML file overlaid by environment variables
 * @architecture Layered architecture - configuration
 * @stateFlow defaults -> YAML file (CONFIG_FILE) -> environment overrides -> Validate
 * @rules Environment always wins over the file; Validate runs before any service is built
 * @dependencies gopkg.in/yaml.v3, github.com/spf13/cast
 * @refs service/container.go, main.go
 */

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Dapr       DaprConfig       `yaml:"dapr"`
	Automation AutomationConfig `yaml:"automation"`
	LogLevel   string           `yaml:"log_level"`
	Timezone   string           `yaml:"timezone"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	BaseContext string `yaml:"base_context"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | sqlite
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	Schema   string `yaml:"schema"`
	Debug    bool   `yaml:"debug"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	QoS      int    `yaml:"qos"`
}

type DaprConfig struct {
	PubSubEnabled bool   `yaml:"pubsub_enabled"`
	PubSubName    string `yaml:"pubsub_name"`
	Topic         string `yaml:"topic"`
}

type AutomationConfig struct {
	Enabled            bool          `yaml:"enabled"`
	DailyScheduleSpec  string        `yaml:"daily_schedule_spec"`
	OverdueSweepSpec   string        `yaml:"overdue_sweep_spec"`
	WeeklyScheduleSpec string        `yaml:"weekly_schedule_spec"`
	CleanupSpec        string        `yaml:"cleanup_spec"`
	SheetRetentionDays int           `yaml:"sheet_retention_days"`
	LockTTL            time.Duration `yaml:"lock_ttl"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 80},
		Database: DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "postgres",
			SSLMode: "disable",
			Schema:  "public",
		},
		Redis: RedisConfig{Host: "localhost", Port: "6379"},
		Kafka: KafkaConfig{Topic: "qc.nonconformities"},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "ceramiqc",
			Topic:    "qc/measurements/+",
			QoS:      1,
		},
		Dapr: DaprConfig{PubSubName: "pubsub", Topic: "qc-nonconformities"},
		Automation: AutomationConfig{
			Enabled:            true,
			DailyScheduleSpec:  "1 0 * * *",
			OverdueSweepSpec:   "0 * * * *",
			WeeklyScheduleSpec: "30 23 * * 0",
			CleanupSpec:        "0 2 1 * *",
			SheetRetentionDays: 365,
			LockTTL:            10 * time.Minute,
		},
		LogLevel: "info",
		Timezone: "Local",
	}
}

// Load builds the configuration from CONFIG_FILE (if set) and the environment.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = cast.ToInt(getEnvWithDefault("LISTEN_PORT", cast.ToString(c.Server.Port)))
	c.Server.BaseContext = getEnvWithDefault("BASE_CONTEXT", c.Server.BaseContext)

	c.Database.Driver = getEnvWithDefault("DB_DRIVER", c.Database.Driver)
	c.Database.URL = getEnvWithDefault("DATABASE_URL", c.Database.URL)
	c.Database.Host = getEnvWithDefault("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvWithDefault("DB_PORT", c.Database.Port)
	c.Database.User = getEnvWithDefault("DB_USER", c.Database.User)
	c.Database.Password = getEnvWithDefault("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnvWithDefault("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnvWithDefault("DB_SSLMODE", c.Database.SSLMode)
	c.Database.Schema = getEnvWithDefault("DB_SCHEMA", c.Database.Schema)
	c.Database.Debug = cast.ToBool(getEnvWithDefault("DB_DEBUG", cast.ToString(c.Database.Debug)))

	c.Redis.Enabled = cast.ToBool(getEnvWithDefault("REDIS_ENABLED", cast.ToString(c.Redis.Enabled)))
	c.Redis.Host = getEnvWithDefault("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvWithDefault("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnvWithDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = cast.ToInt(getEnvWithDefault("REDIS_DB", cast.ToString(c.Redis.DB)))

	c.Kafka.Enabled = cast.ToBool(getEnvWithDefault("KAFKA_ENABLED", cast.ToString(c.Kafka.Enabled)))
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
	c.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", c.Kafka.Topic)

	c.MQTT.Enabled = cast.ToBool(getEnvWithDefault("MQTT_ENABLED", cast.ToString(c.MQTT.Enabled)))
	c.MQTT.Broker = getEnvWithDefault("MQTT_BROKER", c.MQTT.Broker)
	c.MQTT.ClientID = getEnvWithDefault("MQTT_CLIENT_ID", c.MQTT.ClientID)
	c.MQTT.Username = getEnvWithDefault("MQTT_USERNAME", c.MQTT.Username)
	c.MQTT.Password = getEnvWithDefault("MQTT_PASSWORD", c.MQTT.Password)
	c.MQTT.Topic = getEnvWithDefault("MQTT_TOPIC", c.MQTT.Topic)
	c.MQTT.QoS = cast.ToInt(getEnvWithDefault("MQTT_QOS", cast.ToString(c.MQTT.QoS)))

	c.Dapr.PubSubEnabled = cast.ToBool(getEnvWithDefault("DAPR_PUBSUB_ENABLED", cast.ToString(c.Dapr.PubSubEnabled)))
	c.Dapr.PubSubName = getEnvWithDefault("DAPR_PUBSUB_NAME", c.Dapr.PubSubName)
	c.Dapr.Topic = getEnvWithDefault("DAPR_PUBSUB_TOPIC", c.Dapr.Topic)

	c.Automation.Enabled = cast.ToBool(getEnvWithDefault("QC_JOBS_ENABLED", cast.ToString(c.Automation.Enabled)))
	c.Automation.SheetRetentionDays = cast.ToInt(getEnvWithDefault("QC_SHEET_RETENTION_DAYS", cast.ToString(c.Automation.SheetRetentionDays)))

	c.LogLevel = getEnvWithDefault("LOG_LEVEL", c.LogLevel)
	c.Timezone = getEnvWithDefault("QC_TIMEZONE", c.Timezone)
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid listen port %d", c.Server.Port)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka is enabled but no brokers are configured")
	}
	if c.Automation.SheetRetentionDays < 0 {
		return fmt.Errorf("sheet retention must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the plant timezone used for "today" and shift buckets.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DSN returns the database connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		return "ceramiqc.db"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.Schema)
}

// Addr returns host:port of the redis server.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
