package config

import (
	"os"
	"strconv"
	"time"

	commoncfg "github.com/Anshuman122/worker-productivity-dashboard-final/common/config"
)

// Config workfloor-metrics service configuration
type Config struct {
	HTTP struct {
		Addr              string
		ReadHeaderTimeout time.Duration
		ReadTimeout       time.Duration
		WriteTimeout      time.Duration
		IdleTimeout       time.Duration
	}

	// DBEnabled=false runs against the in-memory store (local dev / demos)
	DBEnabled bool
	Database  commoncfg.DatabaseConfig
	Redis     commoncfg.RedisConfig
	MQTT      MQTTConfig

	Metrics struct {
		IntervalMinutes int
		ShiftHours      int
	}

	Events struct {
		DefaultLimit int
		// 0 leaves ?limit= uncapped
		MaxLimit int
		// reject events whose worker/workstation is not registered
		RequireKnownIdentities bool
	}

	// Publish committed events to a Redis stream
	Publish struct {
		Enabled bool
		Stream  string
	}

	// Ingest events from a Redis stream through the same validation path as HTTP
	StreamIngest struct {
		Enabled       bool
		Stream        string
		ConsumerGroup string
		ConsumerName  string
		BatchSize     int
	}

	Log struct {
		Level  string
		Format string
	}
}

// MQTTConfig MQTT ingestion settings
type MQTTConfig struct {
	commoncfg.MQTTConfig
	Enabled bool
	Topic   string
}

// RedisRequired reports whether any enabled component needs a Redis client
func (c *Config) RedisRequired() bool {
	return c.Publish.Enabled || c.StreamIngest.Enabled
}

// Load reads configuration from the environment
func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.ReadHeaderTimeout = parseDuration(getEnv("HTTP_READ_HEADER_TIMEOUT", "5s"), 5*time.Second)
	cfg.HTTP.ReadTimeout = parseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"), 15*time.Second)
	// XLSX export of a large report can take a while to stream
	cfg.HTTP.WriteTimeout = parseDuration(getEnv("HTTP_WRITE_TIMEOUT", "60s"), 60*time.Second)
	cfg.HTTP.IdleTimeout = parseDuration(getEnv("HTTP_IDLE_TIMEOUT", "120s"), 120*time.Second)

	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "workfloor",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  5,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "workfloor-metrics"
	cfg.MQTT.QoS = 1
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "factory/events")

	cfg.Metrics.IntervalMinutes = parsePositiveInt(getEnv("METRICS_INTERVAL_MINUTES", "15"), 15)
	cfg.Metrics.ShiftHours = parsePositiveInt(getEnv("METRICS_SHIFT_HOURS", "8"), 8)

	cfg.Events.DefaultLimit = parsePositiveInt(getEnv("EVENTS_DEFAULT_LIMIT", "100"), 100)
	cfg.Events.MaxLimit = parseNonNegativeInt(getEnv("EVENTS_MAX_LIMIT", "0"), 0)
	if cfg.Events.MaxLimit > 0 && cfg.Events.MaxLimit < cfg.Events.DefaultLimit {
		cfg.Events.MaxLimit = cfg.Events.DefaultLimit
	}
	cfg.Events.RequireKnownIdentities = getEnv("INGEST_REQUIRE_KNOWN_IDENTITIES", "false") == "true"

	cfg.Publish.Enabled = getEnv("EVENT_PUBLISH_ENABLED", "false") == "true"
	cfg.Publish.Stream = getEnv("EVENT_PUBLISH_STREAM", "factory:events:committed")

	cfg.StreamIngest.Enabled = getEnv("STREAM_INGEST_ENABLED", "false") == "true"
	cfg.StreamIngest.Stream = getEnv("STREAM_INGEST_STREAM", "factory:events:ingest")
	cfg.StreamIngest.ConsumerGroup = getEnv("STREAM_INGEST_GROUP", "workfloor-metrics-group")
	cfg.StreamIngest.ConsumerName = getEnv("STREAM_INGEST_CONSUMER", "workfloor-metrics-1")
	cfg.StreamIngest.BatchSize = parsePositiveInt(getEnv("STREAM_INGEST_BATCH_SIZE", "10"), 10)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePositiveInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func parseNonNegativeInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
