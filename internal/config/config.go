package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the full configuration for the iot-tubes backend.
// Everything is read from environment variables with local-dev defaults,
// so a plain `go run ./cmd/iot-tubes` works against localhost services.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	MQTT    MQTTConfig
	Device  DeviceConfig
	Session struct {
		TTL time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
}

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// MQTTConfig broker connection settings shared by the session control
// channel and the telemetry ingest consumer.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
	// ConnectTimeout bounds the broker dial + handshake.
	ConnectTimeout time.Duration
	// PublishTimeout bounds a single publish ack wait, independent of the
	// caller's request deadline.
	PublishTimeout time.Duration
}

// DeviceConfig identifies the physical sensor device this backend serves.
type DeviceConfig struct {
	// ID is the device identifier used to scope the control topic
	// ("<id>/session") when a request does not name a device.
	ID string
	// RawTopic is the telemetry topic the ESP32 publishes readings on.
	RawTopic string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "iot_tubes")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "iot-tubes-backend")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1
	cfg.MQTT.ConnectTimeout = parseDuration(getEnv("MQTT_CONNECT_TIMEOUT", "5s"), 5*time.Second)
	cfg.MQTT.PublishTimeout = parseDuration(getEnv("MQTT_PUBLISH_TIMEOUT", "5s"), 5*time.Second)

	cfg.Device.ID = getEnv("DEVICE_ID", "esp32_1")
	cfg.Device.RawTopic = getEnv("MQTT_RAW_TOPIC", "esp32_1/raw-data")

	cfg.Session.TTL = parseDuration(getEnv("SESSION_TTL", "24h"), 24*time.Hour)

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

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
