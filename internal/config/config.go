package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds the store location and connection pool settings.
type DatabaseConfig struct {
	// URL is the store location: a postgres:// URL or a SQLite file path.
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// HTTPConfig holds listener and transport middleware settings.
type HTTPConfig struct {
	Host           string
	Port           string
	AllowOrigins   string
	MetricsEnabled bool
	SwaggerEnabled bool
}

// AppConfig is the centralized configuration struct for the application.
// It is built once at startup and handed to the router by pointer; nothing mutates it afterwards.
type AppConfig struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over .env values.
func Load() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", "database.sqlite"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		HTTP: HTTPConfig{
			Host:           getEnv("HOST", "127.0.0.1"),
			Port:           getEnv("PORT", "8080"),
			AllowOrigins:   getEnv("CORS_ALLOW_ORIGINS", "*"),
			MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
			SwaggerEnabled: getEnvBool("SWAGGER_ENABLED", true),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
			File:   getEnv("LOG_FILE", ""),
		},
	}
}

// Addr is the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
