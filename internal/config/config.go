package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter. Values come from the environment;
// a .env file is loaded first when present.
type Config struct {
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Expiry   ExpiryConfig

	LogLevel  string
	LogPretty bool

	// JWTSecret verifies bearer tokens at the HTTP boundary. The core only
	// ever sees the identity extracted from a valid token.
	JWTSecret string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ExpiryConfig is the stale-posting policy. Disabled by default: open work
// and pending bids live forever unless the operator turns the sweeper on.
type ExpiryConfig struct {
	Enabled       bool
	OpenWorkTTL   time.Duration
	PendingBidTTL time.Duration
	CronSpec      string
}

// Load reads configuration from the environment, loading .env first if one
// exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "labourline"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "labourline"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", "/"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Expiry: ExpiryConfig{
			Enabled:       getEnvBool("EXPIRY_ENABLED", false),
			OpenWorkTTL:   getEnvDuration("EXPIRY_OPEN_WORK_TTL", 72*time.Hour),
			PendingBidTTL: getEnvDuration("EXPIRY_PENDING_BID_TTL", 24*time.Hour),
			CronSpec:      getEnv("EXPIRY_CRON", "*/10 * * * *"),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
		JWTSecret: getEnv("JWT_SECRET", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
