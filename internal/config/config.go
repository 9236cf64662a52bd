package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
	Storage  StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
	SSEExpiration    time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Version        string
	AllowedOrigins []string
	// RateLimit is the number of requests allowed per IP per minute. Zero disables it.
	RateLimit int
}

// PayrollConfig holds the payroll calculation settings
type PayrollConfig struct {
	// PHRate is the amount paid per public-holiday day.
	PHRate decimal.Decimal
}

type StorageConfig struct {
	BasePath        string
	SnapshotEnabled bool
	SnapshotEvery   time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "25"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "mestri_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:5173"),
		RateLimit:      rateLimit,
	}

	// JWT configuration
	accessExp, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	sseExp, err := time.ParseDuration(getEnv("JWT_SSE_EXPIRATION_TIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_SSE_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExp,
		SSEExpiration:    sseExp,
	}

	// Payroll configuration
	phRate, err := decimal.NewFromString(getEnv("PAYROLL_PH_RATE", "497.65"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_PH_RATE: %w", err)
	}
	config.Payroll = PayrollConfig{PHRate: phRate}

	// Storage configuration
	snapshotEvery, err := time.ParseDuration(getEnv("SNAPSHOT_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_INTERVAL: %w", err)
	}
	config.Storage = StorageConfig{
		BasePath:        getEnv("STORAGE_BASE_PATH", "./storage"),
		SnapshotEnabled: getEnv("SNAPSHOT_ENABLED", "true") == "true",
		SnapshotEvery:   snapshotEvery,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Payroll.PHRate.IsNegative() {
		return fmt.Errorf("PAYROLL_PH_RATE must not be negative")
	}
	if c.Storage.SnapshotEnabled && c.Storage.SnapshotEvery <= 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
