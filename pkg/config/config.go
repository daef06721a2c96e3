package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string // development, staging, production

	// Database
	Database DatabaseConfig

	// Engine
	Engine EngineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// EngineConfig holds the lifecycle engine tunables supplied by the
// host: restart thresholds, window sizes and classification ratios.
// Defaults match the engine's standard thresholds.
type EngineConfig struct {
	Workers int

	OutOfStockRestartDays int
	InactivityRestartDays int
	RollingWindowDays     int
	LaunchDays            int
	MatureRatio           float64
	DeclineRatio          float64
	LowInventoryUnits     float64
	CompareWindowDays     []int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Engine: EngineConfig{
			Workers:               getEnvAsInt("ENGINE_WORKERS", 8),
			OutOfStockRestartDays: getEnvAsInt("ENGINE_OOS_RESTART_DAYS", 14),
			InactivityRestartDays: getEnvAsInt("ENGINE_INACTIVITY_RESTART_DAYS", 28),
			RollingWindowDays:     getEnvAsInt("ENGINE_ROLLING_WINDOW_DAYS", 7),
			LaunchDays:            getEnvAsInt("ENGINE_LAUNCH_DAYS", 14),
			MatureRatio:           getEnvAsFloat("ENGINE_MATURE_RATIO", 0.85),
			DeclineRatio:          getEnvAsFloat("ENGINE_DECLINE_RATIO", 0.65),
			LowInventoryUnits:     getEnvAsFloat("ENGINE_LOW_INVENTORY_UNITS", 20),
			CompareWindowDays:     getEnvAsIntList("ENGINE_COMPARE_WINDOWS", []int{7, 14, 30}),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Engine.MatureRatio <= 0 || c.Engine.MatureRatio > 1 {
		return fmt.Errorf("ENGINE_MATURE_RATIO must be in (0, 1]")
	}
	if c.Engine.DeclineRatio <= 0 || c.Engine.DeclineRatio > c.Engine.MatureRatio {
		return fmt.Errorf("ENGINE_DECLINE_RATIO must be in (0, ENGINE_MATURE_RATIO]")
	}
	if len(c.Engine.CompareWindowDays) == 0 {
		return fmt.Errorf("ENGINE_COMPARE_WINDOWS must list at least one day count")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsIntList(key string, defaultValue []int) []int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []int
	for _, part := range strings.Split(valueStr, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		out = append(out, v)
	}
	return out
}
