// Package config reads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DBConnStr string
	Port      int
	APIToken  string

	// Equities pricing is optional: an empty key disables the
	// TwelveData client instead of failing startup
	TwelveDataAPIKey string

	// Reference timezone for snapshot day bucketing and EOD scheduling
	Timezone *time.Location

	AnalyticsLookbackDays int
	LogLevel              string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	tzName := getEnv("SNAPSHOT_TIMEZONE", "Europe/Bratislava")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		DBConnStr:             databaseConnStr(),
		Port:                  getEnvAsInt("PORT", 8080),
		APIToken:              getEnv("API_TOKEN", "dev-token"),
		TwelveDataAPIKey:      getEnv("TWELVEDATA_API_KEY", ""),
		Timezone:              tz,
		AnalyticsLookbackDays: getEnvAsInt("ANALYTICS_LOOKBACK_DAYS", 60),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DBConnStr == "" {
		return fmt.Errorf("database connection string is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port")
	}
	if c.AnalyticsLookbackDays <= 0 {
		return fmt.Errorf("ANALYTICS_LOOKBACK_DAYS must be positive")
	}
	return nil
}

// databaseConnStr prefers an explicit DB_CONN_STR and otherwise builds
// the connection string from individual vars (Docker friendly)
func databaseConnStr() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "walletfolio")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
