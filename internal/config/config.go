// Package config loads application configuration from the environment.
// API credentials for market data sources live here and are passed into
// the client constructors; no other package reads environment state.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBPath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Market data
	FinnhubAPIKey      string
	FinnhubBaseURL     string
	AlphaVantageAPIKey string
	AlphaVantageURL    string
	UpstreamTimeout    time.Duration

	// Valuation
	HistoryWindowDays int
}

var appConfig *Config

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBPath: getEnv("DB_PATH", "stockfolio.db"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Market data
		FinnhubAPIKey:      getEnv("FINNHUB_API_KEY", ""),
		FinnhubBaseURL:     getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_KEY", ""),
		AlphaVantageURL:    getEnv("ALPHA_VANTAGE_URL", "https://www.alphavantage.co/query"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	// Upstream fetch timeout; kept short so a stalled price source cannot
	// hold a valuation request open.
	toStr := getEnv("UPSTREAM_TIMEOUT", "5s")
	toDur, err := time.ParseDuration(toStr)
	if err != nil {
		log.Printf("Warning: invalid UPSTREAM_TIMEOUT value '%s', falling back to 5s\n", toStr)
		toDur = 5 * time.Second
	}
	config.UpstreamTimeout = toDur

	// Trailing valuation window in days (N days back through today).
	windowStr := getEnv("HISTORY_WINDOW_DAYS", "30")
	window, err := strconv.Atoi(windowStr)
	if err != nil || window <= 0 {
		log.Printf("Warning: invalid HISTORY_WINDOW_DAYS value '%s', falling back to 30\n", windowStr)
		window = 30
	}
	config.HistoryWindowDays = window

	appConfig = config
	return config, nil
}

// Get returns the application configuration.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
