package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samorobo/twitter-trends-bot/internal/trends"
)

// ErrMissingCredentials is returned when the search API credentials are
// absent. The run halts before any network activity.
var ErrMissingCredentials = errors.New("GOOGLE_API_KEY and GOOGLE_CX_ID must be set")

// Config holds all bot configuration.
type Config struct {
	// APIKey and SearchEngineID authenticate against the Custom Search API.
	APIKey         string
	SearchEngineID string

	// Region is the URL path segment used by the trend sites, e.g. "nigeria".
	Region string
	// Country is the label written into the output record, e.g. "Nigeria".
	Country string

	// StaticTopics is the last-resort topic list.
	StaticTopics []string

	OutputFile  string
	WaitTimeout time.Duration
	EnrichDelay time.Duration

	// MetricsPort exposes /metrics when > 0.
	MetricsPort int
	// ProxyFile lists proxies for browser sessions, one URL per line.
	ProxyFile string

	// Storage DSNs; each non-empty value enables a backend.
	SQLitePath   string
	PostgresDSN  string
	CSVPath      string
	NDJSONPath   string
}

// Load reads configuration from a .env file (if present) and the
// environment, then validates the credentials.
func Load(envFile string) (Config, error) {
	// A missing .env file is fine; the environment may carry everything.
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	cfg := Config{
		APIKey:         getEnv("GOOGLE_API_KEY", ""),
		SearchEngineID: getEnv("GOOGLE_CX_ID", ""),
		Region:         getEnv("TRENDS_REGION", "nigeria"),
		Country:        getEnv("TRENDS_COUNTRY", "Nigeria"),
		StaticTopics:   getEnvAsSlice("TRENDS_STATIC_TOPICS", trends.DefaultStaticTopics),
		OutputFile:     getEnv("TRENDS_OUTPUT_FILE", "nigeria_trends_results.json"),
		WaitTimeout:    getEnvAsDuration("TRENDS_WAIT_TIMEOUT", 10*time.Second),
		EnrichDelay:    getEnvAsDuration("TRENDS_ENRICH_DELAY", 1*time.Second),
		MetricsPort:    getEnvAsInt("TRENDS_METRICS_PORT", 0),
		ProxyFile:      getEnv("TRENDS_PROXY_FILE", ""),
		SQLitePath:     getEnv("TRENDS_SQLITE_PATH", ""),
		PostgresDSN:    getEnv("TRENDS_POSTGRES_DSN", ""),
		CSVPath:        getEnv("TRENDS_CSV_PATH", ""),
		NDJSONPath:     getEnv("TRENDS_NDJSON_PATH", ""),
	}

	return cfg, validate(cfg)
}

// validate checks preconditions that must hold before the run starts.
func validate(cfg Config) error {
	if cfg.APIKey == "" || cfg.SearchEngineID == "" {
		return fmt.Errorf("missing search credentials: %w", ErrMissingCredentials)
	}
	if cfg.Region == "" {
		return errors.New("TRENDS_REGION cannot be empty")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
