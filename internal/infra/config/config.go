package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	// Upstream property-management API. The token is the one credential
	// this service holds; without it no request may be attempted.
	PMSBaseURL    string
	PMSAPIToken   string
	PMSTimeout    time.Duration
	PMSRateLimit  float64
	QuoteDebounce time.Duration

	// Headless CMS and its cache.
	CMSBaseURL      string
	CMSTimeout      time.Duration
	RedisAddr       string
	ContentCacheTTL time.Duration

	// Reservation idempotency store.
	MongoURI string
	MongoDB  string

	// Reservation event feed. Optional: empty brokers disables publishing.
	KafkaBrokers     []string
	KafkaTopicPrefix string
}

// Load parses configuration from the current environment. A missing PMS
// token is a fatal configuration error: better to refuse to start than to
// run a booking site that cannot price anything.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		PMSBaseURL:       getEnv("PMS_BASE_URL", "https://api.hostaway.com/v1"),
		PMSAPIToken:      os.Getenv("PMS_API_TOKEN"),
		CMSBaseURL:       getEnv("CMS_BASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "shorestay"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
	}

	if cfg.PMSAPIToken == "" {
		return Config{}, fmt.Errorf("PMS_API_TOKEN is required")
	}

	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	pmsTimeout, err := parseDurationEnv("PMS_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.PMSTimeout = pmsTimeout

	cmsTimeout, err := parseDurationEnv("CMS_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.CMSTimeout = cmsTimeout

	cacheTTL, err := parseDurationEnv("CONTENT_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.ContentCacheTTL = cacheTTL

	debounce, err := parseDurationEnv("QUOTE_DEBOUNCE", 300*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.QuoteDebounce = debounce

	rate, err := parseFloatEnv("PMS_RATE_LIMIT", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.PMSRateLimit = rate

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	var f float64
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%g", &f); err != nil {
		return 0, fmt.Errorf("invalid %s number: %q", key, raw)
	}
	return f, nil
}
