package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	ServerName      string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NWS upstream configuration.
	NWSBaseURL   string
	NWSUserAgent string
	NWSTimeout   time.Duration
	CacheSize    int // 0 disables the response cache
	CacheTTL     time.Duration

	// Tool-call event publishing; disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nwsTimeout, err := parsePositiveDuration("NWS_TIMEOUT", "35s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("NWS_CACHE_TTL", "60s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	baseURL, err := parseBaseURL(sharedcfg.EnvOrDefault("NWS_BASE_URL", "https://api.weather.gov"))
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		ServerName:      sharedcfg.EnvOrDefault("MCP_SERVER_NAME", "weather"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NWSBaseURL:   baseURL,
		NWSUserAgent: sharedcfg.EnvOrDefault("NWS_USER_AGENT", "weather-app/1.0"),
		NWSTimeout:   nwsTimeout,
		CacheSize:    cacheSize,
		CacheTTL:     cacheTTL,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-tool-calls"),
	}

	if strings.TrimSpace(cfg.NWSUserAgent) == "" {
		return nil, errors.New("NWS_USER_AGENT must not be blank")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// EventsEnabled reports whether tool-call events should be published.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("NWS_CACHE_SIZE")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid NWS_CACHE_SIZE")
	}
	return n, nil
}

func parseBaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errors.New("invalid NWS_BASE_URL: must be an absolute http(s) URL")
	}
	return strings.TrimRight(raw, "/"), nil
}
