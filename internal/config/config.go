package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDatasetURL is the published global land-surface temperature dataset.
const DefaultDatasetURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetURL      string
	DatasetTimeout  time.Duration
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Redis payload cache; disabled when RedisAddr is empty.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	DatasetCacheTTL time.Duration

	// Optional Kafka cell publisher.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	datasetTimeout, err := parsePositiveDuration("DATASET_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("DATASET_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	redisDB, err := strconv.Atoi(envOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}
	kafkaEnabled, err := strconv.ParseBool(envOrDefault("KAFKA_ENABLED", "false"))
	if err != nil {
		return nil, errors.New("invalid KAFKA_ENABLED")
	}

	cfg := &Config{
		DatasetURL:      envOrDefault("DATASET_URL", DefaultDatasetURL),
		DatasetTimeout:  datasetTimeout,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		DatasetCacheTTL: cacheTTL,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "heatmap-cells"),
	}

	if u, err := url.Parse(cfg.DatasetURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid DATASET_URL %q", cfg.DatasetURL)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, dropping blanks.
func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
