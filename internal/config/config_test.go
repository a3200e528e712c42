package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDatasetURL, cfg.DatasetURL)
	assert.Equal(t, 10*time.Second, cfg.DatasetTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.DatasetCacheTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "heatmap-cells", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATASET_URL", "http://localhost:9000/global-temperature.json")
	t.Setenv("DATASET_TIMEOUT", "3s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DATASET_CACHE_TTL", "15m")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-cells")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/global-temperature.json", cfg.DatasetURL)
	assert.Equal(t, 3*time.Second, cfg.DatasetTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 15*time.Minute, cfg.DatasetCacheTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-cells", cfg.KafkaTopic)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"dataset timeout not a duration", "DATASET_TIMEOUT", "soon"},
		{"dataset timeout zero", "DATASET_TIMEOUT", "0s"},
		{"shutdown timeout negative", "SHUTDOWN_TIMEOUT", "-1s"},
		{"cache ttl not a duration", "DATASET_CACHE_TTL", "forever"},
		{"redis db not a number", "REDIS_DB", "one"},
		{"redis db negative", "REDIS_DB", "-1"},
		{"kafka enabled not a bool", "KAFKA_ENABLED", "maybe"},
		{"dataset url relative", "DATASET_URL", "global-temperature.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaDisabledIgnoresEmptyBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, parseBrokers("a:1,b:2"))
	assert.Equal(t, []string{"a:1"}, parseBrokers(" a:1 ,, "))
	assert.Nil(t, parseBrokers(""))
}
