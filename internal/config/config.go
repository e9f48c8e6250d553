// Package config assembles the spooler's runtime configuration from
// environment variables. Adapted from the teacher's internal/config/config.go,
// fixed so the nested Kafka nested fields it deferences it actually
// constructs match what internal/kafka expects (the teacher repo's
// config.FromEnv/config.ProducerConfig were out of sync with each other).
package config

import (
	"os"
	"strconv"
	"time"
)

// Mode selects which control path handles incoming jobs.
type Mode string

const (
	ModeSpool   Mode = "spool"
	ModeNoSpool Mode = "nospool"
)

// CapacitiesConfig bounds the spool pipeline's intermediate containers.
type CapacitiesConfig struct {
	InputBuffer  int
	InputWell    int
	OutputWell   int
	OutputBuffer int
}

// ProducerConfig tunes the Kafka writer pool used by internal/kafka.
type ProducerConfig struct {
	PoolSize     int
	BatchSize    int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	RequiredAcks int
	Compression  string
	MaxRetries   int
	RetryBackoff time.Duration
}

// KafkaConfig configures the optional job-event sink. Brokers empty means
// job events are dropped to a no-op publisher instead of Kafka.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	Producer ProducerConfig
}

// AlertConfig tunes the rejection-rate alert threshold.
type AlertConfig struct {
	RejectRateThreshold float64
}

// Config holds runtime configuration for the spool server.
type Config struct {
	BindAddr      string
	Mode          Mode
	FontsDir      string
	OutputDir     string
	RenderLatency time.Duration
	Capacities    CapacitiesConfig
	LogLevel      string
	Kafka         KafkaConfig
	Alert         AlertConfig
}

// Default returns a sensible default config for local dev and tests.
func Default() *Config {
	return &Config{
		BindAddr:      "127.0.0.1:8080",
		Mode:          ModeSpool,
		FontsDir:      "./fonts",
		OutputDir:     "./output",
		RenderLatency: 5 * time.Second,
		Capacities: CapacitiesConfig{
			InputBuffer:  10,
			InputWell:    10,
			OutputWell:   10,
			OutputBuffer: 10,
		},
		LogLevel: "info",
		Kafka: KafkaConfig{
			Brokers: nil,
			Topic:   "spool.job-events",
			Producer: ProducerConfig{
				PoolSize:     4,
				BatchSize:    100,
				BatchTimeout: time.Second,
				WriteTimeout: 10 * time.Second,
				RequiredAcks: 1,
				Compression:  "snappy",
				MaxRetries:   3,
				RetryBackoff: 200 * time.Millisecond,
			},
		},
		Alert: AlertConfig{RejectRateThreshold: 0.5},
	}
}

// FromEnv builds a Config from SPOOL_* environment variables, falling back
// to Default() for anything unset.
func FromEnv() *Config {
	cfg := Default()

	if v := os.Getenv("SPOOL_BIND_ADDR"); v != "" {
		cfg.BindAddr = v
	}
	if v := os.Getenv("SPOOL_MODE"); v != "" {
		cfg.Mode = Mode(v)
	}
	if v := os.Getenv("SPOOL_FONTS_DIR"); v != "" {
		cfg.FontsDir = v
	}
	if v := os.Getenv("SPOOL_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := envDuration("SPOOL_RENDER_LATENCY"); v > 0 {
		cfg.RenderLatency = v
	}
	if v := envInt("SPOOL_INPUT_BUFFER_CAP"); v > 0 {
		cfg.Capacities.InputBuffer = v
	}
	if v := envInt("SPOOL_INPUT_WELL_CAP"); v > 0 {
		cfg.Capacities.InputWell = v
	}
	if v := envInt("SPOOL_OUTPUT_WELL_CAP"); v > 0 {
		cfg.Capacities.OutputWell = v
	}
	if v := envInt("SPOOL_OUTPUT_BUFFER_CAP"); v > 0 {
		cfg.Capacities.OutputBuffer = v
	}
	if v := os.Getenv("SPOOL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("SPOOL_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitCSV(v)
	}
	if v := os.Getenv("SPOOL_KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := envInt("SPOOL_KAFKA_POOL_SIZE"); v > 0 {
		cfg.Kafka.Producer.PoolSize = v
	}
	if v := envInt("SPOOL_KAFKA_BATCH_SIZE"); v > 0 {
		cfg.Kafka.Producer.BatchSize = v
	}
	if v := envDuration("SPOOL_KAFKA_BATCH_TIMEOUT"); v > 0 {
		cfg.Kafka.Producer.BatchTimeout = v
	}
	if v := envDuration("SPOOL_KAFKA_WRITE_TIMEOUT"); v > 0 {
		cfg.Kafka.Producer.WriteTimeout = v
	}
	if v := os.Getenv("SPOOL_KAFKA_COMPRESSION"); v != "" {
		cfg.Kafka.Producer.Compression = v
	}
	if v := envInt("SPOOL_KAFKA_MAX_RETRIES"); v > 0 {
		cfg.Kafka.Producer.MaxRetries = v
	}
	if v := envDuration("SPOOL_KAFKA_RETRY_BACKOFF"); v > 0 {
		cfg.Kafka.Producer.RetryBackoff = v
	}

	if v := os.Getenv("SPOOL_ALERT_REJECT_RATE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Alert.RejectRateThreshold = f
		}
	}

	return cfg
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(v string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				out = append(out, v[start:i])
			}
			start = i + 1
		}
	}
	return out
}
