package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	LoadGen   LoadGenConfig   `yaml:"load_gen"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	OrdersTopic  string   `yaml:"orders_topic"`
	NoticesTopic string   `yaml:"notices_topic"`
	GroupID      string   `yaml:"group_id"`
	Partitions   int      `yaml:"partitions"`
	Replication  int      `yaml:"replication"`
}

type TelemetryConfig struct {
	// Endpoint is the OTLP gRPC collector address; empty disables export.
	Endpoint string `yaml:"endpoint"`
}

type LoadGenConfig struct {
	TargetAddr string        `yaml:"target_addr"`
	Interval   time.Duration `yaml:"interval"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.LoadGen.Interval < 0 {
		return nil, fmt.Errorf("invalid load_gen interval %s: must be positive", cfg.LoadGen.Interval)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KAFKA_BROKER"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("ORDER_API_ADDR"); v != "" {
		c.LoadGen.TargetAddr = v
	}
	if v := os.Getenv("INTERVAL_MS"); v != "" {
		d, err := time.ParseDuration(v + "ms")
		if err != nil {
			return fmt.Errorf("invalid INTERVAL_MS %q: %w", v, err)
		}
		c.LoadGen.Interval = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.OrdersTopic == "" {
		c.Kafka.OrdersTopic = "orders"
	}
	if c.Kafka.NoticesTopic == "" {
		c.Kafka.NoticesTopic = "fulfillment-notices"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "order-processor"
	}
	if c.Kafka.Partitions == 0 {
		c.Kafka.Partitions = 3
	}
	if c.Kafka.Replication == 0 {
		c.Kafka.Replication = 1
	}
	if c.LoadGen.TargetAddr == "" {
		c.LoadGen.TargetAddr = "http://localhost:8080"
	}
	if c.LoadGen.Interval == 0 {
		c.LoadGen.Interval = 2 * time.Second
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
