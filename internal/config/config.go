package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	WheelWeights  string
	WheelTimezone string
	RetryCap      string

	RateLimitPerMinute string
	RateLimitBurst     string

	ShopifyStoreDomain  string
	ShopifyAccessToken  string
	ShopifyAPIVersion   string
	CouponValidityHours string

	KafkaBrokers           string
	KafkaClientID          string
	KafkaTopicPartitions   string
	KafkaReplicationFactor string
	EventDrivenEnabled     string
}

// WeightEntry is one parsed entry of the static wheel configuration.
type WeightEntry struct {
	Value  string
	Weight float64
}

// DefaultWeights is used when WHEEL_WEIGHTS is unset or unparseable.
const DefaultWeights = "nothing:500,-10%:250,-20%:120,-30%:60,CADEAU1:50,CADEAU2:20"

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "wheeldb"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		WheelWeights:  getEnv("WHEEL_WEIGHTS", DefaultWeights),
		WheelTimezone: getEnv("WHEEL_TIMEZONE", "Local"),
		RetryCap:      getEnv("WHEEL_RETRY_CAP", "10"),

		RateLimitPerMinute: getEnv("RATE_LIMIT_PER_MINUTE", "60"),
		RateLimitBurst:     getEnv("RATE_LIMIT_BURST", "10"),

		ShopifyStoreDomain:  getEnv("SHOPIFY_STORE_DOMAIN", ""),
		ShopifyAccessToken:  getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		ShopifyAPIVersion:   getEnv("SHOPIFY_API_VERSION", "2024-01"),
		CouponValidityHours: getEnv("COUPON_VALIDITY_HOURS", "48"),

		KafkaBrokers:           getEnv("KAFKA_BROKERS", "kafka:9092"),
		KafkaClientID:          getEnv("KAFKA_CLIENT_ID", "lucky-wheel"),
		KafkaTopicPartitions:   getEnv("KAFKA_TOPIC_PARTITIONS", "3"),
		KafkaReplicationFactor: getEnv("KAFKA_REPLICATION_FACTOR", "1"),
		EventDrivenEnabled:     getEnv("EVENT_DRIVEN_ENABLED", "false"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Weights parses WheelWeights ("value:weight,value:weight,..."). Entries with
// a missing colon or a non-positive weight are skipped; an empty result falls
// back to DefaultWeights.
func (c *Config) Weights() []WeightEntry {
	entries := parseWeights(c.WheelWeights)
	if len(entries) == 0 {
		entries = parseWeights(DefaultWeights)
	}
	return entries
}

func parseWeights(raw string) []WeightEntry {
	var entries []WeightEntry
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, ":")
		if idx <= 0 {
			continue
		}
		weight, err := strconv.ParseFloat(part[idx+1:], 64)
		if err != nil || weight <= 0 {
			continue
		}
		entries = append(entries, WeightEntry{Value: part[:idx], Weight: weight})
	}
	return entries
}

func (c *Config) RetryCapValue() int {
	return parseInt(c.RetryCap, 10)
}

func (c *Config) RateLimit() (perMinute, burst int) {
	return parseInt(c.RateLimitPerMinute, 60), parseInt(c.RateLimitBurst, 10)
}

func (c *Config) CouponValidity() int {
	return parseInt(c.CouponValidityHours, 48)
}

func (c *Config) TopicPartitions() int {
	return parseInt(c.KafkaTopicPartitions, 3)
}

func (c *Config) ReplicationFactor() int16 {
	value := parseInt(c.KafkaReplicationFactor, 1)
	return int16(value)
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
