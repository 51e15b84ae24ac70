package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Extractor     ExtractorConfig
	Storage       StorageConfig
	Issuer        IssuerConfig
	Classifier    ClassifierConfig
	Jobs          JobsConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
}

// ExtractorConfig points at the camelot table-extraction sidecar.
type ExtractorConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

type StorageConfig struct {
	LocalPath string
	UploadTTL time.Duration
}

// IssuerConfig is the metadata signature a genuine statement must carry.
type IssuerConfig struct {
	Creator string
	Subject string
}

// ClassifierConfig optionally points at a YAML rule-table override.
type ClassifierConfig struct {
	RulesPath string
}

type JobsConfig struct {
	Workers    int
	QueueDepth int
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Pick up a .env file when present; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 20),
		},
		Extractor: ExtractorConfig{
			BaseURL:    getEnv("EXTRACTOR_URL", "http://localhost:9380"),
			Timeout:    getEnvAsDuration("EXTRACTOR_TIMEOUT", 60*time.Second),
			MaxRetries: getEnvAsInt("EXTRACTOR_MAX_RETRIES", 3),
		},
		Storage: StorageConfig{
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			UploadTTL: getEnvAsDuration("STORAGE_UPLOAD_TTL", 24*time.Hour),
		},
		Issuer: IssuerConfig{
			Creator: getEnv("ISSUER_CREATOR", "Safaricom"),
			Subject: getEnv("ISSUER_SUBJECT", "M-PESA Statement"),
		},
		Classifier: ClassifierConfig{
			RulesPath: getEnv("CLASSIFIER_RULES_PATH", ""),
		},
		Jobs: JobsConfig{
			Workers:    getEnvAsInt("JOBS_WORKERS", 4),
			QueueDepth: getEnvAsInt("JOBS_QUEUE_DEPTH", 64),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
