package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP configuration
	ListenAddr string

	// Initial principal registry. Seeded into the database on startup
	// for roles that are not yet bound.
	OwnerAddress    string
	TokenAddress    string
	Presale1Address string
	Presale2Address string
	Presale3Address string

	// Kafka configuration. Empty brokers disable event forwarding.
	KafkaBrokers []string
	KafkaTopic   string

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// load loads configuration from environment variables. A .env file in
// the working directory is applied first when present.
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ListenAddr:  getEnvWithDefault("LISTEN_ADDR", ":8080"),

		OwnerAddress:    os.Getenv("OWNER_ADDRESS"),
		TokenAddress:    os.Getenv("TOKEN_ADDRESS"),
		Presale1Address: os.Getenv("PRESALE1_ADDRESS"),
		Presale2Address: os.Getenv("PRESALE2_ADDRESS"),
		Presale3Address: os.Getenv("PRESALE3_ADDRESS"),

		KafkaTopic: getEnvWithDefault("KAFKA_TOPIC", "vesting-events"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			broker = strings.TrimSpace(broker)
			if broker != "" {
				config.KafkaBrokers = append(config.KafkaBrokers, broker)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.OwnerAddress == "" {
			return nil, fmt.Errorf("OWNER_ADDRESS is required")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:     "test",
		ListenAddr:      ":0",
		OwnerAddress:    "test-owner",
		TokenAddress:    "test-token",
		Presale1Address: "test-presale1",
		Presale2Address: "test-presale2",
		Presale3Address: "test-presale3",
	}
}
