package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Field cipher key (symmetric secret, loaded once at startup)
	SecretKey string

	// Sessions
	SessionLifetime time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "pennywise"),
		DBPassword: getEnv("DB_PASSWORD", "pennywise"),
		DBName:     getEnv("DB_NAME", "pennywise"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	config.SecretKey = os.Getenv("SECRET_KEY")
	if config.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	// Parse session lifetime
	lifetimeStr := getEnv("SESSION_LIFETIME", "24h")
	lifetime, err := time.ParseDuration(lifetimeStr)
	if err != nil {
		log.Printf("Warning: invalid SESSION_LIFETIME value '%s', falling back to 24h\n", lifetimeStr)
		lifetime = 24 * time.Hour
	}
	config.SessionLifetime = lifetime

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
