package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds configuration for the development Product Service.
// Following 12-factor app principles, all config is loaded from environment variables
type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	StorePath       string   // SQLite file; empty keeps products in memory
	Seed            bool     // fill an empty store with sample products
	CORSOrigins     []string
	LogLevel        string
}

// LoadServer reads server configuration from environment variables
func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port:            getEnv("PORT", "8080"),
		Host:            getEnv("HOST", "0.0.0.0"),
		ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
		WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
		ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		StorePath:       getEnv("STORE_PATH", ""),
		Seed:            getEnvAsBool("SEED", true),
		CORSOrigins:     getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}

	return validateLogLevel(c.LogLevel)
}

// Addr is the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func validateLogLevel(level string) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
