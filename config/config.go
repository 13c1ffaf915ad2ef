package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	JWT      JWTConfig
	Server   ServerConfig
	Database DatabaseConfig
	Search   SearchConfig
	AMQP     AMQPConfig
}

// JWTConfig holds JWT configuration for app tokens
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds the relational store connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// SearchConfig holds the search index settings. An empty path keeps indexes
// in memory.
type SearchConfig struct {
	Path string
}

// AMQPConfig holds the optional update-event relay settings. An empty URL
// disables the relay.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	jwtExpirationHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SECONDS", "10"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SECONDS", "10"))

	return &Config{
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExpirationHours) * time.Hour,
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "fort"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Search: SearchConfig{
			Path: getEnv("SEARCH_INDEX_PATH", "data/index"),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "fort.resource.update"),
		},
	}
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
