// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultUbiflowAPIURL is the production classifieds API base URL.
	DefaultUbiflowAPIURL = "https://api-classifieds.ubiflow.net/api/"
	// DefaultUbiflowLoginURL is the production login endpoint.
	DefaultUbiflowLoginURL = "https://auth.ubiflow.net/api/login_check"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// UbiflowConfig provides the credentials and endpoints of the syndication API.
type UbiflowConfig interface {
	GetUbiflowClientID() string
	GetUbiflowClientCode() string
	GetUbiflowClientLogin() string
	GetUbiflowClientSecret() string
	GetUbiflowAPIURL() string
	GetUbiflowLoginURL() string
	GetUbiflowHTTPTimeout() time.Duration
	GetUbiflowRateLimit() float64
}

// CacheConfig provides settings for the shared Redis cache.
type CacheConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDatabaseMaxConns() int
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	CacheConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// ContactSyncConfig provides settings for the contact import job.
type ContactSyncConfig interface {
	GetContactSyncInterval() time.Duration
	GetContactSyncLookback() time.Duration
	GetPhoneDefaultRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	DatabaseMaxConns    int
	RedisURL            string
	RedisTLSInsecure    bool
	JWTAccessSecret     string
	CORSAllowAll        bool
	CORSOrigins         []string
	UbiflowClientID     string
	UbiflowClientCode   string
	UbiflowClientLogin  string
	UbiflowClientSecret string
	UbiflowAPIURL       string
	UbiflowLoginURL     string
	UbiflowHTTPTimeout  time.Duration
	UbiflowRateLimit    float64
	AsynqQueueName      string
	AsynqConcurrency    int
	ContactSyncInterval time.Duration
	ContactSyncLookback time.Duration
	PhoneDefaultRegion  string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// UbiflowConfig implementation
func (c *Config) GetUbiflowClientID() string           { return c.UbiflowClientID }
func (c *Config) GetUbiflowClientCode() string         { return c.UbiflowClientCode }
func (c *Config) GetUbiflowClientLogin() string        { return c.UbiflowClientLogin }
func (c *Config) GetUbiflowClientSecret() string       { return c.UbiflowClientSecret }
func (c *Config) GetUbiflowAPIURL() string             { return c.UbiflowAPIURL }
func (c *Config) GetUbiflowLoginURL() string           { return c.UbiflowLoginURL }
func (c *Config) GetUbiflowHTTPTimeout() time.Duration { return c.UbiflowHTTPTimeout }
func (c *Config) GetUbiflowRateLimit() float64         { return c.UbiflowRateLimit }

// CacheConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string   { return c.DatabaseURL }
func (c *Config) GetDatabaseMaxConns() int { return c.DatabaseMaxConns }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// ContactSyncConfig implementation
func (c *Config) GetContactSyncInterval() time.Duration { return c.ContactSyncInterval }
func (c *Config) GetContactSyncLookback() time.Duration { return c.ContactSyncLookback }
func (c *Config) GetPhoneDefaultRegion() string         { return c.PhoneDefaultRegion }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DatabaseMaxConns:    mustInt(getEnv("DATABASE_MAX_CONNS", "10")),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		JWTAccessSecret:     getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		UbiflowClientID:     getEnv("UBIFLOW_CLIENT_ID", ""),
		UbiflowClientCode:   getEnv("UBIFLOW_CLIENT_CODE", ""),
		UbiflowClientLogin:  getEnv("UBIFLOW_CLIENT_LOGIN", ""),
		UbiflowClientSecret: getEnv("UBIFLOW_CLIENT_SECRET", ""),
		UbiflowAPIURL:       getEnv("UBIFLOW_API_URL", DefaultUbiflowAPIURL),
		UbiflowLoginURL:     getEnv("UBIFLOW_LOGIN_URL", DefaultUbiflowLoginURL),
		UbiflowHTTPTimeout:  mustDuration(getEnv("UBIFLOW_HTTP_TIMEOUT", "30s")),
		UbiflowRateLimit:    mustFloat(getEnv("UBIFLOW_RATE_LIMIT", "0")),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE", "ubiflow"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "2")),
		ContactSyncInterval: mustDuration(getEnv("CONTACT_SYNC_INTERVAL", "15m")),
		ContactSyncLookback: mustDuration(getEnv("CONTACT_SYNC_LOOKBACK", "720h")),
		PhoneDefaultRegion:  strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "FR")),
	}

	if cfg.UbiflowClientID == "" || cfg.UbiflowClientCode == "" {
		return nil, fmt.Errorf("UBIFLOW_CLIENT_ID and UBIFLOW_CLIENT_CODE are required")
	}
	if cfg.UbiflowClientLogin == "" || cfg.UbiflowClientSecret == "" {
		return nil, fmt.Errorf("UBIFLOW_CLIENT_LOGIN and UBIFLOW_CLIENT_SECRET are required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.UbiflowRateLimit < 0 {
		return nil, fmt.Errorf("UBIFLOW_RATE_LIMIT cannot be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
