// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config represents the application configuration
type Config struct {
	APIName                 string `env:"SM_API_APP_NAME" default:"Session Manager API"`
	APIVersion              string `env:"SM_API_APP_VERSION" default:"1.0.0"`
	ServerPort              string `env:"SM_API_SERVER_PORT" default:"3009"`
	ServerLogLevel          string `env:"SM_API_SERVER_LOG_LEVEL" default:"info"`
	PostgresDsn             string `env:"SM_API_PG_DSN"`
	PostgresSchema          string `env:"SM_API_PG_SCHEMA" default:"api"`
	PostgresLogLevel        string `env:"SM_API_PG_LOG_LEVEL" default:"error"`
	RedisHost               string `env:"SM_API_REDIS_HOST" default:"127.0.0.1"`
	RedisPort               string `env:"SM_API_REDIS_PORT" default:"6379"`
	RedisPassword           string `env:"SM_API_REDIS_PASSWORD" default:""`
	SessionTTLHours         string `env:"SM_API_SESSION_TTL_HOURS" default:"24"`
	DashboardRefreshSeconds string `env:"SM_API_DASHBOARD_REFRESH_SECONDS" default:"30"`
}

var (
	SingleLine string = "--------------------------------------------------"
)

var (
	instance *Config
	once     sync.Once
	err      error
)

// Get returns the application configuration
func Get() (*Config, error) {
	once.Do(func() {
		instance, err = loadConfig()
	})
	return instance, err
}

// loadConfig loads configuration from environment variables
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() error {
	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(c).Elem()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			return fmt.Errorf("missing env tag for field %s", field.Name)
		}

		value := os.Getenv(envTag)
		if value == "" {
			defaultValue, hasDefault := field.Tag.Lookup("default")
			if !hasDefault {
				return fmt.Errorf("env variable %s is required but not set", envTag)
			}
			value = defaultValue
		}

		v.Field(i).SetString(value)
	}

	return nil
}

// SessionTTL returns the retention threshold for uploaded session cookies
func (c *Config) SessionTTL() time.Duration {
	hours, err := strconv.Atoi(c.SessionTTLHours)
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// DashboardRefreshInterval returns the auto-refresh interval for dashboard views
func (c *Config) DashboardRefreshInterval() time.Duration {
	seconds, err := strconv.Atoi(c.DashboardRefreshSeconds)
	if err != nil || seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

// String returns the configuration as a string
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n--------------------------------------\n")
	sb.WriteString("Configuration:\n")
	sb.WriteString("--------------------------------------\n")

	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(*c)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i).String()

		// Mask sensitive fields
		value = maskSensitiveField(field.Name, value)
		sb.WriteString(fmt.Sprintf("  %s:  %s\n", field.Name, value))
	}

	sb.WriteString("--------------------------------------\n")

	return sb.String()
}

func maskSensitiveField(fieldName, value string) string {
	sensitiveFields := []string{"token", "dsn", "secret", "password", "url"}

	fieldNameLower := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(fieldNameLower, sensitive) {
			return maskValue(value)
		}
	}

	return value
}

func maskValue(value string) string {
	if len(value) <= 3 {
		return strings.Repeat("*", 7)
	}
	return value[:3] + strings.Repeat("*", 7)
}
