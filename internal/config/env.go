package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

// LoadEnvironment reads ENV, falling back to development when unset or unknown.
func LoadEnvironment() Environment {
	env := Environment(os.Getenv("ENV"))
	switch env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return env
	default:
		return EnvDevelopment
	}
}

// ApplyEnv overrides configuration values from environment variables.
func (c *Config) ApplyEnv() {
	c.KeyPath = getEnv("LICENSEMAKER_KEY_PATH", c.KeyPath)
	c.Scheme = getEnv("LICENSEMAKER_SCHEME", c.Scheme)
	c.LedgerPath = getEnv("LICENSEMAKER_LEDGER_PATH", c.LedgerPath)
	c.DisableLedger = getEnvBool("LICENSEMAKER_DISABLE_LEDGER", c.DisableLedger)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Server.ListenAddr = getEnv("LISTEN_ADDR", c.Server.ListenAddr)

	if n := getEnvInt("RATE_LIMIT_REQUESTS", c.Server.RateLimitRequests); n >= 0 {
		c.Server.RateLimitRequests = n
	}
	if d := getEnvDuration("RATE_LIMIT_PERIOD", c.Server.RateLimitPeriod); d > 0 {
		c.Server.RateLimitPeriod = d
	}
}

// getEnv reads a string from an environment variable, returning the default if unset.
func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

// getEnvBool reads a boolean from an environment variable, returning the default if unset or invalid.
func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvDuration reads a Go duration (e.g. "1m") from an environment variable.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
