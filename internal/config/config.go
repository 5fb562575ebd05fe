package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	applog "dompet/internal/log"
)

type Config struct {
	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Memory backend seed (JSON array of expense records)
	DataFile string

	// Project shown when none is given on the command line
	ProjectID string

	// Budget cache
	BudgetCacheSize int
	BudgetCacheTTL  time.Duration

	// Upper bound for loading a report
	LoadTimeout time.Duration

	LogLevel string
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/dompet.db"),
		DataFile:     getEnv("DATA_FILE", ""),
		ProjectID:    getEnv("PROJECT_ID", "default"),

		BudgetCacheSize: getEnvInt("BUDGET_CACHE_SIZE", 64),
		BudgetCacheTTL:  getEnvDuration("BUDGET_CACHE_TTL", 5*time.Minute),

		LoadTimeout: getEnvDuration("LOAD_TIMEOUT", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// ValidBackends lists the accepted DATA_BACKEND values.
var ValidBackends = []string{"memory", "sqlite"}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(ValidBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, ValidBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == "memory" && c.DataFile != "" {
		if _, err := os.Stat(c.DataFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("data file does not exist: %s", c.DataFile))
		}
	}

	if strings.TrimSpace(c.ProjectID) == "" {
		errors = append(errors, "project ID cannot be empty")
	}

	if c.BudgetCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid budget cache size %d: must be at least 1", c.BudgetCacheSize))
	} else if c.BudgetCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid budget cache size %d: must be at most 10000", c.BudgetCacheSize))
	}

	if c.BudgetCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid budget cache TTL %v: must be at least 1 second", c.BudgetCacheTTL))
	}

	if c.LoadTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid load timeout %v: must be at least 1 second", c.LoadTimeout))
	} else if c.LoadTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid load timeout %v: must be at most 5 minutes", c.LoadTimeout))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
