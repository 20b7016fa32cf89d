// Package config loads the finance-dashboard settings from defaults, an
// optional config.yaml, a .env file and FINDASH_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"fjacquet/finance-dashboard/internal/logging"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file if one exists in the
// working directory or its parent. Variables already set are not overridden.
func LoadEnv(logger logging.Logger) {
	once.Do(func() {
		loadEnvFile(logging.OrDefault(logger))
	})
}

func loadEnvFile(logger logging.Logger) {
	// Try to find .env file in current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			logger.Debug("No .env file found, using environment variables")
			return
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithError(err).Warn("Error loading .env file",
			logging.Field{Key: logging.FieldFile, Value: envFile})
		return
	}
	logger.Debug("Loaded environment variables",
		logging.Field{Key: logging.FieldFile, Value: envFile})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
