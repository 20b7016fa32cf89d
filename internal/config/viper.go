// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/finance-dashboard/internal/currencyutils"
	"fjacquet/finance-dashboard/internal/kvstore"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
		ExportFile string `mapstructure:"export_file" yaml:"export_file"`
	} `mapstructure:"csv" yaml:"csv"`

	Categories struct {
		Source string `mapstructure:"source" yaml:"source"`
	} `mapstructure:"categories" yaml:"categories"`

	Rates struct {
		URL            string `mapstructure:"url" yaml:"url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"rates" yaml:"rates"`

	Currency struct {
		Base    string `mapstructure:"base" yaml:"base"`
		Display string `mapstructure:"display" yaml:"display"`
	} `mapstructure:"currency" yaml:"currency"`

	Storage struct {
		Backend  string `mapstructure:"backend" yaml:"backend"`
		Path     string `mapstructure:"path" yaml:"path"`
		GoalsKey string `mapstructure:"goals_key" yaml:"goals_key"`
	} `mapstructure:"storage" yaml:"storage"`

	Dashboard struct {
		TrendWindow      int     `mapstructure:"trend_window" yaml:"trend_window"`
		InsightTolerance float64 `mapstructure:"insight_tolerance" yaml:"insight_tolerance"`
		PreviewLimit     int     `mapstructure:"preview_limit" yaml:"preview_limit"`
		Timezone         string  `mapstructure:"timezone" yaml:"timezone"`
	} `mapstructure:"dashboard" yaml:"dashboard"`

	Budget struct {
		Needs   []string `mapstructure:"needs" yaml:"needs"`
		Wants   []string `mapstructure:"wants" yaml:"wants"`
		Savings []string `mapstructure:"savings" yaml:"savings"`
	} `mapstructure:"budget" yaml:"budget"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from defaults, an optional config file and the
// environment. An explicit path replaces the search locations and must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finance-dashboard")
		v.AddConfigPath(".finance-dashboard")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("FINDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Currency.Base = strings.ToUpper(config.Currency.Base)
	config.Currency.Display = strings.ToUpper(config.Currency.Display)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.export_file", "filtered_transactions.csv")

	// Category map
	v.SetDefault("categories.source", "categories.json")

	// Exchange rates
	v.SetDefault("rates.url", currencyutils.DefaultRatesURL)
	v.SetDefault("rates.timeout_seconds", 10)

	// Currency defaults
	v.SetDefault("currency.base", currencyutils.BaseCurrency)
	v.SetDefault("currency.display", currencyutils.BaseCurrency)

	// Storage defaults
	v.SetDefault("storage.backend", kvstore.BackendFile)
	v.SetDefault("storage.path", "finance-dashboard.json")
	v.SetDefault("storage.goals_key", "savingsGoals")

	// Dashboard defaults
	v.SetDefault("dashboard.trend_window", 12)
	v.SetDefault("dashboard.insight_tolerance", 5.0)
	v.SetDefault("dashboard.preview_limit", 20)
	v.SetDefault("dashboard.timezone", "Local")

	// 50/30/20 buckets
	v.SetDefault("budget.needs", []string{"Rent", "Housing", "Utilities", "Groceries", "Transportation", "Insurance", "Healthcare"})
	v.SetDefault("budget.wants", []string{"Dining", "Entertainment", "Shopping", "Travel", "Subscriptions"})
	v.SetDefault("budget.savings", []string{"Savings", "Investments"})
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch config.Storage.Backend {
	case kvstore.BackendFile, kvstore.BackendMemory, kvstore.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be one of file, memory, sqlite, got: %s", config.Storage.Backend)
	}
	if config.Storage.Backend != kvstore.BackendMemory && config.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the %s backend", config.Storage.Backend)
	}
	if config.Storage.GoalsKey == "" {
		return fmt.Errorf("storage.goals_key must not be empty")
	}

	if config.Rates.TimeoutSeconds < 1 || config.Rates.TimeoutSeconds > 300 {
		return fmt.Errorf("rates.timeout_seconds must be between 1 and 300, got: %d", config.Rates.TimeoutSeconds)
	}

	if len(config.Currency.Base) != 3 || len(config.Currency.Display) != 3 {
		return fmt.Errorf("currency codes must be three letters, got: %s/%s", config.Currency.Base, config.Currency.Display)
	}

	if config.Dashboard.TrendWindow < 1 {
		return fmt.Errorf("dashboard.trend_window must be positive, got: %d", config.Dashboard.TrendWindow)
	}
	if config.Dashboard.InsightTolerance < 0 || config.Dashboard.InsightTolerance > 100 {
		return fmt.Errorf("dashboard.insight_tolerance must be between 0 and 100, got: %f", config.Dashboard.InsightTolerance)
	}
	if config.Dashboard.PreviewLimit < 1 {
		return fmt.Errorf("dashboard.preview_limit must be positive, got: %d", config.Dashboard.PreviewLimit)
	}
	if _, err := time.LoadLocation(config.Dashboard.Timezone); err != nil {
		return fmt.Errorf("invalid dashboard.timezone %q: %w", config.Dashboard.Timezone, err)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// Validate re-checks the configuration after command-line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// DelimiterRune returns the configured CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// Location resolves the dashboard timezone. Validation guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RatesTimeout is the per-request timeout for the exchange rate fetch.
func (c *Config) RatesTimeout() time.Duration {
	return time.Duration(c.Rates.TimeoutSeconds) * time.Second
}
