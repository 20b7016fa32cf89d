package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/finance-dashboard/internal/logging"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, ',', config.DelimiterRune())
	assert.Equal(t, "filtered_transactions.csv", config.CSV.ExportFile)
	assert.Equal(t, "categories.json", config.Categories.Source)
	assert.Equal(t, "https://open.er-api.com/v6/latest/USD", config.Rates.URL)
	assert.Equal(t, 10*time.Second, config.RatesTimeout())
	assert.Equal(t, "USD", config.Currency.Base)
	assert.Equal(t, "USD", config.Currency.Display)
	assert.Equal(t, "file", config.Storage.Backend)
	assert.Equal(t, "savingsGoals", config.Storage.GoalsKey)
	assert.Equal(t, 12, config.Dashboard.TrendWindow)
	assert.Equal(t, 5.0, config.Dashboard.InsightTolerance)
	assert.Equal(t, 20, config.Dashboard.PreviewLimit)
	assert.Equal(t, time.Local, config.Location())
	assert.Contains(t, config.Budget.Needs, "Groceries")
	assert.Contains(t, config.Budget.Wants, "Shopping")
	assert.Equal(t, []string{"Savings", "Investments"}, config.Budget.Savings)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)

	testEnvVars := map[string]string{
		"FINDASH_LOG_LEVEL":                   "debug",
		"FINDASH_LOG_FORMAT":                  "json",
		"FINDASH_CSV_DELIMITER":               ";",
		"FINDASH_CURRENCY_DISPLAY":            "eur",
		"FINDASH_STORAGE_BACKEND":             "memory",
		"FINDASH_DASHBOARD_PREVIEW_LIMIT":     "50",
		"FINDASH_DASHBOARD_INSIGHT_TOLERANCE": "2.5",
		"FINDASH_DASHBOARD_TIMEZONE":          "UTC",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ';', config.DelimiterRune())
	assert.Equal(t, "EUR", config.Currency.Display)
	assert.Equal(t, "memory", config.Storage.Backend)
	assert.Equal(t, 50, config.Dashboard.PreviewLimit)
	assert.Equal(t, 2.5, config.Dashboard.InsightTolerance)
	assert.Equal(t, time.UTC, config.Location())
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
categories:
  source: "https://example.com/categories.yaml"
storage:
  backend: "sqlite"
  path: "goals.db"
dashboard:
  trend_window: 6
budget:
  wants: ["Dining", "Gaming"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, "https://example.com/categories.yaml", config.Categories.Source)
	assert.Equal(t, "sqlite", config.Storage.Backend)
	assert.Equal(t, "goals.db", config.Storage.Path)
	assert.Equal(t, 6, config.Dashboard.TrendWindow)
	assert.Equal(t, []string{"Dining", "Gaming"}, config.Budget.Wants)
	assert.Contains(t, config.Budget.Needs, "Rent")
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
dashboard:
  preview_limit: 30
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("FINDASH_LOG_LEVEL", "error")
	t.Setenv("FINDASH_DASHBOARD_PREVIEW_LIMIT", "40")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 40, config.Dashboard.PreviewLimit)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("currency:\n  display: gbp\n"), 0600))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "GBP", config.Currency.Display)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidFileValue(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("storage:\n  backend: redis\n"), 0600))

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "unknown storage backend",
			modifyConfig: func(c *Config) { c.Storage.Backend = "redis" },
			expectError:  "storage.backend must be one of",
		},
		{
			name: "file backend without path",
			modifyConfig: func(c *Config) {
				c.Storage.Backend = "file"
				c.Storage.Path = ""
			},
			expectError: "storage.path is required",
		},
		{
			name:         "empty goals key",
			modifyConfig: func(c *Config) { c.Storage.GoalsKey = "" },
			expectError:  "storage.goals_key must not be empty",
		},
		{
			name:         "rates timeout out of range",
			modifyConfig: func(c *Config) { c.Rates.TimeoutSeconds = 0 },
			expectError:  "rates.timeout_seconds must be between 1 and 300",
		},
		{
			name:         "bad currency code",
			modifyConfig: func(c *Config) { c.Currency.Display = "EURO" },
			expectError:  "currency codes must be three letters",
		},
		{
			name:         "zero trend window",
			modifyConfig: func(c *Config) { c.Dashboard.TrendWindow = 0 },
			expectError:  "dashboard.trend_window must be positive",
		},
		{
			name:         "tolerance above 100",
			modifyConfig: func(c *Config) { c.Dashboard.InsightTolerance = 150 },
			expectError:  "dashboard.insight_tolerance must be between 0 and 100",
		},
		{
			name:         "zero preview limit",
			modifyConfig: func(c *Config) { c.Dashboard.PreviewLimit = 0 },
			expectError:  "dashboard.preview_limit must be positive",
		},
		{
			name:         "unknown timezone",
			modifyConfig: func(c *Config) { c.Dashboard.Timezone = "Mars/Olympus" },
			expectError:  "invalid dashboard.timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := validConfig()
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	require.NotNil(t, logger)
	assert.Equal(t, "debug", logger.GetLevel().String())

	config.Log.Level = "bogus"
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLoadEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FINDASH_TEST_ONLY=from-dotenv\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("FINDASH_TEST_ONLY") })

	logger := logging.NewMockLogger()
	loadEnvFile(logger)

	assert.Equal(t, "from-dotenv", GetEnv("FINDASH_TEST_ONLY", "fallback"))
	assert.True(t, logger.HasEntry("DEBUG", "Loaded environment variables"))
	assert.Equal(t, "fallback", GetEnv("FINDASH_NOT_SET_ANYWHERE", "fallback"))
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.CSV.Delimiter = ","
	c.Rates.TimeoutSeconds = 10
	c.Currency.Base = "USD"
	c.Currency.Display = "USD"
	c.Storage.Backend = "file"
	c.Storage.Path = "finance-dashboard.json"
	c.Storage.GoalsKey = "savingsGoals"
	c.Dashboard.TrendWindow = 12
	c.Dashboard.InsightTolerance = 5
	c.Dashboard.PreviewLimit = 20
	c.Dashboard.Timezone = "UTC"
	return c
}

// isolate moves the test into an empty directory with an empty HOME and
// blanks every FINDASH_* override so only defaults apply.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	for _, key := range []string{
		"FINDASH_LOG_LEVEL",
		"FINDASH_LOG_FORMAT",
		"FINDASH_CSV_DELIMITER",
		"FINDASH_CSV_EXPORT_FILE",
		"FINDASH_CATEGORIES_SOURCE",
		"FINDASH_RATES_URL",
		"FINDASH_RATES_TIMEOUT_SECONDS",
		"FINDASH_CURRENCY_BASE",
		"FINDASH_CURRENCY_DISPLAY",
		"FINDASH_STORAGE_BACKEND",
		"FINDASH_STORAGE_PATH",
		"FINDASH_STORAGE_GOALS_KEY",
		"FINDASH_DASHBOARD_TREND_WINDOW",
		"FINDASH_DASHBOARD_INSIGHT_TOLERANCE",
		"FINDASH_DASHBOARD_PREVIEW_LIMIT",
		"FINDASH_DASHBOARD_TIMEZONE",
	} {
		t.Setenv(key, "")
	}
	return dir
}
