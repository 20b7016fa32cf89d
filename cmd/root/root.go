// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/finance-dashboard/internal/config"
	"fjacquet/finance-dashboard/internal/container"
	"fjacquet/finance-dashboard/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	Input      string
	Currency   string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finance-dashboard",
		Short: "A CLI dashboard for bank transaction CSV exports.",
		Long: `finance-dashboard reads a CSV of bank transactions, categorizes each one by
keyword, and shows income, expenses, a category breakdown, a monthly trend,
a 50/30/20 budget split and savings goal progress.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	// SharedFlags holds the persistent flags accessible to all commands
	SharedFlags = CommonFlags{}

	// AppContainer is the dependency container for the running command
	AppContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches ./config.yaml, .finance-dashboard/, $HOME/.finance-dashboard/)")
	flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Transaction CSV file")
	flags.StringVar(&SharedFlags.Currency, "currency", "", "Display currency code (e.g. EUR)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
}

// LoadConfig loads configuration and applies the persistent flag overrides.
func LoadConfig(flags CommonFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	if flags.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(flags.LogLevel)
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = strings.ToLower(flags.LogFormat)
	}
	if flags.Currency != "" {
		cfg.Currency.Display = strings.ToUpper(flags.Currency)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	cfg, err := LoadConfig(SharedFlags)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	logging.SetLogger(Log)

	Log.Debug("Command starting", logging.Field{Key: logging.FieldOperation, Value: cmd.Name()})
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close container")
	}
	AppContainer = nil
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return AppContainer, nil
}

// GetLogger returns the shared command logger.
func GetLogger() logging.Logger {
	return Log
}
