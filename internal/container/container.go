// Package container provides dependency injection for the finance-dashboard application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"fjacquet/finance-dashboard/internal/aggregator"
	"fjacquet/finance-dashboard/internal/budget"
	"fjacquet/finance-dashboard/internal/categorizer"
	"fjacquet/finance-dashboard/internal/common"
	"fjacquet/finance-dashboard/internal/config"
	"fjacquet/finance-dashboard/internal/currencyutils"
	"fjacquet/finance-dashboard/internal/factory"
	"fjacquet/finance-dashboard/internal/goals"
	"fjacquet/finance-dashboard/internal/kvstore"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/report"
	"fjacquet/finance-dashboard/internal/session"
	"fjacquet/finance-dashboard/internal/store"
)

// Startup is the outcome of the boundary fetches made once per session.
// A failed fetch leaves its value empty and its error set.
type Startup struct {
	Keywords    categorizer.KeywordMap
	KeywordsErr error
	Rates       currencyutils.RateTable
	RatesErr    error
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation apart from the startup result, which
// Start fills in once.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.CategoryStore
	fetcher    *currencyutils.Fetcher
	csv        *common.CSVHandler
	parsers    *factory.ParserFactory
	aggregator *aggregator.Aggregator
	budget     *budget.Analyzer
	kv         kvstore.Store
	goals      *goals.Tracker

	startOnce sync.Once
	startup   Startup
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg)))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	client := &http.Client{Timeout: cfg.RatesTimeout()}

	kv, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	csvHandler := common.NewCSVHandler(cfg.DelimiterRune(), logger)
	table := budget.NewTable(cfg.Budget.Needs, cfg.Budget.Wants, cfg.Budget.Savings)

	c := &Container{
		logger:     logger,
		config:     cfg,
		store:      store.NewCategoryStore(cfg.Categories.Source, client, logger),
		fetcher:    currencyutils.NewFetcher(cfg.Rates.URL, client, logger),
		csv:        csvHandler,
		parsers:    factory.NewParserFactory(csvHandler, cfg.Location(), logger),
		aggregator: aggregator.NewAggregator(cfg.Dashboard.TrendWindow, cfg.Dashboard.InsightTolerance, logger),
		budget:     budget.NewAnalyzer(table),
		kv:         kv,
		goals:      goals.NewTracker(kv, cfg.Storage.GoalsKey, logger),
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "storage_backend", Value: cfg.Storage.Backend},
		logging.Field{Key: logging.FieldSource, Value: cfg.Categories.Source},
		logging.Field{Key: logging.FieldCurrency, Value: cfg.Currency.Display})

	return c, nil
}

func openStore(cfg *config.Config) (kvstore.Store, error) {
	if cfg.Storage.Backend != kvstore.BackendMemory {
		if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, err
			}
		}
	}
	return kvstore.Open(cfg.Storage.Backend, cfg.Storage.Path)
}

// Start runs the category and exchange rate fetches concurrently. Each one
// degrades on its own: a failed category load yields an empty map and a
// failed rate fetch yields an empty table. Later calls return the first result.
func (c *Container) Start(ctx context.Context) Startup {
	c.startOnce.Do(func() {
		var s Startup
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			keywords, err := c.store.Load(gctx)
			if err != nil {
				keywords = categorizer.KeywordMap{}
			}
			s.Keywords, s.KeywordsErr = keywords, err
			return nil
		})
		g.Go(func() error {
			rates, err := c.fetcher.Fetch(gctx)
			if err != nil {
				rates = currencyutils.RateTable{}
			}
			s.Rates, s.RatesErr = rates, err
			return nil
		})

		// Neither goroutine returns an error.
		_ = g.Wait()
		c.startup = s
	})
	return c.startup
}

// Keywords returns the startup category map, running Start if needed.
func (c *Container) Keywords(ctx context.Context) categorizer.KeywordMap {
	return c.Start(ctx).Keywords
}

// Converter builds the currency converter over the startup rate table.
func (c *Container) Converter(ctx context.Context) *currencyutils.Converter {
	return currencyutils.NewConverter(c.config.Currency.Base, c.Start(ctx).Rates, c.logger)
}

// NewDashboard creates a session whose uploads reuse the startup category map.
func (c *Container) NewDashboard(ctx context.Context) *session.Dashboard {
	startup := c.Start(ctx)
	loader := startupKeywords{keywords: startup.Keywords, err: startup.KeywordsErr}
	return session.NewDashboard(session.Initial(c.config.Currency.Display), loader, c.parsers, c.logger)
}

// ReportDeps collects what report.Build needs for the current session.
func (c *Container) ReportDeps(ctx context.Context) (report.Deps, error) {
	all, err := c.goals.List(ctx)
	if err != nil {
		return report.Deps{}, err
	}
	return report.Deps{
		Converter:    c.Converter(ctx),
		Aggregator:   c.aggregator,
		Budget:       c.budget,
		Goals:        all,
		PreviewLimit: c.config.Dashboard.PreviewLimit,
	}, nil
}

// startupKeywords serves the map fetched by Start and repeats its error so
// every upload logs the degradation.
type startupKeywords struct {
	keywords categorizer.KeywordMap
	err      error
}

func (s startupKeywords) Load(context.Context) (categorizer.KeywordMap, error) {
	return s.keywords, s.err
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetCSVHandler returns the CSV reader and exporter.
func (c *Container) GetCSVHandler() *common.CSVHandler {
	return c.csv
}

// GetParserFactory returns the parser factory.
func (c *Container) GetParserFactory() *factory.ParserFactory {
	return c.parsers
}

// GetAggregator returns the summary and trend calculator.
func (c *Container) GetAggregator() *aggregator.Aggregator {
	return c.aggregator
}

// GetBudgetAnalyzer returns the 50/30/20 analyzer.
func (c *Container) GetBudgetAnalyzer() *budget.Analyzer {
	return c.budget
}

// GetGoalTracker returns the savings goal tracker.
func (c *Container) GetGoalTracker() *goals.Tracker {
	return c.goals
}

// Close releases the key-value store.
func (c *Container) Close() error {
	if err := c.kv.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
