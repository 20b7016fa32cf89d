package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/config"
	"fjacquet/finance-dashboard/internal/goals"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/report"
	"fjacquet/finance-dashboard/internal/session"
)

func testConfig(categories, rates string) *config.Config {
	c := &config.Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.CSV.Delimiter = ","
	c.Categories.Source = categories
	c.Rates.URL = rates
	c.Rates.TimeoutSeconds = 5
	c.Currency.Base = "USD"
	c.Currency.Display = "EUR"
	c.Storage.Backend = "memory"
	c.Storage.GoalsKey = "savingsGoals"
	c.Dashboard.TrendWindow = 12
	c.Dashboard.InsightTolerance = 5
	c.Dashboard.PreviewLimit = 20
	c.Dashboard.Timezone = "UTC"
	c.Budget.Needs = []string{"Groceries"}
	c.Budget.Wants = []string{"Shopping"}
	c.Budget.Savings = []string{"Savings"}
	return c
}

func newServers(t *testing.T) (categories, rates string) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/categories.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"amazon": "Shopping", "whole foods": "Groceries"}`))
	})
	mux.HandleFunc("/rates", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": "success", "base_code": "USD", "rates": {"USD": 1, "EUR": 0.5}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/categories.json", srv.URL + "/rates"
}

func TestNewContainer(t *testing.T) {
	_, err := NewContainer(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")

	c, err := NewContainer(testConfig("categories.json", "http://127.0.0.1:0"))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetConfig())
	assert.NotNil(t, c.GetStore())
	assert.NotNil(t, c.GetCSVHandler())
	assert.NotNil(t, c.GetParserFactory())
	assert.NotNil(t, c.GetAggregator())
	assert.NotNil(t, c.GetBudgetAnalyzer())
	assert.NotNil(t, c.GetGoalTracker())
}

func TestNewContainer_UnknownBackend(t *testing.T) {
	cfg := testConfig("categories.json", "http://127.0.0.1:0")
	cfg.Storage.Backend = "redis"

	_, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open redis storage")
}

func TestNewContainer_FileBackendCreatesDirectory(t *testing.T) {
	cfg := testConfig("categories.json", "http://127.0.0.1:0")
	cfg.Storage.Backend = "file"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "nested", "goals.json")

	c, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, err = c.GetGoalTracker().Create(context.Background(), goals.Input{
		Name:         "Bike",
		TargetAmount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.FileExists(t, cfg.Storage.Path)
}

func TestStart_FetchesBoth(t *testing.T) {
	categories, rates := newServers(t)
	c, err := NewContainerWithLogger(testConfig(categories, rates), logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	s := c.Start(context.Background())
	require.NoError(t, s.KeywordsErr)
	require.NoError(t, s.RatesErr)
	assert.Len(t, s.Keywords, 2)
	assert.True(t, s.Rates["EUR"].Equal(decimal.RequireFromString("0.5")))
	assert.True(t, c.Converter(context.Background()).Available("EUR"))
}

func TestStart_DegradesIndependently(t *testing.T) {
	categories, _ := newServers(t)
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	c, err := NewContainerWithLogger(testConfig(categories, failing.URL), logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	s := c.Start(context.Background())
	require.NoError(t, s.KeywordsErr)
	assert.Len(t, s.Keywords, 2)

	require.Error(t, s.RatesErr)
	assert.Equal(t, apperror.KindExternal, apperror.KindOf(s.RatesErr))
	assert.Empty(t, s.Rates)
	assert.False(t, c.Converter(context.Background()).Available("EUR"))
}

func TestStart_RunsOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"result": "success", "rates": {"EUR": 0.9}}`))
	}))
	defer srv.Close()

	c, err := NewContainerWithLogger(testConfig(filepath.Join(t.TempDir(), "missing.json"), srv.URL), logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	first := c.Start(context.Background())
	second := c.Start(context.Background())
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first.Rates, second.Rates)
	require.Error(t, first.KeywordsErr)
	assert.Empty(t, c.Keywords(context.Background()))
}

func TestDashboardEndToEnd(t *testing.T) {
	categories, rates := newServers(t)
	c, err := NewContainerWithLogger(testConfig(categories, rates), logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	d := c.NewDashboard(ctx)
	assert.Equal(t, "EUR", d.State().Currency)

	csv := "Date,Description,Amount\n" +
		"2024-01-05,AMAZON order,-50\n" +
		"2024-01-06,Whole Foods,-30\n" +
		"2024-01-31,Salary,1000\n"
	require.NoError(t, d.Upload(ctx, strings.NewReader(csv), "bank.csv"))

	state := d.State()
	require.Len(t, state.All, 3)
	assert.Equal(t, "Shopping", state.All[0].Category)
	assert.Equal(t, "Groceries", state.All[1].Category)
	assert.Equal(t, "Other", state.All[2].Category)

	deps, err := c.ReportDeps(ctx)
	require.NoError(t, err)
	v, err := report.Build(state, deps)
	require.NoError(t, err)

	assert.True(t, v.Converted)
	assert.Equal(t, "€500.00", v.Cards.Income)
	assert.Equal(t, "€40.00", v.Cards.Expenses)
	assert.Equal(t, "€460.00", v.Cards.Net)
	require.NotNil(t, v.Budget)
	assert.Equal(t, "€25.00", v.Budget.Wants)
	assert.Equal(t, "€15.00", v.Budget.Needs)

	d.Dispatch(session.CurrencyChanged{Currency: "USD"})
	v, err = report.Build(d.State(), deps)
	require.NoError(t, err)
	assert.Equal(t, "$80.00", v.Cards.Expenses)
}
