package common_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fjacquet/finance-dashboard/cmd/common"
	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/config"
	"fjacquet/finance-dashboard/internal/container"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"
	"fjacquet/finance-dashboard/internal/session"
)

// MockDispatcher records events and applies them with the real reducer.
type MockDispatcher struct {
	mock.Mock
	state session.State
}

func (m *MockDispatcher) State() session.State {
	return m.state
}

func (m *MockDispatcher) Dispatch(ev session.Event) session.State {
	m.Called(ev)
	m.state = session.Reduce(m.state, ev)
	return m.state
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func loadedState() session.State {
	txs := []models.Transaction{
		{Date: day(3), Description: "Coffee", Amount: decimal.NewFromInt(-4), Category: "Dining"},
		{Date: day(10), Description: "Rent", Amount: decimal.NewFromInt(-900), Category: "Rent"},
		{Date: day(25), Description: "Salary", Amount: decimal.NewFromInt(2500), Category: "Other"},
	}
	return session.Reduce(session.Initial("USD"), session.Uploaded{Transactions: txs, Source: "bank.csv", Seq: 1, At: day(1)})
}

func newDispatcher() *MockDispatcher {
	d := &MockDispatcher{state: loadedState()}
	d.On("Dispatch", mock.Anything).Return()
	return d
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, common.CheckFormat("text"))
	assert.NoError(t, common.CheckFormat("JSON"))

	err := common.CheckFormat("xml")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUserInput, apperror.KindOf(err))
}

func TestApplyControls_NoFlags(t *testing.T) {
	d := newDispatcher()

	state, err := common.ApplyControls(d, common.Controls{}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSortState(), state.Sort)
	d.AssertNotCalled(t, "Dispatch", mock.Anything)
}

func TestApplyControls_SortReachesRequestedOrder(t *testing.T) {
	tests := []struct {
		name   string
		ctl    common.Controls
		want   models.SortState
		clicks int
	}{
		{"new column starts ascending", common.Controls{Sort: "amount"}, models.SortState{Column: models.SortByAmount, Direction: models.Ascending}, 1},
		{"new column descending", common.Controls{Sort: "Amount", Order: "desc"}, models.SortState{Column: models.SortByAmount, Direction: models.Descending}, 2},
		{"order only flips current column", common.Controls{Order: "asc"}, models.SortState{Column: models.SortByDate, Direction: models.Ascending}, 1},
		{"already in effect", common.Controls{Sort: "date", Order: "desc"}, models.DefaultSortState(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDispatcher()
			state, err := common.ApplyControls(d, tt.ctl, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, state.Sort)
			d.AssertNumberOfCalls(t, "Dispatch", tt.clicks)
		})
	}
}

func TestApplyControls_DateFilter(t *testing.T) {
	d := newDispatcher()

	state, err := common.ApplyControls(d, common.Controls{Start: "2024-01-10"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10_2024-01-25", state.Range.String())

	visible, err := session.Filtered(state)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
}

func TestApplyControls_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		ctl  common.Controls
	}{
		{"end before start", common.Controls{Start: "2024-01-20", End: "2024-01-05"}},
		{"unparseable start", common.Controls{Start: "someday"}},
		{"unknown sort column", common.Controls{Sort: "merchant"}},
		{"unknown order", common.Controls{Order: "sideways"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDispatcher()
			_, err := common.ApplyControls(d, tt.ctl, time.UTC)
			require.Error(t, err)
			assert.Equal(t, apperror.KindUserInput, apperror.KindOf(err))
			d.AssertNotCalled(t, "Dispatch", mock.Anything)
		})
	}
}

func TestApplyControls_ShowAll(t *testing.T) {
	d := newDispatcher()

	state, err := common.ApplyControls(d, common.Controls{ShowAll: true}, time.UTC)
	require.NoError(t, err)
	assert.True(t, state.ShowAll)
	d.AssertCalled(t, "Dispatch", session.RecentToggled{})
}

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	categories := filepath.Join(dir, "categories.json")
	require.NoError(t, os.WriteFile(categories, []byte(`{"rent": "Rent", "coffee": "Dining"}`), 0600))

	rates := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(rates.Close)

	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Categories.Source = categories
	cfg.Rates.URL = rates.URL
	cfg.Rates.TimeoutSeconds = 5
	cfg.Currency.Base = "USD"
	cfg.Currency.Display = "USD"
	cfg.Storage.Backend = "memory"
	cfg.Storage.GoalsKey = "savingsGoals"
	cfg.Dashboard.TrendWindow = 12
	cfg.Dashboard.PreviewLimit = 20
	cfg.Dashboard.Timezone = "UTC"

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLoadSession(t *testing.T) {
	c := newContainer(t)
	input := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(input, []byte("Date,Description,Amount\n2024-01-03,Coffee shop,-4.50\n2024-01-10,RENT JAN,-900\n"), 0600))

	d, err := common.LoadSession(context.Background(), c, input)
	require.NoError(t, err)

	state := d.State()
	require.Len(t, state.All, 2)
	assert.Equal(t, "Dining", state.All[0].Category)
	assert.Equal(t, "Rent", state.All[1].Category)

	// The rate service is down, so the notice reports it instead of the upload.
	assert.Equal(t, session.NoticeError, state.Notice.Level)
	assert.Contains(t, state.Notice.Message, "exchange rate")
}

func TestLoadSession_Errors(t *testing.T) {
	c := newContainer(t)

	_, err := common.LoadSession(context.Background(), c, "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUserInput, apperror.KindOf(err))

	_, err = common.LoadSession(context.Background(), c, filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindUserInput, apperror.KindOf(err))

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("When,What\n2024-01-01,x\n"), 0600))
	_, err = common.LoadSession(context.Background(), c, bad)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
