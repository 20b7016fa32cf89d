package currencyutils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-50", "-50"},
		{"1234.56", "1234.56"},
		{"$1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"12,50", "12.5"},
		{"(12.50)", "-12.5"},
		{" 3000 ", "3000"},
		{"1'000.00", "1000"},
		{"1,234,567", "1234567"},
		{"-2,500", "-2500"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := ParseAmount("")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseAmount("abc")
	assert.Error(t, err)

	for _, input := range []string{"12,3456", "1,23,456", "12,34.56", "1.2345,67"} {
		_, err = ParseAmount(input)
		assert.Error(t, err, input)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1234.50", Format(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "$50.00", Format(decimal.NewFromInt(-50), "USD"))
	assert.Equal(t, "€0.92", Format(decimal.RequireFromString("0.921"), "EUR"))
	assert.Equal(t, "¥1500", Format(decimal.RequireFromString("1499.6"), "JPY"))
	assert.Equal(t, "SEK 10.00", Format(decimal.NewFromInt(10), "SEK"))
}

func TestConverter(t *testing.T) {
	mock := logging.NewMockLogger()
	conv := NewConverter("USD", RateTable{"EUR": decimal.RequireFromString("0.9")}, mock)

	assert.True(t, decimal.NewFromInt(90).Equal(conv.Convert(decimal.NewFromInt(100), "EUR")))
	assert.True(t, decimal.NewFromInt(100).Equal(conv.Convert(decimal.NewFromInt(100), "USD")))
	assert.Empty(t, mock.GetEntriesByLevel("WARN"))

	got, ok := conv.TryConvert(decimal.NewFromInt(100), "GBP")
	assert.False(t, ok)
	assert.True(t, decimal.NewFromInt(100).Equal(got))
	assert.True(t, mock.HasEntry("WARN", "No exchange rate available, showing unconverted amount"))

	assert.True(t, conv.Available("eur"))
	assert.False(t, conv.Available("GBP"))
}

func TestFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"result":"success","base_code":"USD","rates":{"USD":1,"EUR":0.92,"JPY":149.5}}`))
	}))
	defer srv.Close()

	table, err := NewFetcher(srv.URL, srv.Client(), logging.NewMockLogger()).Fetch(context.Background())
	require.NoError(t, err)

	rate, ok := table.Rate("EUR")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("0.92").Equal(rate))
	assert.Len(t, table, 3)
}

func TestFetcher_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"non success result", http.StatusOK, `{"result":"error","error-type":"quota"}`},
		{"malformed body", http.StatusOK, `{"result":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewFetcher(srv.URL, srv.Client(), logging.NewMockLogger()).Fetch(context.Background())
			require.Error(t, err)

			var extErr *apperror.ExternalServiceError
			require.True(t, errors.As(err, &extErr))
			assert.Equal(t, tt.status, extErr.StatusCode)
			assert.Equal(t, apperror.KindExternal, apperror.KindOf(err))
		})
	}
}

func TestFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(url, nil, logging.NewMockLogger()).Fetch(context.Background())
	assert.Equal(t, apperror.KindExternal, apperror.KindOf(err))
}
