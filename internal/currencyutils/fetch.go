package currencyutils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/logging"

	"github.com/shopspring/decimal"
)

const (
	// DefaultRatesURL serves USD-based rates without an API key.
	DefaultRatesURL = "https://open.er-api.com/v6/latest/USD"

	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	serviceName    = "exchange rate service"
)

type ratesResponse struct {
	Result   string                     `json:"result"`
	BaseCode string                     `json:"base_code"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// Fetcher retrieves a RateTable from an HTTP endpoint.
type Fetcher struct {
	url    string
	http   *http.Client
	logger logging.Logger
}

// NewFetcher creates a Fetcher. An empty url uses DefaultRatesURL and a nil
// client uses a fresh http.Client.
func NewFetcher(url string, client *http.Client, logger logging.Logger) *Fetcher {
	if url == "" {
		url = DefaultRatesURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{url: url, http: client, logger: logging.OrDefault(logger)}
}

// URL returns the endpoint queried by Fetch.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads the current rate table. Any failure is reported as an
// *apperror.ExternalServiceError.
func (f *Fetcher) Fetch(ctx context.Context) (RateTable, error) {
	start := time.Now()
	body, status, err := f.get(ctx)
	if err != nil {
		return nil, f.fail(status, err)
	}

	var resp ratesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, f.fail(status, fmt.Errorf("parsing rates: %w", err))
	}
	if resp.Result != "success" {
		return nil, f.fail(status, fmt.Errorf("result %q", resp.Result))
	}

	table := make(RateTable, len(resp.Rates))
	for code, rate := range resp.Rates {
		table[strings.ToUpper(code)] = rate
	}

	f.logger.Info("Fetched exchange rates",
		logging.Field{Key: logging.FieldURL, Value: f.url},
		logging.Field{Key: logging.FieldCount, Value: len(table)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return table, nil
}

func (f *Fetcher) fail(status int, err error) error {
	f.logger.WithError(err).Warn("Exchange rate fetch failed",
		logging.Field{Key: logging.FieldURL, Value: f.url},
		logging.Field{Key: logging.FieldHTTPStatus, Value: status})
	return &apperror.ExternalServiceError{
		Service:    serviceName,
		URL:        f.url,
		StatusCode: status,
		Err:        err,
	}
}

// get performs the GET request and returns the body and status code.
func (f *Fetcher) get(ctx context.Context) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
