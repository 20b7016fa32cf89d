// Package store loads the ordered keyword-to-category table from a local file
// or an HTTP(S) URL.
package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/finance-dashboard/internal/apperror"
	"fjacquet/finance-dashboard/internal/categorizer"
	"fjacquet/finance-dashboard/internal/logging"
)

const (
	// DefaultSource is the keyword configuration looked up when none is set.
	DefaultSource = "categories.json"

	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	serviceName    = "category configuration"
	appConfigDir   = "finance-dashboard"
)

// CategoryStore loads the keyword map from Source.
type CategoryStore struct {
	Source string
	http   *http.Client
	logger logging.Logger
}

// NewCategoryStore creates a store reading source. An empty source uses
// DefaultSource and a nil client uses a fresh http.Client.
func NewCategoryStore(source string, client *http.Client, logger logging.Logger) *CategoryStore {
	if source == "" {
		source = DefaultSource
	}
	if client == nil {
		client = &http.Client{}
	}
	return &CategoryStore{
		Source: source,
		http:   client,
		logger: logging.OrDefault(logger),
	}
}

// Load reads and decodes the keyword map. Failures are returned as an
// *apperror.ExternalServiceError; callers continue with an empty map.
func (s *CategoryStore) Load(ctx context.Context) (categorizer.KeywordMap, error) {
	var (
		data     []byte
		status   int
		location = s.Source
		err      error
	)

	if isURL(s.Source) {
		data, status, err = s.get(ctx)
	} else {
		location, err = s.FindConfigFile(s.Source)
		if err == nil {
			data, err = os.ReadFile(location) // #nosec G304 -- path from configuration
		}
	}
	if err != nil {
		return nil, s.fail(status, err)
	}

	keywords, err := ParseKeywordMap(data, formatOf(s.Source))
	if err != nil {
		return nil, s.fail(status, err)
	}

	s.logger.Info("Loaded category keywords",
		logging.Field{Key: logging.FieldSource, Value: location},
		logging.Field{Key: logging.FieldCount, Value: len(keywords)})
	return keywords, nil
}

// FindConfigFile looks for filename in the current directory, ./config and
// $HOME/.config/finance-dashboard, in that order.
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", err
		}
		return filename, nil
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", appConfigDir, filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", fmt.Errorf("%s: %w", filename, os.ErrNotExist)
}

func (s *CategoryStore) fail(status int, err error) error {
	s.logger.WithError(err).Warn("Category configuration unavailable, every transaction will be categorized as Other",
		logging.Field{Key: logging.FieldSource, Value: s.Source})
	extErr := &apperror.ExternalServiceError{
		Service:    serviceName,
		StatusCode: status,
		Err:        err,
	}
	if isURL(s.Source) {
		extErr.URL = s.Source
	}
	return extErr
}

func (s *CategoryStore) get(ctx context.Context) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Source, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.http.Do(req)
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

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// formatOf picks the decoder from the file extension; URLs use their path.
func formatOf(source string) string {
	ext := filepath.Ext(source)
	if isURL(source) {
		if u, err := url.Parse(source); err == nil {
			ext = path.Ext(u.Path)
		}
	}
	switch strings.ToLower(ext) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
