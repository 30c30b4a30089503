package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/f1-standings/internal/metrics"
)

const maxErrorBody = 512

// jsonFetcher performs cached GET requests against one upstream API
type jsonFetcher struct {
	source     string
	baseURL    string
	httpClient *RateLimitedHTTPClient
	cache      *ResponseCache
	logger     *logrus.Entry
}

func newJSONFetcher(source, baseURL string, httpClient *RateLimitedHTTPClient, respCache *ResponseCache, logger *logrus.Logger) jsonFetcher {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return jsonFetcher{
		source:     source,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		cache:      respCache,
		logger:     logger.WithField("source", source),
	}
}

// getJSON fetches path and decodes the body into out
func (f jsonFetcher) getJSON(ctx context.Context, path string, out interface{}) error {
	url := f.baseURL + path

	if body, ok := f.cache.Get(url); ok {
		f.logger.WithField("url", url).Debug("Cache hit for upstream response")
		if err := json.Unmarshal(body, out); err != nil {
			return NewDataSourceError(f.source, ErrCodeInvalidData, "failed to parse cached response", err)
		}
		return nil
	}

	start := time.Now()
	body, err := f.fetch(ctx, url)
	outcome := "success"
	if err != nil {
		outcome = ErrorCode(err)
	}
	metrics.RecordUpstreamRequest(f.source, outcome, time.Since(start).Seconds())
	if err != nil {
		f.logger.WithError(err).WithField("url", url).Warn("Upstream request failed")
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewDataSourceError(f.source, ErrCodeInvalidData, "failed to parse response", err)
	}

	f.cache.Set(url, body)
	return nil
}

func (f jsonFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(f.source, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(ctx, req)
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			return nil, NewDataSourceError(f.source, ErrCodeCircuitOpen, "upstream temporarily disabled", err)
		}
		return nil, NewDataSourceError(f.source, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(f.source, ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(f.source, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, NewDataSourceError(f.source, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewDataSourceError(f.source, ErrCodeNetworkError, "failed to read response", err)
	}
	return body, nil
}
