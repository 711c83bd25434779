package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/metrics"
	"github.com/Belphemur/ShowSearch/internal/parser"
)

// fetchList performs an HTTP GET against the directory and normalizes the
// JSON array body with p. A 404 is reported as notFound when it is non-nil.
func fetchList[T any](ctx context.Context, c *client, endpoint, url string, p parser.Parser[T], notFound error) ([]T, error) {
	logger := config.GetLogger()
	start := time.Now()
	status := "error"
	defer func() {
		metrics.DirectoryRequestsTotal.WithLabelValues(endpoint, status).Inc()
		metrics.DirectoryRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		return nil, notFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ErrUnexpectedStatus{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := parser.NewUTF8Reader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	items, err := p.Parse(body)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("endpoint", endpoint).Int("count", len(items)).Dur("elapsed", time.Since(start)).Msg("Directory request completed")
	return items, nil
}
