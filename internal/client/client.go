package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
	"github.com/Belphemur/ShowSearch/internal/parser"
)

// Client defines the interface for querying the show directory
type Client interface {
	// SearchShows returns the shows matching query in the directory's relevance order.
	SearchShows(ctx context.Context, query string) ([]models.Show, error)

	// GetEpisodes returns every episode of a show in the order the directory lists them.
	GetEpisodes(ctx context.Context, showID int) ([]models.Episode, error)

	// Close releases idle connections held by the client.
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient    *http.Client
	baseURL       string
	showParser    parser.Parser[models.Show]
	episodeParser parser.Parser[models.Episode]
}

// NewClient creates a new client instance with proxy and retry configuration if provided
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()

	// Parse timeout duration
	timeout := 30 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to preserve all its settings (timeouts, connection pooling, HTTP/2, etc.)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	var transport http.RoundTripper = newDecodingTransport(baseTransport)
	if cfg.ClientRetries > 0 {
		transport = failsafehttp.NewRoundTripper(transport, newRetryPolicy(cfg.ClientRetries))
		logger.Debug().Int("retries", cfg.ClientRetries).Msg("Directory client retries enabled")
	}

	baseURL := cfg.DirectoryBaseURL
	if baseURL == "" {
		baseURL = config.DefaultDirectoryBaseURL
	}

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:       strings.TrimRight(baseURL, "/"),
		showParser:    parser.NewShowSearchParser(),
		episodeParser: parser.NewEpisodeParser(),
	}
}

// newRetryPolicy retries transport failures and 5xx answers. 429 is left to the caller.
func newRetryPolicy(retries int) retrypolicy.RetryPolicy[*http.Response] {
	return retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled)
			}
			return resp != nil && resp.StatusCode >= http.StatusInternalServerError
		}).
		WithMaxRetries(retries).
		WithBackoff(200*time.Millisecond, 2*time.Second).
		ReturnLastFailure().
		Build()
}

// Close releases idle connections held by the underlying transport.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
