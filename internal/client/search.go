package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
)

// NormalizeQuery trims the query and puts it in Unicode NFC so that the same
// title typed with combining accents reaches the directory identically.
func NormalizeQuery(query string) string {
	return norm.NFC.String(strings.TrimSpace(query))
}

// SearchShows looks up shows by free-text query. Blank queries are rejected
// before any request is issued.
func (c *client) SearchShows(ctx context.Context, query string) ([]models.Show, error) {
	query = NormalizeQuery(query)
	if query == "" {
		return nil, apperrors.ErrEmptyQuery
	}

	logger := config.GetLogger()
	logger.Info().Str("query", query).Msg("Searching shows")

	searchURL := fmt.Sprintf("%s/search/shows?q=%s", c.baseURL, url.QueryEscape(query))
	shows, err := fetchList(ctx, c, "search", searchURL, c.showParser, nil)
	if err != nil {
		return nil, fmt.Errorf("search shows %q: %w", query, err)
	}

	logger.Info().Str("query", query).Int("count", len(shows)).Msg("Show search completed")
	return shows, nil
}
