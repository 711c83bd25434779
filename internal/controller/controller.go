package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Belphemur/ShowSearch/internal/client"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/metrics"
)

// Notices shown when a directory lookup fails.
const (
	SearchFailedNotice   = "Could not load shows. Please try again."
	EpisodesFailedNotice = "Could not load episodes. Please try again."
)

// DefaultEpisodesHeading is used when the expanded show's card is no longer on the page.
const DefaultEpisodesHeading = "Episodes"

const (
	kindSearch   = "search"
	kindEpisodes = "episodes"
)

// ErrStale marks a response superseded by a newer request of the same session.
// It never leaves the controller.
var ErrStale = errors.New("response superseded by a newer request")

// Controller turns the two user events into directory lookups and page updates.
type Controller struct {
	client client.Client
	pages  Pages
	tokens *tokens
}

// New creates a controller. Request tokens are kept for as many sessions, and as
// long, as the session store keeps pages.
func New(c client.Client, pages Pages, cfg *config.Config) *Controller {
	return &Controller{
		client: c,
		pages:  pages,
		tokens: newTokens(cfg.SessionSize(), cfg.SessionTTL()),
	}
}

// Search handles a submitted query. A blank query is ignored. Otherwise the
// episode panel is hidden right away and the show list is replaced once the
// directory answers, unless a newer search was submitted in the meantime.
func (c *Controller) Search(ctx context.Context, sessionID, query string) error {
	logger := config.GetLogger()

	query = client.NormalizeQuery(query)
	if query == "" {
		metrics.InteractionsTotal.WithLabelValues(kindSearch, "ignored").Inc()
		return nil
	}

	tok := c.tokens.beginSearch(sessionID)
	err := c.pages.Update(ctx, sessionID, func(p Page) error {
		p.SetQuery(query)
		p.SetNotice("")
		p.HideEpisodes()
		return nil
	})
	if err != nil {
		return fmt.Errorf("prepare search page: %w", err)
	}

	shows, fetchErr := c.client.SearchShows(ctx, query)

	err = c.pages.Update(ctx, sessionID, func(p Page) error {
		if !c.tokens.currentSearch(sessionID, tok) {
			return ErrStale
		}
		if fetchErr != nil {
			p.SetNotice(SearchFailedNotice)
			return nil
		}
		p.RenderShows(shows)
		return nil
	})
	switch {
	case errors.Is(err, ErrStale):
		logger.Debug().Str("session", sessionID).Str("query", query).Msg("Discarding superseded search response")
		metrics.StaleResponsesDiscardedTotal.WithLabelValues(kindSearch).Inc()
		metrics.InteractionsTotal.WithLabelValues(kindSearch, "stale").Inc()
		return nil
	case err != nil:
		metrics.InteractionsTotal.WithLabelValues(kindSearch, "error").Inc()
		return fmt.Errorf("render search results: %w", err)
	case fetchErr != nil:
		logger.Error().Err(fetchErr).Str("session", sessionID).Str("query", query).Msg("Show search failed")
		metrics.InteractionsTotal.WithLabelValues(kindSearch, "error").Inc()
		return fmt.Errorf("search %q: %w", query, fetchErr)
	}

	logger.Debug().Str("session", sessionID).Str("query", query).Int("shows", len(shows)).Msg("Rendered search results")
	metrics.InteractionsTotal.WithLabelValues(kindSearch, "success").Inc()
	return nil
}

// ExpandEpisodes handles a click on a show's episode button. The episode list is
// cleared right away and refilled once the directory answers, under a heading
// taken from the show's card.
func (c *Controller) ExpandEpisodes(ctx context.Context, sessionID string, showID int) error {
	logger := config.GetLogger()

	tok := c.tokens.beginEpisodes(sessionID)
	err := c.pages.Update(ctx, sessionID, func(p Page) error {
		p.SetNotice("")
		p.ClearEpisodes()
		return nil
	})
	if err != nil {
		return fmt.Errorf("prepare episodes page: %w", err)
	}

	episodes, fetchErr := c.client.GetEpisodes(ctx, showID)

	err = c.pages.Update(ctx, sessionID, func(p Page) error {
		if !c.tokens.currentEpisodes(sessionID, tok) {
			return ErrStale
		}
		if fetchErr != nil {
			p.SetNotice(EpisodesFailedNotice)
			return nil
		}
		p.SetEpisodesHeading(episodesHeading(p, showID))
		p.RenderEpisodes(episodes)
		return nil
	})
	switch {
	case errors.Is(err, ErrStale):
		logger.Debug().Str("session", sessionID).Int("show_id", showID).Msg("Discarding superseded episodes response")
		metrics.StaleResponsesDiscardedTotal.WithLabelValues(kindEpisodes).Inc()
		metrics.InteractionsTotal.WithLabelValues(kindEpisodes, "stale").Inc()
		return nil
	case err != nil:
		metrics.InteractionsTotal.WithLabelValues(kindEpisodes, "error").Inc()
		return fmt.Errorf("render episodes: %w", err)
	case fetchErr != nil:
		logger.Error().Err(fetchErr).Str("session", sessionID).Int("show_id", showID).Msg("Episode lookup failed")
		metrics.InteractionsTotal.WithLabelValues(kindEpisodes, "error").Inc()
		return fmt.Errorf("episodes of show %d: %w", showID, fetchErr)
	}

	logger.Debug().Str("session", sessionID).Int("show_id", showID).Int("episodes", len(episodes)).Msg("Rendered episodes")
	metrics.InteractionsTotal.WithLabelValues(kindEpisodes, "success").Inc()
	return nil
}

func episodesHeading(p Page, showID int) string {
	name, ok := p.ShowName(showID)
	if !ok || strings.TrimSpace(name) == "" {
		return DefaultEpisodesHeading
	}
	return name + " Episodes"
}
