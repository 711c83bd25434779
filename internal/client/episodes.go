package client

import (
	"context"
	"fmt"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
)

// GetEpisodes fetches the full episode list of a show.
func (c *client) GetEpisodes(ctx context.Context, showID int) ([]models.Episode, error) {
	if showID <= 0 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidShowID, showID)
	}

	logger := config.GetLogger()
	logger.Info().Int("show_id", showID).Msg("Fetching episodes")

	episodesURL := fmt.Sprintf("%s/shows/%d/episodes", c.baseURL, showID)
	episodes, err := fetchList(ctx, c, "episodes", episodesURL, c.episodeParser, apperrors.NewShowNotFoundError(showID))
	if err != nil {
		return nil, fmt.Errorf("get episodes for show %d: %w", showID, err)
	}

	logger.Info().Int("show_id", showID).Int("count", len(episodes)).Msg("Episode fetch completed")
	return episodes, nil
}
