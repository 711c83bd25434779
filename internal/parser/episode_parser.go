package parser

import (
	"encoding/json"
	"io"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
)

type episodePayload struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
	Number *int   `json:"number"`
}

// EpisodeParser normalizes /shows/{id}/episodes responses into models.Episode records
type EpisodeParser struct{}

// NewEpisodeParser creates a new episode parser instance
func NewEpisodeParser() *EpisodeParser {
	return &EpisodeParser{}
}

// Parse decodes the episode payload in the order the service returned it.
func (p *EpisodeParser) Parse(body io.Reader) ([]models.Episode, error) {
	logger := config.GetLogger()

	var payload []episodePayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, &apperrors.ErrMalformedResponse{Endpoint: "episodes", Err: err}
	}

	episodes := make([]models.Episode, 0, len(payload))
	for i, ep := range payload {
		if ep.ID <= 0 {
			logger.Warn().Int("index", i).Str("name", ep.Name).Msg("Skipping episode without id")
			continue
		}
		episode := models.Episode{
			ID:     ep.ID,
			Name:   ep.Name,
			Season: ep.Season,
		}
		// Specials have a null number
		if ep.Number != nil {
			episode.Number = *ep.Number
		}
		episodes = append(episodes, episode)
	}

	logger.Debug().Int("episodes", len(episodes)).Msg("Parsed episode response")
	return episodes, nil
}
