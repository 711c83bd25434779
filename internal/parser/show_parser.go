package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
)

// searchEntry is one element of the /search/shows payload
type searchEntry struct {
	Score float64      `json:"score"`
	Show  *showPayload `json:"show"`
}

type showPayload struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Summary *string `json:"summary"`
	Image   *struct {
		Medium   string `json:"medium"`
		Original string `json:"original"`
	} `json:"image"`
}

// ShowSearchParser normalizes /search/shows responses into models.Show records
type ShowSearchParser struct{}

// NewShowSearchParser creates a new show search parser instance
func NewShowSearchParser() *ShowSearchParser {
	return &ShowSearchParser{}
}

// Parse decodes the search payload, keeping the service's relevance order.
// Entries without a show object or without an id cannot be correlated in the
// page and are dropped.
func (p *ShowSearchParser) Parse(body io.Reader) ([]models.Show, error) {
	logger := config.GetLogger()

	var entries []searchEntry
	if err := json.NewDecoder(body).Decode(&entries); err != nil {
		return nil, &apperrors.ErrMalformedResponse{Endpoint: "show search", Err: err}
	}

	shows := make([]models.Show, 0, len(entries))
	for i, entry := range entries {
		show, err := p.convert(entry)
		if err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("Skipping invalid search entry")
			continue
		}
		shows = append(shows, show)
	}

	logger.Debug().Int("entries", len(entries)).Int("shows", len(shows)).Msg("Parsed show search response")
	return shows, nil
}

func (p *ShowSearchParser) convert(entry searchEntry) (models.Show, error) {
	if entry.Show == nil {
		return models.Show{}, fmt.Errorf("entry has no show object")
	}
	if entry.Show.ID <= 0 {
		return models.Show{}, fmt.Errorf("show %q has no id", entry.Show.Name)
	}

	show := models.Show{
		ID:   entry.Show.ID,
		Name: entry.Show.Name,
	}
	if entry.Show.Summary != nil {
		show.Summary = *entry.Show.Summary
	}
	if img := entry.Show.Image; img != nil && img.Medium != "" {
		show.Image = &models.ShowImage{Medium: img.Medium, Original: img.Original}
	}
	return show, nil
}
