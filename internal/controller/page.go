package controller

import (
	"context"

	"github.com/Belphemur/ShowSearch/internal/models"
)

// Page is the presentation surface the controller mutates. The HTML document
// and the terminal renderer both implement it.
type Page interface {
	SetQuery(query string)
	SetNotice(message string)

	RenderShows(shows []models.Show)

	ClearEpisodes()
	HideEpisodes()
	SetEpisodesHeading(text string)
	RenderEpisodes(episodes []models.Episode)

	// ShowName reads the title of the card already rendered for showID.
	ShowName(showID int) (string, bool)
}

// Pages gives exclusive access to one session's page. Changes made by fn are
// kept only when fn returns nil.
type Pages interface {
	Update(ctx context.Context, sessionID string, fn func(Page) error) error
}
