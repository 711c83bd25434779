package testutil

import (
	"encoding/json"
	"strings"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// ShowEntryOptions contains options for generating one /search/shows entry
type ShowEntryOptions struct {
	ShowID      int
	Name        string
	Summary     string
	ImageMedium string // Empty means "image": null
	Score       float64
	OmitShow    bool // Produce an entry with no "show" object
	NullSummary bool
}

// EpisodeOptions contains options for generating one /shows/{id}/episodes entry
type EpisodeOptions struct {
	EpisodeID int
	Name      string
	Season    int
	Number    *int // nil produces "number": null like specials
}

// GenerateShowSearchJSON generates a /search/shows payload shaped like the
// real TVMaze response, wrapper objects included.
func GenerateShowSearchJSON(entries []ShowEntryOptions) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"score":`)
		sb.WriteString(mustJSON(e.Score))
		if e.OmitShow {
			sb.WriteString("}")
			continue
		}
		sb.WriteString(`,"show":{"id":`)
		sb.WriteString(mustJSON(e.ShowID))
		sb.WriteString(`,"url":"https://www.tvmaze.com/shows/`)
		sb.WriteString(mustJSON(e.ShowID))
		sb.WriteString(`","name":`)
		sb.WriteString(mustJSON(e.Name))
		sb.WriteString(`,"type":"Scripted","language":"English","summary":`)
		if e.NullSummary {
			sb.WriteString("null")
		} else {
			sb.WriteString(mustJSON(e.Summary))
		}
		sb.WriteString(`,"image":`)
		if e.ImageMedium == "" {
			sb.WriteString("null")
		} else {
			sb.WriteString(`{"medium":`)
			sb.WriteString(mustJSON(e.ImageMedium))
			sb.WriteString(`,"original":`)
			sb.WriteString(mustJSON(strings.Replace(e.ImageMedium, "medium_portrait", "original_untouched", 1)))
			sb.WriteString("}")
		}
		sb.WriteString("}}")
	}
	sb.WriteString("]")
	return sb.String()
}

// GenerateEpisodesJSON generates a /shows/{id}/episodes payload.
func GenerateEpisodesJSON(episodes []EpisodeOptions) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range episodes {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"id":`)
		sb.WriteString(mustJSON(e.EpisodeID))
		sb.WriteString(`,"name":`)
		sb.WriteString(mustJSON(e.Name))
		sb.WriteString(`,"season":`)
		sb.WriteString(mustJSON(e.Season))
		sb.WriteString(`,"number":`)
		if e.Number == nil {
			sb.WriteString("null")
		} else {
			sb.WriteString(mustJSON(*e.Number))
		}
		sb.WriteString(`,"airdate":"2012-04-15","runtime":30}`)
	}
	sb.WriteString("]")
	return sb.String()
}

// GirlsSearchJSON is the single-result search payload for the query "Girls".
func GirlsSearchJSON(imageURL string) string {
	return GenerateShowSearchJSON([]ShowEntryOptions{{
		ShowID:      139,
		Name:        "Girls",
		Summary:     "<p>This Emmy winning series is a comic look at the assorted humiliations and rare triumphs of a group of girls in their 20s.</p>",
		ImageMedium: imageURL,
		Score:       0.9,
	}})
}

// GirlsEpisodesJSON is the first season opening of show 139.
func GirlsEpisodesJSON() string {
	return GenerateEpisodesJSON([]EpisodeOptions{
		{EpisodeID: 11, Name: "Pilot", Season: 1, Number: IntPtr(1)},
		{EpisodeID: 12, Name: "Vagina Panic", Season: 1, Number: IntPtr(2)},
		{EpisodeID: 13, Name: "All Adventurous Women Do", Season: 1, Number: IntPtr(3)},
	})
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
