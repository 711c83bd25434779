package view

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/Belphemur/ShowSearch/internal/models"
)

func itoa(v int) string {
	return strconv.Itoa(v)
}

func TestNewDocument_Skeleton(t *testing.T) {
	doc := NewDocument(testPlaceholder)
	sel := doc.Selection()

	for _, id := range []string{"search-form", "search-query", "shows-list", "episodes-area", "episodes-heading", "episodes-list", "notice", "episodes-form"} {
		if sel.Find("#"+id).Length() != 1 {
			t.Errorf("Expected exactly one #%s in the skeleton", id)
		}
	}
	if sel.Find(".container #episodes-form").Length() != 1 {
		t.Error("Expected the episode form inside the stable container")
	}
	if doc.Notice() != "" {
		t.Errorf("Expected no notice, got %q", doc.Notice())
	}
}

func TestDocument_ShowName(t *testing.T) {
	doc := NewDocument(testPlaceholder)
	doc.RenderShows([]models.Show{girls()})

	name, ok := doc.ShowName(139)
	if !ok || name != "Girls" {
		t.Errorf("ShowName(139) = %q, %v", name, ok)
	}

	if _, ok := doc.ShowName(1); ok {
		t.Error("Expected unknown show to be missing")
	}
}

func TestDocument_HeadingAndNotice(t *testing.T) {
	doc := NewDocument(testPlaceholder)

	doc.SetEpisodesHeading("Girls Episodes")
	if got := doc.Selection().Find("#episodes-heading").Text(); got != "Girls Episodes" {
		t.Errorf("Unexpected heading %q", got)
	}

	doc.SetNotice("Could not reach the show directory")
	if got := doc.Notice(); got != "Could not reach the show directory" {
		t.Errorf("Unexpected notice %q", got)
	}

	doc.SetNotice("")
	if got := doc.Notice(); got != "" {
		t.Errorf("Expected notice to be hidden, got %q", got)
	}
}

func TestDocument_SetQuery(t *testing.T) {
	doc := NewDocument(testPlaceholder)
	doc.SetQuery(`Girls "2012"`)

	if got := doc.Selection().Find("#search-query").AttrOr("value", ""); got != `Girls "2012"` {
		t.Errorf("Unexpected query value %q", got)
	}
}

func TestDocument_RoundTrip(t *testing.T) {
	doc := NewDocument(testPlaceholder)
	doc.RenderShows([]models.Show{girls(), {ID: 2, Name: "Two", Summary: "<p>Second <i>show</i></p>"}})
	doc.SetEpisodesHeading("Girls Episodes")
	doc.RenderEpisodes([]models.Episode{{ID: 11, Name: "Pilot", Season: 1, Number: 1}})

	raw, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	loaded, err := ParseDocument(bytes.NewReader(raw), testPlaceholder)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if got := loaded.ShowIDs(); len(got) != 2 || got[0] != 139 || got[1] != 2 {
		t.Errorf("Unexpected ShowIDs after round trip: %v", got)
	}
	if name, _ := loaded.ShowName(139); name != "Girls" {
		t.Errorf("Unexpected show name after round trip: %q", name)
	}
	if labels := loaded.EpisodeLabels(); len(labels) != 1 || labels[0] != "Season 1, Episode 1, Pilot" {
		t.Errorf("Unexpected episodes after round trip: %v", labels)
	}
	if !loaded.EpisodesVisible() {
		t.Error("Expected episode panel visibility to survive the round trip")
	}
	if loaded.Selection().Find(`.card[data-show-id="2"] .card-text p i`).Length() != 1 {
		t.Error("Expected summary markup to survive the round trip")
	}
}

func TestParseDocument_RejectsForeignPages(t *testing.T) {
	_, err := ParseDocument(strings.NewReader("<html><body><p>nope</p></body></html>"), testPlaceholder)
	if err == nil {
		t.Fatal("Expected error for a page without a show list")
	}
}
