package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Belphemur/ShowSearch/internal/models"
)

const summaryWidth = 60

// TerminalPage keeps the same page state as Document and prints it as tables.
// It satisfies controller.Page for the lookup command.
type TerminalPage struct {
	placeholder     string
	query           string
	notice          string
	shows           []models.Show
	heading         string
	episodes        []models.Episode
	episodesVisible bool
}

// NewTerminalPage returns an empty page.
func NewTerminalPage(placeholderImage string) *TerminalPage {
	return &TerminalPage{placeholder: placeholderImage, heading: "Episodes"}
}

// SetQuery records the query shown above the results.
func (p *TerminalPage) SetQuery(query string) { p.query = query }

// SetNotice sets the failure message printed before the tables. Empty clears it.
func (p *TerminalPage) SetNotice(message string) { p.notice = message }

// HideEpisodes stops the episode table from being printed.
func (p *TerminalPage) HideEpisodes() { p.episodesVisible = false }

// ClearEpisodes drops every episode row.
func (p *TerminalPage) ClearEpisodes() { p.episodes = nil }

// SetEpisodesHeading sets the title of the episode table.
func (p *TerminalPage) SetEpisodesHeading(t string) {
	p.heading = t
}

// RenderShows replaces the show rows with shows, in order.
func (p *TerminalPage) RenderShows(shows []models.Show) {
	p.shows = append([]models.Show(nil), shows...)
}

// RenderEpisodes appends episode rows and reveals the episode table.
func (p *TerminalPage) RenderEpisodes(episodes []models.Episode) {
	p.episodes = append(p.episodes, episodes...)
	p.episodesVisible = true
}

// ShowName returns the name of the rendered show with showID.
func (p *TerminalPage) ShowName(showID int) (string, bool) {
	for _, s := range p.shows {
		if s.ID == showID {
			return s.Name, true
		}
	}
	return "", false
}

// Render prints the notice, the show table and, when revealed, the episode table.
func (p *TerminalPage) Render(w io.Writer) error {
	var b strings.Builder

	if p.notice != "" {
		b.WriteString(text.FgRed.Sprint(p.notice))
		b.WriteString("\n\n")
	}

	if p.query != "" {
		fmt.Fprintf(&b, "Results for %q\n", p.query)
		b.WriteString(p.showTable())
		b.WriteString("\n")
	}

	if p.episodesVisible {
		if p.query != "" {
			b.WriteString("\n")
		}
		b.WriteString(p.heading)
		b.WriteString("\n")
		b.WriteString(p.episodeTable())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (p *TerminalPage) showTable() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Name", "Summary", "Image"})
	for _, s := range p.shows {
		image := s.ImageURL()
		if image == "" {
			image = p.placeholder
		}
		tw.AppendRow(table.Row{strconv.Itoa(s.ID), s.Name, plainText(s.Summary), image})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, WidthMax: summaryWidth},
	})
	return tw.Render()
}

func (p *TerminalPage) episodeTable() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Episode"})
	for _, e := range p.episodes {
		tw.AppendRow(table.Row{strconv.Itoa(e.ID), e.Label()})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// plainText drops the markup of a summary.
func plainText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
