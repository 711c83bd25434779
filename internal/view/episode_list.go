package view

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Belphemur/ShowSearch/internal/models"
)

// ClearEpisodes empties the episode list without touching the panel's visibility.
func (d *Document) ClearEpisodes() {
	d.byID(episodesListID).Empty()
}

// RenderEpisodes appends one item per episode and reveals the episode panel.
// The list is not cleared first.
func (d *Document) RenderEpisodes(episodes []models.Episode) {
	list := d.byID(episodesListID)
	for _, ep := range episodes {
		item := element(atom.Li, "data-episode-id", strconv.Itoa(ep.ID))
		item.AppendChild(&html.Node{Type: html.TextNode, Data: ep.Label()})
		list.AppendNodes(item)
	}
	d.byID(episodesAreaID).SetAttr("style", displayBlock)
}

// EpisodeLabels returns the text of the rendered episode items in order.
func (d *Document) EpisodeLabels() []string {
	var labels []string
	d.byID(episodesListID).Find("li").Each(func(_ int, li *goquery.Selection) {
		labels = append(labels, li.Text())
	})
	return labels
}
