package view

import (
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Belphemur/ShowSearch/internal/models"
)

// RenderShows replaces every card in the show list with one card per show, in order.
func (d *Document) RenderShows(shows []models.Show) {
	list := d.byID(showsListID)
	list.Empty()
	for _, show := range shows {
		list.AppendNodes(d.showCard(show))
	}
}

// showCard builds
//
//	div.Show[data-show-id] > div.card[data-show-id] > (div.card-body > h5, div.card-text, img) + button.episode-button
func (d *Document) showCard(show models.Show) *html.Node {
	id := strconv.Itoa(show.ID)

	title := element(atom.H5, "class", "card-title")
	title.AppendChild(&html.Node{Type: html.TextNode, Data: show.Name})

	text := element(atom.Div, "class", "card-text")
	for _, n := range summaryNodes(show.Summary, text) {
		text.AppendChild(n)
	}

	imageURL := show.ImageURL()
	if imageURL == "" {
		imageURL = d.placeholder
	}

	body := element(atom.Div, "class", "card-body")
	body.AppendChild(title)
	body.AppendChild(text)
	body.AppendChild(element(atom.Img, "class", "card-img-top", "src", imageURL, "alt", show.Name))

	button := element(atom.Button,
		"type", "submit",
		"class", "episode-button btn btn-secondary",
		"data-show-id", id,
		"form", episodesFormID,
		"name", "show_id",
		"value", id,
	)
	button.AppendChild(&html.Node{Type: html.TextNode, Data: "Show Episodes"})

	card := element(atom.Div, "class", "card", "data-show-id", id)
	card.AppendChild(body)
	card.AppendChild(button)

	column := element(atom.Div, "class", "col-md-6 col-lg-3 Show", "data-show-id", id)
	column.AppendChild(card)
	return column
}

// summaryPolicy allows formatting markup and http, https or mailto links only.
var summaryPolicy = bluemonday.UGCPolicy()

// summaryNodes sanitizes the directory's summary markup and parses it in the
// context of its container.
func summaryNodes(summary string, context *html.Node) []*html.Node {
	clean := summaryPolicy.Sanitize(summary)
	if strings.TrimSpace(clean) == "" {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(clean), context)
	if err != nil {
		return []*html.Node{{Type: html.TextNode, Data: clean}}
	}
	return nodes
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}
