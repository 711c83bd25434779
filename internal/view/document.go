// Package view renders the search page as an HTML node tree. The tree is the
// render target: renderers mutate it in place and the web layer serializes it.
package view

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

//go:embed page.html
var pageSkeleton []byte

// Element ids of the page skeleton.
const (
	searchQueryID     = "search-query"
	showsListID       = "shows-list"
	episodesAreaID    = "episodes-area"
	episodesHeadingID = "episodes-heading"
	episodesListID    = "episodes-list"
	noticeID          = "notice"
	episodesFormID    = "episodes-form"
)

const (
	displayBlock = "display: block"
	displayNone  = "display: none"
)

// Document is one page tree.
type Document struct {
	doc         *goquery.Document
	placeholder string
}

// NewDocument returns a fresh page: empty show list, hidden episode panel.
func NewDocument(placeholderImage string) *Document {
	d, err := ParseDocument(bytes.NewReader(pageSkeleton), placeholderImage)
	if err != nil {
		// The skeleton is embedded at build time
		panic(fmt.Sprintf("view: invalid page skeleton: %v", err))
	}
	return d
}

// ParseDocument loads a page previously written by Render.
func ParseDocument(r io.Reader, placeholderImage string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)
	if doc.Find("#" + showsListID).Length() == 0 {
		return nil, fmt.Errorf("parse page: missing #%s", showsListID)
	}
	return &Document{doc: doc, placeholder: placeholderImage}, nil
}

// Render writes the page as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.doc.Nodes[0])
}

// Bytes returns the rendered page.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Selection exposes the tree for read-only queries.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

func (d *Document) byID(id string) *goquery.Selection {
	return d.doc.Find("#" + id)
}

// SetQuery keeps the submitted query in the search box.
func (d *Document) SetQuery(query string) {
	d.byID(searchQueryID).SetAttr("value", query)
}

// SetNotice shows a non-fatal message above the results. An empty message hides it.
func (d *Document) SetNotice(message string) {
	notice := d.byID(noticeID)
	notice.SetText(message)
	if message == "" {
		notice.SetAttr("style", displayNone)
		return
	}
	notice.SetAttr("style", displayBlock)
}

// Notice returns the visible notice, or "" when none is shown.
func (d *Document) Notice() string {
	notice := d.byID(noticeID)
	if style, _ := notice.Attr("style"); style != displayBlock {
		return ""
	}
	return notice.Text()
}

// HideEpisodes hides the episode panel.
func (d *Document) HideEpisodes() {
	d.byID(episodesAreaID).SetAttr("style", displayNone)
}

// EpisodesVisible reports whether the episode panel is shown.
func (d *Document) EpisodesVisible() bool {
	style, _ := d.byID(episodesAreaID).Attr("style")
	return style == displayBlock
}

// SetEpisodesHeading replaces the episode panel heading.
func (d *Document) SetEpisodesHeading(text string) {
	d.byID(episodesHeadingID).SetText(text)
}

// ShowName reads a rendered show's title back out of its card.
func (d *Document) ShowName(showID int) (string, bool) {
	title := d.doc.Find(fmt.Sprintf(`.card[data-show-id="%d"] h5`, showID)).First()
	if title.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(title.Text()), true
}

// ShowIDs returns the ids of the rendered cards in page order.
func (d *Document) ShowIDs() []int {
	var ids []int
	d.byID(showsListID).Find(".card").Each(func(_ int, card *goquery.Selection) {
		if id, err := strconv.Atoi(card.AttrOr("data-show-id", "")); err == nil {
			ids = append(ids, id)
		}
	})
	return ids
}
