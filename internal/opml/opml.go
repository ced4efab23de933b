// ABOUTME: OPML parsing and writing for feed subscription lists
// ABOUTME: Maps OPML folders to source categories in both directions

package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/harper/scout/internal/config"
)

// DefaultCategory receives feeds that sit at the OPML root, outside
// any folder.
const DefaultCategory = "uncategorized"

// Document represents an OPML document with a title and hierarchical outlines
type Document struct {
	Title    string
	Outlines []Outline
}

// Outline represents a node in the OPML tree structure
// Can be either a folder (with Children) or a feed (with XMLURL)
type Outline struct {
	Text     string
	Title    string
	Type     string
	XMLURL   string
	Children []Outline
}

// Feed is a flat view of a single feed outline with its folder name
type Feed struct {
	URL    string
	Title  string
	Folder string
}

// XML structs for parsing and writing OPML files
type opmlXML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    headXML  `xml:"head"`
	Body    bodyXML  `xml:"body"`
}

type headXML struct {
	Title string `xml:"title"`
}

type bodyXML struct {
	Outlines []outlineXML `xml:"outline"`
}

type outlineXML struct {
	Text     string       `xml:"text,attr"`
	Title    string       `xml:"title,attr,omitempty"`
	Type     string       `xml:"type,attr,omitempty"`
	XMLURL   string       `xml:"xmlUrl,attr,omitempty"`
	Children []outlineXML `xml:"outline,omitempty"`
}

// Parse reads OPML data from an io.Reader and returns a Document
func Parse(r io.Reader) (*Document, error) {
	var doc opmlXML
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode OPML: %w", err)
	}

	out := &Document{
		Title:    doc.Head.Title,
		Outlines: make([]Outline, len(doc.Body.Outlines)),
	}
	for i, outline := range doc.Body.Outlines {
		out.Outlines[i] = convertOutlineFromXML(outline)
	}
	return out, nil
}

// ParseFile reads OPML data from a file and returns a Document
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// AllFeeds returns a flat list of all feeds in the document with their folder names
func (d *Document) AllFeeds() []Feed {
	feeds := make([]Feed, 0, len(d.Outlines))
	for _, outline := range d.Outlines {
		feeds = append(feeds, collectFeeds(outline, "")...)
	}
	return feeds
}

// Sources converts the document into a sources map, grouping feeds by
// folder. Root-level feeds land in DefaultCategory; duplicate feed URLs
// keep their first occurrence. Feeds without a title fall back to the
// URL as the source name.
func (d *Document) Sources() map[string][]config.Source {
	sources := make(map[string][]config.Source)
	seen := make(map[string]bool)

	for _, feed := range d.AllFeeds() {
		feedURL := strings.TrimSpace(feed.URL)
		if feedURL == "" || seen[feedURL] {
			continue
		}
		seen[feedURL] = true

		name := strings.TrimSpace(feed.Title)
		if name == "" {
			name = feedURL
		}

		category := feed.Folder
		if category == "" {
			category = DefaultCategory
		}
		sources[category] = append(sources[category], config.Source{Name: name, Feed: feedURL})
	}

	return sources
}

// FromSources builds an OPML document from a sources map, rendering
// each category as a folder. Categories are emitted in sorted order so
// the output is stable.
func FromSources(title string, sources map[string][]config.Source) *Document {
	doc := &Document{Title: title}

	categories := make([]string, 0, len(sources))
	for category := range sources {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		feeds := make([]Outline, 0, len(sources[category]))
		for _, src := range sources[category] {
			feeds = append(feeds, Outline{
				Text:   src.Name,
				Title:  src.Name,
				Type:   "rss",
				XMLURL: src.Feed,
			})
		}
		if len(feeds) == 0 {
			continue
		}
		if category == "" {
			doc.Outlines = append(doc.Outlines, feeds...)
			continue
		}
		doc.Outlines = append(doc.Outlines, Outline{
			Text:     category,
			Children: feeds,
		})
	}

	return doc
}

// Write writes the OPML document to an io.Writer
func (d *Document) Write(w io.Writer) error {
	doc := opmlXML{
		Version: "2.0",
		Head: headXML{
			Title: d.Title,
		},
		Body: bodyXML{
			Outlines: make([]outlineXML, len(d.Outlines)),
		},
	}

	for i, outline := range d.Outlines {
		doc.Body.Outlines[i] = convertOutlineToXML(outline)
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode OPML: %w", err)
	}

	return nil
}

// Helper functions

func convertOutlineFromXML(x outlineXML) Outline {
	o := Outline{
		Text:     x.Text,
		Title:    x.Title,
		Type:     x.Type,
		XMLURL:   x.XMLURL,
		Children: make([]Outline, len(x.Children)),
	}

	for i, child := range x.Children {
		o.Children[i] = convertOutlineFromXML(child)
	}

	return o
}

func convertOutlineToXML(o Outline) outlineXML {
	x := outlineXML{
		Text:     o.Text,
		Title:    o.Title,
		Type:     o.Type,
		XMLURL:   o.XMLURL,
		Children: make([]outlineXML, len(o.Children)),
	}

	for i, child := range o.Children {
		x.Children[i] = convertOutlineToXML(child)
	}

	return x
}

func collectFeeds(outline Outline, folder string) []Feed {
	var feeds []Feed

	if outline.XMLURL != "" {
		// This is a feed
		feeds = append(feeds, Feed{
			URL:    outline.XMLURL,
			Title:  getOutlineTitle(outline),
			Folder: folder,
		})
	}

	// Recurse into children
	childFolder := folder
	if outline.XMLURL == "" && len(outline.Children) > 0 {
		// This is a folder
		childFolder = outline.Text
	}

	for _, child := range outline.Children {
		feeds = append(feeds, collectFeeds(child, childFolder)...)
	}

	return feeds
}

func getOutlineTitle(outline Outline) string {
	if outline.Title != "" {
		return outline.Title
	}
	return outline.Text
}
