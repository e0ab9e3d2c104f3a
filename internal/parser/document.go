// Package parser provides an offline, goquery-backed document view over raw
// HTML. It implements the same container abstraction the browser layer
// exposes, so the extraction engine can run against saved page snapshots and
// in tests without a browser.
package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/maltedev/tasker-scraper/internal/extract"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from raw HTML.
func Parse(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Containers returns the nodes matching selector as extraction containers.
func (d *Document) Containers(selector string) []extract.Container {
	return wrapSelection(d.doc.Find(selector))
}

// Text returns the rendered text of the whole page.
func (d *Document) Text() string {
	return strings.TrimSpace(d.doc.Text())
}

// HTML returns the raw markup of the whole page.
func (d *Document) HTML() string {
	h, err := d.doc.Html()
	if err != nil {
		return ""
	}
	return h
}

// node adapts one goquery selection to extract.Container.
type node struct {
	sel *goquery.Selection
}

func (n *node) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

func (n *node) HTML() string {
	h, err := goquery.OuterHtml(n.sel)
	if err != nil {
		return ""
	}
	return h
}

// Visible approximates rendered visibility from static markup. Without a
// layout engine only explicit hiding can be detected; everything else is
// treated as visible.
func (n *node) Visible() bool {
	for s := n.sel; s.Length() > 0; s = s.Parent() {
		if _, hidden := s.Attr("hidden"); hidden {
			return false
		}
		if v, ok := s.Attr("aria-hidden"); ok && v == "true" {
			return false
		}
		style, _ := s.Attr("style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

func (n *node) Query(selector string) []extract.Container {
	return wrapSelection(n.sel.Find(selector))
}

func wrapSelection(sel *goquery.Selection) []extract.Container {
	out := make([]extract.Container, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &node{sel: s})
	})
	return out
}
