package webpage

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Page is the readable content pulled out of one HTML document.
type Page struct {
	Title       string
	Description string
	// Blocks holds block-level text (headings, paragraphs, list items) in
	// document order. When present, the meta description is the first block.
	Blocks []string
}

var textPolicy = bluemonday.StrictPolicy()

// ExtractText strips non-content markup and collects block-level text,
// preferring a <main>/<article> scope when the page has one.
func ExtractText(html string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, err
	}

	doc.Find("script, style, iframe, svg, noscript, nav, footer").Remove()

	page := Page{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: metaDescription(doc),
	}

	scope := doc.Find("main").First()
	if scope.Length() == 0 {
		scope = doc.Find("article").First()
	}
	if scope.Length() == 0 {
		scope = doc.Find("body").First()
	}
	if scope.Length() == 0 {
		scope = doc.Selection
	}

	if page.Description != "" {
		page.Blocks = append(page.Blocks, page.Description)
	}
	scope.Find("h1, h2, h3, h4, p, li, blockquote, td").Each(func(_ int, s *goquery.Selection) {
		text := normalizeBlock(s.Text())
		if text != "" {
			page.Blocks = append(page.Blocks, text)
		}
	})
	return page, nil
}

func metaDescription(doc *goquery.Document) string {
	var desc string
	doc.Find(`meta[name="description"], meta[property="og:description"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("content"); ok && strings.TrimSpace(v) != "" {
			desc = strings.TrimSpace(v)
			return false
		}
		return true
	})
	return desc
}

// normalizeBlock sanitizes stray markup and collapses whitespace.
func normalizeBlock(text string) string {
	text = textPolicy.Sanitize(text)
	return strings.Join(strings.Fields(text), " ")
}
