// Package validate compares canonicalized source HTML text against the
// canonicalized text of a created Notion page, using either an LCS or a
// Jaccard-shingle coverage algorithm, and renders the result as page
// properties.
package validate

import (
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/htmlutil"
	"github.com/amberpixels/sn2n/internal/notion"
)

// chromeTags are structural elements that are never part of the article
// body and are excluded from the source canonicalization regardless of
// content.
var chromeTags = map[string]bool{
	"nav": true, "footer": true, "script": true, "style": true,
	"header": true, "aside": true,
}

// chromeClassWords flags a content element as decorative chrome by class
// name even when its tag would otherwise be kept (e.g. a <div> sidebar).
var chromeClassWords = []string{"sidebar", "marketing", "banner", "promo", "toc", "breadcrumb"}

// CanonicalizeSource strips tags, decodes entities, normalizes whitespace,
// and excludes known-chrome elements from sourceHTML, producing the text
// the page's content should cover.
func CanonicalizeSource(sourceHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(sourceHTML))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if chromeTags[n.Data] {
				return
			}
			if isChromeByClass(n) {
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return htmlutil.CleanText(htmlutil.DecodeEntities(b.String()), false), nil
}

func isChromeByClass(n *html.Node) bool {
	classes := htmlutil.ClassSet(n)
	for _, w := range chromeClassWords {
		if htmlutil.ClassWordMatches(classes, w) {
			return true
		}
	}
	return false
}

// CanonicalizePage concatenates every rich-text run's plain content from
// every descendant block of the created page, in document order, and
// applies the same whitespace normalization as the source.
func CanonicalizePage(blocks []notionapi.Block) string {
	var b strings.Builder
	var walk func([]notionapi.Block)
	walk = func(bs []notionapi.Block) {
		for _, blk := range bs {
			for _, r := range notion.BlockRichText(blk) {
				if r.Text != nil {
					b.WriteString(r.Text.Content)
				} else {
					b.WriteString(r.PlainText)
				}
				b.WriteString(" ")
			}
			walk(notion.BlockChildren(blk))
		}
	}
	walk(blocks)

	return htmlutil.CleanText(b.String(), false)
}
