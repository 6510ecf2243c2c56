// Package table converts an HTML <table> subtree into a Notion table block
// plus any images it contained, which Notion cannot host inside a cell.
package table

import (
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
	"github.com/amberpixels/sn2n/internal/htmlutil"
	"github.com/amberpixels/sn2n/internal/richtext"
)

// Result is the output of converting one <table> element.
type Result struct {
	Table  notionapi.Block
	Images []notionapi.Block
}

// Convert converts a <table> element. origin resolves relative image srcs.
func Convert(table *html.Node, origin string) Result {
	images := extractFigureImages(table, origin)

	width := 0
	var rowBlocks []notionapi.Block
	headerRow := false
	rowIndex := 0

	walkRows(table, func(tr *html.Node, isHeadRow bool) {
		cells := cellTexts(tr, origin)
		if len(cells) > width {
			width = len(cells)
		}
		if isHeadRow && rowIndex == 0 {
			headerRow = true
		}
		rowBlocks = append(rowBlocks, cells)
		rowIndex++
	})

	built := make([]notionapi.Block, 0, len(rowBlocks))
	for _, cells := range rowBlocks {
		built = append(built, blocks.TableRow(padCells(cells, width)))
	}

	return Result{
		Table:  blocks.Table(width, headerRow, built),
		Images: images,
	}
}

// walkRows visits every <tr> under table in document order, reporting
// whether it is the first row of a <thead> (the column-header row).
func walkRows(table *html.Node, visit func(tr *html.Node, isHeadRow bool)) {
	seenHeadRow := false
	var walk func(n *html.Node, inHead bool)
	walk = func(n *html.Node, inHead bool) {
		if n.Type == html.ElementNode && n.Data == "thead" {
			inHead = true
		}
		if n.Type == html.ElementNode && n.Data == "tr" {
			first := inHead && !seenHeadRow
			if inHead {
				seenHeadRow = true
			}
			visit(n, first)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inHead)
		}
	}
	walk(table, false)
}

// cellTexts parses each <td>/<th> in a row through the rich-text parser.
// Block-level elements in a cell are parsed with the rest of the cell, so
// their text becomes part of the cell; they are not emitted as separate
// blocks. A <figure> becomes a "See ..." caption, and an <svg> or <img>
// directly in the cell becomes a bullet glyph (see render).
func cellTexts(tr *html.Node, origin string) [][]notionapi.RichText {
	var cells [][]notionapi.RichText
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		cells = append(cells, cellRichText(c, origin))
	}
	return cells
}

func cellRichText(cell *html.Node, origin string) []notionapi.RichText {
	if containsOnlyPlaceholderMedia(cell) {
		return bulletGlyph()
	}

	var b strings.Builder
	render(cell, &b)
	res, err := richtext.Parse(b.String(), origin)
	if err != nil || len(res.Runs) == 0 {
		return nil
	}
	return res.Runs
}

// containsOnlyPlaceholderMedia reports whether a cell's only non-whitespace
// content is a single <svg> or a bare <img> (not wrapped in <figure>, which
// gets its own "See ..." caption substitution in render); both get replaced
// by a bullet glyph in the cell's rich text.
func containsOnlyPlaceholderMedia(n *html.Node) bool {
	var hasMedia, hasOther bool
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.ElementNode && (c.Data == "svg" || c.Data == "img"):
			hasMedia = true
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) != "":
			hasOther = true
		case c.Type == html.ElementNode:
			hasOther = true
		}
	}
	return hasMedia && !hasOther
}

func bulletGlyph() []notionapi.RichText {
	return []notionapi.RichText{{
		Type:      notionapi.ObjectTypeText,
		Text:      &notionapi.Text{Content: "•"},
		PlainText: "•",
	}}
}

func padCells(cells [][]notionapi.RichText, width int) [][]notionapi.RichText {
	for len(cells) < width {
		cells = append(cells, nil)
	}
	return cells
}

// extractFigureImages finds every image the table contains — whether
// wrapped in a <figure> or a bare <img> directly in a cell — and returns the
// images it emits as sibling blocks after the table, preserving source
// order. Cell rendering substitutes a placeholder (a "See ..." caption for
// figures, a bullet glyph for bare images) in place of the original element.
func extractFigureImages(table *html.Node, origin string) []notionapi.Block {
	var images []notionapi.Block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "figure" {
			if img := findImg(n); img != nil {
				src := htmlutil.NormalizeURL(attr(img, "src"), origin)
				images = append(images, blocks.Image(src, figureCaption(n)))
			}
			return
		}
		if n.Type == html.ElementNode && n.Data == "img" {
			src := htmlutil.NormalizeURL(attr(n, "src"), origin)
			images = append(images, blocks.Image(src, attr(n, "alt")))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return images
}

func findImg(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "img" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if img := findImg(c); img != nil {
			return img
		}
	}
	return nil
}

func figureCaption(figure *html.Node) string {
	for c := figure.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "figcaption" {
			return htmlutil.CleanText(textContent(c), false)
		}
	}
	return ""
}

// render serializes a cell's inner HTML back to a string for the rich-text
// parser, replacing any <figure> it contains with a placeholder caption
// ("See ..." or "See image below") and any <svg> or <img> with a bullet
// glyph, since images cannot live in table cells.
func render(n *html.Node, b *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			if c.Data == "svg" || c.Data == "img" {
				b.WriteString("•")
				continue
			}
			if c.Data == "figure" {
				caption := figureCaption(c)
				if caption != "" {
					b.WriteString(`See "` + caption + `"`)
				} else {
					b.WriteString("See image below")
				}
				continue
			}
			_ = html.Render(b, c)
		}
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
