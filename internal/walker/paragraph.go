package walker

import (
	"bytes"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
	"github.com/amberpixels/sn2n/internal/htmlutil"
)

// handleParagraph implements §4.4's paragraph rule: a block-descendant-free
// paragraph becomes one paragraph block (or a label-derived callout); a
// paragraph with block-level children splits into leading text, each
// block-level child processed as a sibling, and trailing text.
func handleParagraph(n *html.Node, ctx *Context) []notionapi.Block {
	cleaned := htmlutil.CleanText(htmlutil.TextContent(n), false)
	if label, ok := leadingLabel(cleaned); ok && !hasBlockDescendant(n) {
		return calloutFromLabel(label, parseInline(n, ctx))
	}

	if !hasBlockDescendant(n) {
		runs := parseInline(n, ctx)
		if isEmptyRuns(runs) {
			return nil
		}
		return blocks.Paragraph(runs)
	}

	var out []notionapi.Block
	var pending bytes.Buffer

	flush := func() {
		text := strings.TrimSpace(pending.String())
		pending.Reset()
		if text == "" {
			return
		}
		runs := parseRich(text, ctx)
		if isEmptyRuns(runs) {
			return
		}
		out = append(out, blocks.Paragraph(runs)...)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isBlockDescendant(c) {
			flush()
			out = append(out, walkNode(c, ctx)...)
			continue
		}
		_ = html.Render(&pending, c)
	}
	flush()

	return out
}

func isEmptyRuns(runs []notionapi.RichText) bool {
	if len(runs) == 0 {
		return true
	}
	for _, r := range runs {
		content := r.PlainText
		if r.Text != nil {
			content = r.Text.Content
		}
		if strings.TrimSpace(content) != "" {
			return false
		}
	}
	return true
}
