package walker

import (
	"bytes"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
)

// handleUnknownContainer handles any element the dispatcher doesn't
// specifically recognize (typically a layout <div> or <section>): inline-only
// content becomes one paragraph; block-level children are walked recursively,
// with any text directly preceding a block-level child flushed as its own
// paragraph first.
func handleUnknownContainer(n *html.Node, ctx *Context) []notionapi.Block {
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
		if c.Type == html.ElementNode && !isInlineElement(c) {
			flush()
			out = append(out, walkNode(c, ctx)...)
			continue
		}
		_ = html.Render(&pending, c)
	}
	flush()

	return out
}

func isInlineElement(n *html.Node) bool {
	switch n.Data {
	case "b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "span", "a", "br", "img":
		return true
	}
	return false
}
