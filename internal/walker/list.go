package walker

import (
	"bytes"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
	"github.com/amberpixels/sn2n/internal/table"
)

// convertList walks the direct <li> children of a <ul>/<ol> into list item
// blocks. depth 0 is the top-level list; depth 1 is a list nested directly
// inside a top-level item, the deepest level Notion's create request can
// express in a single nesting without a marker deferral.
func convertList(listNode *html.Node, ordered bool, depth int, ctx *Context) []notionapi.Block {
	var items []notionapi.Block
	for c := listNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		item, _ := convertListItem(c, ordered, depth, ctx)
		items = append(items, item...)
	}
	return items
}

func buildItem(ordered bool, runs []notionapi.RichText, children []notionapi.Block) []notionapi.Block {
	if ordered {
		return blocks.NumberedListItem(runs, children)
	}
	return blocks.BulletedListItem(runs, children)
}

func tokenRun(tok string) notionapi.RichText {
	return notionapi.RichText{
		Type:      notionapi.ObjectTypeText,
		Text:      &notionapi.Text{Content: tok},
		PlainText: tok,
	}
}

func newlineRun() notionapi.RichText {
	return notionapi.RichText{
		Type:      notionapi.ObjectTypeText,
		Text:      &notionapi.Text{Content: "\n"},
		PlainText: "\n",
	}
}

// isLiBlockChild reports whether n is one of the element kinds that must be
// evaluated against the list-item permitted-child set rather than folded
// into the item's own rich text.
func isLiBlockChild(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "ul", "ol", "table", "pre", "p", "figure":
		return true
	case "section":
		return true
	}
	return isHeadingTag(n.Data) || isCalloutContainer(n)
}

// splitLi separates an <li>'s direct children into its own inline HTML and
// its block-level children, preserving document order within each group.
func splitLi(li *html.Node) (inlineHTML string, blockChildren []*html.Node) {
	var inline bytes.Buffer
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if isLiBlockChild(c) {
			blockChildren = append(blockChildren, c)
			continue
		}
		_ = html.Render(&inline, c)
	}
	return inline.String(), blockChildren
}

// convertListItem builds one list item, deferring any block-level child
// forbidden as a list-item child (table, code, heading, callout) to the
// marker sidecar and appending its token to the item's own rich text.
// Permitted structural children (paragraph, nested list, image) are built
// in place. The bool return reports nothing today; it exists so a future
// caller can distinguish a fully-deferred item without changing the
// signature again.
func convertListItem(li *html.Node, ordered bool, depth int, ctx *Context) ([]notionapi.Block, bool) {
	inlineHTML, blockChildren := splitLi(li)
	runs := parseRich(inlineHTML, ctx)

	if len(blockChildren) == 0 {
		return buildItem(ordered, runs, nil), false
	}

	var children []notionapi.Block
	for _, bc := range blockChildren {
		switch {
		case bc.Data == "ul" || bc.Data == "ol":
			nestedOrdered := bc.Data == "ol"
			if depth == 0 {
				nestedItems, extraRuns := convertNestedListAtDepth1(bc, nestedOrdered, ctx)
				children = append(children, nestedItems...)
				runs = append(runs, extraRuns...)
			} else {
				deferred := convertList(bc, nestedOrdered, depth+1, ctx)
				_, tok := ctx.Sidecar.Defer(deferred...)
				runs = append(runs, tokenRun(tok))
			}
		case bc.Data == "table":
			res := table.Convert(bc, ctx.Origin)
			_, tok := ctx.Sidecar.Defer(append([]notionapi.Block{res.Table}, res.Images...)...)
			runs = append(runs, tokenRun(tok))
		case bc.Data == "pre":
			_, tok := ctx.Sidecar.Defer(handlePre(bc)...)
			runs = append(runs, tokenRun(tok))
		case isHeadingTag(bc.Data):
			hb := blocks.Heading(headingLevel(bc.Data), parseInline(bc, ctx))
			_, tok := ctx.Sidecar.Defer(hb...)
			runs = append(runs, tokenRun(tok))
		case bc.Data == "section":
			built := walkNode(bc, ctx)
			if len(built) > 0 {
				_, tok := ctx.Sidecar.Defer(built...)
				runs = append(runs, tokenRun(tok))
			}
		case isCalloutContainer(bc):
			if cb := handleCallout(bc, ctx); cb != nil {
				_, tok := ctx.Sidecar.Defer(cb...)
				runs = append(runs, tokenRun(tok))
			}
		case bc.Data == "p":
			children = append(children, blocks.Paragraph(parseInline(bc, ctx))...)
		case bc.Data == "figure":
			if b := handleFigure(bc, ctx); b != nil {
				children = append(children, b)
			}
		}
	}

	return buildItem(ordered, runs, children), false
}

// convertNestedListAtDepth1 applies the two-level nesting ceiling: a nested
// item whose only block-level children are paragraphs and/or images is kept
// in place (paragraphs flattened into the item's own rich text joined by
// newline runs, images retained as grandchildren); a nested item with any
// other block-level child is deferred whole, with its token appended to the
// enclosing top-level item's rich text instead.
func convertNestedListAtDepth1(listNode *html.Node, ordered bool, ctx *Context) (items []notionapi.Block, parentExtraRuns []notionapi.RichText) {
	for c := listNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}

		_, blockChildren := splitLi(c)
		if allFlattenable(blockChildren) {
			items = append(items, buildFlattenedNestedItem(c, ordered, blockChildren, ctx)...)
			continue
		}

		full, _ := convertListItem(c, ordered, 1, ctx)
		_, tok := ctx.Sidecar.Defer(full...)
		parentExtraRuns = append(parentExtraRuns, tokenRun(tok))
	}
	return items, parentExtraRuns
}

func allFlattenable(blockChildren []*html.Node) bool {
	for _, bc := range blockChildren {
		if bc.Data != "p" && bc.Data != "figure" {
			return false
		}
	}
	return true
}

func buildFlattenedNestedItem(li *html.Node, ordered bool, blockChildren []*html.Node, ctx *Context) []notionapi.Block {
	inlineHTML, _ := splitLi(li)
	runs := parseRich(inlineHTML, ctx)

	var children []notionapi.Block
	for _, bc := range blockChildren {
		switch bc.Data {
		case "p":
			runs = append(runs, newlineRun())
			runs = append(runs, parseInline(bc, ctx)...)
		case "figure":
			if b := handleFigure(bc, ctx); b != nil {
				children = append(children, b)
			}
		}
	}
	return buildItem(ordered, runs, children)
}
