// Package walker walks a parsed HTML document in source order and
// dispatches each element to the Notion block shape it maps to.
package walker

import (
	"regexp"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
	"github.com/amberpixels/sn2n/internal/htmlutil"
	"github.com/amberpixels/sn2n/internal/marker"
	"github.com/amberpixels/sn2n/internal/richtext"
	"github.com/amberpixels/sn2n/internal/table"
)

// contentSelectors is the priority-ordered list of content-container
// candidates; the first one present in the document is the walk root.
var contentSelectors = []func(*html.Node) *html.Node{
	func(n *html.Node) *html.Node { return findByClass(n, "main-content") },
	func(n *html.Node) *html.Node { return findByClass(n, "zDocsContent") },
	func(n *html.Node) *html.Node { return findByTag(n, "article") },
	func(n *html.Node) *html.Node { return findByTag(n, "main") },
	func(n *html.Node) *html.Node { return findByTag(n, "body") },
}

// Context threads per-conversion state (the marker sidecar, source origin,
// and the DOM-order strictness flag) through the walk without any global
// mutable state.
type Context struct {
	Origin          string
	Sidecar         marker.Sidecar
	StrictDOMOrder  bool
	FilteredCallout int
}

// NewContext creates a walk context for one conversion.
func NewContext(origin string, strictDOMOrder bool) *Context {
	return &Context{Origin: origin, Sidecar: marker.NewSidecar(), StrictDOMOrder: strictDOMOrder}
}

// Walk finds the content root in doc (the result of html.Parse) and returns
// the document-order block stream.
func Walk(doc *html.Node, ctx *Context) []notionapi.Block {
	root := doc
	for _, sel := range contentSelectors {
		if found := sel(doc); found != nil {
			root = found
			break
		}
	}
	return walkChildren(root, ctx)
}

func walkChildren(n *html.Node, ctx *Context) []notionapi.Block {
	var out []notionapi.Block
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, walkNode(c, ctx)...)
	}
	return out
}

func walkNode(n *html.Node, ctx *Context) []notionapi.Block {
	if n.Type == html.CommentNode || n.Type == html.DoctypeNode {
		return nil
	}
	if n.Type == html.TextNode {
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return blocks.Paragraph(parseRich(n.Data, ctx))
	}
	if n.Type != html.ElementNode {
		return nil
	}

	switch {
	case isHeadingTag(n.Data):
		return blocks.Heading(headingLevel(n.Data), parseInline(n, ctx))
	case n.Data == "p":
		return handleParagraph(n, ctx)
	case n.Data == "pre":
		return handlePre(n)
	case n.Data == "iframe":
		return []notionapi.Block{handleIframe(n, ctx)}
	case n.Data == "figure":
		if b := handleFigure(n, ctx); b != nil {
			return []notionapi.Block{b}
		}
		return nil
	case n.Data == "table":
		res := table.Convert(n, ctx.Origin)
		return append([]notionapi.Block{res.Table}, res.Images...)
	case n.Data == "ul" || n.Data == "ol":
		return convertList(n, n.Data == "ol", 0, ctx)
	case n.Data == "dt":
		return handleDt(n, ctx)
	case n.Data == "section" && htmlutil.ClassWordMatches(htmlutil.ClassSet(n), "prereq"):
		return handlePrereq(n, ctx)
	case isCalloutContainer(n):
		if b := handleCallout(n, ctx); b != nil {
			return b
		}
		ctx.FilteredCallout++
		return nil
	case n.Data == "script" || n.Data == "style" || n.Data == "nav" || n.Data == "footer":
		return nil
	default:
		return handleUnknownContainer(n, ctx)
	}
}

func parseRich(fragment string, ctx *Context) []notionapi.RichText {
	res, err := richtext.Parse(fragment, ctx.Origin)
	if err != nil {
		return nil
	}
	return res.Runs
}

func parseInline(n *html.Node, ctx *Context) []notionapi.RichText {
	return parseRich(htmlutil.InnerHTML(n), ctx)
}

func isHeadingTag(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	default:
		return 3
	}
}

// isBlockDescendant reports whether n is one of the element kinds that force
// a paragraph (or unknown container) to split rather than collapse into a
// single rich-text block.
func isBlockDescendant(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "ul", "ol", "table", "figure", "iframe", "p":
		return true
	case "div":
		return htmlutil.ClassWordMatches(htmlutil.ClassSet(n), "note")
	}
	return false
}

func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isBlockDescendant(c) {
			return true
		}
		if hasBlockDescendant(c) {
			return true
		}
	}
	return false
}

var labelPattern = regexp.MustCompile(`^(Note|Info|Warning|Important|Caution|Tip):`)

func leadingLabel(text string) (label string, ok bool) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && htmlutil.ClassSet(n)[class] {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func findByTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}
