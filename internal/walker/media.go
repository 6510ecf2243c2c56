package walker

import (
	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
	"github.com/amberpixels/sn2n/internal/htmlutil"
)

// handleIframe classifies an <iframe> src as a known video provider (YouTube,
// Vimeo, Wistia, Loom, Vidyard, Brightcove — emitted as a Notion "video"
// block) or anything else (emitted as a generic "embed").
func handleIframe(n *html.Node, ctx *Context) notionapi.Block {
	src := htmlutil.NormalizeURL(htmlutil.Attr(n, "src"), ctx.Origin)
	if htmlutil.ClassifyMedia(src) == htmlutil.MediaVideo {
		return blocks.Video(src)
	}
	return blocks.Embed(src)
}

// handleFigure converts a standalone <figure> (not nested inside a table,
// which the table converter handles itself) into an image block using the
// child <img> src and <figcaption> text as caption.
func handleFigure(n *html.Node, ctx *Context) notionapi.Block {
	img := findDescendant(n, "img")
	if img == nil {
		return nil
	}
	src := htmlutil.NormalizeURL(htmlutil.Attr(img, "src"), ctx.Origin)
	caption := figcaptionText(n)
	return blocks.Image(src, caption)
}

func figcaptionText(figure *html.Node) string {
	for c := figure.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "figcaption" {
			return htmlutil.CleanText(htmlutil.TextContent(c), false)
		}
	}
	return ""
}

func findDescendant(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findDescendant(c, tag); found != nil {
			return found
		}
	}
	return nil
}
