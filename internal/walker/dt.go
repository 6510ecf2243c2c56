package walker

import (
	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
)

// handleDt emits a <dt> (definition term) as a paragraph with its entire
// content forced bold, regardless of the annotations its inline markup
// already carries.
func handleDt(n *html.Node, ctx *Context) []notionapi.Block {
	runs := parseInline(n, ctx)
	for i := range runs {
		ann := notionapi.Annotations{}
		if runs[i].Annotations != nil {
			ann = *runs[i].Annotations
		}
		ann.Bold = true
		runs[i].Annotations = &ann
	}
	return blocks.Paragraph(runs)
}
