package walker

import (
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
	"github.com/amberpixels/sn2n/internal/htmlutil"
)

// isCalloutContainer reports whether n is a callout-shaped element: a <div>
// whose classes word-match note/info/warning/important/critical/tip/caution, or any
// <aside>.
func isCalloutContainer(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if n.Data == "aside" {
		return true
	}
	if n.Data != "div" {
		return false
	}
	classes := htmlutil.ClassSet(n)
	for _, word := range []string{"note", "info", "warning", "important", "critical", "tip", "caution"} {
		if htmlutil.ClassWordMatches(classes, word) {
			return true
		}
	}
	return false
}

// calloutStyle is the fixed class-vocabulary → (icon, color) table from §4.4.
type calloutStyle struct {
	emoji string
	color notionapi.Color
}

var calloutStyles = []struct {
	words []string
	style calloutStyle
}{
	{[]string{"important", "critical"}, calloutStyle{"⚠", notionapi.ColorRedBackground}},
	{[]string{"warning"}, calloutStyle{"⚠", notionapi.ColorOrangeBackground}},
	{[]string{"caution"}, calloutStyle{"⚠", notionapi.ColorYellowBackground}},
	{[]string{"tip"}, calloutStyle{"💡", notionapi.ColorGreenBackground}},
	{[]string{"info", "note"}, calloutStyle{"ℹ", notionapi.ColorBlueBackground}},
}

func styleForClasses(classes map[string]bool) (calloutStyle, bool) {
	for _, entry := range calloutStyles {
		for _, w := range entry.words {
			if htmlutil.ClassWordMatches(classes, w) {
				return entry.style, true
			}
		}
	}
	return calloutStyle{}, false
}

func styleForLabel(label string) calloutStyle {
	switch strings.ToLower(label) {
	case "important":
		return calloutStyle{"⚠", notionapi.ColorRedBackground}
	case "warning":
		return calloutStyle{"⚠", notionapi.ColorOrangeBackground}
	case "caution":
		return calloutStyle{"⚠", notionapi.ColorYellowBackground}
	case "tip":
		return calloutStyle{"💡", notionapi.ColorGreenBackground}
	default: // note, info
		return calloutStyle{"ℹ", notionapi.ColorBlueBackground}
	}
}

func calloutFromLabel(label string, runs []notionapi.RichText) []notionapi.Block {
	style := styleForLabel(label)
	return blocks.Callout(runs, style.emoji, style.color, nil)
}

// handleCallout converts a callout-shaped div/aside. It returns nil when the
// div is a gray-background info callout, which is decorative UI chrome and
// must be dropped entirely (not just its color reset).
func handleCallout(n *html.Node, ctx *Context) []notionapi.Block {
	classes := htmlutil.ClassSet(n)
	style, matched := styleForClasses(classes)
	if !matched {
		style = calloutStyle{"ℹ", notionapi.ColorBlueBackground}
	}

	if isGrayInfo(n, classes, style) {
		return nil
	}

	runs := parseInline(n, ctx)
	return blocks.Callout(runs, style.emoji, style.color, nil)
}

func isGrayInfo(n *html.Node, classes map[string]bool, style calloutStyle) bool {
	if style.color != notionapi.ColorBlueBackground {
		return false
	}
	if htmlutil.ClassWordMatches(classes, "gray") || htmlutil.ClassWordMatches(classes, "grey") {
		return true
	}
	return strings.Contains(strings.ToLower(htmlutil.Attr(n, "style")), "gray") ||
		strings.Contains(strings.ToLower(htmlutil.Attr(n, "style")), "grey")
}

// handlePrereq converts a <section class="prereq"> into a callout with a
// pushpin icon, applying the fixed "Before you begin" / "Role required:"
// text-shaping rule.
func handlePrereq(n *html.Node, ctx *Context) []notionapi.Block {
	text := htmlutil.CleanText(htmlutil.TextContent(n), false)
	runs := shapePrereqText(text)
	return blocks.Callout(runs, "📍", notionapi.ColorDefault, nil)
}

func shapePrereqText(text string) []notionapi.RichText {
	const before = "Before you begin"
	const role = "Role required:"

	simple := strings.TrimSpace(text) == strings.TrimSpace(before+" "+role) ||
		strings.TrimSpace(text) == strings.TrimSpace(before+"\n"+role)

	shaped := text
	if strings.HasPrefix(strings.TrimSpace(text), before) {
		rest := strings.TrimPrefix(strings.TrimSpace(text), before)
		shaped = before + "\n" + strings.TrimSpace(rest)
	}
	if idx := strings.Index(shaped, role); idx > 0 && !simple {
		shaped = shaped[:idx] + "\n" + shaped[idx:]
	}

	return []notionapi.RichText{{
		Type:      notionapi.ObjectTypeText,
		Text:      &notionapi.Text{Content: shaped},
		PlainText: shaped,
	}}
}
