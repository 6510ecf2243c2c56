package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// InnerHTML serializes n's children back to HTML source, for feeding a
// sub-fragment into the rich-text parser.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// TextContent concatenates every descendant text node's raw data.
func TextContent(n *html.Node) string {
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

// Attr returns the value of the named attribute, or "" if absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// ClassSet splits the class attribute into its whitespace-separated tokens.
func ClassSet(n *html.Node) map[string]bool {
	set := make(map[string]bool)
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			set[c] = true
		}
	}
	return set
}

// ClassWordMatches reports whether any class token, split on "_", contains
// word as one of its parts — so "note_note" matches "note" but "notefoo"
// does not (word-match, not suffix-match).
func ClassWordMatches(classes map[string]bool, word string) bool {
	for c := range classes {
		for _, part := range strings.Split(c, "_") {
			if part == word {
				return true
			}
		}
	}
	return false
}
