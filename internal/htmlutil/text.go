package htmlutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DecodeEntities decodes the standard named entities plus numeric entities
// (&#NNN; and &#xHH;). Invalid entity references pass through literally
// rather than failing, matching golang.org/x/net/html's own unescape
// behavior (it leaves unrecognized sequences untouched).
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

var whitespaceRun = regexp.MustCompile(`[ \t\f\v\r]+`)
var multiNewline = regexp.MustCompile(`\n{2,}`)

// CleanText collapses runs of horizontal whitespace to a single space. When
// preserveNewlines is true, explicit newlines already present in s (as
// emitted by the caller for <br> tags) are kept, with consecutive newlines
// collapsed to one; when false, newlines are folded into the same single
// space as other whitespace.
func CleanText(s string, preserveNewlines bool) string {
	if !preserveNewlines {
		s = strings.ReplaceAll(s, "\n", " ")
		return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(whitespaceRun.ReplaceAllString(line, " "), " ")
	}
	joined := strings.Join(lines, "\n")
	joined = multiNewline.ReplaceAllString(joined, "\n")
	return strings.TrimSpace(joined)
}

// PreservePreformatted returns s unchanged, for use inside <pre>/<code>,
// where whitespace must never be collapsed. It does not strip tags: callers
// pass text already extracted from the element's text nodes.
func PreservePreformatted(s string) string {
	return s
}
