package walker

import (
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
	"github.com/amberpixels/sn2n/internal/htmlutil"
)

// handlePre converts a <pre> element into a code block, preserving
// whitespace byte-for-byte after decoding entities and tag-stripping.
func handlePre(n *html.Node) []notionapi.Block {
	raw := htmlutil.TextContent(n)
	content := htmlutil.PreservePreformatted(htmlutil.DecodeEntities(raw))
	return blocks.Code(content, detectLanguage(n))
}

// detectLanguage reads a language-* class or data-language attribute,
// walking into a nested <code> child if present (the common <pre><code>
// shape), and normalizes it to Notion's lowercase language identifiers.
func detectLanguage(n *html.Node) string {
	if lang := languageFrom(n); lang != "" {
		return lang
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "code" {
			if lang := languageFrom(c); lang != "" {
				return lang
			}
		}
	}
	return "plain text"
}

func languageFrom(n *html.Node) string {
	if dl := htmlutil.Attr(n, "data-language"); dl != "" {
		return normalizeLanguage(dl)
	}
	for c := range htmlutil.ClassSet(n) {
		if strings.HasPrefix(c, "language-") {
			return normalizeLanguage(strings.TrimPrefix(c, "language-"))
		}
		if strings.HasPrefix(c, "lang-") {
			return normalizeLanguage(strings.TrimPrefix(c, "lang-"))
		}
	}
	return ""
}

var languageAliases = map[string]string{
	"js":   "javascript",
	"ts":   "typescript",
	"sh":   "shell",
	"bash": "shell",
	"yml":  "yaml",
	"py":   "python",
}

func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	return lang
}
