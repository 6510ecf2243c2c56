package walker

import (
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/blocks"
	"github.com/amberpixels/sn2n/internal/marker"
)

func parseDoc(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestWalk_SimpleParagraphWithInlineCode(t *testing.T) {
	doc := parseDoc(t, `<p>Set <code>sys_id</code> to the record ID.</p>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	require.Len(t, out, 1)

	p, ok := out[0].(*notionapi.ParagraphBlock)
	require.True(t, ok)
	require.Len(t, p.Paragraph.RichText, 3)
	assert.Equal(t, "Set ", p.Paragraph.RichText[0].PlainText)
	assert.Equal(t, "sys_id", p.Paragraph.RichText[1].PlainText)
	assert.True(t, p.Paragraph.RichText[1].Annotations.Code)
}

func TestWalk_CalloutWithUnusualClass(t *testing.T) {
	doc := parseDoc(t, `<div class="note note note_note"><span class="note__title">Note:</span><p>Restart the service.</p></div>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	require.Len(t, out, 1)

	c, ok := out[0].(*notionapi.CalloutBlock)
	require.True(t, ok)
	assert.Equal(t, notionapi.ColorBlueBackground, c.Callout.Color)
	assert.Equal(t, "Note: Restart the service.", blocks.ConcatText(c.Callout.RichText))
}

func TestWalk_ListItemWithTableDefersViaMarker(t *testing.T) {
	doc := parseDoc(t, `<ol><li>First, configure:<table><tr><td>a</td><td>b</td></tr></table></li></ol>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	require.Len(t, out, 1)

	item, ok := out[0].(*notionapi.NumberedListItemBlock)
	require.True(t, ok)
	require.Len(t, ctx.Sidecar, 1)

	text := blocks.ConcatText(item.NumberedListItem.RichText)
	assert.True(t, marker.ContainsToken(item.NumberedListItem.RichText))
	assert.Contains(t, text, "First, configure:")

	for id, deferred := range ctx.Sidecar {
		require.Len(t, deferred, 1)
		_, isTable := deferred[0].(*notionapi.TableBlock)
		assert.True(t, isTable)
		assert.Equal(t, marker.Token(id), tokenSuffixOf(text))
	}
}

func tokenSuffixOf(text string) string {
	idx := strings.Index(text, "(sn2n:")
	if idx < 0 {
		return ""
	}
	return text[idx:]
}

func TestWalk_VideoIframe(t *testing.T) {
	doc := parseDoc(t, `<iframe src="https://www.youtube.com/embed/abc123"></iframe>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	require.Len(t, out, 1)
	_, ok := out[0].(*notionapi.VideoBlock)
	assert.True(t, ok)
}

func TestWalk_GrayInfoCalloutFiltered(t *testing.T) {
	doc := parseDoc(t, `<div class="note" style="background:gray"><span>Decorative info.</span></div>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	assert.Empty(t, out)
	assert.Equal(t, 1, ctx.FilteredCallout)
}

func TestWalk_HeadingDegradesAboveH3(t *testing.T) {
	doc := parseDoc(t, `<h5>Deep heading</h5>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	require.Len(t, out, 1)
	_, ok := out[0].(*notionapi.Heading3Block)
	assert.True(t, ok)
}

func TestWalk_ParagraphWithBlockDescendantSplits(t *testing.T) {
	doc := parseDoc(t, `<p>Intro text<ul><li>item one</li></ul>Trailing text</p>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	require.Len(t, out, 3)

	_, ok0 := out[0].(*notionapi.ParagraphBlock)
	assert.True(t, ok0)
	_, ok1 := out[1].(*notionapi.BulletedListItemBlock)
	assert.True(t, ok1)
	_, ok2 := out[2].(*notionapi.ParagraphBlock)
	assert.True(t, ok2)
}

func TestWalk_DtWrappedBold(t *testing.T) {
	doc := parseDoc(t, `<dt>Glossary term</dt>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	require.Len(t, out, 1)
	p, ok := out[0].(*notionapi.ParagraphBlock)
	require.True(t, ok)
	require.NotEmpty(t, p.Paragraph.RichText)
	assert.True(t, p.Paragraph.RichText[0].Annotations.Bold)
}

func TestWalk_PreBlockDetectsLanguage(t *testing.T) {
	doc := parseDoc(t, `<pre><code class="language-javascript">const x = 1;</code></pre>`)
	ctx := NewContext("", false)

	out := Walk(doc, ctx)
	require.Len(t, out, 1)
	c, ok := out[0].(*notionapi.CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "javascript", c.Code.Language)
}
