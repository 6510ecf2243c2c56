package validate

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeSource_StripsTagsAndChrome(t *testing.T) {
	html := `<article><p>Keep this.</p><nav>Skip this nav</nav><footer>Skip footer</footer></article>`
	text, err := CanonicalizeSource(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Keep this.")
	assert.NotContains(t, text, "Skip this nav")
	assert.NotContains(t, text, "Skip footer")
}

func TestCanonicalizeSource_ExcludesSidebarByClass(t *testing.T) {
	html := `<div class="content">Body text</div><div class="page_sidebar">Chrome text</div>`
	text, err := CanonicalizeSource(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Body text")
	assert.NotContains(t, text, "Chrome text")
}

func paragraphBlock(text string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		Paragraph: notionapi.Paragraph{RichText: []notionapi.RichText{{PlainText: text}}},
	}
}

func TestCanonicalizePage_ConcatenatesInDocumentOrder(t *testing.T) {
	blocks := []notionapi.Block{paragraphBlock("first"), paragraphBlock("second")}
	text := CanonicalizePage(blocks)
	assert.Equal(t, "first second", text)
}

func TestCoverageLCS_IdenticalTextIsFullCoverage(t *testing.T) {
	tokens := []string{"alpha", "beta", "gamma", "delta"}
	coverage, spans := coverageLCS(tokens, tokens)
	assert.Equal(t, 1.0, coverage)
	assert.Empty(t, spans)
}

func TestCoverageLCS_MissingMiddleSectionIsReported(t *testing.T) {
	source := []string{"a", "b", "c", "d", "e"}
	page := []string{"a", "b", "e"}

	coverage, spans := coverageLCS(source, page)
	assert.Less(t, coverage, 1.0)
	require.Len(t, spans, 1)
	assert.Equal(t, "c d", spans[0].Text)
}

func TestCoverageJaccard_IdenticalTextIsFullCoverage(t *testing.T) {
	tokens := []string{"one", "two", "three", "four", "five"}
	coverage, _ := coverageJaccard(tokens, tokens)
	assert.Equal(t, 1.0, coverage)
}

func TestMissingSpans_SamplesAtMostFive(t *testing.T) {
	source := make([]string, 0, 40)
	matched := make([]bool, 40)
	for i := 0; i < 40; i++ {
		source = append(source, "w")
		matched[i] = i%2 == 0 // every odd token missing -> 20 single-token spans
	}
	spans := missingSpans(source, matched)
	assert.LessOrEqual(t, len(spans), maxSampledSpans)
}

func TestCompare_AppliesCompleteStatusAboveThreshold(t *testing.T) {
	policy := Policy{CoverageThreshold: 0.97, MissingThreshold: 0}
	record, err := Compare("<p>hello world</p>", []notionapi.Block{paragraphBlock("hello world")}, MethodLCS, policy, "run-1", time.Unix(0, 0))

	require.NoError(t, err)
	assert.Equal(t, StatusComplete, record.Status)
	assert.Equal(t, 1.0, record.Coverage)
}

func TestCompare_AppliesAttentionStatusBelowThreshold(t *testing.T) {
	policy := Policy{CoverageThreshold: 0.97, MissingThreshold: 0}
	record, err := Compare("<p>hello there big world of content</p>", []notionapi.Block{paragraphBlock("hello world")}, MethodLCS, policy, "run-2", time.Unix(0, 0))

	require.NoError(t, err)
	assert.Equal(t, StatusAttention, record.Status)
}

func TestToProperties_SetsAllFields(t *testing.T) {
	record := &Record{
		Coverage: 0.5, MissingCount: 2, Method: MethodLCS,
		LastChecked: time.Unix(0, 0), RunID: "run-3", Status: StatusAttention,
		MissingSpans: []Span{{Text: "gap one"}, {Text: "gap two"}},
	}

	props := ToProperties(record)
	assert.Equal(t, notionapi.NumberProperty{Number: 0.5}, props["Coverage"])
	assert.Equal(t, notionapi.SelectProperty{Select: notionapi.Option{Name: "Attention"}}, props["Status"])
	assert.Equal(t, notionapi.NumberProperty{Number: 2}, props["MissingCount"])
	assert.Equal(t, notionapi.SelectProperty{Select: notionapi.Option{Name: "lcs"}}, props["Method"])
	checked := notionapi.Date(time.Unix(0, 0))
	assert.Equal(t, notionapi.DateProperty{Date: &notionapi.DateObject{Start: &checked}}, props["LastChecked"])
	assert.Equal(t, notionapi.RichTextProperty{RichText: []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: "gap one | gap two"}}}}, props["MissingSpans"])
	assert.Equal(t, notionapi.RichTextProperty{RichText: []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: "run-3"}}}}, props["RunId"])
}
