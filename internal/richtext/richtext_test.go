package richtext

import (
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleParagraphWithInlineCode(t *testing.T) {
	res, err := Parse(`Set <code>sys_id</code> to the record ID.`, "")
	require.NoError(t, err)
	require.Len(t, res.Runs, 3)

	assert.Equal(t, "Set ", res.Runs[0].PlainText)
	assert.False(t, res.Runs[0].Annotations.Code)

	assert.Equal(t, "sys_id", res.Runs[1].PlainText)
	require.NotNil(t, res.Runs[1].Annotations)
	assert.True(t, res.Runs[1].Annotations.Code)
	assert.Equal(t, "red", string(res.Runs[1].Annotations.Color))

	assert.Equal(t, " to the record ID.", res.Runs[2].PlainText)
	assert.False(t, res.Runs[2].Annotations.Code)
}

func TestParse_TechnicalIdentifierAutoCode(t *testing.T) {
	res, err := Parse(`Configure com.snc.change before editing sys_user.`, "")
	require.NoError(t, err)

	var joined strings.Builder
	var sawCode bool
	for _, r := range res.Runs {
		joined.WriteString(r.PlainText)
		if r.PlainText == "com.snc.change" || r.PlainText == "sys_user" {
			require.NotNil(t, r.Annotations)
			assert.True(t, r.Annotations.Code)
			sawCode = true
		}
	}
	assert.True(t, sawCode)
	assert.Equal(t, "Configure com.snc.change before editing sys_user.", joined.String())
}

func TestParse_AcronymNotWrappedInCode(t *testing.T) {
	res, err := Parse(`The KPI_API is stable.`, "")
	require.NoError(t, err)

	for _, r := range res.Runs {
		if strings.Contains(r.PlainText, "KPI_API") {
			if r.Annotations != nil {
				assert.False(t, r.Annotations.Code)
			}
		}
	}
}

func TestParse_BoldItalicNesting(t *testing.T) {
	res, err := Parse(`<b>bold <i>bold-italic</i></b>`, "")
	require.NoError(t, err)
	require.Len(t, res.Runs, 2)
	assert.True(t, res.Runs[0].Annotations.Bold)
	assert.False(t, res.Runs[0].Annotations.Italic)
	assert.True(t, res.Runs[1].Annotations.Bold)
	assert.True(t, res.Runs[1].Annotations.Italic)
}

func TestParse_UicontrolSpan(t *testing.T) {
	res, err := Parse(`Click <span class="uicontrol">Save</span>.`, "")
	require.NoError(t, err)
	require.Len(t, res.Runs, 3)
	assert.True(t, res.Runs[1].Annotations.Bold)
	assert.Equal(t, "blue", string(res.Runs[1].Annotations.Color))
}

func TestParse_SectionTitleTaskLabel(t *testing.T) {
	res, err := Parse(`<span class="sectiontitle tasklabel">Before you begin</span>`, "")
	require.NoError(t, err)
	require.Len(t, res.Runs, 1)
	assert.True(t, res.Runs[0].Annotations.Bold)
}

func TestParse_LinkSetsHref(t *testing.T) {
	res, err := Parse(`<a href="/docs/x">docs</a>`, "https://example.service-now.com")
	require.NoError(t, err)
	require.Len(t, res.Runs, 1)
	assert.Equal(t, "https://example.service-now.com/docs/x", res.Runs[0].Href)
}

func TestParse_ImageExtractedToSidecar(t *testing.T) {
	res, err := Parse(`<p>see <img src="foo.png" alt="x"> above</p>`, "")
	require.NoError(t, err)
	require.Len(t, res.Images, 1)
	for _, r := range res.Runs {
		assert.NotContains(t, r.PlainText, "foo.png")
	}
}

func TestParse_YouTubeIframeBecomesVideo(t *testing.T) {
	res, err := Parse(`<iframe src="https://www.youtube.com/embed/abc123"></iframe>`, "")
	require.NoError(t, err)
	require.Len(t, res.Media, 1)
	_, isVideo := res.Media[0].(*notionapi.VideoBlock)
	assert.True(t, isVideo)
}

func TestParse_EmptyFragmentProducesSingleEmptyRun(t *testing.T) {
	res, err := Parse("", "")
	require.NoError(t, err)
	require.Len(t, res.Runs, 1)
	assert.Equal(t, "", res.Runs[0].PlainText)
}

func TestParse_SpacingInvariant(t *testing.T) {
	res, err := Parse(`<b>foo</b><i>bar</i>`, "")
	require.NoError(t, err)
	var joined strings.Builder
	for _, r := range res.Runs {
		joined.WriteString(r.PlainText)
	}
	assert.Equal(t, "foo bar", joined.String())
}

func TestChunkBlocks_SplitsLongRunIntoContinuationBlock(t *testing.T) {
	res, err := Parse(strings.Repeat("a", 2100), "")
	require.NoError(t, err)

	groups := ChunkBlocks(res.Runs)
	require.Len(t, groups, 2)
	require.Len(t, groups[0], 1)
	require.Len(t, groups[1], 1)
	assert.Len(t, groups[0][0].PlainText, 2000)
	assert.Len(t, groups[1][0].PlainText, 100)
}

func TestChunkBlocks_SplitsOverflowRunsIntoContinuationBlock(t *testing.T) {
	runs := make([]notionapi.RichText, 0, 150)
	for i := 0; i < 150; i++ {
		runs = append(runs, notionapi.RichText{
			Type:      notionapi.ObjectTypeText,
			Text:      &notionapi.Text{Content: "x"},
			PlainText: "x",
		})
	}

	groups := ChunkBlocks(runs)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], MaxRuns)
	assert.Len(t, groups[1], 50)
}

func TestChunk_DropsOverflowBeyondFirstGroup(t *testing.T) {
	runs := make([]notionapi.RichText, 0, 150)
	for i := 0; i < 150; i++ {
		runs = append(runs, notionapi.RichText{
			Type:      notionapi.ObjectTypeText,
			Text:      &notionapi.Text{Content: "x"},
			PlainText: "x",
		})
	}

	chunked := Chunk(runs)
	assert.Len(t, chunked, MaxRuns)
}
