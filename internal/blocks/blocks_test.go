package blocks

import (
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rt(s string) notionapi.RichText {
	return notionapi.RichText{
		Type:      notionapi.ObjectTypeText,
		Text:      &notionapi.Text{Content: s},
		PlainText: s,
	}
}

func TestHeading_DegradesAboveH3(t *testing.T) {
	bs := Heading(5, []notionapi.RichText{rt("title")})
	require.Len(t, bs, 1)
	_, ok := bs[0].(*notionapi.Heading3Block)
	assert.True(t, ok)
}

func TestHeading_Level1(t *testing.T) {
	bs := Heading(1, []notionapi.RichText{rt("title")})
	require.Len(t, bs, 1)
	h, ok := bs[0].(*notionapi.Heading1Block)
	require.True(t, ok)
	assert.Equal(t, "title", ConcatText(h.Heading1.RichText))
}

func TestCallout_SetsIconAndColor(t *testing.T) {
	bs := Callout([]notionapi.RichText{rt("Restart the service.")}, "ℹ", notionapi.ColorBlueBackground, nil)
	require.Len(t, bs, 1)
	c, ok := bs[0].(*notionapi.CalloutBlock)
	require.True(t, ok)
	assert.Equal(t, notionapi.ColorBlueBackground, c.Callout.Color)
	require.NotNil(t, c.Callout.Icon.Emoji)
}

func TestParagraph_SplitsOverlongContentIntoContinuationBlock(t *testing.T) {
	bs := Paragraph([]notionapi.RichText{rt(strings.Repeat("a", 2100))})
	require.Len(t, bs, 2)

	first, ok := bs[0].(*notionapi.ParagraphBlock)
	require.True(t, ok)
	assert.Len(t, ConcatText(first.Paragraph.RichText), 2000)

	second, ok := bs[1].(*notionapi.ParagraphBlock)
	require.True(t, ok)
	assert.Len(t, ConcatText(second.Paragraph.RichText), 100)
}

func TestBulletedListItem_AttachesChildrenToFirstContinuationOnly(t *testing.T) {
	children := []notionapi.Block{Paragraph([]notionapi.RichText{rt("child")})[0]}
	bs := BulletedListItem([]notionapi.RichText{rt(strings.Repeat("a", 2100))}, children)
	require.Len(t, bs, 2)

	first, ok := bs[0].(*notionapi.BulletedListItemBlock)
	require.True(t, ok)
	assert.Len(t, first.BulletedListItem.Children, 1)

	second, ok := bs[1].(*notionapi.BulletedListItemBlock)
	require.True(t, ok)
	assert.Empty(t, second.BulletedListItem.Children)
}

func TestTableRow_ChunksEachCell(t *testing.T) {
	row := TableRow([][]notionapi.RichText{{rt("a")}, {rt("b")}})
	r, ok := row.(*notionapi.TableRowBlock)
	require.True(t, ok)
	assert.Len(t, r.TableRow.Cells, 2)
}

func TestConcatText(t *testing.T) {
	assert.Equal(t, "ab", ConcatText([]notionapi.RichText{rt("a"), rt("b")}))
}
