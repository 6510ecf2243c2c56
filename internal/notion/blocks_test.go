package notion

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

func TestExtractBlockID(t *testing.T) {
	block := &notionapi.ParagraphBlock{BasicBlock: notionapi.BasicBlock{ID: "test-block-id"}}
	assert.Equal(t, "test-block-id", extractBlockID(block))
	assert.Equal(t, "test-block-id", BlockID(block))
}

func TestExtractBlockID_UnknownTypeReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", extractBlockID(&notionapi.ColumnListBlock{}))
}

func TestHasChildren(t *testing.T) {
	assert.True(t, hasChildren(&notionapi.CalloutBlock{BasicBlock: notionapi.BasicBlock{HasChildren: true}}))
	assert.False(t, hasChildren(&notionapi.CalloutBlock{}))
	assert.False(t, hasChildren(&notionapi.DividerBlock{}))
}

func TestSetBlockChildren_Paragraph(t *testing.T) {
	block := &notionapi.ParagraphBlock{}
	children := []notionapi.Block{&notionapi.ParagraphBlock{}}

	updated := setBlockChildren(block, children).(*notionapi.ParagraphBlock)
	assert.Len(t, updated.Paragraph.Children, 1)
}

func TestBuildBlockUpdateRequest_Paragraph(t *testing.T) {
	runs := []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: "hi"}, PlainText: "hi"}}
	req, err := buildBlockUpdateRequest(&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: runs}})

	assert.NoError(t, err)
	assert.Equal(t, runs, req.Paragraph.RichText)
}

func TestBuildBlockUpdateRequest_UnsupportedType(t *testing.T) {
	_, err := buildBlockUpdateRequest(&notionapi.DividerBlock{})
	assert.Error(t, err)
}

func TestBlockRichText_Callout(t *testing.T) {
	runs := []notionapi.RichText{{PlainText: "note"}}
	block := &notionapi.CalloutBlock{Callout: notionapi.Callout{RichText: runs}}
	assert.Equal(t, runs, BlockRichText(block))
}

func TestBlockRichText_UnknownTypeReturnsNil(t *testing.T) {
	assert.Nil(t, BlockRichText(&notionapi.DividerBlock{}))
}
