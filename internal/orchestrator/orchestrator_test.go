package orchestrator

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberpixels/sn2n/internal/marker"
)

func richText(s string) notionapi.RichText {
	return notionapi.RichText{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}, PlainText: s}
}

func TestFindHost_LocatesBlockWithToken(t *testing.T) {
	id := marker.Mint()
	tok := marker.Token(id)

	host := &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{ID: "host-1"},
		Paragraph:  notionapi.Paragraph{RichText: []notionapi.RichText{richText("see " + tok)}},
	}
	other := &notionapi.ParagraphBlock{BasicBlock: notionapi.BasicBlock{ID: "other"}}

	found, foundID := findHost([]notionapi.Block{other, host}, id)
	require.NotNil(t, found)
	assert.Equal(t, "host-1", foundID)
}

func TestFindHost_SearchesNestedChildren(t *testing.T) {
	id := marker.Mint()
	tok := marker.Token(id)

	nested := &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{ID: "nested-1"},
		Paragraph:  notionapi.Paragraph{RichText: []notionapi.RichText{richText(tok)}},
	}
	parent := &notionapi.BulletedListItemBlock{
		BasicBlock:       notionapi.BasicBlock{ID: "parent-1"},
		BulletedListItem: notionapi.ListItem{Children: []notionapi.Block{nested}},
	}

	found, foundID := findHost([]notionapi.Block{parent}, id)
	require.NotNil(t, found)
	assert.Equal(t, "nested-1", foundID)
}

func TestFindHost_NoMatchReturnsNil(t *testing.T) {
	found, foundID := findHost([]notionapi.Block{&notionapi.ParagraphBlock{}}, marker.Mint())
	assert.Nil(t, found)
	assert.Equal(t, "", foundID)
}

func TestWithRichText_Paragraph(t *testing.T) {
	runs := []notionapi.RichText{richText("hi")}
	updated := withRichText(&notionapi.ParagraphBlock{}, runs).(*notionapi.ParagraphBlock)
	assert.Equal(t, runs, updated.Paragraph.RichText)
}

func TestWithRichText_UnsupportedTypeReturnsNil(t *testing.T) {
	assert.Nil(t, withRichText(&notionapi.DividerBlock{}, nil))
}
