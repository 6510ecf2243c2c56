package dedupe

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraph(text string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		Paragraph: notionapi.Paragraph{RichText: []notionapi.RichText{{
			Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: text}, PlainText: text,
		}}},
	}
}

func grayInfoCallout() notionapi.Block {
	e := notionapi.Emoji("ℹ")
	return &notionapi.CalloutBlock{
		Callout: notionapi.Callout{
			Color: notionapi.ColorGrayBackground,
			Icon:  &notionapi.Icon{Type: "emoji", Emoji: &e},
		},
	}
}

func TestRun_DedupesAdjacentDuplicateParagraphs(t *testing.T) {
	in := []notionapi.Block{paragraph("hello"), paragraph("hello"), paragraph("world")}
	out, stats := Run(nil, in)

	require.Len(t, out, 2)
	assert.Equal(t, 1, stats.Deduped)
}

func TestRun_NonAdjacentDuplicatesAreKept(t *testing.T) {
	in := []notionapi.Block{paragraph("hello"), paragraph("world"), paragraph("hello")}
	out, _ := Run(nil, in)
	assert.Len(t, out, 3)
}

func TestRun_FiltersGrayInfoCallout(t *testing.T) {
	in := []notionapi.Block{grayInfoCallout()}
	out, stats := Run(nil, in)

	assert.Empty(t, out)
	assert.Equal(t, 1, stats.Filtered)
}

func TestRun_KeepsBlueCallout(t *testing.T) {
	e := notionapi.Emoji("ℹ")
	in := []notionapi.Block{&notionapi.CalloutBlock{
		Callout: notionapi.Callout{Color: notionapi.ColorBlueBackground, Icon: &notionapi.Icon{Emoji: &e}},
	}}
	out, stats := Run(nil, in)
	assert.Len(t, out, 1)
	assert.Zero(t, stats.Filtered)
}
