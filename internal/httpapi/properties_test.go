package httpapi

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

func TestEnsureTitleProperty_AddsNameWhenAbsent(t *testing.T) {
	props := ensureTitleProperty(nil, "My Doc")

	title, ok := props["Name"].(notionapi.TitleProperty)
	assert.True(t, ok)
	assert.Equal(t, "My Doc", title.Title[0].Text.Content)
}

func TestEnsureTitleProperty_LeavesExistingTitleAlone(t *testing.T) {
	existing := notionapi.Properties{
		"Headline": notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Keep Me"}}},
	}

	props := ensureTitleProperty(existing, "Ignored")

	_, hasName := props["Name"]
	assert.False(t, hasName)
}

func TestEnsureURLProperty_SkipsWhenEmpty(t *testing.T) {
	props := ensureURLProperty(notionapi.Properties{}, "")
	_, ok := props["URL"]
	assert.False(t, ok)
}

func TestEnsureURLProperty_SetsWhenAbsent(t *testing.T) {
	props := ensureURLProperty(notionapi.Properties{}, "https://example.com")
	urlProp, ok := props["URL"].(notionapi.URLProperty)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", urlProp.URL)
}
