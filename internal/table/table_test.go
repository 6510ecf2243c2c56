package table

import (
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseTable(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)

	var table *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if table != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "table" {
			table = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	require.NotNil(t, table, "no <table> found in fixture")
	return table
}

func TestConvert_ImageInCellExtractedAsSibling(t *testing.T) {
	src := `<table><tr><td><img src="foo.png" alt="x"></td><td>text</td></tr></table>`
	node := parseTable(t, src)

	res := Convert(node, "")
	require.Len(t, res.Images, 1)

	tbl, ok := res.Table.(*notionapi.TableBlock)
	require.True(t, ok)
	require.Len(t, tbl.Table.Children, 1)

	row, ok := tbl.Table.Children[0].(*notionapi.TableRowBlock)
	require.True(t, ok)
	require.Len(t, row.TableRow.Cells, 2)
	assert.Equal(t, "•", row.TableRow.Cells[0][0].PlainText)
	assert.Equal(t, "text", row.TableRow.Cells[1][0].PlainText)
}

func TestConvert_WidthIsWidestRow(t *testing.T) {
	src := `<table><tr><td>a</td><td>b</td><td>c</td></tr><tr><td>d</td></tr></table>`
	node := parseTable(t, src)

	res := Convert(node, "")
	tbl := res.Table.(*notionapi.TableBlock)
	assert.Equal(t, 3, tbl.Table.TableWidth)

	secondRow := tbl.Table.Children[1].(*notionapi.TableRowBlock)
	assert.Len(t, secondRow.TableRow.Cells, 3)
}

func TestConvert_TheadSetsColumnHeaderFlag(t *testing.T) {
	src := `<table><thead><tr><th>H1</th></tr></thead><tbody><tr><td>v1</td></tr></tbody></table>`
	node := parseTable(t, src)

	res := Convert(node, "")
	tbl := res.Table.(*notionapi.TableBlock)
	assert.True(t, tbl.Table.HasColumnHeader)
}

func TestConvert_CellPreservesLinkHrefAndSpanClass(t *testing.T) {
	src := `<table><tr><td><a href="/docs/x">docs</a></td><td><span class="uicontrol">Save</span></td></tr></table>`
	node := parseTable(t, src)

	res := Convert(node, "https://example.service-now.com")
	tbl := res.Table.(*notionapi.TableBlock)
	row := tbl.Table.Children[0].(*notionapi.TableRowBlock)

	assert.Equal(t, "https://example.service-now.com/docs/x", row.TableRow.Cells[0][0].Href)

	require.NotNil(t, row.TableRow.Cells[1][0].Annotations)
	assert.True(t, row.TableRow.Cells[1][0].Annotations.Bold)
	assert.Equal(t, "blue", string(row.TableRow.Cells[1][0].Annotations.Color))
}

func TestConvert_FigureCaptionBecomesPlaceholderText(t *testing.T) {
	src := `<table><tr><td><figure><img src="a.png"><figcaption>diagram</figcaption></figure></td></tr></table>`
	node := parseTable(t, src)

	res := Convert(node, "")
	require.Len(t, res.Images, 1)

	tbl := res.Table.(*notionapi.TableBlock)
	row := tbl.Table.Children[0].(*notionapi.TableRowBlock)
	assert.Contains(t, row.TableRow.Cells[0][0].PlainText, "diagram")
}
