// Package blocks holds shared Notion block-construction helpers used by the
// document walker and table converter, keeping run-length limits and block
// shape consistent wherever a block is built.
package blocks

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/amberpixels/sn2n/internal/richtext"
)

// chunkedBlocks splits runs into Notion-limit-compliant rich-text groups via
// richtext.ChunkBlocks and builds one block per group with build, so a run
// or run-count overflow becomes a continuation block of the same type
// rather than a truncated or oversized single block.
func chunkedBlocks(runs []notionapi.RichText, build func([]notionapi.RichText) notionapi.Block) []notionapi.Block {
	groups := richtext.ChunkBlocks(runs)
	out := make([]notionapi.Block, 0, len(groups))
	for _, g := range groups {
		out = append(out, build(g))
	}
	return out
}

// Paragraph builds a paragraph block from already-parsed rich text, plus any
// continuation paragraph blocks the content's length requires.
func Paragraph(runs []notionapi.RichText) []notionapi.Block {
	return chunkedBlocks(runs, func(rt []notionapi.RichText) notionapi.Block {
		return &notionapi.ParagraphBlock{
			BasicBlock: basic(notionapi.BlockTypeParagraph),
			Paragraph:  notionapi.Paragraph{RichText: rt},
		}
	})
}

// Heading builds a heading block at the given level plus any continuation
// heading blocks at the same level; levels 4-6 degrade to heading_3 since
// Notion has no lower heading levels.
func Heading(level int, runs []notionapi.RichText) []notionapi.Block {
	return chunkedBlocks(runs, func(rt []notionapi.RichText) notionapi.Block {
		switch {
		case level <= 1:
			return &notionapi.Heading1Block{
				BasicBlock: basic(notionapi.BlockTypeHeading1),
				Heading1:   notionapi.Heading{RichText: rt},
			}
		case level == 2:
			return &notionapi.Heading2Block{
				BasicBlock: basic(notionapi.BlockTypeHeading2),
				Heading2:   notionapi.Heading{RichText: rt},
			}
		default:
			return &notionapi.Heading3Block{
				BasicBlock: basic(notionapi.BlockTypeHeading3),
				Heading3:   notionapi.Heading{RichText: rt},
			}
		}
	})
}

// BulletedListItem builds a bulleted_list_item with optional children, plus
// any continuation list items the rich text's length requires (children are
// attached to the first item only, so they aren't duplicated across
// continuations). Children must already satisfy the list-item permitted-
// child set.
func BulletedListItem(runs []notionapi.RichText, children []notionapi.Block) []notionapi.Block {
	groups := richtext.ChunkBlocks(runs)
	out := make([]notionapi.Block, 0, len(groups))
	for i, g := range groups {
		item := &notionapi.BulletedListItemBlock{
			BasicBlock:       basic(notionapi.BlockTypeBulletedListItem),
			BulletedListItem: notionapi.ListItem{RichText: g},
		}
		if i == 0 {
			item.BulletedListItem.Children = children
		}
		out = append(out, item)
	}
	return out
}

// NumberedListItem builds a numbered_list_item with optional children, plus
// any continuation list items, following the same children-on-first-item
// rule as BulletedListItem.
func NumberedListItem(runs []notionapi.RichText, children []notionapi.Block) []notionapi.Block {
	groups := richtext.ChunkBlocks(runs)
	out := make([]notionapi.Block, 0, len(groups))
	for i, g := range groups {
		item := &notionapi.NumberedListItemBlock{
			BasicBlock:       basic(notionapi.BlockTypeNumberedListItem),
			NumberedListItem: notionapi.ListItem{RichText: g},
		}
		if i == 0 {
			item.NumberedListItem.Children = children
		}
		out = append(out, item)
	}
	return out
}

// Callout builds a callout block with an emoji icon and a Notion color
// name, plus any continuation callout blocks the rich text's length
// requires (children are attached to the first callout only).
func Callout(runs []notionapi.RichText, emoji string, color notionapi.Color, children []notionapi.Block) []notionapi.Block {
	e := notionapi.Emoji(emoji)
	groups := richtext.ChunkBlocks(runs)
	out := make([]notionapi.Block, 0, len(groups))
	for i, g := range groups {
		cb := &notionapi.CalloutBlock{
			BasicBlock: basic(notionapi.BlockTypeCallout),
			Callout: notionapi.Callout{
				RichText: g,
				Icon:     &notionapi.Icon{Type: "emoji", Emoji: &e},
				Color:    color,
			},
		}
		if i == 0 {
			cb.Callout.Children = children
		}
		out = append(out, cb)
	}
	return out
}

// Code builds a code block plus any continuation code blocks the content's
// length requires; language should already be normalized by the caller
// (lowercased, mapped from a language-* class or data-language attr).
func Code(content, language string) []notionapi.Block {
	return chunkedBlocks([]notionapi.RichText{plain(content)}, func(rt []notionapi.RichText) notionapi.Block {
		return &notionapi.CodeBlock{
			BasicBlock: basic(notionapi.BlockTypeCode),
			Code:       notionapi.Code{RichText: rt, Language: language},
		}
	})
}

// Image builds an image block from an absolute external URL and optional caption.
func Image(url, caption string) notionapi.Block {
	img := &notionapi.ImageBlock{
		BasicBlock: basic(notionapi.BlockTypeImage),
		Image: notionapi.Image{
			Type:     "external",
			External: &notionapi.FileObject{URL: url},
		},
	}
	if caption != "" {
		img.Image.Caption = []notionapi.RichText{plain(caption)}
	}
	return img
}

// Video builds a video block from an absolute external URL.
func Video(url string) notionapi.Block {
	return &notionapi.VideoBlock{
		BasicBlock: basic(notionapi.BlockTypeVideo),
		Video: notionapi.Video{
			Type:     "external",
			External: &notionapi.FileObject{URL: url},
		},
	}
}

// Embed builds a generic embed block from an absolute URL.
func Embed(url string) notionapi.Block {
	return &notionapi.EmbedBlock{
		BasicBlock: basic(notionapi.BlockTypeEmbed),
		Embed:      notionapi.Embed{URL: url},
	}
}

// Table builds a table block; rows must already be built via TableRow and
// table_width must equal every row's cell count (the caller enforces this).
func Table(width int, hasColumnHeader bool, rows []notionapi.Block) notionapi.Block {
	return &notionapi.TableBlock{
		BasicBlock: basic(notionapi.BlockTypeTable),
		Table: notionapi.Table{
			TableWidth:      width,
			HasColumnHeader: hasColumnHeader,
			Children:        rows,
		},
	}
}

// TableRow builds a single table_row block from per-cell rich-text arrays.
func TableRow(cells [][]notionapi.RichText) notionapi.Block {
	chunked := make([][]notionapi.RichText, len(cells))
	for i, c := range cells {
		chunked[i] = richtext.Chunk(c)
	}
	return &notionapi.TableRowBlock{
		BasicBlock: basic(notionapi.BlockTypeTableRow),
		TableRow:   notionapi.TableRow{Cells: chunked},
	}
}

func basic(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: t}
}

func plain(s string) notionapi.RichText {
	return notionapi.RichText{
		Type:      notionapi.ObjectTypeText,
		Text:      &notionapi.Text{Content: s},
		PlainText: s,
	}
}

// ConcatText concatenates the plain text of a rich-text array, used by
// dedupe keys and the validation comparator's page-side canonicalizer.
func ConcatText(runs []notionapi.RichText) string {
	var b strings.Builder
	for _, r := range runs {
		if r.Text != nil {
			b.WriteString(r.Text.Content)
		} else {
			b.WriteString(r.PlainText)
		}
	}
	return b.String()
}
