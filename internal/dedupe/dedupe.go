// Package dedupe removes adjacent duplicate blocks and filters decorative
// callouts from a block stream before upload.
package dedupe

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/amberpixels/sn2n/internal/blocks"
)

// Stats reports how many blocks were dropped, for observability.
type Stats struct {
	Deduped  int
	Filtered int
}

// Run dedupes adjacent blocks by a type-specific equality key and drops
// decorative gray-background info callouts, logging removed counts.
func Run(logger *slog.Logger, in []notionapi.Block) ([]notionapi.Block, Stats) {
	var stats Stats
	out := make([]notionapi.Block, 0, len(in))

	var lastKey string
	var haveLast bool

	for _, b := range in {
		if isFilteredCallout(b) {
			stats.Filtered++
			continue
		}

		key, keyed := equalityKey(b)
		if keyed && haveLast && key == lastKey {
			stats.Deduped++
			continue
		}
		out = append(out, b)
		if keyed {
			lastKey = key
			haveLast = true
		} else {
			haveLast = false
		}
	}

	if logger != nil && (stats.Deduped > 0 || stats.Filtered > 0) {
		logger.Info("dedupe complete", "deduped", stats.Deduped, "filtered", stats.Filtered)
	}
	return out, stats
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// equalityKey computes the type-specific dedupe key from §4.6. The second
// return value is false for block types dedupe does not consider (tables
// beyond the shape below, media, etc. fall through untouched).
func equalityKey(b notionapi.Block) (string, bool) {
	switch v := b.(type) {
	case *notionapi.CalloutBlock:
		emoji := ""
		if v.Callout.Icon != nil && v.Callout.Icon.Emoji != nil {
			emoji = string(*v.Callout.Icon.Emoji)
		}
		return fmt.Sprintf("callout|%s|%s|%s", blocks.ConcatText(v.Callout.RichText), emoji, v.Callout.Color), true

	case *notionapi.TableBlock:
		var rows []string
		for i, child := range v.Table.Children {
			if i >= 3 {
				break
			}
			row, ok := child.(*notionapi.TableRowBlock)
			if !ok {
				continue
			}
			rows = append(rows, normalizedRow(row))
		}
		return fmt.Sprintf("table|%d|%d|%s", v.Table.TableWidth, len(v.Table.Children), strings.Join(rows, ";")), true

	case *notionapi.BulletedListItemBlock:
		return fmt.Sprintf("bulleted_list_item|%s", truncate(blocks.ConcatText(v.BulletedListItem.RichText), 200)), true

	case *notionapi.NumberedListItemBlock:
		return fmt.Sprintf("numbered_list_item|%s", truncate(blocks.ConcatText(v.NumberedListItem.RichText), 200)), true

	case *notionapi.ParagraphBlock:
		return fmt.Sprintf("paragraph|%s", truncate(blocks.ConcatText(v.Paragraph.RichText), 200)), true

	case *notionapi.CodeBlock:
		return fmt.Sprintf("code|%s|%s", v.Code.Language, truncate(blocks.ConcatText(v.Code.RichText), 200)), true

	default:
		return "", false
	}
}

func normalizedRow(row *notionapi.TableRowBlock) string {
	var cells []string
	for _, c := range row.TableRow.Cells {
		cells = append(cells, strings.TrimSpace(blocks.ConcatText(c)))
	}
	return strings.Join(cells, ",")
}

// isFilteredCallout matches §4.4/§4.6's gray info-callout chrome filter.
func isFilteredCallout(b notionapi.Block) bool {
	c, ok := b.(*notionapi.CalloutBlock)
	if !ok {
		return false
	}
	if c.Callout.Color != notionapi.ColorGrayBackground {
		return false
	}
	return c.Callout.Icon != nil && c.Callout.Icon.Emoji != nil && string(*c.Callout.Icon.Emoji) == "ℹ"
}
