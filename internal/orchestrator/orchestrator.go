// Package orchestrator resolves the deferred-nesting sidecar: for each
// marker minted during the walk, it finds the block on the created page
// whose rich text still carries the token, appends the deferred blocks as
// that block's children, and strips the token from the host.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/amberpixels/sn2n/internal/marker"
	"github.com/amberpixels/sn2n/internal/notion"
)

// Failure records a marker whose host could not be found or whose append
// failed permanently. These are non-fatal: the page remains valid, only the
// deferred content is missing.
type Failure struct {
	MarkerID marker.ID `json:"markerId"`
	Reason   string    `json:"reason"`
}

// Result reports how many markers were resolved and which were not.
type Result struct {
	Resolved int
	Failures []Failure
}

// Run resolves every marker in sidecar against the descendants of pageID.
// Markers are visited in map iteration order, which is unspecified; every
// marker is attempted at least once regardless of whether earlier markers
// failed.
func Run(ctx context.Context, client *notion.Client, logger *slog.Logger, pageID string, sidecar marker.Sidecar) Result {
	if logger == nil {
		logger = slog.Default()
	}

	descendants, err := client.GetAllBlocks(ctx, pageID)
	if err != nil {
		logger.Warn("orchestrator: could not list page descendants", "page_id", pageID, "err", err)
		result := Result{}
		for id := range sidecar {
			result.Failures = append(result.Failures, Failure{MarkerID: id, Reason: "list descendants: " + err.Error()})
		}
		return result
	}

	var result Result
	for id, deferred := range sidecar {
		host, hostID := findHost(descendants, id)
		if host == nil {
			logger.Warn("orchestrator: no host found for marker", "marker_id", id)
			result.Failures = append(result.Failures, Failure{MarkerID: id, Reason: "host not found"})
			continue
		}

		if err := client.AppendChildren(ctx, hostID, deferred); err != nil {
			logger.Warn("orchestrator: append to host failed", "marker_id", id, "host_id", hostID, "err", err)
			result.Failures = append(result.Failures, Failure{MarkerID: id, Reason: fmt.Sprintf("append to host: %v", err)})
			continue
		}

		if err := stripHostToken(ctx, client, host, hostID, id); err != nil {
			logger.Warn("orchestrator: strip token failed, token left visible for sweep", "marker_id", id, "host_id", hostID, "err", err)
			result.Failures = append(result.Failures, Failure{MarkerID: id, Reason: fmt.Sprintf("strip token: %v", err)})
			continue
		}

		result.Resolved++
	}

	return result
}

// findHost searches descendants (and their already-fetched nested children)
// for the first block whose rich text contains id's token.
func findHost(descendants []notionapi.Block, id marker.ID) (notionapi.Block, string) {
	token := marker.Token(id)
	var found notionapi.Block
	var foundID string

	var walk func([]notionapi.Block) bool
	walk = func(blocks []notionapi.Block) bool {
		for _, b := range blocks {
			runs := notion.BlockRichText(b)
			if containsLiteralToken(runs, token) {
				found = b
				foundID = notion.BlockID(b)
				return true
			}
			if walk(notion.BlockChildren(b)) {
				return true
			}
		}
		return false
	}
	walk(descendants)

	return found, foundID
}

// containsLiteralToken joins runs' content before matching, since a token
// can span a run boundary (the same reason marker.StripToken works on the
// joined text rather than per-run).
func containsLiteralToken(runs []notionapi.RichText, token string) bool {
	var joined strings.Builder
	for _, r := range runs {
		if r.Text != nil {
			joined.WriteString(r.Text.Content)
		} else {
			joined.WriteString(r.PlainText)
		}
	}
	return strings.Contains(joined.String(), token)
}

// stripHostToken strips id's token from host's rich text and pushes the
// update back to Notion.
func stripHostToken(ctx context.Context, client *notion.Client, host notionapi.Block, hostID string, id marker.ID) error {
	runs := notion.BlockRichText(host)
	stripped := marker.StripToken(id, runs)

	updated := withRichText(host, stripped)
	if updated == nil {
		return fmt.Errorf("host block type %T has no rich text to strip", host)
	}

	_, err := client.UpdateBlock(ctx, hostID, updated)
	return err
}

// withRichText returns a copy of block with its rich text replaced by runs,
// or nil if block's type carries no rich text.
func withRichText(block notionapi.Block, runs []notionapi.RichText) notionapi.Block {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		cp := *b
		cp.Paragraph.RichText = runs
		return &cp
	case *notionapi.Heading1Block:
		cp := *b
		cp.Heading1.RichText = runs
		return &cp
	case *notionapi.Heading2Block:
		cp := *b
		cp.Heading2.RichText = runs
		return &cp
	case *notionapi.Heading3Block:
		cp := *b
		cp.Heading3.RichText = runs
		return &cp
	case *notionapi.BulletedListItemBlock:
		cp := *b
		cp.BulletedListItem.RichText = runs
		return &cp
	case *notionapi.NumberedListItemBlock:
		cp := *b
		cp.NumberedListItem.RichText = runs
		return &cp
	case *notionapi.ToDoBlock:
		cp := *b
		cp.ToDo.RichText = runs
		return &cp
	case *notionapi.ToggleBlock:
		cp := *b
		cp.Toggle.RichText = runs
		return &cp
	case *notionapi.QuoteBlock:
		cp := *b
		cp.Quote.RichText = runs
		return &cp
	case *notionapi.CalloutBlock:
		cp := *b
		cp.Callout.RichText = runs
		return &cp
	case *notionapi.CodeBlock:
		cp := *b
		cp.Code.RichText = runs
		return &cp
	default:
		return nil
	}
}
