package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// GetAllBlocks retrieves every descendant block of a page or block, handling
// pagination and recursing into children. Used by the cleanup sweep, the
// orchestrator's host search, and the validation comparator's page-text
// canonicalization.
func (c *Client) GetAllBlocks(ctx context.Context, blockID string) ([]notionapi.Block, error) {
	var all []notionapi.Block
	var cursor notionapi.Cursor

	for {
		var resp *notionapi.GetChildrenResponse
		err := c.call(ctx, "get_children", func() error {
			var callErr error
			resp, callErr = c.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
				StartCursor: cursor,
				PageSize:    100,
			})
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("get children: %w", err)
		}

		all = append(all, resp.Results...)
		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	for i, block := range all {
		if !hasChildren(block) {
			continue
		}
		id := extractBlockID(block)
		if id == "" {
			continue
		}
		children, err := c.GetAllBlocks(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get nested blocks of %s: %w", id, err)
		}
		all[i] = setBlockChildren(block, children)
	}

	return all, nil
}

// AppendChildren appends blocks to an arbitrary parent (page or block) in a
// single request, without chunking. Used by the orchestrator to attach
// deferred content to its host block; the caller is responsible for
// keeping the chunk under BatchSize.
func (c *Client) AppendChildren(ctx context.Context, parentID string, blocks []notionapi.Block) error {
	return c.call(ctx, "append_children", func() error {
		_, callErr := c.api.Block.AppendChildren(ctx, notionapi.BlockID(parentID), &notionapi.AppendBlockChildrenRequest{
			Children: blocks,
		})
		return callErr
	})
}

// DeleteBlock deletes a single block.
func (c *Client) DeleteBlock(ctx context.Context, blockID string) error {
	return c.call(ctx, "delete_block", func() error {
		_, callErr := c.api.Block.Delete(ctx, notionapi.BlockID(blockID))
		return callErr
	})
}

// UpdateBlock updates a block's rich-text-bearing content. Only the fields
// relevant to marker-token stripping are round-tripped; each block type
// exposes different updatable fields so the request is built per-type.
func (c *Client) UpdateBlock(ctx context.Context, blockID string, block notionapi.Block) (notionapi.Block, error) {
	req, err := buildBlockUpdateRequest(block)
	if err != nil {
		return nil, fmt.Errorf("build update request: %w", err)
	}

	var updated notionapi.Block
	callErr := c.call(ctx, "update_block", func() error {
		var innerErr error
		updated, innerErr = c.api.Block.Update(ctx, notionapi.BlockID(blockID), req)
		return innerErr
	})
	if callErr != nil {
		return nil, fmt.Errorf("update block: %w", callErr)
	}
	return updated, nil
}

// buildBlockUpdateRequest builds a BlockUpdateRequest carrying only the
// rich-text (or table-row cells) of block, the minimal set of fields the
// marker sweep and orchestrator need to rewrite after stripping a token.
func buildBlockUpdateRequest(block notionapi.Block) (*notionapi.BlockUpdateRequest, error) {
	req := &notionapi.BlockUpdateRequest{}

	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		req.Paragraph = &notionapi.Paragraph{RichText: b.Paragraph.RichText, Color: b.Paragraph.Color}
	case *notionapi.Heading1Block:
		req.Heading1 = &notionapi.Heading{RichText: b.Heading1.RichText, Color: b.Heading1.Color, IsToggleable: b.Heading1.IsToggleable}
	case *notionapi.Heading2Block:
		req.Heading2 = &notionapi.Heading{RichText: b.Heading2.RichText, Color: b.Heading2.Color, IsToggleable: b.Heading2.IsToggleable}
	case *notionapi.Heading3Block:
		req.Heading3 = &notionapi.Heading{RichText: b.Heading3.RichText, Color: b.Heading3.Color, IsToggleable: b.Heading3.IsToggleable}
	case *notionapi.BulletedListItemBlock:
		req.BulletedListItem = &notionapi.ListItem{RichText: b.BulletedListItem.RichText, Color: b.BulletedListItem.Color}
	case *notionapi.NumberedListItemBlock:
		req.NumberedListItem = &notionapi.ListItem{RichText: b.NumberedListItem.RichText, Color: b.NumberedListItem.Color}
	case *notionapi.ToDoBlock:
		req.ToDo = &notionapi.ToDo{RichText: b.ToDo.RichText, Checked: b.ToDo.Checked, Color: b.ToDo.Color}
	case *notionapi.ToggleBlock:
		req.Toggle = &notionapi.Toggle{RichText: b.Toggle.RichText, Color: b.Toggle.Color}
	case *notionapi.QuoteBlock:
		req.Quote = &notionapi.Quote{RichText: b.Quote.RichText, Color: b.Quote.Color}
	case *notionapi.CalloutBlock:
		req.Callout = &notionapi.Callout{RichText: b.Callout.RichText, Icon: b.Callout.Icon, Color: b.Callout.Color}
	case *notionapi.CodeBlock:
		req.Code = &notionapi.Code{RichText: b.Code.RichText, Caption: b.Code.Caption, Language: b.Code.Language}
	case *notionapi.TableRowBlock:
		req.TableRow = &notionapi.TableRow{Cells: b.TableRow.Cells}
	default:
		return nil, fmt.Errorf("unsupported block type for token-strip update: %T", block)
	}

	return req, nil
}

// hasChildren reports whether a block's HasChildren flag is set, meaning a
// recursive GetAllBlocks call is needed to fetch its descendants.
func hasChildren(block notionapi.Block) bool {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return b.HasChildren
	case *notionapi.BulletedListItemBlock:
		return b.HasChildren
	case *notionapi.NumberedListItemBlock:
		return b.HasChildren
	case *notionapi.ToDoBlock:
		return b.HasChildren
	case *notionapi.ToggleBlock:
		return b.HasChildren
	case *notionapi.QuoteBlock:
		return b.HasChildren
	case *notionapi.CalloutBlock:
		return b.HasChildren
	case *notionapi.TableBlock:
		return b.HasChildren
	case *notionapi.ColumnListBlock:
		return b.HasChildren
	case *notionapi.ColumnBlock:
		return b.HasChildren
	default:
		return false
	}
}

// extractBlockID returns block's ID, or "" for a block type this wrapper
// does not expect to encounter as a page child.
func extractBlockID(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return string(b.ID)
	case *notionapi.Heading1Block:
		return string(b.ID)
	case *notionapi.Heading2Block:
		return string(b.ID)
	case *notionapi.Heading3Block:
		return string(b.ID)
	case *notionapi.BulletedListItemBlock:
		return string(b.ID)
	case *notionapi.NumberedListItemBlock:
		return string(b.ID)
	case *notionapi.ToDoBlock:
		return string(b.ID)
	case *notionapi.ToggleBlock:
		return string(b.ID)
	case *notionapi.QuoteBlock:
		return string(b.ID)
	case *notionapi.CalloutBlock:
		return string(b.ID)
	case *notionapi.CodeBlock:
		return string(b.ID)
	case *notionapi.DividerBlock:
		return string(b.ID)
	case *notionapi.ImageBlock:
		return string(b.ID)
	case *notionapi.VideoBlock:
		return string(b.ID)
	case *notionapi.EmbedBlock:
		return string(b.ID)
	case *notionapi.EquationBlock:
		return string(b.ID)
	case *notionapi.TableBlock:
		return string(b.ID)
	case *notionapi.TableRowBlock:
		return string(b.ID)
	default:
		return ""
	}
}

// setBlockChildren attaches children to a block that supports them.
func setBlockChildren(block notionapi.Block, children []notionapi.Block) notionapi.Block {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		b.Paragraph.Children = children
		return b
	case *notionapi.BulletedListItemBlock:
		b.BulletedListItem.Children = children
		return b
	case *notionapi.NumberedListItemBlock:
		b.NumberedListItem.Children = children
		return b
	case *notionapi.ToDoBlock:
		b.ToDo.Children = children
		return b
	case *notionapi.ToggleBlock:
		b.Toggle.Children = children
		return b
	case *notionapi.QuoteBlock:
		b.Quote.Children = children
		return b
	case *notionapi.CalloutBlock:
		b.Callout.Children = children
		return b
	case *notionapi.TableBlock:
		b.Table.Children = children
		return b
	case *notionapi.ColumnListBlock:
		b.ColumnList.Children = children
		return b
	case *notionapi.ColumnBlock:
		b.Column.Children = children
		return b
	default:
		return block
	}
}

// BlockRichText extracts the rich-text runs a block carries, or nil for a
// block type with none. Used by the orchestrator's host search and the
// validator's page-text canonicalization.
func BlockRichText(block notionapi.Block) []notionapi.RichText {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return b.Paragraph.RichText
	case *notionapi.Heading1Block:
		return b.Heading1.RichText
	case *notionapi.Heading2Block:
		return b.Heading2.RichText
	case *notionapi.Heading3Block:
		return b.Heading3.RichText
	case *notionapi.BulletedListItemBlock:
		return b.BulletedListItem.RichText
	case *notionapi.NumberedListItemBlock:
		return b.NumberedListItem.RichText
	case *notionapi.ToDoBlock:
		return b.ToDo.RichText
	case *notionapi.ToggleBlock:
		return b.Toggle.RichText
	case *notionapi.QuoteBlock:
		return b.Quote.RichText
	case *notionapi.CalloutBlock:
		return b.Callout.RichText
	case *notionapi.CodeBlock:
		return b.Code.RichText
	default:
		return nil
	}
}

// BlockChildren returns the in-memory children of a block populated by
// GetAllBlocks, or nil for a block type with none.
func BlockChildren(block notionapi.Block) []notionapi.Block {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return b.Paragraph.Children
	case *notionapi.BulletedListItemBlock:
		return b.BulletedListItem.Children
	case *notionapi.NumberedListItemBlock:
		return b.NumberedListItem.Children
	case *notionapi.ToDoBlock:
		return b.ToDo.Children
	case *notionapi.ToggleBlock:
		return b.Toggle.Children
	case *notionapi.QuoteBlock:
		return b.Quote.Children
	case *notionapi.CalloutBlock:
		return b.Callout.Children
	case *notionapi.TableBlock:
		return b.Table.Children
	default:
		return nil
	}
}

// BlockID exports extractBlockID for callers outside this package (the
// orchestrator and sweep need the ID of a block found by GetAllBlocks).
func BlockID(block notionapi.Block) string {
	return extractBlockID(block)
}
