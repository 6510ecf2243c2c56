package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// PageResult carries the identifiers the upload pipeline and HTTP layer need
// after a create or update.
type PageResult struct {
	PageID string
	URL    string
}

// NewPage is the create-phase request: a title already mapped into
// properties, an optional icon/cover, and the full block stream (only the
// first BatchSize of which are sent inline; the rest go through Append).
type NewPage struct {
	DatabaseID string
	Properties notionapi.Properties
	Icon       *notionapi.Icon
	Cover      *notionapi.Cover
	Children   []notionapi.Block
}

// CreatePage implements the upload pipeline's create phase:
// create_page(parent=database, properties, icon, cover, children=first 100).
// The remaining blocks are not appended here; callers drive AppendRemaining
// afterward so append failures can be attributed to a chunk index.
func (c *Client) CreatePage(ctx context.Context, page NewPage) (*PageResult, int, error) {
	first := page.Children
	rest := 0
	if len(first) > c.batchSize {
		rest = len(first) - c.batchSize
		first = first[:c.batchSize]
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(page.DatabaseID),
		},
		Properties: page.Properties,
		Children:   first,
		Icon:       page.Icon,
		Cover:      page.Cover,
	}

	var created *notionapi.Page
	err := c.call(ctx, "create_page", func() error {
		var callErr error
		created, callErr = c.api.Page.Create(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create page: %w", err)
	}

	return &PageResult{PageID: string(created.ID), URL: created.URL}, rest, nil
}

// AppendRemaining partitions blocks into successive chunks of at most
// BatchSize and appends each in order, returning the index of the first
// chunk that failed permanently (after retries) alongside its error.
func (c *Client) AppendRemaining(ctx context.Context, pageID string, blocks []notionapi.Block) (failedChunk int, err error) {
	for i := 0; i < len(blocks); i += c.batchSize {
		end := min(i+c.batchSize, len(blocks))
		chunk := blocks[i:end]

		appendErr := c.call(ctx, "append_children", func() error {
			_, callErr := c.api.Block.AppendChildren(ctx, notionapi.BlockID(pageID), &notionapi.AppendBlockChildrenRequest{
				Children: chunk,
			})
			return callErr
		})
		if appendErr != nil {
			return i / c.batchSize, fmt.Errorf("append chunk %d-%d: %w", i, end, appendErr)
		}
	}
	return -1, nil
}

// GetPage retrieves a page's properties and parent information.
func (c *Client) GetPage(ctx context.Context, pageID string) (*notionapi.Page, error) {
	var page *notionapi.Page
	err := c.call(ctx, "get_page", func() error {
		var callErr error
		page, callErr = c.api.Page.Get(ctx, notionapi.PageID(pageID))
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return page, nil
}

// UpdatePageProperties updates only a page's properties, leaving its block
// children untouched. A nil Properties would serialize to JSON null and be
// rejected by Notion, so callers pass an empty map rather than nil.
func (c *Client) UpdatePageProperties(ctx context.Context, pageID string, props notionapi.Properties) error {
	if props == nil {
		props = notionapi.Properties{}
	}
	return c.call(ctx, "update_page", func() error {
		_, callErr := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
			Properties: props,
		})
		return callErr
	})
}

// DeleteAllChildren deletes every direct child block of a page — the first
// step of the PATCH endpoint's replace-then-append semantics.
func (c *Client) DeleteAllChildren(ctx context.Context, pageID string) error {
	children, err := c.GetAllBlocks(ctx, pageID)
	if err != nil {
		return fmt.Errorf("list existing children: %w", err)
	}

	for _, block := range children {
		id := extractBlockID(block)
		if id == "" {
			continue
		}
		if err := c.DeleteBlock(ctx, id); err != nil {
			return fmt.Errorf("delete block %s: %w", id, err)
		}
	}
	return nil
}

// GetDatabase retrieves a database's schema, used by the
// GET /api/databases/:id endpoint.
func (c *Client) GetDatabase(ctx context.Context, databaseID string) (*notionapi.Database, error) {
	var db *notionapi.Database
	err := c.call(ctx, "get_database", func() error {
		var callErr error
		db, callErr = c.api.Database.Get(ctx, notionapi.DatabaseID(databaseID))
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("get database: %w", err)
	}
	return db, nil
}
