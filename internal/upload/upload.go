// Package upload drives the create-then-append phases of the upload
// pipeline: create the page with the first batch of blocks inline, then
// append the rest in ordered chunks, reporting any chunk that fails
// permanently without failing the whole request.
package upload

import (
	"context"
	"log/slog"

	"github.com/amberpixels/sn2n/internal/notion"
)

// Warning describes a non-fatal failure during append. The page still
// exists and its URL is still returned to the caller.
type Warning struct {
	Code       string `json:"code"`
	ChunkIndex int    `json:"chunkIndex"`
	Message    string `json:"message"`
}

// Result carries everything the conversion pipeline needs after upload.
type Result struct {
	PageID   string
	URL      string
	Warnings []Warning
}

// Run creates the page and appends every remaining block, in order. A
// permanent append failure is recorded as a warning with its chunk index
// and processing stops there — later chunks are not attempted, since a gap
// in the middle of a page reads better as "upload stopped at block N" than
// as silently reordered content.
func Run(ctx context.Context, client *notion.Client, logger *slog.Logger, page notion.NewPage) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("upload: create phase starting", "database_id", page.DatabaseID, "total_blocks", len(page.Children))

	created, restCount, err := client.CreatePage(ctx, page)
	if err != nil {
		return nil, err
	}

	result := &Result{PageID: created.PageID, URL: created.URL}
	logger.Info("upload: create phase complete", "page_id", created.PageID)

	if restCount == 0 {
		return result, nil
	}

	remaining := page.Children[len(page.Children)-restCount:]
	logger.Info("upload: append phase starting", "remaining_blocks", len(remaining))

	if failedChunk, appendErr := client.AppendRemaining(ctx, created.PageID, remaining); appendErr != nil {
		result.Warnings = append(result.Warnings, Warning{
			Code:       "APPEND_FAILED",
			ChunkIndex: failedChunk,
			Message:    appendErr.Error(),
		})
		logger.Warn("upload: append phase stopped early", "chunk_index", failedChunk, "err", appendErr)
		return result, nil
	}

	logger.Info("upload: append phase complete", "page_id", created.PageID)
	return result, nil
}
