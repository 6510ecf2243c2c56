package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/jomei/notionapi"

	"github.com/amberpixels/sn2n/internal/marker"
	"github.com/amberpixels/sn2n/internal/notion"
)

// sweepDelay is the wait before the cleanup sweep, giving the orchestrator's
// appends time to become visible to a subsequent read.
const sweepDelay = time.Second

// Sweep walks every descendant block of pageID and strips any marker token
// still present in its rich text, after sweepDelay. It is the final
// cleanup phase: whatever the orchestrator could not resolve, the sweep
// still removes the visible token (the deferred content is accepted as
// lost in that case).
func Sweep(ctx context.Context, client *notion.Client, logger *slog.Logger, pageID string) error {
	if logger == nil {
		logger = slog.Default()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(sweepDelay):
	}

	descendants, err := client.GetAllBlocks(ctx, pageID)
	if err != nil {
		return err
	}

	return sweepBlocks(ctx, client, logger, descendants)
}

func sweepBlocks(ctx context.Context, client *notion.Client, logger *slog.Logger, blocks []notionapi.Block) error {
	for _, b := range blocks {
		runs := notion.BlockRichText(b)
		if marker.ContainsToken(runs) {
			stripped := marker.StripAnyToken(runs)
			if updated := withRichText(b, stripped); updated != nil {
				id := notion.BlockID(b)
				if _, err := client.UpdateBlock(ctx, id, updated); err != nil {
					logger.Warn("sweep: failed to strip token from block", "block_id", id, "err", err)
				}
			}
		}

		if children := notion.BlockChildren(b); len(children) > 0 {
			if err := sweepBlocks(ctx, client, logger, children); err != nil {
				return err
			}
		}
	}
	return nil
}
