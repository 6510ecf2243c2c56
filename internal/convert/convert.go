// Package convert wires the per-request pipeline: document walker → dedupe
// → marker collection → upload → orchestrator → sweep → validation
// comparator → response.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"

	"github.com/amberpixels/sn2n/internal/apperror"
	"github.com/amberpixels/sn2n/internal/dedupe"
	"github.com/amberpixels/sn2n/internal/marker"
	"github.com/amberpixels/sn2n/internal/notion"
	"github.com/amberpixels/sn2n/internal/orchestrator"
	"github.com/amberpixels/sn2n/internal/upload"
	"github.com/amberpixels/sn2n/internal/validate"
	"github.com/amberpixels/sn2n/internal/walker"
)

// Request is one conversion request's input, already shaped out of the
// HTTP layer's JSON decoding.
type Request struct {
	DatabaseID     string
	ContentHTML    string
	Properties     notionapi.Properties
	Icon           *notionapi.Icon
	Cover          *notionapi.Cover
	SourceOrigin   string // resolves relative ServiceNow URLs
	StrictDOMOrder bool
	DryRun         bool
	ValidationOn   bool
}

// Progress records how far the pipeline reached, surfaced in the response
// so a cancelled or partially-failed request tells the caller exactly what
// happened.
type Progress struct {
	PageCreated     bool
	ChunksAppended  bool
	OrchestratorRun bool
	SweepRun        bool
	ValidatorRun    bool
}

// Result is what the HTTP layer renders back to the caller.
type Result struct {
	PageID          string
	URL             string
	Blocks          []notionapi.Block // populated only for DryRun
	HasVideos       bool
	Warnings        []upload.Warning
	OrchestratorLog []orchestrator.Failure
	Validation      *validate.Record
	Progress        Progress
}

// Deps bundles the collaborators a conversion needs, constructed once at
// server startup and shared (read-only) across concurrent requests.
type Deps struct {
	Client           *notion.Client
	Logger           *slog.Logger
	ValidationMethod validate.Method
	ValidationPolicy validate.Policy
}

// Run executes one full conversion. It never rolls back a partially-created
// page on error; Progress reports how far it got.
func Run(ctx context.Context, deps Deps, req Request) (*Result, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	blocks, sidecar, result, err := buildBlocks(logger, req)
	if err != nil {
		return nil, err
	}
	if req.DryRun {
		return result, nil
	}

	createdPage, err := upload.Run(ctx, deps.Client, logger, notion.NewPage{
		DatabaseID: req.DatabaseID,
		Properties: req.Properties,
		Icon:       req.Icon,
		Cover:      req.Cover,
		Children:   blocks,
	})
	if err != nil {
		return result, apperror.Wrap(apperror.CodeNotionUnreachable, "failed to create page", err)
	}

	result.PageID = createdPage.PageID
	result.URL = createdPage.URL
	result.Warnings = createdPage.Warnings
	result.Progress.PageCreated = true
	result.Progress.ChunksAppended = len(createdPage.Warnings) == 0

	finishPipeline(ctx, deps, logger, req, sidecar, result)
	return result, nil
}

// RunUpdate replaces pageID's existing children with a freshly-walked
// conversion of req.ContentHTML, then runs the same orchestrate-sweep-
// validate tail as Run. Unlike Run, there is no create phase: the append
// happens directly against the existing page in ordered chunks.
func RunUpdate(ctx context.Context, deps Deps, req Request, pageID string) (*Result, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("[PATCH-PROGRESS] STEP 1: deleting existing children", "pageId", pageID)
	if err := deps.Client.DeleteAllChildren(ctx, pageID); err != nil {
		return nil, apperror.Wrap(apperror.CodeNotFound, "failed to clear existing page content", err)
	}

	if len(req.Properties) > 0 {
		if err := deps.Client.UpdatePageProperties(ctx, pageID, req.Properties); err != nil {
			logger.Warn("convert: failed to update page properties", "err", err)
		}
	}

	blocks, sidecar, result, err := buildBlocks(logger, req)
	if err != nil {
		return nil, err
	}

	logger.Info("[PATCH-PROGRESS] STEP 2: appending new content", "pageId", pageID, "blocks", len(blocks))
	if failedChunk, err := deps.Client.AppendRemaining(ctx, pageID, blocks); err != nil {
		result.Warnings = append(result.Warnings, upload.Warning{
			Code: "APPEND_FAILED", ChunkIndex: failedChunk, Message: err.Error(),
		})
	}

	page, err := deps.Client.GetPage(ctx, pageID)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeNotFound, "page not found after update", err)
	}
	result.PageID = pageID
	result.URL = page.URL
	result.Progress.PageCreated = true
	result.Progress.ChunksAppended = len(result.Warnings) == 0

	logger.Info("[PATCH-PROGRESS] STEP 3: orchestrating deferred content", "pageId", pageID)
	logger.Info("[PATCH-PROGRESS] STEP 4: sweeping residual markers", "pageId", pageID)
	finishPipeline(ctx, deps, logger, req, sidecar, result)

	logger.Info("[PATCH-PROGRESS] STEP 5: update complete", "pageId", pageID)
	return result, nil
}

// finishPipeline runs the orchestrator, sweep, and optional validation
// stages shared by Run and RunUpdate once a page exists with result.PageID
// populated.
func finishPipeline(ctx context.Context, deps Deps, logger *slog.Logger, req Request, sidecar marker.Sidecar, result *Result) {
	if len(sidecar) > 0 {
		orchResult := orchestrator.Run(ctx, deps.Client, logger, result.PageID, sidecar)
		result.OrchestratorLog = orchResult.Failures
		result.Progress.OrchestratorRun = true
		logger.Info("convert: orchestrator complete", "resolved", orchResult.Resolved, "failed", len(orchResult.Failures))
	}

	if err := orchestrator.Sweep(ctx, deps.Client, logger, result.PageID); err != nil {
		logger.Warn("convert: sweep failed", "err", err)
	} else {
		result.Progress.SweepRun = true
	}

	if req.ValidationOn {
		if err := runValidation(ctx, deps, logger, req, result.PageID, result); err != nil {
			logger.Warn("convert: validation failed, page still valid", "err", err)
		} else {
			result.Progress.ValidatorRun = true
		}
	}
}

// buildBlocks runs the walk and dedupe stages shared by Run and RunUpdate.
func buildBlocks(logger *slog.Logger, req Request) ([]notionapi.Block, marker.Sidecar, *Result, error) {
	doc, err := html.Parse(strings.NewReader(req.ContentHTML))
	if err != nil {
		return nil, nil, nil, apperror.Wrap(apperror.CodeInvalidInput, "invalid content HTML", err)
	}

	wctx := walker.NewContext(req.SourceOrigin, req.StrictDOMOrder)
	logger.Info("convert: walk starting")
	blocks := walker.Walk(doc, wctx)

	blocks, dedupeStats := dedupe.Run(logger, blocks)
	logger.Info("convert: dedupe complete", "deduped", dedupeStats.Deduped, "filtered", dedupeStats.Filtered)

	result := &Result{HasVideos: containsVideo(blocks)}
	if req.DryRun {
		result.Blocks = blocks
	}
	return blocks, wctx.Sidecar, result, nil
}

func runValidation(ctx context.Context, deps Deps, logger *slog.Logger, req Request, pageID string, result *Result) error {
	pageBlocks, err := deps.Client.GetAllBlocks(ctx, pageID)
	if err != nil {
		return fmt.Errorf("fetch page for validation: %w", err)
	}

	record, err := validate.Compare(req.ContentHTML, pageBlocks, deps.ValidationMethod, deps.ValidationPolicy, pageID, time.Now())
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	if err := validate.WriteProperties(ctx, deps.Client, pageID, record); err != nil {
		logger.Warn("convert: failed to write validation properties", "err", err)
	}

	result.Validation = record
	return nil
}

func containsVideo(blocks []notionapi.Block) bool {
	for _, b := range blocks {
		if _, ok := b.(*notionapi.VideoBlock); ok {
			return true
		}
	}
	return false
}
