package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/amberpixels/sn2n/internal/notion"
)

// Method selects the coverage algorithm.
type Method string

const (
	MethodLCS     Method = "lcs"
	MethodJaccard Method = "jaccard"
)

// Status is the policy-derived verdict written back to the page.
type Status string

const (
	StatusComplete  Status = "Complete"
	StatusAttention Status = "Attention"
)

// Policy holds the configurable thresholds. Callers thread these in from
// internal/config rather than this package hardcoding them, since the
// right values depend on deployment and content type.
type Policy struct {
	CoverageThreshold float64
	MissingThreshold  int
}

// Record is the validation result: produced once per request, transient,
// and rendered both into the HTTP response and onto the page as properties.
type Record struct {
	Coverage     float64   `json:"coverage"`
	MissingCount int       `json:"missingCount"`
	MissingSpans []Span    `json:"missingSpans,omitempty"`
	Method       Method    `json:"method"`
	LastChecked  time.Time `json:"lastChecked"`
	RunID        string    `json:"runId"`
	Status       Status    `json:"status"`
}

// Compare canonicalizes sourceHTML and the created page's blocks, runs the
// configured coverage algorithm, and applies policy to derive Status. It
// does not write anything back; call WriteProperties separately.
func Compare(sourceHTML string, pageBlocks []notionapi.Block, method Method, policy Policy, runID string, now time.Time) (*Record, error) {
	sourceText, err := CanonicalizeSource(sourceHTML)
	if err != nil {
		return nil, fmt.Errorf("canonicalize source: %w", err)
	}
	pageText := CanonicalizePage(pageBlocks)

	sourceTokens := tokenize(sourceText)
	pageTokens := tokenize(pageText)

	var coverage float64
	var spans []Span
	switch method {
	case MethodJaccard:
		coverage, spans = coverageJaccard(sourceTokens, pageTokens)
	default:
		method = MethodLCS
		coverage, spans = coverageLCS(sourceTokens, pageTokens)
	}

	record := &Record{
		Coverage:     coverage,
		MissingCount: len(spans),
		MissingSpans: spans,
		Method:       method,
		LastChecked:  now,
		RunID:        runID,
	}
	record.Status = applyPolicy(record, policy)

	return record, nil
}

func applyPolicy(record *Record, policy Policy) Status {
	if record.Coverage >= policy.CoverageThreshold && record.MissingCount <= policy.MissingThreshold {
		return StatusComplete
	}
	return StatusAttention
}

// WriteProperties updates the created page's properties with the
// validation record: Coverage, MissingCount, Method, LastChecked,
// MissingSpans, RunId, Status.
func WriteProperties(ctx context.Context, client *notion.Client, pageID string, record *Record) error {
	props := ToProperties(record)
	return client.UpdatePageProperties(ctx, pageID, props)
}

// ToProperties renders a Record as Notion page properties.
func ToProperties(record *Record) notionapi.Properties {
	checked := notionapi.Date(record.LastChecked)

	var sampleText string
	for i, s := range record.MissingSpans {
		if i > 0 {
			sampleText += " | "
		}
		sampleText += s.Text
	}

	missingSpans := []notionapi.RichText{}
	if sampleText != "" {
		missingSpans = []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: sampleText}}}
	}

	return notionapi.Properties{
		"Coverage":     notionapi.NumberProperty{Number: record.Coverage},
		"MissingCount": notionapi.NumberProperty{Number: float64(record.MissingCount)},
		"Method":       notionapi.SelectProperty{Select: notionapi.Option{Name: string(record.Method)}},
		"LastChecked":  notionapi.DateProperty{Date: &notionapi.DateObject{Start: &checked}},
		"MissingSpans": notionapi.RichTextProperty{RichText: missingSpans},
		"RunId":        notionapi.RichTextProperty{RichText: []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: record.RunID}}}},
		"Status":       notionapi.SelectProperty{Select: notionapi.Option{Name: string(record.Status)}},
	}
}
