package validate

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Span is a contiguous run of missing source text, reported as the word
// range and the literal text for display.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

const maxSampledSpans = 5

// coverageLCS computes coverage as the fraction of source tokens covered by
// the matching blocks go-difflib's SequenceMatcher finds between source and
// page, the same algorithm behind Python's difflib and this package's own
// test-assertion diffs.
func coverageLCS(source, page []string) (float64, []Span) {
	if len(source) == 0 {
		return 1, nil
	}

	matcher := difflib.NewMatcher(source, page)
	matched := make([]bool, len(source))
	for _, block := range matcher.GetMatchingBlocks() {
		for k := block.A; k < block.A+block.Size; k++ {
			matched[k] = true
		}
	}

	covered := 0
	for _, m := range matched {
		if m {
			covered++
		}
	}

	coverage := float64(covered) / float64(len(source))
	return coverage, missingSpans(source, matched)
}

// coverageJaccard computes coverage as the fraction of source shingles
// (overlapping windows of shingleSize tokens) that also appear as page
// shingles.
const shingleSize = 3

func coverageJaccard(source, page []string) (float64, []Span) {
	if len(source) == 0 {
		return 1, nil
	}

	sourceShingles := shingles(source, shingleSize)
	pageSet := make(map[string]bool, len(page))
	for _, sh := range shingles(page, shingleSize) {
		pageSet[sh] = true
	}

	if len(sourceShingles) == 0 {
		// Source shorter than one shingle: fall back to whole-text membership.
		joined := strings.Join(source, " ")
		if pageSet[joined] || strings.Contains(strings.Join(page, " "), joined) {
			return 1, nil
		}
		return 0, []Span{{Start: 0, End: len(source), Text: joined}}
	}

	matched := make([]bool, len(source))
	covered := 0
	for idx, sh := range sourceShingles {
		if pageSet[sh] {
			covered++
			for k := idx; k < idx+shingleSize; k++ {
				matched[k] = true
			}
		}
	}

	coverage := float64(covered) / float64(len(sourceShingles))
	return coverage, missingSpans(source, matched)
}

func shingles(tokens []string, size int) []string {
	if len(tokens) < size {
		return nil
	}
	out := make([]string, 0, len(tokens)-size+1)
	for i := 0; i+size <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+size], " "))
	}
	return out
}

// missingSpans collapses the runs of unmatched source tokens into spans,
// sampled to at most maxSampledSpans, longest first.
func missingSpans(source []string, matched []bool) []Span {
	var spans []Span
	start := -1
	for i := 0; i <= len(source); i++ {
		isMissing := i < len(source) && !matched[i]
		if isMissing && start < 0 {
			start = i
		}
		if !isMissing && start >= 0 {
			spans = append(spans, Span{Start: start, End: i, Text: strings.Join(source[start:i], " ")})
			start = -1
		}
	}

	if len(spans) <= maxSampledSpans {
		return spans
	}

	// Sample the longest spans, preserving source order among the sample.
	sorted := append([]Span(nil), spans...)
	sortSpansByLengthDesc(sorted)
	top := sorted[:maxSampledSpans]
	keep := make(map[int]bool, maxSampledSpans)
	for _, s := range top {
		keep[s.Start] = true
	}

	var sample []Span
	for _, s := range spans {
		if keep[s.Start] {
			sample = append(sample, s)
		}
	}
	return sample
}

func sortSpansByLengthDesc(spans []Span) {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && (spans[j].End-spans[j].Start) > (spans[j-1].End-spans[j-1].Start); j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
}

func tokenize(text string) []string {
	return strings.Fields(text)
}
