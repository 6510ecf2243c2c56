// Package marker mints and resolves the opaque (sn2n:<id>) tokens used to
// splice content Notion forbids as direct children of list items back into
// the page after creation.
package marker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jomei/notionapi"
)

// ID is an opaque marker identifier, unique within a single conversion.
type ID string

// Mint generates a new marker ID. A random UUID is enough to guarantee
// uniqueness within one conversion's sidecar without needing a counter
// threaded through the walker.
func Mint() ID {
	return ID(uuid.NewString())
}

// Token returns the literal text embedded in a host block's rich text to
// reference a marker, e.g. "(sn2n:1793...ab12)".
func Token(id ID) string {
	return fmt.Sprintf("(sn2n:%s)", id)
}

// tokenPrefix and tokenSuffix bracket any marker token regardless of id shape.
const tokenPrefix = "(sn2n:"
const tokenSuffix = ")"

// Sidecar maps a marker id to the ordered list of blocks deferred under it.
// Sidecar is owned exclusively by one conversion and is never retained
// across requests.
type Sidecar map[ID][]notionapi.Block

// NewSidecar returns an empty Sidecar.
func NewSidecar() Sidecar {
	return make(Sidecar)
}

// Defer mints a fresh marker, records the given blocks under it in the
// sidecar (appending if the marker id is reused, which callers generally
// avoid by minting once per deferral site), and returns the token text to
// embed in the host's rich text.
func (s Sidecar) Defer(blocks ...notionapi.Block) (ID, string) {
	id := Mint()
	s[id] = append(s[id], blocks...)
	return id, Token(id)
}

// ContainsToken reports whether any (sn2n:...) token appears in the
// concatenation of the given rich-text runs' plain content.
func ContainsToken(runs []notionapi.RichText) bool {
	return strings.Contains(concatPlain(runs), tokenPrefix)
}

// FindToken returns the first marker id whose token appears in runs, and
// whether one was found.
func FindToken(runs []notionapi.RichText) (ID, bool) {
	joined := concatPlain(runs)
	start := strings.Index(joined, tokenPrefix)
	if start < 0 {
		return "", false
	}
	end := strings.Index(joined[start:], tokenSuffix)
	if end < 0 {
		return "", false
	}
	raw := joined[start : start+end+len(tokenSuffix)]
	id := strings.TrimSuffix(strings.TrimPrefix(raw, tokenPrefix), tokenSuffix)
	return ID(id), true
}

func concatPlain(runs []notionapi.RichText) string {
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

// StripToken removes every occurrence of id's token from runs, including
// occurrences that span run boundaries, while preserving the annotations of
// surrounding content. Runs that become empty after stripping are dropped.
func StripToken(id ID, runs []notionapi.RichText) []notionapi.RichText {
	return stripTokens(runs, Token(id))
}

// StripAnyToken removes every (sn2n:...) token present in runs, regardless
// of id, attributing surviving bytes back to the run that originally held
// them and dropping runs that become empty. Used by the marker sweep, which
// has no single id in mind and must clear anything left visible.
func StripAnyToken(runs []notionapi.RichText) []notionapi.RichText {
	if len(runs) == 0 {
		return runs
	}

	joined := concatPlain(runs)
	var literal string
	for {
		id, ok := FindToken([]notionapi.RichText{{PlainText: joined}})
		if !ok {
			break
		}
		literal = Token(id)
		joined = strings.Replace(joined, literal, "", 1)
	}
	if literal == "" {
		return runs
	}

	// Re-run the precise per-token strip against the original runs so run
	// boundaries and annotations are preserved exactly.
	result := runs
	for {
		id, ok := FindToken(result)
		if !ok {
			return result
		}
		result = stripTokens(result, Token(id))
	}
}

func stripTokens(runs []notionapi.RichText, literal string) []notionapi.RichText {
	type span struct {
		run   int
		start int
		end   int // exclusive, within the run's content
	}

	var owners []span
	var concat strings.Builder
	for i, r := range runs {
		content := runContent(r)
		owners = append(owners, span{run: i, start: concat.Len(), end: concat.Len() + len(content)})
		concat.WriteString(content)
	}
	joined := concat.String()

	var removals []span // byte ranges within joined to delete
	for {
		start := strings.Index(joined, literal)
		if start < 0 {
			break
		}
		end := start + len(literal)
		removals = append(removals, span{start: start, end: end})
		joined = joined[:start] + strings.Repeat("\x00", end-start) + joined[end:]
	}
	if len(removals) == 0 {
		return runs
	}

	removed := make([]bool, len(joined))
	for _, r := range removals {
		for i := r.start; i < r.end; i++ {
			removed[i] = true
		}
	}

	result := make([]notionapi.RichText, 0, len(runs))
	for _, o := range owners {
		var kept strings.Builder
		for i := o.start; i < o.end; i++ {
			if !removed[i] {
				kept.WriteByte(joined[i])
			}
		}
		if kept.Len() == 0 {
			continue
		}
		rt := runs[o.run]
		rt = setRunContent(rt, kept.String())
		result = append(result, rt)
	}
	return result
}

func runContent(r notionapi.RichText) string {
	if r.Text != nil {
		return r.Text.Content
	}
	return r.PlainText
}

func setRunContent(r notionapi.RichText, content string) notionapi.RichText {
	if r.Text != nil {
		t := *r.Text
		t.Content = content
		r.Text = &t
	}
	r.PlainText = content
	return r
}
