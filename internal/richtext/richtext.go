// Package richtext parses an HTML fragment into Notion rich-text runs,
// extracting images and video/embed sources to side lists the caller emits
// as sibling blocks.
package richtext

import (
	"regexp"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/amberpixels/sn2n/internal/htmlutil"
)

// MaxRuns is Notion's ceiling on rich-text runs per block.
const MaxRuns = 100

// MaxRunLen is Notion's ceiling on characters per rich-text run.
const MaxRunLen = 2000

// Result is the output of parsing one HTML fragment.
type Result struct {
	Runs   []notionapi.RichText
	Images []notionapi.Block
	Media  []notionapi.Block
}

// techIdentifier matches dotted/underscored technical tokens like
// com.snc.change or sys_user, but not bare words.
var techIdentifier = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9._-]*[._][A-Za-z0-9._-]+`)

var letterOnly = regexp.MustCompile(`[^A-Za-z]`)

// run is the parser's working representation of one formatted span, before
// it is flattened into notionapi.RichText and has the spacing invariant and
// length limits applied.
type run struct {
	text string
	ann  notionapi.Annotations
	href string
}

type parser struct {
	origin string
	runs   []run
	images []notionapi.Block
	media  []notionapi.Block
}

// Parse converts an HTML fragment (no <html>/<body> wrapper assumed) into a
// Result. origin is the source instance's URL, used to resolve relative
// image/iframe sources; pass "" to leave them unresolved.
func Parse(fragment, origin string) (Result, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return Result{}, err
	}

	p := &parser{origin: origin}
	for _, n := range nodes {
		p.walk(n, notionapi.Annotations{Color: notionapi.ColorDefault}, "")
	}

	return Result{
		Runs:   finalize(p.runs),
		Images: p.images,
		Media:  p.media,
	}, nil
}

func (p *parser) walk(n *html.Node, ann notionapi.Annotations, href string) {
	switch n.Type {
	case html.TextNode:
		p.emitText(n.Data, ann, href)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		// fallthrough to element handling below
	default:
		p.walkChildren(n, ann, href)
		return
	}

	switch n.Data {
	case "b", "strong":
		ann.Bold = true
		p.walkChildren(n, ann, href)
	case "i", "em":
		ann.Italic = true
		p.walkChildren(n, ann, href)
	case "s", "strike", "del":
		ann.Strikethrough = true
		p.walkChildren(n, ann, href)
	case "u", "ins":
		ann.Underline = true
		p.walkChildren(n, ann, href)
	case "code":
		p.walkChildren(n, asCode(ann), href)
	case "span":
		p.walkChildren(n, spanAnnotations(n, ann), href)
	case "br":
		p.runs = append(p.runs, run{text: "\n", ann: ann, href: href})
	case "a":
		p.walkChildren(n, ann, resolveHref(n, p.origin))
	case "img":
		if img := buildImage(n, p.origin); img != nil {
			p.images = append(p.images, img)
		}
	case "iframe":
		if media := buildMedia(n, p.origin); media != nil {
			p.media = append(p.media, media)
		}
	case "script", "style":
		// never contributes text or structure
	default:
		p.walkChildren(n, ann, href)
	}
}

func (p *parser) walkChildren(n *html.Node, ann notionapi.Annotations, href string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, ann, href)
	}
}

func (p *parser) emitText(text string, ann notionapi.Annotations, href string) {
	decoded := htmlutil.DecodeEntities(text)
	cleaned := htmlutil.CleanText(decoded, false)
	if cleaned == "" {
		return
	}
	// CleanText trims both ends; keep one space where the source text had
	// whitespace against neighbouring inline content ("Set <code>x</code>").
	if len(p.runs) > 0 && !endsWithSpace(p.runs[len(p.runs)-1].text) && startsWithSpace(decoded) {
		cleaned = " " + cleaned
	}
	if endsWithSpace(decoded) {
		cleaned += " "
	}
	if ann.Code {
		// already inside a <code> element; don't re-detect identifiers.
		p.runs = append(p.runs, run{text: cleaned, ann: ann, href: href})
		return
	}
	for _, seg := range splitTechTokens(cleaned) {
		segAnn := ann
		if seg.code {
			segAnn = asCode(ann)
		}
		p.runs = append(p.runs, run{text: seg.text, ann: segAnn, href: href})
	}
}

// asCode applies the code annotation and the color-override rule: entering
// code saves the current color by switching to red; the saved color is
// restored automatically because callers pass the pre-code ann by value on
// exit (the caller's copy was never mutated).
func asCode(ann notionapi.Annotations) notionapi.Annotations {
	ann.Code = true
	ann.Color = notionapi.ColorRed
	return ann
}

func spanAnnotations(n *html.Node, ann notionapi.Annotations) notionapi.Annotations {
	classes := classSet(n)
	text := extractPlainText(n)

	switch {
	case classes["uicontrol"]:
		ann.Bold = true
		ann.Color = notionapi.ColorBlue
	case classes["sectiontitle"] && classes["tasklabel"]:
		ann.Bold = true
	case hasTechSpanClass(classes) && techIdentifier.MatchString(text):
		ann = asCode(ann)
	}
	return ann
}

func hasTechSpanClass(classes map[string]bool) bool {
	return classes["ph"] || classes["keyword"] || classes["parmname"] || classes["codeph"]
}

func classSet(n *html.Node) map[string]bool {
	set := make(map[string]bool)
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			set[c] = true
		}
	}
	return set
}

func extractPlainText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

type techSegment struct {
	text string
	code bool
}

// splitTechTokens splits text into alternating plain/code segments, wrapping
// dotted or underscored technical identifiers in code, except those whose
// letter-only projection is entirely uppercase (acronyms like KPI_API).
func splitTechTokens(text string) []techSegment {
	matches := techIdentifier.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []techSegment{{text: text}}
	}

	var segs []techSegment
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			segs = append(segs, techSegment{text: text[last:start]})
		}
		token := text[start:end]
		if isAcronym(token) {
			segs = append(segs, techSegment{text: token})
		} else {
			segs = append(segs, techSegment{text: token, code: true})
		}
		last = end
	}
	if last < len(text) {
		segs = append(segs, techSegment{text: text[last:]})
	}
	return segs
}

func isAcronym(token string) bool {
	letters := letterOnly.ReplaceAllString(token, "")
	if letters == "" {
		return false
	}
	return letters == strings.ToUpper(letters)
}

func resolveHref(n *html.Node, origin string) string {
	for _, a := range n.Attr {
		if a.Key == "href" {
			return htmlutil.NormalizeURL(a.Val, origin)
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func buildImage(n *html.Node, origin string) notionapi.Block {
	src := attr(n, "src")
	if src == "" {
		return nil
	}
	url := htmlutil.NormalizeURL(src, origin)
	alt := attr(n, "alt")

	img := &notionapi.ImageBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeImage,
		},
		Image: notionapi.Image{
			Type:     "external",
			External: &notionapi.FileObject{URL: url},
		},
	}
	if alt != "" {
		img.Image.Caption = []notionapi.RichText{plainRichText(alt)}
	}
	return img
}

func buildMedia(n *html.Node, origin string) notionapi.Block {
	src := attr(n, "src")
	if src == "" {
		return nil
	}
	url := htmlutil.NormalizeURL(src, origin)

	if htmlutil.IsYouTube(url) {
		return &notionapi.VideoBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeVideo,
			},
			Video: notionapi.Video{
				Type:     "external",
				External: &notionapi.FileObject{URL: url},
			},
		}
	}
	return &notionapi.EmbedBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeEmbed,
		},
		Embed: notionapi.Embed{URL: url},
	}
}

func plainRichText(s string) notionapi.RichText {
	return notionapi.RichText{
		Type:      notionapi.ObjectTypeText,
		Text:      &notionapi.Text{Content: s},
		PlainText: s,
	}
}

// finalize applies the spacing invariant between adjacent runs, merges
// consecutive runs sharing annotations and href, and converts to
// notionapi.RichText, leaving length/run-count enforcement to ChunkBlocks
// (and Chunk, for table cells).
func finalize(runs []run) []notionapi.RichText {
	if len(runs) == 0 {
		return []notionapi.RichText{plainRichText("")}
	}

	spaced := make([]run, 0, len(runs))
	for i, r := range runs {
		if r.text == "" {
			continue
		}
		if i > 0 && len(spaced) > 0 {
			prev := spaced[len(spaced)-1]
			if !endsWithSpace(prev.text) && !startsWithSpace(r.text) && prev.text != "\n" && r.text != "\n" {
				r.text = " " + r.text
			}
		}
		spaced = append(spaced, r)
	}

	merged := make([]run, 0, len(spaced))
	for _, r := range spaced {
		if n := len(merged); n > 0 && merged[n-1].ann == r.ann && merged[n-1].href == r.href {
			merged[n-1].text += r.text
			continue
		}
		merged = append(merged, r)
	}

	out := make([]notionapi.RichText, 0, len(merged))
	for _, r := range merged {
		ann := r.ann
		rt := notionapi.RichText{
			Type:        notionapi.ObjectTypeText,
			Text:        &notionapi.Text{Content: r.text},
			Annotations: &ann,
			PlainText:   r.text,
		}
		if r.href != "" {
			rt.Text.Link = &notionapi.Link{Url: r.href}
			rt.Href = r.href
		}
		out = append(out, rt)
	}
	if len(out) == 0 {
		return []notionapi.RichText{plainRichText("")}
	}
	return out
}

func endsWithSpace(s string) bool {
	return s != "" && (s[len(s)-1] == ' ' || s[len(s)-1] == '\n' || s[len(s)-1] == '\t')
}

func startsWithSpace(s string) bool {
	return s != "" && (s[0] == ' ' || s[0] == '\n' || s[0] == '\t')
}

// ChunkBlocks enforces Notion's per-block rich-text limits without dropping
// content: every run's content is split at MaxRunLen characters (preferring
// the nearest preceding newline or space within the last 50 characters of
// the boundary). Every piece after the first of a split run starts a new
// group, and a group is also closed once it holds MaxRuns runs. Each group
// becomes its own block of the caller's type — a continuation block —
// rather than being folded into one oversized block.
func ChunkBlocks(runs []notionapi.RichText) [][]notionapi.RichText {
	var groups [][]notionapi.RichText
	var cur []notionapi.RichText
	for _, r := range runs {
		for i, part := range splitRun(r) {
			if len(cur) == MaxRuns || (i > 0 && len(cur) > 0) {
				groups = append(groups, cur)
				cur = nil
			}
			cur = append(cur, part)
		}
	}
	if len(cur) == 0 {
		return [][]notionapi.RichText{{plainRichText("")}}
	}
	return append(groups, cur)
}

// Chunk enforces Notion's per-block rich-text limits for a single array,
// for the one block shape with no continuation mechanism: a table cell
// cannot spill into a sibling block without breaking the row's column
// alignment, so any runs beyond MaxRuns are dropped rather than carried to
// a second block. Every other block builder uses ChunkBlocks instead.
func Chunk(runs []notionapi.RichText) []notionapi.RichText {
	var flat []notionapi.RichText
	for _, g := range ChunkBlocks(runs) {
		flat = append(flat, g...)
	}
	if len(flat) > MaxRuns {
		flat = flat[:MaxRuns]
	}
	return flat
}

func splitRun(r notionapi.RichText) []notionapi.RichText {
	content := runContent(r)
	if len(content) <= MaxRunLen {
		return []notionapi.RichText{r}
	}

	var parts []notionapi.RichText
	for len(content) > 0 {
		cut := MaxRunLen
		if cut >= len(content) {
			cut = len(content)
		} else if idx := strings.LastIndexAny(content[:cut], "\n "); idx > cut-50 && idx > 0 {
			cut = idx + 1
		}
		parts = append(parts, withContent(r, content[:cut]))
		content = content[cut:]
	}
	return parts
}

func runContent(r notionapi.RichText) string {
	if r.Text != nil {
		return r.Text.Content
	}
	return r.PlainText
}

func withContent(r notionapi.RichText, content string) notionapi.RichText {
	if r.Text != nil {
		t := *r.Text
		t.Content = content
		r.Text = &t
	}
	r.PlainText = content
	return r
}
