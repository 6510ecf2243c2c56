package htmlutil

import (
	"net/url"
	"strings"
)

// NormalizeURL resolves a possibly-relative ServiceNow documentation URL
// against the given instance origin. URLs that are already absolute, or
// that the caller passed an empty origin for, are returned unchanged
// (entities and data URIs pass through too).
func NormalizeURL(raw, origin string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || origin == "" {
		return raw
	}
	if strings.HasPrefix(raw, "data:") {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return raw
	}

	base, err := url.Parse(origin)
	if err != nil {
		return raw
	}

	return base.ResolveReference(parsed).String()
}

// MediaKind classifies an iframe src as a Notion "video" block, a generic
// "embed" block, or unknown (treated as embed by the caller).
type MediaKind int

const (
	// MediaEmbed is the default classification for any non-video iframe source.
	MediaEmbed MediaKind = iota
	// MediaVideo marks a src recognized as hosted by a known video provider.
	MediaVideo
)

// videoHostMatchers recognizes known video-hosting URL shapes: YouTube
// embed/watch, Vimeo player, Wistia, Loom embed, Vidyard, Brightcove.
var videoHostMatchers = []func(*url.URL) bool{
	func(u *url.URL) bool { return hostContains(u, "youtube.com") || hostContains(u, "youtu.be") },
	func(u *url.URL) bool { return hostContains(u, "player.vimeo.com") || hostContains(u, "vimeo.com") },
	func(u *url.URL) bool { return hostContains(u, "wistia.com") || hostContains(u, "wistia.net") },
	func(u *url.URL) bool { return hostContains(u, "loom.com") },
	func(u *url.URL) bool { return hostContains(u, "vidyard.com") },
	func(u *url.URL) bool { return hostContains(u, "brightcove.net") || hostContains(u, "brightcove.com") },
}

// ClassifyMedia determines whether an iframe src belongs to a known video
// provider (→ MediaVideo, emitted as a Notion "video" block with an external
// source) or should fall back to a generic "embed" block.
func ClassifyMedia(src string) MediaKind {
	parsed, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return MediaEmbed
	}
	for _, match := range videoHostMatchers {
		if match(parsed) {
			return MediaVideo
		}
	}
	return MediaEmbed
}

// IsYouTube reports whether src specifically resolves to a YouTube host,
// used to pick the video vs. embed Notion block type.
func IsYouTube(src string) bool {
	parsed, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return false
	}
	return hostContains(parsed, "youtube.com") || hostContains(parsed, "youtu.be")
}

func hostContains(u *url.URL, needle string) bool {
	return strings.Contains(strings.ToLower(u.Host), needle)
}
