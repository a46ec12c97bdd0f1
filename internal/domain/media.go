package domain

import "strings"

// MediaKind is the category a slide's media reference renders as
type MediaKind string

const (
	MediaNone     MediaKind = ""
	MediaDocument MediaKind = "document"
	MediaImage    MediaKind = "image"
	MediaAudio    MediaKind = "audio"
	MediaVideo    MediaKind = "video"
	MediaEmbed    MediaKind = "embed"
)

// Lookup tables are checked in this order; svg resolves to document, ogg and webm to audio.
var mediaTables = []struct {
	kind MediaKind
	exts map[string]struct{}
}{
	{MediaDocument, set("html", "htm", "pdf", "txt", "xml", "xhtml", "csv", "json", "svg", "docx", "xlsx", "ods", "odt", "rtf", "yaml", "md")},
	{MediaImage, set("jpg", "jpeg", "png", "gif", "webp", "bmp", "svg", "ico", "tiff", "tif", "apng", "avif")},
	{MediaAudio, set("mp3", "ogg", "wav", "aac", "m4a", "flac", "webm", "opus")},
	{MediaVideo, set("mp4", "webm", "ogg", "mov", "mkv", "avi", "flv", "m4v", "3gp", "wmv")},
}

func set(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}

// Extension returns the lower-cased text after the final '.' of ref, scanning backward
// from the end. It returns "" when ref has no '.'.
func Extension(ref string) string {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == '.' {
			return strings.ToLower(ref[i+1:])
		}
	}
	return ""
}

// ClassifyMedia maps a media reference onto its MediaKind. An empty reference is MediaNone;
// anything not found in the tables is a generic embeddable frame.
func ClassifyMedia(ref string) MediaKind {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return MediaNone
	}
	ext := Extension(ref)
	if ext == "" {
		return MediaEmbed
	}
	for _, t := range mediaTables {
		if _, ok := t.exts[ext]; ok {
			return t.kind
		}
	}
	return MediaEmbed
}

// IsAsset reports whether the kind is served from the course ASSETS directory
func (k MediaKind) IsAsset() bool {
	switch k {
	case MediaDocument, MediaImage, MediaAudio, MediaVideo:
		return true
	}
	return false
}
