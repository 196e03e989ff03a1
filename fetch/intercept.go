// Package fetch provides the browser-independent logic of the rendering
// fetch pipeline: request interception decisions, the 403 retry state
// machine, and the auto-scroll readiness controller. The rod adapter binds
// these to a live browser session.
package fetch

import (
	"net/url"
	"strings"
)

// DefaultBlockedExtensions lists the resource extensions that usually don't
// matter for text extraction: images, video, audio and web fonts.
var DefaultBlockedExtensions = []string{
	".jpg",
	".jpeg",
	".png",
	".webp",
	".gif",
	".svg",
	".mp4",
	".webm",
	".avi",
	".mov",
	".mp3",
	".ogg",
	".woff",
	".woff2",
	".ttf",
	".eot",
}

// Denylist decides whether an outgoing request should be aborted before it
// reaches the network, based on the extension of its target path. Each
// request is decided independently; Denylist is immutable after creation
// and safe for concurrent use.
type Denylist struct {
	exts []string
}

// NewDenylist creates a Denylist from the given extension suffixes.
// Matching is case-insensitive. A nil or empty list blocks nothing.
func NewDenylist(exts []string) *Denylist {
	lowered := make([]string, len(exts))
	for i, ext := range exts {
		lowered[i] = strings.ToLower(ext)
	}
	return &Denylist{exts: lowered}
}

// Blocks reports whether the request for rawURL should be aborted.
// The decision looks only at the URL path, so query strings and fragments
// don't defeat the match.
func (d *Denylist) Blocks(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	path = strings.ToLower(path)
	for _, ext := range d.exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
