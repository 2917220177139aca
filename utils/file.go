package utils

import (
	"net/url"
	"path"
	"strings"
)

// FilenameFromURL extracts the lowercased filename part of a URL path.
// Query strings and fragments are ignored.
func FilenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		// Fall back to everything after the last slash
		return strings.ToLower(rawURL[strings.LastIndex(rawURL, "/")+1:])
	}
	return strings.ToLower(path.Base(parsed.Path))
}

// FileNameWithoutExt strips the extension from a filename
func FileNameWithoutExt(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx != -1 {
		return filename[:idx]
	}
	return filename
}
