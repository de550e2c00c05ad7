// Package resolve turns user-supplied source tokens into fetchable
// ar5iv URLs and derives stable output names from them.
package resolve

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

const ar5ivHTMLBase = "https://ar5iv.org/html/"

// htmlSegment captures the paper identifier from an ar5iv-style path.
var htmlSegment = regexp.MustCompile(`/html/([^/?#]+)`)

// SourceURL resolves a source token to a fetchable URL. Absolute http(s)
// URLs pass through unchanged; anything else is treated as a paper
// identifier on the public ar5iv host.
func SourceURL(source string) string {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source
	}
	return ar5ivHTMLBase + source
}

// Basename derives the output directory name from a resolved URL:
// the identifier segment after /html/ with path separators flattened
// to underscores, falling back to the final path segment, then "ar5iv".
func Basename(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "ar5iv"
	}
	if m := htmlSegment.FindStringSubmatch(parsed.EscapedPath()); m != nil {
		return strings.ReplaceAll(m[1], "/", "_")
	}
	base := path.Base(parsed.Path)
	if base == "" || base == "." || base == "/" {
		return "ar5iv"
	}
	return base
}
