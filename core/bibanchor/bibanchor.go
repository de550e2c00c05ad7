// Package bibanchor preserves bibliography anchors across the Markdown
// conversion. The converter drops element ids during serialization, so
// the ids of reference-list entries are harvested from the DOM first
// and reinserted into the Markdown text afterwards, keeping in-text
// citation links working.
package bibanchor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const anchorPrefix = "bib.bib"

var (
	// bullet matches a Markdown list-item prefix: a marker character or
	// number followed by whitespace.
	bullet = regexp.MustCompile(`^([*+-]|\d+[.)])\s+`)
	// numberedEntry matches a manually numbered reference entry such as
	// "- [12] Author ...", capturing the bullet prefix and the number.
	numberedEntry = regexp.MustCompile(`^(([*+-]|\d+[.)])\s+)\[(\d+)\]`)
)

// Harvest collects the ids of reference-list entries in document order.
// That order aligns with the order the entries appear in the rendered
// Markdown, which Restore relies on.
func Harvest(doc *goquery.Document) []string {
	var ids []string
	doc.Find(`li[id^="` + anchorPrefix + `"]`).Each(func(_ int, li *goquery.Selection) {
		if id, ok := li.Attr("id"); ok {
			ids = append(ids, id)
		}
	})
	return ids
}

// Restore reinserts an anchor at the start of each reference-list entry
// line. Lines before the references marker pass through unchanged. After
// it, a manually numbered entry gets an anchor constructed from its own
// number; any other bullet line consumes the next harvested id, until
// the ids run out. The output's trailing-newline convention matches the
// input's exactly.
func Restore(markdown string, ids []string) string {
	lines := strings.Split(markdown, "\n")
	inRefs := false
	next := 0

	for i, line := range lines {
		if !inRefs {
			inRefs = isReferencesMarker(line)
			continue
		}
		if m := numberedEntry.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + anchor(anchorPrefix+m[3]) + line[len(m[1]):]
			continue
		}
		if prefix := bullet.FindString(line); prefix != "" && next < len(ids) {
			lines[i] = prefix + anchor(ids[next]) + line[len(prefix):]
			next++
		}
	}
	return strings.Join(lines, "\n")
}

// isReferencesMarker reports whether the line is the bibliography
// heading. The converter emits ATX headings, so any leading # run is
// ignored before comparing.
func isReferencesMarker(line string) bool {
	s := strings.TrimSpace(line)
	s = strings.TrimSpace(strings.TrimLeft(s, "#"))
	return strings.EqualFold(s, "references")
}

func anchor(id string) string {
	return `<a id="` + id + `"></a>`
}
