// Package mathtex replaces MathML markup with plain-text TeX.
// Each math element yields at most one TeX fragment, rendered with
// inline or block delimiters, and is then destroyed; elements with no
// recoverable TeX source are left for the Markdown converter's default
// handling.
//
// Inline fragments are installed into the DOM directly. Block
// fragments span multiple lines, and the Markdown converter collapses
// whitespace inside text nodes, so they are installed as opaque tokens
// and swapped for the delimited TeX after conversion via Expand.
package mathtex

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// displayContextClasses are parent classes that imply block display
// when a math element carries no display attribute of its own.
var displayContextClasses = []string{
	"ltx_equation",
	"ltx_equationgroup",
}

// extractors is the ordered TeX-source fallback chain; the first
// non-empty result wins.
var extractors = []func(*goquery.Selection) string{
	fromAnnotation,
	fromAltText,
	fromTeXAttr,
}

// Fragments holds the block TeX renderings deferred past Markdown
// conversion, keyed by the token standing in for each one.
type Fragments struct {
	byToken map[string]string
}

// Normalize replaces every math element holding a recoverable TeX
// source with a single text node, mutating the document in place.
// The returned Fragments must be applied to the converted Markdown
// with Expand to materialize block renderings.
func Normalize(doc *goquery.Document) *Fragments {
	frags := &Fragments{byToken: make(map[string]string)}
	doc.Find("math").Each(func(_ int, math *goquery.Selection) {
		tex := extractTeX(math)
		if tex == "" {
			return
		}
		math.ReplaceWithNodes(&html.Node{
			Type: html.TextNode,
			Data: frags.render(tex, isBlock(math)),
		})
	})
	return frags
}

// Expand replaces every deferred-block token in the Markdown text with
// its delimited TeX fragment.
func (f *Fragments) Expand(markdown string) string {
	for token, rendered := range f.byToken {
		markdown = strings.Replace(markdown, token, rendered, 1)
	}
	return markdown
}

// render returns the string to install in the DOM: the inline
// rendering directly, or a token for block renderings. Multi-line
// sources always render as blocks, whatever their classification.
func (f *Fragments) render(tex string, block bool) string {
	if block || strings.Contains(tex, "\n") {
		token := fmt.Sprintf("@@texblock-%d@@", len(f.byToken))
		f.byToken[token] = "\n$$\n" + tex + "\n$$\n"
		return token
	}
	return "$" + tex + "$"
}

func extractTeX(math *goquery.Selection) string {
	for _, extract := range extractors {
		if tex := strings.TrimSpace(extract(math)); tex != "" {
			return tex
		}
	}
	return ""
}

// fromAnnotation returns the text of the first nested annotation whose
// declared encoding mentions TeX. An annotation that is empty after
// trimming does not count as a match.
func fromAnnotation(math *goquery.Selection) string {
	var tex string
	math.Find("annotation, annotation-xml").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		enc := a.AttrOr("encoding", "")
		if !strings.Contains(strings.ToLower(enc), "tex") {
			return true
		}
		if text := a.Text(); strings.TrimSpace(text) != "" {
			tex = text
			return false
		}
		return true
	})
	return tex
}

func fromAltText(math *goquery.Selection) string {
	return math.AttrOr("alttext", "")
}

func fromTeXAttr(math *goquery.Selection) string {
	return math.AttrOr("tex", "")
}

// isBlock classifies display mode. An explicit display attribute always
// decides; otherwise block display is inferred from the parent's class.
func isBlock(math *goquery.Selection) bool {
	if display, ok := math.Attr("display"); ok {
		return strings.EqualFold(strings.TrimSpace(display), "block")
	}
	parent := math.Parent()
	for _, class := range displayContextClasses {
		if parent.HasClass(class) {
			return true
		}
	}
	return false
}
