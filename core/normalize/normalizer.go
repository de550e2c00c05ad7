// Package normalize converts the processed document into Markdown,
// the pipeline's final format.
package normalize

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// MarkdownNormalizer serializes a goquery document and converts it to
// Markdown using html-to-markdown. Escaping is disabled so the TeX text
// installed by the math stage passes through verbatim; the default
// smart escaper would mangle TeX backslashes and brackets.
type MarkdownNormalizer struct {
	conv *converter.Converter
}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
			converter.WithEscapeMode(converter.EscapeModeDisabled),
		),
	}
}

// Normalize converts the document into Markdown text.
func (n *MarkdownNormalizer) Normalize(doc *goquery.Document) (string, error) {
	html, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", fmt.Errorf("serializing document: %w", err)
	}
	markdown, err := n.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
