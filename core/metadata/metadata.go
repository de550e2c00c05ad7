// Package metadata records provenance for a converted paper: where it
// came from, when it was fetched, and how many assets were localized.
// The record is written as YAML next to the Markdown output.
package metadata

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.yaml.in/yaml/v3"
)

// Document is the provenance record for one converted paper.
type Document struct {
	Source     string    `yaml:"source"`
	URL        string    `yaml:"url"`
	Title      string    `yaml:"title,omitempty"`
	Language   string    `yaml:"language,omitempty"`
	FetchedAt  time.Time `yaml:"fetched_at"`
	AssetCount int       `yaml:"asset_count"`
}

// FromDOM builds a Document from the parsed page, the user-supplied
// source token, and the final post-redirect URL. Title and language are
// read from the DOM before conversion discards them.
func FromDOM(doc *goquery.Document, source, finalURL string) *Document {
	lang, _ := doc.Find("html").Attr("lang")
	return &Document{
		Source:    source,
		URL:       finalURL,
		Title:     strings.TrimSpace(doc.Find("title").First().Text()),
		Language:  lang,
		FetchedAt: time.Now().UTC(),
	}
}

// Write marshals the record to YAML at path.
func (d *Document) Write(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
