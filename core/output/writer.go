// Package output handles the on-disk layout of a converted paper:
// <download-dir>/<basename>/README.md plus an assets/ directory for
// localized images and a metadata.yaml provenance record.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Writer writes the output tree for one converted paper.
type Writer struct {
	// BaseDir is <download-dir>/<basename>.
	BaseDir string
}

// New creates a Writer targeting downloadDir/basename. If downloadDir
// is empty, it defaults to the current working directory.
func New(downloadDir, basename string) *Writer {
	if downloadDir == "" {
		downloadDir = "."
	}
	return &Writer{BaseDir: filepath.Join(downloadDir, basename)}
}

// MarkdownPath returns the path of the Markdown output file.
func (w *Writer) MarkdownPath() string {
	return filepath.Join(w.BaseDir, "README.md")
}

// AssetsDir returns the path of the localized-assets directory.
func (w *Writer) AssetsDir() string {
	return filepath.Join(w.BaseDir, "assets")
}

// MetadataPath returns the path of the provenance record.
func (w *Writer) MetadataPath() string {
	return filepath.Join(w.BaseDir, "metadata.yaml")
}

// ShouldSkip reports whether BaseDir already exists and is non-empty.
// Such runs are skipped entirely rather than merged.
func (w *Writer) ShouldSkip() (bool, error) {
	entries, err := os.ReadDir(w.BaseDir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspecting output directory: %w", err)
	}
	return len(entries) > 0, nil
}

// Prepare creates the output tree, including the assets directory.
// It must run before asset localization writes any file.
func (w *Writer) Prepare() error {
	if err := os.MkdirAll(w.AssetsDir(), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// WriteMarkdown writes the final Markdown text verbatim.
func (w *Writer) WriteMarkdown(markdown string) error {
	if err := os.WriteFile(w.MarkdownPath(), []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}
