// Package assets localizes image references: each distinct remote image
// is fetched once, stored under a collision-free name in the assets
// directory, and the DOM reference is rewritten to the local path.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/xhiroga/ar5iv2md/core"
)

// Localizer downloads referenced images into a single assets directory.
// It is owned by one run; the cache maps resolved absolute URLs to the
// local relative path already assigned to them.
type Localizer struct {
	fetcher  core.Fetcher
	dir      string
	warnings io.Writer
	cache    map[string]string
}

// New creates a Localizer writing files under dir and warnings to w.
func New(fetcher core.Fetcher, dir string, w io.Writer) *Localizer {
	return &Localizer{
		fetcher:  fetcher,
		dir:      dir,
		warnings: w,
		cache:    make(map[string]string),
	}
}

// Localize rewrites every img reference in the document to a local
// assets/ path, fetching each distinct absolute URL exactly once in
// document order. Individual fetch failures are logged as warnings and
// leave that reference untouched; the run never aborts here.
// It returns the number of asset files written.
func (l *Localizer) Localize(ctx context.Context, doc *goquery.Document, baseURL string) int {
	base, err := url.Parse(baseURL)
	if err != nil {
		fmt.Fprintf(l.warnings, "warn: invalid base URL %q: %v\n", baseURL, err)
		return 0
	}

	written := 0
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}

		ref, err := url.Parse(src)
		if err != nil {
			fmt.Fprintf(l.warnings, "warn: invalid image reference %q: %v\n", src, err)
			return
		}
		abs := base.ResolveReference(ref).String()

		// A cached empty path marks a URL that already failed; later
		// occurrences are left untouched without refetching.
		if local, ok := l.cache[abs]; ok {
			if local != "" {
				img.SetAttr("src", local)
			}
			return
		}

		name := uniqueName(l.dir, basenameFromURL(abs))
		res, err := l.fetcher.Fetch(ctx, abs)
		if err != nil {
			fmt.Fprintf(l.warnings, "warn: failed to download image: %s (%v)\n", abs, err)
			l.cache[abs] = ""
			return
		}
		if err := os.WriteFile(filepath.Join(l.dir, name), res.Body, 0o644); err != nil {
			fmt.Fprintf(l.warnings, "warn: failed to store image: %s (%v)\n", abs, err)
			l.cache[abs] = ""
			return
		}

		local := "assets/" + name
		l.cache[abs] = local
		img.SetAttr("src", local)
		written++
	})
	return written
}

// basenameFromURL derives a candidate filename from the URL's path
// component, falling back to a generic name when the path has none.
func basenameFromURL(absURL string) string {
	parsed, err := url.Parse(absURL)
	if err != nil {
		return "image"
	}
	base := path.Base(parsed.Path)
	if base == "" || base == "." || base == "/" {
		return "image"
	}
	return base
}

// uniqueName makes base unique within dir. Files with no extension get
// a synthetic .bin one; collisions get a numeric suffix before the
// extension: stem, stem-1, stem-2, ...
func uniqueName(dir, base string) string {
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".bin"
	}
	stem := strings.TrimSuffix(base, ext)

	candidate := stem + ext
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); err != nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
}
