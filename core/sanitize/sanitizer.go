// Package sanitize removes non-content regions from an ar5iv document
// before any downstream stage runs, so removed regions never contribute
// downloaded assets or math fragments.
package sanitize

import "github.com/PuerkitoBio/goquery"

// footerSelectors are the page-footer regions ar5iv appends to every
// rendering. They carry no paper content.
var footerSelectors = []string{
	"footer",
	".ltx_page_footer",
}

// Strip removes every subtree matching the footer selectors, mutating
// the document in place. Absence of matches is a no-op.
func Strip(doc *goquery.Document) {
	for _, sel := range footerSelectors {
		doc.Find(sel).Remove()
	}
}
