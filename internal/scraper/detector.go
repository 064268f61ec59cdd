package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ShellDetector flags statically fetched HTML that looks like an unrendered
// JavaScript shell, using simple signals: too few bytes, or a required
// selector missing from the DOM.
type ShellDetector struct {
	minHTMLBytes     int
	requiredSelector string
}

// NewShellDetector constructs a detector with the configured thresholds.
func NewShellDetector(minBytes int, requiredSelector string) *ShellDetector {
	return &ShellDetector{
		minHTMLBytes:     minBytes,
		requiredSelector: requiredSelector,
	}
}

// NeedsBrowser reports whether the page should be re-fetched with a real
// browser render.
func (d *ShellDetector) NeedsBrowser(htmlText string) bool {
	if d == nil {
		return false
	}
	if d.minHTMLBytes > 0 && len(htmlText) < d.minHTMLBytes {
		return true
	}
	if d.requiredSelector == "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return true
	}
	return doc.Find(d.requiredSelector).Length() == 0
}
