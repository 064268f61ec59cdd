package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoListing signals that the listing container element is absent. This is
// distinct from an empty page: it tells the paginator there is no more data.
var ErrNoListing = errors.New("listing container not found")

// ListingBatch holds one listing page's extraction output. The two sequences
// are order-aligned: PatentIDs[i] belongs to ContestURLs[i].
type ListingBatch struct {
	ContestURLs []string
	PatentIDs   []string
}

// Aligned reports whether the two sequences pair up one-to-one.
func (b ListingBatch) Aligned() bool {
	return len(b.ContestURLs) == len(b.PatentIDs)
}

// Entries pairs the aligned sequences into contest entries. A misaligned
// batch is truncated to the shorter side rather than padded with guesses.
func (b ListingBatch) Entries() []ContestEntry {
	n := len(b.ContestURLs)
	if len(b.PatentIDs) < n {
		n = len(b.PatentIDs)
	}
	entries := make([]ContestEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, ContestEntry{
			DetailURL: b.ContestURLs[i],
			PatentID:  b.PatentIDs[i],
		})
	}
	return entries
}

// ExtractListing parses a listing page and partitions the anchors inside the
// list container into contest detail links (absolutized against the contest
// base URL) and patent reference identifiers (a fixed-length prefix stripped
// from outbound patent links). Both sequences preserve document order.
func ExtractListing(htmlText string, cfg Config) (ListingBatch, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return ListingBatch{}, fmt.Errorf("parse listing html: %w", err)
	}

	container := doc.Find(cfg.ListingContainer).First()
	if container.Length() == 0 {
		return ListingBatch{}, ErrNoListing
	}

	var batch ListingBatch
	container.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		switch {
		case strings.HasPrefix(href, cfg.ContestPathPrefix):
			batch.ContestURLs = append(batch.ContestURLs, cfg.ContestBaseURL+strings.TrimLeft(href, "/"))
		case strings.HasPrefix(href, cfg.PatentLinkPrefix) && len(href) > cfg.PatentIDOffset:
			batch.PatentIDs = append(batch.PatentIDs, href[cfg.PatentIDOffset:])
		}
	})
	return batch, nil
}
