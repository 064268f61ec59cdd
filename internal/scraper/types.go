package scraper

import (
	"github.com/google/uuid"
)

// ContestEntry is the unit of output: one contest discovered on a listing
// page. Title and DocumentURL are nil until extraction runs, and stay nil when
// extraction fails. Entries are immutable once appended to a CrawlSession.
type ContestEntry struct {
	DetailURL   string
	PatentID    string
	Title       *string
	DocumentURL *string
}

// CrawlSession accumulates entries over one run. It is append-only and lives
// only for the duration of the process; nothing persists between runs.
type CrawlSession struct {
	RunID        string
	PagesVisited int

	entries []ContestEntry
}

// NewCrawlSession returns an empty session with a fresh run ID.
func NewCrawlSession() *CrawlSession {
	return &CrawlSession{RunID: uuid.NewString()}
}

// Append adds processed entries to the session output.
func (s *CrawlSession) Append(entries ...ContestEntry) {
	s.entries = append(s.entries, entries...)
}

// Entries returns the accumulated entries in discovery order.
func (s *CrawlSession) Entries() []ContestEntry {
	return s.entries
}

// Len reports how many entries the session holds.
func (s *CrawlSession) Len() int {
	return len(s.entries)
}

// ResultDocument is the serialized output of a run: four order-aligned
// sequences plus a total count. Absent titles and paths serialize as null.
type ResultDocument struct {
	ContestLinks  []string  `json:"contest_links"`
	PatentIDs     []string  `json:"patent_ids"`
	ContestTitles []*string `json:"contest_titles"`
	PDFPaths      []*string `json:"pdf_paths"`
	TotalCount    int       `json:"total_count"`
}

// BuildResultDocument flattens entries into the output document. The four
// sequences share entry order, so index i refers to the same contest in all
// of them.
func BuildResultDocument(entries []ContestEntry) ResultDocument {
	doc := ResultDocument{
		ContestLinks:  make([]string, 0, len(entries)),
		PatentIDs:     make([]string, 0, len(entries)),
		ContestTitles: make([]*string, 0, len(entries)),
		PDFPaths:      make([]*string, 0, len(entries)),
		TotalCount:    len(entries),
	}
	for _, e := range entries {
		doc.ContestLinks = append(doc.ContestLinks, e.DetailURL)
		doc.PatentIDs = append(doc.PatentIDs, e.PatentID)
		doc.ContestTitles = append(doc.ContestTitles, e.Title)
		doc.PDFPaths = append(doc.PDFPaths, e.DocumentURL)
	}
	return doc
}
