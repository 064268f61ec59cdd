package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// testConfig mirrors the production defaults with short waits.
func testConfig() Config {
	return Config{
		ListingURL:        "https://patroll.example.com/contests?category=won",
		ContestBaseURL:    "https://patroll.example.com/",
		ContestPathPrefix: "/contests/",
		PatentLinkPrefix:  "https://www.google.com",
		PatentIDOffset:    31,
		SecondaryBaseURL:  "https://www.unifiedpatents.com",

		ListingContainer: "ul.ant-list-items",
		NextPageSelector: `li.ant-pagination-next[title="Next Page"]`,
		TitleSelector:    "h1",

		PriorArtMarker:    "DOWNLOAD WINNING PRIOR ART HERE:",
		DownloadKeyword:   "DOWNLOAD",
		PriorArtKeyword:   "PRIOR ART",
		InsightsSegment:   "insights",
		DocumentExtension: ".pdf",
		LinkKeywords:      []string{"download", "prior art", "winning"},
		PendingKeywords:   []string{"pending", "in progress", "not yet", "coming soon", "active"},

		MaxPages:      10,
		Workers:       4,
		PromptTimeout: time.Second,
		OutputPath:    "out.json",

		DetailWait:    time.Second,
		SecondaryWait: time.Second,
		NextPageWait:  time.Second,
	}
}

// fakeNavigator serves canned HTML by URL. HTML() walks the snapshots slice,
// one entry per pagination advance. A non-zero delay staggers Navigate calls
// so parallel completion order differs from input order.
type fakeNavigator struct {
	mu        sync.Mutex
	pages     map[string]string
	navErr    map[string]error
	snapshots []string
	snapIdx   int
	clickOK   int
	clicks    int
	navigated []string
	closed    bool
	delay     func(url string) time.Duration
}

func (f *fakeNavigator) Navigate(_ context.Context, url, _ string, _, _ time.Duration) (string, error) {
	if f.delay != nil {
		time.Sleep(f.delay(url))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	if err := f.navErr[url]; err != nil {
		return "", err
	}
	html, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return html, nil
}

func (f *fakeNavigator) HTML(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapIdx >= len(f.snapshots) {
		return "", errors.New("no more snapshots")
	}
	html := f.snapshots[f.snapIdx]
	f.snapIdx++
	return html, nil
}

func (f *fakeNavigator) ClickNext(_ context.Context, _ string, _, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks++
	if f.clicks > f.clickOK {
		return errors.New("next page control not found")
	}
	return nil
}

func (f *fakeNavigator) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// fakeFactory hands out independent fakeNavigators over a shared page map.
type fakeFactory struct {
	mu       sync.Mutex
	pages    map[string]string
	delay    func(url string) time.Duration
	err      error
	sessions []*fakeNavigator
}

func (f *fakeFactory) NewSession(_ context.Context) (Navigator, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sess := &fakeNavigator{pages: f.pages, delay: f.delay}
	f.sessions = append(f.sessions, sess)
	return sess, nil
}

// fakeStatic serves the same canned pages over the static path.
type fakeStatic struct {
	pages map[string]string
	err   error
}

func (f *fakeStatic) FetchHTML(_ context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	html, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return html, nil
}
