package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DocumentLocator resolves the downloadable prior-art document for a contest.
//
// Resolution has two stages. Stage A finds the prior-art page link on the
// contest detail page by trying an ordered list of matchers, first match wins.
// Stage B fetches that page and scans its paragraphs for the one naming the
// contest's patent identifier, then looks for a document anchor nearby.
type DocumentLocator struct {
	nav      Navigator
	static   StaticFetcher
	detector RenderDetector
	cfg      Config
	logger   *zap.Logger
}

// NewDocumentLocator constructs a locator bound to one browser session.
// static and detector are optional; without them every secondary page is
// rendered in the browser.
func NewDocumentLocator(nav Navigator, static StaticFetcher, detector RenderDetector, cfg Config, logger *zap.Logger) *DocumentLocator {
	return &DocumentLocator{
		nav:      nav,
		static:   static,
		detector: detector,
		cfg:      cfg,
		logger:   logger,
	}
}

// Locate returns the document URL for the given contest, or nil when
// resolution fails at any stage. Failures are logged with context and never
// propagate past this boundary.
func (l *DocumentLocator) Locate(ctx context.Context, detailURL, patentID string) *string {
	htmlText, err := l.nav.Navigate(ctx, detailURL, "body", l.cfg.DetailWait, 0)
	if err != nil {
		l.logger.Warn("detail page fetch failed",
			zap.String("url", detailURL), zap.String("patent_id", patentID), zap.Error(err))
		DocumentsMissing.Inc()
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		l.logger.Warn("detail page parse failed", zap.String("url", detailURL), zap.Error(err))
		DocumentsMissing.Inc()
		return nil
	}

	artURL, ok := l.priorArtLink(doc)
	if !ok {
		l.diagnoseMissingLink(doc, detailURL)
		DocumentsMissing.Inc()
		return nil
	}

	secondaryHTML, err := l.fetchSecondary(ctx, artURL)
	if err != nil {
		l.logger.Warn("prior-art page fetch failed",
			zap.String("url", artURL), zap.String("patent_id", patentID), zap.Error(err))
		DocumentsMissing.Inc()
		return nil
	}

	result := l.documentFromSecondary(secondaryHTML, artURL, patentID)
	if result == nil {
		l.logger.Warn("no document link on prior-art page",
			zap.String("url", artURL), zap.String("patent_id", patentID))
		DocumentsMissing.Inc()
		return nil
	}
	DocumentsResolved.Inc()
	return result
}

// linkMatcher is one Stage A strategy: inspect the detail page DOM and
// return a candidate prior-art page href.
type linkMatcher func(doc *goquery.Document) (string, bool)

func (l *DocumentLocator) matchers() []linkMatcher {
	return []linkMatcher{
		l.markerSibling,
		l.markerAnchor,
		l.keywordPairAnchor,
		l.insightsAnchor,
		l.keywordTextAnchor,
	}
}

// priorArtLink tries each matcher in order; the first hit wins, no scoring.
func (l *DocumentLocator) priorArtLink(doc *goquery.Document) (string, bool) {
	for _, match := range l.matchers() {
		if href, ok := match(doc); ok {
			return href, true
		}
	}
	return "", false
}

// markerSibling finds an element whose text contains the marker phrase and
// takes the first anchor sibling that follows it in document order.
func (l *DocumentLocator) markerSibling(doc *goquery.Document) (string, bool) {
	var href string
	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), l.cfg.PriorArtMarker) {
			return true
		}
		a := sel.NextAllFiltered("a").First()
		if a.Length() == 0 {
			// Ancestors like <body> match on text too but have no anchor
			// siblings; keep walking toward the element that does.
			return true
		}
		if h, ok := a.Attr("href"); ok && h != "" {
			href = h
			return false
		}
		return true
	})
	return href, href != ""
}

// markerAnchor finds an anchor whose own text contains the marker phrase.
func (l *DocumentLocator) markerAnchor(doc *goquery.Document) (string, bool) {
	return firstAnchor(doc, func(text, _ string) bool {
		return strings.Contains(text, l.cfg.PriorArtMarker)
	}, nil)
}

// keywordPairAnchor finds an anchor mentioning both the download and the
// prior-art keyword.
func (l *DocumentLocator) keywordPairAnchor(doc *goquery.Document) (string, bool) {
	return firstAnchor(doc, func(text, _ string) bool {
		return strings.Contains(text, l.cfg.DownloadKeyword) && strings.Contains(text, l.cfg.PriorArtKeyword)
	}, nil)
}

// insightsAnchor takes the first anchor whose href contains the insights path
// segment, absolutized against the secondary base domain.
func (l *DocumentLocator) insightsAnchor(doc *goquery.Document) (string, bool) {
	return firstAnchor(doc, func(_, href string) bool {
		return strings.Contains(href, l.cfg.InsightsSegment)
	}, l.absolutize)
}

// keywordTextAnchor takes the first anchor whose visible text contains any of
// the configured keywords, absolutized similarly.
func (l *DocumentLocator) keywordTextAnchor(doc *goquery.Document) (string, bool) {
	return firstAnchor(doc, func(text, _ string) bool {
		lower := strings.ToLower(text)
		for _, kw := range l.cfg.LinkKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}, l.absolutize)
}

// firstAnchor walks anchors in document order and returns the first href
// accepted by pred, optionally transformed.
func firstAnchor(doc *goquery.Document, pred func(text, href string) bool, transform func(string) string) (string, bool) {
	var href string
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, ok := a.Attr("href")
		if !ok || h == "" {
			return true
		}
		if !pred(a.Text(), h) {
			return true
		}
		href = h
		return false
	})
	if href == "" {
		return "", false
	}
	if transform != nil {
		href = transform(href)
	}
	return href, true
}

// absolutize prefixes host-relative hrefs with the secondary base domain.
func (l *DocumentLocator) absolutize(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return l.cfg.SecondaryBaseURL + href
}

// diagnoseMissingLink separates "contest not yet resolved" from "resolution
// failed unexpectedly". Diagnostic only; stored data is unaffected.
func (l *DocumentLocator) diagnoseMissingLink(doc *goquery.Document, detailURL string) {
	pageText := strings.ToLower(doc.Text())
	for _, kw := range l.cfg.PendingKeywords {
		if strings.Contains(pageText, kw) {
			l.logger.Info("contest appears pending; prior art not yet published",
				zap.String("url", detailURL), zap.String("keyword", kw))
			return
		}
	}
	l.logger.Warn("contest appears complete but no prior-art link found",
		zap.String("url", detailURL))
}

// fetchSecondary fetches the prior-art page, statically when possible,
// escalating to the browser when the result looks like a JS shell.
func (l *DocumentLocator) fetchSecondary(ctx context.Context, artURL string) (string, error) {
	if l.static != nil {
		htmlText, err := l.static.FetchHTML(ctx, artURL)
		if err == nil && (l.detector == nil || !l.detector.NeedsBrowser(htmlText)) {
			return htmlText, nil
		}
		if err != nil {
			l.logger.Debug("static fetch failed; rendering", zap.String("url", artURL), zap.Error(err))
		} else {
			l.logger.Debug("static fetch looks unrendered; rendering", zap.String("url", artURL))
		}
		RenderEscalations.Inc()
	}
	return l.nav.Navigate(ctx, artURL, "body", l.cfg.SecondaryWait, 0)
}

// documentFromSecondary scans the prior-art page for the paragraph naming the
// patent identifier, then for a document anchor in that paragraph or the
// following two. Failing that, any "download" anchor on the page is returned
// with its raw href, deliberately left unresolved.
func (l *DocumentLocator) documentFromSecondary(htmlText, artURL, patentID string) *string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		l.logger.Warn("prior-art page parse failed", zap.String("url", artURL), zap.Error(err))
		return nil
	}

	searchID := NormalizeID(StripUSPrefix(patentID))
	if searchID == "" {
		return nil
	}

	downloadWord := strings.ToLower(l.cfg.DownloadKeyword)
	paragraphs := doc.Find("p")

	var result *string
	paragraphs.EachWithBreak(func(i int, p *goquery.Selection) bool {
		if !strings.Contains(NormalizeID(p.Text()), searchID) {
			return true
		}
		l.logger.Debug("patent identifier matched",
			zap.String("patent_id", patentID), zap.Int("paragraph", i))

		for j := i; j < i+3 && j < paragraphs.Length(); j++ {
			if href := documentAnchor(paragraphs.Eq(j), downloadWord, l.cfg.DocumentExtension); href != "" {
				resolved := resolveURL(artURL, href)
				result = &resolved
				return false
			}
		}

		// Whole-page fallback: raw href, not absolutized.
		doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if !strings.Contains(strings.ToLower(a.Text()), downloadWord) {
				return true
			}
			if href, ok := a.Attr("href"); ok && href != "" {
				result = &href
				return false
			}
			return true
		})
		return false
	})
	return result
}

// documentAnchor returns the first anchor in the paragraph whose text
// mentions the download keyword or whose href carries the document extension.
func documentAnchor(p *goquery.Selection, downloadWord, extension string) string {
	var href string
	p.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, ok := a.Attr("href")
		if !ok || h == "" {
			return true
		}
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		if strings.Contains(text, downloadWord) || strings.HasSuffix(strings.ToLower(h), extension) {
			href = h
			return false
		}
		return true
	})
	return href
}

// resolveURL absolutizes href against base, urljoin-style.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
