package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// TitleExtractor reads a contest detail page's primary heading.
type TitleExtractor struct {
	nav    Navigator
	cfg    Config
	logger *zap.Logger
}

// NewTitleExtractor constructs a TitleExtractor bound to one browser session.
func NewTitleExtractor(nav Navigator, cfg Config, logger *zap.Logger) *TitleExtractor {
	return &TitleExtractor{nav: nav, cfg: cfg, logger: logger}
}

// Extract returns the trimmed heading text, or nil when the fetch or lookup
// fails. Failures are logged and never propagate past this boundary.
func (t *TitleExtractor) Extract(ctx context.Context, detailURL string) *string {
	htmlText, err := t.nav.Navigate(ctx, detailURL, t.cfg.TitleSelector, t.cfg.DetailWait, 0)
	if err != nil {
		t.logger.Warn("title fetch failed", zap.String("url", detailURL), zap.Error(err))
		TitlesMissing.Inc()
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		t.logger.Warn("title parse failed", zap.String("url", detailURL), zap.Error(err))
		TitlesMissing.Inc()
		return nil
	}

	heading := doc.Find(t.cfg.TitleSelector).First()
	if heading.Length() == 0 {
		t.logger.Warn("no heading on detail page", zap.String("url", detailURL))
		TitlesMissing.Inc()
		return nil
	}

	title := strings.TrimSpace(heading.Text())
	if title == "" {
		TitlesMissing.Inc()
		return nil
	}
	t.logger.Debug("extracted title", zap.String("url", detailURL), zap.String("title", title))
	return &title
}
