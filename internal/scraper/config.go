// Package scraper implements the contest crawl pipeline: listing extraction,
// pagination, per-contest title and prior-art document resolution, and the
// result sink.
package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a scrape run.
// All values originate from Viper so the scraper can be configured via files,
// env vars, or CLI flags.
type Config struct {
	ListingURL        string
	ContestBaseURL    string
	ContestPathPrefix string
	PatentLinkPrefix  string
	PatentIDOffset    int
	SecondaryBaseURL  string

	ListingContainer string
	NextPageSelector string
	TitleSelector    string

	PriorArtMarker    string
	DownloadKeyword   string
	PriorArtKeyword   string
	InsightsSegment   string
	DocumentExtension string
	LinkKeywords      []string
	PendingKeywords   []string

	MaxPages      int
	Workers       int
	Parallel      bool
	PromptTimeout time.Duration
	OutputPath    string

	DetailWait    time.Duration
	SecondaryWait time.Duration
	NextPageWait  time.Duration
	SettleDelay   time.Duration
	ClickSettle   time.Duration

	DetectorMinHTMLBytes     int
	DetectorRequiredSelector string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		ListingURL:        v.GetString("scraper.listing_url"),
		ContestBaseURL:    v.GetString("scraper.contest_base_url"),
		ContestPathPrefix: v.GetString("scraper.contest_path_prefix"),
		PatentLinkPrefix:  v.GetString("scraper.patent_link_prefix"),
		PatentIDOffset:    v.GetInt("scraper.patent_id_offset"),
		SecondaryBaseURL:  v.GetString("scraper.secondary_base_url"),

		ListingContainer: v.GetString("scraper.listing_container"),
		NextPageSelector: v.GetString("scraper.next_page_selector"),
		TitleSelector:    v.GetString("scraper.title_selector"),

		PriorArtMarker:    v.GetString("scraper.prior_art_marker"),
		DownloadKeyword:   v.GetString("scraper.download_keyword"),
		PriorArtKeyword:   v.GetString("scraper.prior_art_keyword"),
		InsightsSegment:   v.GetString("scraper.insights_segment"),
		DocumentExtension: strings.ToLower(v.GetString("scraper.document_extension")),
		LinkKeywords:      normalizeKeywords(v.GetStringSlice("scraper.link_keywords")),
		PendingKeywords:   normalizeKeywords(v.GetStringSlice("scraper.pending_keywords")),

		MaxPages:      v.GetInt("scraper.max_pages"),
		Workers:       v.GetInt("scraper.workers"),
		Parallel:      v.GetBool("scraper.parallel"),
		PromptTimeout: v.GetDuration("scraper.prompt_timeout"),
		OutputPath:    v.GetString("scraper.output_path"),

		DetailWait:    v.GetDuration("scraper.detail_wait"),
		SecondaryWait: v.GetDuration("scraper.secondary_wait"),
		NextPageWait:  v.GetDuration("scraper.next_page_wait"),
		SettleDelay:   v.GetDuration("scraper.settle_delay"),
		ClickSettle:   v.GetDuration("scraper.click_settle"),

		DetectorMinHTMLBytes:     v.GetInt("detector.min_html_bytes"),
		DetectorRequiredSelector: v.GetString("detector.required_selector"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.ListingURL == "" {
		return fmt.Errorf("scraper.listing_url must be set")
	}
	if c.ContestBaseURL == "" {
		return fmt.Errorf("scraper.contest_base_url must be set")
	}
	if c.ContestPathPrefix == "" {
		return fmt.Errorf("scraper.contest_path_prefix must be set")
	}
	if c.PatentLinkPrefix == "" {
		return fmt.Errorf("scraper.patent_link_prefix must be set")
	}
	if c.PatentIDOffset <= len(c.PatentLinkPrefix) {
		return fmt.Errorf("scraper.patent_id_offset must extend past the patent link prefix")
	}
	if c.ListingContainer == "" {
		return fmt.Errorf("scraper.listing_container must be set")
	}
	if c.NextPageSelector == "" {
		return fmt.Errorf("scraper.next_page_selector must be set")
	}
	if c.TitleSelector == "" {
		return fmt.Errorf("scraper.title_selector must be set")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("scraper.max_pages must be > 0")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("scraper.workers must be > 0")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("scraper.output_path must be set")
	}
	if c.DetailWait <= 0 || c.SecondaryWait <= 0 || c.NextPageWait <= 0 {
		return fmt.Errorf("scraper wait durations must be > 0")
	}
	if c.DetectorMinHTMLBytes < 0 {
		return fmt.Errorf("detector.min_html_bytes must be >= 0")
	}
	return nil
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{})
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
