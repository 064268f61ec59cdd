package scraper

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func validViper() *viper.Viper {
	v := viper.New()
	v.Set("scraper.listing_url", "https://patroll.unifiedpatents.com/contests?category=won")
	v.Set("scraper.contest_base_url", "https://patroll.unifiedpatents.com/")
	v.Set("scraper.contest_path_prefix", "/contests/")
	v.Set("scraper.patent_link_prefix", "https://www.google.com")
	v.Set("scraper.patent_id_offset", 31)
	v.Set("scraper.secondary_base_url", "https://www.unifiedpatents.com")
	v.Set("scraper.listing_container", "ul.ant-list-items")
	v.Set("scraper.next_page_selector", `li.ant-pagination-next[title="Next Page"]`)
	v.Set("scraper.title_selector", "h1")
	v.Set("scraper.prior_art_marker", "DOWNLOAD WINNING PRIOR ART HERE:")
	v.Set("scraper.document_extension", ".PDF")
	v.Set("scraper.link_keywords", []string{"download", "download", " prior art ", ""})
	v.Set("scraper.pending_keywords", []string{"pending", "active"})
	v.Set("scraper.max_pages", 10)
	v.Set("scraper.workers", 4)
	v.Set("scraper.prompt_timeout", "5s")
	v.Set("scraper.output_path", "scraped_data.json")
	v.Set("scraper.detail_wait", "10s")
	v.Set("scraper.secondary_wait", "10s")
	v.Set("scraper.next_page_wait", "10s")
	v.Set("detector.min_html_bytes", 2048)
	v.Set("detector.required_selector", "ul.ant-list-items")
	return v
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(validViper())
	require.NoError(t, err)

	require.Equal(t, "https://patroll.unifiedpatents.com/contests?category=won", cfg.ListingURL)
	require.Equal(t, 31, cfg.PatentIDOffset)
	require.Equal(t, 10*time.Second, cfg.DetailWait)
	require.Equal(t, 5*time.Second, cfg.PromptTimeout)

	// Extension lowercased, keywords trimmed and deduplicated.
	require.Equal(t, ".pdf", cfg.DocumentExtension)
	require.Equal(t, []string{"download", "prior art"}, cfg.LinkKeywords)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "empty listing url", key: "scraper.listing_url", value: ""},
		{name: "empty contest base", key: "scraper.contest_base_url", value: ""},
		{name: "empty path prefix", key: "scraper.contest_path_prefix", value: ""},
		{name: "offset inside prefix", key: "scraper.patent_id_offset", value: 5},
		{name: "empty container", key: "scraper.listing_container", value: ""},
		{name: "empty next selector", key: "scraper.next_page_selector", value: ""},
		{name: "empty title selector", key: "scraper.title_selector", value: ""},
		{name: "zero page cap", key: "scraper.max_pages", value: 0},
		{name: "zero workers", key: "scraper.workers", value: 0},
		{name: "empty output path", key: "scraper.output_path", value: ""},
		{name: "zero detail wait", key: "scraper.detail_wait", value: "0s"},
		{name: "negative byte floor", key: "detector.min_html_bytes", value: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validViper()
			v.Set(tt.key, tt.value)
			_, err := LoadConfig(v)
			require.Error(t, err)
		})
	}
}
