// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/unifiedcrawl/patroll-scraper/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/patroll-scraper/")
	viper.AddConfigPath("$HOME/.patroll-scraper")

	// Site constants. These are recognized knobs rather than flags: they change
	// only when the contest site changes its markup.
	viper.SetDefault("scraper.listing_url", "https://patroll.unifiedpatents.com/contests?category=won")
	viper.SetDefault("scraper.contest_base_url", "https://patroll.unifiedpatents.com/")
	viper.SetDefault("scraper.contest_path_prefix", "/contests/")
	viper.SetDefault("scraper.patent_link_prefix", "https://www.google.com")
	viper.SetDefault("scraper.patent_id_offset", 31)
	viper.SetDefault("scraper.secondary_base_url", "https://www.unifiedpatents.com")
	viper.SetDefault("scraper.listing_container", "ul.ant-list-items")
	viper.SetDefault("scraper.next_page_selector", `li.ant-pagination-next[title="Next Page"]`)
	viper.SetDefault("scraper.title_selector", "h1")
	viper.SetDefault("scraper.prior_art_marker", "DOWNLOAD WINNING PRIOR ART HERE:")
	viper.SetDefault("scraper.download_keyword", "DOWNLOAD")
	viper.SetDefault("scraper.prior_art_keyword", "PRIOR ART")
	viper.SetDefault("scraper.insights_segment", "insights")
	viper.SetDefault("scraper.document_extension", ".pdf")
	viper.SetDefault("scraper.link_keywords", []string{"download", "prior art", "winning"})
	viper.SetDefault("scraper.pending_keywords", []string{"pending", "in progress", "not yet", "coming soon", "active"})

	// Run shape.
	viper.SetDefault("scraper.max_pages", 10)
	viper.SetDefault("scraper.workers", 4)
	viper.SetDefault("scraper.parallel", false)
	viper.SetDefault("scraper.prompt_timeout", "5s")
	viper.SetDefault("scraper.output_path", "scraped_data.json")

	// Per-stage fetch bounds.
	viper.SetDefault("scraper.detail_wait", "10s")
	viper.SetDefault("scraper.secondary_wait", "15s")
	viper.SetDefault("scraper.next_page_wait", "5s")
	viper.SetDefault("scraper.settle_delay", "2s")
	viper.SetDefault("scraper.click_settle", "200ms")

	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	viper.SetDefault("browser.domain_qps", 0.0)

	viper.SetDefault("detector.min_html_bytes", 2000)
	viper.SetDefault("detector.required_selector", "p")

	viper.SetDefault("server.metrics_enabled", false)
	viper.SetDefault("server.port", 9090)

	viper.SetDefault("logging.development", true)

	viper.SetEnvPrefix("PATROLL") // e.g., PATROLL_SCRAPER_MAX_PAGES=5
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
