package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/unifiedcrawl/patroll-scraper/internal/api"
	"github.com/unifiedcrawl/patroll-scraper/internal/browser"
	"github.com/unifiedcrawl/patroll-scraper/internal/logging"
	"github.com/unifiedcrawl/patroll-scraper/internal/prompt"
	"github.com/unifiedcrawl/patroll-scraper/internal/scraper"
)

// newScrapeCmd creates and configures the 'scrape' subcommand, which runs one
// full listing crawl and writes the result file.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs one contest listing crawl",
		Long: `Opens the contest listing, paginates through every result page, resolves
each contest's title and prior-art document link, and writes the aggregated
results to the configured output file (overwriting any previous run).`,

		RunE: runScrapeCommand,
	}
	cmd.Flags().Bool("parallel", false, "process contests with a pool of browser sessions")
	cmd.Flags().Bool("no-prompt", false, "skip the execution policy prompt and use the configured policy")
	cmd.Flags().String("output", "", "result file path (overrides config)")
	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := scraper.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load scraper config: %w", err)
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputPath = out
	}
	cfg.Parallel = resolvePolicy(cmd, cfg)

	run := scraper.NewCrawlSession()
	logger := logging.L.With(zap.String("run_id", run.RunID))
	logger.Info("starting scrape",
		zap.String("listing_url", cfg.ListingURL),
		zap.Bool("parallel", cfg.Parallel),
		zap.Int("max_pages", cfg.MaxPages))

	if viper.GetBool("server.metrics_enabled") {
		srv := api.New(viper.GetInt("server.port"), logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := srv.Shutdown(shutdownCtx); serr != nil {
				logger.Warn("metrics server shutdown failed", zap.Error(serr))
			}
		}()
	}

	browserCfg := browser.Config{
		Headless:  viper.GetBool("browser.headless"),
		UserAgent: viper.GetString("browser.user_agent"),
		DomainQPS: viper.GetFloat64("browser.domain_qps"),
	}
	factory := browser.NewFactory(browserCfg, logger)

	// The listing session drives pagination and is never used for contest
	// pages: item navigation must not clobber the listing's document state.
	listingSession, err := browser.NewSession(browserCfg, logger)
	if err != nil {
		return fmt.Errorf("launch listing browser: %w", err)
	}
	defer func() {
		if cerr := listingSession.Close(); cerr != nil {
			logger.Warn("listing session close failed", zap.Error(cerr))
		}
	}()

	var itemSession scraper.Navigator
	if !cfg.Parallel {
		sess, serr := factory.NewSession(ctx)
		if serr != nil {
			return fmt.Errorf("launch scrape browser: %w", serr)
		}
		defer func() {
			if cerr := sess.Close(); cerr != nil {
				logger.Warn("scrape session close failed", zap.Error(cerr))
			}
		}()
		itemSession = sess
	}

	var static scraper.StaticFetcher
	if colly, cerr := scraper.NewCollyFetcher(browserCfg.UserAgent, cfg.SecondaryWait, logger); cerr != nil {
		logger.Warn("static fetcher unavailable; secondary pages will always render", zap.Error(cerr))
	} else {
		static = colly
	}
	detector := scraper.NewShellDetector(cfg.DetectorMinHTMLBytes, cfg.DetectorRequiredSelector)

	dispatcher := scraper.NewDispatcher(cfg, itemSession, chromeSessions{factory}, static, detector, logger)
	paginator := scraper.NewPaginator(listingSession, cfg, logger)

	if err := paginator.Run(ctx, func(page int, batch scraper.ListingBatch) {
		if !batch.Aligned() {
			logger.Warn("listing page misaligned; truncating to shorter side",
				zap.Int("page", page),
				zap.Int("contest_links", len(batch.ContestURLs)),
				zap.Int("patent_ids", len(batch.PatentIDs)))
		}
		entries := batch.Entries()
		if len(entries) == 0 {
			return
		}
		logger.Info("processing listing page",
			zap.Int("page", page), zap.Int("contests", len(entries)))
		run.Append(dispatcher.Dispatch(ctx, entries)...)
		run.PagesVisited = page
	}); err != nil {
		return fmt.Errorf("open listing: %w", err)
	}

	doc := scraper.BuildResultDocument(run.Entries())
	logger.Info("scrape completed",
		zap.Int("pages", run.PagesVisited),
		zap.Int("contests", doc.TotalCount),
		zap.Int("titles_found", countPresent(doc.ContestTitles)),
		zap.Int("documents_found", countPresent(doc.PDFPaths)))

	sink := scraper.NewFileSink(cfg.OutputPath, logger)
	if err := sink.Write(ctx, doc); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// resolvePolicy picks the execution policy: an explicit flag wins, then the
// config value when prompting is disabled, otherwise the timed prompt with
// the config value as default.
func resolvePolicy(cmd *cobra.Command, cfg scraper.Config) bool {
	if cmd.Flags().Changed("parallel") {
		parallel, _ := cmd.Flags().GetBool("parallel")
		return parallel
	}
	if noPrompt, _ := cmd.Flags().GetBool("no-prompt"); noPrompt {
		return cfg.Parallel
	}
	return prompt.ChooseParallel(os.Stdin, os.Stdout, cfg.PromptTimeout, cfg.Parallel)
}

func countPresent(values []*string) int {
	n := 0
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}

// chromeSessions adapts the browser factory to the scraper's SessionFactory.
type chromeSessions struct {
	factory *browser.Factory
}

func (c chromeSessions) NewSession(ctx context.Context) (scraper.Navigator, error) {
	sess, err := c.factory.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	return sess, nil
}
