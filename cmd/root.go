// Package cmd defines and implements the CLI commands for the patroll-scraper
// executable.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/unifiedcrawl/patroll-scraper/internal/logging"
	"github.com/unifiedcrawl/patroll-scraper/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patroll-scraper",
		Short: "Scrapes won patent contests from the Patroll listing site.",
		Long: `patroll-scraper paginates through the Unified Patents contest listing,
extracts per-contest metadata (title, patent identifier, prior-art document
link) with a headless browser, and writes the aggregated results to a JSON
file.`,
	}

	cobra.OnInitialize(func() {
		// Bootstrap logger so config loading can log; re-init below once the
		// logging.development knob is known.
		logging.InitLogger(true)
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
		config.InitConfig()
		logging.InitLogger(viper.GetBool("logging.development"))
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
