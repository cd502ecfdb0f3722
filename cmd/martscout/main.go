package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/martscout/martscout/internal/config"
	"github.com/martscout/martscout/internal/fetcher"
	"github.com/martscout/martscout/internal/scraper"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "martscout",
		Short: "MartScout is a headless marketplace listing scraper",
		Long: `MartScout drives a headless browser against marketplace search and item
pages and turns the rendered markup into structured listing records.

Operations:
  • search — query listings by free-text term, with an optional recency filter
  • detail — fetch the full record for one listing id
  • serve  — expose both operations over an HTTP JSON API`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(detailCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("MartScout %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Server:\n")
			fmt.Printf("  Bind Address:      %s\n", cfg.Server.Addr())
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Nav Timeout:       %s\n", cfg.Browser.NavTimeout)
			fmt.Printf("  Wait Timeout:      %s\n", cfg.Browser.WaitTimeout)
			fmt.Printf("  Settle Delay:      %s\n", cfg.Browser.SettleDelay)
			fmt.Printf("  Scroll Cycles:     %d (%s apart)\n", cfg.Browser.ScrollCount, cfg.Browser.ScrollDelay)
			fmt.Printf("\nSearch:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Search.BaseURL)
			fmt.Printf("  Default Location:  %s\n", cfg.Search.DefaultLocationID)
			fmt.Printf("  Locale:            %s\n", cfg.Search.Locale)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("\nDebug:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Debug.Enabled)
			fmt.Printf("  Artifact Dir:      %s\n", cfg.Debug.ArtifactDir)
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// newService wires a scraping service from the effective configuration.
func newService(cfg *config.Config, logger *slog.Logger) (*scraper.Service, error) {
	var f fetcher.Fetcher
	switch cfg.Fetcher.Type {
	case "http":
		httpFetcher, err := fetcher.NewHTTPFetcher(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create fetcher: %w", err)
		}
		f = httpFetcher
	default:
		f = fetcher.NewBrowserFetcher(cfg, logger)
	}
	return scraper.New(cfg, logger, f), nil
}
