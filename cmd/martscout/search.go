package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martscout/martscout/internal/config"
	"github.com/martscout/martscout/internal/storage"
	"github.com/martscout/martscout/internal/types"
)

var (
	searchDays     int
	searchLocation string
	searchJSON     bool
	searchOutput   string
	searchDebug    bool
	noHeadless     bool
)

// searchCmd creates the "search" subcommand.
func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search marketplace listings",
		Long: `Search the marketplace for listings matching a free-text term.

Results are printed as human-readable blocks by default; use --json for
machine-readable output or --output to write them to a file. Zero results
is a success, not a failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchDays, "days", 0, "only show listings from the last N days (e.g. 1, 7, 30)")
	cmd.Flags().StringVar(&searchLocation, "location", "", "marketplace location id (default: configured UK region)")
	cmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	cmd.Flags().StringVarP(&searchOutput, "output", "o", "", "write results to a file (.json or .jsonl)")
	cmd.Flags().BoolVar(&searchDebug, "debug", false, "save a debug screenshot of the rendered page")
	cmd.Flags().BoolVar(&noHeadless, "no-headless", false, "show the browser window")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if searchDebug {
		cfg.Debug.Enabled = true
	}
	if noHeadless {
		cfg.Browser.Headless = false
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	term := strings.Join(args, " ")
	if !searchJSON {
		fmt.Printf("Searching for: %s\n", term)
		fmt.Println(strings.Repeat("-", 50))
	}

	listings, err := svc.Search(context.Background(), types.SearchQuery{
		Term:       term,
		LocationID: searchLocation,
		MaxAgeDays: searchDays,
	})
	if err != nil {
		return err
	}

	if searchOutput != "" {
		if err := storage.WriteListings(searchOutput, listings, logger); err != nil {
			return err
		}
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	if len(listings) == 0 {
		fmt.Println("No listings found. Use --debug to save a screenshot for inspection.")
		return nil
	}

	for _, l := range listings {
		fmt.Printf("\nTitle: %s\n", l.Title)
		fmt.Printf("Price: %s\n", l.Price)
		fmt.Printf("Location: %s\n", l.Location)
		fmt.Printf("URL: %s\n", l.URL)
	}
	fmt.Printf("\n%s\n", strings.Repeat("-", 50))
	fmt.Printf("Found %d listings\n", len(listings))
	return nil
}

var detailJSON bool

// detailCmd creates the "detail" subcommand.
func detailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail [listing-id]",
		Short: "Fetch the full record for one listing",
		Args:  cobra.ExactArgs(1),
		RunE:  runDetail,
	}

	cmd.Flags().BoolVar(&detailJSON, "json", false, "output as JSON")

	return cmd
}

func runDetail(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	detail, err := svc.GetDetail(context.Background(), args[0])
	if err != nil {
		return err
	}

	if detailJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Printf("Title: %s\n", detail.Title)
	fmt.Printf("Price: %s\n", detail.Price)
	fmt.Printf("Location: %s\n", detail.Location)
	if detail.Condition != "" {
		fmt.Printf("Condition: %s\n", detail.Condition)
	}
	if detail.ListedDate != "" {
		fmt.Printf("Listed: %s\n", detail.ListedDate)
	}
	if detail.Description != "" {
		fmt.Printf("\n%s\n", detail.Description)
	}
	fmt.Printf("\nURL: %s\n", detail.URL)
	return nil
}
