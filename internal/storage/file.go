// Package storage writes scrape results to local files for the CLI
// --output flag. Results live for one run only; there is no cross-run
// persistence.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/martscout/martscout/internal/types"
)

// WriteListings writes listings to path. A ".jsonl" extension selects
// newline-delimited JSON (one record per line); anything else gets an
// indented JSON array.
func WriteListings(path string, listings []types.ListingSummary, logger *slog.Logger) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		for _, l := range listings {
			if err := enc.Encode(l); err != nil {
				return fmt.Errorf("encode JSONL: %w", err)
			}
		}
	} else {
		enc.SetIndent("", "  ")
		if err := enc.Encode(listings); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	}

	logger.Info("results written", "path", path, "listings", len(listings))
	return nil
}
