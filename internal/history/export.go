// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookscan/pkg/types"
)

// ExportEntry is one run as written to export files.
type ExportEntry struct {
	ID           string  `json:"id" yaml:"id"`
	Input        string  `json:"input" yaml:"input"`
	Strategy     string  `json:"strategy" yaml:"strategy"`
	Horizon      int     `json:"horizon" yaml:"horizon"`
	Libraries    int     `json:"libraries" yaml:"libraries"`
	SignedUp     int     `json:"signed_up" yaml:"signed_up"`
	BooksScanned int     `json:"books_scanned" yaml:"books_scanned"`
	Score        int     `json:"score" yaml:"score"`
	Seconds      float64 `json:"seconds" yaml:"seconds"`
	CreatedAt    string  `json:"created_at" yaml:"created_at"`
}

const exportLimit = 100000

// ExportYAML writes the matching runs to <dir>/export.yaml and returns the
// path written.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the matching runs to <dir>/export.json and returns the
// path written.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	runs, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		entries[i] = toExportEntry(r)
	}
	return entries, nil
}

func toExportEntry(r types.RunRecord) ExportEntry {
	return ExportEntry{
		ID:           r.ID,
		Input:        r.Input,
		Strategy:     string(r.Strategy),
		Horizon:      r.Horizon,
		Libraries:    r.Libraries,
		SignedUp:     r.SignedUp,
		BooksScanned: r.BooksScanned,
		Score:        r.Score,
		Seconds:      r.Duration.Seconds(),
		CreatedAt:    r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
