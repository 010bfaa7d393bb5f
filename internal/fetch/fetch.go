// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch executes a download plan: each available entry is
// transferred, unpacked into the destination folder, and its archive removed.
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/pdiddy/radar-fetch/internal/transfer"
	"github.com/pdiddy/radar-fetch/pkg/types"
)

// Extractor unpacks the archive at path into dest and returns the extracted
// paths. archive.Extract satisfies it.
type Extractor func(path, dest string) ([]string, error)

// Recorder receives one call per completed entry. A nil Recorder disables
// recording.
type Recorder interface {
	Record(ctx context.Context, runID string, e types.PlanEntry, archive string) error
}

// Result holds the outcome of a run.
type Result struct {
	RunID      string
	Downloaded int
	Skipped    int
}

// Total returns the number of entries processed.
func (r Result) Total() int {
	return r.Downloaded + r.Skipped
}

// Run executes plan entries in order. Entries marked "Available Soon" are
// reported and skipped without touching the backend. The first failure stops
// the run; the partial Result is returned with the error and archives already
// unpacked stay in place.
func Run(ctx context.Context, t transfer.Transfer, ex Extractor, plan types.DownloadPlan, dest string, w io.Writer, rec Recorder) (Result, error) {
	var result Result
	id, err := uuid.NewV7()
	if err != nil {
		return result, fmt.Errorf("generating run id: %w", err)
	}
	result.RunID = id.String()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return result, fmt.Errorf("creating %s: %w", dest, err)
	}

	n := len(plan.Entries)
	for i, e := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fmt.Fprintf(w, "Downloading %4d / %4d : %s - %s - %s\n", i+1, n, e.Dataset, e.Sensor, e.Size)
		if !e.Available() {
			fmt.Fprintln(w, "  not available yet, skipping")
			result.Skipped++
			continue
		}

		archive, err := t.Download(ctx, transfer.IDFor(t, e), dest)
		if err != nil {
			return result, fmt.Errorf("%s %s: %w", e.Dataset, e.Sensor, err)
		}

		fmt.Fprintf(w, "  extracting into: %s\n", dest)
		if _, err := ex(archive, dest); err != nil {
			return result, fmt.Errorf("%s %s: unpacking %s: %w", e.Dataset, e.Sensor, archive, err)
		}
		fmt.Fprintf(w, "  deleting archive: %s\n", archive)
		if err := os.Remove(archive); err != nil {
			return result, fmt.Errorf("%s %s: removing %s: %w", e.Dataset, e.Sensor, archive, err)
		}

		if rec != nil {
			if err := rec.Record(ctx, result.RunID, e, archive); err != nil {
				return result, fmt.Errorf("%s %s: recording: %w", e.Dataset, e.Sensor, err)
			}
		}
		result.Downloaded++
	}

	fmt.Fprintf(w, "\nSummary: %d downloaded, %d skipped (total: %d)\n",
		result.Downloaded, result.Skipped, result.Total())
	return result, nil
}
