// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/radar-fetch/internal/plan"
	"github.com/pdiddy/radar-fetch/internal/scrape"
	"github.com/pdiddy/radar-fetch/pkg/types"
)

const (
	contactAddress = "radarrobotcardataset@robots.ox.ac.uk"
	rule           = "=========================================================="
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	headingColor.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

func printBanner(w io.Writer, baseURL string) {
	heading(w, "Oxford Radar RobotCar Dataset Downloader")
	fmt.Fprintf(w, "Any issues please contact: %s\n", contactAddress)
	fmt.Fprintf(w, "Scraping dataset info from: %s\n", baseURL)
}

// selection is the outcome of filtering the live catalog.
type selection struct {
	plan    types.DownloadPlan
	entries map[string]types.DatasetEntry
}

// selectPlan scrapes the catalog, applies the dataset and sensor filters in
// dc, prints each step to w, and returns the resulting plan. An invalid
// filter token prints the valid choices before the error is returned.
func selectPlan(ctx context.Context, client *http.Client, sc types.ScrapeConfig, dc types.DownloadConfig, w io.Writer) (selection, error) {
	s, err := scrape.New(ctx, client, sc)
	if err != nil {
		return selection{}, err
	}
	printBanner(w, s.BaseURL())

	allDatasets, err := s.DatasetList(ctx)
	if err != nil {
		return selection{}, err
	}
	if len(allDatasets) == 0 {
		return selection{}, fmt.Errorf("no datasets listed at %s", s.BaseURL())
	}

	// The first dataset's sensor set stands in for every dataset.
	entries := map[string]types.DatasetEntry{}
	first, err := s.DatasetInfo(ctx, allDatasets[0])
	if err != nil {
		return selection{}, err
	}
	entries[allDatasets[0]] = first
	allSensors := first.Keys()

	heading(w, "Available Datasets:")
	fmt.Fprintln(w, strings.Join(allDatasets, "\n"))

	datasets, err := plan.Select(allDatasets, dc.Datasets, "dataset")
	if err != nil {
		return selection{}, reportInvalid(w, err)
	}
	if dc.Datasets != "" {
		heading(w, fmt.Sprintf("Datasets Matching Filter --datasets `%s`:", dc.Datasets))
		fmt.Fprintln(w, strings.Join(datasets, "\n"))
	}

	heading(w, "Available Sensors:")
	fmt.Fprintln(w, strings.Join(allSensors, "\n"))

	sensors, err := plan.Select(allSensors, dc.Sensors, "sensor")
	if err != nil {
		return selection{}, reportInvalid(w, err)
	}
	if dc.Sensors != "" {
		heading(w, fmt.Sprintf("Sensors Matching Filter --sensors `%s`:", dc.Sensors))
		fmt.Fprintln(w, strings.Join(sensors, "\n"))
	}

	p, err := plan.Build(datasets, sensors, func(ds string) (types.DatasetEntry, error) {
		if e, ok := entries[ds]; ok {
			return e, nil
		}
		e, err := s.DatasetInfo(ctx, ds)
		if err != nil {
			return types.DatasetEntry{}, err
		}
		entries[ds] = e
		return e, nil
	})
	if err != nil {
		return selection{}, err
	}

	sel := selection{plan: p, entries: entries}
	printMatches(w, sel, dc.Verbose)
	return sel, nil
}

func reportInvalid(w io.Writer, err error) error {
	var inv *plan.InvalidTokenError
	if !errors.As(err, &inv) {
		return err
	}
	fmt.Fprintln(w)
	errorColor.Fprintf(w, "Could not find %s: '%s'. Please check it is one of the below %ss\n", inv.Kind, inv.Token, inv.Kind)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, strings.Join(inv.Valid, "\n"))
	return err
}

func printMatches(w io.Writer, sel selection, verbose bool) {
	heading(w, "Finding Matching Files...")
	fmt.Fprintf(w, "%8s : %-48s - %-50s - %-17s - %s\n", "Match No", "Dataset", "Sensor", "Download Size", "Download Link")

	prev := ""
	for i, e := range sel.plan.Entries {
		if prev != "" && e.Dataset != prev {
			fmt.Fprintln(w)
		}
		prev = e.Dataset

		link := e.Download
		if !e.Available() {
			link = warnColor.Sprint(e.Download)
		}
		fmt.Fprintf(w, "%8d : %-48s - %-50s - %-17s - %s\n", i+1, e.Dataset, e.Sensor, e.Size, link)

		if verbose {
			entry := sel.entries[e.Dataset]
			rec, _ := entry.Get(e.Sensor)
			for _, prop := range rec.Properties {
				fmt.Fprintf(w, "%8s : %s: %s\n", "Verbose", prop.Key, prop.Value)
			}
			fmt.Fprintf(w, "%8s : Download: %s\n", "Verbose", rec.Download)
		}
	}
}

func printTotals(w io.Writer, p types.DownloadPlan) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Number of files to download: %d\n", len(p.Entries))
	fmt.Fprintf(w, "Total download size (before unpacking): %.2f GB\n", p.TotalGB)
	if n := len(p.Entries) - p.Available(); n > 0 {
		warnColor.Fprintf(w, "%d file(s) are not available yet and will be skipped\n", n)
	}
}
