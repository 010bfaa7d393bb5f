// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches the dataset site and turns its HTML tables into a
// catalog of datasets, sensors, and download links.
//
// Every call performs a live fetch; nothing is cached between calls. Network
// failures, non-200 responses, and pages that do not match the expected
// structure are returned as errors and are not retried.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/radar-fetch/internal/httputil"
	"github.com/pdiddy/radar-fetch/pkg/types"
)

// DefaultBaseURL is the dataset site start page.
const DefaultBaseURL = "http://ori.ox.ac.uk/datasets/radar-robotcar-dataset"

// Scraper reads the dataset catalog from the dataset site.
type Scraper struct {
	client       *http.Client
	userAgent    string
	baseURL      string
	datasetsURL  string
	downloadsURL string
}

// New resolves the canonical base URL by following redirects from
// cfg.BaseURL and returns a Scraper rooted at it.
func New(ctx context.Context, client *http.Client, cfg types.ScrapeConfig) (*Scraper, error) {
	start := cfg.BaseURL
	if start == "" {
		start = DefaultBaseURL
	}

	base, err := httputil.FinalURL(ctx, client, start, cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("resolving dataset site %s: %w", start, err)
	}
	base = strings.TrimSuffix(base, "/")

	return &Scraper{
		client:       client,
		userAgent:    cfg.UserAgent,
		baseURL:      base,
		datasetsURL:  base + "/datasets",
		downloadsURL: base + "/downloads",
	}, nil
}

// BaseURL returns the resolved site URL.
func (s *Scraper) BaseURL() string { return s.baseURL }

// DatasetList returns the dataset names listed on the datasets page, in
// page order.
func (s *Scraper) DatasetList(ctx context.Context) ([]string, error) {
	resp, err := httputil.Get(ctx, s.client, s.datasetsURL, s.userAgent)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset list: %w", err)
	}
	defer resp.Body.Close()

	names, err := ParseDatasetList(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset list: %w", err)
	}
	return names, nil
}

// DatasetInfo returns the sensors of a single dataset.
func (s *Scraper) DatasetInfo(ctx context.Context, dataset string) (types.DatasetEntry, error) {
	resp, err := httputil.Get(ctx, s.client, s.datasetsURL+"/"+dataset, s.userAgent)
	if err != nil {
		return types.DatasetEntry{}, fmt.Errorf("fetching dataset %s: %w", dataset, err)
	}
	defer resp.Body.Close()

	entry, err := ParseDatasetInfo(resp.Body)
	if err != nil {
		return types.DatasetEntry{}, fmt.Errorf("parsing dataset %s: %w", dataset, err)
	}
	return entry, nil
}

// SampleDatasets returns the sample datasets from the downloads page and
// their names in page order.
func (s *Scraper) SampleDatasets(ctx context.Context) (map[string]types.SensorRecord, []string, error) {
	resp, err := httputil.Get(ctx, s.client, s.downloadsURL, s.userAgent)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching sample datasets: %w", err)
	}
	defer resp.Body.Close()

	samples, order, err := ParseSampleDatasets(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing sample datasets: %w", err)
	}
	return samples, order, nil
}

// Catalog fetches the entry of every named dataset, in order.
func (s *Scraper) Catalog(ctx context.Context, datasets []string) (types.Catalog, error) {
	var c types.Catalog
	for _, name := range datasets {
		entry, err := s.DatasetInfo(ctx, name)
		if err != nil {
			return types.Catalog{}, err
		}
		c.Add(name, entry)
	}
	return c, nil
}
