// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"net/url"
	"path"
	"strings"
)

// PlanEntry is one (dataset, sensor) transfer job.
type PlanEntry struct {
	Dataset  string `json:"dataset" yaml:"dataset"`
	Sensor   string `json:"sensor" yaml:"sensor"`
	Size     string `json:"size" yaml:"size"`
	Download string `json:"download" yaml:"download"`
}

// Available reports whether the entry can be transferred.
func (e PlanEntry) Available() bool {
	return !strings.Contains(strings.ToLower(e.Download), "available soon")
}

// Identifier returns the file identifier the transfer backends expect: the
// "id" query parameter when the link carries one (Drive "open?id=" links),
// otherwise the final path segment of the link.
func (e PlanEntry) Identifier() string {
	p := e.Download
	if u, err := url.Parse(e.Download); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id
		}
		if u.Path != "" {
			p = u.Path
		}
	}
	return path.Base(strings.TrimSuffix(p, "/"))
}

// DownloadPlan is the ordered list of transfer jobs produced by filtering a
// catalog, plus the summed archive size.
type DownloadPlan struct {
	Entries []PlanEntry `json:"entries" yaml:"entries"`

	// TotalGB is the sum of all non-empty entry sizes, in gigabytes.
	TotalGB float64 `json:"total_gb" yaml:"total_gb"`
}

// Available returns the number of entries that have a real download link.
func (p DownloadPlan) Available() int {
	n := 0
	for _, e := range p.Entries {
		if e.Available() {
			n++
		}
	}
	return n
}
