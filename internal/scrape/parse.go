// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

// ErrMalformedPage is returned when a page does not have the structure the
// parser expects. There is no alternate parsing path, so callers treat it as
// fatal.
var ErrMalformedPage = errors.New("malformed page")

// sampleContainer is the id of the element holding the sample dataset list
// on the downloads page.
const sampleContainer = "div#sample_datasets"

// ParseDatasetList reads the dataset listing page and returns dataset names
// in document order. Each table row carries an href attribute whose final
// path segment is the dataset name. Duplicates are kept.
func ParseDatasetList(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var names []string
	var rowErr error
	doc.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		href, ok := tr.Attr("href")
		if !ok {
			rowErr = fmt.Errorf("%w: dataset row %d has no href", ErrMalformedPage, i)
			return false
		}
		names = append(names, lastSegment(href))
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return names, nil
}

// ParseDatasetInfo reads a dataset detail page and returns its sensors.
//
// Each table row's first cell holds the sensor name on its first line, a
// trailing note on its last line, and "Key: Value" properties in between.
// The cell's first link is the download; a link reading "available soon"
// records types.AvailableSoon instead of the href.
func ParseDatasetInfo(r io.Reader) (types.DatasetEntry, error) {
	var entry types.DatasetEntry

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return entry, fmt.Errorf("parsing HTML: %w", err)
	}

	var rowErr error
	doc.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		name, rec, err := parseSensorRow(tr)
		if err != nil {
			rowErr = fmt.Errorf("%w: sensor row %d: %v", ErrMalformedPage, i, err)
			return false
		}
		entry.Set(name, rec)
		return true
	})
	if rowErr != nil {
		return types.DatasetEntry{}, rowErr
	}
	return entry, nil
}

func parseSensorRow(tr *goquery.Selection) (string, types.SensorRecord, error) {
	var rec types.SensorRecord

	td := tr.Find("td").First()
	if td.Length() == 0 {
		return "", rec, errors.New("no table cell")
	}

	lines := splitLines(strings.TrimSpace(td.Text()))
	if len(lines) < 2 {
		return "", rec, errors.New("cell has no sensor name")
	}
	lines = lines[:len(lines)-1]
	name := strings.TrimSpace(lines[0])

	for _, line := range lines[1:] {
		k, v, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		p := types.Property{Key: strings.TrimSpace(k), Value: strings.TrimSpace(v)}
		rec.Properties = append(rec.Properties, p)
		if p.Key == "Size" {
			rec.Size = p.Value
		}
	}

	a := td.Find("a").First()
	if a.Length() == 0 {
		return "", rec, errors.New("no download link")
	}
	if strings.Contains(strings.ToLower(a.Text()), "available soon") {
		rec.Download = types.AvailableSoon
	} else {
		href, ok := a.Attr("href")
		if !ok {
			return "", rec, errors.New("download link has no href")
		}
		rec.Download = href
	}
	return name, rec, nil
}

// ParseSampleDatasets reads the downloads page and returns the sample
// datasets listed under the sample container, keyed by name, together with
// the names in document order.
//
// Each list item starts with text of the form "<name> ... (<size>)" followed
// by a link to the archive.
func ParseSampleDatasets(r io.Reader) (map[string]types.SensorRecord, []string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing HTML: %w", err)
	}

	container := doc.Find(sampleContainer).First()
	if container.Length() == 0 {
		return nil, nil, fmt.Errorf("%w: %s not found", ErrMalformedPage, sampleContainer)
	}

	samples := make(map[string]types.SensorRecord)
	var order []string
	var itemErr error
	container.Find("li").EachWithBreak(func(i int, li *goquery.Selection) bool {
		name, rec, err := parseSampleItem(li)
		if err != nil {
			itemErr = fmt.Errorf("%w: sample item %d: %v", ErrMalformedPage, i, err)
			return false
		}
		if _, seen := samples[name]; !seen {
			order = append(order, name)
		}
		samples[name] = rec
		return true
	})
	if itemErr != nil {
		return nil, nil, itemErr
	}
	return samples, order, nil
}

func parseSampleItem(li *goquery.Selection) (string, types.SensorRecord, error) {
	var rec types.SensorRecord

	first := li.Contents().First()
	if first.Length() == 0 || first.Nodes[0].Type != html.TextNode {
		return "", rec, errors.New("item does not start with text")
	}
	text := first.Nodes[0].Data

	before, after, ok := strings.Cut(text, "(")
	if !ok {
		return "", rec, errors.New("no size in parentheses")
	}
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return "", rec, errors.New("no sample name")
	}
	size, _, _ := strings.Cut(after, ")")
	rec.Size = size

	href, ok := li.Find("a").First().Attr("href")
	if !ok {
		return "", rec, errors.New("no download link")
	}
	rec.Download = href
	return fields[0], rec, nil
}

// splitLines splits s on newlines, accepting both "\n" and "\r\n".
func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// lastSegment returns everything after the final "/" in s.
func lastSegment(s string) string {
	return s[strings.LastIndex(s, "/")+1:]
}
