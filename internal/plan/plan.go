// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan filters a scraped catalog by dataset and sensor names and
// produces the ordered list of archives to transfer.
package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

// ErrInvalidToken is matched by every *InvalidTokenError.
var ErrInvalidToken = errors.New("invalid filter token")

// InvalidTokenError reports a filter token that names no known dataset or
// sensor. Valid lists every accepted name, in catalog order.
type InvalidTokenError struct {
	Kind  string
	Token string
	Valid []string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("could not find %s: %q", e.Kind, e.Token)
}

// Is reports whether target is ErrInvalidToken.
func (e *InvalidTokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// ParseFilter splits a comma-separated filter. Tokens are not trimmed, so
// "a, b" yields "a" and " b". An empty filter yields nil.
func ParseFilter(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Select applies filter to all. With no filter it returns a copy of all in
// catalog order. Otherwise it returns the filter tokens in the given order,
// duplicates included, after checking that each names an entry of all. The
// first unknown token aborts with an *InvalidTokenError; kind names the
// dimension ("dataset" or "sensor") in that error.
func Select(all []string, filter, kind string) ([]string, error) {
	tokens := ParseFilter(filter)
	if tokens == nil {
		out := make([]string, len(all))
		copy(out, all)
		return out, nil
	}

	known := make(map[string]bool, len(all))
	for _, name := range all {
		known[name] = true
	}
	for _, tok := range tokens {
		if !known[tok] {
			valid := make([]string, len(all))
			copy(valid, all)
			return nil, &InvalidTokenError{Kind: kind, Token: tok, Valid: valid}
		}
	}
	return tokens, nil
}

// EntryFunc returns the sensors of a dataset. The scraper's DatasetInfo
// satisfies it once bound to a context.
type EntryFunc func(dataset string) (types.DatasetEntry, error)

// Build walks datasets in order and, within each, sensors in order, emitting
// one plan entry for every sensor present in that dataset's entry. Sensors
// absent from a dataset are skipped without error. Sizes that parse are
// summed into TotalGB.
func Build(datasets, sensors []string, lookup EntryFunc) (types.DownloadPlan, error) {
	var p types.DownloadPlan
	for _, ds := range datasets {
		entry, err := lookup(ds)
		if err != nil {
			return types.DownloadPlan{}, err
		}
		for _, sensor := range sensors {
			rec, ok := entry.Get(sensor)
			if !ok {
				continue
			}
			p.Entries = append(p.Entries, types.PlanEntry{
				Dataset:  ds,
				Sensor:   sensor,
				Size:     rec.Size,
				Download: rec.Download,
			})
			if rec.Size != "" {
				p.TotalGB += SizeToGB(rec.Size)
			}
		}
	}
	return p, nil
}

// FromCatalog builds a plan from an already fetched catalog. Datasets
// missing from the catalog are skipped.
func FromCatalog(c types.Catalog, datasets, sensors []string) types.DownloadPlan {
	p, _ := Build(datasets, sensors, func(ds string) (types.DatasetEntry, error) {
		e, _ := c.Entry(ds)
		return e, nil
	})
	return p
}
