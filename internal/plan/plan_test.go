// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

func TestSizeToGB(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1 GB", 1},
		{"512 MB", 0.5},
		{"1048576 KB", 1},
		{"1073741824 B", 1},
		{"2.5 gb", 2.5},
		{"256 mb", 0.25},
		{"  3 GB  ", 3},
		{"", 0},
		{"unknown", 0},
		{"abc GB", 0},
		{"5 TB", 0},
		{"1 GB extra", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, SizeToGB(tt.in), 1e-12)
		})
	}
}

func TestParseFilter(t *testing.T) {
	assert.Nil(t, ParseFilter(""))
	assert.Equal(t, []string{"a"}, ParseFilter("a"))
	assert.Equal(t, []string{"a", " b", ""}, ParseFilter("a, b,"))
}

func TestSelect_NoFilterIsIdentity(t *testing.T) {
	all := []string{"c", "a", "b"}
	got, err := Select(all, "", "dataset")
	require.NoError(t, err)
	assert.Equal(t, all, got)

	got[0] = "mutated"
	assert.Equal(t, "c", all[0])
}

func TestSelect_KeepsFilterOrderAndDuplicates(t *testing.T) {
	got, err := Select([]string{"a", "b", "c"}, "c,a,c", "sensor")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "c"}, got)
}

func TestSelect_InvalidToken(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		token  string
	}{
		{"unknown name", "a,zzz,b", "zzz"},
		{"whitespace is not trimmed", "a, b", " b"},
		{"empty token", "a,", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Select([]string{"a", "b"}, tt.filter, "sensor")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))

			var ite *InvalidTokenError
			require.ErrorAs(t, err, &ite)
			assert.Equal(t, tt.token, ite.Token)
			assert.Equal(t, "sensor", ite.Kind)
			assert.Equal(t, []string{"a", "b"}, ite.Valid)
		})
	}
}

func entry(records map[string]types.SensorRecord, order ...string) types.DatasetEntry {
	var e types.DatasetEntry
	for _, name := range order {
		e.Set(name, records[name])
	}
	return e
}

func TestBuild(t *testing.T) {
	entries := map[string]types.DatasetEntry{
		"d1": entry(map[string]types.SensorRecord{
			"radar": {Size: "512 MB", Download: "https://x/1r"},
			"lidar": {Size: "1 GB", Download: "https://x/1l"},
			"gps":   {Size: "", Download: types.AvailableSoon},
		}, "radar", "lidar", "gps"),
		"d2": entry(map[string]types.SensorRecord{
			"radar": {Size: "1 GB", Download: "https://x/2r"},
		}, "radar"),
	}
	var lookups []string
	lookup := func(ds string) (types.DatasetEntry, error) {
		lookups = append(lookups, ds)
		return entries[ds], nil
	}

	p, err := Build([]string{"d1", "d2"}, []string{"gps", "radar", "lidar"}, lookup)
	require.NoError(t, err)

	assert.Equal(t, []string{"d1", "d2"}, lookups)
	assert.Equal(t, []types.PlanEntry{
		{Dataset: "d1", Sensor: "gps", Size: "", Download: types.AvailableSoon},
		{Dataset: "d1", Sensor: "radar", Size: "512 MB", Download: "https://x/1r"},
		{Dataset: "d1", Sensor: "lidar", Size: "1 GB", Download: "https://x/1l"},
		{Dataset: "d2", Sensor: "radar", Size: "1 GB", Download: "https://x/2r"},
	}, p.Entries)
	assert.InDelta(t, 2.5, p.TotalGB, 1e-12)
}

func TestBuild_SizeAggregation(t *testing.T) {
	e := entry(map[string]types.SensorRecord{
		"a": {Size: "512 MB"},
		"b": {Size: "1 GB"},
		"c": {Size: ""},
	}, "a", "b", "c")

	p, err := Build([]string{"d"}, []string{"a", "b", "c"}, func(string) (types.DatasetEntry, error) { return e, nil })
	require.NoError(t, err)
	assert.Len(t, p.Entries, 3)
	assert.InDelta(t, 1.5, p.TotalGB, 1e-12)
}

func TestBuild_LookupErrorStops(t *testing.T) {
	boom := errors.New("fetch failed")
	_, err := Build([]string{"d1"}, []string{"a"}, func(string) (types.DatasetEntry, error) {
		return types.DatasetEntry{}, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestFromCatalog_UnfilteredIsWholeCatalog(t *testing.T) {
	var c types.Catalog
	c.Add("d1", entry(map[string]types.SensorRecord{"radar": {Size: "1 GB"}, "lidar": {}}, "radar", "lidar"))
	c.Add("d2", entry(map[string]types.SensorRecord{"radar": {}, "lidar": {Size: "1 GB"}}, "radar", "lidar"))

	datasets, err := Select(c.Datasets, "", "dataset")
	require.NoError(t, err)
	sensors, err := Select(c.Sensors(), "", "sensor")
	require.NoError(t, err)

	p := FromCatalog(c, datasets, sensors)
	var got [][2]string
	for _, e := range p.Entries {
		got = append(got, [2]string{e.Dataset, e.Sensor})
	}
	assert.Equal(t, [][2]string{{"d1", "radar"}, {"d1", "lidar"}, {"d2", "radar"}, {"d2", "lidar"}}, got)
	assert.InDelta(t, 2.0, p.TotalGB, 1e-12)
}
