// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

const sampleDatasetListHTML = `<html><body><table>
<tr href="/datasets/radar-robotcar-dataset/datasets/2019-01-10-11-46-21-radar-oxford-10k"><td>2019-01-10-11-46-21</td></tr>
<tr href="/datasets/radar-robotcar-dataset/datasets/2019-01-10-12-32-52-radar-oxford-10k"><td>2019-01-10-12-32-52</td></tr>
<tr href="/datasets/radar-robotcar-dataset/datasets/2019-01-10-11-46-21-radar-oxford-10k"><td>duplicate</td></tr>
</table></body></html>`

const sampleDatasetInfoHTML = `<html><body><table>
<tr><td>Navtech CTS350-X Radar
Format: PNG
Size: 5.2 GB
<a href="https://drive.google.com/uc/1RaDaRaBc">Download</a></td></tr>
<tr><td>Velodyne HDL-32E Left
Format: Binary
Size: 512 MB
<a href="#">Available Soon</a></td></tr>
<tr><td>Grasshopper2 Left
Format: JPG
<a href="https://drive.google.com/uc/1GrAsS">Download</a></td></tr>
</table></body></html>`

const sampleDownloadsHTML = `<html><body>
<div id="other"><ul><li>Ignored (1 GB) <a href="https://example.com/ignored">x</a></li></ul></div>
<div id="sample_datasets"><ul>
<li>Tiny Sample Dataset (1.3 GB) <a href="https://drive.google.com/uc/1TiNy">Download</a></li>
<li>Small Sample Dataset (5.6 GB) <a href="https://drive.google.com/uc/1SmAlL">Download</a></li>
</ul></div>
</body></html>`

func TestParseDatasetList(t *testing.T) {
	names, err := ParseDatasetList(strings.NewReader(sampleDatasetListHTML))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2019-01-10-11-46-21-radar-oxford-10k",
		"2019-01-10-12-32-52-radar-oxford-10k",
		"2019-01-10-11-46-21-radar-oxford-10k",
	}, names)
}

func TestParseDatasetList_RowWithoutHref(t *testing.T) {
	_, err := ParseDatasetList(strings.NewReader(`<table><tr><td>x</td></tr></table>`))
	assert.ErrorIs(t, err, ErrMalformedPage)
}

func TestParseDatasetList_NoRows(t *testing.T) {
	names, err := ParseDatasetList(strings.NewReader(`<html><body><p>nothing</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestParseDatasetInfo(t *testing.T) {
	entry, err := ParseDatasetInfo(strings.NewReader(sampleDatasetInfoHTML))
	require.NoError(t, err)

	assert.Equal(t, []string{"Navtech CTS350-X Radar", "Velodyne HDL-32E Left", "Grasshopper2 Left"}, entry.Keys())

	radar, ok := entry.Get("Navtech CTS350-X Radar")
	require.True(t, ok)
	assert.Equal(t, "5.2 GB", radar.Size)
	assert.Equal(t, "https://drive.google.com/uc/1RaDaRaBc", radar.Download)
	assert.Equal(t, []types.Property{{Key: "Format", Value: "PNG"}, {Key: "Size", Value: "5.2 GB"}}, radar.Properties)

	lidar, _ := entry.Get("Velodyne HDL-32E Left")
	assert.Equal(t, types.AvailableSoon, lidar.Download)
	assert.Equal(t, "512 MB", lidar.Size)

	camera, _ := entry.Get("Grasshopper2 Left")
	assert.Empty(t, camera.Size)
	format, ok := camera.Property("Format")
	assert.True(t, ok)
	assert.Equal(t, "JPG", format)
}

func TestParseDatasetInfo_DownloadSentinel(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		want   string
	}{
		{"plain link", `<a href="https://x/1abc">Download</a>`, "https://x/1abc"},
		{"available soon", `<a href="https://x/1abc">Available Soon</a>`, types.AvailableSoon},
		{"mixed case", `<a href="https://x/1abc">Data AVAILABLE soon!</a>`, types.AvailableSoon},
		{"href kept verbatim", `<a href="relative/path?id=7">Get</a>`, "relative/path?id=7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := "<table><tr><td>Sensor\nSize: 1 GB\n" + tt.anchor + "</td></tr></table>"
			entry, err := ParseDatasetInfo(strings.NewReader(page))
			require.NoError(t, err)
			rec, ok := entry.Get("Sensor")
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.Download)
		})
	}
}

func TestParseDatasetInfo_Malformed(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"row without cell", `<table><tr><th>Header</th></tr></table>`},
		{"cell without anchor", "<table><tr><td>Sensor\nSize: 1 GB\nnote</td></tr></table>"},
		{"cell with single line", `<table><tr><td><a href="x">Download</a></td></tr></table>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDatasetInfo(strings.NewReader(tt.page))
			assert.ErrorIs(t, err, ErrMalformedPage)
		})
	}
}

func TestParseSampleDatasets(t *testing.T) {
	samples, order, err := ParseSampleDatasets(strings.NewReader(sampleDownloadsHTML))
	require.NoError(t, err)

	assert.Equal(t, []string{"Tiny", "Small"}, order)
	assert.Equal(t, types.SensorRecord{Size: "1.3 GB", Download: "https://drive.google.com/uc/1TiNy"}, samples["Tiny"])
	assert.Equal(t, types.SensorRecord{Size: "5.6 GB", Download: "https://drive.google.com/uc/1SmAlL"}, samples["Small"])
	assert.NotContains(t, samples, "Ignored")
}

func TestParseSampleDatasets_Malformed(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"missing container", `<div id="elsewhere"></div>`},
		{"no parentheses", `<div id="sample_datasets"><li>Tiny <a href="x">d</a></li></div>`},
		{"no anchor", `<div id="sample_datasets"><li>Tiny (1 GB)</li></div>`},
		{"starts with element", `<div id="sample_datasets"><li><a href="x">Tiny (1 GB)</a></li></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseSampleDatasets(strings.NewReader(tt.page))
			assert.ErrorIs(t, err, ErrMalformedPage)
		})
	}
}
