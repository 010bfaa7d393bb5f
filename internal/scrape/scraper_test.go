// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/radar-fetch/internal/httputil"
	"github.com/pdiddy/radar-fetch/pkg/types"
)

const siteRoot = "/datasets/radar-robotcar-dataset"

// newSite serves a minimal copy of the dataset site. The start page "/"
// redirects to siteRoot, mirroring the real site's redirect.
func newSite(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, siteRoot, http.StatusFound)
	})
	mux.HandleFunc(siteRoot, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "<html>home</html>")
	})
	mux.HandleFunc(siteRoot+"/datasets", func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		io.WriteString(w, `<table>
<tr href="`+siteRoot+`/datasets/alpha"></tr>
<tr href="`+siteRoot+`/datasets/beta"></tr>
</table>`)
	})
	mux.HandleFunc(siteRoot+"/datasets/alpha", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, sampleDatasetInfoHTML)
	})
	mux.HandleFunc(siteRoot+"/datasets/beta", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "<table><tr><td>Navtech CTS350-X Radar\nSize: 1 GB\n<a href=\"https://x/1beta\">Download</a></td></tr></table>")
	})
	mux.HandleFunc(siteRoot+"/datasets/broken", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "<table><tr><td>no link here\nat all</td></tr></table>")
	})
	mux.HandleFunc(siteRoot+"/downloads", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, sampleDownloadsHTML)
	})
	return httptest.NewServer(mux)
}

func newTestScraper(t *testing.T, ts *httptest.Server) *Scraper {
	t.Helper()
	s, err := New(context.Background(), ts.Client(), types.ScrapeConfig{BaseURL: ts.URL + "/"})
	require.NoError(t, err)
	return s
}

func TestNew_ResolvesRedirect(t *testing.T) {
	ts := newSite(t, nil)
	defer ts.Close()

	s := newTestScraper(t, ts)
	assert.Equal(t, ts.URL+siteRoot, s.BaseURL())
}

func TestNew_UnreachableSite(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := New(context.Background(), ts.Client(), types.ScrapeConfig{BaseURL: ts.URL})
	var se *httputil.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestScraper_DatasetListFetchesEveryCall(t *testing.T) {
	var hits int32
	ts := newSite(t, &hits)
	defer ts.Close()
	s := newTestScraper(t, ts)

	for i := 0; i < 2; i++ {
		names, err := s.DatasetList(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, names)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestScraper_DatasetInfo(t *testing.T) {
	ts := newSite(t, nil)
	defer ts.Close()
	s := newTestScraper(t, ts)

	entry, err := s.DatasetInfo(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Len())

	_, err = s.DatasetInfo(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrMalformedPage)

	_, err = s.DatasetInfo(context.Background(), "missing")
	var se *httputil.StatusError
	assert.ErrorAs(t, err, &se)
}

func TestScraper_Catalog(t *testing.T) {
	ts := newSite(t, nil)
	defer ts.Close()
	s := newTestScraper(t, ts)

	c, err := s.Catalog(context.Background(), []string{"beta", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "alpha"}, c.Datasets)
	assert.Equal(t, []string{"Navtech CTS350-X Radar"}, c.Sensors())

	_, err = s.Catalog(context.Background(), []string{"alpha", "broken"})
	assert.ErrorIs(t, err, ErrMalformedPage)
}

func TestScraper_SampleDatasets(t *testing.T) {
	ts := newSite(t, nil)
	defer ts.Close()
	s := newTestScraper(t, ts)

	samples, order, err := s.SampleDatasets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tiny", "Small"}, order)
	assert.Equal(t, "1.3 GB", samples["Tiny"].Size)
}
