// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/pdiddy/radar-fetch/internal/httputil"
	"github.com/pdiddy/radar-fetch/pkg/types"
)

// HTTP downloads archives directly from their links. It suits mirrors that
// serve archives over plain HTTP(S).
type HTTP struct {
	client *http.Client
	idle   time.Duration
}

// NewHTTP returns an HTTP backend using client. A transfer fails when no
// data arrives for idle; zero disables the limit. client should carry no
// Timeout of its own, since that bounds the whole body.
func NewHTTP(client *http.Client, idle time.Duration) *HTTP {
	return &HTTP{client: client, idle: idle}
}

// Name returns the backend identifier.
func (h *HTTP) Name() string { return string(types.BackendHTTP) }

// WantsURL reports that Download takes the full link.
func (h *HTTP) WantsURL() bool { return true }

// Download fetches rawURL into destDir. The file name comes from the
// Content-Disposition header when present, otherwise from the URL path.
func (h *HTTP) Download(ctx context.Context, rawURL, destDir string) (string, error) {
	ctx, dl, stop := httputil.WithIdleDeadline(ctx, h.idle)
	defer stop()

	resp, err := httputil.Get(ctx, h.client, rawURL, "")
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, httputil.IdleCause(ctx, h.idle, err))
	}
	defer resp.Body.Close()

	saved, err := saveStream(dl.Reader(resp.Body), destDir, fileNameFor(resp, rawURL))
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, httputil.IdleCause(ctx, h.idle, err))
	}
	return saved, nil
}

func fileNameFor(resp *http.Response, rawURL string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return safeName(params["filename"], "download")
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		return safeName(path.Base(u.Path), "download")
	}
	return "download"
}
