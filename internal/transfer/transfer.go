// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transfer moves dataset archives from remote storage to local disk.
// Every backend implements Transfer; New selects one from configuration.
//
// Backends:
//   - drive-api: Google Drive REST API v3 with an API key or service account.
//   - gdrive:    the gdrive command-line client (fetched on demand).
//   - rclone:    rclone's Drive backend "copyid" command.
//   - http:      plain HTTP GET of the download link.
//   - s3:        an S3 mirror of the archives.
//   - blob:      any gocloud.dev bucket URL holding a mirror of the archives.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

// ErrUnknownBackend is returned by New for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown transfer backend")

// Transfer downloads one archive. Download blocks until the archive is
// complete on disk inside destDir and returns its path.
type Transfer interface {
	// Name returns the backend name.
	Name() string

	// Download fetches the archive identified by id into destDir.
	Download(ctx context.Context, id, destDir string) (string, error)
}

// URLTransfer is implemented by backends that take the full download link
// rather than the file identifier extracted from it.
type URLTransfer interface {
	Transfer
	WantsURL() bool
}

// IDFor returns the argument t expects for a plan entry: the full link for
// URL-based backends, the link's identifier otherwise.
func IDFor(t Transfer, e types.PlanEntry) string {
	if u, ok := t.(URLTransfer); ok && u.WantsURL() {
		return e.Download
	}
	return e.Identifier()
}

// Backends lists the accepted backend names.
var Backends = []types.TransferBackend{
	types.BackendDriveAPI,
	types.BackendGDrive,
	types.BackendRclone,
	types.BackendHTTP,
	types.BackendS3,
	types.BackendBlob,
}

// New builds the backend selected by cfg.Backend. The HTTP client is used by
// the http backend and for fetching helper binaries. cfg.Timeout is applied
// as an idle limit, so client should carry no Timeout. Backends that wrap
// external tools verify the tool is installed and authorised before
// returning. Progress and prompts go to w.
func New(ctx context.Context, cfg types.TransferConfig, client *http.Client, w io.Writer) (Transfer, error) {
	switch cfg.Backend {
	case types.BackendDriveAPI:
		return NewDriveAPI(ctx, cfg.Drive)
	case types.BackendGDrive, "":
		return NewGDrive(ctx, cfg, client, w)
	case types.BackendRclone:
		return NewRclone(ctx, cfg.Rclone)
	case types.BackendHTTP:
		return NewHTTP(client, cfg.Timeout), nil
	case types.BackendS3:
		return NewS3(ctx, cfg.S3)
	case types.BackendBlob:
		return OpenBlob(ctx, cfg.Blob)
	default:
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownBackend, cfg.Backend, Backends)
	}
}

// saveStream copies r into destDir/name through a temporary file and renames
// it into place on success, so a failed transfer never leaves a partial
// archive under the final name.
func saveStream(r io.Reader, destDir, name string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", destDir, err)
	}
	destPath := filepath.Join(destDir, name)

	tmpFile, err := os.CreateTemp(destDir, ".transfer-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}

// safeName reduces a remote file name to a single path element.
func safeName(name, fallback string) string {
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." || name == "" {
		return fallback
	}
	return name
}
