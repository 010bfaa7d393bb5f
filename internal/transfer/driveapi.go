// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

// DriveAPI downloads archives through the Google Drive REST API v3.
type DriveAPI struct {
	srv *drive.Service
}

// NewDriveAPI builds a Drive client from an API key or a service account
// credentials file. The credentials file wins when both are set.
func NewDriveAPI(ctx context.Context, cfg types.DriveConfig) (*DriveAPI, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(drive.DriveReadonlyScope),
		)
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("%w: set transfer.drive.api_key or transfer.drive.credentials_file", ErrNotAuthorised)
	}
	return newDriveAPI(ctx, opts...)
}

func newDriveAPI(ctx context.Context, opts ...option.ClientOption) (*DriveAPI, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Drive service: %w", err)
	}
	return &DriveAPI{srv: srv}, nil
}

// Name returns the backend identifier.
func (d *DriveAPI) Name() string { return string(types.BackendDriveAPI) }

// Download looks up the file name for id and streams its content into
// destDir. Files on shared drives are supported.
func (d *DriveAPI) Download(ctx context.Context, id, destDir string) (string, error) {
	meta, err := d.srv.Files.Get(id).
		SupportsAllDrives(true).
		Fields("name", "size").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("Drive metadata for %s: %w", id, err)
	}

	resp, err := d.srv.Files.Get(id).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return "", fmt.Errorf("Drive download %s: %w", id, err)
	}
	defer resp.Body.Close()

	return saveStream(resp.Body, destDir, safeName(meta.Name, id))
}
