// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"context"
	"fmt"
	"path"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

// Blob downloads archives from a gocloud.dev bucket mirror. Objects are
// stored under prefix with the Drive file identifier as key.
type Blob struct {
	bucket *blob.Bucket
	prefix string
}

// OpenBlob opens the bucket at cfg.URL.
func OpenBlob(ctx context.Context, cfg types.BlobConfig) (*Blob, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("blob backend needs transfer.blob.url")
	}
	bkt, err := blob.OpenBucket(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("opening bucket %s: %w", cfg.URL, err)
	}
	return NewBlob(bkt, cfg.Prefix), nil
}

// NewBlob wraps an open bucket.
func NewBlob(bkt *blob.Bucket, prefix string) *Blob {
	return &Blob{bucket: bkt, prefix: prefix}
}

// Name returns the backend identifier.
func (b *Blob) Name() string { return string(types.BackendBlob) }

// Download copies the object prefix+id into destDir.
func (b *Blob) Download(ctx context.Context, id, destDir string) (string, error) {
	key := path.Join(b.prefix, id)
	r, err := b.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return "", fmt.Errorf("object %s not found in bucket", key)
		}
		return "", fmt.Errorf("opening object %s: %w", key, err)
	}
	defer r.Close()

	return saveStream(r, destDir, safeName(id, "download"))
}

// Close releases the bucket.
func (b *Blob) Close() error {
	return b.bucket.Close()
}
