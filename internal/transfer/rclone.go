// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

const defaultRcloneBinary = "rclone"

// Rclone downloads archives with rclone's Drive backend. The remote must be
// configured beforehand with "rclone config".
type Rclone struct {
	bin    string
	remote string
	exec   executor
}

// NewRclone checks that rclone is installed and the remote is configured.
func NewRclone(ctx context.Context, cfg types.RcloneConfig) (*Rclone, error) {
	return newRclone(ctx, cfg, defaultExec)
}

func newRclone(ctx context.Context, cfg types.RcloneConfig, ex executor) (*Rclone, error) {
	name := cfg.Binary
	if name == "" {
		name = defaultRcloneBinary
	}
	bin, err := ex.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("rclone not found on PATH: %w", err)
	}
	if cfg.Remote == "" {
		return nil, fmt.Errorf("rclone remote not configured: set transfer.rclone.remote")
	}

	remote := strings.TrimSuffix(cfg.Remote, ":")
	out, err := ex.Output(ctx, bin, "listremotes")
	if err != nil {
		return nil, fmt.Errorf("rclone listremotes: %w", err)
	}
	found := false
	for _, line := range strings.Fields(string(out)) {
		if strings.TrimSuffix(line, ":") == remote {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: rclone has no remote %q; run \"rclone config\"", ErrNotAuthorised, remote)
	}

	return &Rclone{bin: bin, remote: remote, exec: ex}, nil
}

// Name returns the backend identifier.
func (r *Rclone) Name() string { return string(types.BackendRclone) }

// Download runs "rclone backend copyid" into a fresh staging directory under
// destDir and moves the single file it creates to destDir, replacing any
// earlier copy. rclone does not report the file name and keeps the remote
// modification time, so the file is found by being the only entry.
func (r *Rclone) Download(ctx context.Context, id, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", destDir, err)
	}
	staging, err := os.MkdirTemp(destDir, ".rclone-*")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	args := []string{"backend", "copyid", r.remote + ":", id, staging + string(filepath.Separator)}
	if out, err := r.exec.Output(ctx, r.bin, args...); err != nil {
		return "", fmt.Errorf("rclone copyid %s: %w: %s", id, err, strings.TrimSpace(string(out)))
	}

	name, err := singleFile(staging)
	if err != nil {
		return "", fmt.Errorf("rclone copyid %s: %w", id, err)
	}
	dst := filepath.Join(destDir, name)
	if err := os.Rename(filepath.Join(staging, name), dst); err != nil {
		return "", fmt.Errorf("moving %s into %s: %w", name, destDir, err)
	}
	return dst, nil
}

// singleFile returns the name of the only regular file in dir.
func singleFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	switch len(names) {
	case 0:
		return "", errors.New("no file written")
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("expected one file, got %d: %s", len(names), strings.Join(names, ", "))
	}
}
