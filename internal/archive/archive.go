// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive unpacks downloaded dataset archives into a destination
// folder. Zip archives (including Zip64) and zstd-compressed tarballs are
// supported.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// ErrUnsafePath is returned for archive entries that would be written
// outside the destination folder.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// ErrUnsupported is returned for archive formats Extract cannot read.
var ErrUnsupported = errors.New("unsupported archive format")

// Extract unpacks the archive at path into dest and returns the paths of
// the regular files it wrote. The format is chosen from the file extension.
// Files already present in dest are overwritten.
func Extract(path, dest string) ([]string, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dest, err)
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return extractZip(path, dest)
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		return extractTarZstd(path, dest)
	case strings.HasSuffix(lower, ".tar"):
		return extractTarFile(path, dest)
	default:
		if ok, _ := isZip(path); ok {
			return extractZip(path, dest)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
	}
}

// isZip sniffs the local file header signature. Drive downloads sometimes
// arrive without an extension.
func isZip(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	var sig [4]byte
	if _, err := io.ReadFull(f, sig[:]); err != nil {
		return false, nil
	}
	return string(sig[:]) == "PK\x03\x04", nil
}

func extractZip(path, dest string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening zip %s: %w", path, err)
	}
	defer zr.Close()

	var written []string
	for _, f := range zr.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return written, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("creating %s: %w", target, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return written, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		err = writeFile(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

func extractTarZstd(path, dest string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
	}
	defer zr.Close()

	return extractTar(tar.NewReader(zr), dest)
}

func extractTarFile(path, dest string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return extractTar(tar.NewReader(f), dest)
}

func extractTar(tr *tar.Reader, dest string) ([]string, error) {
	var written []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("reading tar: %w", err)
		}
		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return written, err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("creating %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return written, err
			}
			written = append(written, target)
		}
	}
}

// safeJoin joins name onto dest and rejects results outside dest.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("writing %s: %w", target, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", target, closeErr)
	}
	return nil
}
