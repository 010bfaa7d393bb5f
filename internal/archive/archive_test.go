// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func writeTarZstd(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(zw)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExtract_Zip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "radar.zip")
	writeZip(t, src, map[string]string{
		"2019-01-10-11-46-21/radar.timestamps": "1547120789640420 1\n",
		"2019-01-10-11-46-21/radar/0001.png":   "png-bytes",
	})

	dest := filepath.Join(dir, "out")
	files, err := Extract(src, dest)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, "png-bytes", readFile(t, filepath.Join(dest, "2019-01-10-11-46-21", "radar", "0001.png")))
}

func TestExtract_ZipWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "1AbCdEf")
	writeZip(t, src, map[string]string{"a.txt": "a"})

	files, err := Extract(src, filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestExtract_TarZstd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "lidar.tar.zst")
	writeTarZstd(t, src, map[string]string{"velodyne_left/0001.bin": "points"})

	dest := filepath.Join(dir, "out")
	files, err := Extract(src, dest)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "points", readFile(t, filepath.Join(dest, "velodyne_left", "0001.bin")))
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	writeZip(t, src, map[string]string{"../evil.txt": "x"})

	_, err := Extract(src, filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, ErrUnsafePath)
	assert.NoFileExists(t, filepath.Join(dir, "evil.txt"))
}

func TestExtract_Unsupported(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	_, err := Extract(src, filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, ErrUnsupported)
}
