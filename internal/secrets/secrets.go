// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads transfer credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key name and the
// trimmed contents are the value.
//
// Recognised key files: drive-api-key, drive-credentials-file,
// aws-access-key, aws-secret-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

// Key file names.
const (
	DriveAPIKey          = "drive-api-key"
	DriveCredentialsFile = "drive-credentials-file"
	AWSAccessKey         = "aws-access-key"
	AWSSecretKey         = "aws-secret-key"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on w and are skipped.
func Load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Apply fills transfer credentials that configuration left empty.
// Configured values always win over secret files.
func Apply(cfg *types.TransferConfig, secrets map[string]string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = secrets[key]
		}
	}
	fill(&cfg.Drive.APIKey, DriveAPIKey)
	fill(&cfg.Drive.CredentialsFile, DriveCredentialsFile)
	fill(&cfg.S3.AccessKey, AWSAccessKey)
	fill(&cfg.S3.SecretKey, AWSSecretKey)
}
