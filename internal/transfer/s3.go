// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

// S3 downloads archives from an S3 (or S3-compatible) mirror. Objects are
// stored under Prefix with the Drive file identifier as key.
type S3 struct {
	bucket     string
	prefix     string
	downloader *manager.Downloader
}

// NewS3 builds an S3 client. Static credentials are used when both keys are
// set; otherwise the default AWS credential chain applies. A custom endpoint
// switches to path-style addressing for S3-compatible stores.
func NewS3(ctx context.Context, cfg types.S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 backend needs transfer.s3.bucket")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""))
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	return &S3{
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		downloader: manager.NewDownloader(client),
	}, nil
}

// Name returns the backend identifier.
func (s *S3) Name() string { return string(types.BackendS3) }

// Download copies the object prefix+id into destDir.
func (s *S3) Download(ctx context.Context, id, destDir string) (string, error) {
	key := path.Join(s.prefix, id)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", destDir, err)
	}

	tmpFile, err := os.CreateTemp(destDir, ".transfer-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, dlErr := s.downloader.Download(ctx, tmpFile, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	closeErr := tmpFile.Close()
	if dlErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("downloading s3://%s/%s: %w", s.bucket, key, dlErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	destPath := filepath.Join(destDir, safeName(id, "download"))
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}
