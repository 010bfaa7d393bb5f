package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "radar-fetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ScrapeConfig holds settings for the catalog scraper.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the dataset site start page. Redirects are followed once at
	// construction to find the canonical base.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// TransferBackend identifies the tool that moves archives to local disk.
type TransferBackend string

const (
	BackendDriveAPI TransferBackend = "drive-api"
	BackendGDrive   TransferBackend = "gdrive"
	BackendRclone   TransferBackend = "rclone"
	BackendHTTP     TransferBackend = "http"
	BackendS3       TransferBackend = "s3"
	BackendBlob     TransferBackend = "blob"
)

// DriveConfig holds Google Drive REST API credentials. One of APIKey or
// CredentialsFile is required.
type DriveConfig struct {
	APIKey          string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty" mapstructure:"credentials_file"`
}

// GDriveConfig holds settings for the gdrive command-line client.
type GDriveConfig struct {
	// Binary overrides the platform-derived binary name (e.g. "gdrive-linux-x64").
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty" mapstructure:"binary"`
}

// RcloneConfig holds settings for the rclone wrapper.
type RcloneConfig struct {
	// Binary is the rclone executable (default "rclone").
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary"`

	// Remote is the configured rclone Drive remote name, without the colon.
	Remote string `json:"remote" yaml:"remote" mapstructure:"remote"`
}

// S3Config holds settings for an S3 mirror of the dataset archives.
type S3Config struct {
	Bucket      string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	Prefix      string `json:"prefix,omitempty" yaml:"prefix,omitempty" mapstructure:"prefix"`
	Region      string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
	EndpointURL string `json:"endpoint_url,omitempty" yaml:"endpoint_url,omitempty" mapstructure:"endpoint_url"`
	AccessKey   string `json:"access_key,omitempty" yaml:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey   string `json:"secret_key,omitempty" yaml:"secret_key,omitempty" mapstructure:"secret_key"`
}

// BlobConfig holds settings for a gocloud.dev bucket mirror.
type BlobConfig struct {
	// URL is a bucket URL such as "s3://bucket?region=eu-west-2",
	// "gs://bucket" or "file:///srv/mirror".
	URL    string `json:"url" yaml:"url" mapstructure:"url"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" mapstructure:"prefix"`
}

// TransferConfig selects and configures the transfer backend.
type TransferConfig struct {
	Backend TransferBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// ToolDir is where downloaded helper binaries are kept (default: the OS temp dir).
	ToolDir string `json:"tool_dir,omitempty" yaml:"tool_dir,omitempty" mapstructure:"tool_dir"`

	// Timeout fails a transfer once no data has arrived for this long. It
	// never caps a transfer that is still receiving. Zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	Drive  DriveConfig  `json:"drive" yaml:"drive" mapstructure:"drive"`
	GDrive GDriveConfig `json:"gdrive" yaml:"gdrive" mapstructure:"gdrive"`
	Rclone RcloneConfig `json:"rclone" yaml:"rclone" mapstructure:"rclone"`
	S3     S3Config     `json:"s3" yaml:"s3" mapstructure:"s3"`
	Blob   BlobConfig   `json:"blob" yaml:"blob" mapstructure:"blob"`
}

// DownloadConfig holds the user's selection and destination.
type DownloadConfig struct {
	// Dest is the folder archives are unpacked into. Empty means list only.
	Dest string `json:"dest" yaml:"dest" mapstructure:"dest"`

	// Datasets and Sensors are comma-separated filters. Empty selects all.
	Datasets string `json:"datasets" yaml:"datasets" mapstructure:"datasets"`
	Sensors  string `json:"sensors" yaml:"sensors" mapstructure:"sensors"`

	// Verbose prints every scraped property of each matched sensor.
	Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`

	// AssumeYes skips the confirmation prompt.
	AssumeYes bool `json:"assume_yes" yaml:"assume_yes" mapstructure:"assume_yes"`

	// Ledger records completed transfers in a SQLite file inside Dest.
	Ledger bool `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}

// Config groups the configuration of every stage.
type Config struct {
	Scrape   ScrapeConfig   `json:"scrape" yaml:"scrape" mapstructure:"scrape"`
	Transfer TransferConfig `json:"transfer" yaml:"transfer" mapstructure:"transfer"`
	Download DownloadConfig `json:"download" yaml:"download" mapstructure:"download"`
}
