// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the radar-fetch CLI, which lists and
// downloads the Oxford Radar RobotCar Dataset.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/radar-fetch/internal/plan"
	"github.com/pdiddy/radar-fetch/internal/scrape"
	"github.com/pdiddy/radar-fetch/internal/secrets"
	"github.com/pdiddy/radar-fetch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultScrapeTimeout   = 60 * time.Second
	defaultTransferTimeout = 300 * time.Second
	defaultUserAgent       = "radar-fetch/0.1"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the radar-fetch CLI.
var rootCmd = &cobra.Command{
	Use:   "radar-fetch",
	Short: "List and download the Oxford Radar RobotCar Dataset",
	Long: `radar-fetch scrapes the Oxford Radar RobotCar Dataset website for its
catalog of datasets and sensor archives, filters it by dataset and sensor,
and downloads the matching archives into a local folder, unpacking each one.

Use "list" to preview what a filter matches and "download" to fetch it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./radar-fetch.yaml or ~/.config/radar-fetch/radar-fetch.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "dataset site start page (default "+scrape.DefaultBaseURL+")")
	viper.BindPFlag("scrape.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("radar-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "radar-fetch"))
		}
	}

	viper.SetEnvPrefix("RADAR_FETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so that environment
// variables are honoured by Unmarshal even when no config file sets them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scrape.base_url", scrape.DefaultBaseURL)
	v.SetDefault("scrape.timeout", defaultScrapeTimeout)
	v.SetDefault("scrape.user_agent", defaultUserAgent)

	v.SetDefault("transfer.backend", string(types.BackendGDrive))
	v.SetDefault("transfer.tool_dir", "")
	v.SetDefault("transfer.timeout", defaultTransferTimeout)
	v.SetDefault("transfer.drive.api_key", "")
	v.SetDefault("transfer.drive.credentials_file", "")
	v.SetDefault("transfer.gdrive.binary", "")
	v.SetDefault("transfer.rclone.binary", "rclone")
	v.SetDefault("transfer.rclone.remote", "")
	v.SetDefault("transfer.s3.bucket", "")
	v.SetDefault("transfer.s3.prefix", "")
	v.SetDefault("transfer.s3.region", "")
	v.SetDefault("transfer.s3.endpoint_url", "")
	v.SetDefault("transfer.s3.access_key", "")
	v.SetDefault("transfer.s3.secret_key", "")
	v.SetDefault("transfer.blob.url", "")
	v.SetDefault("transfer.blob.prefix", "")

	v.SetDefault("download.dest", "")
	v.SetDefault("download.datasets", "")
	v.SetDefault("download.sensors", "")
	v.SetDefault("download.verbose", false)
	v.SetDefault("download.assume_yes", false)
	v.SetDefault("download.ledger", true)
}

// bindFlags binds the named flags of cmd to config keys. Commands share key
// names, so binding happens when the command runs rather than at init.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig decodes the merged configuration and fills credentials from
// .secrets/ where configuration left them empty.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.Apply(&cfg.Transfer, loadedSecrets)
	return cfg, nil
}

// reportError prints err for the user. Invalid filter tokens were already
// explained alongside the list of valid names, so nothing more is printed.
func reportError(w io.Writer, err error) {
	if errors.Is(err, plan.ErrInvalidToken) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
