// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/radar-fetch/internal/scrape"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the small sample datasets offered on the downloads page",
	RunE:  runSamples,
}

func init() {
	rootCmd.AddCommand(samplesCmd)
}

func runSamples(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Scrape.Timeout}
	s, err := scrape.New(cmd.Context(), client, cfg.Scrape)
	if err != nil {
		return err
	}
	printBanner(os.Stdout, s.BaseURL())

	samples, order, err := s.SampleDatasets(cmd.Context())
	if err != nil {
		return err
	}

	heading(os.Stdout, "Sample Datasets:")
	for _, name := range order {
		rec := samples[name]
		fmt.Printf("%-48s - %-17s - %s\n", name, rec.Size, rec.Download)
	}
	return nil
}
