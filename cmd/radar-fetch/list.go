// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/radar-fetch/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the archives matching a dataset and sensor filter",
	Long: `List scrapes the dataset catalog, applies the --datasets and --sensors
filters, and prints every matching archive with its size and link. Nothing
is downloaded. Use --plan-out to save the matches as YAML.`,
	RunE: runList,
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().String("plan-out", "", "write the matching plan to this YAML file")

	rootCmd.AddCommand(listCmd)
}

// addFilterFlags registers the flags shared by list and download.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("datasets", "", "comma-separated datasets to include (default: all)")
	cmd.Flags().String("sensors", "", "comma-separated sensors to include (default: all)")
	cmd.Flags().Bool("verbose", false, "print every scraped property of each matching sensor")
}

var filterFlagKeys = map[string]string{
	"datasets": "download.datasets",
	"sensors":  "download.sensors",
	"verbose":  "download.verbose",
}

func runList(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd, filterFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Scrape.Timeout}
	sel, err := selectPlan(cmd.Context(), client, cfg.Scrape, cfg.Download, os.Stdout)
	if err != nil {
		return err
	}
	printTotals(os.Stdout, sel.plan)

	planOut, _ := cmd.Flags().GetString("plan-out")
	if planOut != "" {
		if err := writePlan(planOut, sel.plan); err != nil {
			return err
		}
		fmt.Printf("Plan written to: %s\n", planOut)
	}
	return nil
}

func writePlan(path string, p types.DownloadPlan) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshalling plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan %s: %w", path, err)
	}
	return nil
}
