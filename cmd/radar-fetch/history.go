// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/radar-fetch/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the downloads recorded in a download folder",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("download-folder", "", "download folder holding the ledger")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd, map[string]string{"download-folder": "download.dest"}); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	dest := cfg.Download.Dest
	if dest == "" {
		return fmt.Errorf("--download-folder is required")
	}

	path := ledger.PathIn(dest)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("No downloads recorded in %s\n", dest)
		return nil
	}

	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	entries, err := l.List(cmd.Context())
	if err != nil {
		return err
	}
	printHistory(os.Stdout, entries)
	return nil
}

func printHistory(w io.Writer, entries []ledger.Entry) {
	heading(w, "Recorded Downloads:")
	for _, e := range entries {
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		fmt.Fprintf(w, "%s  %-8s  %-24s - %-30s - %-10s - %s\n",
			e.RecordedAt.Local().Format(time.DateTime), run, e.Dataset, e.Sensor, e.Size, e.Archive)
	}
	fmt.Fprintf(w, "\n%d download(s) recorded\n", len(entries))
}
