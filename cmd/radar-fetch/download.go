// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pdiddy/radar-fetch/internal/archive"
	"github.com/pdiddy/radar-fetch/internal/fetch"
	"github.com/pdiddy/radar-fetch/internal/ledger"
	"github.com/pdiddy/radar-fetch/internal/transfer"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download and unpack the archives matching a filter",
	Long: `Download lists the matching archives like "list", asks for confirmation,
then transfers each archive into --download-folder, unpacks it there and
deletes the archive. Archives marked "Available Soon" are skipped.

The transfer backend is chosen with --backend or transfer.backend:
` + backendNames() + `.`,
	RunE: runDownload,
}

func init() {
	addFilterFlags(downloadCmd)
	downloadCmd.Flags().String("download-folder", "", "folder to download and unpack into (required)")
	downloadCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	downloadCmd.Flags().String("backend", "", "transfer backend (default gdrive)")
	downloadCmd.Flags().Bool("no-ledger", false, "do not record completed downloads")

	rootCmd.AddCommand(downloadCmd)
}

func backendNames() string {
	names := make([]string, len(transfer.Backends))
	for i, b := range transfer.Backends {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

func runDownload(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	keys := map[string]string{
		"download-folder": "download.dest",
		"yes":             "download.assume_yes",
		"backend":         "transfer.backend",
	}
	for k, key := range filterFlagKeys {
		keys[k] = key
	}
	if err := bindFlags(v, cmd, keys); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); noLedger {
		cfg.Download.Ledger = false
	}
	if cfg.Download.Dest == "" {
		return fmt.Errorf("--download-folder is required (use \"list\" to preview without downloading)")
	}

	ctx := cmd.Context()
	out := os.Stdout

	client := &http.Client{Timeout: cfg.Scrape.Timeout}
	sel, err := selectPlan(ctx, client, cfg.Scrape, cfg.Download, out)
	if err != nil {
		return err
	}
	printTotals(out, sel.plan)

	if !cfg.Download.AssumeYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("stdin is not a terminal; pass --yes to download without confirmation")
		}
		ok, err := confirm(os.Stdin, out, cfg.Download.Dest)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Download cancelled...")
			return nil
		}
	}
	fmt.Fprintln(out)

	transferClient := &http.Client{}
	t, err := transfer.New(ctx, cfg.Transfer, transferClient, out)
	if err != nil {
		return err
	}
	if c, ok := t.(io.Closer); ok {
		defer c.Close()
	}

	var rec fetch.Recorder
	if cfg.Download.Ledger {
		l, err := ledger.Open(ledger.PathIn(cfg.Download.Dest))
		if err != nil {
			return err
		}
		defer l.Close()
		rec = l
	}

	result, err := fetch.Run(ctx, t, archive.Extract, sel.plan, cfg.Download.Dest, out, rec)
	if err != nil {
		return fmt.Errorf("download stopped after %d archive(s): %w", result.Downloaded, err)
	}
	fmt.Fprintf(out, "\nDownload completed into: %s\n", cfg.Download.Dest)
	return nil
}

// confirm asks whether to proceed. Anything other than y or yes declines.
func confirm(r io.Reader, w io.Writer, dest string) (bool, error) {
	fmt.Fprintln(w, "Are you sure you want to download the above files and unpack to:")
	fmt.Fprintln(w, dest)
	fmt.Fprint(w, "\nDo you wish to continue? [y/N]: ")

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Compile-time check that the ledger satisfies the executor's recorder.
var _ fetch.Recorder = (*ledger.Ledger)(nil)
