// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/protocol-reports/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously generated reports",
	Long: `History lists the files recorded in the report ledger, newest first.
The ledger lives at ledger.path (default <output_dir>/reports.db).`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("report", "", "only show this report name")
	historyCmd.Flags().Int("limit", 50, "maximum number of entries")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := reportsConfig(viper.GetViper())
	if cfg.Ledger.Path == "" {
		return fmt.Errorf("ledger is disabled: set ledger.path")
	}

	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	name, _ := cmd.Flags().GetString("report")
	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.List(context.Background(), ledger.ListOptions{ReportName: name, Limit: limit})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(os.Stdout, entries, jsonOutput)
}

func formatHistory(w io.Writer, entries []ledger.Artifact, jsonOutput bool) error {
	if jsonOutput {
		if entries == nil {
			entries = []ledger.Artifact{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No reports recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-10s  %-4s  %-9s  %s\n", "Created", "Kind", "Fmt", "Encrypted", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		encrypted := "no"
		if e.Encrypted {
			encrypted = "yes"
		}
		fmt.Fprintf(w, "%-20s  %-10s  %-4s  %-9s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Format, encrypted, e.Path)
	}
	fmt.Fprintf(w, "\n%d reports\n", len(entries))
	return nil
}
