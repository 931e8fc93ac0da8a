package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/protocol-reports/internal/convert"
	"github.com/pdiddy/protocol-reports/pkg/types"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which PDF converters are available",
	Long: `Doctor looks up the known converter executables on PATH and reports
which backend the current configuration would use for PDF output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := reportsConfig(viper.GetViper())
		_, err := convert.New(cfg.Conversion)
		return printDoctor(os.Stdout, cfg, convert.Probe(), err)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// printDoctor writes the probe results and returns convErr so a missing
// converter fails the command.
func printDoctor(w io.Writer, cfg types.ReportsConfig, found map[string]bool, convErr error) error {
	bins := make([]string, 0, len(found))
	for bin := range found {
		bins = append(bins, bin)
	}
	sort.Strings(bins)

	for _, bin := range bins {
		status := "missing"
		if found[bin] {
			status = "found"
		}
		fmt.Fprintf(w, "%-12s %s\n", bin, status)
	}

	backend := string(cfg.Conversion.Backend)
	if backend == "" {
		backend = "auto"
	}
	fmt.Fprintf(w, "\nbackend:     %s\n", backend)
	fmt.Fprintf(w, "strict:      %t\n", cfg.Conversion.Strict)
	fmt.Fprintf(w, "output dir:  %s\n", cfg.OutputDir)
	ledgerPath := cfg.Ledger.Path
	if ledgerPath == "" {
		ledgerPath = "disabled"
	}
	fmt.Fprintf(w, "ledger:      %s\n", ledgerPath)

	if convErr != nil {
		fmt.Fprintf(w, "\nPDF output unavailable: %v\n", convErr)
		return convErr
	}
	return nil
}
