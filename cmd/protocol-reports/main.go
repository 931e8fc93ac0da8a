// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the protocol-reports CLI. It renders
// meeting transcripts and protocols into docx or PDF reports, either from
// files on disk (generate) or over HTTP (serve).
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/protocol-reports/internal/convert"
	"github.com/pdiddy/protocol-reports/internal/ledger"
	"github.com/pdiddy/protocol-reports/internal/logging"
	"github.com/pdiddy/protocol-reports/internal/report"
	"github.com/pdiddy/protocol-reports/internal/secrets"
	"github.com/pdiddy/protocol-reports/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the protocol-reports CLI.
var rootCmd = &cobra.Command{
	Use:   "protocol-reports",
	Short: "Render meeting transcripts and protocols into documents",
	Long: `protocol-reports turns structured meeting records (speaker transcripts,
official protocols with errands, unofficial protocols) into Word documents,
optionally converts them to PDF and protects them with a password.

Records are read from JSON or YAML files with the generate command, or
posted to the HTTP endpoints started by serve.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init()

		s, err := secrets.Load(".secrets/")
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
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./protocol-reports.yaml or ~/.config/protocol-reports/config.yaml)")
	rootCmd.PersistentFlags().String("output-dir", "", "directory generated reports are written to (default \"reports\")")
	_ = viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

func initConfig() {
	// .env values become environment variables before viper reads them.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("protocol-reports")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "protocol-reports"))
		}
	}

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers defaults and environment binding on v. Environment
// variables use the PROTOCOL_REPORTS prefix with dots replaced by
// underscores, e.g. PROTOCOL_REPORTS_CONVERSION_BACKEND.
func setDefaults(v *viper.Viper) {
	v.SetEnvPrefix("PROTOCOL_REPORTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	v.SetDefault("output_dir", report.DefaultOutputDir)
	v.SetDefault("conversion.backend", "")
	v.SetDefault("conversion.binary", "")
	v.SetDefault("conversion.timeout", "2m")
	v.SetDefault("conversion.strict", true)
	v.SetDefault("encryption.pdf_owner_password", "")
	v.SetDefault("serve.addr", ":8000")
	v.SetDefault("generate.parallel", 4)
}

// reportsConfig builds the pipeline configuration from v and the loaded
// secrets. An unset ledger.path puts the ledger inside the output
// directory; an explicitly empty one disables it.
func reportsConfig(v *viper.Viper) types.ReportsConfig {
	cfg := types.ReportsConfig{
		OutputDir: v.GetString("output_dir"),
		Conversion: types.ConversionConfig{
			Backend: types.ConversionBackend(strings.ToLower(v.GetString("conversion.backend"))),
			Binary:  v.GetString("conversion.binary"),
			Timeout: v.GetDuration("conversion.timeout"),
			Strict:  v.GetBool("conversion.strict"),
		},
		Encryption: types.EncryptionConfig{
			PDFOwnerPassword: v.GetString("encryption.pdf_owner_password"),
		},
		Serve: types.ServeConfig{
			Addr: v.GetString("serve.addr"),
		},
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = report.DefaultOutputDir
	}
	if v.IsSet("ledger.path") {
		cfg.Ledger.Path = v.GetString("ledger.path")
	} else {
		cfg.Ledger.Path = filepath.Join(cfg.OutputDir, "reports.db")
	}
	secrets.Apply(&cfg, loadedSecrets)
	return cfg
}

// newGenerator wires the converter and ledger into a report generator. The
// returned close function releases the ledger.
func newGenerator(cfg types.ReportsConfig) (*report.Generator, func(), error) {
	opts := []report.Option{report.WithLogger(slog.Default())}

	conv, err := convert.New(cfg.Conversion)
	if err != nil {
		slog.Warn("pdf conversion unavailable", logging.Err(err))
	} else {
		opts = append(opts, report.WithConverter(conv))
	}

	closeFn := func() {}
	if cfg.Ledger.Path != "" {
		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, report.WithRecorder(store))
		closeFn = func() { store.Close() }
	}

	g, err := report.New(cfg, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return g, closeFn, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
