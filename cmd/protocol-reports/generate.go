// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/protocol-reports/internal/report"
	"github.com/pdiddy/protocol-reports/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate --kind KIND FILE...",
	Short: "Generate reports from JSON or YAML request files",
	Long: `Generate reads one report request per file and writes the resulting
document into the output directory. A request file carries name_report,
document_type (docx or pdf), an optional password, and the record under
data. Files ending in .yaml or .yml are read as YAML, .toml as TOML, and
everything else as JSON.

--name, --document-type and --password override the values in the files.
Files are processed concurrently, up to --parallel at a time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("kind", "", "record kind: official, unofficial, or transcript")
	generateCmd.Flags().String("name", "", "override the report name (single file only)")
	generateCmd.Flags().String("document-type", "", "override the document type: docx or pdf")
	generateCmd.Flags().String("password", "", "override the password")
	generateCmd.Flags().Int("parallel", 0, "maximum concurrent generations (default from generate.parallel)")
	generateCmd.Flags().Bool("json", false, "print results as JSON")
	_ = generateCmd.MarkFlagRequired("kind")
	_ = viper.BindPFlag("generate.parallel", generateCmd.Flags().Lookup("parallel"))

	rootCmd.AddCommand(generateCmd)
}

// generateOverrides are request fields forced from the command line.
type generateOverrides struct {
	name         string
	documentType types.DocumentType
	password     string
	hasPassword  bool
}

func (o generateOverrides) apply(req *types.ReportRequest) {
	if o.name != "" {
		req.Name = o.name
	}
	if o.documentType != "" {
		req.DocumentType = o.documentType
	}
	if o.hasPassword {
		req.Password = o.password
	}
}

// generateOutput is one line of generate's output.
type generateOutput struct {
	File      string             `json:"file"`
	Path      string             `json:"path"`
	Format    types.DocumentType `json:"format"`
	Encrypted bool               `json:"encrypted"`
	Warning   string             `json:"warning,omitempty"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kindFlag, _ := cmd.Flags().GetString("kind")
	kind, err := types.ParseRecordKind(kindFlag)
	if err != nil {
		return err
	}

	var ov generateOverrides
	ov.name, _ = cmd.Flags().GetString("name")
	if ov.name != "" && len(args) > 1 {
		return fmt.Errorf("--name can only be used with a single file")
	}
	if dt, _ := cmd.Flags().GetString("document-type"); dt != "" {
		if ov.documentType, err = types.ParseDocumentType(dt); err != nil {
			return err
		}
	}
	ov.hasPassword = cmd.Flags().Changed("password")
	ov.password, _ = cmd.Flags().GetString("password")

	g, closeFn, err := newGenerator(reportsConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer closeFn()

	outputs, err := generateFiles(cmd.Context(), g, kind, ov, args, viper.GetInt("generate.parallel"))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}
	for _, o := range outputs {
		fmt.Println(o.Path)
		if o.Warning != "" {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", o.File, o.Warning)
		}
	}
	return nil
}

// generateFiles decodes and generates every file, at most parallel at a
// time. Outputs keep the order of files. The first failure cancels the
// generations that have not started yet.
func generateFiles(ctx context.Context, g *report.Generator, kind types.RecordKind, ov generateOverrides, files []string, parallel int) ([]generateOutput, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if parallel <= 0 {
		parallel = 1
	}

	outputs := make([]generateOutput, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	for i, file := range files {
		i, file := i, file
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			req, err := readRequest(kind, file)
			if err != nil {
				return err
			}
			ov.apply(&req)

			res, err := g.Generate(ctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			outputs[i] = generateOutput{
				File:      file,
				Path:      res.Path,
				Format:    res.Format,
				Encrypted: res.Encrypted,
			}
			if res.ConversionErr != nil {
				outputs[i].Warning = res.ConversionErr.Error()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// readRequest decodes one request file, choosing YAML, TOML, or JSON by
// extension.
func readRequest(kind types.RecordKind, file string) (types.ReportRequest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return types.ReportRequest{}, fmt.Errorf("reading %s: %w", file, err)
	}

	var req types.ReportRequest
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		req, err = types.DecodeRequestYAML(kind, data)
	case ".toml":
		req, err = types.DecodeRequestTOML(kind, data)
	default:
		req, err = types.DecodeRequest(kind, data)
	}
	if err != nil {
		return types.ReportRequest{}, fmt.Errorf("decoding %s: %w", file, err)
	}
	return req, nil
}
