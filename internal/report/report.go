// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report is the report-generation pipeline. Generate renders a
// record into a docx file in the output directory, then converts it to PDF
// and encrypts it as the request asks, and returns the final file path.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pdiddy/protocol-reports/internal/convert"
	"github.com/pdiddy/protocol-reports/internal/document"
	"github.com/pdiddy/protocol-reports/internal/encrypt"
	"github.com/pdiddy/protocol-reports/internal/ledger"
	"github.com/pdiddy/protocol-reports/internal/logging"
	"github.com/pdiddy/protocol-reports/internal/render"
	"github.com/pdiddy/protocol-reports/pkg/types"
)

// DefaultOutputDir is used when the configuration names no output directory.
const DefaultOutputDir = "reports"

// Recorder stores a note of every produced file.
type Recorder interface {
	Record(ctx context.Context, a ledger.Artifact) (ledger.Artifact, error)
}

// Result describes the file handed back to the caller.
type Result struct {
	// RequestID identifies this generation in logs and the ledger.
	RequestID string

	// Path is the final file: plain or encrypt_-prefixed, docx or pdf.
	Path string

	// Kind is the record kind that was rendered.
	Kind types.RecordKind

	// Requested is the document type the caller asked for.
	Requested types.DocumentType

	// Format is the document type of Path. It differs from Requested only
	// when a lenient conversion failed.
	Format types.DocumentType

	// Converted reports whether a PDF was produced.
	Converted bool

	// ConversionErr holds why conversion failed in lenient mode.
	ConversionErr error

	// Encrypted reports whether Path is password-protected.
	Encrypted bool
}

// Generator runs the pipeline against one output directory.
type Generator struct {
	outputDir  string
	converter  convert.Converter
	strict     bool
	encryption types.EncryptionConfig
	recorder   Recorder
	logger     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithConverter sets the docx-to-pdf converter. Without one every PDF
// request fails conversion.
func WithConverter(c convert.Converter) Option {
	return func(g *Generator) { g.converter = c }
}

// WithRecorder records every produced file.
func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a Generator and makes sure the output directory exists.
func New(cfg types.ReportsConfig, opts ...Option) (*Generator, error) {
	dir := cfg.OutputDir
	if dir == "" {
		dir = DefaultOutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, newError(ErrorTypeStorage, fmt.Sprintf("creating output directory %s", dir), err)
	}

	g := &Generator{
		outputDir:  dir,
		strict:     cfg.Conversion.Strict,
		encryption: cfg.Encryption,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g, nil
}

// OutputDir returns the directory generated files are written to.
func (g *Generator) OutputDir() string { return g.outputDir }

// Generate renders req and applies conversion and encryption. It blocks
// until the final file is on disk.
func (g *Generator) Generate(ctx context.Context, req types.ReportRequest) (Result, error) {
	if req.Record == nil {
		return Result{}, newError(ErrorTypeUnsupportedRecordKind, "request carries no record")
	}
	if err := types.ValidateReportName(req.Name); err != nil {
		return Result{}, newError(ErrorTypeInvalidRequest, "invalid report name", err)
	}
	if !req.DocumentType.Valid() {
		return Result{}, newError(ErrorTypeInvalidRequest, fmt.Sprintf("unsupported document type %q", req.DocumentType))
	}

	res := Result{
		RequestID: uuid.NewString(),
		Kind:      req.Record.Kind(),
		Requested: req.DocumentType,
		Format:    types.DocumentDocx,
	}
	ctx = logging.AppendCtx(ctx,
		slog.String("request_id", res.RequestID),
		slog.String("report", req.Name),
		slog.String("kind", string(res.Kind)),
	)

	doc, err := render.Render(req.Name, req.Record)
	if err != nil {
		return Result{}, newError(ErrorTypeUnsupportedRecordKind, "rendering record", err)
	}

	res.Path = filepath.Join(g.outputDir, req.Name+"."+types.DocumentDocx.Ext())
	if err := document.WriteDocx(doc, res.Path); err != nil {
		return Result{}, newError(ErrorTypeStorage, "writing docx", err)
	}
	g.logger.DebugContext(ctx, "rendered docx", "path", res.Path, "elements", len(doc.Elements))

	if req.DocumentType == types.DocumentPDF {
		conv := convert.ToPDF(ctx, g.converter, res.Path)
		switch {
		case conv.OK():
			res.Path = conv.Path
			res.Format = types.DocumentPDF
			res.Converted = true
		case g.strict:
			return Result{}, newError(ErrorTypeConversionFailure, "converting to pdf", conv.Err)
		default:
			res.ConversionErr = conv.Err
			g.logger.WarnContext(ctx, "pdf conversion failed, returning docx", logging.Err(conv.Err))
		}
	}

	if req.Password != "" {
		enc, err := encrypt.For(res.Format, g.encryption)
		if err != nil {
			return Result{}, newError(ErrorTypeInternal, "selecting encrypter", err)
		}
		out, err := enc.Encrypt(res.Path, req.Name, req.Password)
		if err != nil {
			t := ErrorTypeEncryptionBackendFailure
			if errors.Is(err, encrypt.ErrSourceMissing) {
				t = ErrorTypeEncryptionSourceMissing
			}
			return Result{}, newError(t, "encrypting report", err)
		}
		res.Path = out
		res.Encrypted = true
	}

	g.record(ctx, req, res)
	g.logger.InfoContext(ctx, "report generated",
		"path", res.Path,
		"format", string(res.Format),
		"encrypted", res.Encrypted,
	)
	return res, nil
}

// record writes res to the ledger. A ledger failure does not undo the
// generated file, so it is only logged.
func (g *Generator) record(ctx context.Context, req types.ReportRequest, res Result) {
	if g.recorder == nil {
		return
	}
	_, err := g.recorder.Record(ctx, ledger.Artifact{
		RequestID:  res.RequestID,
		ReportName: req.Name,
		Kind:       res.Kind,
		Format:     res.Format,
		Path:       res.Path,
		Encrypted:  res.Encrypted,
		Converted:  res.Converted,
	})
	if err != nil {
		g.logger.WarnContext(ctx, "recording artifact failed", logging.Err(err))
	}
}
