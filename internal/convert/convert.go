// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns editable docx reports into fixed-layout PDFs by
// running an external converter. Backends (abiword, LibreOffice) implement
// the Converter interface.
package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrConversion marks every failure of the conversion stage.
var ErrConversion = errors.New("conversion failed")

// Converter transforms a docx file into a PDF placed next to it.
type Converter interface {
	// Name returns the backend name ("abiword" or "libreoffice").
	Name() string

	// Convert converts the docx at src and returns the PDF path.
	Convert(ctx context.Context, src string) (string, error)
}

// Result is the outcome of one conversion. Exactly one of Path and Err is
// set.
type Result struct {
	// Path is the PDF produced by the converter.
	Path string

	// Err is why no PDF was produced. It wraps ErrConversion.
	Err error
}

// OK reports whether the conversion produced a file.
func (r Result) OK() bool {
	return r.Err == nil && r.Path != ""
}

// ToPDF runs c on src and reports the outcome as a Result. A nil converter
// is a failed conversion, not a panic.
func ToPDF(ctx context.Context, c Converter, src string) Result {
	if c == nil {
		return Result{Err: fmt.Errorf("%w: no converter configured", ErrConversion)}
	}
	out, err := c.Convert(ctx, src)
	if err != nil {
		if !errors.Is(err, ErrConversion) {
			err = fmt.Errorf("%w: %w", ErrConversion, err)
		}
		return Result{Err: err}
	}
	return Result{Path: out}
}

// PDFPath returns the PDF path the converters produce for src: same
// directory, same base name, .pdf extension.
func PDFPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".pdf"
}
