// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/protocol-reports/pkg/types"
)

const (
	binAbiword     = "abiword"
	binSoffice     = "soffice"
	binLibreOffice = "libreoffice"

	// DefaultTimeout bounds a converter run when no timeout is configured.
	DefaultTimeout = 2 * time.Minute

	// maxOutput caps how much converter output is kept for error messages.
	maxOutput = 4 << 10
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = 5 * time.Second
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

var defaultExec = &osExecutor{}

// backend implements Converter for one converter binary. Abiword and
// LibreOffice differ only in the binary and the arguments that name the
// output.
type backend struct {
	name    types.ConversionBackend
	bin     string
	args    func(src, out string) []string
	timeout time.Duration
	exec    executor
}

func (b *backend) Name() string { return string(b.name) }

// Available reports whether the backend binary can be found.
func (b *backend) Available() bool {
	_, err := b.exec.LookPath(b.bin)
	return err == nil
}

// Convert runs the converter with a timeout. A stale PDF from an earlier run
// is removed first so a failed run can never return an old file.
func (b *backend) Convert(ctx context.Context, src string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("%w: source %s: %w", ErrConversion, src, err)
	}

	out := PDFPath(src)
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: removing stale %s: %w", ErrConversion, out, err)
	}

	timeout := b.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := b.exec.Run(ctx, b.bin, b.args(src, out)...)
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return "", fmt.Errorf("%w: %s timed out after %s", ErrConversion, b.bin, timeout)
	}
	if err != nil {
		return "", fmt.Errorf("%w: running %s: %w%s", ErrConversion, b.bin, err, outputTail(output))
	}

	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("%w: %s exited cleanly but produced no %s", ErrConversion, b.bin, filepath.Base(out))
	}
	return out, nil
}

func outputTail(output []byte) string {
	s := strings.TrimSpace(string(output))
	if s == "" {
		return ""
	}
	if len(s) > maxOutput {
		s = s[len(s)-maxOutput:]
	}
	return ": " + s
}

func newAbiword(bin string, timeout time.Duration, exec executor) *backend {
	if bin == "" {
		bin = binAbiword
	}
	return &backend{
		name: types.BackendAbiword,
		bin:  bin,
		args: func(src, out string) []string {
			return []string{"--to=pdf", "--to-name=" + out, src}
		},
		timeout: timeout,
		exec:    exec,
	}
}

func newLibreOffice(bin string, timeout time.Duration, exec executor) *backend {
	if bin == "" {
		bin = binSoffice
	}
	return &backend{
		name: types.BackendLibreOffice,
		bin:  bin,
		args: func(src, out string) []string {
			return []string{"--headless", "--convert-to", "pdf", "--outdir", filepath.Dir(out), src}
		},
		timeout: timeout,
		exec:    exec,
	}
}

// New returns the converter selected by cfg. With no backend configured it
// tries abiword first, then LibreOffice (soffice, then libreoffice on PATH).
func New(cfg types.ConversionConfig) (Converter, error) {
	return newConverter(cfg, defaultExec)
}

func newConverter(cfg types.ConversionConfig, exec executor) (Converter, error) {
	switch cfg.Backend {
	case types.BackendAbiword:
		return newAbiword(cfg.Binary, cfg.Timeout, exec), nil
	case types.BackendLibreOffice:
		return newLibreOffice(cfg.Binary, cfg.Timeout, exec), nil
	case "":
		return detect(cfg.Timeout, exec)
	default:
		return nil, fmt.Errorf("unknown conversion backend %q: use abiword or libreoffice", cfg.Backend)
	}
}

func detect(timeout time.Duration, exec executor) (Converter, error) {
	candidates := []*backend{
		newAbiword(binAbiword, timeout, exec),
		newLibreOffice(binSoffice, timeout, exec),
		newLibreOffice(binLibreOffice, timeout, exec),
	}
	for _, c := range candidates {
		if c.Available() {
			return c, nil
		}
	}
	return nil, fmt.Errorf(
		"no converter available: none of %s, %s, %s found on PATH",
		binAbiword, binSoffice, binLibreOffice,
	)
}

// Probe reports, for each known converter binary, whether it is on PATH.
func Probe() map[string]bool {
	return probe(defaultExec)
}

func probe(exec executor) map[string]bool {
	out := make(map[string]bool)
	for _, bin := range []string{binAbiword, binSoffice, binLibreOffice} {
		_, err := exec.LookPath(bin)
		out[bin] = err == nil
	}
	return out
}
