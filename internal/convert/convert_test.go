// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/protocol-reports/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runFunc       func(ctx context.Context, name string, args []string) ([]byte, error)
	calls         [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runFunc != nil {
		return m.runFunc(ctx, name, args)
	}
	return nil, nil
}

// writePDF is a runFunc that creates the PDF the converter would produce.
func writePDF(out string) func(context.Context, string, []string) ([]byte, error) {
	return func(context.Context, string, []string) ([]byte, error) {
		return nil, os.WriteFile(out, []byte("%PDF-1.4"), 0o644)
	}
}

// setupDocx creates a fake docx file and returns its path.
func setupDocx(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "Протокол.docx")
	require.NoError(t, os.WriteFile(src, []byte("PK"), 0o644))
	return src
}

func TestPDFPath(t *testing.T) {
	assert.Equal(t, filepath.Join("reports", "a.pdf"), PDFPath(filepath.Join("reports", "a.docx")))
	assert.Equal(t, "x.y.pdf", PDFPath("x.y.docx"))
}

func TestBackendArguments(t *testing.T) {
	tests := []struct {
		name     string
		mk       func(*mockExecutor) *backend
		wantBin  string
		wantArgs func(src, out string) []string
	}{
		{
			name:    "abiword",
			mk:      func(e *mockExecutor) *backend { return newAbiword("", 0, e) },
			wantBin: "abiword",
			wantArgs: func(src, out string) []string {
				return []string{"--to=pdf", "--to-name=" + out, src}
			},
		},
		{
			name:    "abiword fixed path",
			mk:      func(e *mockExecutor) *backend { return newAbiword("/usr/bin/abiword", 0, e) },
			wantBin: "/usr/bin/abiword",
			wantArgs: func(src, out string) []string {
				return []string{"--to=pdf", "--to-name=" + out, src}
			},
		},
		{
			name:    "libreoffice",
			mk:      func(e *mockExecutor) *backend { return newLibreOffice("", 0, e) },
			wantBin: "soffice",
			wantArgs: func(src, out string) []string {
				return []string{"--headless", "--convert-to", "pdf", "--outdir", filepath.Dir(out), src}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := setupDocx(t)
			out := PDFPath(src)
			exec := &mockExecutor{runFunc: writePDF(out)}

			got, err := tt.mk(exec).Convert(context.Background(), src)
			require.NoError(t, err)
			assert.Equal(t, out, got)

			require.Len(t, exec.calls, 1)
			assert.Equal(t, tt.wantBin, exec.calls[0][0])
			assert.Equal(t, tt.wantArgs(src, out), exec.calls[0][1:])
		})
	}
}

func TestConvertFailures(t *testing.T) {
	tests := []struct {
		name    string
		runFunc func(context.Context, string, []string) ([]byte, error)
		wantMsg string
	}{
		{
			name: "non-zero exit",
			runFunc: func(context.Context, string, []string) ([]byte, error) {
				return []byte("could not load document"), errors.New("exit status 1")
			},
			wantMsg: "could not load document",
		},
		{
			name:    "clean exit without output",
			runFunc: func(context.Context, string, []string) ([]byte, error) { return nil, nil },
			wantMsg: "produced no",
		},
		{
			name: "timeout",
			runFunc: func(ctx context.Context, _ string, _ []string) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			wantMsg: "timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := setupDocx(t)
			exec := &mockExecutor{runFunc: tt.runFunc}
			b := newAbiword("", 20*time.Millisecond, exec)

			_, err := b.Convert(context.Background(), src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConversion)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConvertRemovesStalePDF(t *testing.T) {
	src := setupDocx(t)
	out := PDFPath(src)
	require.NoError(t, os.WriteFile(out, []byte("old"), 0o644))

	exec := &mockExecutor{runFunc: func(context.Context, string, []string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}}
	_, err := newAbiword("", 0, exec).Convert(context.Background(), src)
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "stale pdf should be gone")
}

func TestConvertMissingSource(t *testing.T) {
	exec := &mockExecutor{}
	_, err := newAbiword("", 0, exec).Convert(context.Background(), filepath.Join(t.TempDir(), "none.docx"))
	assert.ErrorIs(t, err, ErrConversion)
	assert.Empty(t, exec.calls)
}

func TestToPDF(t *testing.T) {
	src := setupDocx(t)
	ok := ToPDF(context.Background(), newAbiword("", 0, &mockExecutor{runFunc: writePDF(PDFPath(src))}), src)
	assert.True(t, ok.OK())
	assert.Equal(t, PDFPath(src), ok.Path)

	failed := ToPDF(context.Background(), nil, src)
	assert.False(t, failed.OK())
	assert.ErrorIs(t, failed.Err, ErrConversion)
}

func TestNewConverter(t *testing.T) {
	tests := []struct {
		name     string
		cfg      types.ConversionConfig
		bins     map[string]bool
		wantName string
		wantErr  string
	}{
		{name: "explicit abiword", cfg: types.ConversionConfig{Backend: types.BackendAbiword}, wantName: "abiword"},
		{name: "explicit libreoffice", cfg: types.ConversionConfig{Backend: types.BackendLibreOffice}, wantName: "libreoffice"},
		{name: "detect abiword first", bins: map[string]bool{"abiword": true, "soffice": true}, wantName: "abiword"},
		{name: "detect soffice fallback", bins: map[string]bool{"soffice": true}, wantName: "libreoffice"},
		{name: "detect libreoffice binary", bins: map[string]bool{"libreoffice": true}, wantName: "libreoffice"},
		{name: "nothing installed", bins: map[string]bool{}, wantErr: "no converter available"},
		{name: "unknown backend", cfg: types.ConversionConfig{Backend: "pandoc"}, wantErr: "unknown conversion backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newConverter(tt.cfg, &mockExecutor{availableBins: tt.bins})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, c.Name())
		})
	}
}

func TestProbe(t *testing.T) {
	got := probe(&mockExecutor{availableBins: map[string]bool{"soffice": true}})
	assert.Equal(t, map[string]bool{"abiword": false, "soffice": true, "libreoffice": false}, got)
}
