// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/protocol-reports/internal/report"
	"github.com/pdiddy/protocol-reports/pkg/types"
)

func writeRequest(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerateFiles(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "reports")
	g, err := report.New(types.ReportsConfig{OutputDir: out}, report.WithLogger(quiet()))
	require.NoError(t, err)

	var files []string
	for i := 0; i < 5; i++ {
		files = append(files, writeRequest(t, in, fmt.Sprintf("r%d.json", i),
			fmt.Sprintf(`{"name_report": "report-%d", "document_type": "docx", "data": {"participants": ["a"]}}`, i)))
	}
	files = append(files, writeRequest(t, in, "r5.yaml", "name_report: report-5\ndocument_type: docx\ndata:\n  agenda: [x]\n"))

	outputs, err := generateFiles(context.Background(), g, types.KindUnofficial, generateOverrides{}, files, 3)
	require.NoError(t, err)
	require.Len(t, outputs, 6)
	for i, o := range outputs {
		assert.Equal(t, files[i], o.File)
		assert.Equal(t, filepath.Join(out, fmt.Sprintf("report-%d.docx", i)), o.Path)
		assert.FileExists(t, o.Path)
	}
}

func TestGenerateFilesOverrides(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "reports")
	g, err := report.New(types.ReportsConfig{OutputDir: out}, report.WithLogger(quiet()))
	require.NoError(t, err)

	file := writeRequest(t, in, "r.json", `{"name_report": "original", "document_type": "docx", "data": null}`)
	ov := generateOverrides{name: "renamed", password: "secret", hasPassword: true}

	outputs, err := generateFiles(context.Background(), g, types.KindTranscript, ov, []string{file}, 1)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, filepath.Join(out, "encrypt_renamed.docx"), outputs[0].Path)
	assert.True(t, outputs[0].Encrypted)
}

func TestGenerateFilesFailure(t *testing.T) {
	in := t.TempDir()
	g, err := report.New(types.ReportsConfig{OutputDir: filepath.Join(t.TempDir(), "reports")}, report.WithLogger(quiet()))
	require.NoError(t, err)

	good := writeRequest(t, in, "good.json", `{"name_report": "a", "document_type": "docx", "data": {}}`)
	bad := writeRequest(t, in, "bad.json", `{"name_report": "b", "document_type": "odt", "data": {}}`)

	_, err = generateFiles(context.Background(), g, types.KindOfficial, generateOverrides{}, []string{good, bad}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")

	_, err = generateFiles(context.Background(), g, types.KindOfficial, generateOverrides{}, []string{filepath.Join(in, "missing.json")}, 1)
	assert.Error(t, err)
}
