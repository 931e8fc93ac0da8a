// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readParagraphs parses a docx file and returns the text of every body
// paragraph in order.
func readParagraphs(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)

	doc, err := docx.Parse(f, info.Size())
	require.NoError(t, err)

	var out []string
	for _, it := range doc.Document.Body.Items {
		if p, ok := it.(*docx.Paragraph); ok {
			out = append(out, p.String())
		}
	}
	return out
}

func TestWriteDocx(t *testing.T) {
	doc := New()
	doc.Heading(1, "Совещание")
	doc.Paragraph("Время: 10:00:00")
	doc.BulletList("Участники:", []string{"Alice", "Bob"})
	doc.Paragraph("Старт: 00:00:01", "Конец: 00:00:09")
	doc.PageBreak()

	path := filepath.Join(t.TempDir(), "Совещание.docx")
	require.NoError(t, WriteDocx(doc, path))

	paras := readParagraphs(t, path)
	joined := strings.Join(paras, "\n")
	assert.Contains(t, joined, "Совещание")
	assert.Contains(t, joined, "Время: 10:00:00")
	assert.Contains(t, joined, "Участники:")
	assert.Contains(t, joined, "Alice")
	assert.Contains(t, joined, "Конец: 00:00:09")

	// heading, paragraph, label, two bullets, two paragraph lines, page break
	assert.GreaterOrEqual(t, len(paras), 8)
}

func TestWriteDocxOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")

	doc := New()
	doc.Heading(1, "report")
	doc.Paragraph("body")

	require.NoError(t, WriteDocx(doc, path))
	first, err := os.Stat(path)
	require.NoError(t, err)
	firstParas := readParagraphs(t, path)

	require.NoError(t, WriteDocx(doc, path))
	second, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, first.Size(), second.Size())
	assert.Equal(t, firstParas, readParagraphs(t, path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
	assert.Equal(t, "report.docx", entries[0].Name())
}

func TestWriteDocxIsDeterministic(t *testing.T) {
	doc := New()
	doc.Heading(1, "Протокол")
	doc.Heading(2, "Бюджет")
	doc.BulletList("Участники:", []string{"Иванов", "Петров"})
	doc.Paragraph("Время: 10:00:00")
	doc.PageBreak()

	dir := t.TempDir()
	first := filepath.Join(dir, "a.docx")
	second := filepath.Join(dir, "b.docx")
	require.NoError(t, WriteDocx(doc, first))
	require.NoError(t, WriteDocx(doc, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	zr, err := zip.OpenReader(first)
	require.NoError(t, err)
	defer zr.Close()
	require.NotEmpty(t, zr.File)
	assert.Equal(t, "[Content_Types].xml", zr.File[0].Name)
	for i := 1; i < len(zr.File); i++ {
		assert.Less(t, zr.File[i-1].Name, zr.File[i].Name)
	}
}

// readPartString returns one part of a docx package as text.
func readPartString(t *testing.T, path, part string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != part {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("part %s not found", part)
	return ""
}

func TestWriteDocxDefinesReferencedStyles(t *testing.T) {
	doc := New()
	for level := 1; level <= 4; level++ {
		doc.Heading(level, "h")
	}
	doc.BulletList("", []string{"item"})

	path := filepath.Join(t.TempDir(), "styles.docx")
	require.NoError(t, WriteDocx(doc, path))

	body := readPartString(t, path, "word/document.xml")
	styles := readPartString(t, path, stylesPart)
	for _, id := range styleIDs {
		assert.Contains(t, body, `"`+id+`"`, "document references %s", id)
		assert.Contains(t, styles, `w:styleId="`+id+`"`, "styles.xml defines %s", id)
	}
	assert.Contains(t, styles, `<w:name w:val="heading 1"/>`)
	assert.Contains(t, styles, `<w:outlineLvl w:val="3"/>`)
	assert.Contains(t, styles, `<w:name w:val="List Bullet"/>`)
	assert.Equal(t, 1, strings.Count(styles, `w:styleId="Heading2"`))
}

func TestWithReportStylesIsIdempotent(t *testing.T) {
	in := []byte(`<w:styles><w:style w:styleId="a"/></w:styles>`)
	once := withReportStyles(in)
	assert.Contains(t, string(once), `w:styleId="ListBullet"`)
	assert.True(t, strings.HasSuffix(string(once), "</w:styles>"))
	assert.Equal(t, once, withReportStyles(once))
	assert.Equal(t, []byte("garbage"), withReportStyles([]byte("garbage")))
}

func TestWriteDocxMissingDirectory(t *testing.T) {
	err := WriteDocx(New(), filepath.Join(t.TempDir(), "absent", "x.docx"))
	assert.Error(t, err)
}

func TestDocumentCount(t *testing.T) {
	doc := New()
	doc.Heading(1, "t")
	doc.PageBreak()
	doc.PageBreak()
	assert.Equal(t, 2, doc.Count(KindPageBreak))
	assert.Equal(t, 1, doc.Count(KindHeading))
	assert.Equal(t, 0, doc.Count(KindBulletList))
}
