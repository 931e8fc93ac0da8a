// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fumiama/go-docx"
)

// Word built-in style IDs applied to headings and list entries.
const (
	styleListBullet = "ListBullet"
	styleHeading    = "Heading%d"

	stylesPart = "word/styles.xml"
)

// headingSizes maps heading levels to font sizes in half-points.
var headingSizes = map[int]string{
	1: "36",
	2: "30",
	3: "26",
	4: "24",
}

// WriteDocx renders doc into a docx file at path, replacing any existing
// file. The same document always produces the same bytes, and a failed
// write leaves any previous file in place.
func WriteDocx(doc *Document, path string) error {
	w := docx.New().WithDefaultTheme()
	for _, e := range doc.Elements {
		appendElement(w, e)
	}

	var raw bytes.Buffer
	if _, err := w.WriteTo(&raw); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	packed, err := repack(raw.Bytes())
	if err != nil {
		return fmt.Errorf("packing %s: %w", path, err)
	}
	return writeFileAtomic(path, packed)
}

func appendElement(w *docx.Docx, e Element) {
	switch e.Kind {
	case KindHeading:
		level := e.Level
		if _, ok := headingSizes[level]; !ok {
			level = 4
		}
		p := w.AddParagraph().Style(fmt.Sprintf(styleHeading, level))
		p.AddText(e.Text()).Bold().Size(headingSizes[level])
	case KindParagraph:
		// docx paragraphs do not honour embedded newlines, so each line
		// becomes its own paragraph.
		for _, line := range e.Lines {
			w.AddParagraph().AddText(line)
		}
	case KindBulletList:
		if e.Label != "" {
			w.AddParagraph().AddText(e.Label)
		}
		for _, item := range e.Items {
			w.AddParagraph().Style(styleListBullet).AddText("• " + item)
		}
	case KindPageBreak:
		w.AddParagraph().AddPageBreaks()
	}
}

// repack rewrites the package with its parts in name order and the
// heading and list styles added to the style sheet. go-docx emits parts in
// map order, so its output differs between runs.
func repack(raw []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}

	files := make([]*zip.File, len(zr.File))
	copy(files, zr.File)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range files {
		data, err := readPart(f)
		if err != nil {
			return nil, err
		}
		if f.Name == stylesPart {
			data = withReportStyles(data)
		}
		pw, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// writeFileAtomic writes data to a temporary sibling of path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	name := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
