// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document holds the format-neutral element model of a report and
// writes it out as an editable docx file.
package document

import "strings"

// ElementKind classifies a document element.
type ElementKind string

const (
	KindHeading    ElementKind = "heading"
	KindParagraph  ElementKind = "paragraph"
	KindBulletList ElementKind = "bullet_list"
	KindPageBreak  ElementKind = "page_break"
)

// Element is one structural unit of a document. Which fields are meaningful
// depends on Kind.
type Element struct {
	Kind ElementKind

	// Level is the heading level (1-4) for headings.
	Level int

	// Lines holds the heading text (one line) or the paragraph lines.
	Lines []string

	// Label introduces a bullet list.
	Label string

	// Items are the bullet list entries in source order.
	Items []string
}

// Text joins the element's lines with newlines.
func (e Element) Text() string {
	return strings.Join(e.Lines, "\n")
}

// Document is an ordered sequence of elements.
type Document struct {
	Elements []Element
}

// New creates an empty document.
func New() *Document {
	return &Document{}
}

// Heading appends a heading at the given level.
func (d *Document) Heading(level int, text string) {
	d.Elements = append(d.Elements, Element{Kind: KindHeading, Level: level, Lines: []string{text}})
}

// Paragraph appends a body paragraph made of one or more lines.
func (d *Document) Paragraph(lines ...string) {
	d.Elements = append(d.Elements, Element{Kind: KindParagraph, Lines: lines})
}

// BulletList appends a labelled bullet list.
func (d *Document) BulletList(label string, items []string) {
	d.Elements = append(d.Elements, Element{
		Kind:  KindBulletList,
		Label: label,
		Items: append([]string(nil), items...),
	})
}

// PageBreak appends an explicit page break.
func (d *Document) PageBreak() {
	d.Elements = append(d.Elements, Element{Kind: KindPageBreak})
}

// Count returns how many elements of the given kind the document holds.
func (d *Document) Count(kind ElementKind) int {
	n := 0
	for _, e := range d.Elements {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
