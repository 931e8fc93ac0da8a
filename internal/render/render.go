// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render projects a typed record onto an ordered sequence of
// document elements. There is one routine per record kind; all of them
// share the omission rule: a field produces an element only when it is set
// and, for text, non-empty. Audio ranges render only when both endpoints
// are set.
package render

import (
	"errors"
	"fmt"

	"github.com/pdiddy/protocol-reports/internal/document"
	"github.com/pdiddy/protocol-reports/pkg/types"
)

// Labels used in rendered documents.
const (
	labelTime       = "Время: "
	labelDate       = "Дата проведения: "
	labelDuration   = "Длительность: "
	labelAttendees  = "Участники:"
	labelAgenda     = "Повестка дня:"
	labelAudioTime  = "Время в аудиозаписи:"
	labelSpeaker    = "ФИО: "
	labelStart      = "Старт: "
	labelEnd        = "Конец: "
	labelDeadline   = "Дедлайн: "
	dateLayout      = "02-01-2006"
	deadlineLayout  = "2006-01-02 15:04:05"
	headingTitle    = 1
	headingSection  = 2
	headingItem     = 3
	headingDeadline = 4
)

// ErrUnsupportedRecord is returned for a record outside the three known kinds.
var ErrUnsupportedRecord = errors.New("unsupported record kind")

// Render builds the document for any supported record.
func Render(name string, rec types.Record) (*document.Document, error) {
	switch r := rec.(type) {
	case *types.MeetingTranscript:
		return RenderTranscript(name, r), nil
	case *types.OfficialProtocol:
		return RenderOfficial(name, r), nil
	case *types.UnofficialProtocol:
		return RenderUnofficial(name, r), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRecord, rec)
	}
}

// RenderTranscript emits one section per speaker, each followed by a page
// break.
func RenderTranscript(name string, rec *types.MeetingTranscript) *document.Document {
	doc := document.New()
	doc.Heading(headingTitle, name)
	if rec == nil {
		return doc
	}

	for _, sp := range rec.SpeakersTranscript {
		if s, ok := text(sp.SpeakerName); ok {
			doc.Heading(headingSection, labelSpeaker+s)
		}
		if sp.AudioTime.Complete() {
			doc.Heading(headingItem, labelAudioTime)
			doc.Paragraph(
				labelStart+sp.AudioTime.Start.String(),
				labelEnd+sp.AudioTime.End.String(),
			)
		}
		if s, ok := text(sp.TranscriptText); ok {
			doc.Paragraph(s)
		}
		doc.PageBreak()
	}
	return doc
}

// RenderOfficial emits the agenda followed, after a page break, by the
// errand list.
func RenderOfficial(name string, rec *types.OfficialProtocol) *document.Document {
	doc := document.New()
	doc.Heading(headingTitle, name)
	if rec == nil {
		return doc
	}

	clock(doc, rec.Time)
	date(doc, rec.Date)
	list(doc, labelAttendees, rec.Attendees)
	blocks(doc, rec.Blocks)

	errands := rec.Errands()
	if len(errands) == 0 {
		return doc
	}
	doc.PageBreak()
	for _, e := range errands {
		if s, ok := text(e.Assignee); ok {
			doc.Heading(headingItem, s)
		}
		if e.Deadline != nil && e.Deadline.Valid() {
			doc.Heading(headingDeadline, labelDeadline+e.Deadline.Format(deadlineLayout))
		}
		if s, ok := text(e.Context); ok {
			doc.Paragraph(s)
		}
	}
	return doc
}

// RenderUnofficial emits the minutes: scalar metadata, participant and
// agenda lists, blocks, then the recorded audio spans.
func RenderUnofficial(name string, rec *types.UnofficialProtocol) *document.Document {
	doc := document.New()
	doc.Heading(headingTitle, name)
	if rec == nil {
		return doc
	}

	clock(doc, rec.Time)
	date(doc, rec.Date)
	if rec.Duration != nil && rec.Duration.Valid() {
		doc.Paragraph(labelDuration + rec.Duration.String())
	}
	list(doc, labelAttendees, rec.Participants)
	list(doc, labelAgenda, rec.Agenda)
	blocks(doc, rec.Blocks)

	for i := range rec.AudioTimes {
		audioRange(doc, &rec.AudioTimes[i])
	}
	return doc
}

// blocks emits each block heading followed by its proposals.
func blocks(doc *document.Document, bs []types.Block) {
	for _, b := range bs {
		if s, ok := text(b.NameBlock); ok {
			doc.Heading(headingSection, s)
		}
		for _, p := range b.Proposals {
			if s, ok := text(p.Text); ok {
				doc.Heading(headingItem, s)
			}
			if s, ok := text(p.Context); ok {
				doc.Paragraph(s)
			}
			audioRange(doc, p.AudioTime)
		}
	}
}

func audioRange(doc *document.Document, a *types.AudioTime) {
	if !a.Complete() {
		return
	}
	doc.Paragraph(fmt.Sprintf("%s %s - %s", labelAudioTime, a.Start.String(), a.End.String()))
}

func clock(doc *document.Document, c *types.ClockTime) {
	if c != nil && c.Valid() {
		doc.Paragraph(labelTime + c.String())
	}
}

func date(doc *document.Document, d *types.Timestamp) {
	if d != nil && d.Valid() {
		doc.Paragraph(labelDate + d.Format(dateLayout))
	}
}

// list emits a bullet list with one entry per item, empty ones included, or
// nothing when there are no items.
func list(doc *document.Document, label string, items []string) {
	if len(items) == 0 {
		return
	}
	doc.BulletList(label, items)
}

func text(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}
