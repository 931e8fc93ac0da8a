// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the protocol-reports
// pipeline: the three record kinds, the request envelope that carries them,
// and the configuration blocks for each pipeline stage.
package types

import "fmt"

// RecordKind identifies which of the three record shapes a request carries.
type RecordKind string

const (
	KindTranscript RecordKind = "transcript"
	KindOfficial   RecordKind = "official"
	KindUnofficial RecordKind = "unofficial"
)

// RecordKinds lists every supported kind in a stable order.
var RecordKinds = []RecordKind{KindTranscript, KindOfficial, KindUnofficial}

// ParseRecordKind maps a kind name to a RecordKind.
func ParseRecordKind(s string) (RecordKind, error) {
	switch RecordKind(s) {
	case KindTranscript, KindOfficial, KindUnofficial:
		return RecordKind(s), nil
	default:
		return "", fmt.Errorf("unknown record kind %q: use transcript, official, or unofficial", s)
	}
}

// Record is implemented by exactly the three record kinds in this package.
// The unexported method keeps the set closed.
type Record interface {
	// Kind reports the record's shape. It never changes after construction.
	Kind() RecordKind

	record()
}

// AudioTime is a span inside an audio recording.
type AudioTime struct {
	Start *ClockTime `json:"start" yaml:"start"`
	End   *ClockTime `json:"end" yaml:"end"`
}

// Complete reports whether both endpoints are set.
func (a *AudioTime) Complete() bool {
	return a != nil && a.Start != nil && a.Start.Valid() && a.End != nil && a.End.Valid()
}

// Proposal is one discussion point inside a Block.
type Proposal struct {
	Text      *string    `json:"text" yaml:"text"`
	Context   *string    `json:"context" yaml:"context"`
	AudioTime *AudioTime `json:"audio_time" yaml:"audio_time"`
}

// Block groups related proposals under one name.
type Block struct {
	NameBlock *string    `json:"name_block" yaml:"name_block"`
	Proposals []Proposal `json:"proposals" yaml:"proposals"`
}

// SpeakerTranscript is what one speaker said during one turn.
type SpeakerTranscript struct {
	SpeakerName    *string    `json:"speaker_name" yaml:"speaker_name"`
	TranscriptText *string    `json:"transcript_text" yaml:"transcript_text"`
	AudioTime      *AudioTime `json:"audio_time" yaml:"audio_time"`
}

// MeetingTranscript is the speaker-by-speaker transcript of a meeting.
type MeetingTranscript struct {
	SpeakersTranscript []SpeakerTranscript `json:"speakers_transcript" yaml:"speakers_transcript"`
}

func (*MeetingTranscript) Kind() RecordKind { return KindTranscript }
func (*MeetingTranscript) record()          {}

// Errand is an action item assigned during a meeting.
type Errand struct {
	// Assignee is the person the errand is assigned to.
	Assignee *string `json:"assignee" yaml:"assignee"`

	// Context describes the errand.
	Context *string `json:"context" yaml:"context"`

	// Deadline is when the errand is due.
	Deadline *Timestamp `json:"deadline" yaml:"deadline"`
}

// ErrandProtocol lists the errands of an official protocol.
type ErrandProtocol struct {
	ListErrands []Errand `json:"list_errands" yaml:"list_errands"`
}

// OfficialProtocol is the formal agenda of a meeting with its errands.
type OfficialProtocol struct {
	// Date is the day the meeting took place.
	Date *Timestamp `json:"date" yaml:"date"`

	// Time is the meeting start time.
	Time *ClockTime `json:"time" yaml:"time"`

	// Attendees lists who attended, in source order.
	Attendees []string `json:"attendees" yaml:"attendees"`

	// Blocks is the main agenda content.
	Blocks []Block `json:"blocks" yaml:"blocks"`

	// ErrandProtocol carries the errands assigned during the meeting.
	ErrandProtocol *ErrandProtocol `json:"errand_protocol" yaml:"errand_protocol"`
}

func (*OfficialProtocol) Kind() RecordKind { return KindOfficial }
func (*OfficialProtocol) record()          {}

// Errands returns the errand list, or nil when the protocol has none.
func (p *OfficialProtocol) Errands() []Errand {
	if p.ErrandProtocol == nil {
		return nil
	}
	return p.ErrandProtocol.ListErrands
}

// UnofficialProtocol is the informal minutes of a meeting.
type UnofficialProtocol struct {
	Date         *Timestamp  `json:"date" yaml:"date"`
	Time         *ClockTime  `json:"time" yaml:"time"`
	Duration     *Duration   `json:"duration" yaml:"duration"`
	Participants []string    `json:"participants" yaml:"participants"`
	Agenda       []string    `json:"agenda" yaml:"agenda"`
	Blocks       []Block     `json:"blocks" yaml:"blocks"`
	AudioTimes   []AudioTime `json:"audio_times" yaml:"audio_times"`
}

func (*UnofficialProtocol) Kind() RecordKind { return KindUnofficial }
func (*UnofficialProtocol) record()          {}

// NewRecord returns an empty record of the given kind.
func NewRecord(kind RecordKind) (Record, error) {
	switch kind {
	case KindTranscript:
		return &MeetingTranscript{}, nil
	case KindOfficial:
		return &OfficialProtocol{}, nil
	case KindUnofficial:
		return &UnofficialProtocol{}, nil
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}
