// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

// clockLayouts are the accepted textual forms of a clock time. Offsets and
// the Z suffix are accepted and ignored; a clock time is wall-clock only.
var clockLayouts = []string{
	"15:04:05.999999999Z07:00",
	"15:04:05.999999999",
	"15:04Z07:00",
	"15:04",
}

// timestampLayouts are the accepted textual forms of dates and deadlines.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ClockTime is a time of day, or an offset into an audio recording. The zero
// value is unset and renders as nothing.
type ClockTime struct {
	offset time.Duration
	valid  bool
}

// NewClockTime builds a ClockTime from hours, minutes, and seconds.
func NewClockTime(hour, minute, second int) ClockTime {
	return ClockAt(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// ClockAt builds a ClockTime from an offset since 00:00:00.
func ClockAt(offset time.Duration) ClockTime {
	return ClockTime{offset: offset, valid: true}
}

// Valid reports whether the clock time was set.
func (c ClockTime) Valid() bool { return c.valid }

// Offset returns the time elapsed since 00:00:00.
func (c ClockTime) Offset() time.Duration { return c.offset }

// String formats the clock time as HH:MM:SS, wrapping at 24 hours.
func (c ClockTime) String() string {
	if !c.valid {
		return ""
	}
	total := int64(c.offset / time.Second)
	if total < 0 {
		total = 0
	}
	h := (total / 3600) % 24
	m := (total / 60) % 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// MarshalJSON encodes the clock time as "HH:MM:SS", or null when unset.
func (c ClockTime) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts "HH:MM[:SS[.fff]][Z|±hh:mm]" or a number of seconds.
// An empty string leaves the clock time unset.
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ClockTime{}
		return nil
	}

	if len(data) > 0 && data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("parsing clock time %s: %w", data, err)
		}
		*c = ClockAt(time.Duration(secs * float64(time.Second)))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing clock time: %w", err)
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseClockTime parses the textual clock forms accepted by UnmarshalJSON.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClockTime{}, nil
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		offset := time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second +
			time.Duration(t.Nanosecond())
		return ClockAt(offset), nil
	}
	return ClockTime{}, fmt.Errorf("unrecognized clock time %q", s)
}

// Duration is an elapsed time such as a meeting length. The zero value is
// unset.
type Duration struct {
	d     time.Duration
	valid bool
}

// NewDuration wraps d as a set Duration.
func NewDuration(d time.Duration) Duration {
	return Duration{d: d, valid: true}
}

// Valid reports whether the duration was set.
func (d Duration) Valid() bool { return d.valid }

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return d.d }

// String renders the duration as "[N day(s), ]H:MM:SS".
func (d Duration) String() string {
	if !d.valid {
		return ""
	}
	total := int64(d.d / time.Second)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	days := total / 86400
	rem := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rem/3600, (rem/60)%60, rem%60)
	switch days {
	case 0:
		return sign + clock
	case 1:
		return fmt.Sprintf("%s1 day, %s", sign, clock)
	default:
		return fmt.Sprintf("%s%d days, %s", sign, days, clock)
	}
}

// MarshalJSON encodes the duration in ISO-8601 form, or null when unset.
func (d Duration) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return []byte("null"), nil
	}
	return json.Marshal(duration.FromTimeDuration(d.d).String())
}

// UnmarshalJSON accepts an ISO-8601 duration ("P3D", "PT1H30M"), "H:MM:SS",
// or a number of seconds. An empty string leaves the duration unset.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Duration{}
		return nil
	}

	if len(data) > 0 && data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("parsing duration %s: %w", data, err)
		}
		*d = NewDuration(time.Duration(secs * float64(time.Second)))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing duration: %w", err)
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDuration parses the textual duration forms accepted by UnmarshalJSON.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, nil
	}
	if strings.HasPrefix(s, "P") || strings.HasPrefix(s, "-P") {
		iso, err := duration.Parse(s)
		if err != nil {
			return Duration{}, fmt.Errorf("parsing ISO-8601 duration %q: %w", s, err)
		}
		return NewDuration(iso.ToTimeDuration()), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Duration{}, fmt.Errorf("unrecognized duration %q", s)
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	sec, errS := strconv.ParseFloat(parts[2], 64)
	if errH != nil || errM != nil || errS != nil {
		return Duration{}, fmt.Errorf("unrecognized duration %q", s)
	}
	total := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec*float64(time.Second))
	return NewDuration(total), nil
}

// Timestamp is a calendar date or date-time with lenient parsing. The zero
// value is unset.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

// Valid reports whether the timestamp was set.
func (t Timestamp) Valid() bool { return !t.IsZero() }

// MarshalJSON encodes the timestamp as RFC 3339, or null when unset.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts RFC 3339, "YYYY-MM-DDTHH:MM[:SS]", "YYYY-MM-DD HH:MM:SS",
// or "YYYY-MM-DD". An empty string leaves the timestamp unset.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp parses the textual forms accepted by UnmarshalJSON.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: parsed}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}
