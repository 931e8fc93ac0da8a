// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockTimeUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantValid bool
		wantErr   bool
	}{
		{name: "plain clock", input: `"09:05:07"`, want: "09:05:07", wantValid: true},
		{name: "fraction and zulu", input: `"21:10:52.564Z"`, want: "21:10:52", wantValid: true},
		{name: "offset suffix", input: `"10:00:00+03:00"`, want: "10:00:00", wantValid: true},
		{name: "hours and minutes", input: `"14:30"`, want: "14:30:00", wantValid: true},
		{name: "seconds number", input: `133.98`, want: "00:02:13", wantValid: true},
		{name: "long recording", input: `3725`, want: "01:02:05", wantValid: true},
		{name: "empty string is unset", input: `""`, want: "", wantValid: false},
		{name: "garbage", input: `"noon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ClockTime
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, c.Valid())
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestClockTimeMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewClockTime(8, 3, 9))
	require.NoError(t, err)
	assert.JSONEq(t, `"08:03:09"`, string(data))

	data, err = json.Marshal(ClockTime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "iso days", input: `"P3D"`, want: 72 * time.Hour},
		{name: "iso hours and minutes", input: `"PT1H30M"`, want: 90 * time.Minute},
		{name: "clock form", input: `"1:15:30"`, want: time.Hour + 15*time.Minute + 30*time.Second},
		{name: "seconds", input: `5400`, want: 90 * time.Minute},
		{name: "bad text", input: `"a while"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d.Valid())
			assert.Equal(t, tt.want, d.Std())
		})
	}
}

func TestDurationString(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 90 * time.Minute, want: "1:30:00"},
		{in: 24 * time.Hour, want: "1 day, 0:00:00"},
		{in: 72*time.Hour + 5*time.Second, want: "3 days, 0:00:05"},
		{in: 0, want: "0:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewDuration(tt.in).String())
	}
	assert.Empty(t, Duration{}.String())
}

func TestTimestampUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc3339", input: `"2024-09-07T21:10:52.564Z"`, want: time.Date(2024, 9, 7, 21, 10, 52, 564000000, time.UTC)},
		{name: "minutes precision", input: `"2024-01-01T00:00"`, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "date only", input: `"2024-03-15"`, want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "space separated", input: `"2024-03-15 10:20:30"`, want: time.Date(2024, 3, 15, 10, 20, 30, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, ts.Equal(tt.want), "got %v, want %v", ts.Time, tt.want)
		})
	}

	var empty Timestamp
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.False(t, empty.Valid())

	var bad Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))
}
