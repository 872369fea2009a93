package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "07:00", want: "07:00"},
		{name: "valid evening", input: "23:00", want: "23:00"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "missing leading zero", input: "7:00", wantErr: true},
		{name: "out of range hour", input: "25:00", wantErr: true},
		{name: "out of range minute", input: "10:61", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Compare(t *testing.T) {
	a := TimeString("10:00")
	b := TimeString("18:00")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(b))
	assert.True(t, a.Equal("10:00"))
	assert.False(t, a.Equal(b))

	// Некорректные значения не сравниваются
	assert.False(t, TimeString("bad").IsBefore(b))
	assert.False(t, a.IsAfter(TimeString("bad")))
}

func TestTimeString_AddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		start   TimeString
		minutes int
		want    TimeString
		wantErr bool
	}{
		{name: "within hour", start: "10:00", minutes: 30, want: "10:30"},
		{name: "crosses hour", start: "10:45", minutes: 30, want: "11:15"},
		{name: "full slot", start: "22:00", minutes: 60, want: "23:00"},
		{name: "crosses midnight", start: "23:30", minutes: 60, wantErr: true},
		{name: "negative result", start: "00:10", minutes: -20, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.start.AddMinutes(tt.minutes)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_MinutesSinceMidnight(t *testing.T) {
	m, err := TimeString("10:30").MinutesSinceMidnight()
	require.NoError(t, err)
	assert.Equal(t, 630, m)

	_, err = TimeString("bad").MinutesSinceMidnight()
	assert.Error(t, err)
}

func TestTimeString_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    TimeString
		wantErr bool
	}{
		{name: "time column with seconds", src: "10:00:00", want: "10:00"},
		{name: "plain string", src: "18:30", want: "18:30"},
		{name: "bytes", src: []byte("07:15:00"), want: "07:15"},
		{name: "time.Time", src: time.Date(2025, 1, 1, 19, 0, 0, 0, time.UTC), want: "19:00"},
		{name: "null", src: nil, want: ""},
		{name: "unsupported type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts TimeString
			err := ts.Scan(tt.src)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ts)
		})
	}
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
