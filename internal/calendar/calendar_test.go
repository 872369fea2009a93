package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadralivre/facility-booking-service/pkg/types"
)

func TestCanonical(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{
			name:  "local evening keeps same digits",
			input: time.Date(2025, 10, 15, 22, 30, 0, 0, sp),
			want:  time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "already canonical",
			input: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "DST transition day does not shift the date",
			// В Бразилии исторически переход происходил в начале ноября
			input: time.Date(2018, 11, 4, 1, 0, 0, 0, sp),
			want:  time.Date(2018, 11, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("12.03.2025")
	assert.Error(t, err)
}

func TestWeekdayIndex(t *testing.T) {
	// 2025-01-01 - среда
	assert.Equal(t, time.Wednesday, WeekdayIndex(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	// 2025-01-05 - воскресенье, индекс 0
	assert.Equal(t, time.Weekday(0), WeekdayIndex(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))
}

func TestCalendar_Today(t *testing.T) {
	// 23:30 UTC 15 октября - в Сан-Паулу (UTC-3) еще 20:30 того же дня
	cal, err := NewWithNow("America/Sao_Paulo", func() time.Time {
		return time.Date(2025, 10, 15, 23, 30, 0, 0, time.UTC)
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), cal.Today())

	// 02:30 UTC 16 октября - в Сан-Паулу еще 23:30 пятнадцатого
	cal, err = NewWithNow("America/Sao_Paulo", func() time.Time {
		return time.Date(2025, 10, 16, 2, 30, 0, 0, time.UTC)
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), cal.Today())
}

func TestCalendar_IsPastDay(t *testing.T) {
	cal, err := NewWithNow("America/Sao_Paulo", func() time.Time {
		return time.Date(2025, 10, 15, 15, 0, 0, 0, time.UTC)
	})
	require.NoError(t, err)

	assert.True(t, cal.IsPastDay(time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsPastDay(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsPastDay(time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)))
}

func TestCalendar_PastSlot(t *testing.T) {
	// В Сан-Паулу сейчас 2025-10-15 14:00
	cal, err := NewWithNow("America/Sao_Paulo", func() time.Time {
		return time.Date(2025, 10, 15, 17, 0, 0, 0, time.UTC)
	})
	require.NoError(t, err)

	today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		date      time.Time
		startTime string
		want      bool
	}{
		{name: "past day", date: yesterday, startTime: "19:00", want: true},
		{name: "today earlier slot", date: today, startTime: "10:00", want: true},
		{name: "today current slot already started", date: today, startTime: "14:00", want: true},
		{name: "today later slot", date: today, startTime: "19:00", want: false},
		{name: "tomorrow", date: tomorrow, startTime: "07:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.PastSlot(tt.date, types.TimeString(tt.startTime)))
		})
	}
}
