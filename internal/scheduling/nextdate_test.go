package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFreeStartDates(t *testing.T) {
	from := date(2025, 1, 1) // среда

	noConflicts := func(time.Time) (bool, error) { return false, nil }

	t.Run("first free dates with no conflicts", func(t *testing.T) {
		got, err := NextFreeStartDates(from, time.Wednesday, 26, 3, noConflicts)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			date(2025, 1, 1),
			date(2025, 1, 8),
			date(2025, 1, 15),
		}, got)
	})

	t.Run("skips conflicted weeks", func(t *testing.T) {
		taken := map[string]bool{
			"2025-01-01": true,
			"2025-01-08": true,
			"2025-01-15": true,
		}
		got, err := NextFreeStartDates(from, time.Wednesday, 26, 2, func(d time.Time) (bool, error) {
			return taken[d.Format("2006-01-02")], nil
		})
		require.NoError(t, err)
		// Первые три среды заняты, предложения начинаются с четвертой
		assert.Equal(t, []time.Time{
			date(2025, 1, 22),
			date(2025, 1, 29),
		}, got)
	})

	t.Run("horizon exhausted returns partial result", func(t *testing.T) {
		got, err := NextFreeStartDates(from, time.Wednesday, 2, 5, noConflicts)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("everything conflicted returns empty slice", func(t *testing.T) {
		got, err := NextFreeStartDates(from, time.Wednesday, 4, 3, func(time.Time) (bool, error) {
			return true, nil
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("probe error is propagated", func(t *testing.T) {
		probeErr := errors.New("storage unavailable")
		_, err := NextFreeStartDates(from, time.Wednesday, 4, 3, func(time.Time) (bool, error) {
			return false, probeErr
		})
		assert.ErrorIs(t, err, probeErr)
	})

	t.Run("non-positive limits short-circuit", func(t *testing.T) {
		got, err := NextFreeStartDates(from, time.Wednesday, 0, 3, noConflicts)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = NextFreeStartDates(from, time.Wednesday, 4, 0, noConflicts)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
