//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"barberbook/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func mustTimeOfDay(t *testing.T, hour, minute int) schedule.TimeOfDay {
	t.Helper()
	tod, err := schedule.NewTimeOfDay(hour, minute)
	require.NoError(t, err)
	return tod
}

func mustWindow(t *testing.T, days []schedule.Weekday, opens, closes string, active bool) schedule.WorkingWindow {
	t.Helper()
	o, err := schedule.ParseTimeOfDay(opens)
	require.NoError(t, err)
	c, err := schedule.ParseTimeOfDay(closes)
	require.NoError(t, err)
	w, err := schedule.NewWorkingWindow(days, o, c, active)
	require.NoError(t, err)
	return w
}

func mustInterval(t *testing.T, day time.Time, startHour, endHour int) schedule.Interval {
	t.Helper()
	i, err := schedule.NewInterval(
		time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location()),
		time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, day.Location()),
	)
	require.NoError(t, err)
	return i
}

func TestInterval(t *testing.T) {
	t.Run("rejects end before or equal to start", func(t *testing.T) {
		now := time.Now()

		_, err := schedule.NewInterval(now, now)
		require.ErrorIs(t, err, schedule.ErrInvalidInterval)

		_, err = schedule.NewInterval(now, now.Add(-time.Minute))
		require.ErrorIs(t, err, schedule.ErrInvalidInterval)
	})

	t.Run("overlap is half-open", func(t *testing.T) {
		nineToTen := mustInterval(t, monday, 9, 10)
		tenToEleven := mustInterval(t, monday, 10, 11)
		nineToEleven := mustInterval(t, monday, 9, 11)

		assert.False(t, nineToTen.Overlaps(tenToEleven), "adjacent intervals must not overlap")
		assert.True(t, nineToEleven.Overlaps(tenToEleven))
		assert.True(t, tenToEleven.Overlaps(nineToEleven))
	})

	t.Run("contains start but not end", func(t *testing.T) {
		i := mustInterval(t, monday, 9, 10)

		assert.True(t, i.Contains(i.Start()))
		assert.True(t, i.Contains(i.Start().Add(30*time.Minute)))
		assert.False(t, i.Contains(i.End()))
	})
}

func TestTimeOfDay(t *testing.T) {
	cases := []struct {
		name  string
		hour  int
		min   int
		valid bool
	}{
		{name: "midnight", hour: 0, min: 0, valid: true},
		{name: "last minute of day", hour: 23, min: 59, valid: true},
		{name: "hour too large", hour: 24, min: 0, valid: false},
		{name: "negative hour", hour: -1, min: 0, valid: false},
		{name: "minute too large", hour: 12, min: 60, valid: false},
		{name: "negative minute", hour: 12, min: -1, valid: false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := schedule.NewTimeOfDay(c.hour, c.min)
			if c.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
			}
		})
	}

	t.Run("parse", func(t *testing.T) {
		tod, err := schedule.ParseTimeOfDay("09:30")
		require.NoError(t, err)
		assert.Equal(t, 9, tod.Hour())
		assert.Equal(t, 30, tod.Minute())
		assert.Equal(t, "09:30", tod.String())

		_, err = schedule.ParseTimeOfDay("9:30am")
		require.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
	})

	t.Run("ordering", func(t *testing.T) {
		assert.True(t, mustTimeOfDay(t, 9, 0).Before(mustTimeOfDay(t, 9, 30)))
		assert.True(t, mustTimeOfDay(t, 9, 59).Before(mustTimeOfDay(t, 10, 0)))
		assert.False(t, mustTimeOfDay(t, 10, 0).Before(mustTimeOfDay(t, 10, 0)))
	})

	t.Run("on anchors to a date", func(t *testing.T) {
		at := mustTimeOfDay(t, 14, 15).On(monday, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 2, 14, 15, 0, 0, time.UTC), at)
	})
}

func TestWorkingWindow(t *testing.T) {
	t.Run("rejects closing before opening", func(t *testing.T) {
		opens := mustTimeOfDay(t, 18, 0)
		closes := mustTimeOfDay(t, 9, 0)

		_, err := schedule.NewWorkingWindow([]schedule.Weekday{schedule.Monday}, opens, closes, true)
		require.ErrorIs(t, err, schedule.ErrInvalidWindow)
	})

	t.Run("rejects invalid weekday", func(t *testing.T) {
		opens := mustTimeOfDay(t, 9, 0)
		closes := mustTimeOfDay(t, 18, 0)

		_, err := schedule.NewWorkingWindow([]schedule.Weekday{schedule.Weekday(7)}, opens, closes, true)
		require.Error(t, err)
	})

	t.Run("applies only on listed active days", func(t *testing.T) {
		w := mustWindow(t, []schedule.Weekday{schedule.Monday, schedule.Wednesday}, "09:00", "18:00", true)

		assert.True(t, w.AppliesOn(schedule.Monday))
		assert.True(t, w.AppliesOn(schedule.Wednesday))
		assert.False(t, w.AppliesOn(schedule.Tuesday))

		inactive := mustWindow(t, []schedule.Weekday{schedule.Monday}, "09:00", "18:00", false)
		assert.False(t, inactive.AppliesOn(schedule.Monday))
	})
}

func TestBlock(t *testing.T) {
	professionalID := uuid.New()
	other := uuid.New()
	interval := mustInterval(t, monday, 9, 12)

	t.Run("location-wide block applies to everyone", func(t *testing.T) {
		b := schedule.NewBlock(interval, nil)
		assert.True(t, b.AppliesTo(professionalID))
		assert.True(t, b.AppliesTo(other))
	})

	t.Run("scoped block applies to its professional only", func(t *testing.T) {
		b := schedule.NewBlock(interval, &professionalID)
		assert.True(t, b.AppliesTo(professionalID))
		assert.False(t, b.AppliesTo(other))
	})
}

func TestFreeSlots(t *testing.T) {
	morning := mustWindow(t, []schedule.Weekday{schedule.Monday}, "09:00", "12:00", true)

	t.Run("empty calendar yields every candidate", func(t *testing.T) {
		slots := schedule.FreeSlots(monday, time.Hour, []schedule.WorkingWindow{morning}, nil)

		require.Len(t, slots, 3)
		assert.Equal(t, mustInterval(t, monday, 9, 10), slots[0])
		assert.Equal(t, mustInterval(t, monday, 10, 11), slots[1])
		assert.Equal(t, mustInterval(t, monday, 11, 12), slots[2])
	})

	t.Run("busy interval removes exactly the overlapping candidate", func(t *testing.T) {
		busy := []schedule.Interval{mustInterval(t, monday, 10, 11)}

		slots := schedule.FreeSlots(monday, time.Hour, []schedule.WorkingWindow{morning}, busy)

		require.Len(t, slots, 2)
		assert.Equal(t, mustInterval(t, monday, 9, 10), slots[0])
		assert.Equal(t, mustInterval(t, monday, 11, 12), slots[1])
	})

	t.Run("straddling busy interval removes both candidates it touches", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
		straddle, err := schedule.NewInterval(start, start.Add(time.Hour))
		require.NoError(t, err)

		slots := schedule.FreeSlots(monday, time.Hour, []schedule.WorkingWindow{morning}, []schedule.Interval{straddle})

		require.Len(t, slots, 1)
		assert.Equal(t, mustInterval(t, monday, 9, 10), slots[0])
	})

	t.Run("candidate must end within closing time", func(t *testing.T) {
		short := mustWindow(t, []schedule.Weekday{schedule.Monday}, "09:00", "10:30", true)

		slots := schedule.FreeSlots(monday, time.Hour, []schedule.WorkingWindow{short}, nil)

		require.Len(t, slots, 1)
		assert.Equal(t, mustInterval(t, monday, 9, 10), slots[0])
	})

	t.Run("window on another weekday yields nothing", func(t *testing.T) {
		tuesdayOnly := mustWindow(t, []schedule.Weekday{schedule.Tuesday}, "09:00", "12:00", true)

		slots := schedule.FreeSlots(monday, time.Hour, []schedule.WorkingWindow{tuesdayOnly}, nil)
		assert.Empty(t, slots)
	})

	t.Run("inactive window yields nothing", func(t *testing.T) {
		inactive := mustWindow(t, []schedule.Weekday{schedule.Monday}, "09:00", "12:00", false)

		slots := schedule.FreeSlots(monday, time.Hour, []schedule.WorkingWindow{inactive}, nil)
		assert.Empty(t, slots)
	})

	t.Run("non-positive granularity falls back to the default", func(t *testing.T) {
		slots := schedule.FreeSlots(monday, 0, []schedule.WorkingWindow{morning}, nil)

		require.Len(t, slots, 3)
		assert.Equal(t, schedule.DefaultSlotGranularity, slots[0].Duration())
	})

	t.Run("finer granularity multiplies candidates", func(t *testing.T) {
		slots := schedule.FreeSlots(monday, 30*time.Minute, []schedule.WorkingWindow{morning}, nil)
		assert.Len(t, slots, 6)
	})
}
