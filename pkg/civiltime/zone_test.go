package civiltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadZone(name)
	require.NoError(t, err)
	return loc
}

func TestLoadZone(t *testing.T) {
	t.Run("should load a valid IANA identifier", func(t *testing.T) {
		loc, err := LoadZone("America/Denver")
		require.NoError(t, err)
		assert.Equal(t, "America/Denver", loc.String())
	})

	t.Run("should reject an unknown identifier instead of substituting", func(t *testing.T) {
		_, err := LoadZone("America/Nowhere")
		assert.Error(t, err)
	})

	t.Run("should reject an empty identifier", func(t *testing.T) {
		_, err := LoadZone("")
		assert.Error(t, err)
	})
}

func TestMidnightInstant_RoundTrip(t *testing.T) {
	// Three full years around both DST boundaries, in zones on both sides of
	// the Atlantic plus the southern hemisphere and a fixed-offset zone.
	zones := []string{"America/Denver", "Europe/Warsaw", "Australia/Sydney", "UTC"}

	for _, zoneName := range zones {
		t.Run(zoneName, func(t *testing.T) {
			loc := mustZone(t, zoneName)
			day := NewDate(2023, time.January, 1)
			end := NewDate(2025, time.December, 31)
			for !day.After(end) {
				instant := MidnightInstant(day, loc)
				assert.Equal(t, day, ToCivilDate(instant, loc), "round trip for %s", day)
				day = day.AddDays(1)
			}
		})
	}
}

func TestMidnightInstant_DSTBoundaries(t *testing.T) {
	loc := mustZone(t, "America/Denver")

	t.Run("spring forward day keeps its calendar date", func(t *testing.T) {
		springForward := NewDate(2024, time.March, 10)
		instant := MidnightInstant(springForward, loc)
		assert.Equal(t, springForward, ToCivilDate(instant, loc))
		assert.Equal(t, CivilDateTime{Date: springForward}, ToCivilDateTime(instant, loc))
	})

	t.Run("spring forward day has 23 hours", func(t *testing.T) {
		before := MidnightInstant(NewDate(2024, time.March, 10), loc)
		after := MidnightInstant(NewDate(2024, time.March, 11), loc)
		assert.Equal(t, 23*time.Hour, after.Sub(before))
	})

	t.Run("fall back day has 25 hours", func(t *testing.T) {
		before := MidnightInstant(NewDate(2024, time.November, 3), loc)
		after := MidnightInstant(NewDate(2024, time.November, 4), loc)
		assert.Equal(t, 25*time.Hour, after.Sub(before))
	})

	t.Run("midnight on both sides of the transitions maps to the right offset", func(t *testing.T) {
		// 2024-03-09 is still standard time (UTC-7), 2024-03-11 is DST (UTC-6).
		assert.Equal(t, time.Date(2024, time.March, 9, 7, 0, 0, 0, time.UTC),
			MidnightInstant(NewDate(2024, time.March, 9), loc).UTC())
		assert.Equal(t, time.Date(2024, time.March, 11, 6, 0, 0, 0, time.UTC),
			MidnightInstant(NewDate(2024, time.March, 11), loc).UTC())
	})
}

func TestWallClockInstant(t *testing.T) {
	loc := mustZone(t, "America/Denver")

	t.Run("should round trip an ordinary wall clock", func(t *testing.T) {
		dt := CivilDateTime{Date: NewDate(2024, time.June, 14), Hour: 17, Minute: 30}
		assert.Equal(t, dt, ToCivilDateTime(WallClockInstant(dt, loc), loc))
	})

	t.Run("should keep the calendar date for a wall clock skipped by spring forward", func(t *testing.T) {
		// 02:30 does not exist on 2024-03-10 in Denver.
		dt := CivilDateTime{Date: NewDate(2024, time.March, 10), Hour: 2, Minute: 30}
		instant := WallClockInstant(dt, loc)
		assert.Equal(t, dt.Date, ToCivilDate(instant, loc))
	})

	t.Run("should resolve independently of the host process timezone", func(t *testing.T) {
		dt := CivilDateTime{Date: NewDate(2024, time.December, 24), Hour: 9, Minute: 0}
		want := WallClockInstant(dt, loc)

		defer func(prev *time.Location) { time.Local = prev }(time.Local)
		for _, hostZone := range []string{"UTC", "Asia/Tokyo", "America/Los_Angeles"} {
			time.Local = mustZone(t, hostZone)
			assert.True(t, want.Equal(WallClockInstant(dt, loc)), "host zone %s", hostZone)
		}
	})
}

func TestIsDaylightSaving(t *testing.T) {
	denver := mustZone(t, "America/Denver")
	sydney := mustZone(t, "Australia/Sydney")

	testCases := []struct {
		name string
		loc  *time.Location
		date CivilDate
		want bool
	}{
		{"Denver in July", denver, NewDate(2024, time.July, 1), true},
		{"Denver in January", denver, NewDate(2024, time.January, 15), false},
		{"Denver on spring forward day", denver, NewDate(2024, time.March, 10), true},
		{"Denver on fall back day", denver, NewDate(2024, time.November, 3), false},
		{"Sydney in January", sydney, NewDate(2024, time.January, 15), true},
		{"Sydney in July", sydney, NewDate(2024, time.July, 1), false},
		{"UTC never", mustZone(t, "UTC"), NewDate(2024, time.July, 1), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDaylightSaving(tc.date, tc.loc))
		})
	}
}
