package civiltime

import (
	"fmt"
	"time"
)

// LoadZone resolves an IANA timezone identifier. An unknown identifier is a
// configuration error and must be surfaced to the caller; it is never replaced
// with a different zone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone identifier is empty")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// ToCivilDate converts an absolute instant into the calendar day it falls on
// in the given zone.
func ToCivilDate(t time.Time, loc *time.Location) CivilDate {
	lt := t.In(loc)
	return CivilDate{Year: lt.Year(), Month: lt.Month(), Day: lt.Day()}
}

// ToCivilDateTime converts an absolute instant into zone-local wall-clock
// components.
func ToCivilDateTime(t time.Time, loc *time.Location) CivilDateTime {
	lt := t.In(loc)
	return CivilDateTime{
		Date:   CivilDate{Year: lt.Year(), Month: lt.Month(), Day: lt.Day()},
		Hour:   lt.Hour(),
		Minute: lt.Minute(),
	}
}

// MidnightInstant returns the instant that reads back as {d, 00:00} in the
// given zone, independent of the zone the process itself runs in.
//
// The zone's UTC offset is not assumed: the two offsets the zone uses across
// the year (standard and daylight-saving) are both tried, and the candidate
// whose round trip through the zone reproduces the requested wall clock
// exactly is accepted. When neither candidate survives the round trip (a wall
// clock skipped by a spring-forward transition), a noon-anchored probe of the
// same day decides which offset applies.
func MidnightInstant(d CivilDate, loc *time.Location) time.Time {
	return WallClockInstant(CivilDateTime{Date: d}, loc)
}

// WallClockInstant is the general form of MidnightInstant for wall clocks with
// an hour and minute component.
func WallClockInstant(dt CivilDateTime, loc *time.Location) time.Time {
	wallUTC := time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day, dt.Hour, dt.Minute, 0, 0, time.UTC)

	offsets := candidateOffsets(dt.Date.Year, loc)
	for _, offset := range offsets {
		candidate := wallUTC.Add(-time.Duration(offset) * time.Second)
		if ToCivilDateTime(candidate, loc) == dt {
			return candidate
		}
	}

	// No candidate round-tripped: the wall clock does not exist in this zone
	// (spring-forward gap) or the zone uses a transition outside the probed
	// offsets. Resolve via the offset in effect at noon of the same day.
	noonOffset := noonOffset(dt.Date, loc)
	candidate := wallUTC.Add(-time.Duration(noonOffset) * time.Second)
	if ToCivilDate(candidate, loc) == dt.Date {
		return candidate
	}
	for _, offset := range offsets {
		if offset == noonOffset {
			continue
		}
		alternative := wallUTC.Add(-time.Duration(offset) * time.Second)
		if ToCivilDate(alternative, loc) == dt.Date {
			return alternative
		}
	}
	return candidate
}

// IsDaylightSaving reports whether daylight-saving time is in effect in the
// zone at noon of the given day. It is a disambiguation helper, not an
// authoritative conversion by itself.
func IsDaylightSaving(d CivilDate, loc *time.Location) bool {
	offsets := candidateOffsets(d.Year, loc)
	if len(offsets) < 2 {
		return false
	}
	return noonOffset(d, loc) == maxOffset(offsets)
}

// noonOffset returns the UTC offset (seconds) in effect at local noon of the
// given day. Noon is far from any transition in every supported zone, which
// makes it a safe anchor for deciding which offset a day is governed by.
func noonOffset(d CivilDate, loc *time.Location) int {
	_, offset := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc).Zone()
	return offset
}

// candidateOffsets probes the zone in mid-winter and mid-summer of the given
// year and returns the distinct UTC offsets (seconds) found. For zones with
// daylight-saving time these are exactly the two offsets a wall clock can
// resolve through; for fixed-offset zones a single value is returned.
func candidateOffsets(year int, loc *time.Location) []int {
	janOffset := noonOffset(CivilDate{Year: year, Month: time.January, Day: 15}, loc)
	julOffset := noonOffset(CivilDate{Year: year, Month: time.July, Day: 15}, loc)
	if janOffset == julOffset {
		return []int{janOffset}
	}
	return []int{janOffset, julOffset}
}

func maxOffset(offsets []int) int {
	m := offsets[0]
	for _, o := range offsets[1:] {
		if o > m {
			m = o
		}
	}
	return m
}
