package schedule

import (
	"fmt"
	"time"
)

// WallClock is a local time of day with minute precision, parsed from "HH:MM".
type WallClock struct {
	Hour   int
	Minute int
}

func ParseWallClock(s string) (WallClock, error) {
	var wc WallClock
	if len(s) != 5 || s[2] != ':' {
		return wc, fmt.Errorf("invalid wall-clock time %q: want HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &wc.Hour, &wc.Minute); err != nil {
		return wc, fmt.Errorf("invalid wall-clock time %q: %w", s, err)
	}
	if wc.Hour < 0 || wc.Hour > 23 || wc.Minute < 0 || wc.Minute > 59 {
		return wc, fmt.Errorf("invalid wall-clock time %q: out of range", s)
	}
	return wc, nil
}

func (wc WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", wc.Hour, wc.Minute)
}

func (wc WallClock) Minutes() int {
	return wc.Hour*60 + wc.Minute
}

// Interval is a half-open absolute time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// IsOvernight reports whether the interval crosses into the following
// calendar day in the given location.
func (a Interval) IsOvernight(loc *time.Location) bool {
	startY, startM, startD := a.Start.In(loc).Date()
	endY, endM, endD := a.End.In(loc).Date()
	return startY != endY || startM != endM || startD != endD
}

// NormalizeInterval converts a (date, start, end) wall-clock triple into an
// absolute half-open interval in loc. When end is at or before start the
// shift runs past midnight, so the end lands on the following calendar day.
// This is the single source of truth for overnight handling; both conflict
// detection and payroll aggregation go through it.
func NormalizeInterval(date time.Time, start, end WallClock, loc *time.Location) Interval {
	year, month, day := date.In(loc).Date()
	startAt := time.Date(year, month, day, start.Hour, start.Minute, 0, 0, loc)
	endAt := time.Date(year, month, day, end.Hour, end.Minute, 0, 0, loc)
	if !endAt.After(startAt) {
		endAt = endAt.Add(24 * time.Hour)
	}
	return Interval{Start: startAt, End: endAt}
}

// NormalizeIntervalStrings is NormalizeInterval for raw "HH:MM" inputs.
func NormalizeIntervalStrings(date time.Time, start, end string, loc *time.Location) (Interval, error) {
	startWC, err := ParseWallClock(start)
	if err != nil {
		return Interval{}, err
	}
	endWC, err := ParseWallClock(end)
	if err != nil {
		return Interval{}, err
	}
	return NormalizeInterval(date, startWC, endWC, loc), nil
}
