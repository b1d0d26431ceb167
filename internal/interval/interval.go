// Package interval holds the pure time-interval arithmetic shared by the
// availability and booking code. All ranges are half-open [start, end):
// the start is included, the end is not, so two ranges that merely touch
// do not overlap.
package interval

import (
	"fmt"
	"iter"
	"time"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Span is an absolute half-open time range.
type Span struct {
	Start time.Time
	End   time.Time
}

func (s Span) Overlaps(o Span) bool {
	return Overlaps(s.Start, s.End, o.Start, o.End)
}

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// Minute precision is all the scheduling code needs.
type TimeOfDay int

// ParseTimeOfDay parses a "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Minutes() int { return int(t) }

// At anchors the wall-clock time on the given date, in the date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid time %s, expected \"HH:MM\"", b)
	}
	parsed, err := ParseTimeOfDay(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MinuteSpan is a half-open wall-clock range within a single day.
type MinuteSpan struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (s MinuteSpan) Overlaps(o MinuteSpan) bool {
	return s.Start < o.End && o.Start < s.End
}

// On converts the wall-clock range to an absolute span on the given date.
func (s MinuteSpan) On(date time.Time) Span {
	return Span{Start: s.Start.At(date), End: s.End.At(date)}
}

// Granules partitions [start, end) into consecutive granule-minute spans.
// A trailing partial granule that would run past end is dropped, not
// truncated. The sequence is lazy and can be ranged over more than once.
func Granules(start, end TimeOfDay, granuleMinutes int) iter.Seq[MinuteSpan] {
	return func(yield func(MinuteSpan) bool) {
		if granuleMinutes <= 0 {
			return
		}
		step := TimeOfDay(granuleMinutes)
		for cur := start; cur+step <= end; cur += step {
			if !yield(MinuteSpan{Start: cur, End: cur + step}) {
				return
			}
		}
	}
}
