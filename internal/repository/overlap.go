package repository

import "time"

// dbTimeLayout is the storage format for all DATETIME columns.  Values
// are always UTC.
const dbTimeLayout = "2006-01-02 15:04:05"

// FormatDBTime renders a timestamp in the storage format, normalized to
// UTC.
func FormatDBTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// ParseDBTime parses a stored timestamp back into a UTC time.Time.
func ParseDBTime(s string) (time.Time, error) {
	t, err := time.Parse(dbTimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Overlaps reports whether the half-open intervals [s1, e1) and
// [s2, e2) intersect.  Two shows may share a boundary instant: a show
// ending at 20:00 does not overlap one starting at 20:00.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ShowWindow derives a show's conflict window from its start time, the
// movie runtime and the configured cleaning buffer.  The buffer extends
// the occupied interval past the end of the screening; with a zero
// buffer consecutive shows may be scheduled back to back.
func ShowWindow(start time.Time, runtimeMin, bufferMin uint32) (time.Time, time.Time) {
	end := start.Add(time.Duration(runtimeMin+bufferMin) * time.Minute)
	return start, end
}
