// timeutil.go: timestamp formatting helpers (absolute and relative).
package jj

import (
	"fmt"
	"time"
)

// timestampToTime converts a Timestamp to a time.Time carrying its
// recorded timezone offset.
func timestampToTime(ts Timestamp) time.Time {
	zone := time.FixedZone("", ts.TZOffsetMinutes*60)
	return time.UnixMilli(ts.MillisSinceEpoch).In(zone)
}

// FormatTimestamp renders a timestamp in its recorded timezone, e.g.
// "2024-03-01 09:15:00.000 +01:00".
func FormatTimestamp(ts Timestamp) string {
	return timestampToTime(ts).Format("2006-01-02 15:04:05.000 -07:00")
}

// FormatTimestampRelativeToNow renders a timestamp relative to the
// current wall clock, e.g. "3 months ago".
func FormatTimestampRelativeToNow(ts Timestamp) string {
	return formatRelative(ts, time.Now())
}

// formatRelative is the pure core of relative formatting. Past times
// read "<span> ago", future times "in <span>".
func formatRelative(ts Timestamp, now time.Time) string {
	d := now.Sub(timestampToTime(ts))
	future := d < 0
	if future {
		d = -d
	}
	span := spanText(d)
	if future {
		return "in " + span
	}
	return span + " ago"
}

// spanText picks the largest sensible unit for a duration. Thresholds
// round the way humans read time, not the way arithmetic does: 90
// seconds is "a minute", 36 hours is "a day".
func spanText(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d < 45*time.Second:
		return "a few seconds"
	case d < 90*time.Second:
		return "a minute"
	case d < 45*time.Minute:
		return plural(int(d.Round(time.Minute)/time.Minute), "minute")
	case d < 90*time.Minute:
		return "an hour"
	case d < 22*time.Hour:
		return plural(int(d.Round(time.Hour)/time.Hour), "hour")
	case d < 36*time.Hour:
		return "a day"
	case d < 26*day:
		return plural(int(d.Round(day)/day), "day")
	case d < 46*day:
		return "a month"
	case d < 320*day:
		return plural(int((d+15*day)/(30*day)), "month")
	case d < 548*day:
		return "a year"
	default:
		return plural(int((d+182*day)/(365*day)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
