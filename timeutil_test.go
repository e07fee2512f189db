package jj

import (
	"testing"
	"time"
)

func Test_Timeutil_AbsoluteFormat(t *testing.T) {
	ts := Timestamp{MillisSinceEpoch: 1700000000000, TZOffsetMinutes: 0}
	if got := FormatTimestamp(ts); got != "2023-11-14 22:13:20.000 +00:00" {
		t.Fatalf("utc: got %q", got)
	}
	ts.TZOffsetMinutes = -330
	if got := FormatTimestamp(ts); got != "2023-11-14 16:43:20.000 -05:30" {
		t.Fatalf("offset: got %q", got)
	}
}

func Test_Timeutil_RelativePast(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) Timestamp {
		return Timestamp{MillisSinceEpoch: now.Add(-d).UnixMilli()}
	}
	cases := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "a few seconds ago"},
		{70 * time.Second, "a minute ago"},
		{10 * time.Minute, "10 minutes ago"},
		{1 * time.Hour, "an hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{30 * time.Hour, "a day ago"},
		{10 * 24 * time.Hour, "10 days ago"},
		{40 * 24 * time.Hour, "a month ago"},
		{100 * 24 * time.Hour, "3 months ago"},
		{400 * 24 * time.Hour, "a year ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}
	for _, tc := range cases {
		if got := formatRelative(at(tc.d), now); got != tc.want {
			t.Fatalf("%v: got %q want %q", tc.d, got, tc.want)
		}
	}
}

func Test_Timeutil_RelativeFuture(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ts := Timestamp{MillisSinceEpoch: now.Add(3 * time.Hour).UnixMilli()}
	if got := formatRelative(ts, now); got != "in 3 hours" {
		t.Fatalf("future: got %q", got)
	}
}
