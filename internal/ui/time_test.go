package ui

import (
	"testing"
	"time"
)

func TestFormatDurationShort(t *testing.T) {
	cases := []struct {
		duration time.Duration
		want     string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m"},
		{59 * time.Minute, "59m"},
		{2 * time.Hour, "2h"},
		{36 * time.Hour, "1d"},
		{10 * 24 * time.Hour, "10d"},
	}

	for _, tc := range cases {
		if got := FormatDurationShort(tc.duration); got != tc.want {
			t.Errorf("FormatDurationShort(%v) = %q, want %q", tc.duration, got, tc.want)
		}
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	if got := FormatTimeAgo(now.Add(-2*time.Minute), now); got != "2m ago" {
		t.Errorf("got %q", got)
	}
	if got := FormatTimeAgo(time.Time{}, now); got != "-" {
		t.Errorf("zero time: got %q", got)
	}
	if got := FormatTimeAgo(now.Add(time.Hour), now); got != "-" {
		t.Errorf("future time: got %q", got)
	}
}
