package domain

import (
	"testing"
	"time"
)

func buenosAires(t *testing.T) *TradingCalendar {
	t.Helper()
	cal, err := NewTradingCalendar("America/Argentina/Buenos_Aires", 1100, 1700)
	if err != nil {
		t.Fatalf("load calendar: %v", err)
	}
	return cal
}

func TestCalendarWindow(t *testing.T) {
	cal := buenosAires(t)
	// 2026-03-02 is a Monday
	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, cal.Location())
	}

	cases := []struct {
		at   time.Time
		open bool
	}{
		{day(10, 59), false},
		{day(11, 0), true},
		{day(13, 30), true},
		{day(17, 0), true}, // inclusive close
		{day(17, 1), false},
		{day(23, 0), false},
	}
	for _, c := range cases {
		if got := cal.IsOpen(c.at); got != c.open {
			t.Errorf("IsOpen(%v) = %v, want %v", c.at, got, c.open)
		}
	}
}

func TestCalendarWeekend(t *testing.T) {
	cal := buenosAires(t)
	// 2026-03-07 is a Saturday
	sat := time.Date(2026, 3, 7, 13, 0, 0, 0, cal.Location())
	if cal.IsOpen(sat) {
		t.Error("saturday midday should be closed")
	}
}

func TestCalendarConvertsTimezone(t *testing.T) {
	cal := buenosAires(t)
	// 14:00 UTC on a Monday is 11:00 in Buenos Aires
	utc := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	if !cal.IsOpen(utc) {
		t.Error("14:00 UTC should be inside the window")
	}
}
