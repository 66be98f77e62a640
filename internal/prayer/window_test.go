package prayer

import (
	"testing"
	"time"
)

func TestCurrentWindow(t *testing.T) {
	times := sampleTimes(t)
	tomorrowFajr := times.NextFajr

	tests := []struct {
		name string
		now  time.Time
		tf   *time.Time
		want Window
	}{
		{"after midnight", makeTime(t, 1, 0), nil, WindowPreFajr},
		{"exactly Fajr", times.Fajr, nil, WindowFajr},
		{"after sunrise is still Fajr", makeTime(t, 9, 0), nil, WindowFajr},
		{"one second before Dhuhr", times.Dhuhr.Add(-time.Second), nil, WindowFajr},
		{"exactly Dhuhr", times.Dhuhr, nil, WindowDhuhr},
		{"afternoon", makeTime(t, 16, 0), nil, WindowAsr},
		{"exactly Maghrib", times.Maghrib, nil, WindowMaghrib},
		{"exactly Isha", times.Isha, &tomorrowFajr, WindowIsha},
		{"late night without tomorrow", makeTime(t, 23, 59), nil, WindowIsha},
		{"late night with tomorrow", makeTime(t, 23, 59), &tomorrowFajr, WindowIsha},
		{"stale schedule at tomorrow's Fajr", tomorrowFajr, &tomorrowFajr, WindowPostIsha},
		{"stale schedule after tomorrow's Fajr", tomorrowFajr.Add(time.Hour), &tomorrowFajr, WindowPostIsha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentWindow(times, tt.now, tt.tf); got != tt.want {
				t.Errorf("CurrentWindow(%s) = %s, want %s", tt.now.Format("15:04:05"), got, tt.want)
			}
		})
	}
}

func TestWindowString(t *testing.T) {
	if WindowPreFajr.String() != "Pre-Fajr" || WindowPostIsha.String() != "Post-Isha" {
		t.Errorf("unexpected names: %s, %s", WindowPreFajr, WindowPostIsha)
	}
	if got := Window(42).String(); got != "Window(42)" {
		t.Errorf("Window(42).String() = %q", got)
	}
	text, _ := WindowAsr.MarshalText()
	if string(text) != "Asr" {
		t.Errorf("MarshalText = %q", text)
	}
}

func TestNextPrayer_MiddleOfDay(t *testing.T) {
	// At 13:00 Dhuhr (12:13) has passed, next should be Asr (15:02).
	next, err := NextPrayer(sampleTimes(t), makeTime(t, 13, 0), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name != Asr || next.Tomorrow {
		t.Errorf("got %+v, want today's Asr", next)
	}
	if next.Clock() != "3:02 PM" {
		t.Errorf("Clock() = %q, want %q", next.Clock(), "3:02 PM")
	}
}

func TestNextPrayer_BeforeFirstPrayer(t *testing.T) {
	next, err := NextPrayer(sampleTimes(t), makeTime(t, 3, 0), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name != Fajr || next.Tomorrow {
		t.Errorf("got %+v, want today's Fajr", next)
	}
}

func TestNextPrayer_SkipsSunrise(t *testing.T) {
	next, err := NextPrayer(sampleTimes(t), makeTime(t, 6, 0), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name != Dhuhr {
		t.Errorf("expected Dhuhr, got %s", next.Name)
	}
}

func TestNextPrayer_ExactTime(t *testing.T) {
	// Exactly at Dhuhr, Dhuhr is not strictly after now.
	next, err := NextPrayer(sampleTimes(t), makeTime(t, 12, 13), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name != Asr {
		t.Errorf("expected Asr, got %s", next.Name)
	}
}

func TestNextPrayer_AfterIshaUsesGivenTomorrow(t *testing.T) {
	tomorrow := sampleTimes(t)
	tomorrow.Fajr = time.Date(2026, 3, 1, 5, 15, 0, 0, time.UTC)

	now := makeTime(t, 22, 0)
	next, err := NextPrayer(sampleTimes(t), now, &tomorrow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Name != Fajr || !next.Tomorrow || !next.Time.Equal(tomorrow.Fajr) {
		t.Errorf("got %+v, want tomorrow's Fajr at %v", next, tomorrow.Fajr)
	}
	if got := FormatCountdown(next.Remaining(now)); got != "7h 15m" {
		t.Errorf("countdown = %q, want %q", got, "7h 15m")
	}
}

func TestNextPrayer_AfterIshaComputesTomorrow(t *testing.T) {
	today, err := ComputeDailyTimes(london, Date{2024, time.March, 20}, DefaultParams(), time.UTC)
	if err != nil {
		t.Fatalf("ComputeDailyTimes: %v", err)
	}

	next, err := NextPrayer(today, today.Isha, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.Tomorrow || next.Name != Fajr {
		t.Fatalf("got %+v, want tomorrow's Fajr", next)
	}
	if !next.Time.Equal(today.NextFajr) {
		t.Errorf("tomorrow's Fajr = %v, want %v", next.Time, today.NextFajr)
	}
	if DateOf(next.Time) != today.Date.AddDays(1) {
		t.Errorf("tomorrow's Fajr falls on %s", DateOf(next.Time))
	}
}

func TestNextPrayer_TomorrowNeedsInputs(t *testing.T) {
	times := sampleTimes(t)
	times.Location = nil

	if _, err := NextPrayer(times, makeTime(t, 23, 0), nil); err == nil {
		t.Error("expected error when tomorrow cannot be computed")
	}
}

func TestProgress(t *testing.T) {
	prev := makeTime(t, 12, 0)
	next := makeTime(t, 16, 0)

	tests := []struct {
		name string
		prev time.Time
		now  time.Time
		want float64
	}{
		{"start", prev, prev, 0},
		{"quarter", prev, makeTime(t, 13, 0), 0.25},
		{"half", prev, makeTime(t, 14, 0), 0.5},
		{"end", prev, next, 1},
		{"before start clamps", prev, makeTime(t, 11, 0), 0},
		{"after end clamps", prev, makeTime(t, 17, 0), 1},
		{"zero previous", time.Time{}, makeTime(t, 14, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.prev, next, tt.now); got != tt.want {
				t.Errorf("Progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgress_EmptyInterval(t *testing.T) {
	at := makeTime(t, 12, 0)
	if got := Progress(at, at, at.Add(-time.Minute)); got != 0 {
		t.Errorf("before empty interval = %v, want 0", got)
	}
	if got := Progress(at, at, at); got != 1 {
		t.Errorf("at empty interval = %v, want 1", got)
	}
}

func TestWindowProgress(t *testing.T) {
	times := sampleTimes(t)

	if got := WindowProgress(times, makeTime(t, 3, 0)); got != 0 {
		t.Errorf("pre-Fajr progress = %v, want 0", got)
	}
	// Asr runs 15:02 to 17:38, 156 minutes.
	if got := WindowProgress(times, makeTime(t, 16, 20)); got != 0.5 {
		t.Errorf("mid-Asr progress = %v, want 0.5", got)
	}
	if got := WindowProgress(times, times.NextFajr.Add(time.Minute)); got != 1 {
		t.Errorf("post-Isha progress = %v, want 1", got)
	}
}

func TestDisplayDay(t *testing.T) {
	today, err := ComputeDailyTimes(london, Date{2024, time.March, 20}, DefaultParams(), time.UTC)
	if err != nil {
		t.Fatalf("ComputeDailyTimes: %v", err)
	}

	shown, next, err := DisplayDay(today, today.Isha)
	if err != nil || next || shown.Date != today.Date {
		t.Errorf("at Isha: got %s next=%v err=%v, want today", shown.Date, next, err)
	}

	shown, next, err = DisplayDay(today, today.Isha.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next || shown.Date != today.Date.AddDays(1) {
		t.Errorf("after Isha: got %s next=%v, want tomorrow", shown.Date, next)
	}
}
