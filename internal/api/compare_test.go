package api

import (
	"testing"
	"time"

	"github.com/smokyabdulrahman/salah/internal/prayer"
)

func TestParseTimeStr(t *testing.T) {
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		wantH   int
		wantM   int
		wantErr bool
	}{
		{"simple", "05:17", 5, 17, false},
		{"afternoon", "15:02", 15, 2, false},
		{"with zone suffix", "12:13 (GMT)", 12, 13, false},
		{"padded", "  19:10  ", 19, 10, false},
		{"no colon", "1510", 0, 0, true},
		{"bad hour", "xx:10", 0, 0, true},
		{"bad minute", "10:yy", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeStr(tt.raw, date, time.UTC)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Hour() != tt.wantH || got.Minute() != tt.wantM {
				t.Errorf("parseTimeStr(%q) = %02d:%02d, want %02d:%02d", tt.raw, got.Hour(), got.Minute(), tt.wantH, tt.wantM)
			}
		})
	}
}

func TestTimingsParse(t *testing.T) {
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	riyadh := time.FixedZone("AST", 3*3600)

	got, err := replyFor(londonQuery).Data.Timings.Parse(date, riyadh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 6 {
		t.Errorf("got %d events, want 6", len(got))
	}
	want := time.Date(2026, 2, 28, 15, 2, 0, 0, riyadh)
	if !got[prayer.Asr].Equal(want) {
		t.Errorf("Asr = %v, want %v", got[prayer.Asr], want)
	}

	bad := replyFor(londonQuery).Data.Timings
	bad.Isha = "late"
	if _, err := bad.Parse(date, time.UTC); err == nil {
		t.Error("expected error for malformed Isha")
	}
}

func TestCompare(t *testing.T) {
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	ref, err := replyFor(londonQuery).Data.Timings.Parse(date, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	local := prayer.DailyTimes{
		Fajr:    ref[prayer.Fajr].Add(90 * time.Second),
		Sunrise: ref[prayer.Sunrise],
		Dhuhr:   ref[prayer.Dhuhr].Add(-30 * time.Second),
		Asr:     ref[prayer.Asr],
		Maghrib: ref[prayer.Maghrib].Add(4 * time.Minute),
		Isha:    ref[prayer.Isha],
	}

	diffs := Compare(local, ref)
	if len(diffs) != 6 {
		t.Fatalf("got %d diffs, want 6", len(diffs))
	}
	if diffs[0].Name != prayer.Fajr || diffs[0].Delta() != 90*time.Second {
		t.Errorf("Fajr diff = %+v (%v)", diffs[0], diffs[0].Delta())
	}
	if !diffs[2].Within(time.Minute) {
		t.Errorf("Dhuhr should agree within a minute, delta %v", diffs[2].Delta())
	}
	if diffs[4].Within(2 * time.Minute) {
		t.Errorf("Maghrib should not agree within two minutes, delta %v", diffs[4].Delta())
	}
}
