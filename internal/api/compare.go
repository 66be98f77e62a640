package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// Parse converts the reference timings into instants on date in loc. Only
// the events the local calculator also produces are returned.
func (t Timings) Parse(date time.Time, loc *time.Location) (map[string]time.Time, error) {
	raw := map[string]string{
		prayer.Fajr:    t.Fajr,
		prayer.Sunrise: t.Sunrise,
		prayer.Dhuhr:   t.Dhuhr,
		prayer.Asr:     t.Asr,
		prayer.Maghrib: t.Maghrib,
		prayer.Isha:    t.Isha,
	}

	out := make(map[string]time.Time, len(raw))
	for name, s := range raw {
		parsed, err := parseTimeStr(s, date, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse time for %s (%q): %w", name, s, err)
		}
		out[name] = parsed
	}
	return out, nil
}

// Diff is the disagreement between the local and reference time of one event.
type Diff struct {
	Name      string
	Local     time.Time
	Reference time.Time
}

// Delta is Local minus Reference.
func (d Diff) Delta() time.Duration {
	return d.Local.Sub(d.Reference)
}

// Within reports whether the two times agree to within tol.
func (d Diff) Within(tol time.Duration) bool {
	delta := d.Delta()
	if delta < 0 {
		delta = -delta
	}
	return delta <= tol
}

// Compare pairs every canonical event of local with its reference time.
func Compare(local prayer.DailyTimes, reference map[string]time.Time) []Diff {
	var diffs []Diff
	for _, name := range prayer.DefaultPrayerNames {
		ref, ok := reference[name]
		if !ok {
			continue
		}
		l, _ := local.Time(name)
		diffs = append(diffs, Diff{Name: name, Local: l, Reference: ref})
	}
	return diffs
}

// parseTimeStr parses a time string like "15:02" or "15:02 (BST)" into a time.Time
// on the given date in the given location.
func parseTimeStr(raw string, date time.Time, loc *time.Location) (time.Time, error) {
	// Strip timezone suffix like " (BST)" that the API sometimes appends.
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return time.Time{}, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, loc), nil
}
