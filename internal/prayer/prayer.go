// Package prayer computes daily prayer times from solar astronomy and tracks
// the current and upcoming prayer windows.
package prayer

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah/internal/geo"
)

// Event names, in chronological order.
const (
	Fajr    = "Fajr"
	Sunrise = "Sunrise"
	Dhuhr   = "Dhuhr"
	Asr     = "Asr"
	Maghrib = "Maghrib"
	Isha    = "Isha"
	Qiyam   = "Qiyam"
)

// Prayer represents a single prayer with its name and time.
type Prayer struct {
	Name string
	Time time.Time
}

// AllPrayerNames lists every event DailyTimes carries, in chronological order.
var AllPrayerNames = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha, Qiyam}

// DefaultPrayerNames are the events shown by default.
var DefaultPrayerNames = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ObligatoryPrayers are the five daily prayers.
var ObligatoryPrayers = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

// ShortNames maps full prayer names to single-character abbreviations.
var ShortNames = map[string]string{
	Fajr:    "F",
	Sunrise: "S",
	Dhuhr:   "D",
	Asr:     "A",
	Maghrib: "M",
	Isha:    "I",
	Qiyam:   "Q",
}

// IsValidName reports whether name is one of AllPrayerNames.
func IsValidName(name string) bool {
	_, ok := ShortNames[name]
	return ok
}

// Date is a calendar date with no time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "2006-01-02" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %w", ErrInvalidInput, s, err)
	}
	return DateOf(t), nil
}

// Valid reports whether d names a real Gregorian day in years 1..9999.
func (d Date) Valid() bool {
	if d.Year < 1 || d.Year > 9999 {
		return false
	}
	return DateOf(d.midnight(time.UTC)) == d
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	return d.midnight(time.UTC).Before(o.midnight(time.UTC))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DailyTimes is one day's schedule for one place. The inputs it was computed
// from are kept so the following day can be derived from it.
type DailyTimes struct {
	Date       Date
	Coordinate geo.Coordinate
	Params     Params
	Location   *time.Location

	Fajr    time.Time
	Sunrise time.Time
	Dhuhr   time.Time
	Asr     time.Time
	Maghrib time.Time
	Isha    time.Time
	Qiyam   time.Time

	// NextFajr is the following day's Fajr, used for Qiyam and the
	// Post-Isha window.
	NextFajr time.Time

	// Approximated lists the events that needed the high-latitude fallback.
	Approximated []string
}

// Time returns the instant of the named event.
func (d DailyTimes) Time(name string) (time.Time, bool) {
	switch name {
	case Fajr:
		return d.Fajr, true
	case Sunrise:
		return d.Sunrise, true
	case Dhuhr:
		return d.Dhuhr, true
	case Asr:
		return d.Asr, true
	case Maghrib:
		return d.Maghrib, true
	case Isha:
		return d.Isha, true
	case Qiyam:
		return d.Qiyam, true
	}
	return time.Time{}, false
}

// Prayers returns the selected events in the order given. Unknown names are
// reported as an error.
func (d DailyTimes) Prayers(selected []string) ([]Prayer, error) {
	prayers := make([]Prayer, 0, len(selected))
	for _, name := range selected {
		t, ok := d.Time(name)
		if !ok {
			return nil, fmt.Errorf("unknown prayer name: %s", name)
		}
		prayers = append(prayers, Prayer{Name: name, Time: t})
	}
	return prayers, nil
}

// IsApproximated reports whether the named event came from the
// high-latitude fallback.
func (d DailyTimes) IsApproximated(name string) bool {
	for _, n := range d.Approximated {
		if n == name {
			return true
		}
	}
	return false
}
