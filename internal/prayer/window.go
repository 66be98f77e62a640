package prayer

import (
	"fmt"
	"time"
)

// Window is the part of the day a moment falls in.
type Window int

const (
	WindowPreFajr Window = iota
	WindowFajr
	WindowDhuhr
	WindowAsr
	WindowMaghrib
	WindowIsha
	WindowPostIsha
)

var windowNames = [...]string{
	WindowPreFajr:  "Pre-Fajr",
	WindowFajr:     "Fajr",
	WindowDhuhr:    "Dhuhr",
	WindowAsr:      "Asr",
	WindowMaghrib:  "Maghrib",
	WindowIsha:     "Isha",
	WindowPostIsha: "Post-Isha",
}

func (w Window) String() string {
	if w < 0 || int(w) >= len(windowNames) {
		return fmt.Sprintf("Window(%d)", int(w))
	}
	return windowNames[w]
}

func (w Window) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// CurrentWindow classifies now against the day's schedule. Windows are
// half-open: [Fajr, Dhuhr) is Fajr, [Dhuhr, Asr) is Dhuhr and so on. The Fajr
// window runs until Dhuhr rather than Sunrise. When tomorrowFajr is given and
// now has reached it, the schedule is stale and the result is Post-Isha.
func CurrentWindow(times DailyTimes, now time.Time, tomorrowFajr *time.Time) Window {
	switch {
	case now.Before(times.Fajr):
		return WindowPreFajr
	case now.Before(times.Dhuhr):
		return WindowFajr
	case now.Before(times.Asr):
		return WindowDhuhr
	case now.Before(times.Maghrib):
		return WindowAsr
	case now.Before(times.Isha):
		return WindowMaghrib
	case tomorrowFajr != nil && !now.Before(*tomorrowFajr):
		return WindowPostIsha
	default:
		return WindowIsha
	}
}

// Next is the upcoming prayer.
type Next struct {
	Name     string
	Time     time.Time
	Tomorrow bool
}

// Clock is the prayer time as "h:mm AM/PM".
func (n Next) Clock() string {
	return FormatClockTime(n.Time)
}

// Remaining is the time left until the prayer.
func (n Next) Remaining(now time.Time) time.Duration {
	return n.Time.Sub(now)
}

// Prayer converts n to a Prayer.
func (n Next) Prayer() Prayer {
	return Prayer{Name: n.Name, Time: n.Time}
}

// NextPrayer returns the first of the five prayers strictly after now. When
// all of them have passed it returns tomorrow's Fajr, computed from the
// inputs recorded in times unless tomorrow is given.
func NextPrayer(times DailyTimes, now time.Time, tomorrow *DailyTimes) (Next, error) {
	for _, name := range ObligatoryPrayers {
		t, _ := times.Time(name)
		if t.After(now) {
			return Next{Name: name, Time: t}, nil
		}
	}

	if tomorrow == nil {
		next, err := ComputeTomorrow(times)
		if err != nil {
			return Next{}, fmt.Errorf("failed to compute tomorrow's schedule: %w", err)
		}
		tomorrow = &next
	}
	return Next{Name: Fajr, Time: tomorrow.Fajr, Tomorrow: true}, nil
}

// Progress is how far now is between previous and next, clamped to [0, 1].
// A zero previous yields 0.
func Progress(previous, next, now time.Time) float64 {
	if previous.IsZero() {
		return 0
	}
	total := next.Sub(previous)
	if total <= 0 {
		if now.Before(next) {
			return 0
		}
		return 1
	}
	p := float64(now.Sub(previous)) / float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// WindowProgress is Progress from the start of the current window to the next
// prayer. Before Fajr the previous day's Isha is unknown and the result is 0.
func WindowProgress(times DailyTimes, now time.Time) float64 {
	var nextFajr *time.Time
	if !times.NextFajr.IsZero() {
		nextFajr = &times.NextFajr
	}

	var prev, next time.Time
	switch CurrentWindow(times, now, nextFajr) {
	case WindowPreFajr:
		return 0
	case WindowFajr:
		prev, next = times.Fajr, times.Dhuhr
	case WindowDhuhr:
		prev, next = times.Dhuhr, times.Asr
	case WindowAsr:
		prev, next = times.Asr, times.Maghrib
	case WindowMaghrib:
		prev, next = times.Maghrib, times.Isha
	default:
		prev, next = times.Isha, times.NextFajr
	}
	return Progress(prev, next, now)
}

// DisplayDay picks the schedule to show at now: today's until Isha has
// passed, tomorrow's after that. The bool reports whether tomorrow was chosen.
func DisplayDay(today DailyTimes, now time.Time) (DailyTimes, bool, error) {
	if !now.After(today.Isha) {
		return today, false, nil
	}
	tomorrow, err := ComputeTomorrow(today)
	if err != nil {
		return DailyTimes{}, false, err
	}
	return tomorrow, true, nil
}
