package prayer

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// ClockLayout is the 12-hour layout used by FormatClockTime.
const ClockLayout = "3:04 PM"

// Named status line formats accepted by FormatOutput.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatModes lists the named formats in help order.
var FormatModes = []string{
	FormatTimeRemaining, FormatNextPrayerTime, FormatNameAndTime,
	FormatNameAndRemaining, FormatShortNameAndTime, FormatShortNameAndRemain, FormatFull,
}

// FormatCountdown renders d as "Hh Mm", or "Mm" under an hour. Partial
// minutes are dropped and negative durations read "0m".
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	if h, m := total/60, total%60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", total)
}

// FormatClockTime renders t as "h:mm AM/PM" in t's own location.
func FormatClockTime(t time.Time) string {
	return t.Format(ClockLayout)
}

// FormatData is what a custom template sees, e.g.
// "{{.Name}} in {{.Remaining}}" renders "Asr in 2h 15m".
type FormatData struct {
	Name      string // "Asr"
	ShortName string // "A"
	Time      string // prayer time in the caller's layout
	Remaining string // FormatCountdown of the time left
	Hours     int
	Minutes   int    // minutes past Hours
	Window    string // current window, e.g. "Dhuhr"
	Tomorrow  bool   // the prayer is tomorrow's Fajr
}

var namedFormats = map[string]func(FormatData) string{
	FormatTimeRemaining:      func(f FormatData) string { return f.Remaining },
	FormatNextPrayerTime:     func(f FormatData) string { return f.Time },
	FormatNameAndTime:        func(f FormatData) string { return f.Name + " " + f.Time },
	FormatNameAndRemaining:   func(f FormatData) string { return f.Name + " " + f.Remaining },
	FormatShortNameAndTime:   func(f FormatData) string { return f.ShortName + " " + f.Time },
	FormatShortNameAndRemain: func(f FormatData) string { return f.ShortName + " " + f.Remaining },
	FormatFull:               func(f FormatData) string { return fmt.Sprintf("%s %s (%s)", f.Name, f.Time, f.Remaining) },
}

// NewFormatData collects the fields of a status line for n as seen at now.
// layout is the clock layout for the prayer time, "15:04" or "3:04 PM".
func NewFormatData(n Next, w Window, now time.Time, layout string) FormatData {
	left := n.Remaining(now)
	if left < 0 {
		left = 0
	}
	mins := int(left / time.Minute)
	return FormatData{
		Name:      n.Name,
		ShortName: ShortNames[n.Name],
		Time:      n.Time.Format(layout),
		Remaining: FormatCountdown(left),
		Hours:     mins / 60,
		Minutes:   mins % 60,
		Window:    w.String(),
		Tomorrow:  n.Tomorrow,
	}
}

// FormatOutput renders the status line for n. mode is one of FormatModes or,
// when it contains "{{", a text/template over FormatData. Unknown modes fall
// back to name-and-time; template failures render as "template-err: ...".
func FormatOutput(n Next, w Window, now time.Time, mode string, layout string) string {
	data := NewFormatData(n, w, now, layout)

	if strings.Contains(mode, "{{") {
		return executeTemplate(mode, data)
	}
	if render, ok := namedFormats[mode]; ok {
		return render(data)
	}
	return namedFormats[FormatNameAndTime](data)
}

func executeTemplate(text string, data FormatData) string {
	tmpl, err := template.New("status").Option("missingkey=error").Parse(text)
	if err != nil {
		return "template-err: " + err.Error()
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "template-err: " + err.Error()
	}
	return sb.String()
}
