package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/qibla"
	"github.com/spf13/cobra"
)

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	today, tomorrow, err := s.today()
	if err != nil {
		return err
	}

	// After Isha the schedule screen moves on to tomorrow.
	shown, nextDay, err := prayer.DisplayDay(today, s.now)
	if err != nil {
		return err
	}

	window := prayer.CurrentWindow(today, s.now, &tomorrow.Fajr)
	next, err := prayer.NextPrayer(today, s.now, &tomorrow)
	if err != nil {
		return err
	}

	prayers, err := shown.Prayers(s.prayers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printTodayJSON(out, s, shown, nextDay, prayers, window, next)
	}

	printTodayRich(out, s, shown, nextDay, prayers, window, next)
	return nil
}

// printTodayRich renders the colored terminal output for the schedule.
func printTodayRich(w io.Writer, s *session, shown prayer.DailyTimes, nextDay bool, prayers []prayer.Prayer, window prayer.Window, next prayer.Next) {
	fmt.Fprintln(w)
	title := "Prayer Times"
	if nextDay {
		title += " (tomorrow)"
	}
	fmt.Fprintf(w, "  %s\n", display.Bold(title))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", s.location.Label())
	fmt.Fprintf(w, "  %s\n", s.zone)
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(shown.Date))
	fmt.Fprintf(w, "  %s\n", display.Gray(s.params.Method))
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Prayer", "Time"})
	for i, p := range prayers {
		name := p.Name
		if shown.IsApproximated(p.Name) {
			name += "*"
		}
		timeStr := p.Time.Format(s.layout)
		if p.Name == next.Name && p.Time.Equal(next.Time) {
			remaining := prayer.FormatCountdown(max(next.Remaining(s.now), 0))
			timeStr += "  <- next in " + remaining
			tbl.SetHighlightRow(i)
		} else if !p.Time.After(s.now) {
			tbl.SetDimRow(i)
		}
		tbl.AddRow([]string{name, timeStr})
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s %s\n", display.Gray("Now:"), window)
	if len(shown.Approximated) > 0 {
		fmt.Fprintf(w, "  %s\n", display.Yellow("* high-latitude approximation"))
	}
	if res, err := qibla.Compute(s.location.Coordinate()); err == nil {
		fmt.Fprintf(w, "  %s %.1f° %s\n", display.Gray("Qibla:"), res.Bearing, res.Compass)
	}
	if s.location.IsDefault {
		fmt.Fprintf(w, "  %s\n", display.Yellow("Location unknown; showing Mecca. Set one with `salah config set latitude ...`."))
	}
	fmt.Fprintln(w)
}

// formatGregorianDate returns a formatted Gregorian date string.
func formatGregorianDate(d prayer.Date) string {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Format("Monday 02 January 2006")
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location     todayJSONLocation `json:"location"`
	Date         string            `json:"date"`
	NextDay      bool              `json:"next_day"`
	Method       string            `json:"method"`
	Timings      map[string]string `json:"timings"`
	Approximated []string          `json:"approximated,omitempty"`
	Current      string            `json:"current"`
	Next         *todayJSONNext    `json:"next"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsDefault bool    `json:"is_default,omitempty"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	Tomorrow  bool   `json:"tomorrow"`
}

func newJSONLocation(s *session) todayJSONLocation {
	return todayJSONLocation{
		City:      s.location.City,
		Country:   s.location.Country,
		Timezone:  s.zone.String(),
		Latitude:  s.location.Latitude,
		Longitude: s.location.Longitude,
		IsDefault: s.location.IsDefault,
	}
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, s *session, shown prayer.DailyTimes, nextDay bool, prayers []prayer.Prayer, window prayer.Window, next prayer.Next) error {
	timings := make(map[string]string)
	for _, p := range prayers {
		timings[strings.ToLower(p.Name)] = p.Time.Format(s.layout)
	}

	out := todayJSON{
		Location:     newJSONLocation(s),
		Date:         shown.Date.String(),
		NextDay:      nextDay,
		Method:       s.params.Method,
		Timings:      timings,
		Approximated: shown.Approximated,
		Current:      strings.ToLower(window.String()),
		Next: &todayJSONNext{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(s.layout),
			Remaining: prayer.FormatCountdown(max(next.Remaining(s.now), 0)),
			Tomorrow:  next.Tomorrow,
		},
	}

	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
