package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/spf13/cobra"
)

// maxDays bounds list and query ranges.
const maxDays = 366

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// parseDays parses a positive day count.
func parseDays(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxDays {
		return 0, fmt.Errorf("invalid number of days: %q (must be between 1 and %d)", s, maxDays)
	}
	return n, nil
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := parseDays(args[0])
		if err != nil {
			return err
		}
		days = n
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	daysList, err := s.days(days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(out, s, daysList)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times, %d Days", days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.location.Label())
	fmt.Fprintf(out, "  %s\n", s.zone)
	fmt.Fprintln(out)

	headers := append([]string{"Date"}, s.prayers...)
	tbl := display.NewTable(headers)

	approximated := false
	for i, d := range daysList {
		parsed, err := d.Prayers(s.prayers)
		if err != nil {
			return err
		}

		row := []string{dateLabel(d)}
		for _, p := range parsed {
			cell := p.Time.Format(s.layout)
			if d.IsApproximated(p.Name) {
				cell += "*"
				approximated = true
			}
			row = append(row, cell)
		}
		tbl.AddRow(row)

		// Highlight today's row.
		if i == 0 {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	if approximated {
		fmt.Fprintf(out, "\n  %s\n", display.Yellow("* high-latitude approximation"))
	}
	fmt.Fprintln(out)
	return nil
}

// dateLabel is the short date shown in tables, e.g. "Sat 28 Feb".
func dateLabel(d prayer.DailyTimes) string {
	return d.Dhuhr.Format("Mon 02 Jan")
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Method   string            `json:"method"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date         string            `json:"date"`
	Timings      map[string]string `json:"timings"`
	Approximated []string          `json:"approximated,omitempty"`
}

func printListJSON(w io.Writer, s *session, daysList []prayer.DailyTimes) error {
	out := listJSONOutput{
		Location: newJSONLocation(s),
		Method:   s.params.Method,
	}

	for _, d := range daysList {
		parsed, err := d.Prayers(s.prayers)
		if err != nil {
			return err
		}

		timings := make(map[string]string)
		for _, p := range parsed {
			timings[strings.ToLower(p.Name)] = p.Time.Format(s.layout)
		}

		out.Days = append(out.Days, listJSONDay{
			Date:         d.Date.String(),
			Timings:      timings,
			Approximated: d.Approximated,
		})
	}

	return writeJSON(w, out)
}
