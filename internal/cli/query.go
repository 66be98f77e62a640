package cli

import (
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/spf13/cobra"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " + strings.Join(prayer.AllPrayerNames, ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// matchPrayerName normalizes a user supplied prayer name.
func matchPrayerName(arg string) (string, error) {
	for _, name := range prayer.AllPrayerNames {
		if strings.EqualFold(name, arg) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown prayer %q; valid names: %s", arg, strings.Join(prayer.AllPrayerNames, ", "))
}

// queryDays parses the --days value.
func queryDays(v string) (int, error) {
	switch v {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := parseDays(v)
	if err != nil {
		return 0, fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", v)
	}
	return n, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	prayerName, err := matchPrayerName(args[0])
	if err != nil {
		return err
	}
	days, err := queryDays(flagQueryDays)
	if err != nil {
		return err
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

	if days == 1 {
		d := daysList[0]
		t, _ := d.Time(prayerName)
		timeStr := t.Format(s.layout)

		if FlagJSON {
			return writeJSON(out, queryJSONSingle{
				Prayer:       strings.ToLower(prayerName),
				Time:         timeStr,
				Date:         d.Date.String(),
				Approximated: d.IsApproximated(prayerName),
			})
		}
		fmt.Fprintf(out, "%s %s\n", prayerName, timeStr)
		return nil
	}

	if FlagJSON {
		multi := queryJSONMulti{
			Location: newJSONLocation(s),
			Prayer:   strings.ToLower(prayerName),
		}
		for _, d := range daysList {
			t, _ := d.Time(prayerName)
			multi.Days = append(multi.Days, queryJSONDay{
				Date:         d.Date.String(),
				Time:         t.Format(s.layout),
				Approximated: d.IsApproximated(prayerName),
			})
		}
		return writeJSON(out, multi)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s Times, %d Days", prayerName, days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.location.Label())
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Date", prayerName})
	for i, d := range daysList {
		t, _ := d.Time(prayerName)
		cell := t.Format(s.layout)
		if d.IsApproximated(prayerName) {
			cell += "*"
		}
		tbl.AddRow([]string{dateLabel(d), cell})
		if i == 0 {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

type queryJSONSingle struct {
	Prayer       string `json:"prayer"`
	Time         string `json:"time"`
	Date         string `json:"date"`
	Approximated bool   `json:"approximated,omitempty"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Approximated bool   `json:"approximated,omitempty"`
}
