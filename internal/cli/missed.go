package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/notify"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/spf13/cobra"
)

func newMissedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "missed",
		Short: "List prayers that passed since the last check",
		Long: "Show the prayers of yesterday and today whose time passed since this command last ran,\n" +
			"then record the current time as the last check.",
		Args: cobra.NoArgs,
		RunE: runMissed,
	}
}

func runMissed(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.store == nil {
		return errors.New("missed prayers need a writable data directory (see `salah config set data_dir`)")
	}

	date := prayer.DateOf(s.now)
	yesterday, err := s.day(date.AddDays(-1))
	if err != nil {
		return err
	}
	today, err := s.day(date)
	if err != nil {
		return err
	}

	checker := notify.Checker{Memory: s.store, Now: func() time.Time { return s.now }}
	missed, err := checker.Check(contextOf(cmd), []prayer.DailyTimes{yesterday, today})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		items := make([]missedJSON, 0, len(missed))
		for _, p := range missed {
			items = append(items, missedJSON{
				Prayer: strings.ToLower(p.Name),
				Date:   prayer.DateOf(p.Time).String(),
				Time:   p.Time.Format(s.layout),
			})
		}
		return writeJSON(out, items)
	}

	if len(missed) == 0 {
		fmt.Fprintln(out, "No missed prayers.")
		return nil
	}

	fmt.Fprintln(out, display.Bold("Missed since last check:"))
	for _, p := range missed {
		fmt.Fprintf(out, "  %-8s %s %s\n", p.Name, p.Time.Format("Mon 02 Jan"), p.Time.Format(s.layout))
	}
	return nil
}

type missedJSON struct {
	Prayer string `json:"prayer"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}
