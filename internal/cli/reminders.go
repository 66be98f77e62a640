package cli

import (
	"fmt"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/notify"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/spf13/cobra"
)

func newRemindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "Plan prayer notifications for today and tomorrow",
		Long: "List the notifications still ahead: one at each of today's remaining prayers and all of tomorrow's,\n" +
			"plus a reminder reminder_minutes before each (default 10, 0 disables reminders).\n" +
			"Only prayers listed in the prayers setting are planned.",
		Args: cobra.NoArgs,
		RunE: runReminders,
	}
}

func runReminders(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	today, tomorrow, err := s.today()
	if err != nil {
		return err
	}

	opts := notify.Options{
		Lead:    s.cfg.ReminderOrDefault(),
		Prayers: obligatoryOnly(s.prayers),
	}
	plan := notify.Plan([]prayer.DailyTimes{today, tomorrow}, s.now, opts)

	out := cmd.OutOrStdout()
	if FlagJSON {
		if plan == nil {
			plan = []notify.Notification{}
		}
		return writeJSON(out, plan)
	}

	if len(plan) == 0 {
		fmt.Fprintln(out, "No upcoming notifications.")
		return nil
	}

	fmt.Fprintf(out, "%s\n\n", display.Bold(fmt.Sprintf("%d upcoming notifications", len(plan))))
	n, err := notify.Dispatch(contextOf(cmd), notify.WriterScheduler{W: out, Layout: "Mon " + s.layout}, plan)
	if err != nil {
		return fmt.Errorf("scheduled %d of %d notifications: %w", n, len(plan), err)
	}
	return nil
}

// obligatoryOnly filters names down to the five daily prayers. Sunrise and
// Qiyam never get notifications.
func obligatoryOnly(names []string) []string {
	var out []string
	for _, name := range names {
		for _, p := range prayer.ObligatoryPrayers {
			if name == p {
				out = append(out, name)
			}
		}
	}
	if len(out) == 0 {
		return prayer.ObligatoryPrayers
	}
	return out
}
