package cli

import (
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/spf13/cobra"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nThis is what the tmux-salah status-line helper runs.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: "+strings.Join(prayer.FormatModes, ", ")+", or a custom Go template")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	today, tomorrow, err := s.today()
	if err != nil {
		return err
	}

	next, err := prayer.NextPrayer(today, s.now, &tomorrow)
	if err != nil {
		return err
	}
	window := prayer.CurrentWindow(today, s.now, &tomorrow.Fajr)

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), nextJSON{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(s.layout),
			Remaining: prayer.FormatCountdown(max(next.Remaining(s.now), 0)),
			Tomorrow:  next.Tomorrow,
			Window:    strings.ToLower(window.String()),
			Progress:  prayer.WindowProgress(today, s.now),
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(next, window, s.now, flagFormat, s.layout))
	return nil
}

type nextJSON struct {
	Prayer    string  `json:"prayer"`
	Time      string  `json:"time"`
	Remaining string  `json:"remaining"`
	Tomorrow  bool    `json:"tomorrow"`
	Window    string  `json:"window"`
	Progress  float64 `json:"progress"`
}
