package cli

import (
	"github.com/smokyabdulrahman/salah/internal/tui"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live countdown to the next prayer",
		Long:  "Open a full-screen view of today's schedule with a live countdown and window progress. Press q to quit.",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(contextOf(cmd), tui.Options{
		Location:   s.location,
		Zone:       s.zone,
		Params:     s.params,
		Cache:      s.cache,
		Prayers:    s.prayers,
		TimeLayout: s.layout,
		Now:        nowFunc,
	})
}
