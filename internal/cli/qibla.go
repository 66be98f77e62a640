package cli

import (
	"fmt"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/qibla"
	"github.com/spf13/cobra"
)

func newQiblaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qibla",
		Short: "Show the Qibla direction",
		Long:  "Print the initial great-circle bearing from your location to the Kaaba, measured clockwise from true north, and the distance to it.",
		Args:  cobra.NoArgs,
		RunE:  runQibla,
	}
}

func runQibla(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := qibla.Compute(s.location.Coordinate())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, qiblaJSON{
			Location:   newJSONLocation(s),
			Bearing:    res.Bearing,
			Compass:    res.Compass,
			DistanceKm: res.DistanceKm,
		})
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold("Qibla"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.location.Label())
	fmt.Fprintf(out, "  %s %s\n", display.Gray("Bearing: "), display.Accent(fmt.Sprintf("%.1f° %s", res.Bearing, res.Compass)))
	fmt.Fprintf(out, "  %s %.0f km\n", display.Gray("Distance:"), res.DistanceKm)
	if s.location.IsDefault {
		fmt.Fprintf(out, "  %s\n", display.Yellow("Location unknown; showing Mecca."))
	}
	fmt.Fprintln(out)
	return nil
}

type qiblaJSON struct {
	Location   todayJSONLocation `json:"location"`
	Bearing    float64           `json:"bearing"`
	Compass    string            `json:"compass"`
	DistanceKm float64           `json:"distance_km"`
}
