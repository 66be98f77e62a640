package cli

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah/internal/api"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/log"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/spf13/cobra"
)

var flagTolerance time.Duration

// newAPIClient builds the reference almanac client. Tests point it at an
// httptest server.
var newAPIClient = api.NewClient

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare today's times against the Al Adhan API",
		Long: "Fetch today's timings for the same coordinates, method and school from the Al Adhan API\n" +
			"and print the difference from the local calculation. Exits with an error when any\n" +
			"event differs by more than --tolerance.",
		Args: cobra.NoArgs,
		RunE: runVerify,
	}

	cmd.Flags().DurationVar(&flagTolerance, "tolerance", 2*time.Minute, "Largest acceptable difference per event")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	today, err := s.day(prayer.DateOf(s.now))
	if err != nil {
		return err
	}

	resp, err := newAPIClient().Timings(contextOf(cmd), api.Query{
		Date:      s.now,
		Latitude:  s.location.Latitude,
		Longitude: s.location.Longitude,
		Method:    s.params.MethodID,
		School:    s.params.School(),
	})
	if err != nil {
		return err
	}
	log.Debugw("reference timings", "method", resp.Data.Meta.Method.Name, "timezone", resp.Data.Meta.Timezone)

	refZone, err := resp.Data.Meta.Zone(s.zone)
	if err != nil {
		log.Warnf("%v; reading reference times in %s", err, s.zone)
	}
	hijri := resp.Data.Date.Hijri.String()

	ref, err := resp.Data.Timings.Parse(s.now.In(refZone), refZone)
	if err != nil {
		return err
	}
	diffs := api.Compare(today, ref)

	var outside []string
	for _, d := range diffs {
		if !d.Within(flagTolerance) {
			outside = append(outside, d.Name)
		}
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		report := verifyJSON{Date: today.Date.String(), Hijri: hijri, Method: s.params.Method, Tolerance: flagTolerance.String()}
		for _, d := range diffs {
			report.Events = append(report.Events, verifyJSONEvent{
				Prayer:    d.Name,
				Local:     d.Local.In(s.zone).Format(s.layout),
				Reference: d.Reference.In(s.zone).Format(s.layout),
				DeltaSec:  int(d.Delta().Seconds()),
				Within:    d.Within(flagTolerance),
			})
		}
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %s\n", display.Bold("Verification against Al Adhan"))
		fmt.Fprintf(out, "  %s  %s\n", today.Date, display.Gray(s.params.Method))
		if hijri != "" {
			fmt.Fprintf(out, "  %s\n", display.Gray(hijri))
		}
		fmt.Fprintln(out)

		tbl := display.NewTable([]string{"Prayer", "Local", "Reference", "Δ min"})
		for i, d := range diffs {
			tbl.AddRow([]string{
				d.Name,
				d.Local.In(s.zone).Format(s.layout),
				d.Reference.In(s.zone).Format(s.layout),
				fmt.Sprintf("%+.1f", d.Delta().Minutes()),
			})
			if !d.Within(flagTolerance) {
				tbl.SetHighlightRow(i)
			}
		}
		fmt.Fprint(out, tbl.Render())
		fmt.Fprintln(out)
	}

	if len(outside) > 0 {
		return fmt.Errorf("%d event(s) differ by more than %s: %v", len(outside), flagTolerance, outside)
	}
	return nil
}

type verifyJSON struct {
	Date      string            `json:"date"`
	Hijri     string            `json:"hijri,omitempty"`
	Method    string            `json:"method"`
	Tolerance string            `json:"tolerance"`
	Events    []verifyJSONEvent `json:"events"`
}

type verifyJSONEvent struct {
	Prayer    string `json:"prayer"`
	Local     string `json:"local"`
	Reference string `json:"reference"`
	DeltaSec  int    `json:"delta_seconds"`
	Within    bool   `json:"within"`
}
