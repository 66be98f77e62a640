package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/spf13/cobra"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the supported calculation methods with their Fajr and Isha twilight angles.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if FlagJSON {
				return writeJSON(cmd.OutOrStdout(), methodsJSON())
			}
			printMethods(cmd.OutOrStdout())
			return nil
		},
	}
}

type methodJSON struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	FajrAngle float64 `json:"fajr_angle"`
	IshaAngle float64 `json:"isha_angle"`
	Default   bool    `json:"default,omitempty"`
}

func methodsJSON() []methodJSON {
	items := make([]methodJSON, len(prayer.Methods))
	for i, m := range prayer.Methods {
		items[i] = methodJSON{
			ID:        m.ID,
			Name:      m.Name,
			FajrAngle: m.FajrAngle,
			IshaAngle: m.IshaAngle,
			Default:   m.ID == prayer.DefaultMethodID,
		}
	}
	return items
}

func degrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°"
}

func printMethods(out io.Writer) {
	tbl := display.NewTable([]string{"ID", "Name", "Fajr", "Isha"})
	def := ""
	for i, m := range prayer.Methods {
		tbl.AddRow([]string{strconv.Itoa(m.ID), m.Name, degrees(m.FajrAngle), degrees(m.IshaAngle)})
		if m.ID == prayer.DefaultMethodID {
			tbl.SetHighlightRow(i)
			def = m.Name
		}
	}

	fmt.Fprintf(out, "\n  %s\n\n", display.Bold("Calculation methods"))
	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out, "\n  Select one with --method <ID> or `salah config set method <ID>`.")
	fmt.Fprintf(out, "  Default: %d, %s.\n", prayer.DefaultMethodID, def)
}
