package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/spf13/cobra"
)

const configSetExamples = `  salah config set latitude 51.5074
  salah config set longitude -0.1278
  salah config set timezone Europe/London
  salah config set method 2
  salah config set time_format 12h
  salah config set prayers Fajr,Dhuhr,Asr,Maghrib,Isha
  salah config set reminder_minutes 15`

// configAction runs against the config file as stored on disk.
type configAction func(cfg *config.Config, out io.Writer, args []string) error

func withConfig(action configAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return action(cfg, cmd.OutOrStdout(), args)
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long: "Show the values stored in the config file, or change them with a subcommand.\n" +
			"Environment variables and flags override these values at run time.",
		Args: cobra.NoArgs,
		RunE: withConfig(showConfig),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "set <key> <value>",
			Short:   "Set a config value",
			Long:    "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys, ", "),
			Example: configSetExamples,
			Args:    cobra.ExactArgs(2),
			RunE:    withConfig(setConfig),
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print a config value",
			Args:  cobra.ExactArgs(1),
			RunE:  withConfig(getConfig),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Reset config to defaults",
			Long:  "Delete the config file and restore all settings to defaults.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Reset(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.Path()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
	)

	return cmd
}

func showConfig(cfg *config.Config, out io.Writer, _ []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		fmt.Fprintf(out, "  %-16s %s\n", key, describeConfigValue(key, val))
	}
	return nil
}

func setConfig(cfg *config.Config, out io.Writer, args []string) error {
	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}

// getConfig prints one value, an empty line when unset.
func getConfig(cfg *config.Config, out io.Writer, args []string) error {
	val, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(out, val)
	return nil
}

// describeConfigValue labels method and school IDs with their names.
func describeConfigValue(key, val string) string {
	if val == "" {
		return display.Gray("(not set)")
	}
	switch key {
	case "method":
		if id, err := strconv.Atoi(val); err == nil {
			if m, ok := prayer.MethodByID(id); ok {
				return fmt.Sprintf("%s (%s)", val, m.Name)
			}
		}
	case "school":
		switch val {
		case "0":
			return "0 (Shafi)"
		case "1":
			return "1 (Hanafi)"
		}
	}
	return val
}
