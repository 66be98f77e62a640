package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Global flags shared across all subcommands.
var (
	FlagCity       string
	FlagCountry    string
	FlagLatitude   float64
	FlagLongitude  float64
	FlagTimezone   string
	FlagMethod     int
	FlagSchool     int
	FlagJSON       bool
	FlagDataDir    string
	FlagTimeFormat string
	FlagEnvFile    string
	FlagDebug      bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// nowFunc is the clock used by every command.
var nowFunc = time.Now

// NewRootCmd creates the root command for the salah CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "salah",
		Short:   "Islamic prayer times and Qibla direction",
		Long:    "Compute Islamic prayer times and the Qibla direction locally from solar astronomy.\nWith no subcommand, shows today's schedule.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.Init(FlagDebug); err != nil {
				return fmt.Errorf("failed to initialise logging: %w", err)
			}
			if FlagJSON {
				display.SetEnabled(false)
			}

			var envFiles []string
			if FlagEnvFile != "" {
				envFiles = append(envFiles, FlagEnvFile)
			}
			if err := config.LoadDotEnv(envFiles...); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.ApplyEnv(); err != nil {
				return fmt.Errorf("invalid environment: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "City label to display")
	pf.StringVar(&FlagCountry, "country", "", "Country label to display")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Latitude in degrees, north positive")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Longitude in degrees, east positive")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA time zone for display, e.g. Europe/London")
	pf.IntVar(&FlagMethod, "method", 0, "Calculation method ID (see `salah methods`)")
	pf.IntVar(&FlagSchool, "school", 0, "Asr school (0=Shafi, 1=Hanafi)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagDataDir, "data-dir", "", "Data directory (default: ~/.local/share/salah/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagEnvFile, "env-file", "", "Load SALAH_* variables from this file (default: .env if present)")
	pf.BoolVar(&FlagDebug, "debug", false, "Enable debug logging")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newQiblaCmd())
	rootCmd.AddCommand(newRemindersCmd())
	rootCmd.AddCommand(newMissedCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("salah %s\n", version)
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
// Flag values go through config.Set so they get the same validation.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	merged := config.Config{}
	if loadedConfig != nil {
		merged = *loadedConfig
	}
	cfg := &merged

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	overrides := []struct {
		flag, key string
		value     func() string
	}{
		{"city", "city", func() string { return FlagCity }},
		{"country", "country", func() string { return FlagCountry }},
		{"latitude", "latitude", func() string { return strconv.FormatFloat(FlagLatitude, 'f', -1, 64) }},
		{"longitude", "longitude", func() string { return strconv.FormatFloat(FlagLongitude, 'f', -1, 64) }},
		{"timezone", "timezone", func() string { return FlagTimezone }},
		{"method", "method", func() string { return strconv.Itoa(FlagMethod) }},
		{"school", "school", func() string { return strconv.Itoa(FlagSchool) }},
		{"data-dir", "data_dir", func() string { return FlagDataDir }},
		{"time-format", "time_format", func() string { return FlagTimeFormat }},
	}
	for _, o := range overrides {
		if !flagWasSet(flags, root, o.flag) {
			continue
		}
		if err := cfg.Set(o.key, o.value()); err != nil {
			return nil, fmt.Errorf("--%s: %w", o.flag, err)
		}
	}

	if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if cfg.School == nil {
		cfg.School = defaults.School
	}
	if cfg.ReminderMinutes == nil {
		cfg.ReminderMinutes = defaults.ReminderMinutes
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if cfg.Listen == "" {
		cfg.Listen = defaults.Listen
	}

	return cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
