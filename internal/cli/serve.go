package cli

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/log"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/server"
	"github.com/spf13/cobra"
)

var (
	flagListen  string
	flagOrigins []string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long: "Run a JSON HTTP API. Every request names its own coordinates; the configured method,\n" +
			"school and timezone are the defaults.\n\n" +
			"Endpoints:\n" +
			"  GET /healthz\n" +
			"  GET /v1/times?lat=&lon=[&date=&tz=&method=&school=]\n" +
			"  GET /v1/next?lat=&lon=\n" +
			"  GET /v1/window?lat=&lon=\n" +
			"  GET /v1/qibla?lat=&lon=\n" +
			"  GET /v1/methods",
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default from config, "+config.DefaultListen+")")
	cmd.Flags().StringSliceVar(&flagOrigins, "allow-origin", nil, "CORS origins to allow (default: any)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	params, err := prayer.NewParams(cfg.MethodOrDefault(prayer.DefaultMethodID), cfg.SchoolOrDefault(0))
	if err != nil {
		return err
	}

	zone, err := serveZone(cfg.Timezone)
	if err != nil {
		return err
	}

	addr := flagListen
	if addr == "" {
		addr = cfg.Listen
	}
	if addr == "" {
		addr = config.DefaultListen
	}

	srv := server.New(server.Options{
		Cache:        cache.New(),
		Params:       params,
		Location:     zone,
		Now:          nowFunc,
		AllowOrigins: flagOrigins,
	})

	log.Debugw("starting HTTP server", "addr", addr, "method", params.Method, "timezone", zone.String())
	fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)
	return srv.Run(contextOf(cmd), addr)
}

// serveZone is the zone used for requests that do not pass tz.
func serveZone(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	zone, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return zone, nil
}
