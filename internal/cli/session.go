package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/smokyabdulrahman/salah/internal/log"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/store"
	"github.com/spf13/cobra"
)

// locationTimeout bounds IP detection so the CLI never hangs on the network.
const locationTimeout = 5 * time.Second

// detector is the location source used when no coordinates are configured.
// Tests replace it to stay offline.
var detector geo.Provider = geo.IPDetector

// session is everything a command needs to compute schedules.
type session struct {
	cfg      *config.Config
	location geo.Location
	zone     *time.Location
	params   prayer.Params
	cache    *cache.Cache
	store    *store.Store // nil when the data directory is unusable
	prayers  []string
	layout   string
	now      time.Time
}

// newSession merges the configuration, opens the store and resolves the
// location. Callers must Close it.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}

	params, err := prayer.NewParams(cfg.MethodOrDefault(prayer.DefaultMethodID), cfg.SchoolOrDefault(0))
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		params:  params,
		cache:   cache.New(),
		prayers: cfg.PrayerList(prayer.DefaultPrayerNames),
		layout:  timeLayout(cfg.TimeFormat),
	}

	if path, err := store.DefaultPath(cfg.DataDir); err != nil {
		log.Warnf("store disabled: %v", err)
	} else if st, err := store.Open(path); err != nil {
		log.Warnf("store disabled: %v", err)
	} else {
		s.store = st
	}

	ctx, cancel := context.WithTimeout(contextOf(cmd), locationTimeout)
	defer cancel()

	s.location, err = s.locate(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	if s.location.IsDefault {
		log.Warnf("location unknown; using %s", s.location.Label())
	}

	tzName := cfg.Timezone
	if tzName == "" {
		tzName = s.location.Timezone
	}
	s.zone = time.Local
	if tzName != "" {
		s.zone, err = time.LoadLocation(tzName)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("invalid timezone %q: %w", tzName, err)
		}
	}

	s.now = nowFunc().In(s.zone)
	return s, nil
}

// locate resolves the location. Priority: CLI flags/env/config coordinates >
// last known location > IP auto-detect > Mecca.
func (s *session) locate(ctx context.Context) (geo.Location, error) {
	if s.cfg.HasCoordinates() {
		loc := geo.Location{
			Latitude:  *s.cfg.Latitude,
			Longitude: *s.cfg.Longitude,
			City:      s.cfg.City,
			Country:   s.cfg.Country,
			Timezone:  s.cfg.Timezone,
		}
		if err := loc.Coordinate().Validate(); err != nil {
			return geo.Location{}, err
		}
		return geo.Static(loc).Locate(ctx)
	}

	r := geo.NewResolver(nil)
	r.Detector = detector
	r.Now = nowFunc
	if s.store != nil {
		r.Memory = s.store
	}
	return r.Locate(ctx)
}

// Close releases the store.
func (s *session) Close() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Warnf("closing store: %v", err)
	}
}

// day returns the schedule for d.
func (s *session) day(d prayer.Date) (prayer.DailyTimes, error) {
	times, err := s.cache.DailyTimes(s.location.Coordinate(), d, s.params, s.zone)
	if err != nil {
		return prayer.DailyTimes{}, err
	}
	if len(times.Approximated) > 0 {
		log.Warnf("%s: high-latitude approximation in use for %v", d, times.Approximated)
	}
	return times, nil
}

// today returns the schedules for the current date and the one after it.
func (s *session) today() (prayer.DailyTimes, prayer.DailyTimes, error) {
	date := prayer.DateOf(s.now)
	today, err := s.day(date)
	if err != nil {
		return prayer.DailyTimes{}, prayer.DailyTimes{}, err
	}
	tomorrow, err := s.day(date.AddDays(1))
	if err != nil {
		return prayer.DailyTimes{}, prayer.DailyTimes{}, err
	}
	return today, tomorrow, nil
}

// days returns n consecutive schedules starting today.
func (s *session) days(n int) ([]prayer.DailyTimes, error) {
	out, err := s.cache.Range(s.location.Coordinate(), prayer.DateOf(s.now), n, s.params, s.zone)
	if err != nil {
		return nil, err
	}
	for _, d := range out {
		if len(d.Approximated) > 0 {
			log.Debugw("high-latitude approximation", "date", d.Date.String(), "events", d.Approximated)
		}
	}
	return out, nil
}

// timeLayout maps a time_format setting to a Go layout.
func timeLayout(format string) string {
	if format == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
