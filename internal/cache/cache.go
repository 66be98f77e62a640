// Package cache memoises computed prayer schedules.
package cache

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

const (
	// coordPrecision rounds coordinates to 4 decimals (about 11 m).
	coordPrecision = 1e4

	// DefaultLimit bounds the entries of a Cache made by New.
	DefaultLimit = 4096
)

// ComputeFunc computes one day's schedule.
type ComputeFunc func(coord geo.Coordinate, date prayer.Date, params prayer.Params, loc *time.Location) (prayer.DailyTimes, error)

// Key identifies one cached schedule.
type Key struct {
	Lat       float64
	Lon       float64
	Date      prayer.Date
	MethodID  int
	FajrAngle float64
	IshaAngle float64
	Asr       prayer.AsrFactor
	Zone      string
}

// Stats reports cache effectiveness.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Cache is a concurrency-safe memo of daily schedules. Entries are values:
// a recomputation replaces an entry, it is never modified in place.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]prayer.DailyTimes
	compute ComputeFunc
	limit   int

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New returns an empty Cache backed by prayer.ComputeDailyTimes, holding at
// most DefaultLimit entries.
func New() *Cache {
	return NewWithCompute(prayer.ComputeDailyTimes)
}

// NewWithCompute returns an empty Cache backed by fn.
func NewWithCompute(fn ComputeFunc) *Cache {
	return &Cache{
		entries: make(map[Key]prayer.DailyTimes),
		compute: fn,
		limit:   DefaultLimit,
	}
}

// SetLimit caps the number of entries. Inserting past the cap evicts the
// entry with the earliest date. n <= 0 removes the cap.
func (c *Cache) SetLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limit = n
	for c.limit > 0 && len(c.entries) > c.limit {
		c.evictOldest()
	}
}

// evictOldest drops the entry with the earliest date. c.mu must be held.
func (c *Cache) evictOldest() {
	var oldest Key
	found := false
	for k := range c.entries {
		if !found || k.Date.Before(oldest.Date) {
			oldest, found = k, true
		}
	}
	if found {
		delete(c.entries, oldest)
	}
}

// Round returns coord rounded to the cache's precision.
func Round(coord geo.Coordinate) geo.Coordinate {
	return geo.Coordinate{
		Lat: math.Round(coord.Lat*coordPrecision) / coordPrecision,
		Lon: math.Round(coord.Lon*coordPrecision) / coordPrecision,
	}
}

// KeyFor builds the cache key for a computation.
func KeyFor(coord geo.Coordinate, date prayer.Date, params prayer.Params, loc *time.Location) Key {
	r := Round(coord)
	zone := ""
	if loc != nil {
		zone = loc.String()
	}
	return Key{
		Lat:       r.Lat,
		Lon:       r.Lon,
		Date:      date,
		MethodID:  params.MethodID,
		FajrAngle: params.FajrAngle,
		IshaAngle: params.IshaAngle,
		Asr:       params.Asr,
		Zone:      zone,
	}
}

// DailyTimes returns the schedule for the given inputs, computing it on a
// miss. The coordinate is rounded before computing so every caller sharing a
// key sees the same result. Errors are not cached.
func (c *Cache) DailyTimes(coord geo.Coordinate, date prayer.Date, params prayer.Params, loc *time.Location) (prayer.DailyTimes, error) {
	key := KeyFor(coord, date, params, loc)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return clone(entry), nil
	}

	c.misses.Add(1)
	entry, err := c.compute(Round(coord), date, params, loc)
	if err != nil {
		return prayer.DailyTimes{}, err
	}

	c.mu.Lock()
	if _, ok := c.entries[key]; !ok && c.limit > 0 && len(c.entries) >= c.limit {
		c.evictOldest()
	}
	c.entries[key] = entry
	c.mu.Unlock()

	return clone(entry), nil
}

// Range returns days consecutive schedules starting at from.
func (c *Cache) Range(coord geo.Coordinate, from prayer.Date, days int, params prayer.Params, loc *time.Location) ([]prayer.DailyTimes, error) {
	out := make([]prayer.DailyTimes, 0, days)
	for i := 0; i < days; i++ {
		d, err := c.DailyTimes(coord, from.AddDays(i), params, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Purge drops every entry dated before the given day and reports how many
// were removed.
func (c *Cache) Purge(before prayer.Date) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k := range c.entries {
		if k.Date.Before(before) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of cached schedules.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

func clone(d prayer.DailyTimes) prayer.DailyTimes {
	d.Approximated = slices.Clone(d.Approximated)
	return d
}
