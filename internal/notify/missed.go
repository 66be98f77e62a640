package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/store"
)

// Missed returns the prayers of the given days whose time fell strictly
// between lastCheck and now, in chronological order.
func Missed(days []prayer.DailyTimes, lastCheck, now time.Time) []prayer.Prayer {
	var missed []prayer.Prayer
	for _, day := range days {
		for _, name := range prayer.ObligatoryPrayers {
			at, _ := day.Time(name)
			if at.After(lastCheck) && at.Before(now) {
				missed = append(missed, prayer.Prayer{Name: name, Time: at})
			}
		}
	}
	return missed
}

// Memory persists JSON-encodable values by key.
type Memory interface {
	Get(ctx context.Context, key string, v any) error
	Put(ctx context.Context, key string, v any) error
}

// Checker remembers when prayers were last checked.
type Checker struct {
	Memory Memory
	Now    func() time.Time
}

// Check returns the prayers missed since the previous check and records now
// as the new check time. Before the first check every earlier prayer of the
// given days counts as missed.
func (c *Checker) Check(ctx context.Context, days []prayer.DailyTimes) ([]prayer.Prayer, error) {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	var last time.Time
	err := c.Memory.Get(ctx, store.KeyLastPrayerCheck, &last)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading last prayer check: %w", err)
	}

	missed := Missed(days, last, now)

	if err := c.Memory.Put(ctx, store.KeyLastPrayerCheck, now); err != nil {
		return missed, fmt.Errorf("saving last prayer check: %w", err)
	}
	return missed, nil
}
