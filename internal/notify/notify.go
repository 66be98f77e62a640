// Package notify plans prayer notifications and detects missed prayers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// DefaultLead is how long before a prayer the reminder fires.
const DefaultLead = 10 * time.Minute

// Kind distinguishes the notifications planned for one prayer.
type Kind string

const (
	KindPrayer   Kind = "prayer"
	KindReminder Kind = "reminder"
)

// Notification is one scheduled alert.
type Notification struct {
	ID     string    `json:"id"`
	Prayer string    `json:"prayer"`
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	At     time.Time `json:"at"`
}

// Options controls Plan.
type Options struct {
	// Lead is the reminder offset. Zero or negative disables reminders.
	Lead time.Duration
	// Prayers restricts the plan to these prayers. Empty means all five.
	Prayers []string
}

// DefaultOptions plans every prayer with a 10 minute reminder.
func DefaultOptions() Options {
	return Options{Lead: DefaultLead}
}

var prayerBodies = map[string]string{
	prayer.Fajr:    "It's time for Fajr prayer. Start your day with remembrance of Allah.",
	prayer.Dhuhr:   "It's time for Dhuhr prayer. Take a break and remember Allah.",
	prayer.Asr:     "It's time for Asr prayer. Afternoon remembrance of Allah.",
	prayer.Maghrib: "It's time for Maghrib prayer. End your day with gratitude to Allah.",
	prayer.Isha:    "It's time for Isha prayer. Complete your day with worship.",
}

// Plan lists the notifications still ahead of now for the given days: one at
// each prayer and, when enabled, a reminder Lead before it. The result is
// sorted by fire time.
func Plan(days []prayer.DailyTimes, now time.Time, opts Options) []Notification {
	enabled := opts.Prayers
	if len(enabled) == 0 {
		enabled = prayer.ObligatoryPrayers
	}

	var plan []Notification
	for _, day := range days {
		for _, name := range prayer.ObligatoryPrayers {
			if !slices.Contains(enabled, name) {
				continue
			}
			at, _ := day.Time(name)
			id := fmt.Sprintf("%s-%s", name, day.Date)

			if at.After(now) {
				plan = append(plan, Notification{
					ID:     id + "-prayer",
					Prayer: name,
					Kind:   KindPrayer,
					Title:  name + " Prayer Time",
					Body:   prayerBodies[name],
					At:     at,
				})
			}

			if opts.Lead <= 0 {
				continue
			}
			if remind := at.Add(-opts.Lead); remind.After(now) {
				plan = append(plan, Notification{
					ID:     id + "-reminder",
					Prayer: name,
					Kind:   KindReminder,
					Title:  fmt.Sprintf("%s in %s", name, leadText(opts.Lead)),
					Body:   name + " prayer time is approaching. Prepare for prayer.",
					At:     remind,
				})
			}
		}
	}

	slices.SortStableFunc(plan, func(a, b Notification) int {
		return a.At.Compare(b.At)
	})
	return plan
}

func leadText(d time.Duration) string {
	m := int(d.Minutes())
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}

// Scheduler accepts notifications for delivery.
type Scheduler interface {
	Schedule(ctx context.Context, n Notification) error
}

// Dispatch hands every notification to s. It keeps going after a failure and
// returns the number scheduled along with all errors joined.
func Dispatch(ctx context.Context, s Scheduler, plan []Notification) (int, error) {
	var errs []error
	scheduled := 0
	for _, n := range plan {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.Schedule(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("scheduling %s: %w", n.ID, err))
			continue
		}
		scheduled++
	}
	return scheduled, errors.Join(errs...)
}

// WriterScheduler prints each notification as one line.
type WriterScheduler struct {
	W      io.Writer
	Layout string // time layout, defaults to "Mon 15:04"
}

func (w WriterScheduler) Schedule(_ context.Context, n Notification) error {
	layout := w.Layout
	if layout == "" {
		layout = "Mon 15:04"
	}
	_, err := fmt.Fprintf(w.W, "%s  %-8s  %s: %s\n", n.At.Format(layout), n.Kind, n.Title, n.Body)
	return err
}
