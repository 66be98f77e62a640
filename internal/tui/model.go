// Package tui is the live countdown view behind `salah watch`.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/qibla"
)

const (
	maxBarWidth = 60
	padding     = 8
)

// Options configures the live view.
type Options struct {
	Location   geo.Location
	Zone       *time.Location
	Params     prayer.Params
	Cache      *cache.Cache
	Prayers    []string
	TimeLayout string
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model of the live view.
type Model struct {
	opts  Options
	qibla *qibla.Result

	now      time.Time
	today    prayer.DailyTimes
	tomorrow prayer.DailyTimes
	window   prayer.Window
	next     prayer.Next
	percent  float64

	bar   progress.Model
	width int
	err   error
}

// NewModel builds the model and computes the first frame.
func NewModel(opts Options) Model {
	if opts.Cache == nil {
		opts.Cache = cache.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Params == (prayer.Params{}) {
		opts.Params = prayer.DefaultParams()
	}
	if opts.Zone == nil {
		opts.Zone = time.Local
	}
	if len(opts.Prayers) == 0 {
		opts.Prayers = prayer.DefaultPrayerNames
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = "15:04"
	}

	m := Model{
		opts: opts,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	if res, err := qibla.Compute(opts.Location.Coordinate()); err == nil {
		m.qibla = &res
	}
	m.refresh(opts.Now())
	return m
}

// refresh recomputes everything that depends on now. Schedules are only
// looked up again when the date changes.
func (m *Model) refresh(now time.Time) {
	now = now.In(m.opts.Zone)
	m.now = now

	date := prayer.DateOf(now)
	if m.err != nil || m.today.Date != date || m.today.Fajr.IsZero() {
		coord := m.opts.Location.Coordinate()
		today, err := m.opts.Cache.DailyTimes(coord, date, m.opts.Params, m.opts.Zone)
		if err != nil {
			m.err = err
			return
		}
		tomorrow, err := m.opts.Cache.DailyTimes(coord, date.AddDays(1), m.opts.Params, m.opts.Zone)
		if err != nil {
			m.err = err
			return
		}
		m.today, m.tomorrow, m.err = today, tomorrow, nil
		m.opts.Cache.Purge(date)
	}

	next, err := prayer.NextPrayer(m.today, now, &m.tomorrow)
	if err != nil {
		m.err = err
		return
	}
	m.next = next
	m.window = prayer.CurrentWindow(m.today, now, &m.tomorrow.Fajr)
	m.percent = prayer.WindowProgress(m.today, now)
}

// Init starts the clock.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles ticks, resizes and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(msg.Width-padding, maxBarWidth)
		if m.bar.Width < 10 {
			m.bar.Width = 10
		}
		return m, nil

	case tickMsg:
		m.refresh(m.opts.Now())
		return m, tick()
	}

	return m, nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.err != nil {
		return warnStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n" + helpStyle.Render("q quit") + "\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Salah") + "  " + m.opts.Location.Label() + "\n")
	b.WriteString(labelStyle.Render(m.now.Format("Mon 02 Jan 2006  15:04:05")) + "\n\n")

	b.WriteString(m.scheduleTable())
	b.WriteString("\n")

	remaining := m.next.Remaining(m.now)
	if remaining < 0 {
		remaining = 0
	}
	when := m.next.Time.Format(m.opts.TimeLayout)
	if m.next.Tomorrow {
		when += " tomorrow"
	}
	b.WriteString(nextStyle.Render(fmt.Sprintf("Next: %s at %s (in %s)", m.next.Name, when, prayer.FormatCountdown(remaining))) + "\n")
	b.WriteString(m.bar.ViewAs(m.percent) + "  " + labelStyle.Render(m.window.String()) + "\n")

	if m.qibla != nil {
		b.WriteString(fmt.Sprintf("\nQibla %.1f° %s  %.0f km\n", m.qibla.Bearing, m.qibla.Compass, m.qibla.DistanceKm))
	}
	if len(m.today.Approximated) > 0 {
		b.WriteString(warnStyle.Render("high-latitude approximation: "+strings.Join(m.today.Approximated, ", ")) + "\n")
	}
	if m.opts.Location.IsDefault {
		b.WriteString(warnStyle.Render("location unknown, showing Mecca") + "\n")
	}

	b.WriteString(helpStyle.Render("q quit"))

	return boxStyle.Render(b.String()) + "\n"
}

func (m Model) scheduleTable() string {
	tbl := display.NewTable([]string{"Prayer", "Time"})
	prayers, err := m.today.Prayers(m.opts.Prayers)
	if err != nil {
		return ""
	}
	for i, p := range prayers {
		label := p.Name
		if m.today.IsApproximated(p.Name) {
			label += "*"
		}
		tbl.AddRow([]string{label, p.Time.Format(m.opts.TimeLayout)})
		switch {
		case !m.next.Tomorrow && p.Name == m.next.Name:
			tbl.SetHighlightRow(i)
		case !p.Time.After(m.now):
			tbl.SetDimRow(i)
		}
	}
	return tbl.Render()
}

// Run shows the live view until the user quits or ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
