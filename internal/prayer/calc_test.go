package prayer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const almanacTolerance = 2 * time.Minute

var (
	mecca   = geo.Coordinate{Lat: 21.4225, Lon: 39.8262}
	london  = geo.Coordinate{Lat: 51.5074, Lon: -0.1278}
	jakarta = geo.Coordinate{Lat: -6.2, Lon: 106.8167}
	tromso  = geo.Coordinate{Lat: 70, Lon: 25}

	riyadhZone  = time.FixedZone("AST", 3*3600)
	jakartaZone = time.FixedZone("WIB", 7*3600)
)

func clock(t *testing.T, loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	t.Helper()
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func assertNear(t *testing.T, name string, want, got time.Time) {
	t.Helper()
	diff := got.Sub(want)
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqualf(t, diff, almanacTolerance, "%s: got %s, want %s", name, got.Format(time.RFC3339), want.Format(time.RFC3339))
}

func TestComputeDailyTimes_Reference(t *testing.T) {
	tests := []struct {
		name   string
		coord  geo.Coordinate
		date   Date
		params Params
		loc    *time.Location
		want   [6]time.Time
	}{
		{
			name:   "Mecca new year",
			coord:  mecca,
			date:   Date{2024, time.January, 1},
			params: DefaultParams(),
			loc:    riyadhZone,
			want: [6]time.Time{
				clock(t, riyadhZone, 2024, 1, 1, 5, 39, 7),
				clock(t, riyadhZone, 2024, 1, 1, 6, 58, 23),
				clock(t, riyadhZone, 2024, 1, 1, 12, 24, 0),
				clock(t, riyadhZone, 2024, 1, 1, 15, 28, 41),
				clock(t, riyadhZone, 2024, 1, 1, 17, 49, 41),
				clock(t, riyadhZone, 2024, 1, 1, 19, 4, 19),
			},
		},
		{
			name:   "London equinox",
			coord:  london,
			date:   Date{2024, time.March, 20},
			params: DefaultParams(),
			loc:    time.UTC,
			want: [6]time.Time{
				clock(t, time.UTC, 2024, 3, 20, 4, 8, 46),
				clock(t, time.UTC, 2024, 3, 20, 6, 2, 17),
				clock(t, time.UTC, 2024, 3, 20, 12, 7, 52),
				clock(t, time.UTC, 2024, 3, 20, 15, 26, 6),
				clock(t, time.UTC, 2024, 3, 20, 18, 14, 20),
				clock(t, time.UTC, 2024, 3, 20, 20, 1, 23),
			},
		},
		{
			name:   "Jakarta southern hemisphere",
			coord:  jakarta,
			date:   Date{2024, time.September, 1},
			params: DefaultParams(),
			loc:    jakartaZone,
			want: [6]time.Time{
				clock(t, jakartaZone, 2024, 9, 1, 4, 43, 19),
				clock(t, jakartaZone, 2024, 9, 1, 5, 52, 55),
				clock(t, jakartaZone, 2024, 9, 1, 11, 52, 41),
				clock(t, jakartaZone, 2024, 9, 1, 15, 10, 52),
				clock(t, jakartaZone, 2024, 9, 1, 17, 52, 30),
				clock(t, jakartaZone, 2024, 9, 1, 18, 58, 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDailyTimes(tt.coord, tt.date, tt.params, tt.loc)
			require.NoError(t, err)

			events := [6]time.Time{got.Fajr, got.Sunrise, got.Dhuhr, got.Asr, got.Maghrib, got.Isha}
			for i := range events {
				assertNear(t, eventNames[i], tt.want[i], events[i])
				assert.Equal(t, tt.loc, events[i].Location(), "%s rendered in wrong zone", eventNames[i])
			}
			assert.Empty(t, got.Approximated)
		})
	}
}

func TestComputeDailyTimes_HanafiAsrIsLater(t *testing.T) {
	date := Date{2024, time.January, 1}
	standard, err := ComputeDailyTimes(mecca, date, DefaultParams(), riyadhZone)
	require.NoError(t, err)

	hanafiParams, err := NewParams(DefaultMethodID, 1)
	require.NoError(t, err)
	hanafi, err := ComputeDailyTimes(mecca, date, hanafiParams, riyadhZone)
	require.NoError(t, err)

	assertNear(t, "hanafi asr", clock(t, riyadhZone, 2024, 1, 1, 16, 13, 55), hanafi.Asr)
	assert.True(t, hanafi.Asr.After(standard.Asr))
	assert.Equal(t, standard.Dhuhr, hanafi.Dhuhr)
	assert.Equal(t, standard.Isha, hanafi.Isha)
}

func TestComputeDailyTimes_Qiyam(t *testing.T) {
	got, err := ComputeDailyTimes(london, Date{2024, time.March, 20}, DefaultParams(), time.UTC)
	require.NoError(t, err)

	tomorrow, err := ComputeTomorrow(got)
	require.NoError(t, err)
	assert.Equal(t, tomorrow.Fajr, got.NextFajr)

	want := got.Maghrib.Add(got.NextFajr.Sub(got.Maghrib) * 2 / 3)
	assert.WithinDuration(t, want, got.Qiyam, time.Second)
	assert.True(t, got.Qiyam.After(got.Isha))
	assert.True(t, got.Qiyam.Before(got.NextFajr))
}

func TestComputeDailyTimes_TwilightFallback(t *testing.T) {
	// At 51.5N around the June solstice the sun never gets 18 degrees
	// below the horizon.
	got, err := ComputeDailyTimes(london, Date{2024, time.June, 21}, DefaultParams(), time.UTC)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{Fajr, Isha}, got.Approximated)
	assert.True(t, got.IsApproximated(Fajr))
	assert.False(t, got.IsApproximated(Dhuhr))

	night := 24*time.Hour - got.Maghrib.Sub(got.Sunrise)
	assert.WithinDuration(t, got.Sunrise.Add(-time.Duration(float64(night)*18/60)), got.Fajr, time.Second)
	assert.WithinDuration(t, got.Maghrib.Add(time.Duration(float64(night)*17/60)), got.Isha, time.Second)
}

func TestComputeDailyTimes_MidnightSun(t *testing.T) {
	got, err := ComputeDailyTimes(tromso, Date{2024, time.June, 21}, DefaultParams(), time.UTC)
	require.NoError(t, err)

	assert.Subset(t, got.Approximated, []string{Fajr, Sunrise, Maghrib, Isha})
	assert.False(t, got.IsApproximated(Dhuhr))

	base := clock(t, time.UTC, 2024, 6, 21, 0, 0, 0)
	hours := func(h float64) time.Time { return base.Add(time.Duration(h * float64(time.Hour))) }
	assertNear(t, "dhuhr", hours(10.365), got.Dhuhr)
	assertNear(t, "asr", hours(15.586), got.Asr)
	assertNear(t, "sunrise", hours(-1.08), got.Sunrise)
	assertNear(t, "maghrib", hours(21.806), got.Maghrib)
}

func TestComputeDailyTimes_AlwaysOrdered(t *testing.T) {
	lats := []float64{-89.9, -80, -66, -55, -48, 0, 30, 48, 55, 60, 65, 66.5, 70, 75, 80, 85, 90}
	start := Date{2025, time.January, 1}

	for _, lat := range lats {
		for day := 0; day < 366; day += 15 {
			date := start.AddDays(day)
			got, err := ComputeDailyTimes(geo.Coordinate{Lat: lat, Lon: 20}, date, DefaultParams(), time.UTC)
			require.NoError(t, err, "lat %v date %s", lat, date)

			seq := []time.Time{got.Fajr, got.Sunrise, got.Dhuhr, got.Asr, got.Maghrib, got.Isha}
			for i := 1; i < len(seq); i++ {
				if !seq[i].After(seq[i-1]) {
					t.Errorf("lat %v %s: %s (%s) not after %s (%s)", lat, date,
						eventNames[i], seq[i].Format(time.RFC3339), eventNames[i-1], seq[i-1].Format(time.RFC3339))
				}
			}
			if !got.NextFajr.After(got.Maghrib) || got.Qiyam.Before(got.Maghrib) || got.Qiyam.After(got.NextFajr) {
				t.Errorf("lat %v %s: qiyam %s outside night", lat, date, got.Qiyam.Format(time.RFC3339))
			}
		}
	}
}

func TestComputeDailyTimes_Deterministic(t *testing.T) {
	a, err := ComputeDailyTimes(london, Date{2024, time.March, 20}, DefaultParams(), time.UTC)
	require.NoError(t, err)
	b, err := ComputeDailyTimes(london, Date{2024, time.March, 20}, DefaultParams(), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeDailyTimes_Errors(t *testing.T) {
	valid := Date{2024, time.March, 20}

	tests := []struct {
		name   string
		coord  geo.Coordinate
		date   Date
		params Params
		loc    *time.Location
		want   error
	}{
		{"latitude out of range", geo.Coordinate{Lat: 91}, valid, DefaultParams(), time.UTC, ErrInvalidInput},
		{"NaN longitude", geo.Coordinate{Lon: math.NaN()}, valid, DefaultParams(), time.UTC, ErrInvalidInput},
		{"February 30", london, Date{2024, time.February, 30}, DefaultParams(), time.UTC, ErrInvalidInput},
		{"year zero", london, Date{0, time.January, 1}, DefaultParams(), time.UTC, ErrInvalidInput},
		{"nil zone", london, valid, DefaultParams(), nil, ErrInvalidInput},
		{"empty params", london, valid, Params{}, time.UTC, ErrConfiguration},
		{"bad asr factor", london, valid, Params{FajrAngle: 18, IshaAngle: 17, Asr: 3}, time.UTC, ErrConfiguration},
		{"negative fajr angle", london, valid, Params{FajrAngle: -18, IshaAngle: 17, Asr: AsrStandard}, time.UTC, ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeDailyTimes(tt.coord, tt.date, tt.params, tt.loc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.False(t, errors.Is(err, ErrUnattainableAngle))
		})
	}
}

func TestComputeDailyTimes_InvalidCoordinateKeepsCause(t *testing.T) {
	_, err := ComputeDailyTimes(geo.Coordinate{Lat: -100}, Date{2024, 1, 1}, DefaultParams(), time.UTC)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestComputeDailyTimes_ZoneFarFromMeridian(t *testing.T) {
	tests := []struct {
		name  string
		coord geo.Coordinate
		loc   *time.Location
	}{
		// Tonga keeps UTC+13 at 175°W, a day ahead of its solar time.
		{"Nuku'alofa", geo.Coordinate{Lat: -21.14, Lon: -175.2}, time.FixedZone("+13", 13*3600)},
		{"Kiritimati", geo.Coordinate{Lat: 1.87, Lon: -157.43}, time.FixedZone("+14", 14*3600)},
		// And the mirror case, a zone a day behind.
		{"far west of east", geo.Coordinate{Lat: -20, Lon: 175}, time.FixedZone("-11", -11*3600)},
	}

	date := Date{2024, time.June, 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ComputeDailyTimes(tt.coord, date, DefaultParams(), tt.loc)
			require.NoError(t, err)

			for _, p := range []struct {
				name string
				at   time.Time
			}{{Fajr, d.Fajr}, {Sunrise, d.Sunrise}, {Dhuhr, d.Dhuhr}, {Asr, d.Asr}, {Maghrib, d.Maghrib}, {Isha, d.Isha}} {
				assert.Equal(t, date, DateOf(p.at), "%s at %s", p.name, p.at)
			}
			assert.InDelta(t, 12, float64(d.Dhuhr.Hour())+float64(d.Dhuhr.Minute())/60, 1.5)
		})
	}
}

func TestNextPrayer_ZoneFarFromMeridian(t *testing.T) {
	tonga := time.FixedZone("+13", 13*3600)
	d, err := ComputeDailyTimes(geo.Coordinate{Lat: -21.14, Lon: -175.2}, Date{2024, time.June, 1}, DefaultParams(), tonga)
	require.NoError(t, err)

	now := time.Date(2024, time.June, 1, 14, 0, 0, 0, tonga)
	next, err := NextPrayer(d, now, nil)
	require.NoError(t, err)
	assert.Equal(t, Asr, next.Name)
	assert.False(t, next.Tomorrow)
	assert.Equal(t, WindowDhuhr, CurrentWindow(d, now, &d.NextFajr))
}
