package prayer

import (
	"fmt"
	"math"
	"time"

	"github.com/smokyabdulrahman/salah/internal/geo"
)

const (
	// horizonDip is the sun's depression at sunrise and sunset: refraction
	// plus the solar semi-diameter.
	horizonDip = 0.833

	refinePasses        = 2
	nearestLatitudeStep = 0.5

	// minGap keeps the canonical events strictly ordered.
	minGap = 1.0 / 60
)

// initialGuess holds the starting local-solar hours for the refinement
// passes, indexed like the event* constants below.
var initialGuess = [6]float64{5, 6, 12, 13, 18, 18}

const (
	eventFajr = iota
	eventSunrise
	eventDhuhr
	eventAsr
	eventMaghrib
	eventIsha
)

var eventNames = [6]string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ComputeDailyTimes calculates the schedule for date at coord, rendering every
// instant in loc. Qiyam is derived from the following day's Fajr.
//
// Near the poles some events do not occur. Sunrise, Maghrib and Asr are then
// taken from the nearest latitude (in 0.5 degree steps toward the equator)
// where they do occur, and Fajr and Isha from a fixed portion of the night
// proportional to their twilight angle. Such events are listed in
// DailyTimes.Approximated.
func ComputeDailyTimes(coord geo.Coordinate, date Date, params Params, loc *time.Location) (DailyTimes, error) {
	today, err := computeDay(coord, date, params, loc)
	if err != nil {
		return DailyTimes{}, err
	}
	tomorrow, err := computeDay(coord, date.AddDays(1), params, loc)
	if err != nil {
		return DailyTimes{}, err
	}

	nextFajr := tomorrow.Fajr
	if !nextFajr.After(today.Maghrib) {
		nextFajr = nextFajr.Add(24 * time.Hour)
	}
	night := nextFajr.Sub(today.Maghrib)
	today.NextFajr = nextFajr
	today.Qiyam = today.Maghrib.Add(night * 2 / 3).Round(time.Second)
	return today, nil
}

// ComputeTomorrow computes the day after d with the same inputs.
func ComputeTomorrow(d DailyTimes) (DailyTimes, error) {
	return ComputeDailyTimes(d.Coordinate, d.Date.AddDays(1), d.Params, d.Location)
}

func validateInputs(coord geo.Coordinate, date Date, params Params, loc *time.Location) error {
	if err := coord.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !date.Valid() {
		return fmt.Errorf("%w: date %s does not exist", ErrInvalidInput, date)
	}
	if loc == nil {
		return fmt.Errorf("%w: time zone is required", ErrInvalidInput)
	}
	return params.Validate()
}

// computeDay computes the six canonical events of one day, without Qiyam.
func computeDay(coord geo.Coordinate, date Date, params Params, loc *time.Location) (DailyTimes, error) {
	if err := validateInputs(coord, date, params, loc); err != nil {
		return DailyTimes{}, err
	}

	// The solver works on the solar day whose noon falls on date in loc.
	solar := date.AddDays(-meridianShift(coord, date, loc))
	s := solver{
		lat:    coord.Lat,
		jd0:    julianDay(solar) - coord.Lon/360,
		params: params,
	}

	hours := initialGuess
	var approx [6]bool
	for i := 0; i < refinePasses; i++ {
		hours, approx = s.pass(hours)
	}
	hours, approx = enforceOrder(hours, approx)

	base := solar.midnight(time.UTC)
	at := func(h float64) time.Time {
		utc := h - coord.Lon/15
		return base.Add(time.Duration(math.Round(utc*3600)) * time.Second).In(loc)
	}

	d := DailyTimes{
		Date:       date,
		Coordinate: coord,
		Params:     params,
		Location:   loc,
		Fajr:       at(hours[eventFajr]),
		Sunrise:    at(hours[eventSunrise]),
		Dhuhr:      at(hours[eventDhuhr]),
		Asr:        at(hours[eventAsr]),
		Maghrib:    at(hours[eventMaghrib]),
		Isha:       at(hours[eventIsha]),
	}
	for i, a := range approx {
		if a {
			d.Approximated = append(d.Approximated, eventNames[i])
		}
	}
	return d, nil
}

// meridianShift is the number of whole days by which loc's civil day runs
// ahead of the local solar day at coord. It is 0 unless the zone offset is
// more than 12h away from coord.Lon/15, as in Tonga or Kiribati.
func meridianShift(coord geo.Coordinate, date Date, loc *time.Location) int {
	_, offset := date.midnight(loc).Add(12 * time.Hour).Zone()
	return int(math.Round((float64(offset)/3600 - coord.Lon/15) / 24))
}

// solver works in local solar hours: 12 is mean noon at the coordinate's
// longitude.
type solver struct {
	lat    float64
	jd0    float64
	params Params
}

func (s solver) sun(t float64) sunPosition {
	return sunAt(s.jd0 + t/24)
}

// noon returns apparent solar noon, evaluating the equation of time at t.
func (s solver) noon(t float64) float64 {
	return 12 - s.sun(t).equation
}

// elevationFunc returns the target solar elevation in degrees for a
// latitude and declination, or ErrUnattainableAngle.
type elevationFunc func(lat, decl float64) (float64, error)

func fixedElevation(elev float64) elevationFunc {
	return func(_, _ float64) (float64, error) { return elev, nil }
}

// asrElevation is the sun's elevation when an object's shadow equals
// factor times its height plus its noon shadow.
func asrElevation(factor AsrFactor) elevationFunc {
	return func(lat, decl float64) (float64, error) {
		z := math.Abs(lat - decl)
		if z >= 90 {
			return 0, ErrUnattainableAngle
		}
		return radToDeg(math.Atan(1 / (float64(factor) + math.Tan(degToRad(z))))), nil
	}
}

// crossing returns when the sun passes elev at latitude lat, before noon when
// morning is set and after it otherwise.
func (s solver) crossing(elev elevationFunc, lat, t float64, morning bool) (float64, error) {
	p := s.sun(t)
	e, err := elev(lat, p.declination)
	if err != nil {
		return 0, err
	}
	latR, declR := degToRad(lat), degToRad(p.declination)
	cosH := (math.Sin(degToRad(e)) - math.Sin(latR)*math.Sin(declR)) / (math.Cos(latR) * math.Cos(declR))
	if math.IsNaN(cosH) || cosH < -1 || cosH > 1 {
		return 0, ErrUnattainableAngle
	}
	h := radToDeg(math.Acos(cosH)) / 15
	if morning {
		return s.noon(t) - h, nil
	}
	return s.noon(t) + h, nil
}

// nearestLatitude is crossing with the nearest-latitude fallback. The bool
// reports whether a substitute latitude was used.
func (s solver) nearestLatitude(elev elevationFunc, t float64, morning bool) (float64, bool) {
	lat := s.lat
	for steps := 0; ; steps++ {
		v, err := s.crossing(elev, lat, t, morning)
		if err == nil {
			return v, steps > 0
		}
		if lat == 0 {
			// Unreachable for the elevations used here; keep the result defined.
			return s.noon(t), true
		}
		if math.Abs(lat) <= nearestLatitudeStep {
			lat = 0
		} else {
			lat -= math.Copysign(nearestLatitudeStep, lat)
		}
	}
}

// pass refines every event once, using guess as the time at which the sun
// is evaluated.
func (s solver) pass(guess [6]float64) ([6]float64, [6]bool) {
	var out [6]float64
	var approx [6]bool

	out[eventDhuhr] = s.noon(guess[eventDhuhr])
	out[eventSunrise], approx[eventSunrise] = s.nearestLatitude(fixedElevation(-horizonDip), guess[eventSunrise], true)
	out[eventMaghrib], approx[eventMaghrib] = s.nearestLatitude(fixedElevation(-horizonDip), guess[eventMaghrib], false)
	out[eventAsr], approx[eventAsr] = s.nearestLatitude(asrElevation(s.params.Asr), guess[eventAsr], false)

	night := 24 - (out[eventMaghrib] - out[eventSunrise])

	fajr, err := s.crossing(fixedElevation(-s.params.FajrAngle), s.lat, guess[eventFajr], true)
	if err != nil || fajr >= out[eventSunrise] {
		fajr = out[eventSunrise] - s.params.FajrAngle/60*night
		approx[eventFajr] = true
	}
	isha, err := s.crossing(fixedElevation(-s.params.IshaAngle), s.lat, guess[eventIsha], false)
	if err != nil || isha <= out[eventMaghrib] {
		isha = out[eventMaghrib] + s.params.IshaAngle/60*night
		approx[eventIsha] = true
	}
	out[eventFajr], out[eventIsha] = fajr, isha

	return out, approx
}

// enforceOrder makes the events strictly increasing around Dhuhr, which is
// always defined.
func enforceOrder(h [6]float64, approx [6]bool) ([6]float64, [6]bool) {
	for i := eventDhuhr - 1; i >= eventFajr; i-- {
		if h[i] > h[i+1]-minGap {
			h[i] = h[i+1] - minGap
			approx[i] = true
		}
	}
	for i := eventDhuhr + 1; i <= eventIsha; i++ {
		if h[i] < h[i-1]+minGap {
			h[i] = h[i-1] + minGap
			approx[i] = true
		}
	}
	return h, approx
}
