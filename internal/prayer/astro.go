package prayer

import (
	"github.com/soniakeys/meeus/v3/eqtime"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

func degToRad(deg float64) float64 { return unit.AngleFromDeg(deg).Rad() }
func radToDeg(rad float64) float64 { return unit.Angle(rad).Deg() }

// sunPosition is the part of the solar ephemeris the schedule needs.
type sunPosition struct {
	declination float64 // degrees
	equation    float64 // equation of time, hours
}

// sunAt evaluates the sun's apparent declination and the equation of time
// at Julian day jd. The difference between JD and JDE (about a minute of
// arc in solar longitude at most) is ignored.
func sunAt(jd float64) sunPosition {
	_, dec := solar.ApparentEquatorial(jd)
	return sunPosition{
		declination: dec.Deg(),
		equation:    eqtime.ESmart(jd).Hour(),
	}
}

// julianDay returns the Julian day at 0h UT of the given date.
func julianDay(d Date) float64 {
	return julian.CalendarGregorianToJD(d.Year, int(d.Month), float64(d.Day))
}
