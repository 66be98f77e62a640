// Package qibla computes the direction and distance to the Kaaba.
package qibla

import (
	"fmt"
	"math"

	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/soniakeys/unit"
)

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0

func degToRad(deg float64) float64 { return unit.AngleFromDeg(deg).Rad() }
func radToDeg(rad float64) float64 { return unit.Angle(rad).Deg() }

// validate applies the same coordinate check as prayer.ComputeDailyTimes.
func validate(coord geo.Coordinate) error {
	if err := coord.Validate(); err != nil {
		return fmt.Errorf("%w: %w", prayer.ErrInvalidInput, err)
	}
	return nil
}

// Bearing returns the initial great-circle bearing from coord to the Kaaba,
// in degrees clockwise from true north, normalised to [0, 360). At the Kaaba
// itself the bearing is 0.
func Bearing(coord geo.Coordinate) (float64, error) {
	if err := validate(coord); err != nil {
		return 0, err
	}
	if coord == geo.Kaaba {
		return 0, nil
	}

	phi1, phi2 := degToRad(coord.Lat), degToRad(geo.Kaaba.Lat)
	dLambda := degToRad(geo.Kaaba.Lon - coord.Lon)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	theta := radToDeg(math.Atan2(y, x))

	b := math.Mod(theta+360, 360)
	if b >= 360 {
		b = 0
	}
	return b, nil
}

// Distance returns the haversine distance from coord to the Kaaba in km.
func Distance(coord geo.Coordinate) (float64, error) {
	if err := validate(coord); err != nil {
		return 0, err
	}
	phi1, phi2 := degToRad(coord.Lat), degToRad(geo.Kaaba.Lat)
	dPhi := phi2 - phi1
	dLambda := degToRad(geo.Kaaba.Lon - coord.Lon)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c, nil
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint names the 16-point compass direction nearest to bearing.
func CompassPoint(bearing float64) string {
	b := math.Mod(math.Mod(bearing, 360)+360, 360)
	return compassPoints[int(math.Round(b/22.5))%16]
}

// Result bundles everything known about the Qibla from one place.
type Result struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	Bearing    float64        `json:"bearing"`
	Compass    string         `json:"compass"`
	DistanceKm float64        `json:"distance_km"`
}

// Compute returns the bearing, compass point and distance from coord.
func Compute(coord geo.Coordinate) (Result, error) {
	b, err := Bearing(coord)
	if err != nil {
		return Result{}, fmt.Errorf("qibla bearing: %w", err)
	}
	d, err := Distance(coord)
	if err != nil {
		return Result{}, fmt.Errorf("qibla distance: %w", err)
	}
	return Result{
		Coordinate: coord,
		Bearing:    b,
		Compass:    CompassPoint(b),
		DistanceKm: d,
	}, nil
}
