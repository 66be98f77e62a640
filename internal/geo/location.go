package geo

import (
	"context"
	"fmt"
	"time"
)

// Location is a resolved user position with the metadata needed to render
// prayer times in the right zone.
type Location struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	Accuracy  float64   `json:"accuracy,omitempty"` // metres, 0 when unknown
	Timestamp time.Time `json:"timestamp"`
	IsDefault bool      `json:"is_default,omitempty"`
}

// Kaaba is the position of the Kaaba in Mecca.
var Kaaba = Coordinate{Lat: 21.4225, Lon: 39.8262}

// DefaultLocation is used when nothing better is known.
func DefaultLocation(now time.Time) Location {
	return Location{
		Latitude:  Kaaba.Lat,
		Longitude: Kaaba.Lon,
		City:      "Mecca",
		Country:   "Saudi Arabia",
		Timezone:  "Asia/Riyadh",
		Timestamp: now,
		IsDefault: true,
	}
}

// Coordinate returns the location's position.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Latitude, Lon: l.Longitude}
}

// TimeZone loads the location's IANA zone. An empty zone means time.Local.
func (l Location) TimeZone() (*time.Location, error) {
	if l.Timezone == "" {
		return time.Local, nil
	}
	tz, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", l.Timezone, err)
	}
	return tz, nil
}

// Label is a short human-readable description, e.g. "London, United Kingdom".
func (l Location) Label() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	case l.Country != "":
		return l.Country
	default:
		return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
	}
}

// Provider resolves the user's current location.
type Provider interface {
	Locate(ctx context.Context) (Location, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Location, error)

func (f ProviderFunc) Locate(ctx context.Context) (Location, error) {
	return f(ctx)
}

// Static always returns the same location.
type Static Location

func (s Static) Locate(ctx context.Context) (Location, error) {
	return Location(s), nil
}
