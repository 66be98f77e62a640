package api

import (
	"fmt"
	"strings"
	"time"
)

// Response is the envelope of an Al Adhan timings reply.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data is one day's reference timings.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings holds the events the local calculator also produces, as "HH:MM"
// strings. A zone suffix such as " (BST)" may follow the time.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// DateInfo carries the Hijri date of the requested day.
type DateInfo struct {
	Readable string    `json:"readable"`
	Hijri    HijriDate `json:"hijri"`
}

// HijriDate is the Islamic calendar date reported by the API.
type HijriDate struct {
	Day   string `json:"day"`
	Month struct {
		Number int    `json:"number"`
		En     string `json:"en"`
	} `json:"month"`
	Year        string `json:"year"`
	Designation struct {
		Abbreviated string `json:"abbreviated"`
	} `json:"designation"`
}

// String renders the date as "12 Ramadan 1447 AH", or "" when incomplete.
func (h HijriDate) String() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	era := h.Designation.Abbreviated
	if era == "" {
		era = "AH"
	}
	return strings.Join([]string{h.Day, h.Month.En, h.Year, era}, " ")
}

// Meta describes how the API interpreted the request.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Zone loads the zone the timings are expressed in. fallback is returned
// when the reply names no zone or names one unknown to this system; the
// latter is also reported as an error.
func (m Meta) Zone(fallback *time.Location) (*time.Location, error) {
	if m.Timezone == "" {
		return fallback, nil
	}
	z, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return fallback, fmt.Errorf("reference timezone %q: %w", m.Timezone, err)
	}
	return z, nil
}
