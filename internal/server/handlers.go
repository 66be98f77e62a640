package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/qibla"
)

type apiError struct {
	Code    int
	Message string
}

type handlerFunc func(c *gin.Context) (any, *apiError)

func resolve(h handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, apiErr := h(c)
		if apiErr != nil {
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// toAPIError maps domain errors to HTTP status codes.
func toAPIError(c *gin.Context, err error) *apiError {
	_ = c.Error(err)
	switch {
	case errors.Is(err, prayer.ErrInvalidInput),
		errors.Is(err, prayer.ErrConfiguration),
		errors.Is(err, geo.ErrInvalidCoordinate):
		return &apiError{Code: http.StatusBadRequest, Message: err.Error()}
	default:
		return &apiError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}

// placeQuery is the common query string of the /v1 endpoints.
type placeQuery struct {
	Lat    *float64 `form:"lat" binding:"required"`
	Lon    *float64 `form:"lon" binding:"required"`
	TZ     string   `form:"tz"`
	Date   string   `form:"date"`
	Method *int     `form:"method"`
	School *int     `form:"school"`
}

// place is a parsed placeQuery.
type place struct {
	coord  geo.Coordinate
	loc    *time.Location
	params prayer.Params
	now    time.Time
	date   prayer.Date
}

func (s *Server) parsePlace(c *gin.Context) (place, *apiError) {
	var q placeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return place{}, &apiError{Code: http.StatusBadRequest, Message: "lat and lon are required numbers"}
	}

	coord, err := geo.NewCoordinate(*q.Lat, *q.Lon)
	if err != nil {
		return place{}, toAPIError(c, err)
	}

	loc := s.loc
	if q.TZ != "" {
		loc, err = time.LoadLocation(q.TZ)
		if err != nil {
			return place{}, toAPIError(c, fmt.Errorf("%w: unknown time zone %q", prayer.ErrInvalidInput, q.TZ))
		}
	}

	params := s.params
	if q.Method != nil || q.School != nil {
		method, school := params.MethodID, params.School()
		if q.Method != nil {
			method = *q.Method
		}
		if q.School != nil {
			school = *q.School
		}
		params, err = prayer.NewParams(method, school)
		if err != nil {
			return place{}, toAPIError(c, err)
		}
	}

	now := s.now().In(loc)
	date := prayer.DateOf(now)
	if q.Date != "" {
		date, err = prayer.ParseDate(q.Date)
		if err != nil {
			return place{}, toAPIError(c, fmt.Errorf("%w: %v", prayer.ErrInvalidInput, err))
		}
	}

	return place{coord: coord, loc: loc, params: params, now: now, date: date}, nil
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache":  s.cache.Stats(),
	})
}

type scheduleResponse struct {
	Date         string    `json:"date"`
	Timezone     string    `json:"timezone"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Method       string    `json:"method"`
	Asr          string    `json:"asr"`
	Fajr         time.Time `json:"fajr"`
	Sunrise      time.Time `json:"sunrise"`
	Dhuhr        time.Time `json:"dhuhr"`
	AsrTime      time.Time `json:"asr_time"`
	Maghrib      time.Time `json:"maghrib"`
	Isha         time.Time `json:"isha"`
	Qiyam        time.Time `json:"qiyam"`
	Approximated []string  `json:"approximated,omitempty"`
}

func newScheduleResponse(d prayer.DailyTimes) scheduleResponse {
	asr := "standard"
	if d.Params.Asr == prayer.AsrHanafi {
		asr = "hanafi"
	}
	return scheduleResponse{
		Date:         d.Date.String(),
		Timezone:     d.Location.String(),
		Latitude:     d.Coordinate.Lat,
		Longitude:    d.Coordinate.Lon,
		Method:       d.Params.Method,
		Asr:          asr,
		Fajr:         d.Fajr,
		Sunrise:      d.Sunrise,
		Dhuhr:        d.Dhuhr,
		AsrTime:      d.Asr,
		Maghrib:      d.Maghrib,
		Isha:         d.Isha,
		Qiyam:        d.Qiyam,
		Approximated: d.Approximated,
	}
}

// GET /v1/times?lat=&lon=[&tz=&date=&method=&school=]
func (s *Server) times(c *gin.Context) (any, *apiError) {
	p, apiErr := s.parsePlace(c)
	if apiErr != nil {
		return nil, apiErr
	}
	d, err := s.cache.DailyTimes(p.coord, p.date, p.params, p.loc)
	if err != nil {
		return nil, toAPIError(c, err)
	}
	return newScheduleResponse(d), nil
}

type nextResponse struct {
	Name      string    `json:"name"`
	Time      time.Time `json:"time"`
	Clock     string    `json:"clock"`
	Tomorrow  bool      `json:"tomorrow"`
	Remaining string    `json:"remaining"`
	Seconds   int64     `json:"seconds"`
}

func newNextResponse(n prayer.Next, now time.Time) nextResponse {
	d := n.Remaining(now)
	if d < 0 {
		d = 0
	}
	return nextResponse{
		Name:      n.Name,
		Time:      n.Time,
		Clock:     n.Clock(),
		Tomorrow:  n.Tomorrow,
		Remaining: prayer.FormatCountdown(d),
		Seconds:   int64(d / time.Second),
	}
}

// today returns the schedules for the current date and the one after it.
func (s *Server) today(p place) (prayer.DailyTimes, prayer.DailyTimes, error) {
	date := prayer.DateOf(p.now)
	today, err := s.cache.DailyTimes(p.coord, date, p.params, p.loc)
	if err != nil {
		return prayer.DailyTimes{}, prayer.DailyTimes{}, err
	}
	tomorrow, err := s.cache.DailyTimes(p.coord, date.AddDays(1), p.params, p.loc)
	if err != nil {
		return prayer.DailyTimes{}, prayer.DailyTimes{}, err
	}
	return today, tomorrow, nil
}

// GET /v1/next?lat=&lon=[&tz=&method=&school=]
func (s *Server) next(c *gin.Context) (any, *apiError) {
	p, apiErr := s.parsePlace(c)
	if apiErr != nil {
		return nil, apiErr
	}
	today, tomorrow, err := s.today(p)
	if err != nil {
		return nil, toAPIError(c, err)
	}
	n, err := prayer.NextPrayer(today, p.now, &tomorrow)
	if err != nil {
		return nil, toAPIError(c, err)
	}
	return newNextResponse(n, p.now), nil
}

type windowResponse struct {
	Window   prayer.Window `json:"window"`
	Progress float64       `json:"progress"`
	Next     nextResponse  `json:"next"`
}

// GET /v1/window?lat=&lon=[&tz=&method=&school=]
func (s *Server) window(c *gin.Context) (any, *apiError) {
	p, apiErr := s.parsePlace(c)
	if apiErr != nil {
		return nil, apiErr
	}
	today, tomorrow, err := s.today(p)
	if err != nil {
		return nil, toAPIError(c, err)
	}
	n, err := prayer.NextPrayer(today, p.now, &tomorrow)
	if err != nil {
		return nil, toAPIError(c, err)
	}
	return windowResponse{
		Window:   prayer.CurrentWindow(today, p.now, &tomorrow.Fajr),
		Progress: prayer.WindowProgress(today, p.now),
		Next:     newNextResponse(n, p.now),
	}, nil
}

// GET /v1/qibla?lat=&lon=
func (s *Server) qibla(c *gin.Context) (any, *apiError) {
	p, apiErr := s.parsePlace(c)
	if apiErr != nil {
		return nil, apiErr
	}
	res, err := qibla.Compute(p.coord)
	if err != nil {
		return nil, toAPIError(c, err)
	}
	return res, nil
}

type methodResponse struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	FajrAngle float64 `json:"fajr_angle"`
	IshaAngle float64 `json:"isha_angle"`
}

// GET /v1/methods
func (s *Server) methods(c *gin.Context) (any, *apiError) {
	out := make([]methodResponse, 0, len(prayer.Methods))
	for _, m := range prayer.Methods {
		out = append(out, methodResponse{ID: m.ID, Name: m.Name, FajrAngle: m.FajrAngle, IshaAngle: m.IshaAngle})
	}
	return out, nil
}
