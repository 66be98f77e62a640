// Package api talks to the Al Adhan prayer times API, used as an independent
// reference for the local calculation.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.aladhan.com/v1"
	userAgent      = "salah (+https://github.com/smokyabdulrahman/salah)"
)

// Client fetches reference timings. BaseURL may be pointed at a test server.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient returns a Client for the public Al Adhan API.
func NewClient() *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		BaseURL: defaultBaseURL,
	}
}

// Query selects one day of timings. Method and School are Al Adhan IDs; a
// negative value leaves the API default in place.
type Query struct {
	Date      time.Time
	Latitude  float64
	Longitude float64
	Method    int
	School    int
}

func (q Query) path() string {
	return "/timings/" + q.Date.Format("02-01-2006")
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', 6, 64))
	v.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', 6, 64))
	if q.Method >= 0 {
		v.Set("method", strconv.Itoa(q.Method))
	}
	if q.School >= 0 {
		v.Set("school", strconv.Itoa(q.School))
	}
	return v
}

// Error is a non-success reply, either at the HTTP level or in the
// envelope's code field.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("al adhan: status %d", e.Code)
	}
	return fmt.Sprintf("al adhan: status %d: %s", e.Code, e.Message)
}

// Timings fetches the reference timings for q.
func (c *Client) Timings(ctx context.Context, q Query) (*Response, error) {
	reqURL := c.BaseURL + q.path() + "?" + q.values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("al adhan request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("al adhan request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{Code: resp.StatusCode, Message: string(body)}
	}

	// Failed replies carry a message string in data, so the envelope is
	// checked before data is decoded.
	var envelope struct {
		Code   int             `json:"code"`
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("al adhan reply: %w", err)
	}
	if envelope.Code != http.StatusOK {
		return nil, &Error{Code: envelope.Code, Message: envelope.Status}
	}

	out := Response{Code: envelope.Code, Status: envelope.Status}
	if err := json.Unmarshal(envelope.Data, &out.Data); err != nil {
		return nil, fmt.Errorf("al adhan reply data: %w", err)
	}
	return &out, nil
}
