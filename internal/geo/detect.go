package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ipAPIURL     = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"
	ipAPITimeout = 5 * time.Second
)

// IPAPI locates the machine from its public IP address through ip-api.com,
// which needs no API key. The zero value is ready to use.
type IPAPI struct {
	URL    string       // defaults to the ip-api.com endpoint
	Client *http.Client // defaults to a client with a 5s timeout
	Now    func() time.Time
}

// IPDetector is the detector used by NewResolver.
var IPDetector Provider = IPAPI{}

type ipAPIReply struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// Locate implements Provider.
func (d IPAPI) Locate(ctx context.Context) (Location, error) {
	url := d.URL
	if url == "" {
		url = ipAPIURL
	}
	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: ipAPITimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Location{}, fmt.Errorf("failed to create geolocation request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var reply ipAPIReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return Location{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if reply.Status != "success" {
		return Location{}, fmt.Errorf("geolocation failed: %s", reply.Message)
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	loc := Location{
		Latitude:  reply.Lat,
		Longitude: reply.Lon,
		City:      reply.City,
		Country:   reply.Country,
		Timezone:  reply.Timezone,
		Timestamp: now(),
	}
	if err := loc.Coordinate().Validate(); err != nil {
		return Location{}, fmt.Errorf("geolocation returned bad position: %w", err)
	}
	return loc, nil
}

// DetectLocation locates the machine with the default IPAPI settings.
func DetectLocation(ctx context.Context) (Location, error) {
	return IPAPI{}.Locate(ctx)
}
