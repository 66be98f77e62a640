package geo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// memMemory is an in-memory Memory for tests.
type memMemory struct {
	data map[string][]byte
}

func newMemMemory() *memMemory {
	return &memMemory{data: map[string][]byte{}}
}

var errMissing = errors.New("missing")

func (m *memMemory) Get(_ context.Context, key string, v any) error {
	raw, ok := m.data[key]
	if !ok {
		return errMissing
	}
	return json.Unmarshal(raw, v)
}

func (m *memMemory) Put(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

var resolverNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func london(ts time.Time) Location {
	return Location{
		Latitude:  51.5074,
		Longitude: -0.1278,
		City:      "London",
		Country:   "United Kingdom",
		Timezone:  "Europe/London",
		Timestamp: ts,
	}
}

func TestResolver_DetectsAndRemembers(t *testing.T) {
	mem := newMemMemory()
	calls := 0
	r := &Resolver{
		Detector: ProviderFunc(func(ctx context.Context) (Location, error) {
			calls++
			return london(resolverNow), nil
		}),
		Memory: mem,
		Now:    func() time.Time { return resolverNow },
	}

	loc, err := r.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.City != "London" {
		t.Errorf("City = %q, want London", loc.City)
	}
	if _, ok := mem.data[lastKnownKey]; !ok {
		t.Fatal("detected location was not remembered")
	}

	// A second lookup within the max age is served from memory.
	if _, err := r.Locate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("detector called %d times, want 1", calls)
	}
}

func TestResolver_StaleMemoryIsIgnored(t *testing.T) {
	mem := newMemMemory()
	mem.Put(context.Background(), lastKnownKey, london(resolverNow.Add(-25*time.Hour)))

	r := &Resolver{
		Detector: ProviderFunc(func(ctx context.Context) (Location, error) {
			return Location{}, errors.New("offline")
		}),
		Memory: mem,
		Now:    func() time.Time { return resolverNow },
	}

	loc, err := r.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loc.IsDefault {
		t.Errorf("expected default location, got %+v", loc)
	}
	if loc.Coordinate() != Kaaba {
		t.Errorf("default coordinate = %v, want %v", loc.Coordinate(), Kaaba)
	}
}

func TestResolver_FreshMemorySkipsDetector(t *testing.T) {
	mem := newMemMemory()
	mem.Put(context.Background(), lastKnownKey, london(resolverNow.Add(-2*time.Hour)))

	r := &Resolver{
		Detector: ProviderFunc(func(ctx context.Context) (Location, error) {
			t.Fatal("detector should not be called")
			return Location{}, nil
		}),
		Memory: mem,
		Now:    func() time.Time { return resolverNow },
	}

	loc, err := r.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.City != "London" || loc.IsDefault {
		t.Errorf("got %+v, want remembered London", loc)
	}
}

func TestResolver_NoSources(t *testing.T) {
	r := &Resolver{Now: func() time.Time { return resolverNow }}

	loc, err := r.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loc.IsDefault || loc.City != "Mecca" {
		t.Errorf("got %+v, want Mecca default", loc)
	}
	if !loc.Timestamp.Equal(resolverNow) {
		t.Errorf("Timestamp = %v, want %v", loc.Timestamp, resolverNow)
	}
}

func TestResolver_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Resolver{Now: func() time.Time { return resolverNow }}
	if _, err := r.Locate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLocationLabelAndTimeZone(t *testing.T) {
	l := london(resolverNow)
	if got := l.Label(); got != "London, United Kingdom" {
		t.Errorf("Label() = %q", got)
	}
	tz, err := l.TimeZone()
	if err != nil {
		t.Fatalf("TimeZone() error: %v", err)
	}
	if tz.String() != "Europe/London" {
		t.Errorf("TimeZone() = %s", tz)
	}

	bare := Location{Latitude: 1.5, Longitude: 2.25}
	if got := bare.Label(); got != "1.5000, 2.2500" {
		t.Errorf("Label() = %q", got)
	}
	if tz, _ := bare.TimeZone(); tz != time.Local {
		t.Errorf("empty timezone should map to time.Local, got %s", tz)
	}

	if _, err := (Location{Timezone: "Mars/Olympus"}).TimeZone(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
