package geo

import (
	"context"
	"errors"
	"time"

	"github.com/smokyabdulrahman/salah/internal/log"
)

// LastKnownMaxAge bounds how long a remembered location is trusted.
const LastKnownMaxAge = 24 * time.Hour

const lastKnownKey = "location.last_known"

// Memory persists JSON-encodable values by key.
type Memory interface {
	Get(ctx context.Context, key string, v any) error
	Put(ctx context.Context, key string, v any) error
}

// Resolver chains location sources: a fresh remembered location, then the
// detector, then any remembered location younger than MaxAge, and finally
// DefaultLocation. Locate never fails unless ctx is done.
type Resolver struct {
	Detector Provider
	Memory   Memory // optional
	Now      func() time.Time
	MaxAge   time.Duration
}

// NewResolver returns a Resolver using IP detection and the given memory.
func NewResolver(mem Memory) *Resolver {
	return &Resolver{
		Detector: IPDetector,
		Memory:   mem,
		Now:      time.Now,
		MaxAge:   LastKnownMaxAge,
	}
}

func (r *Resolver) Locate(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	now := r.now()

	if last, ok := r.lastKnown(ctx, now); ok {
		log.Debugw("using last known location", "label", last.Label(), "age", now.Sub(last.Timestamp))
		return last, nil
	}

	if r.Detector != nil {
		loc, err := r.Detector.Locate(ctx)
		if err == nil {
			if loc.Timestamp.IsZero() {
				loc.Timestamp = now
			}
			r.remember(ctx, loc)
			return loc, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Location{}, err
		}
		log.Warnf("location detection failed: %v", err)
	}

	log.Infof("using default location (Mecca)")
	return DefaultLocation(now), nil
}

func (r *Resolver) lastKnown(ctx context.Context, now time.Time) (Location, bool) {
	if r.Memory == nil {
		return Location{}, false
	}
	var loc Location
	if err := r.Memory.Get(ctx, lastKnownKey, &loc); err != nil {
		return Location{}, false
	}
	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = LastKnownMaxAge
	}
	if now.Sub(loc.Timestamp) >= maxAge {
		return Location{}, false
	}
	if loc.Coordinate().Validate() != nil {
		return Location{}, false
	}
	return loc, true
}

func (r *Resolver) remember(ctx context.Context, loc Location) {
	if r.Memory == nil || loc.IsDefault {
		return
	}
	if err := r.Memory.Put(ctx, lastKnownKey, loc); err != nil {
		log.Warnf("failed to save last known location: %v", err)
	}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
