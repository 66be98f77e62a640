package prayer

import "errors"

var (
	// ErrInvalidInput is returned for an invalid coordinate, date or zone.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration is returned for incomplete calculation parameters.
	ErrConfiguration = errors.New("invalid calculation parameters")

	// ErrUnattainableAngle marks a solar elevation the sun never reaches on
	// the requested day. The calculator resolves it with a fallback and
	// never returns it to callers.
	ErrUnattainableAngle = errors.New("solar angle unattainable")
)
