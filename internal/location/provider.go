// Package location resolves the traveller's current coordinate from a
// positioning capability, with caching and a layered fallback strategy.
package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wanderlens/internal/models"
)

// ErrorKind classifies a failed position resolution.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindPermissionDenied
	KindUnavailable
	KindTimeout
)

// String returns the taxonomy name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission_denied"
	case KindUnavailable:
		return "position_unavailable"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a classified resolution failure carrying a remediation hint
// suitable for showing to the user.
type Error struct {
	Kind ErrorKind
	Hint string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("location: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Hint: hintFor(kind), Err: err}
}

func hintFor(kind ErrorKind) string {
	switch kind {
	case KindPermissionDenied:
		return "Location access was denied. Allow location for WanderLens and try again."
	case KindUnavailable:
		return "Your position is currently unavailable. Move to an open area and try again."
	case KindTimeout:
		return "Timed out waiting for a position fix. Try again."
	default:
		return "Could not determine your position. Try again."
	}
}

// KindOf extracts the taxonomy kind from any error produced by this package.
// Bare context deadline errors count as timeouts; everything else is unknown.
func KindOf(err error) ErrorKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

// Options mirror the positioning capability's request options.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Position is a single device-sourced fix. AccuracyM is the estimated radius
// in meters, 0 when the source does not report one.
type Position struct {
	Coord     models.Coordinate
	AccuracyM float64
	At        time.Time
}

// Fix is one watch update: either a position or the classified error the
// source reported for that attempt.
type Fix struct {
	Position Position
	Err      error
}

// Watch is a live position subscription. Updates delivers fixes until Stop
// releases the subscription; Stop is safe to call more than once and must be
// called on every exit path so no subscription leaks.
type Watch interface {
	Updates() <-chan Fix
	Stop()
}

// PositionProvider is the positioning capability consumed by the Acquirer:
// a single-shot high-accuracy request and a cancellable continuous watch.
// Implementations report failures as classified *Error values.
type PositionProvider interface {
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
	WatchPosition(ctx context.Context, opts Options) (Watch, error)
}
