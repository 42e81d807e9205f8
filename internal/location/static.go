package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"wanderlens/internal/models"
)

var errInvalidStaticCoordinate = errors.New("static coordinate out of range")

// StaticProvider always reports the same coordinate. It backs explicit
// --lat/--lon overrides and keeps tests deterministic.
type StaticProvider struct {
	Coord models.Coordinate
}

func (p StaticProvider) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	if !p.Coord.Valid() {
		return Position{}, newError(KindUnavailable, errInvalidStaticCoordinate)
	}
	return Position{Coord: p.Coord, At: time.Now()}, nil
}

func (p StaticProvider) WatchPosition(ctx context.Context, opts Options) (Watch, error) {
	w := &staticWatch{updates: make(chan Fix, 1)}
	pos, err := p.CurrentPosition(ctx, opts)
	w.updates <- Fix{Position: pos, Err: err}
	return w, nil
}

type staticWatch struct {
	updates  chan Fix
	stopOnce sync.Once
}

func (w *staticWatch) Updates() <-chan Fix { return w.updates }

func (w *staticWatch) Stop() {
	w.stopOnce.Do(func() { close(w.updates) })
}
