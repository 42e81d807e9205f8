package location

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"wanderlens/internal/models"
)

const (
	// fastFixTimeout bounds the initial single-shot position request.
	fastFixTimeout = 5 * time.Second
	// watchTimeout bounds the whole watch-based fallback attempt.
	watchTimeout = 15 * time.Second
)

// Acquirer resolves a current coordinate using a layered fallback strategy:
// fresh cache, then a fast single-shot fix, then a bounded position watch,
// then the cache again regardless of age. Device successes are written
// through to the cache. Preventing concurrent Resolve calls is the caller's
// responsibility (the orchestrator runs single-flight).
type Acquirer struct {
	provider PositionProvider
	cache    *Cache
}

// NewAcquirer creates an acquirer over the given positioning capability.
// A nil cache gets a default one so Resolve can always write through.
func NewAcquirer(provider PositionProvider, cache *Cache) *Acquirer {
	if cache == nil {
		cache = NewCache(0)
	}
	return &Acquirer{provider: provider, cache: cache}
}

// Resolve returns the current coordinate or a classified *Error when no
// device strategy succeeded and no cached coordinate exists.
func (a *Acquirer) Resolve(ctx context.Context) (models.Coordinate, error) {
	// A fresh cache hit avoids the sensor entirely (no prompt, no battery).
	if coord, ok := a.cache.Get(); ok {
		return coord, nil
	}

	coord, fastErr := a.fastFix(ctx)
	if fastErr == nil {
		a.cache.Set(coord)
		return coord, nil
	}

	coord, watchErr := a.watchFix(ctx)
	if watchErr == nil {
		a.cache.Set(coord)
		return coord, nil
	}

	// Stale is better than none: an expired coordinate still lets discovery
	// proceed. It is not re-stamped, so it stays stale for the next run.
	if coord, ok := a.cache.GetAny(); ok {
		log.Warn().
			Str("fast_error", fastErr.Error()).
			Str("watch_error", watchErr.Error()).
			Msg("location: device strategies failed, using stale cached coordinate")
		return coord, nil
	}

	return models.Coordinate{}, pickError(fastErr, watchErr)
}

// fastFix issues the single high-accuracy position request.
func (a *Acquirer) fastFix(ctx context.Context) (models.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, fastFixTimeout)
	defer cancel()

	pos, err := a.provider.CurrentPosition(ctx, Options{
		HighAccuracy: true,
		Timeout:      fastFixTimeout,
	})
	if err != nil {
		return models.Coordinate{}, classify(err)
	}
	return pos.Coord, nil
}

// watchFix subscribes to continuous position updates and takes the first
// outcome. The subscription is released on every exit path.
func (a *Acquirer) watchFix(ctx context.Context) (models.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, watchTimeout)
	defer cancel()

	watch, err := a.provider.WatchPosition(ctx, Options{
		HighAccuracy: true,
		Timeout:      watchTimeout,
	})
	if err != nil {
		return models.Coordinate{}, classify(err)
	}
	defer watch.Stop()

	select {
	case <-ctx.Done():
		return models.Coordinate{}, newError(KindTimeout, ctx.Err())
	case fix, ok := <-watch.Updates():
		if !ok {
			return models.Coordinate{}, newError(KindUnavailable, errors.New("watch closed without a fix"))
		}
		if fix.Err != nil {
			return models.Coordinate{}, classify(fix.Err)
		}
		return fix.Position.Coord, nil
	}
}

// classify wraps err into a classified *Error unless it already is one.
func classify(err error) error {
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, err)
	}
	return newError(KindUnknown, err)
}

// pickError surfaces the more actionable of the two strategy failures.
// Permission problems trump sensor problems, which trump plain timeouts.
func pickError(fastErr, watchErr error) error {
	severity := func(err error) int {
		switch KindOf(err) {
		case KindPermissionDenied:
			return 3
		case KindUnavailable:
			return 2
		case KindTimeout:
			return 1
		default:
			return 0
		}
	}
	if severity(fastErr) > severity(watchErr) {
		return fastErr
	}
	return watchErr
}
