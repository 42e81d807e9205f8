package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderlens/internal/models"
)

// scriptedProvider is a PositionProvider whose behavior is set per test.
// Unscripted calls fail as unavailable.
type scriptedProvider struct {
	current func(ctx context.Context, opts Options) (Position, error)
	watch   func(ctx context.Context, opts Options) (Watch, error)

	currentCalls int
	watchCalls   int
}

func (p *scriptedProvider) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	p.currentCalls++
	if p.current == nil {
		return Position{}, newError(KindUnavailable, errors.New("single-shot not scripted"))
	}
	return p.current(ctx, opts)
}

func (p *scriptedProvider) WatchPosition(ctx context.Context, opts Options) (Watch, error) {
	p.watchCalls++
	if p.watch == nil {
		return nil, newError(KindUnavailable, errors.New("watch not scripted"))
	}
	return p.watch(ctx, opts)
}

type fakeWatch struct {
	updates chan Fix
	stopped bool
}

func newFakeWatch(fixes ...Fix) *fakeWatch {
	w := &fakeWatch{updates: make(chan Fix, len(fixes))}
	for _, f := range fixes {
		w.updates <- f
	}
	return w
}

func (w *fakeWatch) Updates() <-chan Fix { return w.updates }
func (w *fakeWatch) Stop()               { w.stopped = true }

func TestAcquirer_FreshCacheSkipsProvider(t *testing.T) {
	cache := NewCache(5 * time.Minute)
	coord := models.Coordinate{Lat: 48.8584, Lon: 2.2945}
	cache.Set(coord)

	provider := &scriptedProvider{}
	a := NewAcquirer(provider, cache)

	got, err := a.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, coord, got)
	assert.Zero(t, provider.currentCalls, "fresh cache must not touch the sensor")
	assert.Zero(t, provider.watchCalls)
}

func TestAcquirer_FastFixWritesThrough(t *testing.T) {
	coord := models.Coordinate{Lat: 35.6762, Lon: 139.6503}
	provider := &scriptedProvider{
		current: func(ctx context.Context, opts Options) (Position, error) {
			return Position{Coord: coord, At: time.Now()}, nil
		},
	}
	cache := NewCache(5 * time.Minute)
	a := NewAcquirer(provider, cache)

	got, err := a.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, coord, got)
	assert.Zero(t, provider.watchCalls, "watch must not start when the fast fix succeeds")

	cached, ok := cache.Get()
	assert.True(t, ok, "a device success must refresh the cache")
	assert.Equal(t, coord, cached)
}

func TestAcquirer_WatchFallback(t *testing.T) {
	coord := models.Coordinate{Lat: 51.5074, Lon: -0.1278}
	watch := newFakeWatch(Fix{Position: Position{Coord: coord}})
	provider := &scriptedProvider{
		current: func(ctx context.Context, opts Options) (Position, error) {
			return Position{}, newError(KindTimeout, context.DeadlineExceeded)
		},
		watch: func(ctx context.Context, opts Options) (Watch, error) {
			return watch, nil
		},
	}
	cache := NewCache(5 * time.Minute)
	a := NewAcquirer(provider, cache)

	got, err := a.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, coord, got)
	assert.True(t, watch.stopped, "watch must be released after the first fix")

	cached, ok := cache.Get()
	assert.True(t, ok)
	assert.Equal(t, coord, cached)
}

func TestAcquirer_StaleCacheRescue(t *testing.T) {
	coord := models.Coordinate{Lat: 40.7128, Lon: -74.006}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCache(5 * time.Minute)
	cache.now = func() time.Time { return now }
	cache.Set(coord)
	now = now.Add(time.Hour)

	provider := &scriptedProvider{}
	a := NewAcquirer(provider, cache)

	got, err := a.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, coord, got)
	assert.Equal(t, 1, provider.currentCalls, "expired cache must not satisfy the first step")
	assert.Equal(t, 1, provider.watchCalls)

	_, ok := cache.Get()
	assert.False(t, ok, "a stale rescue must not restamp the entry")
}

func TestAcquirer_ClassifiedErrorWhenNothingWorks(t *testing.T) {
	tests := []struct {
		name     string
		fastErr  error
		watchErr error
		want     ErrorKind
	}{
		{
			name:     "permission denial outranks timeout",
			fastErr:  newError(KindPermissionDenied, errors.New("user refused")),
			watchErr: newError(KindTimeout, context.DeadlineExceeded),
			want:     KindPermissionDenied,
		},
		{
			name:     "unavailable outranks timeout",
			fastErr:  newError(KindTimeout, context.DeadlineExceeded),
			watchErr: newError(KindUnavailable, errors.New("no signal")),
			want:     KindUnavailable,
		},
		{
			name:     "two timeouts stay a timeout",
			fastErr:  newError(KindTimeout, context.DeadlineExceeded),
			watchErr: newError(KindTimeout, context.DeadlineExceeded),
			want:     KindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedProvider{
				current: func(ctx context.Context, opts Options) (Position, error) {
					return Position{}, tt.fastErr
				},
				watch: func(ctx context.Context, opts Options) (Watch, error) {
					return nil, tt.watchErr
				},
			}
			a := NewAcquirer(provider, NewCache(5*time.Minute))

			_, err := a.Resolve(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))

			var le *Error
			require.ErrorAs(t, err, &le)
			assert.NotEmpty(t, le.Hint, "classified errors carry a user-facing hint")
		})
	}
}

func TestAcquirer_WatchErrorFix(t *testing.T) {
	watch := newFakeWatch(Fix{Err: newError(KindPermissionDenied, errors.New("user refused"))})
	provider := &scriptedProvider{
		watch: func(ctx context.Context, opts Options) (Watch, error) {
			return watch, nil
		},
	}
	a := NewAcquirer(provider, NewCache(5*time.Minute))

	_, err := a.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindPermissionDenied, KindOf(err))
	assert.True(t, watch.stopped, "watch must be released on error fixes too")
}

func TestAcquirer_WatchClosedWithoutFix(t *testing.T) {
	watch := newFakeWatch()
	close(watch.updates)
	provider := &scriptedProvider{
		watch: func(ctx context.Context, opts Options) (Watch, error) {
			return watch, nil
		},
	}
	a := NewAcquirer(provider, NewCache(time.Minute))

	_, err := a.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))
}
