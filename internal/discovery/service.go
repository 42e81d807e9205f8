package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"wanderlens/internal/models"
)

const (
	// DefaultRadiusM is the search radius when none is configured.
	DefaultRadiusM = 1000
	// categoryBudget bounds each category lookup independently.
	categoryBudget = 20 * time.Second
)

// ErrInvalidCoordinate rejects a lookup before any network work starts.
var ErrInvalidCoordinate = errors.New("discovery: center coordinate out of range")

// PlacesSource is the backend capability the service needs: one lookup per
// category, both honoring context cancellation.
type PlacesSource interface {
	Attractions(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error)
	FoodSpots(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error)
}

// Result carries both category lists. An empty list means either nothing
// nearby or a failed lookup; the two are deliberately indistinguishable so a
// flaky category never blocks the other from rendering.
type Result struct {
	Attractions []models.PlaceCandidate
	FoodSpots   []models.PlaceCandidate
}

// Service runs the two category lookups concurrently, each inside its own
// time budget, and degrades a failed category to an empty list.
type Service struct {
	source  PlacesSource
	radiusM int
	budget  time.Duration
}

// NewService creates a discovery service. A nonpositive radius falls back to
// DefaultRadiusM.
func NewService(source PlacesSource, radiusM int) *Service {
	if radiusM <= 0 {
		radiusM = DefaultRadiusM
	}
	return &Service{source: source, radiusM: radiusM, budget: categoryBudget}
}

// Find looks up both categories around center. It fails fast on an invalid
// center; category failures are logged and degraded, never returned.
func (s *Service) Find(ctx context.Context, center models.Coordinate) (Result, error) {
	if !center.Valid() {
		return Result{}, ErrInvalidCoordinate
	}

	var (
		wg          sync.WaitGroup
		attractions []models.PlaceCandidate
		food        []models.PlaceCandidate
		attrErr     error
		foodErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		attractions, attrErr = FetchWithTimeout(ctx, s.budget, "attractions lookup", func(ctx context.Context) ([]models.PlaceCandidate, error) {
			return s.source.Attractions(ctx, center, s.radiusM)
		})
	}()
	go func() {
		defer wg.Done()
		food, foodErr = FetchWithTimeout(ctx, s.budget, "food lookup", func(ctx context.Context) ([]models.PlaceCandidate, error) {
			return s.source.FoodSpots(ctx, center, s.radiusM)
		})
	}()
	wg.Wait()

	// Caller cancellation is not a category failure; it aborts the run.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if attrErr != nil {
		log.Warn().Err(attrErr).Msg("discovery: attractions lookup failed, continuing without")
		attractions = nil
	}
	if foodErr != nil {
		log.Warn().Err(foodErr).Msg("discovery: food lookup failed, continuing without")
		food = nil
	}

	return Result{Attractions: attractions, FoodSpots: food}, nil
}
