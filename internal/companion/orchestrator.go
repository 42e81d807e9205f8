// Package companion coordinates one discovery run end to end: resolve the
// traveller's position, find nearby places, and annotate each one with its
// passport state.
package companion

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"wanderlens/internal/discovery"
	"wanderlens/internal/models"
)

// ErrBusy rejects a discovery request while another run is in flight. It is
// an expected outcome, not a failure: the caller simply already has a run
// going.
var ErrBusy = errors.New("companion: a discovery run is already active")

// State is the phase the orchestrator is currently in.
type State int32

const (
	StateIdle State = iota
	StateAcquiringLocation
	StateFetchingPlaces
	StateAnnotatingSaved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiringLocation:
		return "acquiring_location"
	case StateFetchingPlaces:
		return "fetching_places"
	case StateAnnotatingSaved:
		return "annotating_saved"
	default:
		return "unknown"
	}
}

// AnnotatedPlace pairs a discovered place with its passport state.
type AnnotatedPlace struct {
	models.PlaceCandidate
	Saved models.SavedStateFlag `json:"saved"`
}

// Result is the combined outcome of one discovery run.
type Result struct {
	Center      models.Coordinate `json:"center"`
	Attractions []AnnotatedPlace  `json:"attractions"`
	FoodSpots   []AnnotatedPlace  `json:"food_spots"`
	Elapsed     time.Duration     `json:"elapsed"`
}

// LocationResolver yields the traveller's current coordinate.
type LocationResolver interface {
	Resolve(ctx context.Context) (models.Coordinate, error)
}

// PlacesFinder looks up both place categories around a center.
type PlacesFinder interface {
	Find(ctx context.Context, center models.Coordinate) (discovery.Result, error)
}

// SavedStatusReader answers whether a candidate is already in the passport.
type SavedStatusReader interface {
	Status(candidate models.PlaceCandidate) models.SavedStateFlag
}

// Orchestrator sequences location acquisition, place discovery and passport
// annotation, admitting at most one run at a time.
type Orchestrator struct {
	locations LocationResolver
	places    PlacesFinder
	passport  SavedStatusReader

	active atomic.Bool
	state  atomic.Int32
	runSeq atomic.Int64
}

// NewOrchestrator wires the three capabilities together.
func NewOrchestrator(locations LocationResolver, places PlacesFinder, passport SavedStatusReader) *Orchestrator {
	return &Orchestrator{locations: locations, places: places, passport: passport}
}

// State reports the phase of the in-flight run, or StateIdle.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// DiscoverNearby performs one discovery run. A call while another run is
// active returns ErrBusy without side effects. Whatever happens, the
// orchestrator is back at StateIdle when this returns, so a failed run never
// blocks the next attempt.
func (o *Orchestrator) DiscoverNearby(ctx context.Context) (*Result, error) {
	if !o.active.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer func() {
		o.state.Store(int32(StateIdle))
		o.active.Store(false)
	}()

	started := time.Now()
	run := o.runSeq.Add(1)
	logger := log.With().Int64("run", run).Logger()

	o.state.Store(int32(StateAcquiringLocation))
	center, err := o.locations.Resolve(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("companion: could not resolve a position")
		return nil, err
	}

	o.state.Store(int32(StateFetchingPlaces))
	found, err := o.places.Find(ctx, center)
	if err != nil {
		logger.Error().Err(err).Msg("companion: discovery failed")
		return nil, err
	}

	o.state.Store(int32(StateAnnotatingSaved))
	result := &Result{
		Center:      center,
		Attractions: o.annotate(found.Attractions),
		FoodSpots:   o.annotate(found.FoodSpots),
		Elapsed:     time.Since(started),
	}

	logger.Info().
		Float64("lat", center.Lat).
		Float64("lon", center.Lon).
		Int("attractions", len(result.Attractions)).
		Int("food_spots", len(result.FoodSpots)).
		Dur("elapsed", result.Elapsed).
		Msg("companion: discovery complete")
	return result, nil
}

func (o *Orchestrator) annotate(candidates []models.PlaceCandidate) []AnnotatedPlace {
	out := make([]AnnotatedPlace, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, AnnotatedPlace{PlaceCandidate: c, Saved: o.passport.Status(c)})
	}
	return out
}
