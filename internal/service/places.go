package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"wanderlens/internal/geo"
	"wanderlens/internal/models"
)

const (
	// defaultRadiusM is the search radius when the caller gives none.
	defaultRadiusM = 1000
	// maxResults caps each category so the camera overlay stays scannable.
	maxResults = 6
)

// ErrInvalidCoordinate rejects an out-of-range center before any lookup.
var ErrInvalidCoordinate = errors.New("service: center coordinate out of range")

// PlacesService contains the core business logic for nearby place lookups:
// shaping raw map nodes into candidates, ranking them, and keeping only the
// best few per category.
type PlacesService struct {
	repo MapRepository
}

// MapRepository interface for dependency injection
type MapRepository interface {
	AttractionNodes(ctx context.Context, center models.Coordinate, radiusM int) ([]models.OSMNode, error)
	FoodNodes(ctx context.Context, center models.Coordinate, radiusM int) ([]models.OSMNode, error)
}

// NewPlacesService creates a new places service
func NewPlacesService(repo MapRepository) *PlacesService {
	return &PlacesService{repo: repo}
}

// attractionTypePriority ranks cultural heavyweights above generic sights.
var attractionTypePriority = map[string]int{
	"museum":     3,
	"gallery":    3,
	"monument":   2,
	"memorial":   2,
	"attraction": 1,
	"viewpoint":  1,
	"artwork":    1,
}

// NearbyAttractions returns the best-ranked named attractions around the
// center, closest first within a priority tier, capped at maxResults.
func (s *PlacesService) NearbyAttractions(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error) {
	if !center.Valid() {
		return nil, ErrInvalidCoordinate
	}
	if radiusM <= 0 {
		radiusM = defaultRadiusM
	}

	nodes, err := s.repo.AttractionNodes(ctx, center, radiusM)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch attractions: %w", err)
	}

	candidates := make([]models.PlaceCandidate, 0, len(nodes))
	for _, node := range nodes {
		name := strings.TrimSpace(node.Tag("name"))
		if name == "" {
			continue
		}

		c := shapeCandidate(node, center)
		c.Name = name
		c.Type = attractionType(node)
		c.Category = models.CategoryAttraction
		c.Description = node.Tag("description")
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := attractionTypePriority[candidates[i].Type], attractionTypePriority[candidates[j].Type]
		if pi != pj {
			return pi > pj
		}
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})
	return capResults(candidates), nil
}

// NearbyFood returns the best-ranked food spots around the center. Fast food
// and coffee places are filtered out; spots with richer tags (cuisine,
// website, opening hours) rank higher.
func (s *PlacesService) NearbyFood(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error) {
	if !center.Valid() {
		return nil, ErrInvalidCoordinate
	}
	if radiusM <= 0 {
		radiusM = defaultRadiusM
	}

	nodes, err := s.repo.FoodNodes(ctx, center, radiusM)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch food spots: %w", err)
	}

	candidates := make([]models.PlaceCandidate, 0, len(nodes))
	for _, node := range nodes {
		name := strings.TrimSpace(node.Tag("name"))
		if name == "" {
			continue
		}

		cuisine := titleCase(strings.ReplaceAll(node.Tag("cuisine"), ";", ", "))
		amenity := strings.ToLower(node.Tag("amenity"))
		if amenity == "fast_food" || strings.Contains(strings.ToLower(cuisine), "coffee") {
			continue
		}

		c := shapeCandidate(node, center)
		c.Name = name
		c.Type = titleCase(strings.ReplaceAll(amenity, "_", " "))
		c.Cuisine = cuisine
		c.Category = models.CategoryFood
		c.Description = foodDescription(cuisine, node.Tag("description"))
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := foodScore(candidates[i]), foodScore(candidates[j])
		if si != sj {
			return si > sj
		}
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})
	return capResults(candidates), nil
}

// shapeCandidate fills the fields every candidate shares: identity, position,
// address and the distance figures relative to the center.
func shapeCandidate(node models.OSMNode, center models.Coordinate) models.PlaceCandidate {
	meters := geo.DistanceMeters(center, models.Coordinate{Lat: node.Lat, Lon: node.Lon})
	return models.PlaceCandidate{
		ID:             strconv.FormatInt(node.ID, 10),
		Lat:            node.Lat,
		Lon:            node.Lon,
		Address:        formatAddress(node),
		DistanceKm:     geo.DistanceKm(meters),
		WalkingMinutes: geo.WalkingMinutes(meters),
		Website:        node.Tag("website"),
		OpeningHours:   node.Tag("opening_hours"),
	}
}

func formatAddress(node models.OSMNode) string {
	var parts []string
	for _, key := range []string{"addr:housenumber", "addr:street", "addr:city"} {
		if v := node.Tag(key); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "Address not available"
	}
	return strings.Join(parts, ", ")
}

func attractionType(node models.OSMNode) string {
	for _, key := range []string{"tourism", "historic", "amenity"} {
		if v := node.Tag(key); v != "" {
			return v
		}
	}
	return "attraction"
}

func foodDescription(cuisine, description string) string {
	var parts []string
	if cuisine != "" {
		parts = append(parts, "Cuisine: "+cuisine)
	}
	if description != "" {
		parts = append(parts, description)
	}
	return strings.Join(parts, " | ")
}

func foodScore(c models.PlaceCandidate) int {
	score := 0
	if c.Cuisine != "" {
		score += 2
	}
	if c.Website != "" {
		score++
	}
	if c.OpeningHours != "" {
		score++
	}
	return score
}

func capResults(candidates []models.PlaceCandidate) []models.PlaceCandidate {
	if len(candidates) > maxResults {
		return candidates[:maxResults]
	}
	return candidates
}

// titleCase uppercases the first letter of every word, like map tag values
// "french, italian" -> "French, Italian".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}
