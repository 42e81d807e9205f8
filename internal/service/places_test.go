package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wanderlens/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMapRepository is a mock implementation of the MapRepository interface
type MockMapRepository struct {
	mock.Mock
}

func (m *MockMapRepository) AttractionNodes(ctx context.Context, center models.Coordinate, radiusM int) ([]models.OSMNode, error) {
	args := m.Called(ctx, center, radiusM)
	var nodes []models.OSMNode
	if v := args.Get(0); v != nil {
		nodes = v.([]models.OSMNode)
	}
	return nodes, args.Error(1)
}

func (m *MockMapRepository) FoodNodes(ctx context.Context, center models.Coordinate, radiusM int) ([]models.OSMNode, error) {
	args := m.Called(ctx, center, radiusM)
	var nodes []models.OSMNode
	if v := args.Get(0); v != nil {
		nodes = v.([]models.OSMNode)
	}
	return nodes, args.Error(1)
}

func node(id int64, lat, lon float64, tags map[string]string) models.OSMNode {
	return models.OSMNode{ID: id, Lat: lat, Lon: lon, Tags: tags}
}

// The center sits at the Eiffel Tower; test nodes are offset north by known
// fractions of a degree (~111m per 0.001).
var testCenter = models.Coordinate{Lat: 48.8584, Lon: 2.2945}

func TestPlacesService_NearbyAttractions(t *testing.T) {
	mockRepo := new(MockMapRepository)
	mockRepo.On("AttractionNodes", mock.Anything, testCenter, 1000).Return([]models.OSMNode{
		node(1, 48.8624, 2.2945, map[string]string{"tourism": "museum", "name": "Louvre Museum", "addr:street": "Rue de Rivoli", "addr:city": "Paris"}),
		node(2, 48.8594, 2.2945, map[string]string{"tourism": "zoo", "name": "City Menagerie"}),
		node(3, 48.8594, 2.2945, map[string]string{"historic": "monument", "name": "Luxor Obelisk"}),
		node(4, 48.8604, 2.2945, map[string]string{"tourism": "attraction"}),
		node(5, 48.8594, 2.2945, map[string]string{"tourism": "museum", "name": "Musee Rodin", "description": "Sculpture garden"}),
		node(6, 48.8594, 2.2945, map[string]string{"historic": "castle", "name": "Vieux Chateau"}),
		node(7, 48.8604, 2.2945, map[string]string{"tourism": "gallery", "name": "Galerie Moderne"}),
		node(8, 48.8594, 2.2945, map[string]string{"tourism": "viewpoint", "name": "Butte Panorama"}),
	}, nil)

	svc := NewPlacesService(mockRepo)
	got, err := svc.NearbyAttractions(context.Background(), testCenter, 1000)
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"Musee Rodin",     // museum, 0.1 km
		"Galerie Moderne", // gallery, 0.2 km
		"Louvre Museum",   // museum, 0.4 km
		"Luxor Obelisk",   // monument tier
		"Butte Panorama",  // viewpoint tier
		"City Menagerie",  // unranked type, closest kept by the cap
	}, names, "priority tier first, closest first within a tier, capped at six")

	louvre := got[2]
	assert.Equal(t, "1", louvre.ID)
	assert.Equal(t, "museum", louvre.Type)
	assert.Equal(t, "Rue de Rivoli, Paris", louvre.Address)
	assert.InDelta(t, 0.4, louvre.DistanceKm, 1e-9)
	assert.InDelta(t, 5, louvre.WalkingMinutes, 1e-9)
	assert.Empty(t, louvre.Description)

	assert.Equal(t, "Sculpture garden", got[0].Description)
	assert.Equal(t, "Address not available", got[5].Address)

	mockRepo.AssertExpectations(t)
}

func TestPlacesService_NearbyFood(t *testing.T) {
	mockRepo := new(MockMapRepository)
	mockRepo.On("FoodNodes", mock.Anything, testCenter, 500).Return([]models.OSMNode{
		node(11, 48.8594, 2.2945, map[string]string{
			"amenity": "restaurant", "name": "Le Bon", "cuisine": "french;italian",
			"website": "https://lebon.example", "opening_hours": "Mo-Su 12:00-22:00", "description": "Cozy",
		}),
		node(12, 48.8594, 2.2945, map[string]string{"amenity": "fast_food", "name": "Quick Grease"}),
		node(13, 48.8594, 2.2945, map[string]string{"amenity": "restaurant", "name": "Torrefacteur", "cuisine": "coffee"}),
		node(14, 48.8604, 2.2945, map[string]string{"amenity": "bar", "name": "Dive Bar"}),
		node(15, 48.8624, 2.2945, map[string]string{"amenity": "cafe", "name": "Cafe Lumiere", "cuisine": "breakfast"}),
		node(16, 48.8594, 2.2945, map[string]string{"amenity": "restaurant"}),
	}, nil)

	svc := NewPlacesService(mockRepo)
	got, err := svc.NearbyFood(context.Background(), testCenter, 500)
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Le Bon", "Cafe Lumiere", "Dive Bar"}, names,
		"richer tags rank higher; fast food, coffee places and unnamed nodes are dropped")

	leBon := got[0]
	assert.Equal(t, "Restaurant", leBon.Type)
	assert.Equal(t, "French, Italian", leBon.Cuisine)
	assert.Equal(t, "Cuisine: French, Italian | Cozy", leBon.Description)
	assert.InDelta(t, 0.1, leBon.DistanceKm, 1e-9)
	assert.InDelta(t, 1, leBon.WalkingMinutes, 1e-9)

	assert.Equal(t, "Cafe", got[1].Type)
	assert.Equal(t, "Breakfast", got[1].Cuisine)
	assert.Equal(t, "Bar", got[2].Type)
	assert.Empty(t, got[2].Cuisine)
	assert.Empty(t, got[2].Description)

	mockRepo.AssertExpectations(t)
}

func TestPlacesService_FoodCapsAtSix(t *testing.T) {
	nodes := make([]models.OSMNode, 0, 7)
	for i := 1; i <= 7; i++ {
		nodes = append(nodes, node(int64(20+i), testCenter.Lat+float64(i)*0.001, testCenter.Lon,
			map[string]string{"amenity": "bar", "name": fmt.Sprintf("Bar %d", i)}))
	}

	mockRepo := new(MockMapRepository)
	mockRepo.On("FoodNodes", mock.Anything, testCenter, 1000).Return(nodes, nil)

	svc := NewPlacesService(mockRepo)
	got, err := svc.NearbyFood(context.Background(), testCenter, 1000)
	require.NoError(t, err)

	require.Len(t, got, 6)
	assert.Equal(t, "Bar 1", got[0].Name)
	assert.Equal(t, "Bar 6", got[5].Name, "the six nearest survive the cap")
}

func TestPlacesService_InvalidCenter(t *testing.T) {
	tests := []struct {
		name   string
		center models.Coordinate
	}{
		{name: "latitude too large", center: models.Coordinate{Lat: 91, Lon: 0}},
		{name: "longitude too small", center: models.Coordinate{Lat: 0, Lon: -181}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPlacesService(new(MockMapRepository))

			_, err := svc.NearbyAttractions(context.Background(), tt.center, 1000)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)

			_, err = svc.NearbyFood(context.Background(), tt.center, 1000)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestPlacesService_DefaultRadius(t *testing.T) {
	mockRepo := new(MockMapRepository)
	mockRepo.On("AttractionNodes", mock.Anything, testCenter, defaultRadiusM).Return([]models.OSMNode{}, nil)

	svc := NewPlacesService(mockRepo)
	_, err := svc.NearbyAttractions(context.Background(), testCenter, 0)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestPlacesService_RepositoryErrorIsWrapped(t *testing.T) {
	mockRepo := new(MockMapRepository)
	boom := errors.New("overpass down")
	mockRepo.On("FoodNodes", mock.Anything, testCenter, 1000).Return(nil, boom)

	svc := NewPlacesService(mockRepo)
	_, err := svc.NearbyFood(context.Background(), testCenter, 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to fetch food spots")
}
